package langvm

import (
	"fmt"
	"strings"
)

// Disassemble renders b as one mnemonic-and-operands line per
// instruction, address-prefixed the way the teacher's assembly dump
// does it, but with no ANSI theming — this is the minimal plain-text
// form, not the colorized pretty-printer spec.md's scope excludes.
func Disassemble(b *Bytecode) string {
	var sb strings.Builder
	d := NewDecoder(b.Bytes())
	for {
		addr := d.Offset()
		instr, _, ok := d.Next()
		if !ok {
			break
		}
		fmt.Fprintf(&sb, "%06d  %s", addr, instr.Op())
		writeOperands(&sb, instr)
		sb.WriteByte('\n')
		if h, isHalt := instr.(IHalt); isHalt && h.Err != nil {
			break
		}
	}
	return sb.String()
}

func writeOperands(sb *strings.Builder, instr Instruction) {
	switch ins := instr.(type) {
	case IFailIfLessThan:
		fmt.Fprintf(sb, " %d", ins.N)
	case IByte:
		fmt.Fprintf(sb, " 0x%02x", ins.B)
	case ICapture:
		fmt.Fprintf(sb, " %d", ins.ID)
	case IClass:
		fmt.Fprintf(sb, " %s", ins.Class)
	case IJump:
		fmt.Fprintf(sb, " %06d", ins.Target)
	case IJumpIfFail:
		fmt.Fprintf(sb, " %06d", ins.Target)
	case IJumpIfSuccess:
		fmt.Fprintf(sb, " %06d", ins.Target)
	case ICall:
		fmt.Fprintf(sb, " %06d", ins.Target)
	case ILiteral:
		fmt.Fprintf(sb, " %q", ins.S)
	case ISet:
		fmt.Fprintf(sb, " %q", ins.S)
	case INotSet:
		fmt.Fprintf(sb, " %q", ins.S)
	case IRange:
		fmt.Fprintf(sb, " %02x-%02x", ins.Lo, ins.Hi)
	case IChar:
		fmt.Fprintf(sb, " %q", ins.C)
	case IHalt:
		if ins.Err != nil {
			fmt.Fprintf(sb, " %v", ins.Err)
		}
	}
}
