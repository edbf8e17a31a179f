package langvm

import "github.com/sirupsen/logrus"

// MatcherConfig carries optional ambient behavior for a match run.
// The zero value is the default: no tracing, zero overhead beyond a
// nil check per instruction.
type MatcherConfig struct {
	// Trace, when non-nil, receives one Debug-level structured log
	// entry per dispatched instruction.
	Trace *logrus.Logger
}

func (vm *virtualMachine) trace(instr Instruction) {
	if vm.cfg.Trace == nil {
		return
	}
	vm.cfg.Trace.WithFields(logrus.Fields{
		"pc":            vm.ip,
		"op":            instr.Op().String(),
		"sp":            vm.sp,
		"success":       vm.success,
		"state_depth":   len(vm.states),
		"capture_depth": len(vm.captures),
	}).Debug("step")
}
