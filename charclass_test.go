package langvm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCharClassMatches(t *testing.T) {
	cases := []struct {
		class CharClass
		yes   []rune
		no    []rune
	}{
		{ClassAlphabetic, []rune{'a', 'Z', 'é'}, []rune{'1', ' ', '#'}},
		{ClassAlphanumeric, []rune{'a', '9'}, []rune{' ', '#'}},
		{ClassControl, []rune{'\n', '\t'}, []rune{'a', ' '}},
		{ClassDigit, []rune{'0', '9'}, []rune{'a', ' '}},
		{ClassGraphic, []rune{'a', '#'}, []rune{'\n'}},
		{ClassLowercase, []rune{'a', 'z'}, []rune{'A', '1'}},
		{ClassPunctuation, []rune{'.', ','}, []rune{'a', ' '}},
		{ClassWhitespace, []rune{' ', '\t', '\n'}, []rune{'a'}},
		{ClassUppercase, []rune{'A', 'Z'}, []rune{'a', '1'}},
		{ClassHexDigit, []rune{'0', '9', 'a', 'f', 'A', 'F'}, []rune{'g', 'Z'}},
	}
	for _, tc := range cases {
		t.Run(string(rune(tc.class)), func(t *testing.T) {
			for _, r := range tc.yes {
				assert.True(t, tc.class.Matches(r), "%q should match %c", tc.class, r)
			}
			for _, r := range tc.no {
				assert.False(t, tc.class.Matches(r), "%q should not match %c", tc.class, r)
			}
		})
	}
}

func TestByteToCharClass(t *testing.T) {
	c, ok := byteToCharClass('d')
	assert.True(t, ok)
	assert.Equal(t, ClassDigit, c)

	_, ok = byteToCharClass('Z')
	assert.False(t, ok)
}

func TestCharClassString(t *testing.T) {
	assert.Equal(t, "d", ClassDigit.String())
}
