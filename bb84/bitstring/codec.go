package bitstring

import (
	"errors"
	"fmt"
	"strings"
)

const charBits = 8

// ErrUnsupportedChar is returned by FromText for characters whose code
// points do not fit in a single byte.
var ErrUnsupportedChar = errors.New("character code point beyond 8 bits")

// FromText encodes a text message as a bit sequence, expanding each
// character to the 8-bit big-endian encoding of its code point. Characters
// with code points above 255 have no 8-bit encoding and are rejected.
func FromText(s string) (Dense, error) {
	var d Dense
	for i, c := range s {
		if c > 0xFF {
			return Dense{}, fmt.Errorf("encoding %q at index %d: %w", c, i, ErrUnsupportedChar)
		}
		for shift := charBits - 1; shift >= 0; shift-- {
			d.AppendBit(c>>shift&1 == 1)
		}
	}
	return d, nil
}

// Text decodes d as a sequence of 8-bit character codes, inverting FromText.
func (d Dense) Text() (string, error) {
	if d.len%charBits != 0 {
		return "", fmt.Errorf("decoding text: length %d is not a multiple of %d", d.len, charBits)
	}
	var sb strings.Builder
	for i := 0; i < d.len; i += charBits {
		var c rune
		for j := 0; j < charBits; j++ {
			c <<= 1
			if d.Get(i + j) {
				c |= 1
			}
		}
		sb.WriteRune(c)
	}
	return sb.String(), nil
}
