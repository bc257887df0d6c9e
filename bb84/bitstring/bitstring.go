// Package bitstring provides densely-packed sequences of bits, along with
// the text codec used to move messages in and out of bit form.
package bitstring

import (
	"bytes"
	"fmt"
	"math/bits"
	"math/rand"
	"strings"
)

const blockSize = 8

// A Dense is a bit sequence where every bit is explicitly represented,
// packed eight to a byte. The zero value is an empty sequence. Operations
// return copies; a Dense is never mutated after construction except by
// AppendBit during construction loops.
type Dense struct {
	bits []byte
	len  int
}

// NewDense returns a new Dense whose data is a copy of data and whose length
// is bitLen. If bitLen is longer than data, trailing zeros are added. If
// bitLen is negative, it is inferred from data.
func NewDense(data []byte, bitLen int) Dense {
	if bitLen < 0 {
		bitLen = len(data) * blockSize
	}
	b := make([]byte, BytesFor(bitLen))
	copy(b, data)
	d := Dense{bits: b, len: bitLen}
	d.clip()
	return d
}

// Empty returns an empty bit sequence.
func Empty() Dense {
	return Dense{}
}

// FromString converts a string of '1's and '0's to a Dense. Spaces are
// ignored, so callers may group digits for readability.
func FromString(s string) (Dense, error) {
	d := Dense{}
	for _, c := range s {
		switch c {
		case '1':
			d.AppendBit(true)
		case '0':
			d.AppendBit(false)
		case ' ':
			continue
		default:
			return Dense{}, fmt.Errorf("invalid bit string rep: %s", s)
		}
	}
	return d, nil
}

// Random returns a uniformly random bit sequence of n bits drawn from r.
func Random(n int, r *rand.Rand) Dense {
	buf := make([]byte, BytesFor(n))
	r.Read(buf)
	return NewDense(buf, n)
}

// Size returns the number of bits in d.
func (d Dense) Size() int {
	return d.len
}

// ByteSize returns the number of bytes necessary to represent d.
func (d Dense) ByteSize() int {
	return BytesFor(d.len)
}

// Data returns a copy of the bytes underlying d. Unused high bits of the
// final byte are zero.
func (d Dense) Data() []byte {
	return append([]byte(nil), d.bits...)
}

// Get returns the bit at idx. Bits beyond the end of d read as zero.
func (d Dense) Get(idx int) bool {
	if idx < 0 || idx >= d.len {
		return false
	}
	block := d.bits[idx/blockSize]
	return 0 < block&(1<<(idx%blockSize))
}

// AppendBit adds a single bit to the end of d.
func (d *Dense) AppendBit(bit bool) {
	pos := d.len % blockSize
	d.len++
	if pos == 0 {
		d.bits = append(d.bits, 0)
	}
	if bit {
		d.bits[len(d.bits)-1] |= 1 << pos
	}
}

// XOr computes a bitwise XOR operation between d and other. If one of the two
// is shorter than the other, then trailing 0s are implicitly added to make
// the sizes match.
func (d Dense) XOr(other Dense) Dense {
	short, long := other, d
	if d.len < other.len {
		short, long = d, other
	}
	r := Dense{
		bits: make([]byte, 0, long.ByteSize()),
		len:  long.len,
	}
	for i := range short.bits {
		r.bits = append(r.bits, short.bits[i]^long.bits[i])
	}
	for j := len(short.bits); j < len(long.bits); j++ {
		r.bits = append(r.bits, long.bits[j]) // 0^v == v
	}
	return r
}

// XNor computes a bitwise equality operation between d and other. If one of
// the two is shorter than the other, then trailing 0s are implicitly added to
// make the sizes match.
func (d Dense) XNor(other Dense) Dense {
	short, long := other, d
	if d.len < other.len {
		short, long = d, other
	}
	r := Dense{
		bits: make([]byte, 0, long.ByteSize()),
		len:  long.len,
	}
	for i := range short.bits {
		r.bits = append(r.bits, ^(short.bits[i] ^ long.bits[i]))
	}
	for j := len(short.bits); j < len(long.bits); j++ {
		r.bits = append(r.bits, ^long.bits[j]) // ~(0^v) == ~v
	}
	r.clip()
	return r
}

// And computes a bitwise AND operation between d and other. The result is
// truncated to the shorter of the two.
func (d Dense) And(other Dense) Dense {
	short := other
	if d.len < other.len {
		short = d
	}
	r := Dense{
		bits: make([]byte, 0, short.ByteSize()),
		len:  short.len,
	}
	for i := range short.bits {
		r.bits = append(r.bits, d.bits[i]&other.bits[i])
	}
	return r
}

// Select selects a subset of bits from d, according to which bits are set in
// mask, preserving their relative order.
func (d Dense) Select(mask Dense) Dense {
	var r Dense
	for i := 0; i < d.len; i++ {
		if !mask.Get(i) {
			continue
		}
		r.AppendBit(d.Get(i))
	}
	return r
}

// CountOnes returns the total number of bits set in d.
func (d Dense) CountOnes() int {
	var sum int
	for _, b := range d.bits {
		sum += bits.OnesCount8(b)
	}
	return sum
}

// Equal returns true iff d and other have the same length and contain the
// same bits.
func (d Dense) Equal(other Dense) bool {
	return d.len == other.len && bytes.Equal(d.bits, other.bits)
}

// String renders d as a string of '0' and '1' digits, first bit leftmost.
func (d Dense) String() string {
	var sb strings.Builder
	sb.Grow(d.len)
	for i := 0; i < d.len; i++ {
		if d.Get(i) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// BytesFor returns the number of bytes necessary to hold the provided number
// of bits.
func BytesFor(bits int) int {
	return (bits + blockSize - 1) / blockSize
}

// clip zeroes the unused high bits of the final byte, so that byte-level
// operations and comparisons never see stale data past the end of the
// sequence.
func (d *Dense) clip() {
	if off := d.len % blockSize; off != 0 && len(d.bits) > 0 {
		d.bits[len(d.bits)-1] &= 0xFF >> (blockSize - off)
	}
}
