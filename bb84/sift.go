package bb84

import (
	"fmt"

	"github.com/qkdlab/qkddemo/bb84/bitstring"
)

// Sift discards the positions of a key negotiation where the sender and
// receiver measured in different bases. It returns the sender's and
// receiver's sifted keys, which have equal length and preserve the relative
// order of the surviving positions.
func Sift(sent, measured, sendBasis, recvBasis bitstring.Dense) (senderKey, receiverKey bitstring.Dense, err error) {
	if sent.Size() != measured.Size() || sent.Size() != sendBasis.Size() || sent.Size() != recvBasis.Size() {
		return bitstring.Dense{}, bitstring.Dense{}, fmt.Errorf(
			"%w: %d sent, %d measured, %d send bases, %d receive bases",
			ErrLengthMismatch, sent.Size(), measured.Size(), sendBasis.Size(), recvBasis.Size())
	}
	mask := sendBasis.XNor(recvBasis)
	return sent.Select(mask), measured.Select(mask), nil
}

// XOR combines data with a repeating key, bit by bit. Applying it twice with
// the same key returns the original data, so the one function serves as both
// encryption and decryption.
func XOR(data, key bitstring.Dense) (bitstring.Dense, error) {
	if key.Size() == 0 {
		return bitstring.Dense{}, fmt.Errorf("%w: sifting left no usable bits", ErrEmptyKey)
	}
	var out bitstring.Dense
	for i := 0; i < data.Size(); i++ {
		out.AppendBit(data.Get(i) != key.Get(i%key.Size()))
	}
	return out, nil
}
