package qubit

import (
	"fmt"
	"math/rand"

	"github.com/qkdlab/qkddemo/bb84/bitstring"
)

// A Simulated channel reproduces ideal BB84 measurement statistics without
// any quantum hardware. A qubit measured in its preparation basis reads back
// faithfully, while one measured in the conjugate basis collapses to a
// uniformly random outcome.
type Simulated struct {
	// Rand supplies the outcomes of conjugate-basis measurements.
	Rand *rand.Rand
}

// Transmit implements Channel.
func (s Simulated) Transmit(bits, sendBasis, recvBasis bitstring.Dense) (bitstring.Dense, error) {
	if err := checkLengths(bits, sendBasis, recvBasis); err != nil {
		return bitstring.Dense{}, err
	}
	// A wrong-basis measurement agrees with the sent bit half the time, so
	// inverting a random subset of the disagreeing positions yields the same
	// statistics as a per-qubit collapse.
	flips := bitstring.Random(bits.Size(), s.Rand).And(sendBasis.XOr(recvBasis))
	return bits.XOr(flips), nil
}

// A Noiseless channel reads every qubit back faithfully regardless of the
// measurement basis. Runs over it are fully deterministic, which makes it
// the channel of choice for walkthroughs and tests.
type Noiseless struct{}

// Transmit implements Channel.
func (Noiseless) Transmit(bits, sendBasis, recvBasis bitstring.Dense) (bitstring.Dense, error) {
	if err := checkLengths(bits, sendBasis, recvBasis); err != nil {
		return bitstring.Dense{}, err
	}
	return bits, nil
}

func checkLengths(bits, sendBasis, recvBasis bitstring.Dense) error {
	if bits.Size() != sendBasis.Size() || bits.Size() != recvBasis.Size() {
		return fmt.Errorf("bit and basis lengths must agree: %d bits, %d send bases, %d receive bases",
			bits.Size(), sendBasis.Size(), recvBasis.Size())
	}
	return nil
}
