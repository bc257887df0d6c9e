// Package qubit models the quantum layer of a BB84 exchange: preparing
// qubits in a chosen basis, transmitting them, and measuring them in a
// possibly different basis.
package qubit

import (
	"github.com/qkdlab/qkddemo/bb84/bitstring"
)

// A Channel carries qubits from a sender to a receiver.
type Channel interface {
	// Transmit sends one qubit per bit of bits. Qubit i encodes bits[i] in
	// sendBasis[i] and is measured on arrival in recvBasis[i], where a basis
	// bit selects between the computational basis (0) and the Hadamard basis
	// (1). The returned sequence holds the measurement outcomes.
	Transmit(bits, sendBasis, recvBasis bitstring.Dense) (bitstring.Dense, error)
}
