// Package bb84 provides a self-contained demonstration of negotiating a
// shared secret with the BB84 protocol and of using that secret as a
// repeating-key cipher.
package bb84

import (
	"errors"
	"math/rand"

	"github.com/qkdlab/qkddemo/bb84/qubit"
)

// DefaultKeySize is the number of qubits exchanged per negotiation when Opts
// leaves KeySize unset.
var DefaultKeySize = 16

var (
	// ErrEmptyKey indicates that sifting left no shared key bits to encrypt
	// with.
	ErrEmptyKey = errors.New("no shared key established")

	// ErrLengthMismatch indicates bit or basis sequences whose lengths were
	// expected to agree but do not.
	ErrLengthMismatch = errors.New("sequence lengths differ")
)

// An Opts packages together the arguments necessary to construct a new
// Exchange. Fields without reasonable defaults must be set, and leaving them
// to zero-initialize will result in New returning an error.
type Opts struct {
	// Channel carries qubits from the sender to the receiver. Must be
	// non-nil.
	Channel qubit.Channel

	// Rand provides the source of randomness for bit and basis choices. A
	// fixed seed makes an entire negotiation reproducible. Must be non-nil.
	Rand *rand.Rand

	// KeySize specifies the number of qubits to exchange per call to Run.
	// Defaults to DefaultKeySize.
	KeySize int

	// Eve, if set, interposes an intercept-resend eavesdropper on the
	// quantum channel: every qubit is measured in a random basis mid-flight
	// and re-prepared from the observed value.
	Eve bool
}

// New returns a new Exchange, configured in accordance with opts, or an
// error if the options are nonsensical.
func New(opts Opts) (*Exchange, error) {
	if opts.Channel == nil {
		return nil, errors.New("must provide Channel")
	}
	if opts.Rand == nil {
		return nil, errors.New("must provide Rand")
	}
	if opts.KeySize < 0 {
		return nil, errors.New("KeySize must be non-negative")
	}
	keySize := opts.KeySize
	if keySize == 0 {
		keySize = DefaultKeySize
	}
	return &Exchange{
		channel: opts.Channel,
		rand:    opts.Rand,
		keySize: keySize,
		eve:     opts.Eve,
	}, nil
}
