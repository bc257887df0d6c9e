package bb84

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/qkdlab/qkddemo/bb84/bitstring"
	"github.com/qkdlab/qkddemo/bb84/qubit"
)

// An Exchange negotiates shared keys between a simulated sender and
// receiver, optionally with an eavesdropper interposed on the quantum
// channel.
type Exchange struct {
	channel qubit.Channel
	rand    *rand.Rand
	keySize int
	eve     bool

	// Overridable for tests.
	bitsFunc      func() bitstring.Dense
	sendBasisFunc func() bitstring.Dense
	recvBasisFunc func() bitstring.Dense
	eveBasisFunc  func() bitstring.Dense
}

// A Negotiation records the complete artifacts of one key-negotiation round.
type Negotiation struct {
	// ID identifies this round in logs.
	ID uuid.UUID

	// SenderBits and SenderBasis are the sender's random draws.
	// ReceiverBasis is the receiver's basis draw and ReceiverBits the
	// outcomes it measured.
	SenderBits    bitstring.Dense
	SenderBasis   bitstring.Dense
	ReceiverBasis bitstring.Dense
	ReceiverBits  bitstring.Dense

	// EveBasis and EveBits are the eavesdropper's basis draw and measurement
	// outcomes. Both are empty when no eavesdropper was interposed.
	EveBasis bitstring.Dense
	EveBits  bitstring.Dense

	// Circuits describes the quantum transmissions gate by gate: a single
	// circuit normally, or the two legs around the eavesdropper.
	Circuits []qubit.Circuit

	// SenderKey and ReceiverKey are the sifted keys. They agree unless
	// something disturbed the qubits in flight.
	SenderKey   bitstring.Dense
	ReceiverKey bitstring.Dense

	Stats Stats
}

// Run performs one round of BB84 key negotiation: the sender draws random
// bits and bases, the qubits cross the channel, the receiver measures in its
// own random bases, and both sides sift on basis agreement. Mismatched keys
// are reported in the returned Stats but do not fail the round.
func (e *Exchange) Run() (*Negotiation, error) {
	n := &Negotiation{ID: uuid.New()}
	entry := log.WithField("round", n.ID)
	entry.WithFields(log.Fields{"key_size": e.keySize, "eve": e.eve}).Debugln("negotiating key")

	n.SenderBits = e.draw(e.bitsFunc)
	n.SenderBasis = e.draw(e.sendBasisFunc)
	n.ReceiverBasis = e.draw(e.recvBasisFunc)

	var err error
	if e.eve {
		err = e.interceptResend(n)
	} else {
		err = e.direct(n)
	}
	if err != nil {
		return nil, err
	}

	n.SenderKey, n.ReceiverKey, err = Sift(n.SenderBits, n.ReceiverBits, n.SenderBasis, n.ReceiverBasis)
	if err != nil {
		return nil, err
	}
	n.Stats = newStats(n.SenderKey, n.ReceiverKey)

	if n.Stats.Interference {
		entry.WithFields(log.Fields{
			"mismatches": n.Stats.Mismatches,
			"qber":       n.Stats.QBER,
		}).Warnln("sender and receiver keys differ, continuing anyway")
	} else {
		entry.WithField("sifted_bits", n.Stats.SiftedBits).Debugln("sender and receiver keys agree")
	}
	return n, nil
}

// direct carries the qubits straight from sender to receiver.
func (e *Exchange) direct(n *Negotiation) error {
	c, err := qubit.BuildCircuit(n.SenderBits, n.SenderBasis, n.ReceiverBasis)
	if err != nil {
		return fmt.Errorf("laying out transmission: %w", err)
	}
	n.Circuits = []qubit.Circuit{c}
	n.ReceiverBits, err = e.channel.Transmit(n.SenderBits, n.SenderBasis, n.ReceiverBasis)
	if err != nil {
		return fmt.Errorf("transmitting qubits: %w", err)
	}
	return nil
}

// interceptResend routes the qubits through an eavesdropper who measures
// each one in a random basis and re-prepares it from the observed value.
func (e *Exchange) interceptResend(n *Negotiation) error {
	n.EveBasis = e.draw(e.eveBasisFunc)
	c1, err := qubit.BuildCircuit(n.SenderBits, n.SenderBasis, n.EveBasis)
	if err != nil {
		return fmt.Errorf("laying out intercepted transmission: %w", err)
	}
	n.EveBits, err = e.channel.Transmit(n.SenderBits, n.SenderBasis, n.EveBasis)
	if err != nil {
		return fmt.Errorf("transmitting qubits to eavesdropper: %w", err)
	}
	c2, err := qubit.BuildCircuit(n.EveBits, n.EveBasis, n.ReceiverBasis)
	if err != nil {
		return fmt.Errorf("laying out resent transmission: %w", err)
	}
	n.ReceiverBits, err = e.channel.Transmit(n.EveBits, n.EveBasis, n.ReceiverBasis)
	if err != nil {
		return fmt.Errorf("resending qubits to receiver: %w", err)
	}
	n.Circuits = []qubit.Circuit{c1, c2}
	return nil
}

func (e *Exchange) draw(override func() bitstring.Dense) bitstring.Dense {
	if override != nil {
		return override()
	}
	return bitstring.Random(e.keySize, e.rand)
}

// EncryptText encodes msg as bits and encrypts it with the sender's sifted
// key.
func (n *Negotiation) EncryptText(msg string) (bitstring.Dense, error) {
	bits, err := bitstring.FromText(msg)
	if err != nil {
		return bitstring.Dense{}, fmt.Errorf("encoding message: %w", err)
	}
	return XOR(bits, n.SenderKey)
}

// DecryptText decrypts ciphertext with the receiver's sifted key and decodes
// the result as text.
func (n *Negotiation) DecryptText(ciphertext bitstring.Dense) (string, error) {
	bits, err := XOR(ciphertext, n.ReceiverKey)
	if err != nil {
		return "", err
	}
	return bits.Text()
}
