// Package scenario loads demonstration-run descriptions from TOML files.
package scenario

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/qkdlab/qkddemo/bb84"
)

// A Scenario describes one demonstration run: the message to carry and the
// shape of the key negotiation protecting it.
type Scenario struct {
	// Message is the text to encrypt and recover. Must be set.
	Message string

	// KeySize is the number of qubits exchanged per negotiation. Defaults to
	// bb84.DefaultKeySize.
	KeySize int

	// Eve interposes an eavesdropper on the quantum channel.
	Eve bool

	// Repetitions is the number of negotiations to run. Defaults to 1.
	Repetitions int

	// Seed is the PRNG seed for the run. Scenarios are reproducible by
	// default; set a negative Seed to draw one from the clock instead.
	Seed int64
}

// FixupAndValidate applies defaults to unset fields and checks the rest for
// sanity.
func (s *Scenario) FixupAndValidate() error {
	if s.KeySize == 0 {
		s.KeySize = bb84.DefaultKeySize
	}
	if s.Repetitions == 0 {
		s.Repetitions = 1
	}
	if s.Message == "" {
		return errors.New("scenario: Message is not set")
	}
	if s.KeySize < 0 {
		return errors.New("scenario: KeySize must be positive")
	}
	if s.Repetitions < 0 {
		return errors.New("scenario: Repetitions must be positive")
	}
	return nil
}

// Load parses and validates the provided buffer b as a scenario file body
// and returns the Scenario.
func Load(b []byte) (*Scenario, error) {
	sc := new(Scenario)
	md, err := toml.Decode(string(b), sc)
	if err != nil {
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) != 0 {
		return nil, fmt.Errorf("scenario: Undecoded keys in scenario file: %v", undecoded)
	}
	if err := sc.FixupAndValidate(); err != nil {
		return nil, err
	}
	return sc, nil
}

// LoadFile loads, parses and validates the provided file and returns the
// Scenario.
func LoadFile(f string) (*Scenario, error) {
	b, err := os.ReadFile(f)
	if err != nil {
		return nil, err
	}
	return Load(b)
}
