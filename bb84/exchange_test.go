package bb84

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/qkdlab/qkddemo/bb84/bitstring"
	"github.com/qkdlab/qkddemo/bb84/qubit"
)

// flipFirst inverts the first qubit of every transmission, regardless of
// basis choices.
type flipFirst struct{}

func (flipFirst) Transmit(bits, sendBasis, recvBasis bitstring.Dense) (bitstring.Dense, error) {
	one, err := bitstring.FromString("1")
	if err != nil {
		return bitstring.Dense{}, err
	}
	return bits.XOr(one), nil
}

func constDense(t *testing.T, s string) func() bitstring.Dense {
	t.Helper()
	d := mustDense(t, s)
	return func() bitstring.Dense { return d }
}

func TestNewValidation(t *testing.T) {
	tcs := []struct {
		name    string
		opts    Opts
		wantErr bool
	}{{
		name:    "missing channel",
		opts:    Opts{Rand: rand.New(rand.NewSource(42))},
		wantErr: true,
	}, {
		name:    "missing rand",
		opts:    Opts{Channel: qubit.Noiseless{}},
		wantErr: true,
	}, {
		name: "negative key size",
		opts: Opts{
			Channel: qubit.Noiseless{},
			Rand:    rand.New(rand.NewSource(42)),
			KeySize: -8,
		},
		wantErr: true,
	}, {
		name: "valid",
		opts: Opts{
			Channel: qubit.Noiseless{},
			Rand:    rand.New(rand.NewSource(42)),
		},
	}}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			e, err := New(tc.opts)
			if gotErr := err != nil; gotErr != tc.wantErr {
				t.Fatalf("New == %v, want error: %t", err, tc.wantErr)
			}
			if err == nil && e.keySize != DefaultKeySize {
				t.Errorf("keySize == %d, want default %d", e.keySize, DefaultKeySize)
			}
		})
	}
}

func TestRunNoiselessRoundTrip(t *testing.T) {
	e, err := New(Opts{
		Channel: qubit.Noiseless{},
		Rand:    rand.New(rand.NewSource(42)),
		KeySize: 64,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	n, err := e.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !n.SenderKey.Equal(n.ReceiverKey) {
		t.Fatalf("keys differ over a noiseless channel: %s vs %s", n.SenderKey, n.ReceiverKey)
	}
	if n.Stats.Interference {
		t.Errorf("Interference == true, want false")
	}
	if len(n.Circuits) != 1 {
		t.Errorf("len(Circuits) == %d, want 1", len(n.Circuits))
	}

	const msg = "Hello Quantum Key Distribution"
	enc, err := n.EncryptText(msg)
	if err != nil {
		t.Fatalf("EncryptText: %v", err)
	}
	got, err := n.DecryptText(enc)
	if err != nil {
		t.Fatalf("DecryptText: %v", err)
	}
	if got != msg {
		t.Errorf("DecryptText == %q, want %q", got, msg)
	}
}

func TestRunMatchedBases(t *testing.T) {
	e, err := New(Opts{
		Channel: qubit.Noiseless{},
		Rand:    rand.New(rand.NewSource(1337)),
		KeySize: 4,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	e.bitsFunc = constDense(t, "1011")
	e.sendBasisFunc = constDense(t, "0110")
	e.recvBasisFunc = constDense(t, "0110")

	n, err := e.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if eout := mustDense(t, "1011"); !n.ReceiverBits.Equal(eout) {
		t.Errorf("ReceiverBits == %s, want %s", n.ReceiverBits, eout)
	}
	if eout := mustDense(t, "1011"); !n.SenderKey.Equal(eout) {
		t.Errorf("SenderKey == %s, want %s", n.SenderKey, eout)
	}
	if eout := mustDense(t, "1011"); !n.ReceiverKey.Equal(eout) {
		t.Errorf("ReceiverKey == %s, want %s", n.ReceiverKey, eout)
	}
}

func TestRunDisjointBasesEmptyKey(t *testing.T) {
	e, err := New(Opts{
		Channel: qubit.Noiseless{},
		Rand:    rand.New(rand.NewSource(17)),
		KeySize: 1,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	e.sendBasisFunc = constDense(t, "0")
	e.recvBasisFunc = constDense(t, "1")

	n, err := e.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if n.SenderKey.Size() != 0 || n.ReceiverKey.Size() != 0 {
		t.Fatalf("sifted keys have %d and %d bits, want empty", n.SenderKey.Size(), n.ReceiverKey.Size())
	}
	if n.Stats.Interference {
		t.Errorf("Interference == true for equal empty keys, want false")
	}
	if _, err := n.EncryptText("Hi"); !errors.Is(err, ErrEmptyKey) {
		t.Errorf("EncryptText == %v, want ErrEmptyKey", err)
	}
	if _, err := n.DecryptText(mustDense(t, "01001000")); !errors.Is(err, ErrEmptyKey) {
		t.Errorf("DecryptText == %v, want ErrEmptyKey", err)
	}
}

func TestHiOverSixteenQubits(t *testing.T) {
	e, err := New(Opts{
		Channel: qubit.Noiseless{},
		Rand:    rand.New(rand.NewSource(1337)),
		KeySize: 16,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	basis := "0110100101101001"
	e.sendBasisFunc = constDense(t, basis)
	e.recvBasisFunc = constDense(t, basis)

	n, err := e.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if n.Stats.Interference {
		t.Errorf("Interference == true, want false")
	}
	if n.SenderKey.Size() != 16 {
		t.Errorf("SenderKey has %d bits, want 16", n.SenderKey.Size())
	}
	enc, err := n.EncryptText("Hi")
	if err != nil {
		t.Fatalf("EncryptText: %v", err)
	}
	got, err := n.DecryptText(enc)
	if err != nil {
		t.Fatalf("DecryptText: %v", err)
	}
	if got != "Hi" {
		t.Errorf("DecryptText == %q, want %q", got, "Hi")
	}
}

func TestRunEavesdropperDisturbs(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	e, err := New(Opts{
		Channel: qubit.Simulated{Rand: r},
		Rand:    r,
		KeySize: 64,
		Eve:     true,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	interfered := 0
	for i := 0; i < 50; i++ {
		n, err := e.Run()
		if err != nil {
			t.Fatalf("Run %d: %v", i, err)
		}
		if n.EveBits.Size() != 64 || n.EveBasis.Size() != 64 {
			t.Fatalf("eavesdropper artifacts have %d and %d bits, want 64", n.EveBits.Size(), n.EveBasis.Size())
		}
		if len(n.Circuits) != 2 {
			t.Fatalf("len(Circuits) == %d, want 2", len(n.Circuits))
		}
		if n.Stats.Interference {
			interfered++
		}
	}
	if interfered == 0 {
		t.Errorf("no interference detected across 50 eavesdropped rounds, want some")
	}
}

func TestRunDeterministic(t *testing.T) {
	run := func() *Negotiation {
		e, err := New(Opts{
			Channel: qubit.Simulated{Rand: rand.New(rand.NewSource(99))},
			Rand:    rand.New(rand.NewSource(42)),
			KeySize: 32,
			Eve:     true,
		})
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		n, err := e.Run()
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		return n
	}
	a, b := run(), run()
	if !a.SenderBits.Equal(b.SenderBits) {
		t.Errorf("same-seed sender bits differ: %s vs %s", a.SenderBits, b.SenderBits)
	}
	if !a.SenderKey.Equal(b.SenderKey) {
		t.Errorf("same-seed sender keys differ: %s vs %s", a.SenderKey, b.SenderKey)
	}
	if !a.ReceiverKey.Equal(b.ReceiverKey) {
		t.Errorf("same-seed receiver keys differ: %s vs %s", a.ReceiverKey, b.ReceiverKey)
	}
}

func TestRunRecordsDisturbanceStats(t *testing.T) {
	e, err := New(Opts{
		Channel: flipFirst{},
		Rand:    rand.New(rand.NewSource(42)),
		KeySize: 8,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	basis := strings.Repeat("0", 8)
	e.sendBasisFunc = constDense(t, basis)
	e.recvBasisFunc = constDense(t, basis)

	n, err := e.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := Stats{SiftedBits: 8, Mismatches: 1, QBER: 0.125, Interference: true}
	if n.Stats != want {
		t.Errorf("Stats == %+v, want %+v", n.Stats, want)
	}
}

func TestEncryptTextRejectsWideChars(t *testing.T) {
	e, err := New(Opts{
		Channel: qubit.Noiseless{},
		Rand:    rand.New(rand.NewSource(42)),
		KeySize: 8,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	basis := strings.Repeat("0", 8)
	e.sendBasisFunc = constDense(t, basis)
	e.recvBasisFunc = constDense(t, basis)
	n, err := e.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, err := n.EncryptText("π"); !errors.Is(err, bitstring.ErrUnsupportedChar) {
		t.Errorf("EncryptText == %v, want ErrUnsupportedChar", err)
	}
}
