package qubit

import (
	"fmt"
	"strings"

	"github.com/qkdlab/qkddemo/bb84/bitstring"
)

// A Gate is a single-qubit operation in a transmission circuit.
type Gate byte

const (
	// GateX flips a qubit from |0> to |1>.
	GateX Gate = 'X'
	// GateH rotates a qubit between the computational and Hadamard bases.
	GateH Gate = 'H'
	// GateM measures a qubit in the computational basis.
	GateM Gate = 'M'
)

// A Circuit is the gate-level picture of one quantum transmission: one wire
// per qubit, carrying the sender's encoding gates followed by the receiver's
// measurement.
type Circuit struct {
	wires [][]Gate
}

// BuildCircuit lays out the transmission of bits prepared in sendBasis and
// measured in recvBasis. Wire i carries an X gate when bits[i] is set, an H
// gate when sendBasis[i] selects the Hadamard basis, a second H gate when
// recvBasis[i] does, and finally a measurement.
func BuildCircuit(bits, sendBasis, recvBasis bitstring.Dense) (Circuit, error) {
	if err := checkLengths(bits, sendBasis, recvBasis); err != nil {
		return Circuit{}, err
	}
	c := Circuit{wires: make([][]Gate, bits.Size())}
	for i := 0; i < bits.Size(); i++ {
		var w []Gate
		if bits.Get(i) {
			w = append(w, GateX)
		}
		if sendBasis.Get(i) {
			w = append(w, GateH)
		}
		if recvBasis.Get(i) {
			w = append(w, GateH)
		}
		c.wires[i] = append(w, GateM)
	}
	return c, nil
}

// Wires returns the number of qubit wires in c.
func (c Circuit) Wires() int {
	return len(c.wires)
}

// Diagram renders c as an ASCII-art wire diagram, one line per qubit:
//
//	0: ───X───H───M───────
//	1: ───H───H───M───────
//	2: ───X───H───H───M───
func (c Circuit) Diagram() string {
	if len(c.wires) == 0 {
		return ""
	}
	gateStart := len(fmt.Sprintf("%d: ", len(c.wires)-1)) + 3
	maxGates := 0
	for _, w := range c.wires {
		if len(w) > maxGates {
			maxGates = len(w)
		}
	}
	width := gateStart + 4*maxGates

	var sb strings.Builder
	for i, w := range c.wires {
		if i > 0 {
			sb.WriteByte('\n')
		}
		label := fmt.Sprintf("%d: ", i)
		sb.WriteString(label)
		sb.WriteString(strings.Repeat("─", gateStart-len(label)))
		for _, g := range w {
			sb.WriteByte(byte(g))
			sb.WriteString("───")
		}
		sb.WriteString(strings.Repeat("─", width-gateStart-4*len(w)))
	}
	return sb.String()
}

// QASM renders c as an OpenQASM 2.0 program, gates in wire order followed by
// the measurements.
func (c Circuit) QASM() string {
	var sb strings.Builder
	sb.WriteString("OPENQASM 2.0;\n")
	sb.WriteString("include \"qelib1.inc\";\n\n")
	fmt.Fprintf(&sb, "qreg q[%d];\n", len(c.wires))
	fmt.Fprintf(&sb, "creg c[%d];\n\n", len(c.wires))
	for i, w := range c.wires {
		for _, g := range w {
			switch g {
			case GateX:
				fmt.Fprintf(&sb, "x q[%d];\n", i)
			case GateH:
				fmt.Fprintf(&sb, "h q[%d];\n", i)
			}
		}
	}
	for i := range c.wires {
		fmt.Fprintf(&sb, "measure q[%d] -> c[%d];\n", i, i)
	}
	return sb.String()
}
