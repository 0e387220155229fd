// Package circuit defines the data model shared by all circuit builders:
// qubit identifiers, bit registers, gates with exact rational phase exponents,
// and the Allocator issuing fresh non-overlapping identifiers.
//
// Registers are little-endian: Qubits[0] is the least significant bit.
// Qubit identifiers map one-to-one onto simulator wire indices in allocation
// order.
package circuit

import (
	"github.com/bits-and-blooms/bitset"
)

// Qubit identifies a single wire. Identifiers are issued sequentially by an
// Allocator and are unique within a circuit.
type Qubit int

// Register is an ordered sequence of qubit identifiers representing an
// unsigned integer in binary, least significant bit first.
type Register struct {
	Name   string
	Qubits []Qubit
}

// Width returns the bit count of the register.
func (r Register) Width() int { return len(r.Qubits) }

// Slice returns a sub-register aliasing bits [lo, hi) of r.
func (r Register) Slice(name string, lo, hi int) Register {
	return Register{Name: name, Qubits: r.Qubits[lo:hi]}
}

// Circuit is an ordered gate sequence together with the registers it operates
// on. Gate order is application order. Garbage marks the qubits left in an
// uncontrolled but deterministic state, to be measured and discarded by the
// outer protocol rather than uncomputed.
type Circuit struct {
	Registers []Register
	Gates     []Gate
	NbQubits  int
	Garbage   *bitset.BitSet

	// MaxAncillas is the peak number of simultaneously active ancilla qubits
	// during construction, before any were discarded.
	MaxAncillas int
}

// NbGates returns the number of gates in the circuit.
func (c *Circuit) NbGates() int { return len(c.Gates) }

// NbMeasurements returns the number of garbage qubits the outer protocol must
// measure and discard.
func (c *Circuit) NbMeasurements() int {
	if c.Garbage == nil {
		return 0
	}
	return int(c.Garbage.Count())
}

// Append adds gates to the end of the circuit.
func (c *Circuit) Append(gates ...Gate) {
	c.Gates = append(c.Gates, gates...)
}

// Validate checks that every gate references only declared qubits and that
// control and target sets are disjoint. It returns a *FormatError on the
// first violation.
func (c *Circuit) Validate() error {
	declared := bitset.New(uint(c.NbQubits))
	for _, r := range c.Registers {
		for _, q := range r.Qubits {
			declared.Set(uint(q))
		}
	}
	if int(declared.Count()) != c.NbQubits {
		return &FormatError{GateIndex: -1, Reason: "declared registers do not cover the qubit identifier space"}
	}
	for i := range c.Gates {
		if err := c.Gates[i].validate(i, c.NbQubits); err != nil {
			return err
		}
	}
	return nil
}
