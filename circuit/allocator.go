package circuit

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/quantverify/modsquare/debug"
)

// Allocator issues fresh, non-overlapping qubit identifiers to builders.
// Passing one allocator through every builder call guarantees independently
// composed sub-circuits never collide on a qubit.
//
// Ancillas follow the relaxed correctness model of the surrounding protocol:
// Discard marks an ancilla as garbage to be measured and thrown away by the
// outer protocol, and the allocator keeps count instead of requiring
// uncomputation.
type Allocator struct {
	next      Qubit
	registers []Register
	ancillas  []Qubit
	garbage   *bitset.BitSet

	active    int
	maxActive int
}

// NewAllocator returns an empty allocator.
func NewAllocator() *Allocator {
	return &Allocator{garbage: bitset.New(64)}
}

// NewRegister declares a named register of the given width and allocates
// fresh identifiers for it.
func (a *Allocator) NewRegister(name string, width int) (Register, error) {
	if width < 1 {
		return Register{}, NewConfigError("register %q: width must be >= 1, got %d", name, width)
	}
	r := Register{Name: name, Qubits: make([]Qubit, width)}
	for i := range r.Qubits {
		r.Qubits[i] = a.next
		a.next++
	}
	a.registers = append(a.registers, r)
	return r, nil
}

// Ancilla allocates a single fresh ancilla qubit.
func (a *Allocator) Ancilla() Qubit {
	q := a.next
	a.next++
	a.ancillas = append(a.ancillas, q)
	a.setActive(a.active + 1)
	return q
}

// AncillaRegister allocates n fresh ancilla qubits.
func (a *Allocator) AncillaRegister(n int) []Qubit {
	qs := make([]Qubit, n)
	for i := range qs {
		qs[i] = a.next
		a.next++
	}
	a.ancillas = append(a.ancillas, qs...)
	a.setActive(a.active + n)
	return qs
}

// Discard marks ancillas as garbage. They keep their (deterministic) value;
// the outer protocol measures and discards them.
func (a *Allocator) Discard(qs ...Qubit) {
	for _, q := range qs {
		debug.Assert(!a.garbage.Test(uint(q)), "ancilla discarded twice")
		a.garbage.Set(uint(q))
	}
	a.setActive(a.active - len(qs))
	debug.Assert(a.active >= 0, "more ancillas discarded than allocated")
}

// AllDiscarded reports whether every allocated ancilla has been discarded.
// Builders use it as a leak check after assembling a circuit.
func (a *Allocator) AllDiscarded() bool { return a.active == 0 }

// NbActive returns the number of not-yet-discarded ancillas.
func (a *Allocator) NbActive() int { return a.active }

// MaxAncillas returns the peak number of simultaneously active ancillas.
func (a *Allocator) MaxAncillas() int { return a.maxActive }

// NbQubits returns the total number of identifiers issued so far.
func (a *Allocator) NbQubits() int { return int(a.next) }

func (a *Allocator) setActive(n int) {
	a.active = n
	if n > a.maxActive {
		a.maxActive = n
	}
}

// Assemble packages the gate sequence into a Circuit, declaring the named
// registers plus a single register covering all ancillas.
func (a *Allocator) Assemble(gates []Gate) *Circuit {
	regs := make([]Register, len(a.registers), len(a.registers)+1)
	copy(regs, a.registers)
	if len(a.ancillas) > 0 {
		anc := make([]Qubit, len(a.ancillas))
		copy(anc, a.ancillas)
		regs = append(regs, Register{Name: "anc", Qubits: anc})
	}
	return &Circuit{
		Registers:   regs,
		Gates:       gates,
		NbQubits:    int(a.next),
		Garbage:     a.garbage.Clone(),
		MaxAncillas: a.maxActive,
	}
}
