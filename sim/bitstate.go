// Package sim provides the simulator collaborator for modsquare circuits: a
// polynomial-time simulator for the Toffoli-class gates emitted by the digital
// builders, and a dense state-vector simulator for phase circuits.
//
// Gate order in a circuit is application order; qubit identifiers are wire
// indices.
package sim

import (
	"math/big"

	"github.com/bits-and-blooms/bitset"
	"github.com/quantverify/modsquare/circuit"
)

// BitState holds a computational-basis state, one bit per qubit.
type BitState struct {
	bits *bitset.BitSet
}

// NewBitState returns the all-zero state over nbQubits wires.
func NewBitState(nbQubits int) *BitState {
	return &BitState{bits: bitset.New(uint(nbQubits))}
}

// Clone returns a deep copy of the state.
func (s *BitState) Clone() *BitState {
	return &BitState{bits: s.bits.Clone()}
}

// Bit returns the value of qubit q.
func (s *BitState) Bit(q circuit.Qubit) uint {
	if s.bits.Test(uint(q)) {
		return 1
	}
	return 0
}

// Flip inverts qubit q.
func (s *BitState) Flip(q circuit.Qubit) {
	s.bits.Flip(uint(q))
}

// SetInt stores x into the register, least significant bit first. It panics if
// x does not fit.
func (s *BitState) SetInt(r circuit.Register, x *big.Int) {
	if x.BitLen() > r.Width() {
		panic("sim: integer too large for register")
	}
	for i, q := range r.Qubits {
		s.bits.SetTo(uint(q), x.Bit(i) == 1)
	}
}

// SetUint64 stores x into the register, least significant bit first.
func (s *BitState) SetUint64(r circuit.Register, x uint64) {
	s.SetInt(r, new(big.Int).SetUint64(x))
}

// Int reads the register as an unsigned integer.
func (s *BitState) Int(r circuit.Register) *big.Int {
	x := new(big.Int)
	for i, q := range r.Qubits {
		if s.bits.Test(uint(q)) {
			x.SetBit(x, i, 1)
		}
	}
	return x
}

// Uint64 reads the register as a uint64. It panics if the value does not fit.
func (s *BitState) Uint64(r circuit.Register) uint64 {
	x := s.Int(r)
	if !x.IsUint64() {
		panic("sim: register value exceeds uint64")
	}
	return x.Uint64()
}
