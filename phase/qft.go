package phase

import (
	"math/big"

	"github.com/quantverify/modsquare/circuit"
)

// iqft applies the inverse discrete Fourier transform over the register.
// The rotation ladder pairs with the weighting used by phaseAdd, so the
// transformed value reads out little-endian in register order with no final
// qubit swaps.
func (b *phaseBuilder) iqft(reg []circuit.Qubit) {
	for k, qk := range reg {
		b.emit(circuit.H(qk))
		for l := k + 1; l < len(reg); l++ {
			t := new(big.Rat).Neg(ratPow2(-(l - k)))
			b.emit(circuit.PhaseExp(t, qk, reg[l]))
		}
	}
}

// qft is the adjoint of iqft; the fast accumulation uses it to return the
// counter to the Fourier basis before uncomputing the tally.
func (b *phaseBuilder) qft(reg []circuit.Qubit) {
	for k := len(reg) - 1; k >= 0; k-- {
		for l := k + 1; l < len(reg); l++ {
			b.emit(circuit.PhaseExp(ratPow2(-(l-k)), reg[k], reg[l]))
		}
		b.emit(circuit.H(reg[k]))
	}
}
