package sim

import (
	"fmt"

	"github.com/quantverify/modsquare/circuit"
)

// The digital builders emit only bit flips and (multi-)controlled bit flips,
// so their circuits can be simulated in polynomial time on basis states even
// for hundreds of qubits.

// ApplyClassical applies a single Toffoli-class gate to a basis state. It
// returns an error for gate kinds that create superposition.
func ApplyClassical(g *circuit.Gate, st *BitState) error {
	switch g.Kind {
	case circuit.GateX, circuit.GateCX, circuit.GateCCX:
		for _, c := range g.Controls {
			if st.Bit(c) == 0 {
				return nil
			}
		}
		st.Flip(g.Target)
		return nil
	default:
		return fmt.Errorf("unsupported gate type %q in classical simulation", g.Kind)
	}
}

// RunClassical applies every gate of the circuit, in order, to the given
// basis state.
func RunClassical(c *circuit.Circuit, st *BitState) error {
	for i := range c.Gates {
		if err := ApplyClassical(&c.Gates[i], st); err != nil {
			return fmt.Errorf("gate %d: %w", i, err)
		}
	}
	return nil
}
