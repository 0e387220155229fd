package sim

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/quantverify/modsquare/circuit"
)

// StateVector is a dense 2^n amplitude vector. Basis-state index bit q is the
// value of qubit q, matching the little-endian register convention.
type StateVector struct {
	amps     []complex128
	nbQubits int
}

// NewStateVector returns |0...0> over nbQubits wires.
func NewStateVector(nbQubits int) *StateVector {
	amps := make([]complex128, 1<<nbQubits)
	amps[0] = 1
	return &StateVector{amps: amps, nbQubits: nbQubits}
}

// NbQubits returns the number of wires.
func (s *StateVector) NbQubits() int { return s.nbQubits }

// PrepareBasis resets the state to the basis state in which the given register
// holds x and all other qubits are zero.
func (s *StateVector) PrepareBasis(r circuit.Register, x uint64) {
	for i := range s.amps {
		s.amps[i] = 0
	}
	var idx uint64
	for i, q := range r.Qubits {
		if (x>>i)&1 == 1 {
			idx |= 1 << uint(q)
		}
	}
	s.amps[idx] = 1
}

// ApplyCircuit applies every gate of the circuit in order.
func (s *StateVector) ApplyCircuit(c *circuit.Circuit) error {
	if c.NbQubits > s.nbQubits {
		return fmt.Errorf("circuit spans %d qubits, state has %d", c.NbQubits, s.nbQubits)
	}
	for i := range c.Gates {
		if err := s.Apply(&c.Gates[i]); err != nil {
			return fmt.Errorf("gate %d: %w", i, err)
		}
	}
	return nil
}

// Apply applies a single gate.
func (s *StateVector) Apply(g *circuit.Gate) error {
	switch g.Kind {
	case circuit.GateH:
		s.applyH(g.Target)
	case circuit.GateX, circuit.GateCX, circuit.GateCCX:
		s.applyCX(g.Controls, g.Target)
	case circuit.GatePhase:
		t, _ := g.Exponent.Float64()
		s.applyPhase(g.Controls, g.Target, t)
	default:
		return fmt.Errorf("unsupported gate type %q", g.Kind)
	}
	return nil
}

func (s *StateVector) applyH(q circuit.Qubit) {
	hFactor := complex(1.0/math.Sqrt2, 0)
	bit := 1 << uint(q)
	for i := range s.amps {
		if i&bit == 0 {
			j := i | bit
			a, b := s.amps[i], s.amps[j]
			s.amps[i] = hFactor * (a + b)
			s.amps[j] = hFactor * (a - b)
		}
	}
}

func (s *StateVector) applyCX(controls []circuit.Qubit, target circuit.Qubit) {
	bit := 1 << uint(target)
	var cmask int
	for _, c := range controls {
		cmask |= 1 << uint(c)
	}
	for i := range s.amps {
		if i&bit == 0 && i&cmask == cmask {
			j := i | bit
			s.amps[i], s.amps[j] = s.amps[j], s.amps[i]
		}
	}
}

func (s *StateVector) applyPhase(controls []circuit.Qubit, target circuit.Qubit, t float64) {
	mask := 1 << uint(target)
	for _, c := range controls {
		mask |= 1 << uint(c)
	}
	factor := cmplx.Exp(complex(0, math.Pi*t))
	for i := range s.amps {
		if i&mask == mask {
			s.amps[i] *= factor
		}
	}
}

// Probabilities returns the marginal probability distribution of the
// register's integer value, summing over all other qubits.
func (s *StateVector) Probabilities(r circuit.Register) []float64 {
	probs := make([]float64, 1<<r.Width())
	for i, a := range s.amps {
		p := real(a)*real(a) + imag(a)*imag(a)
		if p == 0 {
			continue
		}
		var v int
		for k, q := range r.Qubits {
			if i&(1<<uint(q)) != 0 {
				v |= 1 << k
			}
		}
		probs[v] += p
	}
	return probs
}
