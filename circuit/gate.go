package circuit

import (
	"fmt"
	"math/big"
)

// Kind tags the atomic reversible gate types emitted by the builders.
type Kind uint8

const (
	// GateX is a bit flip.
	GateX Kind = iota
	// GateCX is a controlled bit flip.
	GateCX
	// GateCCX is a doubly-controlled bit flip (Toffoli).
	GateCCX
	// GateH is the basis-change (Hadamard) gate.
	GateH
	// GatePhase is a Z-axis rotation diag(1, e^(iπt)) with an exact rational
	// exponent t, carrying zero, one or two control qubits.
	GatePhase
)

func (k Kind) String() string {
	switch k {
	case GateX:
		return "x"
	case GateCX:
		return "cx"
	case GateCCX:
		return "ccx"
	case GateH:
		return "h"
	case GatePhase:
		return "phase"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Gate is one atomic operation of a Circuit. Control and target identifier
// sets must be disjoint. The Exponent is set for GatePhase only; it is kept as
// an exact rational multiple of π so that large circuits accumulate no
// floating-point drift.
type Gate struct {
	Kind     Kind
	Controls []Qubit
	Target   Qubit
	Exponent *big.Rat
}

// Qubits returns the gate support, controls first.
func (g *Gate) Qubits() []Qubit {
	qs := make([]Qubit, 0, len(g.Controls)+1)
	qs = append(qs, g.Controls...)
	return append(qs, g.Target)
}

// X returns a bit-flip gate on q.
func X(q Qubit) Gate {
	return Gate{Kind: GateX, Target: q}
}

// CX returns a controlled bit-flip with control c and target t.
func CX(c, t Qubit) Gate {
	return Gate{Kind: GateCX, Controls: []Qubit{c}, Target: t}
}

// CCX returns a Toffoli gate with controls c1, c2 and target t.
func CCX(c1, c2, t Qubit) Gate {
	return Gate{Kind: GateCCX, Controls: []Qubit{c1, c2}, Target: t}
}

// H returns a Hadamard gate on q.
func H(q Qubit) Gate {
	return Gate{Kind: GateH, Target: q}
}

// PhaseExp returns a phase-rotation gate diag(1, e^(iπt)) on target t with the
// given controls. The exponent is normalized into [0, 2).
func PhaseExp(t *big.Rat, target Qubit, controls ...Qubit) Gate {
	return Gate{
		Kind:     GatePhase,
		Controls: controls,
		Target:   target,
		Exponent: normalizeExponent(t),
	}
}

// normalizeExponent reduces t modulo 2 into [0, 2). Phase exponents are
// periodic with period 2 (a full 2π rotation).
func normalizeExponent(t *big.Rat) *big.Rat {
	den2 := new(big.Int).Lsh(t.Denom(), 1)
	k := new(big.Int).Div(t.Num(), den2) // floor(t/2); big.Int.Div floors for positive divisors
	k.Lsh(k, 1)
	return new(big.Rat).Sub(t, new(big.Rat).SetInt(k))
}

// validate checks the gate's structural invariants against the total number of
// declared qubits.
func (g *Gate) validate(idx, nbQubits int) error {
	seen := make(map[Qubit]struct{}, len(g.Controls)+1)
	for _, q := range g.Qubits() {
		if q < 0 || int(q) >= nbQubits {
			return &FormatError{GateIndex: idx, Reason: fmt.Sprintf("qubit %d not part of any declared register", q)}
		}
		if _, ok := seen[q]; ok {
			return &FormatError{GateIndex: idx, Reason: fmt.Sprintf("qubit %d appears twice in gate support", q)}
		}
		seen[q] = struct{}{}
	}
	switch g.Kind {
	case GateX:
		if len(g.Controls) != 0 {
			return &FormatError{GateIndex: idx, Reason: "x gate cannot carry controls"}
		}
	case GateCX:
		if len(g.Controls) != 1 {
			return &FormatError{GateIndex: idx, Reason: "cx gate requires exactly one control"}
		}
	case GateCCX:
		if len(g.Controls) != 2 {
			return &FormatError{GateIndex: idx, Reason: "ccx gate requires exactly two controls"}
		}
	case GateH:
		if len(g.Controls) != 0 {
			return &FormatError{GateIndex: idx, Reason: "h gate cannot carry controls"}
		}
	case GatePhase:
		if len(g.Controls) > 2 {
			return &FormatError{GateIndex: idx, Reason: "phase gate carries at most two controls"}
		}
		if g.Exponent == nil {
			return &FormatError{GateIndex: idx, Reason: "phase gate missing exponent"}
		}
	default:
		return &FormatError{GateIndex: idx, Reason: fmt.Sprintf("unknown gate kind %d", g.Kind)}
	}
	return nil
}
