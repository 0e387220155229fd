// Package analyze computes cost summaries of generated circuits: per-kind
// gate counts, dependency depth (longest chain of gates sharing a qubit),
// two-qubit-gate count and, optionally, the Clifford+T volume under a fixed
// Toffoli decomposition.
package analyze

import (
	"github.com/quantverify/modsquare/circuit"
)

// Clifford+T cost of one Toffoli: 15 elementary gates of which 6 are CNOTs
// and 7 are T or T†, at depth 12.
const (
	ccxGates    = 15
	ccxTwoQubit = 6
	ccxTGates   = 7
	ccxDepth    = 12
)

// Two-qubit cost of one doubly-controlled phase rotation: two CNOTs plus
// three singly-controlled rotations, at depth 5.
const (
	ccPhaseGates    = 5
	ccPhaseTwoQubit = 5
	ccPhaseDepth    = 5
)

// Result is an immutable cost summary of a single circuit. Counts holds the
// logical per-kind gate tally as emitted by the builders; NbGates, Depth,
// TwoQubitGates and TGates follow the decomposition convention the caller
// selected.
type Result struct {
	Counts        map[circuit.Kind]int
	NbGates       int
	TwoQubitGates int
	TGates        int
	Depth         int
	NbQubits      int
	Measurements  int
}

// Option allows to configure the analysis.
type Option func(*config) error

type config struct {
	decompose bool
}

// WithDecomposition counts multi-controlled gates by the elementary gates
// they decompose into (Toffoli as 15 Clifford+T gates at depth 12, doubly
// controlled rotations as 5 two-qubit gates at depth 5) instead of counting
// them once.
func WithDecomposition() Option {
	return func(cfg *config) error {
		cfg.decompose = true
		return nil
	}
}

// Analyze walks the gate sequence of c and returns its cost summary. It is a
// pure function of c; two structurally identical circuits yield identical
// results. A malformed circuit (a gate referencing an undeclared qubit,
// overlapping control and target sets) fails with a *circuit.FormatError.
func Analyze(c *circuit.Circuit, opts ...Option) (*Result, error) {
	var cfg config
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	res := &Result{
		Counts:       make(map[circuit.Kind]int),
		NbQubits:     c.NbQubits,
		Measurements: c.NbMeasurements(),
	}

	// frontier[q] is the depth of the last gate touching qubit q; each gate
	// starts after all gates it shares a qubit with.
	frontier := make([]int, c.NbQubits)
	for i := range c.Gates {
		g := &c.Gates[i]
		res.Counts[g.Kind]++

		gates, twoQubit, tGates, depth := gateCost(g, cfg.decompose)
		res.NbGates += gates
		res.TwoQubitGates += twoQubit
		res.TGates += tGates

		start := 0
		for _, q := range g.Qubits() {
			if frontier[q] > start {
				start = frontier[q]
			}
		}
		end := start + depth
		for _, q := range g.Qubits() {
			frontier[q] = end
		}
		if end > res.Depth {
			res.Depth = end
		}
	}
	return res, nil
}

func gateCost(g *circuit.Gate, decompose bool) (gates, twoQubit, tGates, depth int) {
	if decompose {
		switch {
		case g.Kind == circuit.GateCCX:
			return ccxGates, ccxTwoQubit, ccxTGates, ccxDepth
		case g.Kind == circuit.GatePhase && len(g.Controls) == 2:
			return ccPhaseGates, ccPhaseTwoQubit, 0, ccPhaseDepth
		}
	}
	if len(g.Controls)+1 == 2 {
		twoQubit = 1
	}
	return 1, twoQubit, 0, 1
}
