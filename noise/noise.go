// Package noise models circuit error rates and postselection. Discrete
// per-gate errors and continuous idle decoherence are kept as separate terms:
// gate errors compose multiplicatively over the gate count, idle error decays
// exponentially with the dependency depth.
package noise

import (
	"math"

	"github.com/quantverify/modsquare/analyze"
	"github.com/quantverify/modsquare/circuit"
)

// Model maps each gate kind to an independent error probability, plus a
// continuous decoherence rate per unit of circuit depth. A kind absent from
// GateRates is noiseless. The model is read-only; methods never mutate it.
type Model struct {
	GateRates map[circuit.Kind]float64
	IdleRate  float64
}

// Uniform returns a model applying the same error probability to every gate
// kind and no idle decoherence.
func Uniform(rate float64) Model {
	return Model{GateRates: map[circuit.Kind]float64{
		circuit.GateX:     rate,
		circuit.GateCX:    rate,
		circuit.GateCCX:   rate,
		circuit.GateH:     rate,
		circuit.GatePhase: rate,
	}}
}

func (m Model) validate() error {
	for kind, r := range m.GateRates {
		if r < 0 || r > 1 {
			return circuit.NewConfigError("error rate %v for gate kind %s outside [0,1]", r, kind)
		}
	}
	if m.IdleRate < 0 {
		return circuit.NewConfigError("idle rate %v must be non-negative", m.IdleRate)
	}
	return nil
}

// GateSuccess returns the probability that no gate of the analyzed circuit
// errs, composing per-gate survival probabilities over the full gate count.
func (m Model) GateSuccess(res *analyze.Result) (float64, error) {
	if err := m.validate(); err != nil {
		return 0, err
	}
	p := 1.0
	for kind, count := range res.Counts {
		p *= math.Pow(1-m.GateRates[kind], float64(count))
	}
	return p, nil
}

// IdleSuccess returns the probability that no decoherence event occurs while
// the circuit runs, decaying exponentially with its depth.
func (m Model) IdleSuccess(res *analyze.Result) (float64, error) {
	if err := m.validate(); err != nil {
		return 0, err
	}
	return math.Exp(-m.IdleRate * float64(res.Depth)), nil
}

// Success returns the overall probability of an error-free run, the product
// of the gate and idle terms.
func (m Model) Success(res *analyze.Result) (float64, error) {
	pg, err := m.GateSuccess(res)
	if err != nil {
		return 0, err
	}
	pi, err := m.IdleSuccess(res)
	if err != nil {
		return 0, err
	}
	return pg * pi, nil
}

// RateForFidelity returns the uniform per-gate error rate at which a circuit
// of nbGates gates retains the target overall fidelity, inverting
// f = (1-r)^n.
func RateForFidelity(fidelity float64, nbGates int) (float64, error) {
	if fidelity <= 0 || fidelity > 1 {
		return 0, circuit.NewConfigError("fidelity %v outside (0,1]", fidelity)
	}
	if nbGates < 1 {
		return 0, circuit.NewConfigError("gate count must be >= 1, got %d", nbGates)
	}
	return 1 - math.Pow(fidelity, 1/float64(nbGates)), nil
}
