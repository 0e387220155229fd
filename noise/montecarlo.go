package noise

import (
	"context"
	"math"
	"math/big"
	"math/rand"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/quantverify/modsquare/circuit"
	"github.com/quantverify/modsquare/digital"
	"github.com/quantverify/modsquare/logger"
	"github.com/quantverify/modsquare/sim"
)

// Filter is a postselection predicate over the final classical state of a
// run. Runs for which it returns false are rejected before the output is
// read. A nil filter accepts every run.
type Filter func(st *sim.BitState) bool

// QuadraticResidue returns the protocol's postselection filter for a modulus
// N = p·q: the output register must hold a quadratic residue modulo both
// prime factors. An undisturbed x² mod N always is one when gcd(x, N) = 1,
// so the filter rejects only corrupted runs.
func QuadraticResidue(out circuit.Register, p, q *big.Int) (Filter, error) {
	for _, f := range []*big.Int{p, q} {
		if f == nil || f.Cmp(big.NewInt(2)) <= 0 || f.Bit(0) == 0 {
			return nil, circuit.NewConfigError("prime factors must be odd and > 2")
		}
	}
	return func(st *sim.BitState) bool {
		y := st.Int(out)
		return big.Jacobi(y, p) == 1 && big.Jacobi(y, q) == 1
	}, nil
}

// Report aggregates a Monte Carlo postselection experiment. Standard errors
// are binomial; Fidelity is conditioned on acceptance and is NaN when no run
// was accepted.
type Report struct {
	Trials           int
	Accepted         int
	Correct          int
	AcceptanceRate   float64
	AcceptanceStdErr float64
	Fidelity         float64
	FidelityStdErr   float64
}

// MCOption allows to configure a Monte Carlo run.
type MCOption func(*mcConfig) error

type mcConfig struct {
	trials      int
	seed        int64
	parallelism int
}

// WithTrials sets the number of sampled runs. Defaults to 1000.
func WithTrials(n int) MCOption {
	return func(cfg *mcConfig) error {
		if n < 1 {
			return circuit.NewConfigError("trial count must be >= 1, got %d", n)
		}
		cfg.trials = n
		return nil
	}
}

// WithSeed fixes the sampling seed. Runs with the same seed, trial count and
// parallelism reproduce the same report.
func WithSeed(seed int64) MCOption {
	return func(cfg *mcConfig) error {
		cfg.seed = seed
		return nil
	}
}

// WithParallelism sets the number of sampling goroutines. Defaults to
// runtime.NumCPU().
func WithParallelism(p int) MCOption {
	return func(cfg *mcConfig) error {
		if p < 1 {
			return circuit.NewConfigError("parallelism must be >= 1, got %d", p)
		}
		cfg.parallelism = p
		return nil
	}
}

// MonteCarlo samples noisy classical runs of the oracle on input x. After
// each gate a bit-flip error strikes one random qubit of its support with
// the model's per-kind probability. A run is accepted when filter passes on
// the final state, and correct when it is accepted and the output register
// reads x² mod N. Independent trials are sampled in parallel; ctx aborts the
// run, discarding partial results.
func (m Model) MonteCarlo(ctx context.Context, o *digital.Oracle, x *big.Int, filter Filter, opts ...MCOption) (*Report, error) {
	if err := m.validate(); err != nil {
		return nil, err
	}
	cfg := mcConfig{trials: 1000, parallelism: runtime.NumCPU()}
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	if x == nil || x.Sign() < 0 || x.BitLen() > o.X.Width() {
		return nil, circuit.NewConfigError("input does not fit the %d-bit register", o.X.Width())
	}

	var accepted, correct atomic.Int64
	g, ctx := errgroup.WithContext(ctx)
	for worker := 0; worker < cfg.parallelism; worker++ {
		trials := cfg.trials / cfg.parallelism
		if worker < cfg.trials%cfg.parallelism {
			trials++
		}
		if trials == 0 {
			continue
		}
		rng := rand.New(rand.NewSource(cfg.seed + int64(worker)))
		g.Go(func() error {
			for t := 0; t < trials; t++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				ok, exact, err := m.sampleRun(o, x, filter, rng)
				if err != nil {
					return err
				}
				if ok {
					accepted.Add(1)
					if exact {
						correct.Add(1)
					}
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rep := newReport(cfg.trials, int(accepted.Load()), int(correct.Load()))
	log := logger.Logger()
	log.Debug().
		Int("trials", rep.Trials).
		Int("accepted", rep.Accepted).
		Float64("fidelity", rep.Fidelity).
		Msg("monte carlo postselection")
	return rep, nil
}

// sampleRun executes one noisy classical pass of the oracle.
func (m Model) sampleRun(o *digital.Oracle, x *big.Int, filter Filter, rng *rand.Rand) (accepted, correct bool, err error) {
	st := sim.NewBitState(o.Circuit.NbQubits)
	st.SetInt(o.X, x)
	for i := range o.Circuit.Gates {
		gate := &o.Circuit.Gates[i]
		if err := sim.ApplyClassical(gate, st); err != nil {
			return false, false, err
		}
		if r := m.GateRates[gate.Kind]; r > 0 && rng.Float64() < r {
			support := gate.Qubits()
			st.Flip(support[rng.Intn(len(support))])
		}
	}
	if filter != nil && !filter(st) {
		return false, false, nil
	}
	want := new(big.Int).Mul(x, x)
	want.Mod(want, o.N)
	return true, st.Int(o.Out).Cmp(want) == 0, nil
}

func newReport(trials, accepted, correct int) *Report {
	rep := &Report{Trials: trials, Accepted: accepted, Correct: correct}
	pa := float64(accepted) / float64(trials)
	rep.AcceptanceRate = pa
	rep.AcceptanceStdErr = math.Sqrt(pa * (1 - pa) / float64(trials))
	if accepted == 0 {
		rep.Fidelity = math.NaN()
		rep.FidelityStdErr = math.NaN()
		return rep
	}
	pf := float64(correct) / float64(accepted)
	rep.Fidelity = pf
	rep.FidelityStdErr = math.Sqrt(pf * (1 - pf) / float64(accepted))
	return rep
}
