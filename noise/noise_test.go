package noise

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quantverify/modsquare/analyze"
	"github.com/quantverify/modsquare/circuit"
	"github.com/quantverify/modsquare/digital"
)

func analyzeOracle(t *testing.T) *analyze.Result {
	t.Helper()
	o, err := digital.Build(big.NewInt(15))
	require.NoError(t, err)
	res, err := analyze.Analyze(o.Circuit)
	require.NoError(t, err)
	return res
}

func TestSuccessNoiselessIsOne(t *testing.T) {
	assert := require.New(t)

	res := analyzeOracle(t)

	p, err := Model{}.Success(res)
	assert.NoError(err)
	assert.Equal(1.0, p)

	p, err = Uniform(0).Success(res)
	assert.NoError(err)
	assert.Equal(1.0, p)
}

func TestSuccessMonotoneInGateRate(t *testing.T) {
	assert := require.New(t)

	res := analyzeOracle(t)

	// raising any single gate-type rate strictly lowers success
	for _, kind := range []circuit.Kind{circuit.GateX, circuit.GateCX, circuit.GateCCX} {
		prev := 1.0
		for _, r := range []float64{1e-5, 1e-4, 1e-3, 1e-2} {
			m := Model{GateRates: map[circuit.Kind]float64{kind: r}}
			p, err := m.Success(res)
			assert.NoError(err)
			assert.Less(p, prev, "rate %v on %s", r, kind)
			prev = p
		}
	}
}

func TestIdleAndGateErrorsSeparate(t *testing.T) {
	assert := require.New(t)

	res := analyzeOracle(t)

	gateOnly := Uniform(1e-4)
	idleOnly := Model{IdleRate: 1e-4}

	pg, err := gateOnly.Success(res)
	assert.NoError(err)
	pi, err := idleOnly.Success(res)
	assert.NoError(err)

	// gate error scales with gate count, idle error with depth
	wantGate := math.Pow(1-1e-4, float64(res.NbGates))
	wantIdle := math.Exp(-1e-4 * float64(res.Depth))
	assert.InDelta(wantGate, pg, 1e-12)
	assert.InDelta(wantIdle, pi, 1e-12)

	both := Model{GateRates: gateOnly.GateRates, IdleRate: 1e-4}
	p, err := both.Success(res)
	assert.NoError(err)
	assert.InDelta(pg*pi, p, 1e-12)
}

func TestModelValidation(t *testing.T) {
	assert := require.New(t)

	res := analyzeOracle(t)
	var cErr *circuit.ConfigError

	_, err := Model{GateRates: map[circuit.Kind]float64{circuit.GateX: 1.5}}.Success(res)
	assert.ErrorAs(err, &cErr)

	_, err = Model{IdleRate: -1}.Success(res)
	assert.ErrorAs(err, &cErr)
}

func TestRateForFidelity(t *testing.T) {
	assert := require.New(t)

	r, err := RateForFidelity(0.5, 1000)
	assert.NoError(err)
	assert.InDelta(0.5, math.Pow(1-r, 1000), 1e-12)

	r, err = RateForFidelity(1, 10)
	assert.NoError(err)
	assert.Zero(r)

	var cErr *circuit.ConfigError
	_, err = RateForFidelity(0, 10)
	assert.ErrorAs(err, &cErr)
	_, err = RateForFidelity(0.5, 0)
	assert.ErrorAs(err, &cErr)
}
