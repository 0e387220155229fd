package analyze

import (
	"math/big"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"

	"github.com/quantverify/modsquare/circuit"
	"github.com/quantverify/modsquare/digital"
)

func TestAnalyzeCounts(t *testing.T) {
	assert := require.New(t)

	a := circuit.NewAllocator()
	x, err := a.NewRegister("x", 4)
	assert.NoError(err)
	q := x.Qubits

	c := a.Assemble([]circuit.Gate{
		circuit.X(q[0]),
		circuit.CX(q[0], q[1]),
		circuit.CCX(q[0], q[1], q[2]),
		circuit.H(q[3]),
		circuit.PhaseExp(big.NewRat(1, 2), q[3], q[2]),
	})

	res, err := Analyze(c)
	assert.NoError(err)

	assert.Equal(5, res.NbGates)
	assert.Equal(1, res.Counts[circuit.GateX])
	assert.Equal(1, res.Counts[circuit.GateCX])
	assert.Equal(1, res.Counts[circuit.GateCCX])
	assert.Equal(1, res.Counts[circuit.GateH])
	assert.Equal(1, res.Counts[circuit.GatePhase])
	assert.Equal(2, res.TwoQubitGates) // cx and the controlled phase
	assert.Equal(0, res.TGates)
	assert.Equal(4, res.NbQubits)
}

func TestAnalyzeDepth(t *testing.T) {
	assert := require.New(t)

	a := circuit.NewAllocator()
	x, err := a.NewRegister("x", 4)
	assert.NoError(err)
	q := x.Qubits

	// two independent chains of different lengths
	c := a.Assemble([]circuit.Gate{
		circuit.X(q[0]),
		circuit.X(q[0]),
		circuit.X(q[0]),
		circuit.CX(q[2], q[3]),
	})
	res, err := Analyze(c)
	assert.NoError(err)
	assert.Equal(3, res.Depth)

	// a shared qubit serializes the chains
	c = a.Assemble([]circuit.Gate{
		circuit.X(q[0]),
		circuit.CX(q[0], q[1]),
		circuit.CX(q[1], q[2]),
	})
	res, err = Analyze(c)
	assert.NoError(err)
	assert.Equal(3, res.Depth)
}

func TestAnalyzeDecomposition(t *testing.T) {
	assert := require.New(t)

	a := circuit.NewAllocator()
	x, err := a.NewRegister("x", 3)
	assert.NoError(err)
	q := x.Qubits

	c := a.Assemble([]circuit.Gate{
		circuit.CCX(q[0], q[1], q[2]),
		circuit.PhaseExp(big.NewRat(1, 4), q[2], q[0], q[1]),
	})

	res, err := Analyze(c, WithDecomposition())
	assert.NoError(err)

	assert.Equal(15+5, res.NbGates)
	assert.Equal(6+5, res.TwoQubitGates)
	assert.Equal(7, res.TGates)
	assert.Equal(12+5, res.Depth)

	// logical tallies are unaffected by the decomposition convention
	assert.Equal(1, res.Counts[circuit.GateCCX])
	assert.Equal(1, res.Counts[circuit.GatePhase])
}

func TestAnalyzeMalformedCircuit(t *testing.T) {
	assert := require.New(t)

	a := circuit.NewAllocator()
	x, err := a.NewRegister("x", 2)
	assert.NoError(err)

	c := a.Assemble([]circuit.Gate{circuit.CX(x.Qubits[0], circuit.Qubit(9))})

	_, err = Analyze(c)
	var fErr *circuit.FormatError
	assert.ErrorAs(err, &fErr)
}

func TestAnalyzeOracle(t *testing.T) {
	assert := require.New(t)

	o, err := digital.Build(big.NewInt(15))
	assert.NoError(err)

	res, err := Analyze(o.Circuit)
	assert.NoError(err)

	assert.Equal(o.Circuit.NbGates(), res.NbGates)
	assert.Equal(o.Circuit.NbMeasurements(), res.Measurements)
	assert.Greater(res.Depth, 0)
	assert.LessOrEqual(res.Depth, res.NbGates)

	dec, err := Analyze(o.Circuit, WithDecomposition())
	assert.NoError(err)
	assert.Greater(dec.TGates, 0)
	assert.Greater(dec.NbGates, res.NbGates)
}

// depth only depends on the dependency structure, so swapping adjacent gates
// on disjoint qubits never changes it
func TestDepthInvariantUnderCommutingReorder(t *testing.T) {
	o, err := digital.Build(big.NewInt(15))
	require.NoError(t, err)

	base, err := Analyze(o.Circuit)
	require.NoError(t, err)

	disjoint := func(a, b *circuit.Gate) bool {
		for _, qa := range a.Qubits() {
			for _, qb := range b.Qubits() {
				if qa == qb {
					return false
				}
			}
		}
		return true
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("depth invariant under commuting swaps", prop.ForAll(
		func(seed int64) bool {
			gates := make([]circuit.Gate, len(o.Circuit.Gates))
			copy(gates, o.Circuit.Gates)

			// a deterministic walk of adjacent swaps derived from the seed
			for i := 0; i+1 < len(gates); i++ {
				if seed>>(i%63)&1 == 1 && disjoint(&gates[i], &gates[i+1]) {
					gates[i], gates[i+1] = gates[i+1], gates[i]
				}
			}

			permuted := &circuit.Circuit{
				Registers:   o.Circuit.Registers,
				Gates:       gates,
				NbQubits:    o.Circuit.NbQubits,
				Garbage:     o.Circuit.Garbage,
				MaxAncillas: o.Circuit.MaxAncillas,
			}
			res, err := Analyze(permuted)
			return err == nil && res.Depth == base.Depth
		},
		gen.Int64(),
	))

	properties.TestingRun(t)
}
