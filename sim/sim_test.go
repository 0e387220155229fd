package sim

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quantverify/modsquare/circuit"
)

func TestBitStateRegisterValues(t *testing.T) {
	assert := require.New(t)

	a := circuit.NewAllocator()
	r, err := a.NewRegister("x", 5)
	assert.NoError(err)

	st := NewBitState(a.NbQubits())
	st.SetUint64(r, 0b10110)
	assert.Equal(uint64(0b10110), st.Uint64(r))
	assert.Equal(uint(0), st.Bit(r.Qubits[0]))
	assert.Equal(uint(1), st.Bit(r.Qubits[1]))

	st.Flip(r.Qubits[0])
	assert.Equal(uint64(0b10111), st.Uint64(r))

	st.SetInt(r, big.NewInt(9))
	assert.Equal(uint64(9), st.Uint64(r))
	assert.Zero(big.NewInt(9).Cmp(st.Int(r)))

	assert.Panics(func() { st.SetInt(r, big.NewInt(32)) })
}

func TestApplyClassical(t *testing.T) {
	assert := require.New(t)

	st := NewBitState(3)

	x := circuit.X(0)
	assert.NoError(ApplyClassical(&x, st))
	assert.Equal(uint(1), st.Bit(0))

	cx := circuit.CX(0, 1)
	assert.NoError(ApplyClassical(&cx, st))
	assert.Equal(uint(1), st.Bit(1))

	ccx := circuit.CCX(0, 1, 2)
	assert.NoError(ApplyClassical(&ccx, st))
	assert.Equal(uint(1), st.Bit(2))

	// open control leaves the target alone
	x0 := circuit.X(0)
	assert.NoError(ApplyClassical(&x0, st))
	cx = circuit.CX(0, 1)
	assert.NoError(ApplyClassical(&cx, st))
	assert.Equal(uint(1), st.Bit(1))

	h := circuit.H(0)
	assert.Error(ApplyClassical(&h, st))
}

func TestStateVectorBasics(t *testing.T) {
	assert := require.New(t)

	a := circuit.NewAllocator()
	r, err := a.NewRegister("x", 2)
	assert.NoError(err)

	s := NewStateVector(a.NbQubits())
	s.PrepareBasis(r, 2)
	probs := s.Probabilities(r)
	assert.InDelta(1.0, probs[2], 1e-12)

	// X on the low qubit moves 2 to 3
	x := circuit.X(r.Qubits[0])
	assert.NoError(s.Apply(&x))
	probs = s.Probabilities(r)
	assert.InDelta(1.0, probs[3], 1e-12)

	// H splits the low qubit evenly
	h := circuit.H(r.Qubits[0])
	assert.NoError(s.Apply(&h))
	probs = s.Probabilities(r)
	assert.InDelta(0.5, probs[2], 1e-12)
	assert.InDelta(0.5, probs[3], 1e-12)
}

func TestStateVectorPhaseInterference(t *testing.T) {
	assert := require.New(t)

	// H, Z, H on a single qubit flips it
	s := NewStateVector(1)
	r := circuit.Register{Name: "q", Qubits: []circuit.Qubit{0}}

	for _, g := range []circuit.Gate{
		circuit.H(0),
		circuit.PhaseExp(big.NewRat(1, 1), 0),
		circuit.H(0),
	} {
		assert.NoError(s.Apply(&g))
	}
	probs := s.Probabilities(r)
	assert.InDelta(1.0, probs[1], 1e-12)
}

func TestProbabilitiesNormalized(t *testing.T) {
	assert := require.New(t)

	a := circuit.NewAllocator()
	r, err := a.NewRegister("x", 3)
	assert.NoError(err)

	s := NewStateVector(a.NbQubits())
	for _, q := range r.Qubits {
		h := circuit.H(q)
		assert.NoError(s.Apply(&h))
	}
	ph := circuit.PhaseExp(big.NewRat(1, 3), r.Qubits[1], r.Qubits[0])
	assert.NoError(s.Apply(&ph))

	var sum float64
	for _, p := range s.Probabilities(r) {
		sum += p
	}
	assert.InDelta(1.0, sum, 1e-12)
}
