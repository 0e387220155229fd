package digital

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quantverify/modsquare/circuit"
	"github.com/quantverify/modsquare/sim"
)

// runBuilt assembles the builder's gates and runs them classically on st.
func runBuilt(t *testing.T, alloc *circuit.Allocator, b *builder, st *sim.BitState) {
	t.Helper()
	require.NoError(t, sim.RunClassical(alloc.Assemble(b.gates), st))
}

func TestAddRegisters(t *testing.T) {
	for a := uint64(0); a < 16; a++ {
		for s := uint64(0); s < 32; s++ {
			alloc := circuit.NewAllocator()
			A, err := alloc.NewRegister("a", 4)
			require.NoError(t, err)
			B, err := alloc.NewRegister("b", 5)
			require.NoError(t, err)

			b := newBuilder(alloc, DefaultCutoff)
			b.add(A.Qubits, B.Qubits)
			require.True(t, alloc.AllDiscarded())

			st := sim.NewBitState(alloc.NbQubits())
			st.SetUint64(A, a)
			st.SetUint64(B, s)
			runBuilt(t, alloc, b, st)

			require.Equal(t, (s+a)%32, st.Uint64(B), "add %d to %d", a, s)
			require.Equal(t, a, st.Uint64(A), "operand register clobbered")
		}
	}
}

func TestAddConst(t *testing.T) {
	for _, ctrl := range []bool{false, true} {
		for x := uint64(0); x < 16; x++ {
			for a := uint64(0); a < 16; a++ {
				alloc := circuit.NewAllocator()
				A, err := alloc.NewRegister("a", 4)
				require.NoError(t, err)

				c := noQubit
				var cReg circuit.Register
				if ctrl {
					cReg, err = alloc.NewRegister("ctrl", 1)
					require.NoError(t, err)
					c = cReg.Qubits[0]
				}

				b := newBuilder(alloc, DefaultCutoff)
				b.addConst(new(big.Int).SetUint64(x), A.Qubits, c)
				require.True(t, alloc.AllDiscarded())

				for _, on := range []uint64{0, 1} {
					if !ctrl && on == 0 {
						continue
					}
					st := sim.NewBitState(alloc.NbQubits())
					st.SetUint64(A, a)
					if ctrl {
						st.SetUint64(cReg, on)
					}
					runBuilt(t, alloc, b, st)

					want := a
					if !ctrl || on == 1 {
						want = (a + x) % 16
					}
					require.Equal(t, want, st.Uint64(A), "a=%d x=%d ctrl=%v on=%d", a, x, ctrl, on)
				}
			}
		}
	}
}

func TestLessThanConst(t *testing.T) {
	for x := uint64(0); x < 20; x++ {
		for a := uint64(0); a < 16; a++ {
			alloc := circuit.NewAllocator()
			A, err := alloc.NewRegister("a", 4)
			require.NoError(t, err)
			out, err := alloc.NewRegister("lt", 1)
			require.NoError(t, err)

			b := newBuilder(alloc, DefaultCutoff)
			b.lessThanConst(A.Qubits, new(big.Int).SetUint64(x), out.Qubits[0])
			require.True(t, alloc.AllDiscarded())

			st := sim.NewBitState(alloc.NbQubits())
			st.SetUint64(A, a)
			runBuilt(t, alloc, b, st)

			var want uint64
			if a < x {
				want = 1
			}
			require.Equal(t, want, st.Uint64(out), "compare %d < %d", a, x)
			require.Equal(t, a, st.Uint64(A), "operand register clobbered")
		}
	}
}

func TestReduceInPlace(t *testing.T) {
	for _, tc := range []struct {
		n uint64
		w int
	}{
		{13, 4},
		{15, 4},
		{21, 5},
	} {
		N := new(big.Int).SetUint64(tc.n)
		L := 2 * tc.w
		max := new(big.Int).Lsh(big.NewInt(1), uint(L)) // 2^L

		products := []*big.Int{
			big.NewInt(0),
			new(big.Int).Sub(N, big.NewInt(1)),
			new(big.Int).Set(N),
			new(big.Int).Lsh(N, 1),
			new(big.Int).Sub(max, big.NewInt(1)),
		}
		for _, p := range products {
			alloc := circuit.NewAllocator()
			T, err := alloc.NewRegister("t", L)
			require.NoError(t, err)

			b := newBuilder(alloc, DefaultCutoff)
			b.reduce(T.Qubits, N)
			require.True(t, alloc.AllDiscarded())

			st := sim.NewBitState(alloc.NbQubits())
			st.SetInt(T, p)
			runBuilt(t, alloc, b, st)

			want := new(big.Int).Mod(p, N)
			require.Zero(t, want.Cmp(st.Int(T)), "%s mod %s: got %s, want %s", p, N, st.Int(T), want)
		}
	}
}
