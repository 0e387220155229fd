package digital

import (
	"math/big"

	"github.com/quantverify/modsquare/circuit"
	"github.com/quantverify/modsquare/logger"
)

// Oracle is the assembled circuit for |x>|0> -> |x>|x² mod N>. Out aliases
// the low bits of the product register: after reduction the remaining product
// bits are zero, and the ancilla register holds only garbage for the outer
// protocol to measure away.
type Oracle struct {
	Circuit *circuit.Circuit
	X       circuit.Register // input register, width w
	Product circuit.Register // 2w-bit work register holding the square, then the residue
	Out     circuit.Register // aliases Product[0:w], holds x² mod N
	N       *big.Int
}

// Build constructs the modular-squaring oracle for an odd modulus N. The
// input width defaults to the bit length of N and may be widened with
// WithWidth; N must be odd, greater than one, and fit the width.
func Build(N *big.Int, opts ...Option) (*Oracle, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}
	if N == nil || N.Cmp(big.NewInt(1)) <= 0 {
		return nil, circuit.NewConfigError("modulus must be > 1")
	}
	if N.Bit(0) == 0 {
		return nil, circuit.NewConfigError("modulus must be odd, got %s", N)
	}
	w := cfg.width
	if w == 0 {
		w = N.BitLen()
	}
	if N.BitLen() > w {
		return nil, circuit.NewConfigError("modulus %s does not fit in %d bits", N, w)
	}

	alloc := circuit.NewAllocator()
	x, err := alloc.NewRegister("x", w)
	if err != nil {
		return nil, err
	}
	p, err := alloc.NewRegister("p", 2*w)
	if err != nil {
		return nil, err
	}

	b := newBuilder(alloc, cfg.cutoff)
	b.square(x.Qubits, p.Qubits, cfg.mode, true)
	b.reduce(p.Qubits, N)

	c := alloc.Assemble(b.gates)

	log := logger.Logger()
	if !alloc.AllDiscarded() {
		log.Warn().Int("active", alloc.NbActive()).Msg("ancilla leak in oracle construction")
	}
	log.Debug().
		Str("mode", cfg.mode.String()).
		Int("cutoff", cfg.cutoff).
		Int("width", w).
		Int("gates", c.NbGates()).
		Int("qubits", c.NbQubits).
		Int("measurements", c.NbMeasurements()).
		Msg("built modular-squaring oracle")

	return &Oracle{
		Circuit: c,
		X:       x,
		Product: p,
		Out:     p.Slice("out", 0, w),
		N:       new(big.Int).Set(N),
	}, nil
}

// MultCircuit computes the 2w-bit product of two w-bit registers.
type MultCircuit struct {
	Circuit *circuit.Circuit
	A, B    circuit.Register
	Out     circuit.Register
}

// Mult builds a circuit accumulating A*B into a fresh 2w-bit output register.
// The two operand widths must agree.
func Mult(wa, wb int, opts ...Option) (*MultCircuit, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}
	if wa < 1 || wb < 1 {
		return nil, circuit.NewConfigError("operand widths must be >= 1, got %d and %d", wa, wb)
	}
	if wa != wb {
		return nil, circuit.NewConfigError("inconsistent operand widths %d and %d", wa, wb)
	}

	alloc := circuit.NewAllocator()
	a, err := alloc.NewRegister("a", wa)
	if err != nil {
		return nil, err
	}
	bb, err := alloc.NewRegister("b", wb)
	if err != nil {
		return nil, err
	}
	out, err := alloc.NewRegister("c", wa+wb)
	if err != nil {
		return nil, err
	}

	b := newBuilder(alloc, cfg.cutoff)
	b.mult(a.Qubits, bb.Qubits, out.Qubits, cfg.mode, true)

	return &MultCircuit{Circuit: alloc.Assemble(b.gates), A: a, B: bb, Out: out}, nil
}

// SquareCircuit computes the 2w-bit square of a w-bit register.
type SquareCircuit struct {
	Circuit *circuit.Circuit
	X       circuit.Register
	Out     circuit.Register
}

// Square builds a circuit accumulating X² into a fresh 2w-bit output register.
func Square(w int, opts ...Option) (*SquareCircuit, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}
	if w < 1 {
		return nil, circuit.NewConfigError("width must be >= 1, got %d", w)
	}

	alloc := circuit.NewAllocator()
	x, err := alloc.NewRegister("x", w)
	if err != nil {
		return nil, err
	}
	out, err := alloc.NewRegister("c", 2*w)
	if err != nil {
		return nil, err
	}

	b := newBuilder(alloc, cfg.cutoff)
	b.square(x.Qubits, out.Qubits, cfg.mode, true)

	return &SquareCircuit{Circuit: alloc.Assemble(b.gates), X: x, Out: out}, nil
}

// ReduceCircuit reduces a 2w-bit product register modulo N in place.
type ReduceCircuit struct {
	Circuit *circuit.Circuit
	In      circuit.Register // 2w-bit input register, reduced in place
	Out     circuit.Register // aliases In[0:w], holds In mod N
	N       *big.Int
}

// Reduce builds the standalone modular-reduction stage for a 2w-bit input and
// an odd modulus N < 2^w.
func Reduce(w int, N *big.Int, opts ...Option) (*ReduceCircuit, error) {
	if _, err := newConfig(opts...); err != nil {
		return nil, err
	}
	if w < 1 {
		return nil, circuit.NewConfigError("width must be >= 1, got %d", w)
	}
	if N == nil || N.Cmp(big.NewInt(1)) <= 0 {
		return nil, circuit.NewConfigError("modulus must be > 1")
	}
	if N.Bit(0) == 0 {
		return nil, circuit.NewConfigError("modulus must be odd, got %s", N)
	}
	if N.BitLen() > w {
		return nil, circuit.NewConfigError("modulus %s does not fit in %d bits", N, w)
	}

	alloc := circuit.NewAllocator()
	t, err := alloc.NewRegister("t", 2*w)
	if err != nil {
		return nil, err
	}

	b := newBuilder(alloc, DefaultCutoff)
	b.reduce(t.Qubits, N)

	return &ReduceCircuit{
		Circuit: alloc.Assemble(b.gates),
		In:      t,
		Out:     t.Slice("out", 0, w),
		N:       new(big.Int).Set(N),
	}, nil
}
