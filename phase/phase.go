// Package phase builds the phase-accumulation construction of the
// modular-squaring oracle: controlled-controlled rotations write x² mod N
// into the phase of an accumulator register prepared in uniform superposition,
// and an inverse Fourier transform projects that phase onto a
// computational-basis value.
//
// Every rotation angle is an exact rational multiple of π whose residue
// 2^(i+j) mod N is computed by modular exponentiation before it is mapped to
// phase. Mapping the raw power instead would not change the mathematical
// angle, but evaluating it in floating point would introduce a deterministic
// bias growing with i+j; keeping exact reduced rationals rules that class of
// bug out by construction.
//
// The construction is inherently approximate: the inverse transform recovers
// the residue only up to the resolution of the m-bit accumulator, with peak
// probability governed by m relative to N.
package phase

import (
	"math/big"
	"math/bits"

	"github.com/quantverify/modsquare/circuit"
	"github.com/quantverify/modsquare/logger"
)

// Variant selects the phase-accumulation strategy.
type Variant uint8

const (
	// Direct rotates the accumulator once per input bit pair, with the
	// residue 2^(i+j) mod N folded into each rotation angle.
	Direct Variant = iota
	// Fast tallies, for each partial-product weight 2^p, how many input bit
	// pairs of that weight are set into a small Fourier-basis counter
	// register, rotates the accumulator controlled on the counter bits, and
	// uncomputes the counter. The rotation count per weight drops from one
	// per bit pair to one per counter bit.
	Fast
)

func (v Variant) String() string {
	switch v {
	case Direct:
		return "direct"
	case Fast:
		return "fast"
	default:
		return "unknown"
	}
}

type config struct {
	width   int // input register width; 0 derives it from the modulus
	variant Variant
}

// Option configures a phase-circuit construction call.
type Option func(*config) error

// WithVariant selects the accumulation strategy. Default is Direct.
func WithVariant(v Variant) Option {
	return func(cfg *config) error {
		if v != Direct && v != Fast {
			return circuit.NewConfigError("unknown phase variant %d", v)
		}
		cfg.variant = v
		return nil
	}
}

// WithWidth sets the input register width. By default the width is the bit
// length of the modulus.
func WithWidth(w int) Option {
	return func(cfg *config) error {
		if w < 1 {
			return circuit.NewConfigError("width must be >= 1, got %d", w)
		}
		cfg.width = w
		return nil
	}
}

// Oracle is the assembled phase circuit. After simulation, measuring Acc
// yields an integer z whose decoded value Decode(z) concentrates on x² mod N.
type Oracle struct {
	Circuit *circuit.Circuit
	X       circuit.Register // input register, width w
	Acc     circuit.Register // m-bit phase accumulator, holds the transform output
	N       *big.Int
}

// Build constructs the phase-accumulation oracle for modulus N with an m-bit
// accumulator. m must satisfy 2^m >= N; each extra bit beyond the bit length
// of N sharpens the recovered peak.
func Build(N *big.Int, m int, opts ...Option) (*Oracle, error) {
	cfg := config{}
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	if N == nil || N.Cmp(big.NewInt(1)) <= 0 {
		return nil, circuit.NewConfigError("modulus must be > 1")
	}
	if N.Bit(0) == 0 {
		return nil, circuit.NewConfigError("modulus must be odd, got %s", N)
	}
	if m < N.BitLen() {
		return nil, circuit.NewConfigError("accumulator width %d insufficient for modulus %s (need >= %d bits)", m, N, N.BitLen())
	}
	w := cfg.width
	if w == 0 {
		w = N.BitLen()
	}

	alloc := circuit.NewAllocator()
	x, err := alloc.NewRegister("x", w)
	if err != nil {
		return nil, err
	}
	acc, err := alloc.NewRegister("acc", m)
	if err != nil {
		return nil, err
	}

	b := &phaseBuilder{alloc: alloc}

	// accumulator into uniform superposition
	for _, q := range acc.Qubits {
		b.emit(circuit.H(q))
	}

	switch cfg.variant {
	case Direct:
		b.accumulateDirect(x.Qubits, acc.Qubits, N)
	case Fast:
		b.accumulateFast(x.Qubits, acc.Qubits, N)
	}

	b.iqft(acc.Qubits)

	c := alloc.Assemble(b.gates)

	log := logger.Logger()
	log.Debug().
		Str("variant", cfg.variant.String()).
		Int("width", w).
		Int("accumulator", m).
		Int("gates", c.NbGates()).
		Msg("built phase-accumulation oracle")

	return &Oracle{
		Circuit: c,
		X:       x,
		Acc:     acc,
		N:       new(big.Int).Set(N),
	}, nil
}

// Decode maps a measured accumulator value z back to the residue it encodes:
// the nearest integer to z·N/2^m, modulo N.
func (o *Oracle) Decode(z uint64) uint64 {
	m := uint(o.Acc.Width())
	// round(z·N/2^m) = floor((2·z·N + 2^m) / 2^(m+1))
	num := new(big.Int).Mul(new(big.Int).SetUint64(z), o.N)
	num.Lsh(num, 1)
	num.Add(num, new(big.Int).Lsh(big.NewInt(1), m))
	num.Rsh(num, m+1)
	num.Mod(num, o.N)
	return num.Uint64()
}

type phaseBuilder struct {
	alloc *circuit.Allocator
	gates []circuit.Gate
}

func (b *phaseBuilder) emit(gs ...circuit.Gate) {
	b.gates = append(b.gates, gs...)
}

// accumulateDirect rotates the accumulator by 2π·f·(2^(i+j) mod N)/N for
// every input bit pair (i, j), where f is 2 off the diagonal because the
// symmetric pairs contribute twice to the square.
func (b *phaseBuilder) accumulateDirect(x, acc []circuit.Qubit, N *big.Int) {
	two := big.NewInt(2)
	for i := 0; i < len(x); i++ {
		for j := i; j < len(x); j++ {
			v := new(big.Int).Exp(two, big.NewInt(int64(i+j)), N)
			f := int64(2)
			controls := []circuit.Qubit{x[i], x[j]}
			if i == j {
				f = 1
				controls = controls[:1]
			}
			// exponent in units of π: 2·f·v/N
			t := new(big.Rat).SetFrac(
				new(big.Int).Mul(big.NewInt(2*f), v),
				N,
			)
			b.phaseAdd(t, acc, controls)
		}
	}
}

// accumulateFast groups the input bit pairs by partial-product weight 2^p.
// For each weight it tallies the set pairs into a Fourier-basis counter
// register, transforms the tally into the computational basis, rotates the
// accumulator once per counter bit, and uncomputes the counter with the
// adjoint transform and a negative tally. The tally never exceeds w, so
// bitlen(w) counter bits never wrap.
func (b *phaseBuilder) accumulateFast(x, acc []circuit.Qubit, N *big.Int) {
	w := len(x)
	counter := b.alloc.AncillaRegister(bits.Len(uint(w)))
	for _, q := range counter {
		b.emit(circuit.H(q))
	}

	two := big.NewInt(2)
	for p := 0; p < 2*w-1; p++ {
		b.count(x, counter, p, 1)
		b.iqft(counter)

		for k, ck := range counter {
			v := new(big.Int).Exp(two, big.NewInt(int64(k+p)), N)
			t := new(big.Rat).SetFrac(new(big.Int).Lsh(v, 1), N)
			b.phaseAdd(t, acc, []circuit.Qubit{ck})
		}

		b.qft(counter)
		b.count(x, counter, p, -1)
	}

	for _, q := range counter {
		b.emit(circuit.H(q))
	}
	b.alloc.Discard(counter...)
}

// count adds (sign > 0) or subtracts the number of set input bit pairs of
// weight 2^p into the Fourier-basis counter, diagonal pairs counting once and
// symmetric pairs twice.
func (b *phaseBuilder) count(x, counter []circuit.Qubit, p, sign int) {
	w := len(x)
	for i := max(0, p-w+1); i <= p/2; i++ {
		j := p - i
		f := int64(2)
		controls := []circuit.Qubit{x[i], x[j]}
		if i == j {
			f = 1
			controls = controls[:1]
		}
		// one count unit is a phase of 2^(1-len(counter)) π
		t := ratPow2(1 - len(counter))
		t.Mul(t, big.NewRat(int64(sign)*f, 1))
		b.phaseAdd(t, counter, controls)
	}
}

// phaseAdd rotates the accumulator by π·t conditioned on the controls,
// one rotation per accumulator qubit. The per-qubit exponent is reduced
// modulo 2 exactly, so large shifts never lose precision.
func (b *phaseBuilder) phaseAdd(t *big.Rat, acc []circuit.Qubit, controls []circuit.Qubit) {
	m := len(acc)
	for k, q := range acc {
		e := new(big.Rat).Mul(t, ratPow2(m-k-1))
		g := circuit.PhaseExp(e, q, controls...)
		if g.Exponent.Sign() == 0 {
			continue
		}
		b.emit(g)
	}
}

func ratPow2(e int) *big.Rat {
	one := big.NewInt(1)
	if e >= 0 {
		return new(big.Rat).SetFrac(new(big.Int).Lsh(one, uint(e)), one)
	}
	return new(big.Rat).SetFrac(one, new(big.Int).Lsh(one, uint(-e)))
}
