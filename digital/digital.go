// Package digital builds gate-level reversible circuits for the
// modular-squaring oracle |x>|0> -> |x>|x² mod N>.
//
// Multiplication is available in schoolbook and Karatsuba variants; the
// Karatsuba recursion falls back to schoolbook once the operand width reaches
// a configurable cutoff. Reduction modulo N is performed by repeated
// conditional subtraction of shifted multiples of N, a reversible analogue of
// long division.
//
// The builders deliberately leave intermediate ancillas un-uncomputed: the
// enclosing protocol measures and discards those garbage qubits, so the usual
// reversible-circuit hygiene of uncomputing every workspace bit would only
// add gates.
package digital

import (
	"github.com/quantverify/modsquare/circuit"
)

// Mode selects the multiplication strategy.
type Mode uint8

const (
	// Schoolbook multiplication: w shifted partial products accumulated by
	// ripple adders. Quadratic gate count.
	Schoolbook Mode = iota
	// Karatsuba multiplication: recursive three-products decomposition,
	// falling back to Schoolbook at the cutoff width.
	Karatsuba
)

func (m Mode) String() string {
	switch m {
	case Schoolbook:
		return "schoolbook"
	case Karatsuba:
		return "karatsuba"
	default:
		return "unknown"
	}
}

// DefaultCutoff is the Karatsuba recursion cutoff used when none is given.
// The value comes from the optimize package's sweep of gate counts.
const DefaultCutoff = 15

// minRecursionWidth is the smallest operand width at which one Karatsuba
// recursion step actually shrinks the subproblems (the cross-term recursion
// runs on ceil(w/2)+1 bits, which is < w only for w >= 4). Cutoffs below
// minRecursionWidth-1 behave as minRecursionWidth-1.
const minRecursionWidth = 4

type config struct {
	mode   Mode
	cutoff int
	width  int // input register width; 0 derives it from the modulus
}

// Option configures a circuit construction call.
type Option func(*config) error

// WithMode selects the multiplication strategy. Default is Karatsuba.
func WithMode(m Mode) Option {
	return func(cfg *config) error {
		if m != Schoolbook && m != Karatsuba {
			return circuit.NewConfigError("unknown multiplication mode %d", m)
		}
		cfg.mode = m
		return nil
	}
}

// WithCutoff sets the Karatsuba recursion cutoff. Operands of width <= cutoff
// are multiplied schoolbook-style (the boundary is inclusive).
func WithCutoff(c int) Option {
	return func(cfg *config) error {
		if c < 1 {
			return circuit.NewConfigError("cutoff must be >= 1, got %d", c)
		}
		cfg.cutoff = c
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

func newConfig(opts ...Option) (config, error) {
	cfg := config{mode: Karatsuba, cutoff: DefaultCutoff}
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return config{}, err
		}
	}
	return cfg, nil
}
