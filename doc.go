// Package modsquare generates and analyzes reversible quantum circuits for the
// modular-squaring oracle |x>|0> -> |x>|x² mod N>, the computational step of an
// interactive proof-of-quantumness protocol.
//
// modsquare provides two circuit constructions:
//   - digital: gate-level reversible arithmetic (schoolbook or Karatsuba
//     multiplication followed by modular reduction), leaving garbage ancillas
//     un-uncomputed since the surrounding protocol measures and discards them
//   - phase: accumulation of x² mod N into the phase of an ancillary register
//     via controlled-controlled rotations, recovered with an inverse Fourier
//     transform
//
// The analyze, noise and optimize packages provide exact gate-count and depth
// accounting, a gate-error/postselection model and a search for the optimal
// Karatsuba recursion cutoff.
package modsquare

import (
	"github.com/blang/semver/v4"
)

var Version = semver.MustParse("0.1.0")
