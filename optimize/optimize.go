// Package optimize searches the Karatsuba recursion cutoff minimizing a
// circuit cost for a given input width.
package optimize

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/quantverify/modsquare/analyze"
	"github.com/quantverify/modsquare/circuit"
	"github.com/quantverify/modsquare/digital"
	"github.com/quantverify/modsquare/logger"
)

// Cost selects the metric the sweep minimizes.
type Cost uint8

const (
	// GateCount minimizes the total number of gates.
	GateCount Cost = iota
	// Depth minimizes the longest dependency chain.
	Depth
)

func (c Cost) String() string {
	switch c {
	case GateCount:
		return "gates"
	case Depth:
		return "depth"
	default:
		return fmt.Sprintf("cost(%d)", uint8(c))
	}
}

// Candidate is the measured cost of one cutoff value.
type Candidate struct {
	Cutoff int
	Cost   int
}

// Sweep builds the width-w Karatsuba squaring circuit for every cutoff in
// [1, w] and measures its cost. Candidates are independent and built in
// parallel; the returned slice is ordered by cutoff. ctx aborts the sweep.
func Sweep(ctx context.Context, w int, cost Cost) ([]Candidate, error) {
	if w < 1 {
		return nil, circuit.NewConfigError("width must be >= 1, got %d", w)
	}
	if cost != GateCount && cost != Depth {
		return nil, circuit.NewConfigError("unknown cost metric %d", cost)
	}

	candidates := make([]Candidate, w)
	g, ctx := errgroup.WithContext(ctx)
	for c := 1; c <= w; c++ {
		c := c
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			sq, err := digital.Square(w, digital.WithMode(digital.Karatsuba), digital.WithCutoff(c))
			if err != nil {
				return err
			}
			res, err := analyze.Analyze(sq.Circuit)
			if err != nil {
				return err
			}
			measured := res.NbGates
			if cost == Depth {
				measured = res.Depth
			}
			candidates[c-1] = Candidate{Cutoff: c, Cost: measured}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return candidates, nil
}

// Cutoff returns the cutoff in [1, w] minimizing the chosen cost for a
// width-w Karatsuba squaring circuit. Ties prefer the larger cutoff, since a
// larger base case removes recursion bookkeeping at equal leaf cost.
func Cutoff(ctx context.Context, w int, cost Cost) (int, error) {
	candidates, err := Sweep(ctx, w, cost)
	if err != nil {
		return 0, err
	}
	best := candidates[0]
	for _, cand := range candidates[1:] {
		if cand.Cost <= best.Cost {
			best = cand
		}
	}
	log := logger.Logger()
	log.Debug().
		Int("width", w).
		Stringer("cost", cost).
		Int("cutoff", best.Cutoff).
		Int("best", best.Cost).
		Msg("cutoff sweep")
	return best.Cutoff, nil
}
