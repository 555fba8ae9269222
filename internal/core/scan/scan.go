// Package scan implements coarse-to-fine location of predicate transitions
// over a time range.
//
// A coarse pass samples the predicate at a fixed step and flags every adjacent
// pair whose state differs; each flagged pair is then narrowed by bisection to
// the requested time tolerance. Bisection is deliberately preferred over a
// continuous root-finder: the predicates here are step functions or signs of
// black-box quantities, so there is no derivative to feed anything smarter.
//
// Boundary convention: a transition is attributed to the scan whose range
// contains the first sample that observes the new state. Splitting [T0,T2]
// into [T0,T1] and [T1,T2] therefore neither drops nor double-counts a
// transition landing exactly on T1: the left scan's final pair sees the flip,
// the right scan starts in the new state.
package scan

import (
	"context"
	"fmt"
	"time"
)

// defaultMaxIterations caps bisection depth. Sixty halvings of any practical
// bracket land far below nanosecond resolution, so the ceiling only matters
// for pathological predicates that flicker near the boundary
const defaultMaxIterations = 60

// BoolPredicate reports a two-state condition at an instant
type BoolPredicate func(t time.Time) (bool, error)

// ScalarPredicate reports a continuous quantity at an instant
type ScalarPredicate func(t time.Time) (float64, error)

// IntPredicate reports a discrete state index at an instant
type IntPredicate func(t time.Time) (int, error)

// Config controls a scan
type Config struct {
	// Step is the coarse sampling interval; required > 0
	Step time.Duration
	// Tolerance is the maximum acceptable time error for a refined instant; required > 0
	Tolerance time.Duration
	// MaxIterations bounds bisection depth; <= 0 uses the default ceiling
	MaxIterations int
}

func (c Config) validate() error {
	if c.Step <= 0 {
		return fmt.Errorf("scan: step must be positive, got %v", c.Step)
	}
	if c.Tolerance <= 0 {
		return fmt.Errorf("scan: tolerance must be positive, got %v", c.Tolerance)
	}
	return nil
}

func (c Config) ceiling() int {
	if c.MaxIterations > 0 {
		return c.MaxIterations
	}
	return defaultMaxIterations
}

// Transition is one refined boolean state change
type Transition struct {
	// At is the midpoint of the final bisection bracket
	At time.Time
	// Rising is true for a false->true flip
	Rising bool
	// Converged is false when bisection hit its iteration ceiling before
	// reaching tolerance; At is then the best available bracket midpoint
	Converged bool
}

// IntTransition is one refined discrete state change
type IntTransition struct {
	At        time.Time
	From, To  int
	Converged bool
}

// Extremum is one refined local extremum of a scalar predicate
type Extremum struct {
	At time.Time
	// Max is true at a local maximum, false at a local minimum
	Max       bool
	Converged bool
}

// Bool locates every state change of p on [t0,t1], each accurate to within
// cfg.Tolerance. Results are ordered by time
func Bool(ctx context.Context, cfg Config, t0, t1 time.Time, p BoolPredicate) ([]Transition, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if !t1.After(t0) {
		return nil, fmt.Errorf("scan: empty range [%v,%v]", t0, t1)
	}

	var out []Transition
	prevT := t0
	prev, err := p(t0)
	if err != nil {
		return nil, err
	}
	for cur := t0; cur.Before(t1); {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cur = cur.Add(cfg.Step)
		if cur.After(t1) {
			cur = t1
		}
		v, err := p(cur)
		if err != nil {
			return nil, err
		}
		if v != prev {
			tr, err := bisectBool(cfg, prevT, cur, prev, p)
			if err != nil {
				return nil, err
			}
			out = append(out, tr)
		}
		prevT, prev = cur, v
	}
	return out, nil
}

// bisectBool narrows [lo,hi] around a known state change until the bracket is
// inside tolerance or the iteration ceiling fires
func bisectBool(cfg Config, lo, hi time.Time, loState bool, p BoolPredicate) (Transition, error) {
	converged := false
	for i := 0; i < cfg.ceiling(); i++ {
		if hi.Sub(lo) < cfg.Tolerance {
			converged = true
			break
		}
		mid := lo.Add(hi.Sub(lo) / 2)
		v, err := p(mid)
		if err != nil {
			return Transition{}, err
		}
		if v == loState {
			lo = mid
		} else {
			hi = mid
		}
	}
	if hi.Sub(lo) < cfg.Tolerance {
		converged = true
	}
	return Transition{
		At:        lo.Add(hi.Sub(lo) / 2),
		Rising:    !loState,
		Converged: converged,
	}, nil
}

// SignChanges locates every zero crossing of f on [t0,t1]. Rising means the
// sign flipped negative to non-negative
func SignChanges(ctx context.Context, cfg Config, t0, t1 time.Time, f ScalarPredicate) ([]Transition, error) {
	return Bool(ctx, cfg, t0, t1, func(t time.Time) (bool, error) {
		v, err := f(t)
		if err != nil {
			return false, err
		}
		return v >= 0, nil
	})
}

// IntChanges locates every change of a discrete state index on [t0,t1].
// From and To are the states at the final bracket's endpoints, so a caller
// can reject boundary jitter by checking From != To (always true here) or
// specific unwanted pairs
func IntChanges(ctx context.Context, cfg Config, t0, t1 time.Time, p IntPredicate) ([]IntTransition, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if !t1.After(t0) {
		return nil, fmt.Errorf("scan: empty range [%v,%v]", t0, t1)
	}

	var out []IntTransition
	prevT := t0
	prev, err := p(t0)
	if err != nil {
		return nil, err
	}
	for cur := t0; cur.Before(t1); {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cur = cur.Add(cfg.Step)
		if cur.After(t1) {
			cur = t1
		}
		v, err := p(cur)
		if err != nil {
			return nil, err
		}
		if v != prev {
			tr, err := bisectInt(cfg, prevT, cur, prev, p)
			if err != nil {
				return nil, err
			}
			out = append(out, tr)
		}
		prevT, prev = cur, v
	}
	return out, nil
}

func bisectInt(cfg Config, lo, hi time.Time, loState int, p IntPredicate) (IntTransition, error) {
	hiState := loState // refined below; seeded for the degenerate ceiling case
	converged := false
	for i := 0; i < cfg.ceiling(); i++ {
		if hi.Sub(lo) < cfg.Tolerance {
			converged = true
			break
		}
		mid := lo.Add(hi.Sub(lo) / 2)
		v, err := p(mid)
		if err != nil {
			return IntTransition{}, err
		}
		if v == loState {
			lo = mid
		} else {
			hi = mid
			hiState = v
		}
	}
	if hi.Sub(lo) < cfg.Tolerance {
		converged = true
	}
	if hiState == loState {
		// ceiling fired before the upper state was ever sampled
		v, err := p(hi)
		if err != nil {
			return IntTransition{}, err
		}
		hiState = v
	}
	return IntTransition{
		At:        lo.Add(hi.Sub(lo) / 2),
		From:      loState,
		To:        hiState,
		Converged: converged,
	}, nil
}

// Extrema locates local extrema of f on [t0,t1] via the sign of a centered
// difference. The coarse pass flags any triple whose local slope changes
// sign; refinement bisects on the centered-difference sign with a half-width
// tied to the tolerance
func Extrema(ctx context.Context, cfg Config, t0, t1 time.Time, f ScalarPredicate) ([]Extremum, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if !t1.After(t0) {
		return nil, fmt.Errorf("scan: empty range [%v,%v]", t0, t1)
	}

	// centered-difference half width for refinement; clamped so the slope
	// probe stays meaningful at minute-level tolerances
	h := cfg.Tolerance / 2
	if h < time.Second {
		h = time.Second
	}
	slope := func(t time.Time) (bool, error) {
		a, err := f(t.Add(-h))
		if err != nil {
			return false, err
		}
		b, err := f(t.Add(h))
		if err != nil {
			return false, err
		}
		return b-a >= 0, nil
	}

	// coarse pass over slope signs between adjacent samples
	type node struct {
		t      time.Time
		rising bool
	}
	var prev *node
	var out []Extremum

	cur := t0
	v0, err := f(cur)
	if err != nil {
		return nil, err
	}
	for cur.Before(t1) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		next := cur.Add(cfg.Step)
		if next.After(t1) {
			next = t1
		}
		v1, err := f(next)
		if err != nil {
			return nil, err
		}
		n := node{t: cur, rising: v1-v0 >= 0}
		if prev != nil && prev.rising != n.rising {
			tr, err := bisectBool(cfg, prev.t, next, prev.rising, slope)
			if err != nil {
				return nil, err
			}
			out = append(out, Extremum{
				At: tr.At,
				// slope falling through zero is a maximum
				Max:       !tr.Rising,
				Converged: tr.Converged,
			})
		}
		prev, cur, v0 = &n, next, v1
	}
	return out, nil
}
