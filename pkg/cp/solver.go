package cp

import (
	"sort"

	"github.com/rs/zerolog"
)

// SolverConfig holds solver parameters.
type SolverConfig struct {
	// TimeLimitMs caps solver runtime; 0 means unbounded. The
	// dispatch-based solver finishes in one pass and ignores the cap.
	TimeLimitMs int64 `json:"time_limit_ms" yaml:"time_limit_ms"`
}

// DefaultSolverConfig returns the default solver parameters.
func DefaultSolverConfig() SolverConfig {
	return SolverConfig{}
}

// Solver is a deterministic chronological-dispatch solver: intervals
// are placed in precedence-respecting order, each as early as its
// precedence bounds and no-overlap groups allow.
//
// It produces feasible (not provably optimal) solutions and fails only
// when the precedence graph is cyclic or a placement violates an
// interval's start/end bounds.
type Solver struct {
	logger zerolog.Logger
}

// NewSolver creates a solver.
func NewSolver() *Solver {
	return &Solver{logger: zerolog.Nop()}
}

// WithLogger sets the logger.
func (s *Solver) WithLogger(logger zerolog.Logger) *Solver {
	s.logger = logger
	return s
}

// Solve places every interval of the model.
func (s *Solver) Solve(model *Model, _ SolverConfig) *Solution {
	n := len(model.Intervals)
	solution := &Solution{Intervals: make(map[string]IntervalSolution, n)}

	index := make(map[string]int, n)
	for i, iv := range model.Intervals {
		index[iv.ID] = i
	}

	// Precedence graph over interval indices.
	successors := make([][]int, n)
	preds := make([][]Precedence, n)
	indegree := make([]int, n)
	for _, p := range model.Precedences {
		from, okFrom := index[p.Before]
		to, okTo := index[p.After]
		if !okFrom || !okTo {
			continue
		}
		successors[from] = append(successors[from], to)
		preds[to] = append(preds[to], p)
		indegree[to]++
	}

	// No-overlap group membership per interval.
	memberOf := make([][]int, n)
	for g, ids := range model.NoOverlaps {
		for _, id := range ids {
			if i, ok := index[id]; ok {
				memberOf[i] = append(memberOf[i], g)
			}
		}
	}

	// Chronological dispatch: among ready intervals, place the one with
	// the smallest earliest start (ties by insertion order).
	earliest := make([]int64, n)
	for i, iv := range model.Intervals {
		earliest[i] = iv.StartMin
	}
	groupAvailable := make([]int64, len(model.NoOverlaps))
	ends := make([]int64, n)

	var ready []int
	for i := 0; i < n; i++ {
		if indegree[i] == 0 {
			ready = append(ready, i)
		}
	}

	var objective int64
	for scheduled := 0; scheduled < n; scheduled++ {
		if len(ready) == 0 {
			// Remaining intervals form a precedence cycle.
			s.logger.Debug().Msg("precedence cycle prevents dispatch")
			return &Solution{Intervals: map[string]IntervalSolution{}}
		}

		// Keep the ready list ordered for deterministic tie-breaks.
		sort.Ints(ready)
		pick := 0
		for r := 1; r < len(ready); r++ {
			if s.startOf(model, ready[r], earliest, memberOf, groupAvailable) <
				s.startOf(model, ready[pick], earliest, memberOf, groupAvailable) {
				pick = r
			}
		}
		i := ready[pick]
		ready = append(ready[:pick], ready[pick+1:]...)

		iv := model.Intervals[i]
		start := s.startOf(model, i, earliest, memberOf, groupAvailable)
		end := start + iv.Duration

		if start > iv.StartMax || end > iv.EndMax || end > model.HorizonMs {
			s.logger.Debug().
				Str("interval", iv.ID).
				Int64("start", start).
				Msg("placement violates interval bounds")
			return &Solution{Intervals: map[string]IntervalSolution{}}
		}

		ends[i] = end
		if end > objective {
			objective = end
		}
		for _, g := range memberOf[i] {
			if end > groupAvailable[g] {
				groupAvailable[g] = end
			}
		}
		solution.Intervals[iv.ID] = IntervalSolution{IsPresent: true, Start: start, End: end}

		for _, next := range successors[i] {
			indegree[next]--
			if indegree[next] > 0 {
				continue
			}
			// All predecessors placed: tighten the earliest start.
			var bound int64
			for _, p := range preds[next] {
				if t := ends[index[p.Before]] + p.MinDelayMs; t > bound {
					bound = t
				}
			}
			if bound > earliest[next] {
				earliest[next] = bound
			}
			ready = append(ready, next)
		}
	}

	solution.IsSolutionFound = true
	solution.ObjectiveMs = objective
	return solution
}

// startOf computes the earliest feasible start for an interval given
// its precedence bound and the availability of its no-overlap groups.
func (s *Solver) startOf(model *Model, i int, earliest []int64, memberOf [][]int, groupAvailable []int64) int64 {
	start := earliest[i]
	if min := model.Intervals[i].StartMin; min > start {
		start = min
	}
	for _, g := range memberOf[i] {
		if groupAvailable[g] > start {
			start = groupAvailable[g]
		}
	}
	return start
}
