package dispatch

import (
	"math"
	"sort"

	"github.com/khryptorgraphics/flowsched/pkg/models"
)

// Mode selects how the engine combines multiple rules.
type Mode string

const (
	// ModeSequential applies rules in list order, falling through to the
	// next rule only on ties.
	ModeSequential Mode = "sequential"
	// ModeWeighted sorts by the weighted sum of all rule scores.
	ModeWeighted Mode = "weighted"
)

// TieBreaker selects how ties are broken after all rules are exhausted
// in sequential mode.
type TieBreaker string

const (
	// TieBreakNextRule leaves tied tasks equal (stable input order wins).
	TieBreakNextRule TieBreaker = "next_rule"
	// TieBreakByID orders tied tasks lexicographically by task ID.
	TieBreakByID TieBreaker = "by_id"
)

// scoreEpsilon is the tie threshold for sequential comparison.
const scoreEpsilon = 1e-9

type weightedRule struct {
	rule   Rule
	weight float64
}

// Engine composes dispatching rules for task prioritization.
//
// In sequential mode the first rule whose scores differ by more than
// epsilon decides; tie-breaker rules (weight 0) participate only in
// that fall-through. In weighted mode the final score is the weighted
// sum of every rule's score, sorted ascending.
type Engine struct {
	rules      []weightedRule
	mode       Mode
	tieBreaker TieBreaker
}

// NewEngine creates an empty sequential-mode engine.
func NewEngine() *Engine {
	return &Engine{
		mode:       ModeSequential,
		tieBreaker: TieBreakNextRule,
	}
}

// WithRule appends a primary rule (weight 1.0).
func (e *Engine) WithRule(rule Rule) *Engine {
	e.rules = append(e.rules, weightedRule{rule: rule, weight: 1.0})
	return e
}

// WithWeightedRule appends a rule with an explicit weight.
func (e *Engine) WithWeightedRule(rule Rule, weight float64) *Engine {
	e.rules = append(e.rules, weightedRule{rule: rule, weight: weight})
	return e
}

// WithTieBreaker appends a tie-breaking rule (weight 0.0, consulted
// only in sequential fall-through).
func (e *Engine) WithTieBreaker(rule Rule) *Engine {
	e.rules = append(e.rules, weightedRule{rule: rule, weight: 0.0})
	return e
}

// WithMode sets the evaluation mode.
func (e *Engine) WithMode(mode Mode) *Engine {
	e.mode = mode
	return e
}

// WithFinalTieBreaker sets the strategy applied when every rule ties.
func (e *Engine) WithFinalTieBreaker(tieBreaker TieBreaker) *Engine {
	e.tieBreaker = tieBreaker
	return e
}

// SortIndices returns indices into tasks ordered by rule evaluation
// (highest priority first). The sort is stable: tasks that compare
// equal keep their input order.
func (e *Engine) SortIndices(tasks []*models.Task, ctx *Context) []int {
	if len(tasks) == 0 {
		return nil
	}

	indices := make([]int, len(tasks))
	for i := range indices {
		indices[i] = i
	}

	switch e.mode {
	case ModeWeighted:
		scores := make([]float64, len(tasks))
		for i, task := range tasks {
			scores[i] = e.weightedScore(task, ctx)
		}
		sort.SliceStable(indices, func(a, b int) bool {
			return lessFloat(scores[indices[a]], scores[indices[b]])
		})
	default:
		sort.SliceStable(indices, func(a, b int) bool {
			return e.compareSequential(tasks[indices[a]], tasks[indices[b]], ctx) < 0
		})
	}

	return indices
}

// SelectBest returns the index of the highest-priority task, or -1 for
// an empty input.
func (e *Engine) SelectBest(tasks []*models.Task, ctx *Context) int {
	indices := e.SortIndices(tasks, ctx)
	if len(indices) == 0 {
		return -1
	}
	return indices[0]
}

// Evaluate returns the weighted per-rule score vector for one task.
func (e *Engine) Evaluate(task *models.Task, ctx *Context) []float64 {
	scores := make([]float64, len(e.rules))
	for i, wr := range e.rules {
		scores[i] = wr.rule.Evaluate(task, ctx) * wr.weight
	}
	return scores
}

// compareSequential returns a negative value when a outranks b.
func (e *Engine) compareSequential(a, b *models.Task, ctx *Context) int {
	for _, wr := range e.rules {
		scoreA := wr.rule.Evaluate(a, ctx)
		scoreB := wr.rule.Evaluate(b, ctx)

		if math.IsNaN(scoreA) || math.IsNaN(scoreB) {
			continue
		}
		if diff := scoreA - scoreB; diff > scoreEpsilon || diff < -scoreEpsilon {
			if scoreA < scoreB {
				return -1
			}
			return 1
		}
	}

	if e.tieBreaker == TieBreakByID {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
	}
	return 0
}

func (e *Engine) weightedScore(task *models.Task, ctx *Context) float64 {
	var sum float64
	for _, wr := range e.rules {
		sum += wr.rule.Evaluate(task, ctx) * wr.weight
	}
	return sum
}

// lessFloat orders floats with NaN treated as equal to everything.
func lessFloat(a, b float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return false
	}
	return a < b
}
