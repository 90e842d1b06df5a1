// Package cp lowers scheduling problems into a constraint-programming
// model (interval variables, precedence, no-overlap) and provides a
// deterministic dispatch-based solver for it.
package cp

// IntervalVar is a fixed-duration interval variable for one activity.
type IntervalVar struct {
	// ID names the interval (the activity ID).
	ID string `json:"id"`
	// StartMin is the earliest allowed start.
	StartMin int64 `json:"start_min"`
	// StartMax is the latest allowed start.
	StartMax int64 `json:"start_max"`
	// Duration is fixed; optional intervals are not modeled.
	Duration int64 `json:"duration"`
	// EndMax is the latest allowed end.
	EndMax int64 `json:"end_max"`
}

// NewIntervalVar creates an interval variable.
func NewIntervalVar(id string, startMin, startMax, duration, endMax int64) IntervalVar {
	return IntervalVar{
		ID:       id,
		StartMin: startMin,
		StartMax: startMax,
		Duration: duration,
		EndMax:   endMax,
	}
}

// Precedence orders two intervals: After starts no earlier than
// Before's end plus MinDelayMs.
type Precedence struct {
	Before     string `json:"before"`
	After      string `json:"after"`
	MinDelayMs int64  `json:"min_delay_ms"`
}

// Objective selects what the solver minimizes.
type Objective string

const (
	// MinimizeMaxEnd minimizes the makespan.
	MinimizeMaxEnd Objective = "minimize_max_end"
)

// Model is the lowered constraint model handed to a solver.
type Model struct {
	// Name labels the model.
	Name string `json:"name"`
	// HorizonMs bounds all interval ends.
	HorizonMs int64 `json:"horizon_ms"`
	// Intervals holds one variable per activity, in insertion order.
	Intervals []IntervalVar `json:"intervals"`
	// Precedences holds the ordering constraints.
	Precedences []Precedence `json:"precedences"`
	// NoOverlaps holds disjunctive sets of interval IDs.
	NoOverlaps [][]string `json:"no_overlaps"`
	// Objective is the optimization target.
	Objective Objective `json:"objective"`
}

// NewModel creates an empty model with the given planning horizon.
func NewModel(name string, horizonMs int64) *Model {
	return &Model{Name: name, HorizonMs: horizonMs}
}

// AddInterval appends an interval variable.
func (m *Model) AddInterval(interval IntervalVar) {
	m.Intervals = append(m.Intervals, interval)
}

// AddPrecedence appends an ordering constraint.
func (m *Model) AddPrecedence(before, after string, minDelayMs int64) {
	m.Precedences = append(m.Precedences, Precedence{Before: before, After: after, MinDelayMs: minDelayMs})
}

// AddNoOverlap appends a disjunctive set.
func (m *Model) AddNoOverlap(intervalIDs []string) {
	m.NoOverlaps = append(m.NoOverlaps, intervalIDs)
}

// SetObjective sets the optimization target.
func (m *Model) SetObjective(objective Objective) {
	m.Objective = objective
}

// IntervalCount returns the number of interval variables.
func (m *Model) IntervalCount() int {
	return len(m.Intervals)
}

// ConstraintCount returns the number of precedence plus no-overlap
// constraints.
func (m *Model) ConstraintCount() int {
	return len(m.Precedences) + len(m.NoOverlaps)
}

// IntervalSolution is the solved placement of one interval.
type IntervalSolution struct {
	// IsPresent reports whether the interval is part of the solution.
	IsPresent bool `json:"is_present"`
	// Start is the solved start time.
	Start int64 `json:"start"`
	// End is the solved end time.
	End int64 `json:"end"`
}

// Solution is a solver result.
type Solution struct {
	// IsSolutionFound reports whether a feasible placement exists.
	IsSolutionFound bool `json:"is_solution_found"`
	// Intervals maps interval ID to its placement.
	Intervals map[string]IntervalSolution `json:"intervals"`
	// ObjectiveMs is the achieved objective value (makespan).
	ObjectiveMs int64 `json:"objective_ms"`
}
