package models

// ConstraintType discriminates the Constraint variants.
type ConstraintType string

const (
	// ConstraintPrecedence orders two activities with a minimum delay.
	ConstraintPrecedence ConstraintType = "precedence"
	// ConstraintCapacity bounds simultaneous use of a resource.
	ConstraintCapacity ConstraintType = "capacity"
	// ConstraintTimeWindow confines an activity to [StartMs, EndMs).
	ConstraintTimeWindow ConstraintType = "time_window"
	// ConstraintNoOverlap forbids overlap of the listed activities on a
	// resource (disjunctive resource).
	ConstraintNoOverlap ConstraintType = "no_overlap"
	// ConstraintTransitionCost adds sequence-dependent setup time between
	// activity categories.
	ConstraintTransitionCost ConstraintType = "transition_cost"
	// ConstraintSynchronize forces the listed activities to start together.
	ConstraintSynchronize ConstraintType = "synchronize"
)

// Constraint is a rule that a valid schedule must satisfy. The Type
// field selects the variant; only the fields of the active variant are
// populated.
type Constraint struct {
	Type ConstraintType `json:"type" yaml:"type"`

	// Precedence: After cannot start until Before finishes + MinDelayMs.
	Before     string `json:"before,omitempty" yaml:"before,omitempty"`
	After      string `json:"after,omitempty" yaml:"after,omitempty"`
	MinDelayMs int64  `json:"min_delay_ms,omitempty" yaml:"min_delay_ms,omitempty"`

	// Capacity, NoOverlap, TransitionCost: target resource.
	ResourceID string `json:"resource_id,omitempty" yaml:"resource_id,omitempty"`
	// Capacity: at most MaxCapacity activities may use the resource at once.
	MaxCapacity int `json:"max_capacity,omitempty" yaml:"max_capacity,omitempty"`

	// TimeWindow: target activity and bounds.
	ActivityID string `json:"activity_id,omitempty" yaml:"activity_id,omitempty"`
	StartMs    int64  `json:"start_ms,omitempty" yaml:"start_ms,omitempty"`
	EndMs      int64  `json:"end_ms,omitempty" yaml:"end_ms,omitempty"`

	// NoOverlap, Synchronize: affected activities.
	ActivityIDs []string `json:"activity_ids,omitempty" yaml:"activity_ids,omitempty"`

	// TransitionCost: category pair and cost.
	FromCategory string `json:"from_category,omitempty" yaml:"from_category,omitempty"`
	ToCategory   string `json:"to_category,omitempty" yaml:"to_category,omitempty"`
	CostMs       int64  `json:"cost_ms,omitempty" yaml:"cost_ms,omitempty"`
}

// Precedence creates a zero-delay precedence constraint.
func Precedence(before, after string) Constraint {
	return Constraint{Type: ConstraintPrecedence, Before: before, After: after}
}

// PrecedenceWithDelay creates a precedence constraint with a minimum delay.
func PrecedenceWithDelay(before, after string, delayMs int64) Constraint {
	return Constraint{Type: ConstraintPrecedence, Before: before, After: after, MinDelayMs: delayMs}
}

// Capacity creates a capacity constraint.
func Capacity(resourceID string, max int) Constraint {
	return Constraint{Type: ConstraintCapacity, ResourceID: resourceID, MaxCapacity: max}
}

// TimeWindowConstraint confines an activity to [startMs, endMs).
func TimeWindowConstraint(activityID string, startMs, endMs int64) Constraint {
	return Constraint{Type: ConstraintTimeWindow, ActivityID: activityID, StartMs: startMs, EndMs: endMs}
}

// NoOverlap creates a disjunctive constraint over activities on a resource.
func NoOverlap(resourceID string, activityIDs ...string) Constraint {
	return Constraint{Type: ConstraintNoOverlap, ResourceID: resourceID, ActivityIDs: activityIDs}
}

// TransitionCost creates a sequence-dependent setup constraint.
func TransitionCost(fromCategory, toCategory string, costMs int64) Constraint {
	return Constraint{Type: ConstraintTransitionCost, FromCategory: fromCategory, ToCategory: toCategory, CostMs: costMs}
}

// Synchronize forces the listed activities to start at the same time.
func Synchronize(activityIDs ...string) Constraint {
	return Constraint{Type: ConstraintSynchronize, ActivityIDs: activityIDs}
}

// TransitionMatrix maps (from_category, to_category) to setup time for
// one resource. Used when the setup on a resource depends on what it
// processed previously (machine changeover, color change).
type TransitionMatrix struct {
	// Name is the matrix identifier.
	Name string `json:"name" yaml:"name"`
	// ResourceID is the resource this matrix applies to.
	ResourceID string `json:"resource_id" yaml:"resource_id"`
	// Transitions maps from-category → to-category → milliseconds.
	Transitions map[string]map[string]int64 `json:"transitions" yaml:"transitions"`
	// DefaultMs applies when no explicit transition is defined between
	// distinct categories.
	DefaultMs int64 `json:"default_ms" yaml:"default_ms"`
}

// NewTransitionMatrix creates an empty matrix for a resource.
func NewTransitionMatrix(name, resourceID string) *TransitionMatrix {
	return &TransitionMatrix{
		Name:        name,
		ResourceID:  resourceID,
		Transitions: make(map[string]map[string]int64),
	}
}

// WithDefault sets the default transition time.
func (m *TransitionMatrix) WithDefault(defaultMs int64) *TransitionMatrix {
	m.DefaultMs = defaultMs
	return m
}

// SetTransition defines the transition time between two categories.
func (m *TransitionMatrix) SetTransition(from, to string, timeMs int64) {
	if m.Transitions == nil {
		m.Transitions = make(map[string]map[string]int64)
	}
	row, ok := m.Transitions[from]
	if !ok {
		row = make(map[string]int64)
		m.Transitions[from] = row
	}
	row[to] = timeMs
}

// GetTransition returns the transition time between two categories.
//
// Explicit entries win. Same-category transitions default to 0;
// distinct categories fall back to DefaultMs.
func (m *TransitionMatrix) GetTransition(from, to string) int64 {
	if row, ok := m.Transitions[from]; ok {
		if ms, ok := row[to]; ok {
			return ms
		}
	}
	if from == to {
		return 0
	}
	return m.DefaultMs
}

// TransitionCount returns the number of explicitly defined transitions.
func (m *TransitionMatrix) TransitionCount() int {
	count := 0
	for _, row := range m.Transitions {
		count += len(row)
	}
	return count
}

// TransitionMatrixCollection indexes transition matrices by resource ID
// and provides unified lookup across resources.
type TransitionMatrixCollection struct {
	Matrices map[string]*TransitionMatrix `json:"matrices" yaml:"matrices"`
}

// NewTransitionMatrixCollection creates an empty collection.
func NewTransitionMatrixCollection() *TransitionMatrixCollection {
	return &TransitionMatrixCollection{Matrices: make(map[string]*TransitionMatrix)}
}

// Add registers a matrix under its resource ID.
func (c *TransitionMatrixCollection) Add(matrix *TransitionMatrix) {
	if c.Matrices == nil {
		c.Matrices = make(map[string]*TransitionMatrix)
	}
	c.Matrices[matrix.ResourceID] = matrix
}

// WithMatrix registers a matrix and returns the collection.
func (c *TransitionMatrixCollection) WithMatrix(matrix *TransitionMatrix) *TransitionMatrixCollection {
	c.Add(matrix)
	return c
}

// GetTransitionTime returns the transition time for a resource between
// two categories, or 0 when no matrix exists for the resource.
func (c *TransitionMatrixCollection) GetTransitionTime(resourceID, from, to string) int64 {
	if c == nil {
		return 0
	}
	m, ok := c.Matrices[resourceID]
	if !ok {
		return 0
	}
	return m.GetTransition(from, to)
}

// Len returns the number of matrices in the collection.
func (c *TransitionMatrixCollection) Len() int {
	return len(c.Matrices)
}

// IsEmpty reports whether the collection has no matrices.
func (c *TransitionMatrixCollection) IsEmpty() bool {
	return c.Len() == 0
}
