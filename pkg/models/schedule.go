package models

// Schedule is a complete solution to a scheduling problem: a set of
// activity-resource-time assignments plus any constraint violations
// detected while building it.
type Schedule struct {
	// Assignments maps activities to resources and time slots.
	Assignments []Assignment `json:"assignments" yaml:"assignments"`
	// Violations lists constraint violations in this schedule.
	Violations []Violation `json:"violations,omitempty" yaml:"violations,omitempty"`
}

// Assignment records that an activity runs on a resource during a time
// interval. Setup time, when present, occupies [StartMs, StartMs+SetupMs).
type Assignment struct {
	ActivityID string `json:"activity_id" yaml:"activity_id"`
	// TaskID is denormalized for query convenience.
	TaskID     string `json:"task_id" yaml:"task_id"`
	ResourceID string `json:"resource_id" yaml:"resource_id"`
	StartMs    int64  `json:"start_ms" yaml:"start_ms"`
	EndMs      int64  `json:"end_ms" yaml:"end_ms"`
	SetupMs    int64  `json:"setup_ms" yaml:"setup_ms"`
}

// NewAssignment creates an assignment without setup time.
func NewAssignment(activityID, taskID, resourceID string, startMs, endMs int64) Assignment {
	return Assignment{
		ActivityID: activityID,
		TaskID:     taskID,
		ResourceID: resourceID,
		StartMs:    startMs,
		EndMs:      endMs,
	}
}

// WithSetup sets the setup time portion.
func (a Assignment) WithSetup(setupMs int64) Assignment {
	a.SetupMs = setupMs
	return a
}

// DurationMs returns end - start.
func (a Assignment) DurationMs() int64 {
	return a.EndMs - a.StartMs
}

// ProcessMs returns the processing duration excluding setup.
func (a Assignment) ProcessMs() int64 {
	return a.DurationMs() - a.SetupMs
}

// ViolationType classifies constraint violations.
type ViolationType string

const (
	// ViolationDeadlineMiss marks a task completing after its deadline.
	ViolationDeadlineMiss ViolationType = "deadline_miss"
	// ViolationCapacityExceeded marks a resource allocated beyond capacity.
	ViolationCapacityExceeded ViolationType = "capacity_exceeded"
	// ViolationPrecedence marks an activity starting before its predecessor finished.
	ViolationPrecedence ViolationType = "precedence_violation"
	// ViolationResourceUnavailable marks an activity scheduled outside resource availability.
	ViolationResourceUnavailable ViolationType = "resource_unavailable"
	// ViolationSkillMismatch marks a resource lacking a required skill.
	ViolationSkillMismatch ViolationType = "skill_mismatch"
)

// Violation describes a single constraint violation.
type Violation struct {
	ViolationType ViolationType `json:"violation_type" yaml:"violation_type"`
	// EntityID names the related task, resource, or activity.
	EntityID string `json:"entity_id" yaml:"entity_id"`
	Message  string `json:"message" yaml:"message"`
	// Severity is 0-100, higher = worse.
	Severity int `json:"severity" yaml:"severity"`
}

// DeadlineMiss creates a deadline miss violation.
func DeadlineMiss(taskID, message string) Violation {
	return Violation{ViolationType: ViolationDeadlineMiss, EntityID: taskID, Message: message, Severity: 80}
}

// CapacityExceeded creates a capacity violation.
func CapacityExceeded(resourceID, message string) Violation {
	return Violation{ViolationType: ViolationCapacityExceeded, EntityID: resourceID, Message: message, Severity: 90}
}

// PrecedenceViolation creates a precedence violation.
func PrecedenceViolation(activityID, message string) Violation {
	return Violation{ViolationType: ViolationPrecedence, EntityID: activityID, Message: message, Severity: 95}
}

// NewSchedule creates an empty schedule.
func NewSchedule() *Schedule {
	return &Schedule{}
}

// AddAssignment appends an assignment.
func (s *Schedule) AddAssignment(assignment Assignment) {
	s.Assignments = append(s.Assignments, assignment)
}

// AddViolation appends a violation.
func (s *Schedule) AddViolation(violation Violation) {
	s.Violations = append(s.Violations, violation)
}

// IsValid reports whether the schedule has no violations.
func (s *Schedule) IsValid() bool {
	return len(s.Violations) == 0
}

// MakespanMs returns the latest end time across all assignments, or 0
// for an empty schedule.
func (s *Schedule) MakespanMs() int64 {
	var makespan int64
	for _, a := range s.Assignments {
		if a.EndMs > makespan {
			makespan = a.EndMs
		}
	}
	return makespan
}

// AssignmentForActivity finds the assignment for an activity, or nil.
func (s *Schedule) AssignmentForActivity(activityID string) *Assignment {
	for i := range s.Assignments {
		if s.Assignments[i].ActivityID == activityID {
			return &s.Assignments[i]
		}
	}
	return nil
}

// AssignmentsForTask returns all assignments belonging to a task.
func (s *Schedule) AssignmentsForTask(taskID string) []Assignment {
	var out []Assignment
	for _, a := range s.Assignments {
		if a.TaskID == taskID {
			out = append(out, a)
		}
	}
	return out
}

// AssignmentsForResource returns all assignments on a resource.
func (s *Schedule) AssignmentsForResource(resourceID string) []Assignment {
	var out []Assignment
	for _, a := range s.Assignments {
		if a.ResourceID == resourceID {
			out = append(out, a)
		}
	}
	return out
}

// ResourceUtilization computes busy time / horizon for one resource.
// The second return value is false when the horizon is not positive.
func (s *Schedule) ResourceUtilization(resourceID string, horizonMs int64) (float64, bool) {
	if horizonMs <= 0 {
		return 0, false
	}
	var busy int64
	for _, a := range s.AssignmentsForResource(resourceID) {
		busy += a.DurationMs()
	}
	return float64(busy) / float64(horizonMs), true
}

// AllUtilizations computes utilization for every resource that appears
// in an assignment, using the makespan as the horizon.
func (s *Schedule) AllUtilizations() map[string]float64 {
	horizon := s.MakespanMs()
	if horizon <= 0 {
		return map[string]float64{}
	}

	busy := make(map[string]int64)
	for _, a := range s.Assignments {
		busy[a.ResourceID] += a.DurationMs()
	}

	out := make(map[string]float64, len(busy))
	for id, ms := range busy {
		out[id] = float64(ms) / float64(horizon)
	}
	return out
}

// TaskCompletionTime returns the latest end among a task's assignments.
// The second return value is false when the task has no assignments.
func (s *Schedule) TaskCompletionTime(taskID string) (int64, bool) {
	var completion int64
	found := false
	for _, a := range s.Assignments {
		if a.TaskID == taskID {
			found = true
			if a.EndMs > completion {
				completion = a.EndMs
			}
		}
	}
	return completion, found
}

// AssignmentCount returns the number of assignments.
func (s *Schedule) AssignmentCount() int {
	return len(s.Assignments)
}
