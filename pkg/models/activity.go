package models

// Activity represents the smallest schedulable unit of work.
//
// An activity belongs to a task, requires resources, has a three-part
// duration (setup, process, teardown), and may carry predecessor links
// forming a DAG across the whole activity set.
type Activity struct {
	// ID is the unique activity identifier.
	ID string `json:"id" yaml:"id"`
	// TaskID is the identifier of the owning task.
	TaskID string `json:"task_id" yaml:"task_id"`
	// Sequence is the 0-based position within the task.
	Sequence int `json:"sequence" yaml:"sequence"`
	// Duration holds the setup/process/teardown time components.
	Duration ActivityDuration `json:"duration" yaml:"duration"`
	// ResourceRequirements lists the resources this activity needs.
	ResourceRequirements []ResourceRequirement `json:"resource_requirements" yaml:"resource_requirements"`
	// Predecessors lists activity IDs that must complete before this one starts.
	Predecessors []string `json:"predecessors,omitempty" yaml:"predecessors,omitempty"`
	// Splittable marks the activity as preemptable. Reserved: the greedy
	// and GA decoders do not honor splitting.
	Splittable bool `json:"splittable" yaml:"splittable"`
	// MinSplitMs is the minimum duration of each split segment.
	MinSplitMs int64 `json:"min_split_ms" yaml:"min_split_ms"`
	// Attributes holds domain-specific metadata.
	Attributes map[string]string `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

// NewActivity creates an activity owned by the given task.
func NewActivity(id, taskID string, sequence int) *Activity {
	return &Activity{
		ID:         id,
		TaskID:     taskID,
		Sequence:   sequence,
		Attributes: make(map[string]string),
	}
}

// WithDuration sets the duration triple.
func (a *Activity) WithDuration(d ActivityDuration) *Activity {
	a.Duration = d
	return a
}

// WithProcessTime sets a fixed processing time (setup=0, teardown=0).
func (a *Activity) WithProcessTime(processMs int64) *Activity {
	a.Duration = FixedDuration(processMs)
	return a
}

// WithRequirement appends a resource requirement.
func (a *Activity) WithRequirement(req ResourceRequirement) *Activity {
	a.ResourceRequirements = append(a.ResourceRequirements, req)
	return a
}

// WithPredecessor appends a predecessor activity ID.
func (a *Activity) WithPredecessor(predecessorID string) *Activity {
	a.Predecessors = append(a.Predecessors, predecessorID)
	return a
}

// WithSplitting enables preemption with a minimum split size.
func (a *Activity) WithSplitting(minSplitMs int64) *Activity {
	a.Splittable = true
	a.MinSplitMs = minSplitMs
	return a
}

// CandidateResources returns all candidate resource IDs across all
// requirements, in requirement order.
func (a *Activity) CandidateResources() []string {
	var candidates []string
	for _, req := range a.ResourceRequirements {
		candidates = append(candidates, req.Candidates...)
	}
	return candidates
}

// ActivityDuration holds the time components of an activity.
//
// Setup may be overridden by a TransitionMatrix for sequence-dependent
// changeovers; the greedy and GA decoders use ProcessMs plus the
// matrix-derived setup only.
type ActivityDuration struct {
	// SetupMs is the preparation time in ms.
	SetupMs int64 `json:"setup_ms" yaml:"setup_ms"`
	// ProcessMs is the core work time in ms.
	ProcessMs int64 `json:"process_ms" yaml:"process_ms"`
	// TeardownMs is the cleanup/cooldown time in ms.
	TeardownMs int64 `json:"teardown_ms" yaml:"teardown_ms"`
}

// NewDuration creates a duration with all three components.
func NewDuration(setupMs, processMs, teardownMs int64) ActivityDuration {
	return ActivityDuration{SetupMs: setupMs, ProcessMs: processMs, TeardownMs: teardownMs}
}

// FixedDuration creates a duration with processing time only.
func FixedDuration(processMs int64) ActivityDuration {
	return ActivityDuration{ProcessMs: processMs}
}

// TotalMs returns setup + process + teardown.
func (d ActivityDuration) TotalMs() int64 {
	return d.SetupMs + d.ProcessMs + d.TeardownMs
}

// ResourceRequirement specifies what resources an activity needs.
//
// Empty Candidates means any resource of the given type; the current
// decoders only honor the Candidates list.
type ResourceRequirement struct {
	// ResourceType names the required type (e.g. "Machine", "Operator").
	ResourceType string `json:"resource_type" yaml:"resource_type"`
	// Quantity is the number of units needed simultaneously.
	Quantity int `json:"quantity" yaml:"quantity"`
	// Candidates lists the specific resource IDs that can fulfill this
	// requirement. Empty = any resource of the type.
	Candidates []string `json:"candidates,omitempty" yaml:"candidates,omitempty"`
	// RequiredSkills names skills the resource must have. The validator
	// and the decoders do not check it against Resource.Skills.
	RequiredSkills []string `json:"required_skills,omitempty" yaml:"required_skills,omitempty"`
}

// NewRequirement creates a requirement for one unit of a resource type.
func NewRequirement(resourceType string) ResourceRequirement {
	return ResourceRequirement{ResourceType: resourceType, Quantity: 1}
}

// WithQuantity sets the required quantity.
func (r ResourceRequirement) WithQuantity(quantity int) ResourceRequirement {
	r.Quantity = quantity
	return r
}

// WithCandidates sets the candidate resource IDs.
func (r ResourceRequirement) WithCandidates(candidates ...string) ResourceRequirement {
	r.Candidates = candidates
	return r
}

// WithSkill appends a required skill.
func (r ResourceRequirement) WithSkill(skill string) ResourceRequirement {
	r.RequiredSkills = append(r.RequiredSkills, skill)
	return r
}
