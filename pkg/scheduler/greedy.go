// Package scheduler provides the greedy priority-driven scheduler and
// schedule quality metrics.
//
// The greedy scheduler is a deterministic list scheduler: tasks are
// ordered by a dispatching rule engine (or static priority), then each
// activity is placed on the earliest-available candidate resource with
// sequence-dependent setup times taken from transition matrices. It is
// not optimal, but produces fast baseline schedules for comparison with
// the GA and CP solvers.
package scheduler

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/khryptorgraphics/flowsched/pkg/dispatch"
	"github.com/khryptorgraphics/flowsched/pkg/models"
)

// Request bundles the inputs of one scheduling run.
type Request struct {
	// Tasks to schedule.
	Tasks []*models.Task `json:"tasks"`
	// Resources available for assignment.
	Resources []*models.Resource `json:"resources"`
	// StartTimeMs is the schedule start time.
	StartTimeMs int64 `json:"start_ms"`
	// TransitionMatrices holds the sequence-dependent setup tables.
	TransitionMatrices *models.TransitionMatrixCollection `json:"transition_matrices,omitempty"`
}

// NewRequest creates a request starting at the epoch.
func NewRequest(tasks []*models.Task, resources []*models.Resource) *Request {
	return &Request{Tasks: tasks, Resources: resources}
}

// WithStartTime sets the schedule start time.
func (r *Request) WithStartTime(startTimeMs int64) *Request {
	r.StartTimeMs = startTimeMs
	return r
}

// WithTransitionMatrices sets the setup time matrices.
func (r *Request) WithTransitionMatrices(matrices *models.TransitionMatrixCollection) *Request {
	r.TransitionMatrices = matrices
	return r
}

// Greedy is the priority-driven list scheduler.
//
// Scheduling never fails: an activity without candidate resources is
// silently dropped, which keeps the scheduler usable as a GA decoder
// where selection pressure penalizes implausible schedules.
type Greedy struct {
	transitionMatrices *models.TransitionMatrixCollection
	ruleEngine         *dispatch.Engine
	logger             zerolog.Logger
}

// NewGreedy creates a scheduler with no setup times and static-priority
// task ordering.
func NewGreedy() *Greedy {
	return &Greedy{logger: zerolog.Nop()}
}

// WithTransitionMatrices sets the setup time matrices.
func (g *Greedy) WithTransitionMatrices(matrices *models.TransitionMatrixCollection) *Greedy {
	g.transitionMatrices = matrices
	return g
}

// WithRuleEngine sets a dispatching rule engine. When set, tasks are
// ordered by the engine instead of by descending priority.
func (g *Greedy) WithRuleEngine(engine *dispatch.Engine) *Greedy {
	g.ruleEngine = engine
	return g
}

// WithLogger sets the logger.
func (g *Greedy) WithLogger(logger zerolog.Logger) *Greedy {
	g.logger = logger
	return g
}

// Schedule builds a schedule for the given tasks and resources starting
// at startTimeMs.
//
// Task order comes from the rule engine when present, otherwise from
// descending static priority (stable for ties). Within a task,
// activities run as a chain: each starts no earlier than the previous
// one ended. The cross-task predecessor DAG (Activity.Predecessors) is
// not consulted.
func (g *Greedy) Schedule(tasks []*models.Task, resources []*models.Resource, startTimeMs int64) *models.Schedule {
	schedule := models.NewSchedule()

	resourceAvailable := make(map[string]int64, len(resources))
	lastCategory := make(map[string]string, len(resources))
	for _, r := range resources {
		resourceAvailable[r.ID] = startTimeMs
	}

	for _, taskIdx := range g.sortTasks(tasks, startTimeMs) {
		task := tasks[taskIdx]

		taskStart := startTimeMs
		if task.ReleaseTime != nil && *task.ReleaseTime > taskStart {
			taskStart = *task.ReleaseTime
		}

		for _, activity := range task.Activities {
			candidates := activity.CandidateResources()
			if len(candidates) == 0 {
				g.logger.Debug().
					Str("activity", activity.ID).
					Msg("skipping activity without candidate resources")
				continue
			}

			// Earliest-available candidate; ties go to encounter order.
			bestResource := ""
			bestStart := int64(0)
			found := false
			for _, candidate := range candidates {
				available, ok := resourceAvailable[candidate]
				if !ok {
					continue
				}
				actualStart := available
				if taskStart > actualStart {
					actualStart = taskStart
				}
				if !found || actualStart < bestStart {
					found = true
					bestStart = actualStart
					bestResource = candidate
				}
			}
			if !found {
				continue
			}

			// The transition matrix is the sole source of setup time; the
			// activity's own setup/teardown components are not added.
			var setup int64
			if prevCat, ok := lastCategory[bestResource]; ok {
				setup = g.transitionMatrices.GetTransitionTime(bestResource, prevCat, task.Category)
			}

			start := bestStart
			end := start + setup + activity.Duration.ProcessMs

			schedule.AddAssignment(
				models.NewAssignment(activity.ID, task.ID, bestResource, start, end).WithSetup(setup))

			resourceAvailable[bestResource] = end
			lastCategory[bestResource] = task.Category
			taskStart = end
		}
	}

	g.logger.Debug().
		Int("assignments", schedule.AssignmentCount()).
		Int64("makespan_ms", schedule.MakespanMs()).
		Msg("greedy schedule built")

	return schedule
}

// ScheduleRequest builds a schedule from a request, using the request's
// transition matrices.
func (g *Greedy) ScheduleRequest(request *Request) *models.Schedule {
	run := &Greedy{
		transitionMatrices: request.TransitionMatrices,
		ruleEngine:         g.ruleEngine,
		logger:             g.logger,
	}
	return run.Schedule(request.Tasks, request.Resources, request.StartTimeMs)
}

// sortTasks returns task indices ordered by the rule engine or by
// descending priority.
func (g *Greedy) sortTasks(tasks []*models.Task, startTimeMs int64) []int {
	if g.ruleEngine != nil {
		return g.ruleEngine.SortIndices(tasks, dispatch.NewContext(startTimeMs))
	}

	indices := make([]int, len(tasks))
	for i := range indices {
		indices[i] = i
	}
	sort.SliceStable(indices, func(a, b int) bool {
		return tasks[indices[a]].Priority > tasks[indices[b]].Priority
	})
	return indices
}
