package cp

import (
	"github.com/rs/zerolog"

	"github.com/khryptorgraphics/flowsched/pkg/models"
)

// Builder lowers tasks, resources, and user constraints into a Model.
//
// The lowering never fails: constraint variants the formulation cannot
// express (capacity, time windows, transition costs, synchronize) are
// silently omitted.
type Builder struct {
	tasks              []*models.Task
	resources          []*models.Resource
	constraints        []models.Constraint
	transitionMatrices *models.TransitionMatrixCollection
	logger             zerolog.Logger
}

// NewBuilder creates a builder over the given domain objects.
func NewBuilder(tasks []*models.Task, resources []*models.Resource) *Builder {
	return &Builder{tasks: tasks, resources: resources, logger: zerolog.Nop()}
}

// WithConstraints sets the user-defined constraints.
func (b *Builder) WithConstraints(constraints []models.Constraint) *Builder {
	b.constraints = constraints
	return b
}

// WithTransitionMatrices sets the setup tables. The current lowering
// does not emit them; they are carried for future transition-aware
// formulations.
func (b *Builder) WithTransitionMatrices(matrices *models.TransitionMatrixCollection) *Builder {
	b.transitionMatrices = matrices
	return b
}

// WithLogger sets the logger.
func (b *Builder) WithLogger(logger zerolog.Logger) *Builder {
	b.logger = logger
	return b
}

// Build lowers the domain into a model with the given horizon:
//
//  1. One fixed-duration interval per activity, bounded by the task's
//     release time and the horizon.
//  2. A precedence constraint per consecutive activity pair in a task.
//  3. One no-overlap set per resource with two or more candidate
//     activities. Every candidate resource is treated as a potential
//     host, which over-approximates in flexible job shops.
//  4. User precedence and no-overlap constraints.
//  5. The MinimizeMaxEnd objective.
func (b *Builder) Build(horizonMs int64) *Model {
	model := NewModel("scheduling", horizonMs)

	for _, task := range b.tasks {
		var release int64
		if task.ReleaseTime != nil {
			release = *task.ReleaseTime
		}

		for _, activity := range task.Activities {
			duration := activity.Duration.ProcessMs
			model.AddInterval(NewIntervalVar(
				activity.ID,
				release,
				horizonMs-duration,
				duration,
				horizonMs,
			))
		}

		for i := 0; i+1 < len(task.Activities); i++ {
			model.AddPrecedence(task.Activities[i].ID, task.Activities[i+1].ID, 0)
		}
	}

	for _, activityIDs := range b.collectResourceActivities() {
		if len(activityIDs) > 1 {
			model.AddNoOverlap(activityIDs)
		}
	}

	for _, constraint := range b.constraints {
		switch constraint.Type {
		case models.ConstraintPrecedence:
			model.AddPrecedence(constraint.Before, constraint.After, constraint.MinDelayMs)
		case models.ConstraintNoOverlap:
			model.AddNoOverlap(constraint.ActivityIDs)
		default:
			// Capacity, TimeWindow, TransitionCost, Synchronize are not
			// expressible in this formulation.
			b.logger.Debug().
				Str("constraint", string(constraint.Type)).
				Msg("constraint variant not lowered")
		}
	}

	model.SetObjective(MinimizeMaxEnd)
	return model
}

// Solve builds the model, runs the solver, and decodes the result.
func (b *Builder) Solve(solver *Solver, config SolverConfig, horizonMs int64) (*models.Schedule, *Solution) {
	model := b.Build(horizonMs)
	solution := solver.Solve(model, config)
	return b.DecodeSolution(solution), solution
}

// DecodeSolution converts a solver result into a schedule, assigning
// each present interval to the activity's first candidate resource.
// When no solution was found the schedule is empty.
func (b *Builder) DecodeSolution(solution *Solution) *models.Schedule {
	schedule := models.NewSchedule()
	if !solution.IsSolutionFound {
		return schedule
	}

	for _, task := range b.tasks {
		for _, activity := range task.Activities {
			intervalSol, ok := solution.Intervals[activity.ID]
			if !ok || !intervalSol.IsPresent {
				continue
			}

			resourceID := ""
			if candidates := activity.CandidateResources(); len(candidates) > 0 {
				resourceID = candidates[0]
			}

			schedule.AddAssignment(models.NewAssignment(
				activity.ID, task.ID, resourceID, intervalSol.Start, intervalSol.End))
		}
	}

	return schedule
}

// collectResourceActivities maps each candidate resource to the
// activities that could run on it, preserving input order. The keys
// are returned in first-seen order for deterministic model shapes.
func (b *Builder) collectResourceActivities() [][]string {
	index := make(map[string]int)
	var groups [][]string

	for _, task := range b.tasks {
		for _, activity := range task.Activities {
			for _, candidate := range activity.CandidateResources() {
				i, ok := index[candidate]
				if !ok {
					i = len(groups)
					index[candidate] = i
					groups = append(groups, nil)
				}
				groups[i] = append(groups[i], activity.ID)
			}
		}
	}

	return groups
}
