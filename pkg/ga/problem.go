package ga

import (
	"github.com/khryptorgraphics/flowsched/pkg/models"
	"github.com/khryptorgraphics/flowsched/pkg/random"
)

// Problem bridges the scheduling domain to the GA runner: it creates
// individuals, decodes them into schedules, and scores them.
//
// Fitness is (1-w)*makespan + w*totalTardiness with w the tardiness
// weight; both terms are in milliseconds, so the scales are comparable.
type Problem struct {
	// Activities is the flattened activity list the encoding is keyed by.
	Activities []ActivityInfo
	// Resources are the available resources.
	Resources []*models.Resource
	// TaskCategories maps task ID to category for setup lookups.
	TaskCategories map[string]string
	// TransitionMatrices holds sequence-dependent setup tables.
	TransitionMatrices *models.TransitionMatrixCollection
	// Deadlines maps task ID to deadline for tasks that have one.
	Deadlines map[string]int64
	// ReleaseTimes maps task ID to release time for tasks that have one.
	ReleaseTimes map[string]int64
	// TardinessWeight is w in the fitness blend, clamped to [0,1].
	TardinessWeight float64
	// ProcessingTimes optionally holds machine-dependent durations; when
	// set, initialization blends in shortest-time individuals.
	ProcessingTimes ProcessingTimes
	// Operators selects crossover and mutation strategies.
	Operators Operators
}

// NewProblem creates a problem from domain models with the default
// operators and a tardiness weight of 0.5.
func NewProblem(tasks []*models.Task, resources []*models.Resource) *Problem {
	p := &Problem{
		Activities:      ActivitiesFromTasks(tasks),
		Resources:       resources,
		TaskCategories:  make(map[string]string, len(tasks)),
		Deadlines:       make(map[string]int64),
		ReleaseTimes:    make(map[string]int64),
		TardinessWeight: 0.5,
		Operators:       DefaultOperators(),
	}
	for _, task := range tasks {
		p.TaskCategories[task.ID] = task.Category
		if task.Deadline != nil {
			p.Deadlines[task.ID] = *task.Deadline
		}
		if task.ReleaseTime != nil {
			p.ReleaseTimes[task.ID] = *task.ReleaseTime
		}
	}
	return p
}

// WithTransitionMatrices sets the setup time matrices.
func (p *Problem) WithTransitionMatrices(matrices *models.TransitionMatrixCollection) *Problem {
	p.TransitionMatrices = matrices
	return p
}

// WithTardinessWeight sets w (0 = pure makespan, 1 = pure tardiness).
func (p *Problem) WithTardinessWeight(weight float64) *Problem {
	if weight < 0 {
		weight = 0
	}
	if weight > 1 {
		weight = 1
	}
	p.TardinessWeight = weight
	return p
}

// WithProcessingTimes sets machine-dependent processing times.
func (p *Problem) WithProcessingTimes(times ProcessingTimes) *Problem {
	p.ProcessingTimes = times
	return p
}

// WithOperators sets the genetic operator configuration.
func (p *Problem) WithOperators(operators Operators) *Problem {
	p.Operators = operators
	return p
}

// CreateIndividual builds one chromosome. The initial population mixes
// strategies: 50% random / 50% load-balanced, or 50/25/25 adding
// shortest-time when processing times are available.
func (p *Problem) CreateIndividual(rng random.Source) *Chromosome {
	if p.ProcessingTimes != nil {
		switch roll := rng.Float64(); {
		case roll < 0.5:
			return NewRandomChromosome(p.Activities, rng)
		case roll < 0.75:
			return NewLoadBalancedChromosome(p.Activities, rng)
		default:
			return NewShortestTimeChromosome(p.Activities, p.ProcessingTimes, rng)
		}
	}
	if rng.Bool(0.5) {
		return NewRandomChromosome(p.Activities, rng)
	}
	return NewLoadBalancedChromosome(p.Activities, rng)
}

// Evaluate decodes the chromosome and returns its fitness (lower is
// better).
func (p *Problem) Evaluate(c *Chromosome) float64 {
	return p.fitness(p.Decode(c))
}

// Crossover recombines two parents into exactly two children using the
// configured strategy.
func (p *Problem) Crossover(p1, p2 *Chromosome, rng random.Source) []*Chromosome {
	c1, c2 := p.Operators.ApplyCrossover(p1, p2, p.Activities, rng)
	return []*Chromosome{c1, c2}
}

// Mutate applies the configured OSV mutation followed by MAV mutation.
func (p *Problem) Mutate(c *Chromosome, rng random.Source) {
	p.Operators.ApplyMutation(c, p.Activities, rng)
}

// Decode performs the semi-active decode: OSV entries are placed left
// shifted as early as resource readiness, task readiness, and release
// times allow, with matrix-derived setup between category changes.
//
// Unknown operations and empty MAV entries are skipped rather than
// reported; selection pressure weeds out the resulting schedules.
func (p *Problem) Decode(c *Chromosome) *models.Schedule {
	schedule := models.NewSchedule()

	resourceReady := make(map[string]int64, len(p.Resources))
	for _, r := range p.Resources {
		resourceReady[r.ID] = 0
	}
	taskReady := make(map[string]int64)
	lastCategory := make(map[string]string)

	for _, ref := range c.DecodeOSV() {
		idx, ok := c.activityIndex[activityKey{taskID: ref.TaskID, sequence: ref.Sequence}]
		if !ok || idx >= len(p.Activities) {
			continue
		}
		act := &p.Activities[idx]

		resourceID := c.MAV[idx]
		if resourceID == "" {
			continue
		}

		start := resourceReady[resourceID]
		if ready := taskReady[ref.TaskID]; ready > start {
			start = ready
		}
		if release := p.ReleaseTimes[ref.TaskID]; release > start {
			start = release
		}

		category := p.TaskCategories[ref.TaskID]
		var setup int64
		if prevCat, ok := lastCategory[resourceID]; ok {
			setup = p.TransitionMatrices.GetTransitionTime(resourceID, prevCat, category)
		}

		end := start + setup + act.ProcessMs
		schedule.AddAssignment(
			models.NewAssignment(act.ID, ref.TaskID, resourceID, start, end).WithSetup(setup))

		resourceReady[resourceID] = end
		taskReady[ref.TaskID] = end
		lastCategory[resourceID] = category
	}

	return schedule
}

// fitness blends makespan and total tardiness by the tardiness weight.
func (p *Problem) fitness(schedule *models.Schedule) float64 {
	makespan := float64(schedule.MakespanMs())

	var totalTardiness float64
	for taskID, deadline := range p.Deadlines {
		completion, ok := schedule.TaskCompletionTime(taskID)
		if !ok {
			continue
		}
		if tardiness := completion - deadline; tardiness > 0 {
			totalTardiness += float64(tardiness)
		}
	}

	return (1.0-p.TardinessWeight)*makespan + p.TardinessWeight*totalTardiness
}
