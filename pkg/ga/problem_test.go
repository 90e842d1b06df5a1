package ga

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khryptorgraphics/flowsched/pkg/models"
	"github.com/khryptorgraphics/flowsched/pkg/random"
)

func makeTestProblem() ([]*models.Task, []*models.Resource) {
	tasks := []*models.Task{
		models.NewTask("T1").
			WithCategory("TypeA").
			WithPriority(5).
			WithDeadline(10_000).
			WithActivity(models.NewActivity("T1_O1", "T1", 0).
				WithDuration(models.FixedDuration(1000)).
				WithRequirement(models.NewRequirement("Machine").WithCandidates("M1", "M2"))).
			WithActivity(models.NewActivity("T1_O2", "T1", 1).
				WithDuration(models.FixedDuration(2000)).
				WithRequirement(models.NewRequirement("Machine").WithCandidates("M2"))),
		models.NewTask("T2").
			WithCategory("TypeB").
			WithPriority(3).
			WithActivity(models.NewActivity("T2_O1", "T2", 0).
				WithDuration(models.FixedDuration(1500)).
				WithRequirement(models.NewRequirement("Machine").WithCandidates("M1", "M3"))),
	}
	resources := []*models.Resource{
		models.PrimaryResource("M1"),
		models.PrimaryResource("M2"),
		models.PrimaryResource("M3"),
	}
	return tasks, resources
}

func TestProblem_New(t *testing.T) {
	tasks, resources := makeTestProblem()
	p := NewProblem(tasks, resources)

	assert.Len(t, p.Activities, 3)
	assert.Equal(t, "TypeA", p.TaskCategories["T1"])
	assert.Equal(t, int64(10_000), p.Deadlines["T1"])
	_, hasT2 := p.Deadlines["T2"]
	assert.False(t, hasT2)
	assert.InDelta(t, 0.5, p.TardinessWeight, 1e-10)
}

func TestProblem_Decode(t *testing.T) {
	tasks, resources := makeTestProblem()
	p := NewProblem(tasks, resources)
	rng := random.New(42)

	c := p.CreateIndividual(rng)
	schedule := p.Decode(c)

	assert.Equal(t, 3, schedule.AssignmentCount())
	assert.Greater(t, schedule.MakespanMs(), int64(0))
}

func TestProblem_DecodeIntraTaskOrder(t *testing.T) {
	tasks, resources := makeTestProblem()
	p := NewProblem(tasks, resources)
	rng := random.New(42)

	for i := 0; i < 20; i++ {
		c := p.CreateIndividual(rng)
		schedule := p.Decode(c)

		o1 := schedule.AssignmentForActivity("T1_O1")
		o2 := schedule.AssignmentForActivity("T1_O2")
		require.NotNil(t, o1)
		require.NotNil(t, o2)
		// Semi-active decode honors task readiness: the second operation
		// never starts before the first ends.
		assert.GreaterOrEqual(t, o2.StartMs, o1.EndMs)
	}
}

func TestProblem_DecodeResourceDisjoint(t *testing.T) {
	tasks, resources := makeTestProblem()
	p := NewProblem(tasks, resources)
	rng := random.New(17)

	for i := 0; i < 20; i++ {
		c := p.CreateIndividual(rng)
		schedule := p.Decode(c)

		for _, r := range resources {
			assignments := schedule.AssignmentsForResource(r.ID)
			for a := 0; a < len(assignments); a++ {
				for b := a + 1; b < len(assignments); b++ {
					x, y := assignments[a], assignments[b]
					assert.True(t, x.EndMs <= y.StartMs || y.EndMs <= x.StartMs,
						"overlap on %s between %s and %s", r.ID, x.ActivityID, y.ActivityID)
				}
			}
		}
	}
}

func TestProblem_DecodeReleaseTime(t *testing.T) {
	tasks, resources := makeTestProblem()
	tasks[1].ReleaseTime = func() *int64 { v := int64(5_000); return &v }()
	p := NewProblem(tasks, resources)
	rng := random.New(9)

	c := p.CreateIndividual(rng)
	schedule := p.Decode(c)

	o := schedule.AssignmentForActivity("T2_O1")
	require.NotNil(t, o)
	assert.GreaterOrEqual(t, o.StartMs, int64(5_000))
}

func TestProblem_DecodeSetupTimes(t *testing.T) {
	tasks, resources := makeTestProblem()
	tm := models.NewTransitionMatrix("changeover", "M1").WithDefault(400)
	matrices := models.NewTransitionMatrixCollection().WithMatrix(tm)
	p := NewProblem(tasks, resources).WithTransitionMatrices(matrices)

	// Force both first operations onto M1: T1 first, then T2.
	c := &Chromosome{
		OSV:           []string{"T1", "T2", "T1"},
		MAV:           []string{"M1", "M2", "M1"},
		activityIndex: buildActivityIndex(p.Activities),
	}

	schedule := p.Decode(c)
	o := schedule.AssignmentForActivity("T2_O1")
	require.NotNil(t, o)
	// TypeA → TypeB on M1 costs the matrix default.
	assert.Equal(t, int64(400), o.SetupMs)
	assert.Equal(t, o.StartMs+400+1500, o.EndMs)
}

func TestProblem_EvaluateFinite(t *testing.T) {
	tasks, resources := makeTestProblem()
	p := NewProblem(tasks, resources)
	rng := random.New(42)

	c := p.CreateIndividual(rng)
	fitness := p.Evaluate(c)
	assert.False(t, fitness < 0)
	assert.Greater(t, fitness, 0.0)
}

func TestProblem_TardinessWeight(t *testing.T) {
	tasks, resources := makeTestProblem()
	pMakespan := NewProblem(tasks, resources).WithTardinessWeight(0.0)
	pTardy := NewProblem(tasks, resources).WithTardinessWeight(1.0)

	rng := random.New(42)
	c := pMakespan.CreateIndividual(rng)

	f1 := pMakespan.Evaluate(c)
	f2 := pTardy.Evaluate(c)
	// Pure makespan is positive; with the loose 10s deadline the pure
	// tardiness term is zero.
	assert.Greater(t, f1, 0.0)
	assert.InDelta(t, 0.0, f2, 1e-10)
}

func TestProblem_TardinessWeightClamped(t *testing.T) {
	tasks, resources := makeTestProblem()
	p := NewProblem(tasks, resources).WithTardinessWeight(2.5)
	assert.InDelta(t, 1.0, p.TardinessWeight, 1e-10)

	p.WithTardinessWeight(-1)
	assert.InDelta(t, 0.0, p.TardinessWeight, 1e-10)
}

func TestProblem_CrossoverAndMutate(t *testing.T) {
	tasks, resources := makeTestProblem()
	p := NewProblem(tasks, resources)
	rng := random.New(42)

	p1 := p.CreateIndividual(rng)
	p2 := p.CreateIndividual(rng)

	children := p.Crossover(p1, p2, rng)
	require.Len(t, children, 2)
	assert.True(t, children[0].Valid(p.Activities))
	assert.True(t, children[1].Valid(p.Activities))

	child := children[0].Clone()
	p.Mutate(child, rng)
	assert.Len(t, child.OSV, len(p1.OSV))
	assert.True(t, child.Valid(p.Activities))
}

func TestProblem_CreateIndividualMixesInitializers(t *testing.T) {
	tasks, resources := makeTestProblem()
	p := NewProblem(tasks, resources)
	rng := random.New(0)

	for i := 0; i < 50; i++ {
		c := p.CreateIndividual(rng)
		require.True(t, c.Valid(p.Activities))
	}
}

func TestProblem_CreateIndividualWithProcessingTimes(t *testing.T) {
	tasks, resources := makeTestProblem()
	times := ProcessingTimes{
		{TaskID: "T1", Sequence: 1, ResourceID: "M1"}: 800,
	}
	p := NewProblem(tasks, resources).WithProcessingTimes(times)
	rng := random.New(0)

	for i := 0; i < 50; i++ {
		c := p.CreateIndividual(rng)
		require.True(t, c.Valid(p.Activities))
	}
}

func TestProblem_DecodeSkipsEmptyMAV(t *testing.T) {
	acts := []ActivityInfo{{ID: "A1", TaskID: "T1", Sequence: 1, ProcessMs: 100}}
	p := &Problem{
		Activities:     acts,
		TaskCategories: map[string]string{"T1": ""},
		Deadlines:      map[string]int64{},
		ReleaseTimes:   map[string]int64{},
	}
	c := NewRandomChromosome(acts, random.New(1))

	schedule := p.Decode(c)
	assert.Equal(t, 0, schedule.AssignmentCount())
}
