package ga

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khryptorgraphics/flowsched/pkg/models"
	"github.com/khryptorgraphics/flowsched/pkg/random"
)

func sampleActivities() []ActivityInfo {
	return []ActivityInfo{
		{ID: "T1_O1", TaskID: "T1", Sequence: 1, ProcessMs: 1000, Candidates: []string{"M1", "M2"}},
		{ID: "T1_O2", TaskID: "T1", Sequence: 2, ProcessMs: 2000, Candidates: []string{"M2"}},
		{ID: "T2_O1", TaskID: "T2", Sequence: 1, ProcessMs: 1500, Candidates: []string{"M1", "M3"}},
	}
}

func TestActivitiesFromTasks(t *testing.T) {
	tasks := []*models.Task{
		models.NewTask("T1").
			WithActivity(models.NewActivity("T1_O1", "T1", 0).
				WithDuration(models.FixedDuration(1000)).
				WithRequirement(models.NewRequirement("Machine").WithCandidates("M1", "M2"))).
			WithActivity(models.NewActivity("T1_O2", "T1", 1).
				WithDuration(models.FixedDuration(2000)).
				WithRequirement(models.NewRequirement("Machine").WithCandidates("M2"))),
		models.NewTask("T2").
			WithActivity(models.NewActivity("T2_O1", "T2", 0).
				WithDuration(models.FixedDuration(1500)).
				WithRequirement(models.NewRequirement("Machine").WithCandidates("M1", "M3"))),
	}

	infos := ActivitiesFromTasks(tasks)
	require.Len(t, infos, 3)
	assert.Equal(t, "T1", infos[0].TaskID)
	assert.Equal(t, 1, infos[0].Sequence)
	assert.Equal(t, int64(1000), infos[0].ProcessMs)
	assert.Equal(t, "T1_O2", infos[1].ID)
	assert.Equal(t, 2, infos[1].Sequence)
	assert.Equal(t, "T2", infos[2].TaskID)
}

func TestNewRandomChromosome(t *testing.T) {
	acts := sampleActivities()
	rng := random.New(42)

	c := NewRandomChromosome(acts, rng)
	assert.True(t, c.Valid(acts))
	assert.True(t, math.IsInf(c.Fitness(), 1))
	assert.Len(t, c.OSV, 3)
	assert.Len(t, c.MAV, 3)
}

func TestNewLoadBalancedChromosome(t *testing.T) {
	acts := []ActivityInfo{
		{ID: "A1", TaskID: "T1", Sequence: 1, ProcessMs: 1000, Candidates: []string{"M1", "M2"}},
		{ID: "A2", TaskID: "T2", Sequence: 1, ProcessMs: 1000, Candidates: []string{"M1", "M2"}},
	}
	rng := random.New(1)

	c := NewLoadBalancedChromosome(acts, rng)
	require.True(t, c.Valid(acts))
	// First activity picks M1 (ties break on candidate order); the
	// accumulated load then pushes the second onto M2.
	assert.Equal(t, "M1", c.MAV[0])
	assert.Equal(t, "M2", c.MAV[1])
}

func TestNewShortestTimeChromosome(t *testing.T) {
	acts := sampleActivities()
	times := ProcessingTimes{
		{TaskID: "T1", Sequence: 1, ResourceID: "M1"}: 900,
		{TaskID: "T1", Sequence: 1, ResourceID: "M2"}: 500,
		{TaskID: "T2", Sequence: 1, ResourceID: "M3"}: 100,
	}
	rng := random.New(7)

	c := NewShortestTimeChromosome(acts, times, rng)
	require.True(t, c.Valid(acts))
	assert.Equal(t, "M2", c.MAV[0]) // 500 < 900
	assert.Equal(t, "M2", c.MAV[1]) // only candidate
	assert.Equal(t, "M3", c.MAV[2]) // 100 beats the 1500 fallback on M1
}

func TestChromosome_DecodeOSV(t *testing.T) {
	c := &Chromosome{OSV: []string{"T1", "T2", "T1"}}

	refs := c.DecodeOSV()
	assert.Equal(t, []OperationRef{
		{TaskID: "T1", Sequence: 1},
		{TaskID: "T2", Sequence: 1},
		{TaskID: "T1", Sequence: 2},
	}, refs)
}

func TestChromosome_ResourceFor(t *testing.T) {
	acts := sampleActivities()
	c := NewRandomChromosome(acts, random.New(3))

	got, ok := c.ResourceFor("T1", 2)
	require.True(t, ok)
	assert.Equal(t, "M2", got)

	_, ok = c.ResourceFor("T9", 1)
	assert.False(t, ok)
}

func TestChromosome_Valid(t *testing.T) {
	acts := sampleActivities()
	c := NewRandomChromosome(acts, random.New(5))
	require.True(t, c.Valid(acts))

	// Wrong length.
	short := &Chromosome{OSV: []string{"T1"}, MAV: []string{"M1"}}
	assert.False(t, short.Valid(acts))

	// Wrong occurrence counts.
	skewed := c.Clone()
	skewed.OSV = []string{"T1", "T1", "T1"}
	assert.False(t, skewed.Valid(acts))

	// Resource outside the candidate set.
	infeasible := c.Clone()
	infeasible.MAV[1] = "M9"
	assert.False(t, infeasible.Valid(acts))
}

func TestChromosome_ValidEmptyCandidates(t *testing.T) {
	acts := []ActivityInfo{{ID: "A1", TaskID: "T1", Sequence: 1, ProcessMs: 100}}
	c := NewRandomChromosome(acts, random.New(11))
	assert.Equal(t, "", c.MAV[0])
	// Empty candidate sets accept anything.
	assert.True(t, c.Valid(acts))
}

func TestChromosome_Clone(t *testing.T) {
	acts := sampleActivities()
	c := NewRandomChromosome(acts, random.New(13))
	c.SetFitness(123.5)

	clone := c.Clone()
	assert.Equal(t, c.OSV, clone.OSV)
	assert.Equal(t, c.MAV, clone.MAV)
	assert.Equal(t, 123.5, clone.Fitness())

	clone.OSV[0] = "mutated"
	assert.NotEqual(t, c.OSV[0], clone.OSV[0])
}
