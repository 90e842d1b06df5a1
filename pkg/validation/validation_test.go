package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khryptorgraphics/flowsched/pkg/models"
)

func sampleResources() []*models.Resource {
	return []*models.Resource{
		models.PrimaryResource("M1").WithName("Machine 1"),
		models.PrimaryResource("M2").WithName("Machine 2"),
		models.HumanResource("W1").WithName("Worker 1"),
	}
}

func sampleTasks() []*models.Task {
	return []*models.Task{
		models.NewTask("J1").
			WithActivity(models.NewActivity("O1", "J1", 0).
				WithDuration(models.FixedDuration(1000)).
				WithRequirement(models.NewRequirement("Machine").WithCandidates("M1"))).
			WithActivity(models.NewActivity("O2", "J1", 1).
				WithDuration(models.FixedDuration(2000)).
				WithPredecessor("O1").
				WithRequirement(models.NewRequirement("Machine").WithCandidates("M2"))),
		models.NewTask("J2").
			WithActivity(models.NewActivity("O3", "J2", 0).
				WithDuration(models.FixedDuration(1500)).
				WithRequirement(models.NewRequirement("Machine").WithCandidates("M1"))),
	}
}

func TestValidateInput_Valid(t *testing.T) {
	errs := ValidateInput(sampleTasks(), sampleResources())
	assert.Empty(t, errs)
}

func TestValidateInput_DuplicateTaskID(t *testing.T) {
	tasks := []*models.Task{
		models.NewTask("J1").WithActivity(models.NewActivity("O1", "J1", 0).WithProcessTime(100)),
		models.NewTask("J1").WithActivity(models.NewActivity("O2", "J1", 0).WithProcessTime(100)),
	}

	errs := ValidateInput(tasks, sampleResources())
	require.NotEmpty(t, errs)
	assert.True(t, errs.HasKind(DuplicateID))
}

func TestValidateInput_DuplicateResourceID(t *testing.T) {
	resources := []*models.Resource{
		models.PrimaryResource("M1"),
		models.PrimaryResource("M1"),
	}

	errs := ValidateInput(sampleTasks(), resources)
	require.NotEmpty(t, errs)
	assert.True(t, errs.HasKind(DuplicateID))
	// M2 is now unknown as well.
	assert.True(t, errs.HasKind(InvalidResourceReference))
}

func TestValidateInput_DuplicateActivityID(t *testing.T) {
	tasks := []*models.Task{
		models.NewTask("J1").WithActivity(models.NewActivity("O1", "J1", 0).WithProcessTime(100)),
		models.NewTask("J2").WithActivity(models.NewActivity("O1", "J2", 0).WithProcessTime(100)),
	}

	errs := ValidateInput(tasks, sampleResources())
	require.NotEmpty(t, errs)
	assert.True(t, errs.HasKind(DuplicateID))
}

func TestValidateInput_EmptyTask(t *testing.T) {
	tasks := []*models.Task{models.NewTask("empty")}

	errs := ValidateInput(tasks, sampleResources())
	require.NotEmpty(t, errs)
	assert.True(t, errs.HasKind(EmptyTask))
}

func TestValidateInput_InvalidResourceReference(t *testing.T) {
	tasks := []*models.Task{
		models.NewTask("J1").WithActivity(models.NewActivity("O1", "J1", 0).
			WithProcessTime(100).
			WithRequirement(models.NewRequirement("Machine").WithCandidates("NONEXISTENT"))),
	}

	errs := ValidateInput(tasks, sampleResources())
	require.NotEmpty(t, errs)
	assert.True(t, errs.HasKind(InvalidResourceReference))
}

func TestValidateInput_InvalidPredecessor(t *testing.T) {
	tasks := []*models.Task{
		models.NewTask("J1").WithActivity(models.NewActivity("O1", "J1", 0).
			WithProcessTime(100).
			WithPredecessor("NONEXISTENT")),
	}

	errs := ValidateInput(tasks, sampleResources())
	require.NotEmpty(t, errs)
	assert.True(t, errs.HasKind(InvalidPredecessor))
}

func TestValidateInput_CyclicDependency(t *testing.T) {
	// O1 → O2 → O3 → O1
	tasks := []*models.Task{
		models.NewTask("J1").
			WithActivity(models.NewActivity("O1", "J1", 0).WithProcessTime(100).WithPredecessor("O3")).
			WithActivity(models.NewActivity("O2", "J1", 1).WithProcessTime(100).WithPredecessor("O1")).
			WithActivity(models.NewActivity("O3", "J1", 2).WithProcessTime(100).WithPredecessor("O2")),
	}

	errs := ValidateInput(tasks, sampleResources())
	require.NotEmpty(t, errs)
	assert.True(t, errs.HasKind(CyclicDependency))
}

func TestValidateInput_NoCycleInChain(t *testing.T) {
	// O1 → O2 → O3 linear chain.
	tasks := []*models.Task{
		models.NewTask("J1").
			WithActivity(models.NewActivity("O1", "J1", 0).WithProcessTime(100)).
			WithActivity(models.NewActivity("O2", "J1", 1).WithProcessTime(100).WithPredecessor("O1")).
			WithActivity(models.NewActivity("O3", "J1", 2).WithProcessTime(100).WithPredecessor("O2")),
	}

	errs := ValidateInput(tasks, sampleResources())
	assert.Empty(t, errs)
}

func TestValidateInput_CrossTaskDAG(t *testing.T) {
	// Diamond across two tasks: no cycle.
	tasks := []*models.Task{
		models.NewTask("J1").
			WithActivity(models.NewActivity("A", "J1", 0).WithProcessTime(100)).
			WithActivity(models.NewActivity("B", "J1", 1).WithProcessTime(100).WithPredecessor("A")),
		models.NewTask("J2").
			WithActivity(models.NewActivity("C", "J2", 0).WithProcessTime(100).WithPredecessor("A")).
			WithActivity(models.NewActivity("D", "J2", 1).WithProcessTime(100).WithPredecessor("B").WithPredecessor("C")),
	}

	errs := ValidateInput(tasks, sampleResources())
	assert.Empty(t, errs)
}

func TestValidateInput_MultipleErrors(t *testing.T) {
	tasks := []*models.Task{
		models.NewTask("empty"),
		models.NewTask("J1").WithActivity(models.NewActivity("O1", "J1", 0).
			WithProcessTime(100).
			WithRequirement(models.NewRequirement("M").WithCandidates("UNKNOWN"))),
	}

	errs := ValidateInput(tasks, nil)
	assert.GreaterOrEqual(t, len(errs), 2)
}

func TestValidationErrors_Error(t *testing.T) {
	var none ValidationErrors
	assert.Equal(t, "no validation errors", none.Error())

	one := ValidationErrors{{Kind: EmptyTask, EntityID: "J1", Message: `task "J1" has no activities`}}
	assert.Equal(t, `task "J1" has no activities`, one.Error())

	two := append(one, ValidationError{Kind: DuplicateID, EntityID: "M1", Message: `duplicate resource ID "M1"`})
	assert.Contains(t, two.Error(), "2 validation errors")
}
