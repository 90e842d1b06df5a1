// Package validation checks the structural integrity of scheduling
// inputs before any solver runs: duplicate identifiers, dangling
// resource and predecessor references, empty tasks, and cycles in the
// precedence graph.
package validation

import (
	"fmt"
	"strings"

	"github.com/khryptorgraphics/flowsched/pkg/models"
)

// ErrorKind categorizes a validation error.
type ErrorKind string

const (
	// DuplicateID marks two entities sharing the same identifier.
	DuplicateID ErrorKind = "duplicate_id"
	// EmptyTask marks a task without activities.
	EmptyTask ErrorKind = "empty_task"
	// InvalidResourceReference marks a requirement candidate that does
	// not resolve to a known resource.
	InvalidResourceReference ErrorKind = "invalid_resource_reference"
	// InvalidPredecessor marks a predecessor that does not resolve to a
	// known activity.
	InvalidPredecessor ErrorKind = "invalid_predecessor"
	// CyclicDependency marks a cycle in the precedence graph.
	CyclicDependency ErrorKind = "cyclic_dependency"
)

// ValidationError describes a single input problem.
type ValidationError struct {
	Kind     ErrorKind `json:"kind"`
	EntityID string    `json:"entity_id"`
	Message  string    `json:"message"`
}

func (e ValidationError) Error() string {
	return e.Message
}

// ValidationErrors aggregates every problem detected in one pass.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("%d validation errors: %s", len(e), strings.Join(msgs, "; "))
}

// HasKind reports whether any error of the given kind was detected.
func (e ValidationErrors) HasKind(kind ErrorKind) bool {
	for _, err := range e {
		if err.Kind == kind {
			return true
		}
	}
	return false
}

// ValidateInput validates tasks and resources for scheduling.
//
// The check is fail-slow: every independent problem is reported in a
// single call. A nil return means the input is valid.
//
// Checks performed:
//  1. Resource ID uniqueness.
//  2. Task ID uniqueness; every task has at least one activity.
//  3. Activity ID uniqueness across all tasks.
//  4. Every requirement candidate resolves to a known resource.
//  5. Every predecessor resolves to a known activity.
//  6. The precedence graph is acyclic.
func ValidateInput(tasks []*models.Task, resources []*models.Resource) ValidationErrors {
	var errs ValidationErrors

	resourceIDs := make(map[string]struct{}, len(resources))
	for _, r := range resources {
		if _, dup := resourceIDs[r.ID]; dup {
			errs = append(errs, ValidationError{
				Kind:     DuplicateID,
				EntityID: r.ID,
				Message:  fmt.Sprintf("duplicate resource ID %q", r.ID),
			})
			continue
		}
		resourceIDs[r.ID] = struct{}{}
	}

	taskIDs := make(map[string]struct{}, len(tasks))
	activityIDs := make(map[string]struct{})
	for _, task := range tasks {
		if _, dup := taskIDs[task.ID]; dup {
			errs = append(errs, ValidationError{
				Kind:     DuplicateID,
				EntityID: task.ID,
				Message:  fmt.Sprintf("duplicate task ID %q", task.ID),
			})
		} else {
			taskIDs[task.ID] = struct{}{}
		}

		if !task.HasActivities() {
			errs = append(errs, ValidationError{
				Kind:     EmptyTask,
				EntityID: task.ID,
				Message:  fmt.Sprintf("task %q has no activities", task.ID),
			})
		}

		for _, act := range task.Activities {
			if _, dup := activityIDs[act.ID]; dup {
				errs = append(errs, ValidationError{
					Kind:     DuplicateID,
					EntityID: act.ID,
					Message:  fmt.Sprintf("duplicate activity ID %q", act.ID),
				})
				continue
			}
			activityIDs[act.ID] = struct{}{}
		}
	}

	for _, task := range tasks {
		for _, act := range task.Activities {
			for _, req := range act.ResourceRequirements {
				for _, candidate := range req.Candidates {
					if _, ok := resourceIDs[candidate]; !ok {
						errs = append(errs, ValidationError{
							Kind:     InvalidResourceReference,
							EntityID: act.ID,
							Message:  fmt.Sprintf("activity %q references unknown resource %q", act.ID, candidate),
						})
					}
				}
			}
			for _, pred := range act.Predecessors {
				if _, ok := activityIDs[pred]; !ok {
					errs = append(errs, ValidationError{
						Kind:     InvalidPredecessor,
						EntityID: act.ID,
						Message:  fmt.Sprintf("activity %q references unknown predecessor %q", act.ID, pred),
					})
				}
			}
		}
	}

	if cycleErr := detectCycles(tasks); cycleErr != nil {
		errs = append(errs, *cycleErr)
	}

	return errs
}

// dfs colors for cycle detection.
const (
	colorUnseen = iota
	colorOnStack
	colorDone
)

// detectCycles runs a three-color DFS over the precedence digraph
// (edges predecessor → activity). A back edge to an on-stack node means
// a cycle; the on-stack node hit by the first back edge is reported.
func detectCycles(tasks []*models.Task) *ValidationError {
	// Adjacency list and a stable node order for determinism.
	adj := make(map[string][]string)
	var order []string
	seen := make(map[string]struct{})

	for _, task := range tasks {
		for _, act := range task.Activities {
			if _, ok := seen[act.ID]; !ok {
				seen[act.ID] = struct{}{}
				order = append(order, act.ID)
			}
			for _, pred := range act.Predecessors {
				adj[pred] = append(adj[pred], act.ID)
			}
		}
	}

	color := make(map[string]int, len(order))
	for _, node := range order {
		if color[node] != colorUnseen {
			continue
		}
		if offender, ok := hasCycle(node, adj, color); ok {
			return &ValidationError{
				Kind:     CyclicDependency,
				EntityID: offender,
				Message:  fmt.Sprintf("circular dependency detected involving activity %q", offender),
			}
		}
	}
	return nil
}

// hasCycle returns the on-stack node reached by the first back edge.
func hasCycle(node string, adj map[string][]string, color map[string]int) (string, bool) {
	color[node] = colorOnStack
	for _, next := range adj[node] {
		switch color[next] {
		case colorOnStack:
			return next, true
		case colorUnseen:
			if offender, ok := hasCycle(next, adj, color); ok {
				return offender, true
			}
		}
	}
	color[node] = colorDone
	return "", false
}
