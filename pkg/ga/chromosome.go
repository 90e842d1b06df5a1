// Package ga implements GA-based scheduling with the OSV/MAV
// dual-vector encoding.
//
// The chromosome consists of two vectors keyed by a flattened activity
// list:
//
//   - OSV (Operation Sequence Vector): a multiset permutation of task
//     IDs with one entry per activity; the k-th occurrence of task T
//     denotes T's k-th activity.
//   - MAV (Machine Assignment Vector): parallel to the activity list;
//     each entry is a resource ID drawn from that activity's candidate
//     list (empty when the activity has no candidates).
//
// Lower fitness = better schedule (minimization convention).
package ga

import (
	"math"

	"github.com/khryptorgraphics/flowsched/pkg/models"
	"github.com/khryptorgraphics/flowsched/pkg/random"
)

// ActivityInfo is a compact activity descriptor for GA encoding,
// extracted from the domain model to avoid cloning full objects.
type ActivityInfo struct {
	// ID is the activity identifier (carried into assignments).
	ID string
	// TaskID is the parent task.
	TaskID string
	// Sequence is the 1-based position within the task.
	Sequence int
	// ProcessMs is the processing time.
	ProcessMs int64
	// Candidates are the candidate resource IDs.
	Candidates []string
}

// ActivitiesFromTasks flattens domain tasks into the GA activity list.
func ActivitiesFromTasks(tasks []*models.Task) []ActivityInfo {
	var infos []ActivityInfo
	for _, task := range tasks {
		for i, activity := range task.Activities {
			infos = append(infos, ActivityInfo{
				ID:         activity.ID,
				TaskID:     task.ID,
				Sequence:   i + 1,
				ProcessMs:  activity.Duration.ProcessMs,
				Candidates: activity.CandidateResources(),
			})
		}
	}
	return infos
}

// activityKey addresses one activity by (task, 1-based sequence).
type activityKey struct {
	taskID   string
	sequence int
}

// ProcessingKey addresses a machine-dependent processing time.
type ProcessingKey struct {
	TaskID     string
	Sequence   int
	ResourceID string
}

// ProcessingTimes maps (task, sequence, resource) to processing time,
// for machine-dependent durations in flexible job shops.
type ProcessingTimes map[ProcessingKey]int64

// OperationRef identifies one decoded OSV entry.
type OperationRef struct {
	TaskID   string
	Sequence int
}

// Chromosome is the OSV/MAV dual-vector individual.
type Chromosome struct {
	// OSV holds task IDs in execution order.
	OSV []string
	// MAV holds the assigned resource ID per activity-list index.
	MAV []string

	activityIndex map[activityKey]int
	fitness       float64
}

// Fitness returns the fitness value; +Inf marks "unevaluated".
func (c *Chromosome) Fitness() float64 {
	return c.fitness
}

// SetFitness records the fitness value.
func (c *Chromosome) SetFitness(fitness float64) {
	c.fitness = fitness
}

// Clone returns a deep copy of the vectors. The activity index is
// shared: it mirrors the immutable activity list.
func (c *Chromosome) Clone() *Chromosome {
	return &Chromosome{
		OSV:           append([]string(nil), c.OSV...),
		MAV:           append([]string(nil), c.MAV...),
		activityIndex: c.activityIndex,
		fitness:       c.fitness,
	}
}

// childOf creates an unevaluated chromosome inheriting MAV and index
// from the given parent.
func childOf(parent *Chromosome, osv []string) *Chromosome {
	return &Chromosome{
		OSV:           osv,
		MAV:           append([]string(nil), parent.MAV...),
		activityIndex: parent.activityIndex,
		fitness:       math.Inf(1),
	}
}

// NewRandomChromosome creates a chromosome with a shuffled OSV and a
// uniform-random candidate per activity.
func NewRandomChromosome(activities []ActivityInfo, rng random.Source) *Chromosome {
	c := &Chromosome{
		OSV:           randomOSV(activities, rng),
		MAV:           make([]string, len(activities)),
		activityIndex: buildActivityIndex(activities),
		fitness:       math.Inf(1),
	}
	for i, act := range activities {
		c.MAV[i] = rng.Choose(act.Candidates)
	}
	return c
}

// NewLoadBalancedChromosome creates a chromosome with a random OSV and
// a MAV assigned greedily: each activity in list order picks the
// candidate with the smallest accumulated processing load, ties broken
// by candidate order.
func NewLoadBalancedChromosome(activities []ActivityInfo, rng random.Source) *Chromosome {
	c := &Chromosome{
		OSV:           randomOSV(activities, rng),
		MAV:           make([]string, len(activities)),
		activityIndex: buildActivityIndex(activities),
		fitness:       math.Inf(1),
	}

	load := make(map[string]int64)
	for i, act := range activities {
		if len(act.Candidates) == 0 {
			continue
		}
		best := act.Candidates[0]
		for _, candidate := range act.Candidates[1:] {
			if load[candidate] < load[best] {
				best = candidate
			}
		}
		load[best] += act.ProcessMs
		c.MAV[i] = best
	}
	return c
}

// NewShortestTimeChromosome creates a chromosome with a random OSV and
// each MAV entry set to the candidate with the shortest
// machine-dependent processing time, falling back to the activity's own
// processing time for missing entries.
func NewShortestTimeChromosome(activities []ActivityInfo, times ProcessingTimes, rng random.Source) *Chromosome {
	c := &Chromosome{
		OSV:           randomOSV(activities, rng),
		MAV:           make([]string, len(activities)),
		activityIndex: buildActivityIndex(activities),
		fitness:       math.Inf(1),
	}

	for i, act := range activities {
		if len(act.Candidates) == 0 {
			continue
		}
		best := ""
		bestTime := int64(math.MaxInt64)
		for _, candidate := range act.Candidates {
			t := act.ProcessMs
			if ms, ok := times[ProcessingKey{TaskID: act.TaskID, Sequence: act.Sequence, ResourceID: candidate}]; ok {
				t = ms
			}
			if t < bestTime {
				bestTime = t
				best = candidate
			}
		}
		c.MAV[i] = best
	}
	return c
}

// DecodeOSV maps the permutation back to concrete operations: the k-th
// occurrence of task T yields (T, k) with k 1-based.
func (c *Chromosome) DecodeOSV() []OperationRef {
	counters := make(map[string]int)
	refs := make([]OperationRef, len(c.OSV))
	for i, taskID := range c.OSV {
		counters[taskID]++
		refs[i] = OperationRef{TaskID: taskID, Sequence: counters[taskID]}
	}
	return refs
}

// ResourceFor returns the MAV entry for a (task, 1-based sequence)
// pair. The second return value is false for unknown pairs.
func (c *Chromosome) ResourceFor(taskID string, sequence int) (string, bool) {
	idx, ok := c.activityIndex[activityKey{taskID: taskID, sequence: sequence}]
	if !ok || idx >= len(c.MAV) {
		return "", false
	}
	return c.MAV[idx], true
}

// Valid reports whether the chromosome is structurally sound for the
// given activity list: vector lengths match, per-task OSV occurrence
// counts equal the per-task activity counts, and every MAV entry is in
// the corresponding candidate set (empty candidate sets accept
// anything).
func (c *Chromosome) Valid(activities []ActivityInfo) bool {
	if len(c.OSV) != len(activities) || len(c.MAV) != len(activities) {
		return false
	}

	osvCounts := make(map[string]int)
	for _, taskID := range c.OSV {
		osvCounts[taskID]++
	}
	expected := make(map[string]int)
	for _, act := range activities {
		expected[act.TaskID]++
	}
	if len(osvCounts) != len(expected) {
		return false
	}
	for taskID, count := range expected {
		if osvCounts[taskID] != count {
			return false
		}
	}

	for i, act := range activities {
		if len(act.Candidates) == 0 {
			continue
		}
		if !contains(act.Candidates, c.MAV[i]) {
			return false
		}
	}
	return true
}

func randomOSV(activities []ActivityInfo, rng random.Source) []string {
	osv := make([]string, len(activities))
	for i, act := range activities {
		osv[i] = act.TaskID
	}
	rng.Shuffle(len(osv), func(i, j int) {
		osv[i], osv[j] = osv[j], osv[i]
	})
	return osv
}

func buildActivityIndex(activities []ActivityInfo) map[activityKey]int {
	index := make(map[activityKey]int, len(activities))
	for i, act := range activities {
		index[activityKey{taskID: act.TaskID, sequence: act.Sequence}] = i
	}
	return index
}

func contains(items []string, v string) bool {
	for _, item := range items {
		if item == v {
			return true
		}
	}
	return false
}
