package ga

import "github.com/khryptorgraphics/flowsched/pkg/random"

// All crossovers recombine the OSV only; each child inherits its MAV
// from the corresponding parent and resets fitness to unevaluated.

// POXCrossover performs Precedence Operation Crossover: a random
// non-empty task subset S is preserved from each parent in place, and
// the remaining positions are filled with the other parent's non-S
// elements in their original order.
func POXCrossover(p1, p2 *Chromosome, activities []ActivityInfo, rng random.Source) (*Chromosome, *Chromosome) {
	subset := randomTaskSubset(activities, rng)

	c1 := childOf(p1, preserveAndFill(p1.OSV, p2.OSV, subset))
	c2 := childOf(p2, preserveAndFill(p2.OSV, p1.OSV, subset))
	return c1, c2
}

// JOXCrossover performs Job-based Order Crossover: the elements of a
// random task subset S keep their exact positions from one parent and
// the remaining slots are filled left-to-right with the other parent's
// non-S elements in parent order.
func JOXCrossover(p1, p2 *Chromosome, activities []ActivityInfo, rng random.Source) (*Chromosome, *Chromosome) {
	subset := randomTaskSubset(activities, rng)

	c1 := childOf(p1, joxChild(p1.OSV, p2.OSV, subset))
	c2 := childOf(p2, joxChild(p2.OSV, p1.OSV, subset))
	return c1, c2
}

// LOXCrossover performs Linear Order Crossover: a random segment of one
// parent is copied in place, and the remaining positions are filled
// circularly (starting after the segment) with the other parent's
// elements taken in circular order, skipping those consumed by the
// segment.
func LOXCrossover(p1, p2 *Chromosome, activities []ActivityInfo, rng random.Source) (*Chromosome, *Chromosome) {
	n := len(p1.OSV)
	if n == 0 {
		return childOf(p1, nil), childOf(p2, nil)
	}
	start := rng.Intn(n)
	end := start + rng.Intn(n-start)

	c1 := childOf(p1, loxChild(p1.OSV, p2.OSV, start, end))
	c2 := childOf(p2, loxChild(p2.OSV, p1.OSV, start, end))
	return c1, c2
}

// randomTaskSubset picks a random non-empty subset of the task ID set.
func randomTaskSubset(activities []ActivityInfo, rng random.Source) map[string]bool {
	var taskIDs []string
	seen := make(map[string]bool)
	for _, act := range activities {
		if !seen[act.TaskID] {
			seen[act.TaskID] = true
			taskIDs = append(taskIDs, act.TaskID)
		}
	}

	subset := make(map[string]bool)
	for _, taskID := range taskIDs {
		if rng.Bool(0.5) {
			subset[taskID] = true
		}
	}
	if len(subset) == 0 && len(taskIDs) > 0 {
		subset[taskIDs[rng.Intn(len(taskIDs))]] = true
	}
	return subset
}

// preserveAndFill keeps the subset elements of keep at their positions
// and streams the non-subset elements of fill into the gaps.
func preserveAndFill(keep, fill []string, subset map[string]bool) []string {
	out := make([]string, len(keep))
	fi := 0
	for i, v := range keep {
		if subset[v] {
			out[i] = v
			continue
		}
		for fi < len(fill) && subset[fill[fi]] {
			fi++
		}
		if fi < len(fill) {
			out[i] = fill[fi]
			fi++
		}
	}
	return out
}

// joxChild places the subset elements of primary at their exact
// original positions, then fills the remaining slots left-to-right
// with secondary's non-subset elements in secondary order.
func joxChild(primary, secondary []string, subset map[string]bool) []string {
	out := make([]string, len(primary))
	taken := make([]bool, len(primary))
	for i, v := range primary {
		if subset[v] {
			out[i] = v
			taken[i] = true
		}
	}

	si := 0
	for i := range out {
		if taken[i] {
			continue
		}
		for si < len(secondary) && subset[secondary[si]] {
			si++
		}
		if si < len(secondary) {
			out[i] = secondary[si]
			si++
		}
	}
	return out
}

// loxChild copies primary[start..end] in place and fills the remaining
// positions circularly from end+1 with secondary's elements in circular
// order from end+1, skipping the occurrences already placed by the
// segment.
func loxChild(primary, secondary []string, start, end int) []string {
	n := len(primary)
	out := make([]string, n)

	segCount := make(map[string]int)
	for i := start; i <= end; i++ {
		out[i] = primary[i]
		segCount[primary[i]]++
	}

	pos := (end + 1) % n
	for i := 0; i < n; i++ {
		v := secondary[(end+1+i)%n]
		if segCount[v] > 0 {
			segCount[v]--
			continue
		}
		if pos == start {
			break
		}
		out[pos] = v
		pos = (pos + 1) % n
	}
	return out
}
