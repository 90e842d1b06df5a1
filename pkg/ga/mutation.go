package ga

import "github.com/khryptorgraphics/flowsched/pkg/random"

// SwapMutation exchanges two uniformly chosen OSV positions.
func SwapMutation(c *Chromosome, rng random.Source) {
	n := len(c.OSV)
	if n < 2 {
		return
	}
	i, j := rng.Intn(n), rng.Intn(n)
	c.OSV[i], c.OSV[j] = c.OSV[j], c.OSV[i]
}

// InsertMutation removes a uniformly chosen OSV element and reinserts
// it at another uniformly chosen position.
func InsertMutation(c *Chromosome, rng random.Source) {
	n := len(c.OSV)
	if n < 2 {
		return
	}
	i, j := rng.Intn(n), rng.Intn(n)
	if i == j {
		return
	}
	v := c.OSV[i]
	if i < j {
		copy(c.OSV[i:], c.OSV[i+1:j+1])
	} else {
		copy(c.OSV[j+1:], c.OSV[j:i])
	}
	c.OSV[j] = v
}

// InvertMutation reverses a uniformly chosen OSV segment.
func InvertMutation(c *Chromosome, rng random.Source) {
	n := len(c.OSV)
	if n < 2 {
		return
	}
	i, j := rng.Intn(n), rng.Intn(n)
	if i > j {
		i, j = j, i
	}
	for i < j {
		c.OSV[i], c.OSV[j] = c.OSV[j], c.OSV[i]
		i++
		j--
	}
}

// MAVMutation replaces a uniformly chosen MAV entry with a uniform
// choice from that activity's candidate set; no-op for activities
// without candidates.
func MAVMutation(c *Chromosome, activities []ActivityInfo, rng random.Source) {
	if len(c.MAV) == 0 {
		return
	}
	idx := rng.Intn(len(c.MAV))
	if idx >= len(activities) || len(activities[idx].Candidates) == 0 {
		return
	}
	c.MAV[idx] = rng.Choose(activities[idx].Candidates)
}
