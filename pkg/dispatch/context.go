// Package dispatch provides priority dispatching rules (SPT, EDD, ATC,
// ...) and a composable rule engine for multi-criteria task ordering.
//
// All rules follow one convention: lower score = higher priority.
package dispatch

// Context carries the runtime scheduling state that context-aware rules
// evaluate against. It is read-only during evaluation; missing entries
// fall back to per-rule defaults.
//
// All times are in milliseconds relative to the scheduling epoch.
type Context struct {
	// CurrentTimeMs is the current simulation time.
	CurrentTimeMs int64
	// RemainingWork maps task ID to remaining processing work in ms.
	RemainingWork map[string]int64
	// NextQueueLength maps task ID to the queue length at its next resource.
	NextQueueLength map[string]int
	// ResourceUtilization maps resource ID to current load in [0,1].
	ResourceUtilization map[string]float64
	// ArrivalTimes maps task ID to its arrival time in ms.
	ArrivalTimes map[string]int64
	// AverageProcessingTime is the global mean processing time used for
	// ATC normalization. Nil = fall back to the task's own time.
	AverageProcessingTime *float64
}

// NewContext creates a context at the given simulation time.
func NewContext(currentTimeMs int64) *Context {
	return &Context{
		CurrentTimeMs:       currentTimeMs,
		RemainingWork:       make(map[string]int64),
		NextQueueLength:     make(map[string]int),
		ResourceUtilization: make(map[string]float64),
		ArrivalTimes:        make(map[string]int64),
	}
}

// WithRemainingWork sets the remaining work for a task.
func (c *Context) WithRemainingWork(taskID string, ms int64) *Context {
	c.RemainingWork[taskID] = ms
	return c
}

// WithNextQueue sets the next-resource queue length for a task.
func (c *Context) WithNextQueue(taskID string, length int) *Context {
	c.NextQueueLength[taskID] = length
	return c
}

// WithUtilization sets the current load of a resource.
func (c *Context) WithUtilization(resourceID string, load float64) *Context {
	c.ResourceUtilization[resourceID] = load
	return c
}

// WithArrivalTime sets the arrival time for a task.
func (c *Context) WithArrivalTime(taskID string, timeMs int64) *Context {
	c.ArrivalTimes[taskID] = timeMs
	return c
}

// WithAverageProcessingTime sets the global average processing time.
func (c *Context) WithAverageProcessingTime(avgMs float64) *Context {
	c.AverageProcessingTime = &avgMs
	return c
}
