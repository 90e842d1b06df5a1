package dispatch

import (
	"math"

	"github.com/khryptorgraphics/flowsched/pkg/models"
)

// Rule evaluates the priority of a task in context.
//
// Lower score = higher priority (the task is scheduled first). This
// follows the academic convention where SPT means shortest processing
// time first.
type Rule interface {
	// Name returns the rule mnemonic (e.g. "SPT", "EDD").
	Name() string
	// Evaluate scores a task; lower = scheduled earlier.
	Evaluate(task *models.Task, ctx *Context) float64
}

// taskWeight is the tardiness weight used by WSPT and ATC.
func taskWeight(task *models.Task) float64 {
	return 1000.0 / float64(task.Priority+1)
}

// remainingWork returns the context's remaining work for a task,
// falling back to the task's total duration. Callers that populate
// only partial contexts should note that this fallback makes LWKR and
// MWKR degenerate to SPT and LPT.
func remainingWork(task *models.Task, ctx *Context) int64 {
	if ctx != nil {
		if ms, ok := ctx.RemainingWork[task.ID]; ok {
			return ms
		}
	}
	return task.TotalDurationMs()
}

// SPT schedules the shortest total processing time first.
type SPT struct{}

func (SPT) Name() string { return "SPT" }

func (SPT) Evaluate(task *models.Task, _ *Context) float64 {
	return float64(task.TotalDurationMs())
}

// LPT schedules the longest total processing time first.
type LPT struct{}

func (LPT) Name() string { return "LPT" }

func (LPT) Evaluate(task *models.Task, _ *Context) float64 {
	return -float64(task.TotalDurationMs())
}

// LWKR schedules the least work remaining first.
type LWKR struct{}

func (LWKR) Name() string { return "LWKR" }

func (LWKR) Evaluate(task *models.Task, ctx *Context) float64 {
	return float64(remainingWork(task, ctx))
}

// MWKR schedules the most work remaining first.
type MWKR struct{}

func (MWKR) Name() string { return "MWKR" }

func (MWKR) Evaluate(task *models.Task, ctx *Context) float64 {
	return -float64(remainingWork(task, ctx))
}

// WSPT schedules by weighted shortest processing time: -weight/p with
// weight = 1000/(priority+1).
type WSPT struct{}

func (WSPT) Name() string { return "WSPT" }

func (WSPT) Evaluate(task *models.Task, _ *Context) float64 {
	p := float64(task.TotalDurationMs())
	if p <= 0 {
		return math.Inf(1)
	}
	return -taskWeight(task) / p
}

// EDD schedules the earliest due date first. Tasks without a deadline
// sort last.
type EDD struct{}

func (EDD) Name() string { return "EDD" }

func (EDD) Evaluate(task *models.Task, _ *Context) float64 {
	if task.Deadline == nil {
		return math.Inf(1)
	}
	return float64(*task.Deadline)
}

// MST schedules the minimum slack time first: (deadline - now) - remaining.
type MST struct{}

func (MST) Name() string { return "MST" }

func (MST) Evaluate(task *models.Task, ctx *Context) float64 {
	if task.Deadline == nil {
		return math.Inf(1)
	}
	now := int64(0)
	if ctx != nil {
		now = ctx.CurrentTimeMs
	}
	return float64(*task.Deadline-now) - float64(remainingWork(task, ctx))
}

// CR schedules by critical ratio: (deadline - now) / remaining. A ratio
// below 1 means the task is behind schedule.
type CR struct{}

func (CR) Name() string { return "CR" }

func (CR) Evaluate(task *models.Task, ctx *Context) float64 {
	if task.Deadline == nil {
		return math.Inf(1)
	}
	remaining := remainingWork(task, ctx)
	if remaining <= 0 {
		return math.Inf(1)
	}
	now := int64(0)
	if ctx != nil {
		now = ctx.CurrentTimeMs
	}
	return float64(*task.Deadline-now) / float64(remaining)
}

// SRO schedules by slack per remaining operation:
// slack / max(1, remaining_ops).
type SRO struct{}

func (SRO) Name() string { return "S/RO" }

func (SRO) Evaluate(task *models.Task, ctx *Context) float64 {
	if task.Deadline == nil {
		return math.Inf(1)
	}
	now := int64(0)
	if ctx != nil {
		now = ctx.CurrentTimeMs
	}
	slack := float64(*task.Deadline-now) - float64(remainingWork(task, ctx))
	ops := task.ActivityCount()
	if ops < 1 {
		ops = 1
	}
	return slack / float64(ops)
}

// ATC schedules by apparent tardiness cost: a WSPT term scaled by an
// exponential urgency factor parameterized by K.
type ATC struct {
	// K is the look-ahead parameter; 0 means the default of 2.0.
	K float64
}

func (ATC) Name() string { return "ATC" }

func (r ATC) Evaluate(task *models.Task, ctx *Context) float64 {
	if task.Deadline == nil {
		return WSPT{}.Evaluate(task, ctx)
	}
	p := float64(task.TotalDurationMs())
	if p <= 0 {
		return math.Inf(1)
	}

	k := r.K
	if k <= 0 {
		k = 2.0
	}
	pAvg := p
	if ctx != nil && ctx.AverageProcessingTime != nil {
		pAvg = *ctx.AverageProcessingTime
	}
	now := int64(0)
	if ctx != nil {
		now = ctx.CurrentTimeMs
	}

	slack := float64(*task.Deadline) - p - float64(now)
	urgency := 1.0
	if slack > 0 {
		urgency = math.Exp(-slack / (k * pAvg))
	}
	return -(taskWeight(task) / p) * urgency
}

// FIFO schedules by arrival time, falling back to the release time and
// then to the epoch.
type FIFO struct{}

func (FIFO) Name() string { return "FIFO" }

func (FIFO) Evaluate(task *models.Task, ctx *Context) float64 {
	if ctx != nil {
		if arrival, ok := ctx.ArrivalTimes[task.ID]; ok {
			return float64(arrival)
		}
	}
	if task.ReleaseTime != nil {
		return float64(*task.ReleaseTime)
	}
	return 0
}

// WINQ schedules by work in next queue: the queue length at the task's
// next resource.
type WINQ struct{}

func (WINQ) Name() string { return "WINQ" }

func (WINQ) Evaluate(task *models.Task, ctx *Context) float64 {
	if ctx != nil {
		if length, ok := ctx.NextQueueLength[task.ID]; ok {
			return float64(length)
		}
	}
	return 0
}

// LPUL schedules toward the least-loaded candidate: the minimum
// utilization among the candidate resources of the first activity.
type LPUL struct{}

func (LPUL) Name() string { return "LPUL" }

func (LPUL) Evaluate(task *models.Task, ctx *Context) float64 {
	if len(task.Activities) == 0 {
		return 0
	}
	candidates := task.Activities[0].CandidateResources()
	if len(candidates) == 0 {
		return 0
	}
	min := math.Inf(1)
	for _, candidate := range candidates {
		util := 0.0
		if ctx != nil {
			util = ctx.ResourceUtilization[candidate]
		}
		if util < min {
			min = util
		}
	}
	return min
}

// PriorityRule schedules by the static task priority (higher first).
type PriorityRule struct{}

func (PriorityRule) Name() string { return "PRIORITY" }

func (PriorityRule) Evaluate(task *models.Task, _ *Context) float64 {
	return -float64(task.Priority)
}
