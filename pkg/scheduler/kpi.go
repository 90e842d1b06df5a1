package scheduler

import "github.com/khryptorgraphics/flowsched/pkg/models"

// KPI holds standard schedule quality metrics. All time values are in
// milliseconds.
type KPI struct {
	// MakespanMs is the latest completion time.
	MakespanMs int64 `json:"makespan_ms"`
	// TotalTardinessMs sums max(0, completion - deadline) over tasks
	// with deadlines.
	TotalTardinessMs int64 `json:"total_tardiness_ms"`
	// MaxTardinessMs is the largest single delay.
	MaxTardinessMs int64 `json:"max_tardiness_ms"`
	// OnTimeRate is the fraction of scheduled tasks meeting their
	// deadline (tasks without deadlines count as on time).
	OnTimeRate float64 `json:"on_time_rate"`
	// AvgUtilization is the mean utilization across resources that
	// appear in assignments.
	AvgUtilization float64 `json:"avg_utilization"`
	// UtilizationByResource maps resource ID to utilization.
	UtilizationByResource map[string]float64 `json:"utilization_by_resource"`
	// AvgFlowTimeMs is the mean (completion - release) over scheduled tasks.
	AvgFlowTimeMs float64 `json:"avg_flow_time_ms"`
}

// CalculateKPI computes metrics from a schedule and its input tasks.
//
// Tasks without assignments do not contribute; empty inputs yield
// neutral values (on-time rate 1.0, utilization 0.0).
func CalculateKPI(schedule *models.Schedule, tasks []*models.Task) *KPI {
	var (
		totalTardiness int64
		maxTardiness   int64
		onTimeCount    int
		totalFlowTime  float64
		countedTasks   int
	)

	for _, task := range tasks {
		completion, ok := schedule.TaskCompletionTime(task.ID)
		if !ok {
			continue
		}
		countedTasks++

		var release int64
		if task.ReleaseTime != nil {
			release = *task.ReleaseTime
		}
		totalFlowTime += float64(completion - release)

		if task.Deadline == nil {
			onTimeCount++
			continue
		}
		if completion > *task.Deadline {
			tardiness := completion - *task.Deadline
			totalTardiness += tardiness
			if tardiness > maxTardiness {
				maxTardiness = tardiness
			}
		} else {
			onTimeCount++
		}
	}

	utilization := schedule.AllUtilizations()
	avgUtilization := 0.0
	if len(utilization) > 0 {
		var sum float64
		for _, u := range utilization {
			sum += u
		}
		avgUtilization = sum / float64(len(utilization))
	}

	onTimeRate := 1.0
	avgFlowTime := 0.0
	if countedTasks > 0 {
		onTimeRate = float64(onTimeCount) / float64(countedTasks)
		avgFlowTime = totalFlowTime / float64(countedTasks)
	}

	return &KPI{
		MakespanMs:            schedule.MakespanMs(),
		TotalTardinessMs:      totalTardiness,
		MaxTardinessMs:        maxTardiness,
		OnTimeRate:            onTimeRate,
		AvgUtilization:        avgUtilization,
		UtilizationByResource: utilization,
		AvgFlowTimeMs:         avgFlowTime,
	}
}

// MeetsThresholds reports whether the schedule satisfies the given
// quality bounds.
func (k *KPI) MeetsThresholds(maxTardinessMs int64, minUtilization float64) bool {
	return k.MaxTardinessMs <= maxTardinessMs && k.AvgUtilization >= minUtilization
}
