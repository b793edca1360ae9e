package scheduler

import (
	"context"
	"time"
)

// Job is a unit of scheduled work.
type Job interface {
	// Name identifies the job in logs and history.
	Name() string

	// Run executes the job once.
	Run(ctx context.Context) error

	// Schedule is the cron expression, e.g. "0 30 15 * * MON-FRI"
	// or "@hourly".
	Schedule() string
}

// JobResult is the outcome of one execution.
type JobResult struct {
	JobName   string        `json:"job_name"`
	StartTime time.Time     `json:"start_time"`
	Duration  time.Duration `json:"duration"`
	Success   bool          `json:"success"`
	Error     string        `json:"error,omitempty"`
}

// JobHistory keeps the most recent executions of one job.
type JobHistory struct {
	Results []JobResult
}

const historyLimit = 100

// AddResult appends a result, discarding the oldest past the limit.
func (h *JobHistory) AddResult(result JobResult) {
	h.Results = append(h.Results, result)
	if len(h.Results) > historyLimit {
		h.Results = h.Results[len(h.Results)-historyLimit:]
	}
}

// LastResult returns the most recent result, or nil when the job has
// never run.
func (h *JobHistory) LastResult() *JobResult {
	if len(h.Results) == 0 {
		return nil
	}
	r := h.Results[len(h.Results)-1]
	return &r
}

// SuccessRate returns the fraction of recorded runs that succeeded.
func (h *JobHistory) SuccessRate() float64 {
	if len(h.Results) == 0 {
		return 0.0
	}
	success := 0
	for _, result := range h.Results {
		if result.Success {
			success++
		}
	}
	return float64(success) / float64(len(h.Results))
}
