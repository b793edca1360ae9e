package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockwise/backend/pkg/config"
	"github.com/stockwise/backend/pkg/logger"
)

type countingJob struct {
	name     string
	schedule string
	runs     atomic.Int64
	err      error
}

func (j *countingJob) Name() string     { return j.name }
func (j *countingJob) Schedule() string { return j.schedule }
func (j *countingJob) Run(context.Context) error {
	j.runs.Add(1)
	return j.err
}

func testScheduler() *Scheduler {
	log := logger.New(&config.Config{LogLevel: "error", LogFormat: "json", Env: "test"})
	s := New(log)
	// Tests must not sit in the retry backoff.
	s.retryDelay = time.Millisecond
	return s
}

func TestAddJob(t *testing.T) {
	s := testScheduler()
	job := &countingJob{name: "sweep", schedule: "0 0 18 * * *"}

	require.NoError(t, s.AddJob(job))
	assert.Error(t, s.AddJob(job), "duplicate name must be rejected")

	bad := &countingJob{name: "broken", schedule: "not a cron expression"}
	assert.Error(t, s.AddJob(bad))
}

func TestRunJob(t *testing.T) {
	s := testScheduler()
	job := &countingJob{name: "sweep", schedule: "0 0 18 * * *"}
	require.NoError(t, s.AddJob(job))

	require.NoError(t, s.RunJob("sweep"))

	require.Eventually(t, func() bool {
		history, err := s.History("sweep")
		return err == nil && len(history.Results) == 1
	}, 2*time.Second, 10*time.Millisecond)

	history, err := s.History("sweep")
	require.NoError(t, err)
	last := history.LastResult()
	require.NotNil(t, last)
	assert.True(t, last.Success)
	assert.Equal(t, "sweep", last.JobName)
	assert.EqualValues(t, 1, job.runs.Load())
	assert.Equal(t, 1.0, history.SuccessRate())
}

func TestRunJob_RetriesThenFails(t *testing.T) {
	s := testScheduler()
	job := &countingJob{name: "flaky", schedule: "@hourly", err: errors.New("upstream down")}
	require.NoError(t, s.AddJob(job))

	require.NoError(t, s.RunJob("flaky"))

	require.Eventually(t, func() bool {
		history, err := s.History("flaky")
		return err == nil && len(history.Results) == 1
	}, 2*time.Second, 10*time.Millisecond)

	history, _ := s.History("flaky")
	last := history.LastResult()
	require.NotNil(t, last)
	assert.False(t, last.Success)
	assert.Contains(t, last.Error, "upstream down")
	// Initial attempt plus the configured retries.
	assert.EqualValues(t, 4, job.runs.Load())
	assert.Equal(t, 0.0, history.SuccessRate())
}

func TestRunJob_Unknown(t *testing.T) {
	s := testScheduler()
	assert.Error(t, s.RunJob("missing"))
	_, err := s.History("missing")
	assert.Error(t, err)
}

func TestJobHistory_Cap(t *testing.T) {
	h := &JobHistory{}
	for i := 0; i < historyLimit+25; i++ {
		h.AddResult(JobResult{JobName: "sweep", Success: i%2 == 0})
	}
	assert.Len(t, h.Results, historyLimit)
}
