package jobs

import (
	"time"

	"krishimitra-backend/internal/config"
	"krishimitra-backend/internal/logger"
	"krishimitra-backend/internal/metrics"
	"krishimitra-backend/internal/service"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	services *Services
	config   *config.Config
	now      func() time.Time
}

// Services holds all service dependencies needed by jobs
type Services struct {
	Lease service.LeaseService
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(services *Services, cfg *config.Config) *JobRunner {
	return &JobRunner{
		services: services,
		config:   cfg,
		now:      time.Now,
	}
}

// Config returns the configuration the runner was built with
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery. jobFunc
// reports success so the run can be counted.
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func() bool) {
	ok := false
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
		metrics.RecordJobRun(jobName, ok)
	}()

	logger.Info("Starting job", "job", jobName)
	ok = jobFunc()
	logger.Info("Job completed", "job", jobName, "success", ok)
}

// RunAllJobs runs every job once (for manual execution)
func (jr *JobRunner) RunAllJobs() {
	jr.ReleaseExpiredLeases()
}
