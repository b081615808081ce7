package scheduler_test

import (
	"testing"

	"krishimitra-backend/internal/config"
	"krishimitra-backend/internal/jobs"
	"krishimitra-backend/internal/scheduler"

	"github.com/stretchr/testify/assert"
)

func TestNewScheduler(t *testing.T) {
	t.Run("RegistersReleaseJob", func(t *testing.T) {
		cfg := &config.Config{Scheduler: config.SchedulerConfig{ReleaseExpiredLeases: "0 */15 * * * *"}}
		s := scheduler.NewScheduler(jobs.NewJobRunner(&jobs.Services{}, cfg))

		assert.True(t, s.IsRunning())
		s.Start()
		s.Stop()
	})

	t.Run("BadScheduleRegistersNothing", func(t *testing.T) {
		cfg := &config.Config{Scheduler: config.SchedulerConfig{ReleaseExpiredLeases: "every so often"}}
		s := scheduler.NewScheduler(jobs.NewJobRunner(&jobs.Services{}, cfg))

		assert.False(t, s.IsRunning())
	})
}
