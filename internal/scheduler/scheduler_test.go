package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taha-yassine-romdhane/espace-iris-sub013/internal/config"
	"github.com/taha-yassine-romdhane/espace-iris-sub013/internal/jobs"
)

func TestNewScheduler(t *testing.T) {
	cfg := &config.Config{}
	cfg.Scheduler.GapCorrectionSweep = "0 0 1 * * *"

	s, err := NewScheduler(jobs.NewJobRunner(&jobs.Services{}, cfg))
	require.NoError(t, err)
	assert.True(t, s.IsRunning())

	s.Start()
	defer s.Stop()

	next := s.NextRun()
	assert.False(t, next.IsZero())
	assert.Equal(t, 1, next.UTC().Hour())
	assert.Equal(t, 0, next.Minute())
}

func TestNewScheduler_InvalidSchedule(t *testing.T) {
	cfg := &config.Config{}
	cfg.Scheduler.GapCorrectionSweep = "every night"

	_, err := NewScheduler(jobs.NewJobRunner(&jobs.Services{}, cfg))
	assert.Error(t, err)
}
