package health

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonitor_TracksResults(t *testing.T) {
	m := NewMonitor(time.Minute, time.Second, nil)

	m.Register("up", func(ctx context.Context) error { return nil })
	m.Register("down", func(ctx context.Context) error { return errors.New("connection refused") })

	m.runChecks()

	results := m.Results()
	require.Len(t, results, 2)

	assert.Equal(t, StatusHealthy, results["up"].Status)
	assert.NoError(t, results["up"].LastError)
	assert.Equal(t, 1, results["up"].CheckCount)
	assert.Equal(t, 0, results["up"].FailureCount)

	assert.Equal(t, StatusUnhealthy, results["down"].Status)
	assert.Error(t, results["down"].LastError)
	assert.Equal(t, 1, results["down"].FailureCount)
}

func TestMonitor_CountsAccumulate(t *testing.T) {
	m := NewMonitor(time.Minute, time.Second, nil)

	healthy := true
	m.Register("flaky", func(ctx context.Context) error {
		if healthy {
			return nil
		}
		return errors.New("timeout")
	})

	m.runChecks()
	healthy = false
	m.runChecks()
	m.runChecks()

	result := m.Results()["flaky"]
	assert.Equal(t, 3, result.CheckCount)
	assert.Equal(t, 2, result.FailureCount)
	assert.Equal(t, StatusUnhealthy, result.Status)
}

func TestMonitor_StopIsIdempotent(t *testing.T) {
	m := NewMonitor(time.Millisecond, time.Second, nil)
	m.Register("up", func(ctx context.Context) error { return nil })
	m.Start()
	m.Stop()
	m.Stop()
}
