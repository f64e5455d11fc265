package circuit

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBreakerOpensAfterThreshold(t *testing.T) {
	b := NewBreaker(Config{Threshold: 3, Timeout: time.Minute, SuccessThreshold: 1})
	boom := errors.New("boom")

	for i := 0; i < 3; i++ {
		assert.Equal(t, StateClosed, b.State())
		require.Error(t, b.Execute(func() error { return boom }))
	}

	assert.Equal(t, StateOpen, b.State())
	assert.ErrorIs(t, b.Execute(func() error { return nil }), ErrCircuitOpen)
}

func TestBreakerRecoversThroughHalfOpen(t *testing.T) {
	b := NewBreaker(Config{Threshold: 1, Timeout: 10 * time.Millisecond, SuccessThreshold: 2})

	require.Error(t, b.Execute(func() error { return errors.New("boom") }))
	assert.Equal(t, StateOpen, b.State())

	time.Sleep(15 * time.Millisecond)
	assert.Equal(t, StateHalfOpen, b.State())

	require.NoError(t, b.Execute(func() error { return nil }))
	assert.Equal(t, StateHalfOpen, b.State())
	require.NoError(t, b.Execute(func() error { return nil }))
	assert.Equal(t, StateClosed, b.State())
}

func TestBreakerReopensOnHalfOpenFailure(t *testing.T) {
	b := NewBreaker(Config{Threshold: 1, Timeout: 10 * time.Millisecond, SuccessThreshold: 2})

	require.Error(t, b.Execute(func() error { return errors.New("boom") }))
	time.Sleep(15 * time.Millisecond)
	require.Equal(t, StateHalfOpen, b.State())

	require.Error(t, b.Execute(func() error { return errors.New("still down") }))
	assert.Equal(t, StateOpen, b.State())
}
