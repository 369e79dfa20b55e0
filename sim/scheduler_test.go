package sim

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedulerFiring(t *testing.T) {
	var (
		s     = NewScheduler(0)
		fired []int
	)
	s.Repeat("task", 1.0, 0, func(count int) error {
		fired = append(fired, count)
		return nil
	})

	// Fires at t = 0 with count 0
	require.NoError(t, s.Dispatch(0))
	assert.Equal(t, []int{0}, fired)

	// Not again before the interval elapses
	require.NoError(t, s.Dispatch(0.5))
	assert.Equal(t, []int{0}, fired)

	// Catches up when more than one interval has passed
	require.NoError(t, s.Dispatch(2.5))
	assert.Equal(t, []int{0, 1, 2}, fired)
}

func TestSchedulerResumedCount(t *testing.T) {
	// A task restored with a nonzero count does not refire old intervals.
	var (
		s     = NewScheduler(3.0)
		fired []int
	)
	s.Repeat("task", 1.0, 3, func(count int) error {
		fired = append(fired, count)
		return nil
	})
	require.NoError(t, s.Dispatch(3.0))
	assert.Equal(t, []int{3}, fired)
}

func TestSchedulerDisabledAndErrors(t *testing.T) {
	s := NewScheduler(0)
	s.Repeat("disabled", 0, 0, func(count int) error {
		t.Fatal("disabled task fired")
		return nil
	})
	s.Repeat("failing", 1.0, 0, func(count int) error {
		return fmt.Errorf("disk full")
	})
	err := s.Dispatch(10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failing")
	assert.Contains(t, err.Error(), "disk full")
}
