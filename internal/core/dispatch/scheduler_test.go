package dispatch

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimerScheduler_OrderAndDelay(t *testing.T) {
	var (
		mu    sync.Mutex
		order []int
		at    []time.Duration
	)

	start := time.Now()
	record := func(i int) func(context.Context) {
		return func(context.Context) {
			mu.Lock()
			defer mu.Unlock()
			order = append(order, i)
			at = append(at, time.Since(start))
		}
	}

	steps := []Step{
		{Delay: 0, Action: record(0)},
		{Delay: 20 * time.Millisecond, Action: record(1)},
		{Delay: 40 * time.Millisecond, Action: record(2)},
	}

	done := NewTimerScheduler().Run(context.Background(), steps)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not finish")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{0, 1, 2}, order)
	require.Len(t, at, 3)
	assert.GreaterOrEqual(t, at[1], 20*time.Millisecond)
	assert.GreaterOrEqual(t, at[2], 40*time.Millisecond)
}

func TestTimerScheduler_CancelStopsRemaining(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var (
		mu  sync.Mutex
		ran []int
	)
	step := func(i int) func(context.Context) {
		return func(context.Context) {
			mu.Lock()
			ran = append(ran, i)
			mu.Unlock()
			if i == 0 {
				cancel()
			}
		}
	}

	done := NewTimerScheduler().Run(ctx, []Step{
		{Delay: 0, Action: step(0)},
		{Delay: time.Hour, Action: step(1)},
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop on cancel")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{0}, ran)
}

func TestTimerScheduler_Empty(t *testing.T) {
	done := NewTimerScheduler().Run(context.Background(), nil)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("empty run did not close")
	}
}
