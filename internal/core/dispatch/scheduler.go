package dispatch

import (
	"context"
	"time"
)

// Step is one unit of deferred work.
type Step struct {
	// Delay is measured from the start of the run, not from the previous step.
	Delay  time.Duration
	Action func(ctx context.Context)
}

// Scheduler runs steps in order, each no earlier than its delay after the run
// starts. The returned channel is closed when every step has run or ctx is
// done.
type Scheduler interface {
	Run(ctx context.Context, steps []Step) <-chan struct{}
}

// TimerScheduler runs each batch on a single goroutine using timers.
type TimerScheduler struct {
	now func() time.Time
}

// NewTimerScheduler returns a Scheduler backed by the real clock.
func NewTimerScheduler() *TimerScheduler {
	return &TimerScheduler{now: time.Now}
}

func (s *TimerScheduler) Run(ctx context.Context, steps []Step) <-chan struct{} {
	done := make(chan struct{})
	start := s.now()

	go func() {
		defer close(done)

		for _, step := range steps {
			wait := step.Delay - s.now().Sub(start)
			if wait > 0 {
				timer := time.NewTimer(wait)
				select {
				case <-ctx.Done():
					timer.Stop()
					return
				case <-timer.C:
				}
			}

			if ctx.Err() != nil {
				return
			}
			step.Action(ctx)
		}
	}()

	return done
}
