// Package dispatch turns a search request into a staggered sequence of
// browser opens, one per selected provider.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hay-kot/dealscout/internal/core/host"
	"github.com/hay-kot/dealscout/internal/core/permission"
	"github.com/hay-kot/dealscout/internal/core/provider"
	"github.com/hay-kot/dealscout/internal/core/search"
	"github.com/rs/zerolog"
)

var (
	// ErrNoProvidersSelected is returned when no selected provider is known.
	ErrNoProvidersSelected = errors.New("no providers selected")
	// ErrPermissionRequired is returned when the host is known to block new
	// windows.
	ErrPermissionRequired = errors.New("browser windows are blocked")
)

// DefaultStagger is the delay between consecutive opens.
const DefaultStagger = 100 * time.Millisecond

// Task is one planned open.
type Task struct {
	Index    int
	Delay    time.Duration
	Provider provider.Provider
	URL      string
}

// Outcome is the observed result of one task.
type Outcome struct {
	Task Task
	// Opened is true when the host returned a window that was still open.
	Opened bool
	Err    error
}

// Sequencer plans and dispatches searches. It does not record history.
type Sequencer struct {
	registry  *provider.Registry
	host      host.Host
	scheduler Scheduler
	stagger   time.Duration
	log       zerolog.Logger
}

// NewSequencer creates a Sequencer. A non-positive stagger uses
// DefaultStagger.
func NewSequencer(registry *provider.Registry, h host.Host, scheduler Scheduler, stagger time.Duration, log zerolog.Logger) *Sequencer {
	if stagger <= 0 {
		stagger = DefaultStagger
	}
	return &Sequencer{
		registry:  registry,
		host:      h,
		scheduler: scheduler,
		stagger:   stagger,
		log:       log,
	}
}

// Plan returns the tasks for req in registry order. Task i is delayed by
// i times the stagger.
func (s *Sequencer) Plan(req search.Request) ([]Task, error) {
	providers := s.registry.Resolve(req.ProviderIDs)
	if len(providers) == 0 {
		return nil, ErrNoProvidersSelected
	}

	tasks := make([]Task, len(providers))
	for i, p := range providers {
		tasks[i] = Task{
			Index:    i,
			Delay:    time.Duration(i) * s.stagger,
			Provider: p,
			URL:      p.URL(req.Query, req.PostalCode, req.Radius),
		}
	}
	return tasks, nil
}

// Dispatch schedules one open per resolved provider and returns without
// waiting for them. When state is Blocked nothing is opened and
// ErrPermissionRequired is returned.
func (s *Sequencer) Dispatch(ctx context.Context, req search.Request, state permission.State) (*Result, error) {
	tasks, err := s.Plan(req)
	if err != nil {
		return nil, err
	}

	if state == permission.Blocked {
		return nil, ErrPermissionRequired
	}

	res := &Result{
		Request:   req,
		Tasks:     tasks,
		Attempted: len(tasks),
		outcomes:  make([]Outcome, len(tasks)),
	}

	steps := make([]Step, len(tasks))
	for i, task := range tasks {
		steps[i] = Step{
			Delay: task.Delay,
			Action: func(ctx context.Context) {
				res.record(i, s.open(ctx, task))
			},
		}
	}

	s.log.Info().
		Str("query", req.Query).
		Str("postal_code", req.PostalCode).
		Int("providers", len(tasks)).
		Msg("dispatching search")

	res.done = s.scheduler.Run(ctx, steps)
	return res, nil
}

func (s *Sequencer) open(ctx context.Context, task Task) Outcome {
	out := Outcome{Task: task}

	win, err := s.host.Open(ctx, task.URL)
	if err != nil {
		out.Err = fmt.Errorf("open %s: %w", task.Provider.ID, err)
		s.log.Warn().Err(err).Str("provider", task.Provider.ID).Msg("open failed")
		return out
	}

	out.Opened = win != nil && !win.Closed()
	if !out.Opened {
		s.log.Debug().Str("provider", task.Provider.ID).Msg("window did not open")
	}
	return out
}

// Result describes a dispatched batch.
type Result struct {
	Request search.Request
	Tasks   []Task
	// Attempted is the number of opens scheduled.
	Attempted int

	done     <-chan struct{}
	mu       sync.Mutex
	outcomes []Outcome
	ran      []bool
}

func (r *Result) record(i int, out Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ran == nil {
		r.ran = make([]bool, len(r.outcomes))
	}
	r.outcomes[i] = out
	r.ran[i] = true
}

// Wait blocks until the batch finishes or ctx is done and returns the
// outcomes of the tasks that ran, in order.
func (r *Result) Wait(ctx context.Context) []Outcome {
	if r.done != nil {
		select {
		case <-r.done:
		case <-ctx.Done():
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Outcome, 0, len(r.outcomes))
	for i, o := range r.outcomes {
		if r.ran != nil && r.ran[i] {
			out = append(out, o)
		}
	}
	return out
}

// Opened counts the outcomes that produced an open window.
func Opened(outcomes []Outcome) int {
	n := 0
	for _, o := range outcomes {
		if o.Opened {
			n++
		}
	}
	return n
}
