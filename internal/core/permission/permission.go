// Package permission tracks whether the host is allowed to open new windows
// and implements the user-triggered recovery path when it is not.
package permission

import (
	"context"
	"sync"
	"time"

	"github.com/hay-kot/dealscout/internal/core/host"
	"github.com/rs/zerolog"
)

// State is the window-opening capability of the host.
type State int

const (
	Unknown State = iota
	Allowed
	Blocked
)

func (s State) String() string {
	switch s {
	case Allowed:
		return "allowed"
	case Blocked:
		return "blocked"
	default:
		return "unknown"
	}
}

// Gesture records a direct user action, such as a key press or an explicit
// command. Recovery only runs in response to one.
type Gesture struct {
	Source string
	At     time.Time
}

// NewGesture returns a gesture from source stamped with the current time.
func NewGesture(source string) Gesture {
	return Gesture{Source: source, At: time.Now()}
}

// IsZero reports whether g carries no user action.
func (g Gesture) IsZero() bool {
	return g.Source == "" && g.At.IsZero()
}

// Probe holds the permission state of one host.
type Probe struct {
	host host.Host
	log  zerolog.Logger

	mu    sync.Mutex
	state State
}

// New returns a probe in the Unknown state.
func New(h host.Host, log zerolog.Logger) *Probe {
	return &Probe{host: h, log: log}
}

// State returns the current state.
func (p *Probe) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Probe checks the host once. Only an Unknown probe opens a test window; any
// other state is returned as is.
func (p *Probe) Probe(ctx context.Context) State {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != Unknown {
		return p.state
	}

	p.state = p.check(ctx)
	p.log.Debug().Stringer("state", p.state).Msg("startup probe")
	return p.state
}

// RequestPermission re-checks the host in response to g. A zero gesture is
// refused. Allowed is final and returned without checking again.
func (p *Probe) RequestPermission(ctx context.Context, g Gesture) State {
	p.mu.Lock()
	defer p.mu.Unlock()

	if g.IsZero() {
		p.log.Warn().Msg("permission request without user gesture refused")
		return p.state
	}

	if p.state == Allowed {
		return p.state
	}

	p.state = p.check(ctx)
	p.log.Info().
		Str("gesture", g.Source).
		Stringer("state", p.state).
		Msg("permission requested")
	return p.state
}

func (p *Probe) check(ctx context.Context) (state State) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error().Interface("panic", r).Msg("host panicked opening test window")
			state = Blocked
		}
	}()

	win, err := p.host.OpenBlank(ctx)
	if err != nil {
		p.log.Debug().Err(err).Msg("test window failed")
		return Blocked
	}

	if win == nil || win.Closed() {
		return Blocked
	}

	if err := win.Close(); err != nil {
		p.log.Debug().Err(err).Msg("close test window")
	}
	return Allowed
}
