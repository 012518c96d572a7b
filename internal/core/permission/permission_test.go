package permission

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/hay-kot/dealscout/internal/core/host"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type fakeWindow struct {
	closed bool
}

func (w *fakeWindow) Closed() bool { return w.closed }
func (w *fakeWindow) Close() error { w.closed = true; return nil }

// fakeHost returns results from a queue; the last result repeats.
type fakeHost struct {
	results []func() (host.Window, error)
	calls   int
	windows []*fakeWindow
}

func (h *fakeHost) Open(ctx context.Context, url string) (host.Window, error) {
	return h.OpenBlank(ctx)
}

func (h *fakeHost) OpenBlank(context.Context) (host.Window, error) {
	i := h.calls
	if i >= len(h.results) {
		i = len(h.results) - 1
	}
	h.calls++
	return h.results[i]()
}

func (h *fakeHost) allow() func() (host.Window, error) {
	return func() (host.Window, error) {
		w := &fakeWindow{}
		h.windows = append(h.windows, w)
		return w, nil
	}
}

func deny() (host.Window, error) { return nil, nil }

func failing() (host.Window, error) { return nil, errors.New("no display") }

func closedWindow() (host.Window, error) { return &fakeWindow{closed: true}, nil }

func panicking() (host.Window, error) { panic("boom") }

var gesture = Gesture{Source: "test"}

func TestProbe_Startup(t *testing.T) {
	tests := []struct {
		name   string
		result func(h *fakeHost) func() (host.Window, error)
		want   State
	}{
		{name: "window opens", result: func(h *fakeHost) func() (host.Window, error) { return h.allow() }, want: Allowed},
		{name: "nil window", result: func(*fakeHost) func() (host.Window, error) { return deny }, want: Blocked},
		{name: "host error", result: func(*fakeHost) func() (host.Window, error) { return failing }, want: Blocked},
		{name: "window already closed", result: func(*fakeHost) func() (host.Window, error) { return closedWindow }, want: Blocked},
		{name: "host panics", result: func(*fakeHost) func() (host.Window, error) { return panicking }, want: Blocked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &fakeHost{}
			h.results = []func() (host.Window, error){tt.result(h)}
			p := New(h, zerolog.Nop())

			assert.Equal(t, Unknown, p.State())
			assert.Equal(t, tt.want, p.Probe(context.Background()))
			assert.Equal(t, tt.want, p.State())
		})
	}
}

func TestProbe_ClosesTestWindow(t *testing.T) {
	h := &fakeHost{}
	h.results = []func() (host.Window, error){h.allow()}
	p := New(h, zerolog.Nop())

	p.Probe(context.Background())

	if assert.Len(t, h.windows, 1) {
		assert.True(t, h.windows[0].closed)
	}
}

func TestProbe_RunsOnce(t *testing.T) {
	h := &fakeHost{results: []func() (host.Window, error){deny}}
	p := New(h, zerolog.Nop())

	assert.Equal(t, Blocked, p.Probe(context.Background()))
	assert.Equal(t, Blocked, p.Probe(context.Background()))
	assert.Equal(t, 1, h.calls)
}

func TestRequestPermission_Recovers(t *testing.T) {
	h := &fakeHost{}
	h.results = []func() (host.Window, error){deny, h.allow()}
	p := New(h, zerolog.Nop())
	ctx := context.Background()

	assert.Equal(t, Blocked, p.Probe(ctx))
	assert.Equal(t, Allowed, p.RequestPermission(ctx, gesture))
	assert.Equal(t, Allowed, p.State())
}

func TestRequestPermission_StaysBlocked(t *testing.T) {
	h := &fakeHost{results: []func() (host.Window, error){failing}}
	p := New(h, zerolog.Nop())
	ctx := context.Background()

	p.Probe(ctx)
	for i := 0; i < 3; i++ {
		assert.Equal(t, Blocked, p.RequestPermission(ctx, gesture))
	}
	assert.Equal(t, 4, h.calls)
}

func TestRequestPermission_AllowedIsSticky(t *testing.T) {
	h := &fakeHost{}
	h.results = []func() (host.Window, error){h.allow(), deny}
	p := New(h, zerolog.Nop())
	ctx := context.Background()

	assert.Equal(t, Allowed, p.Probe(ctx))
	assert.Equal(t, Allowed, p.RequestPermission(ctx, gesture))
	assert.Equal(t, Allowed, p.RequestPermission(ctx, gesture))
	assert.Equal(t, 1, h.calls)
}

func TestRequestPermission_RequiresGesture(t *testing.T) {
	h := &fakeHost{}
	h.results = []func() (host.Window, error){deny, h.allow()}
	p := New(h, zerolog.Nop())
	ctx := context.Background()

	p.Probe(ctx)
	assert.Equal(t, Blocked, p.RequestPermission(ctx, Gesture{}))
	assert.Equal(t, 1, h.calls)

	assert.Equal(t, Allowed, p.RequestPermission(ctx, NewGesture("key:p")))
}

func TestRequestPermission_FromUnknown(t *testing.T) {
	h := &fakeHost{}
	h.results = []func() (host.Window, error){h.allow()}
	p := New(h, zerolog.Nop())

	assert.Equal(t, Allowed, p.RequestPermission(context.Background(), gesture))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "unknown", Unknown.String())
	assert.Equal(t, "allowed", Allowed.String())
	assert.Equal(t, "blocked", Blocked.String())
}

func TestDetectFamily(t *testing.T) {
	tests := map[string]Family{
		"firefox":                  Firefox,
		"/usr/bin/firefox-esr":     Firefox,
		"google-chrome":            Chromium,
		"chromium-browser":         Chromium,
		"brave-browser":            Chromium,
		"microsoft-edge":           Chromium,
		"xdg-open":                 Other,
		"":                         Other,
		"/Applications/Safari.app": Other,
	}

	for hint, want := range tests {
		assert.Equal(t, want, DetectFamily(hint), hint)
	}
}

func TestInstructions(t *testing.T) {
	for _, f := range []Family{Firefox, Chromium, Other} {
		text := Instructions(f)
		assert.True(t, strings.HasPrefix(text, "# "), f.String())
		assert.Contains(t, text, "dealscout permission request")
	}

	assert.NotEqual(t, Instructions(Firefox), Instructions(Chromium))
}
