package browser

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/hay-kot/dealscout/internal/core/permission"
	"github.com/hay-kot/dealscout/pkg/executil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHost(exec executil.Executor, command []string, goos string, env map[string]string) *SystemHost {
	h := NewSystemHost(exec, command, zerolog.Nop())
	h.goos = goos
	h.getenv = func(k string) string { return env[k] }
	return h
}

func TestDefaultCommand(t *testing.T) {
	assert.Equal(t, []string{"open"}, DefaultCommand("darwin"))
	assert.Equal(t, []string{"xdg-open"}, DefaultCommand("linux"))
	assert.Equal(t, []string{"rundll32", "url.dll,FileProtocolHandler"}, DefaultCommand("windows"))
	assert.Nil(t, DefaultCommand("plan9"))
}

func TestSystemHost_Open(t *testing.T) {
	rec := &executil.RecordingExecutor{}
	h := newTestHost(rec, nil, "linux", nil)

	win, err := h.Open(context.Background(), "https://example.com/?q=a%20b")
	require.NoError(t, err)
	assert.False(t, win.Closed())
	require.NoError(t, win.Close())
	assert.True(t, win.Closed())

	started := rec.Started()
	require.Len(t, started, 1)
	assert.Equal(t, "xdg-open", started[0].Cmd)
	assert.Equal(t, []string{"https://example.com/?q=a%20b"}, started[0].Args)
}

func TestSystemHost_OpenCustomCommand(t *testing.T) {
	rec := &executil.RecordingExecutor{}
	h := newTestHost(rec, []string{"firefox", "--new-tab"}, "linux", nil)

	_, err := h.Open(context.Background(), "https://example.com")
	require.NoError(t, err)

	started := rec.Started()
	require.Len(t, started, 1)
	assert.Equal(t, "firefox", started[0].Cmd)
	assert.Equal(t, []string{"--new-tab", "https://example.com"}, started[0].Args)

	// the configured command is not modified between opens
	_, _ = h.Open(context.Background(), "https://example.org")
	assert.Equal(t, []string{"firefox", "--new-tab"}, h.Command())
}

func TestSystemHost_OpenError(t *testing.T) {
	rec := &executil.RecordingExecutor{Errors: map[string]error{"xdg-open": errors.New("boom")}}
	h := newTestHost(rec, nil, "linux", nil)

	win, err := h.Open(context.Background(), "https://example.com")
	require.Error(t, err)
	assert.Nil(t, win)
}

func TestSystemHost_OpenBlank(t *testing.T) {
	tests := []struct {
		name    string
		goos    string
		paths   map[string]string
		env     map[string]string
		wantErr error
		notNil  bool
	}{
		{
			name:   "linux with display",
			goos:   "linux",
			env:    map[string]string{"DISPLAY": ":0"},
			notNil: true,
		},
		{
			name:   "linux with wayland",
			goos:   "linux",
			env:    map[string]string{"WAYLAND_DISPLAY": "wayland-0"},
			notNil: true,
		},
		{
			name:    "linux headless",
			goos:    "linux",
			wantErr: ErrNoDisplay,
		},
		{
			name:   "darwin needs no display",
			goos:   "darwin",
			notNil: true,
		},
		{
			name:  "opener missing",
			goos:  "darwin",
			paths: map[string]string{},
		},
		{
			name:    "unknown platform",
			goos:    "plan9",
			wantErr: ErrNoOpener,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &executil.RecordingExecutor{Paths: tt.paths}
			h := newTestHost(rec, nil, tt.goos, tt.env)

			win, err := h.OpenBlank(context.Background())
			if tt.notNil {
				require.NoError(t, err)
				assert.False(t, win.Closed())
				return
			}

			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.Nil(t, win)
			assert.Empty(t, rec.Started(), "probe must not launch anything")
		})
	}
}

func TestSystemHost_ProbeIntegration(t *testing.T) {
	rec := &executil.RecordingExecutor{}
	h := newTestHost(rec, nil, "linux", nil)
	probe := permission.New(h, zerolog.Nop())

	assert.Equal(t, permission.Blocked, probe.Probe(context.Background()))

	h.getenv = func(k string) string {
		if k == "DISPLAY" {
			return ":1"
		}
		return ""
	}
	assert.Equal(t, permission.Allowed, probe.RequestPermission(context.Background(), permission.NewGesture("test")))
}

func TestSystemHost_Family(t *testing.T) {
	rec := &executil.RecordingExecutor{}

	assert.Equal(t, permission.Firefox, newTestHost(rec, []string{"firefox"}, "linux", nil).Family())
	assert.Equal(t, permission.Chromium, newTestHost(rec, nil, "linux", map[string]string{"BROWSER": "google-chrome"}).Family())
	assert.Equal(t, permission.Other, newTestHost(rec, nil, "linux", nil).Family())
}

func TestPrintHost(t *testing.T) {
	var buf bytes.Buffer
	h := NewPrintHost(&buf)

	win, err := h.OpenBlank(context.Background())
	require.NoError(t, err)
	assert.False(t, win.Closed())

	_, err = h.Open(context.Background(), "https://a.example")
	require.NoError(t, err)
	_, err = h.Open(context.Background(), "https://b.example")
	require.NoError(t, err)

	assert.Equal(t, "https://a.example\nhttps://b.example\n", buf.String())
}
