// Package browser provides hosts that open search URLs in the user's web
// browser or print them.
package browser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"slices"
	"strings"
	"sync"

	"github.com/hay-kot/dealscout/internal/core/host"
	"github.com/hay-kot/dealscout/internal/core/permission"
	"github.com/hay-kot/dealscout/pkg/executil"
	"github.com/rs/zerolog"
)

var (
	// ErrNoOpener is returned when no browser command is configured and the
	// platform has no known default.
	ErrNoOpener = errors.New("no browser command for this platform")
	// ErrNoDisplay is returned when no graphical session is available.
	ErrNoDisplay = errors.New("no graphical display (DISPLAY and WAYLAND_DISPLAY are unset)")
)

// DefaultCommand returns the system URL opener for goos.
func DefaultCommand(goos string) []string {
	switch goos {
	case "darwin":
		return []string{"open"}
	case "windows":
		return []string{"rundll32", "url.dll,FileProtocolHandler"}
	case "linux", "freebsd", "openbsd", "netbsd", "dragonfly":
		return []string{"xdg-open"}
	default:
		return nil
	}
}

// window is a handle to a tab opened by an external program. The program
// owns the tab, so the handle only tracks whether it was dismissed locally.
type window struct {
	mu     sync.Mutex
	closed bool
}

func (w *window) Closed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}

func (w *window) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return nil
}

// SystemHost opens URLs by launching a browser command.
type SystemHost struct {
	exec    executil.Executor
	command []string
	goos    string
	getenv  func(string) string
	log     zerolog.Logger
}

var _ host.Host = (*SystemHost)(nil)

// NewSystemHost creates a host that runs command with the URL appended. An
// empty command uses the platform default.
func NewSystemHost(exec executil.Executor, command []string, log zerolog.Logger) *SystemHost {
	return &SystemHost{
		exec:    exec,
		command: slices.Clone(command),
		goos:    runtime.GOOS,
		getenv:  os.Getenv,
		log:     log,
	}
}

// Command returns the command used to open URLs.
func (h *SystemHost) Command() []string {
	if len(h.command) > 0 {
		return slices.Clone(h.command)
	}
	return DefaultCommand(h.goos)
}

// Open launches the browser command for url.
func (h *SystemHost) Open(ctx context.Context, url string) (host.Window, error) {
	cmd := h.Command()
	if len(cmd) == 0 {
		return nil, ErrNoOpener
	}

	args := append(slices.Clone(cmd[1:]), url)
	if err := h.exec.Start(ctx, cmd[0], args...); err != nil {
		return nil, err
	}

	h.log.Debug().Str("url", url).Msg("opened")
	return &window{}, nil
}

// OpenBlank checks that the browser command can run without opening
// anything visible.
func (h *SystemHost) OpenBlank(ctx context.Context) (host.Window, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cmd := h.Command()
	if len(cmd) == 0 {
		return nil, ErrNoOpener
	}

	if _, err := h.exec.LookPath(cmd[0]); err != nil {
		return nil, err
	}

	if h.needsDisplay() && h.getenv("DISPLAY") == "" && h.getenv("WAYLAND_DISPLAY") == "" && h.getenv("BROWSER") == "" {
		return nil, ErrNoDisplay
	}

	return &window{}, nil
}

// Family guesses the browser family from the command and $BROWSER.
func (h *SystemHost) Family() permission.Family {
	hint := strings.Join(h.Command(), " ") + " " + h.getenv("BROWSER")
	return permission.DetectFamily(hint)
}

func (h *SystemHost) needsDisplay() bool {
	switch h.goos {
	case "darwin", "windows":
		return false
	default:
		return true
	}
}

// PrintHost writes each URL to a writer instead of opening it. It can always
// open windows.
type PrintHost struct {
	mu sync.Mutex
	w  io.Writer
}

var _ host.Host = (*PrintHost)(nil)

// NewPrintHost creates a host that prints URLs to w, one per line.
func NewPrintHost(w io.Writer) *PrintHost {
	return &PrintHost{w: w}
}

func (h *PrintHost) Open(ctx context.Context, url string) (host.Window, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, err := fmt.Fprintln(h.w, url); err != nil {
		return nil, fmt.Errorf("print url: %w", err)
	}
	return &window{}, nil
}

func (h *PrintHost) OpenBlank(context.Context) (host.Window, error) {
	return &window{}, nil
}
