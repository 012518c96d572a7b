// Package host defines the window-creating environment that searches are
// opened in.
package host

import "context"

// Window is a handle to an opened browser window or tab.
type Window interface {
	// Closed reports whether the window was closed or never appeared.
	Closed() bool
	Close() error
}

// Host opens windows. Implementations must not block until the window is
// closed.
type Host interface {
	// Open opens url in a new window or tab.
	Open(ctx context.Context, url string) (Window, error)
	// OpenBlank opens an empty window used to check whether the host can
	// open windows at all.
	OpenBlank(ctx context.Context) (Window, error)
}
