package doctor

import (
	"context"
	"fmt"
	"strings"

	"github.com/hay-kot/dealscout/internal/core/host"
	"github.com/hay-kot/dealscout/internal/core/permission"
	"github.com/hay-kot/dealscout/pkg/executil"
)

// BrowserHost is the part of the browser host the check inspects.
type BrowserHost interface {
	Command() []string
	OpenBlank(ctx context.Context) (host.Window, error)
	Family() permission.Family
}

// BrowserCheck verifies that browser windows can be opened.
type BrowserCheck struct {
	host BrowserHost
	exec executil.Executor
}

// NewBrowserCheck creates a new browser check.
func NewBrowserCheck(h BrowserHost, exec executil.Executor) *BrowserCheck {
	return &BrowserCheck{host: h, exec: exec}
}

func (c *BrowserCheck) Name() string {
	return "Browser"
}

func (c *BrowserCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	cmd := c.host.Command()
	if len(cmd) == 0 {
		result.fail("Opener", "no default opener for this platform; set browser.command")
		return result
	}

	path, err := c.exec.LookPath(cmd[0])
	if err != nil {
		result.fail("Opener", fmt.Sprintf("%s not found in PATH", cmd[0]))
		return result
	}
	result.pass("Opener", strings.Join(append([]string{path}, cmd[1:]...), " "))

	win, err := c.host.OpenBlank(ctx)
	switch {
	case err != nil:
		result.fail("Windows", err.Error())
	case win == nil || win.Closed():
		result.fail("Windows", "blocked")
	default:
		_ = win.Close()
		result.pass("Windows", "allowed")
	}

	if family := c.host.Family(); family == permission.Other {
		result.warn("Browser family", "unknown; permission help shows generic steps")
	} else {
		result.pass("Browser family", family.String())
	}

	return result
}
