package printer

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
)

func TestPrinter_PlainWhenNotTerminal(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)

	p.Successf("saved %d", 2)
	p.Warnf("careful")
	p.Errorf("failed")
	p.Hintf("run %s", "dealscout permission request")

	assert.Equal(t, "✔ saved 2\n• careful\n✘ failed\n→ run dealscout permission request\n", buf.String())
}

func TestPrinter_Colors(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf).WithColor(true).WithPalette(LightPalette)

	p.Successf("ok")
	assert.Equal(t, LightPalette.Green+"✔ ok"+ColorReset+"\n", buf.String())
}

func TestFatalError(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).FatalError(errors.New("boom"))

	assert.Equal(t, "╭ Error\n│ boom\n╵\n", buf.String())
}

func TestFatalError_FieldErrors(t *testing.T) {
	var errs criterio.FieldErrorsBuilder
	errs = errs.Append("postal_code", errors.New("enter a valid 5-digit ZIP code"))
	errs = errs.Append("query", errors.New("enter a search term"))

	var buf bytes.Buffer
	New(&buf).FatalError(fmt.Errorf("search: %w", errs.ToError()))

	out := buf.String()
	assert.Contains(t, out, "╭ Validation Error\n")
	assert.Contains(t, out, "│ search\n│\n")
	assert.Contains(t, out, "│ ✘ postal_code: enter a valid 5-digit ZIP code\n")
	assert.Contains(t, out, "│ ✘ query: enter a search term\n")
}

func TestFatalError_Nil(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).FatalError(nil)
	assert.Empty(t, buf.String())
}

func TestItems(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)

	p.CheckItem("Config", "")
	p.FailItem("Browser", "not found")
	assert.Equal(t, "  ✔ Config\n  ✘ Browser: not found\n", buf.String())
	assert.Equal(t, "✔ ok", p.StatusOK("ok"))
}
