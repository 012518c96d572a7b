// Package printer writes formatted command output.
package printer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hay-kot/criterio"
	"golang.org/x/term"
)

// ANSI styles.
const (
	ColorReset     = "\033[0m"
	ColorBold      = "\033[1m"
	ColorUnderline = "\033[4m"
)

// Symbols
const (
	Check = "✔"
	Cross = "✘"
	Dot   = "•"
	Arrow = "→"
	Star  = "★"
)

// Palette holds the ANSI colors for one theme.
type Palette struct {
	Red    string
	Green  string
	Yellow string
	Blue   string
	Muted  string
}

// Tokyo Night (dark) and Tokyo Night Day (light) palettes.
var (
	DarkPalette = Palette{
		Red:    "\033[38;2;247;118;142m", // #f7768e
		Green:  "\033[38;2;158;206;106m", // #9ece6a
		Yellow: "\033[38;2;224;175;104m", // #e0af68
		Blue:   "\033[38;2;122;162;247m", // #7aa2f7
		Muted:  "\033[38;2;86;95;137m",   // #565f89
	}
	LightPalette = Palette{
		Red:    "\033[38;2;245;42;101m",  // #f52a65
		Green:  "\033[38;2;88;117;57m",   // #587539
		Yellow: "\033[38;2;140;108;62m",  // #8c6c3e
		Blue:   "\033[38;2;46;125;233m",  // #2e7de9
		Muted:  "\033[38;2;132;140;181m", // #848cb5
	}
)

type ctxKey struct{}

// Printer handles formatted output with colors and styles.
type Printer struct {
	writer  io.Writer
	palette Palette
	color   bool
}

// New creates a Printer that writes to w. Colors are enabled when w is a
// terminal and NO_COLOR is unset.
func New(w io.Writer) *Printer {
	return &Printer{
		writer:  w,
		palette: DarkPalette,
		color:   isTerminal(w) && os.Getenv("NO_COLOR") == "",
	}
}

// WithPalette returns a copy of p using palette.
func (p *Printer) WithPalette(palette Palette) *Printer {
	cp := *p
	cp.palette = palette
	return &cp
}

// WithColor returns a copy of p with colors forced on or off.
func (p *Printer) WithColor(enabled bool) *Printer {
	cp := *p
	cp.color = enabled
	return &cp
}

// Writer returns the underlying writer.
func (p *Printer) Writer() io.Writer {
	return p.writer
}

// NewContext returns a context with the printer attached
func NewContext(ctx context.Context, p *Printer) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// Ctx retrieves the printer from context, or creates a default one
func Ctx(ctx context.Context) *Printer {
	if p, ok := ctx.Value(ctxKey{}).(*Printer); ok {
		return p
	}
	return New(os.Stderr)
}

// FatalError prints a formatted error box and does NOT exit
// Caller should handle exit code
func (p *Printer) FatalError(err error) {
	if err == nil {
		return
	}

	var fieldErrs criterio.FieldErrors
	if errors.As(err, &fieldErrs) {
		p.printValidationErrors(err, fieldErrs)
		return
	}

	p.box("Error", []string{p.colorize(p.palette.Muted, err.Error())})
}

// printValidationErrors formats criterio.FieldErrors as a box with one line
// per field.
func (p *Printer) printValidationErrors(wrappedErr error, fieldErrs criterio.FieldErrors) {
	errStr := wrappedErr.Error()
	fieldErrStr := fieldErrs.Error()

	var lines []string
	if idx := strings.Index(errStr, fieldErrStr); idx > 0 {
		lines = append(lines, p.colorize(p.palette.Muted, strings.TrimSuffix(errStr[:idx], ": ")), "")
	}

	for _, fe := range fieldErrs {
		line := p.colorize(p.palette.Red, Cross) + " "
		if fe.Field != "" {
			line += p.colorize(p.palette.Muted, fe.Field+": ")
		}
		lines = append(lines, line+fe.Err.Error())
	}

	p.box("Validation Error", lines)
}

func (p *Printer) box(title string, lines []string) {
	var b strings.Builder
	b.WriteString(p.colorize(p.palette.Red, "╭ "+title) + "\n")
	for _, line := range lines {
		b.WriteString(p.colorize(p.palette.Red, "│"))
		if line != "" {
			b.WriteString(" " + line)
		}
		b.WriteString("\n")
	}
	b.WriteString(p.colorize(p.palette.Red, "╵") + "\n")
	p.write(b.String())
}

// Errorf prints an error message in red
func (p *Printer) Errorf(format string, args ...any) {
	p.line(p.palette.Red, Cross, fmt.Sprintf(format, args...))
}

// Successf prints a success message in green
func (p *Printer) Successf(format string, args ...any) {
	p.line(p.palette.Green, Check, fmt.Sprintf(format, args...))
}

// Infof prints an info message in the muted color
func (p *Printer) Infof(format string, args ...any) {
	p.line(p.palette.Muted, Dot, fmt.Sprintf(format, args...))
}

// Warnf prints a warning message in yellow
func (p *Printer) Warnf(format string, args ...any) {
	p.line(p.palette.Yellow, Dot, fmt.Sprintf(format, args...))
}

// Hintf prints a suggested next step in blue.
func (p *Printer) Hintf(format string, args ...any) {
	p.line(p.palette.Blue, Arrow, fmt.Sprintf(format, args...))
}

// Printf prints a plain message without colors
func (p *Printer) Printf(format string, args ...any) {
	p.write(fmt.Sprintf(format, args...) + "\n")
}

// Bold makes text bold
func (p *Printer) Bold(text string) string {
	return p.colorize(ColorBold, text)
}

// Muted renders text in the muted color.
func (p *Printer) Muted(text string) string {
	return p.colorize(p.palette.Muted, text)
}

// Section prints a section header (bold + underlined)
func (p *Printer) Section(title string) {
	p.write(p.colorize(ColorBold+ColorUnderline, title) + "\n")
}

// CheckItem prints a success item with green checkmark
func (p *Printer) CheckItem(label, detail string) {
	p.printItem(p.palette.Green, Check, label, detail)
}

// WarnItem prints a warning item with yellow dot
func (p *Printer) WarnItem(label, detail string) {
	p.printItem(p.palette.Yellow, Dot, label, detail)
}

// FailItem prints a failure item with red cross
func (p *Printer) FailItem(label, detail string) {
	p.printItem(p.palette.Red, Cross, label, detail)
}

// StatusOK returns a green checkmark with msg for use in tables.
func (p *Printer) StatusOK(msg string) string {
	return p.colorize(p.palette.Green, Check) + " " + msg
}

// StatusFailed returns a red cross with msg for use in tables.
func (p *Printer) StatusFailed(msg string) string {
	return p.colorize(p.palette.Red, Cross) + " " + msg
}

// StatusWarn returns a yellow dot with msg for use in tables.
func (p *Printer) StatusWarn(msg string) string {
	return p.colorize(p.palette.Yellow, Dot) + " " + msg
}

func (p *Printer) printItem(color, symbol, label, detail string) {
	line := "  " + p.colorize(color, symbol) + " " + label
	if detail != "" {
		line += ": " + detail
	}
	p.write(line + "\n")
}

func (p *Printer) line(color, symbol, msg string) {
	p.write(p.colorize(color, symbol+" "+msg) + "\n")
}

func (p *Printer) colorize(color, text string) string {
	if !p.color || color == "" {
		return text
	}
	return color + text + ColorReset
}

func (p *Printer) write(s string) {
	_, _ = io.WriteString(p.writer, s)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
