// Package styles provides shared lipgloss styles for CLI and TUI components.
package styles

import (
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/hay-kot/dealscout/internal/core/prefs"
	"github.com/hay-kot/dealscout/internal/printer"
)

// Palette is the set of colors for one theme.
type Palette struct {
	Foreground lipgloss.Color
	Muted      lipgloss.Color
	Accent     lipgloss.Color
	Green      lipgloss.Color
	Yellow     lipgloss.Color
	Red        lipgloss.Color
	Border     lipgloss.Color
}

// Tokyo Night palettes.
var (
	Dark = Palette{
		Foreground: lipgloss.Color("#c0caf5"),
		Muted:      lipgloss.Color("#565f89"),
		Accent:     lipgloss.Color("#7aa2f7"),
		Green:      lipgloss.Color("#9ece6a"),
		Yellow:     lipgloss.Color("#e0af68"),
		Red:        lipgloss.Color("#f7768e"),
		Border:     lipgloss.Color("#3b4261"),
	}
	Light = Palette{
		Foreground: lipgloss.Color("#3760bf"),
		Muted:      lipgloss.Color("#848cb5"),
		Accent:     lipgloss.Color("#2e7de9"),
		Green:      lipgloss.Color("#587539"),
		Yellow:     lipgloss.Color("#8c6c3e"),
		Red:        lipgloss.Color("#f52a65"),
		Border:     lipgloss.Color("#a8aecb"),
	}
)

// Banner ASCII art for the header.
const Banner = `
 ╔╦╗╔═╗╔═╗╦    ╔═╗╔═╗╔═╗╦ ╦╔╦╗
  ║║║╣ ╠═╣║    ╚═╗║  ║ ║║ ║ ║
 ═╩╝╚═╝╩ ╩╩═╝  ╚═╝╚═╝╚═╝╚═╝ ╩ `

// DefaultTheme picks a theme from the terminal background.
func DefaultTheme() prefs.Theme {
	if lipgloss.HasDarkBackground() {
		return prefs.ThemeDark
	}
	return prefs.ThemeLight
}

// PaletteFor returns the palette of theme.
func PaletteFor(theme prefs.Theme) Palette {
	if theme == prefs.ThemeLight {
		return Light
	}
	return Dark
}

// PrinterPalette returns the ANSI palette of theme for the CLI printer.
func PrinterPalette(theme prefs.Theme) printer.Palette {
	if theme == prefs.ThemeLight {
		return printer.LightPalette
	}
	return printer.DarkPalette
}

// GlamourStyle returns the glamour standard style matching theme.
func GlamourStyle(theme prefs.Theme) string {
	if theme == prefs.ThemeLight {
		return "light"
	}
	return "dark"
}

// Styles holds the lipgloss styles for one theme.
type Styles struct {
	Palette Palette

	Banner       lipgloss.Style
	Title        lipgloss.Style
	Panel        lipgloss.Style
	PanelFocused lipgloss.Style
	Item         lipgloss.Style
	ItemSelected lipgloss.Style
	Muted        lipgloss.Style
	Blocked      lipgloss.Style
	ToastInfo    lipgloss.Style
	ToastWarn    lipgloss.Style
	ToastError   lipgloss.Style
	Divider      lipgloss.Style
}

// New builds the styles of theme.
func New(theme prefs.Theme) Styles {
	p := PaletteFor(theme)

	panel := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Border).
		Padding(0, 1)

	return Styles{
		Palette: p,
		Banner: lipgloss.NewStyle().
			Foreground(p.Accent).
			Bold(true),
		Title: lipgloss.NewStyle().
			Foreground(p.Accent).
			Bold(true),
		Panel:        panel,
		PanelFocused: panel.BorderForeground(p.Accent),
		Item:         lipgloss.NewStyle().Foreground(p.Foreground),
		ItemSelected: lipgloss.NewStyle().Foreground(p.Accent).Bold(true),
		Muted:        lipgloss.NewStyle().Foreground(p.Muted),
		Blocked: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(p.Red).
			Foreground(p.Red).
			PaddingLeft(1),
		ToastInfo:  lipgloss.NewStyle().Foreground(p.Green),
		ToastWarn:  lipgloss.NewStyle().Foreground(p.Yellow),
		ToastError: lipgloss.NewStyle().Foreground(p.Red).Bold(true),
		Divider:    lipgloss.NewStyle().Foreground(p.Border),
	}
}

// FormTheme returns the huh form theme for theme.
func FormTheme(theme prefs.Theme) *huh.Theme {
	p := PaletteFor(theme)
	t := huh.ThemeBase()

	t.Focused.Base = t.Focused.Base.BorderForeground(p.Accent)
	t.Focused.Title = t.Focused.Title.Foreground(p.Accent).Bold(true)
	t.Focused.Description = t.Focused.Description.Foreground(p.Muted)
	t.Focused.ErrorIndicator = t.Focused.ErrorIndicator.Foreground(p.Red)
	t.Focused.ErrorMessage = t.Focused.ErrorMessage.Foreground(p.Red)
	t.Focused.SelectSelector = t.Focused.SelectSelector.Foreground(p.Accent)
	t.Focused.Option = t.Focused.Option.Foreground(p.Foreground)
	t.Focused.MultiSelectSelector = t.Focused.MultiSelectSelector.Foreground(p.Accent)
	t.Focused.SelectedOption = t.Focused.SelectedOption.Foreground(p.Green)
	t.Focused.SelectedPrefix = t.Focused.SelectedPrefix.Foreground(p.Green)
	t.Focused.UnselectedOption = t.Focused.UnselectedOption.Foreground(p.Foreground)
	t.Focused.TextInput.Cursor = t.Focused.TextInput.Cursor.Foreground(p.Accent)
	t.Focused.TextInput.Placeholder = t.Focused.TextInput.Placeholder.Foreground(p.Muted)
	t.Focused.TextInput.Prompt = t.Focused.TextInput.Prompt.Foreground(p.Accent)

	t.Blurred = t.Focused
	t.Blurred.Base = t.Blurred.Base.BorderStyle(lipgloss.HiddenBorder())
	t.Blurred.Title = t.Blurred.Title.Foreground(p.Muted).Bold(false)

	return t
}

// RenderMarkdown renders md for the terminal in the style of theme. A width
// of zero disables wrapping.
func RenderMarkdown(md string, theme prefs.Theme, width int) (string, error) {
	opts := []glamour.TermRendererOption{
		glamour.WithStandardStyle(GlamourStyle(theme)),
	}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", err
	}
	return r.Render(md)
}
