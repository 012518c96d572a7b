package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/hay-kot/dealscout/internal/core/permission"
	"github.com/hay-kot/dealscout/internal/styles"
)

// wideLayout is the terminal width at which the lists sit beside the form.
const wideLayout = 100

// View renders the TUI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	sections := []string{m.styles.Banner.Render(strings.TrimPrefix(styles.Banner, "\n"))}

	if m.permission == permission.Blocked {
		sections = append(sections, m.blockedView())
	}

	sections = append(sections, m.body())

	if t := m.renderToast(); t != "" {
		sections = append(sections, t)
	}

	sections = append(sections, m.help.View(m.keys))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) body() string {
	formStyle := m.styles.Panel
	if m.focus == focusForm {
		formStyle = m.styles.PanelFocused
	}

	if m.width >= wideLayout {
		half := m.width / 2
		form := formStyle.Width(half - 2).Render(m.form.View())
		lists := lipgloss.JoinVertical(lipgloss.Left,
			m.favorites.view(m.styles, m.focus == focusFavorites, m.width-half),
			m.recent.view(m.styles, m.focus == focusRecent, m.width-half),
		)
		return lipgloss.JoinHorizontal(lipgloss.Top, form, lists)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		formStyle.Render(m.form.View()),
		m.favorites.view(m.styles, m.focus == focusFavorites, m.width),
		m.recent.view(m.styles, m.focus == focusRecent, m.width),
	)
}

func (m Model) blockedView() string {
	head := m.styles.Blocked.Render("Pop-ups are blocked, so no sites can open. Press p after allowing them.")
	if m.instructions == "" {
		return head
	}
	return lipgloss.JoinVertical(lipgloss.Left, head, m.instructions)
}
