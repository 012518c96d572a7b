package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// toastDuration is how long a toast stays visible.
const toastDuration = 3 * time.Second

type toastLevel int

const (
	toastInfo toastLevel = iota
	toastWarn
	toastError
)

type toast struct {
	id    int
	level toastLevel
	text  string
}

// toastExpiredMsg dismisses the toast with the same id.
type toastExpiredMsg struct {
	id int
}

// showToast replaces the current toast and schedules its dismissal.
func (m *Model) showToast(level toastLevel, text string) tea.Cmd {
	m.toastSeq++
	id := m.toastSeq
	m.toast = &toast{id: id, level: level, text: text}

	return tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}

func (m Model) renderToast() string {
	if m.toast == nil {
		return ""
	}

	switch m.toast.level {
	case toastWarn:
		return m.styles.ToastWarn.Render("• " + m.toast.text)
	case toastError:
		return m.styles.ToastError.Render("✘ " + m.toast.text)
	default:
		return m.styles.ToastInfo.Render("✔ " + m.toast.text)
	}
}
