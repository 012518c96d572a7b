package tui

import (
	"fmt"
	"strings"

	"github.com/hay-kot/dealscout/internal/core/history"
	"github.com/hay-kot/dealscout/internal/core/search"
	"github.com/hay-kot/dealscout/internal/styles"
)

// listPanel shows one saved list with a cursor.
type listPanel struct {
	kind    history.Kind
	title   string
	empty   string
	entries []search.Request
	cursor  int
}

func newListPanel(kind history.Kind, title, empty string) listPanel {
	return listPanel{kind: kind, title: title, empty: empty}
}

// setEntries replaces the entries and keeps the cursor in range.
func (p *listPanel) setEntries(entries []search.Request) {
	p.entries = entries
	if p.cursor >= len(entries) {
		p.cursor = len(entries) - 1
	}
	if p.cursor < 0 {
		p.cursor = 0
	}
}

func (p *listPanel) up() {
	if p.cursor > 0 {
		p.cursor--
	}
}

func (p *listPanel) down() {
	if p.cursor < len(p.entries)-1 {
		p.cursor++
	}
}

// selected returns the index under the cursor and the identity of the entry
// shown there, or false when empty.
func (p listPanel) selected() (int, search.Key, bool) {
	if len(p.entries) == 0 {
		return 0, search.Key{}, false
	}
	return p.cursor, p.entries[p.cursor].Key(), true
}

func (p listPanel) view(s styles.Styles, focused bool, width int) string {
	var b strings.Builder
	b.WriteString(s.Title.Render(fmt.Sprintf("%s (%d)", p.title, len(p.entries))))
	b.WriteString("\n")

	if len(p.entries) == 0 {
		b.WriteString(s.Muted.Render(p.empty))
	}

	for i, e := range p.entries {
		line := fmt.Sprintf("%d. %s", i+1, e.Summary())
		if i > 0 {
			b.WriteString("\n")
		}
		if focused && i == p.cursor {
			b.WriteString(s.ItemSelected.Render("› " + line))
		} else {
			b.WriteString(s.Item.Render("  " + line))
		}
	}

	style := s.Panel
	if focused {
		style = s.PanelFocused
	}
	if width > 4 {
		style = style.Width(width - 2)
	}
	return style.Render(b.String())
}
