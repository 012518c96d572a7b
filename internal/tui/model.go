// Package tui implements the interactive search screen.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/hay-kot/dealscout/internal/core/dispatch"
	"github.com/hay-kot/dealscout/internal/core/history"
	"github.com/hay-kot/dealscout/internal/core/permission"
	"github.com/hay-kot/dealscout/internal/core/prefs"
	"github.com/hay-kot/dealscout/internal/core/search"
	"github.com/hay-kot/dealscout/internal/scout"
	"github.com/hay-kot/dealscout/internal/styles"
)

// focusArea identifies the panel receiving keys.
type focusArea int

const (
	focusForm focusArea = iota
	focusFavorites
	focusRecent
)

// Options configures the TUI.
type Options struct {
	// Defaults prefill an empty form.
	PostalCode string
	Radius     search.Radius
}

// Model is the main Bubble Tea model for the TUI.
type Model struct {
	ctx     context.Context
	service *scout.Service
	keys    keyMap
	help    help.Model

	theme  prefs.Theme
	styles styles.Styles

	form      *SearchForm
	focus     focusArea
	favorites listPanel
	recent    listPanel

	permission   permission.State
	instructions string
	showHelp     bool

	toast    *toast
	toastSeq int

	width    int
	height   int
	quitting bool
}

// startupMsg carries the result of the automatic permission probe.
type startupMsg struct {
	state permission.State
}

// listsLoadedMsg is sent when favorites and recent are loaded.
type listsLoadedMsg struct {
	favorites []search.Request
	recent    []search.Request
	err       error
}

// searchStartedMsg is sent once a search was dispatched or refused.
type searchStartedMsg struct {
	res *dispatch.Result
	err error
}

// searchFinishedMsg is sent when every staggered open has run.
type searchFinishedMsg struct {
	attempted int
	opened    int
}

// permissionMsg carries the result of a user permission request.
type permissionMsg struct {
	state permission.State
}

// loadedMsg carries a saved search recalled into the form.
type loadedMsg struct {
	req search.Request
	err error
}

// actionDoneMsg reports a list mutation.
type actionDoneMsg struct {
	text   string
	level  toastLevel
	reload bool
}

// themeChangedMsg is sent after the theme is toggled.
type themeChangedMsg struct {
	theme prefs.Theme
	err   error
}

// New creates the TUI model. ctx bounds every operation the UI starts.
func New(ctx context.Context, service *scout.Service, opts Options) Model {
	theme := service.Theme(ctx)

	values := SearchFormValues{
		PostalCode:  opts.PostalCode,
		ProviderIDs: service.Selection(ctx),
	}
	if opts.Radius.Valid() {
		values.Radius = strconv.Itoa(int(opts.Radius))
	}

	h := help.New()
	h.ShortSeparator = " • "

	m := Model{
		ctx:       ctx,
		service:   service,
		keys:      newKeyMap(),
		help:      h,
		form:      NewSearchForm(service.Registry(), values, theme),
		focus:     focusForm,
		favorites: newListPanel(history.KindFavorites, "Favorites", "Press s to save the current search."),
		recent:    newListPanel(history.KindRecent, "Recent", "Searches you run show up here."),
	}
	m.applyTheme(theme)

	return m
}

// Init starts the permission probe, loads the lists and focuses the form.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.form.Form().Init(),
		m.startup(),
		m.loadLists(),
	)
}

func (m Model) startup() tea.Cmd {
	return func() tea.Msg {
		return startupMsg{state: m.service.Startup(m.ctx)}
	}
}

func (m Model) loadLists() tea.Cmd {
	return func() tea.Msg {
		favorites, err := m.service.List(m.ctx, history.KindFavorites)
		if err != nil {
			return listsLoadedMsg{err: err}
		}
		recent, err := m.service.List(m.ctx, history.KindRecent)
		return listsLoadedMsg{favorites: favorites, recent: recent, err: err}
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.renderInstructions()
		return m, nil

	case toastExpiredMsg:
		if m.toast != nil && m.toast.id == msg.id {
			m.toast = nil
		}
		return m, nil

	case startupMsg:
		m.permission = msg.state
		if msg.state == permission.Blocked {
			m.renderInstructions()
			return m.withToast(toastWarn, "Browser windows look blocked. Press p after allowing them.")
		}
		return m, nil

	case listsLoadedMsg:
		if msg.err != nil {
			return m.withToast(toastError, msg.err.Error())
		}
		m.favorites.setEntries(msg.favorites)
		m.recent.setEntries(msg.recent)
		return m, nil

	case searchStartedMsg:
		return m.handleSearchStarted(msg)

	case searchFinishedMsg:
		if msg.opened < msg.attempted {
			return m.withToast(toastWarn, fmt.Sprintf("Opened %d of %d sites", msg.opened, msg.attempted))
		}
		return m.withToast(toastInfo, fmt.Sprintf("Opened %d sites", msg.opened))

	case permissionMsg:
		m.permission = msg.state
		if msg.state == permission.Allowed {
			return m.withToast(toastInfo, "Browser windows allowed")
		}
		m.renderInstructions()
		return m.withToast(toastError, "Still blocked. Follow the steps shown, then press p again.")

	case loadedMsg:
		if msg.err != nil {
			cmd := m.showToast(levelFor(msg.err), errText(msg.err))
			return m, tea.Batch(cmd, m.loadLists())
		}
		m.form = NewSearchForm(m.service.Registry(), valuesFromRequest(msg.req), m.theme)
		m.focus = focusForm
		return m, m.form.Form().Init()

	case actionDoneMsg:
		cmds := []tea.Cmd{m.showToast(msg.level, msg.text)}
		if msg.reload {
			cmds = append(cmds, m.loadLists())
		}
		return m, tea.Batch(cmds...)

	case themeChangedMsg:
		if msg.err != nil {
			return m.withToast(toastError, msg.err.Error())
		}
		m.applyTheme(msg.theme)
		m.form = NewSearchForm(m.service.Registry(), m.form.Values(), m.theme)
		return m, m.form.Form().Init()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.focus == focusForm {
		return m.updateForm(msg)
	}
	return m, nil
}

// handleKey processes key presses.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		m.quitting = true
		return m, tea.Quit
	}

	if m.focus == focusForm {
		if key.Matches(msg, m.keys.LeaveForm) {
			m.focus = focusFavorites
			return m, nil
		}
		return m.updateForm(msg)
	}

	panel := m.focusedPanel()

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Focus):
		m.focus = (m.focus + 1) % 3
		return m, nil
	case key.Matches(msg, m.keys.Up):
		panel.up()
		return m, nil
	case key.Matches(msg, m.keys.Down):
		panel.down()
		return m, nil
	case key.Matches(msg, m.keys.Load):
		return m, m.withSelected(panel, m.load)
	case key.Matches(msg, m.keys.Run):
		return m, m.withSelected(panel, m.rerun)
	case key.Matches(msg, m.keys.Delete):
		return m, m.withSelected(panel, m.remove)
	case key.Matches(msg, m.keys.Clear):
		return m, m.clear(panel.kind, panel.title)
	case key.Matches(msg, m.keys.Save):
		cmd := m.saveFavorite()
		return m, cmd
	case key.Matches(msg, m.keys.Permission):
		return m, m.requestPermission()
	case key.Matches(msg, m.keys.Theme):
		return m, m.toggleTheme()
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		return m, nil
	}

	return m, nil
}

// updateForm routes a message to the form and submits it once completed.
func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.form.Form().Update(msg)
	f, ok := form.(*huh.Form)
	if !ok {
		return m, cmd
	}
	m.form.form = f

	switch f.State {
	case huh.StateCompleted:
		values := m.form.Values()
		m.form = NewSearchForm(m.service.Registry(), values, m.theme)
		submit := m.submit(values)
		return m, tea.Batch(m.form.Form().Init(), submit)
	case huh.StateAborted:
		m.form = NewSearchForm(m.service.Registry(), m.form.Values(), m.theme)
		m.focus = focusFavorites
		return m, m.form.Form().Init()
	}

	return m, cmd
}

// request validates form values into a search request.
func (m Model) request(values SearchFormValues) (search.Request, error) {
	req, err := m.service.Validate(values.Query, values.PostalCode, values.Radius)
	if err != nil {
		return search.Request{}, err
	}
	return req.WithProviders(values.ProviderIDs), nil
}

func (m *Model) submit(values SearchFormValues) tea.Cmd {
	req, err := m.request(values)
	if err != nil {
		return m.showToast(toastError, validationText(err))
	}

	ctx, svc := m.ctx, m.service
	return func() tea.Msg {
		res, err := svc.Search(ctx, req)
		return searchStartedMsg{res: res, err: err}
	}
}

func (m Model) handleSearchStarted(msg searchStartedMsg) (tea.Model, tea.Cmd) {
	switch {
	case errors.Is(msg.err, dispatch.ErrPermissionRequired):
		m.permission = permission.Blocked
		m.renderInstructions()
		return m.withToast(toastError, "Browser windows are blocked. Press p to allow them.")
	case errors.Is(msg.err, dispatch.ErrNoProvidersSelected):
		return m.withToast(toastError, "Pick at least one site to search.")
	case savedEntryError(msg.err):
		cmd := m.showToast(levelFor(msg.err), errText(msg.err))
		return m, tea.Batch(cmd, m.loadLists())
	case msg.err != nil:
		return m.withToast(toastError, msg.err.Error())
	}

	ctx, res := m.ctx, msg.res
	wait := func() tea.Msg {
		outcomes := res.Wait(ctx)
		return searchFinishedMsg{attempted: res.Attempted, opened: dispatch.Opened(outcomes)}
	}

	cmd := m.showToast(toastInfo, fmt.Sprintf("Opening %d sites...", res.Attempted))
	return m, tea.Batch(cmd, m.loadLists(), wait)
}

// withToast shows a toast and returns the updated model.
func (m Model) withToast(level toastLevel, text string) (tea.Model, tea.Cmd) {
	cmd := m.showToast(level, text)
	return m, cmd
}

func (m *Model) focusedPanel() *listPanel {
	if m.focus == focusRecent {
		return &m.recent
	}
	return &m.favorites
}

// withSelected calls fn with the entry under the panel cursor. The entry's
// key travels with the index so a list changed by another process is
// detected instead of acting on whatever now sits at that position.
func (m *Model) withSelected(panel *listPanel, fn func(kind history.Kind, index int, want search.Key) tea.Cmd) tea.Cmd {
	index, want, ok := panel.selected()
	if !ok {
		return nil
	}
	return fn(panel.kind, index, want)
}

func (m Model) load(kind history.Kind, index int, want search.Key) tea.Cmd {
	ctx, svc := m.ctx, m.service
	return func() tea.Msg {
		req, err := svc.LoadMatching(ctx, kind, index, want)
		return loadedMsg{req: req, err: err}
	}
}

func (m Model) rerun(kind history.Kind, index int, want search.Key) tea.Cmd {
	ctx, svc := m.ctx, m.service
	return func() tea.Msg {
		res, err := svc.RerunMatching(ctx, kind, index, want)
		return searchStartedMsg{res: res, err: err}
	}
}

func (m Model) remove(kind history.Kind, index int, want search.Key) tea.Cmd {
	ctx, svc := m.ctx, m.service
	return func() tea.Msg {
		if err := svc.RemoveMatching(ctx, kind, index, want); err != nil {
			return actionDoneMsg{text: errText(err), level: levelFor(err), reload: true}
		}
		return actionDoneMsg{text: "Removed", reload: true}
	}
}

func (m Model) clear(kind history.Kind, title string) tea.Cmd {
	ctx, svc := m.ctx, m.service
	return func() tea.Msg {
		if err := svc.Clear(ctx, kind); err != nil {
			return actionDoneMsg{text: errText(err), level: toastError}
		}
		return actionDoneMsg{text: "Cleared " + strings.ToLower(title), reload: true}
	}
}

func (m *Model) saveFavorite() tea.Cmd {
	req, err := m.request(m.form.Values())
	if err != nil {
		return m.showToast(toastError, validationText(err))
	}

	ctx, svc := m.ctx, m.service
	return func() tea.Msg {
		if err := svc.AddFavorite(ctx, req); err != nil {
			return actionDoneMsg{text: errText(err), level: levelFor(err)}
		}
		return actionDoneMsg{text: "Saved to favorites", reload: true}
	}
}

func (m Model) requestPermission() tea.Cmd {
	ctx, svc := m.ctx, m.service
	gesture := permission.NewGesture("key:p")
	return func() tea.Msg {
		return permissionMsg{state: svc.RequestPermission(ctx, gesture)}
	}
}

func (m Model) toggleTheme() tea.Cmd {
	ctx, svc := m.ctx, m.service
	return func() tea.Msg {
		theme, err := svc.ToggleTheme(ctx)
		return themeChangedMsg{theme: theme, err: err}
	}
}

func (m *Model) applyTheme(theme prefs.Theme) {
	m.theme = theme
	m.styles = styles.New(theme)

	muted := lipgloss.NewStyle().Foreground(m.styles.Palette.Muted)
	m.help.Styles.ShortKey = muted.Bold(true)
	m.help.Styles.ShortDesc = muted
	m.help.Styles.ShortSeparator = muted
	m.help.Styles.FullKey = muted.Bold(true)
	m.help.Styles.FullDesc = muted
	m.help.Styles.FullSeparator = muted

	m.renderInstructions()
}

// renderInstructions caches the permission guidance for the current theme
// and width.
func (m *Model) renderInstructions() {
	if m.permission != permission.Blocked {
		m.instructions = ""
		return
	}

	md := m.service.Instructions()
	out, err := styles.RenderMarkdown(md, m.theme, m.width)
	if err != nil {
		out = md
	}
	m.instructions = strings.TrimSpace(out)
}

// validationText flattens a validation error into one line.
func validationText(err error) string {
	var ve *search.ValidationError
	if !errors.As(err, &ve) {
		return err.Error()
	}

	msgs := make([]string, 0, len(ve.Fields))
	for _, fe := range ve.Fields {
		msgs = append(msgs, fe.Err.Error())
	}
	return strings.Join(msgs, "; ")
}

func errText(err error) string {
	switch {
	case errors.Is(err, history.ErrDuplicateFavorite):
		return "Already in favorites"
	case errors.Is(err, history.ErrIndexOutOfRange):
		return "That entry no longer exists"
	case errors.Is(err, history.ErrListChanged):
		return "The list changed, refreshed it"
	case errors.Is(err, search.ErrValidation):
		return "Saved search is invalid: " + validationText(err)
	default:
		return err.Error()
	}
}

// savedEntryError reports whether err came from acting on a saved entry that
// is gone, moved or no longer valid.
func savedEntryError(err error) bool {
	return errors.Is(err, history.ErrIndexOutOfRange) ||
		errors.Is(err, history.ErrListChanged) ||
		errors.Is(err, search.ErrValidation)
}

func levelFor(err error) toastLevel {
	switch {
	case errors.Is(err, history.ErrDuplicateFavorite),
		errors.Is(err, history.ErrIndexOutOfRange),
		errors.Is(err, history.ErrListChanged):
		return toastWarn
	default:
		return toastError
	}
}
