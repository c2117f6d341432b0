// Package tui is the interactive item screen: a form on top, the item
// table below. API calls run as tea.Cmds and come back as messages that
// feed the manager transitions.
package tui

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/items/internal/manager"
	"github.com/idilsaglam/items/internal/model"
)

// ToastTTL is how long a toast stays on screen.
const ToastTTL = 3 * time.Second

type focus int

const (
	focusTitle focus = iota
	focusDescription
	focusCompleted
	focusTable
	focusCount
)

// --- Tea Messages ---

type itemsLoadedMsg struct {
	items []model.Item
	err   error
}

type savedMsg struct {
	req manager.Request
	err error
}

type deletedMsg struct {
	id  model.ID
	err error
}

type toastExpiredMsg struct{ id int }

type toast struct {
	id     int
	notice manager.Notice
}

// App is the Bubble Tea model of the item screen.
type App struct {
	ctx    context.Context
	client manager.Client
	log    *slog.Logger
	state  manager.State
	keys   KeyMap

	focus   focus
	title   textinput.Model
	desc    textarea.Model
	table   table.Model
	spinner spinner.Model
	help    help.Model

	confirm   *model.Item // delete awaiting y/n
	toasts    []toast
	nextToast int

	width, height int
}

// NewApp returns the screen in its mount state with the initial refresh
// already marked as loading; Init issues the list call.
func NewApp(ctx context.Context, client manager.Client, log *slog.Logger) App {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Enter item title"
	ti.CharLimit = 200
	ti.Focus()

	ta := textarea.New()
	ta.Placeholder = "Enter item description"
	ta.ShowLineNumbers = false
	ta.CharLimit = 2000
	ta.SetHeight(3)

	km := table.DefaultKeyMap()
	// d and u belong to delete and nothing, not half-page scrolling
	km.HalfPageDown.SetKeys("ctrl+d")
	km.HalfPageUp.SetKeys("ctrl+u")
	tbl := table.New(
		table.WithColumns(columns(80)),
		table.WithKeyMap(km),
		table.WithHeight(8),
	)

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))

	a := App{
		ctx:     ctx,
		client:  client,
		log:     log,
		state:   manager.New(),
		keys:    DefaultKeyMap(),
		focus:   focusTitle,
		title:   ti,
		desc:    ta,
		table:   tbl,
		spinner: sp,
		help:    help.New(),
		width:   80,
		height:  24,
	}
	a.applyTheme()
	a.state, _ = a.state.BeginRefresh()
	a.relayout()
	return a
}

// State exposes the manager state, mainly for tests.
func (a App) State() manager.State { return a.state }

func (a App) Init() tea.Cmd {
	return tea.Batch(a.listCmd(), a.spinner.Tick, textinput.Blink)
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.relayout()
		return a, nil

	case itemsLoadedMsg:
		if msg.err != nil {
			a.log.Warn("list items", "err", msg.err)
		}
		var n manager.Notice
		a.state, n = a.state.FinishRefresh(msg.items, msg.err)
		a.syncTable()
		return a, a.toast(n)

	case savedMsg:
		if msg.err != nil {
			a.log.Warn("save item", "err", msg.err)
		}
		s, n, refresh := a.state.FinishSubmit(msg.req, msg.err)
		a.state = s
		cmds := []tea.Cmd{a.toast(n)}
		if refresh {
			a.syncForm()
			cmds = append(cmds, a.startRefresh())
		}
		return a, tea.Batch(cmds...)

	case deletedMsg:
		if msg.err != nil {
			a.log.Warn("delete item", "id", msg.id, "err", msg.err)
		}
		var n manager.Notice
		a.state, n = a.state.FinishDelete(msg.id, msg.err)
		a.syncTable()
		return a, a.toast(n)

	case toastExpiredMsg:
		for i, t := range a.toasts {
			if t.id == msg.id {
				a.toasts = append(a.toasts[:i:i], a.toasts[i+1:]...)
				break
			}
		}
		return a, nil

	case spinner.TickMsg:
		if !a.state.Loading {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	return a, a.updateFocused(msg)
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, a.keys.Quit) {
		return a, tea.Quit
	}

	if a.confirm != nil {
		switch {
		case key.Matches(msg, a.keys.Confirm):
			id := a.confirm.ID
			a.confirm = nil
			s, ok := a.state.BeginDelete(id)
			if !ok {
				return a, nil
			}
			a.state = s
			return a, a.deleteCmd(id)
		case key.Matches(msg, a.keys.Decline):
			a.confirm = nil
		}
		return a, nil
	}

	switch {
	case key.Matches(msg, a.keys.Refresh):
		return a, a.startRefresh()
	case key.Matches(msg, a.keys.Submit):
		return a, a.submit()
	case key.Matches(msg, a.keys.NextField):
		return a, a.setFocus((a.focus + 1) % focusCount)
	case key.Matches(msg, a.keys.PrevField):
		return a, a.setFocus((a.focus + focusCount - 1) % focusCount)
	case key.Matches(msg, a.keys.Cancel):
		if a.state.CanCancel() {
			a.state = a.state.CancelEdit()
			a.syncForm()
			return a, nil
		}
		if a.focus != focusTable {
			return a, a.setFocus(focusTable)
		}
		return a, nil
	}

	switch a.focus {
	case focusTable:
		switch {
		case key.Matches(msg, a.keys.QuitList):
			return a, tea.Quit
		case key.Matches(msg, a.keys.Edit):
			return a, a.beginEdit()
		case key.Matches(msg, a.keys.Delete):
			a.askDelete()
			return a, nil
		}
	case focusCompleted:
		switch {
		case key.Matches(msg, a.keys.Toggle):
			a.state, _ = a.state.UpdateField(manager.FieldCompleted, !a.state.Form.Completed)
			return a, nil
		case key.Matches(msg, a.keys.Enter):
			return a, a.submit()
		}
		return a, nil
	case focusTitle:
		if key.Matches(msg, a.keys.Enter) {
			return a, a.submit()
		}
	}
	return a, a.updateFocused(msg)
}

// updateFocused forwards msg to the focused widget and copies text edits
// into the form state.
func (a *App) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.focus {
	case focusTitle:
		a.title, cmd = a.title.Update(msg)
		a.state, _ = a.state.UpdateField(manager.FieldTitle, a.title.Value())
	case focusDescription:
		a.desc, cmd = a.desc.Update(msg)
		a.state, _ = a.state.UpdateField(manager.FieldDescription, a.desc.Value())
	case focusTable:
		a.table, cmd = a.table.Update(msg)
	}
	return cmd
}

func (a *App) setFocus(f focus) tea.Cmd {
	a.focus = f
	a.title.Blur()
	a.desc.Blur()
	a.table.Blur()
	switch f {
	case focusTitle:
		return a.title.Focus()
	case focusDescription:
		return a.desc.Focus()
	case focusTable:
		a.table.Focus()
	}
	return nil
}

func (a *App) startRefresh() tea.Cmd {
	s, ok := a.state.BeginRefresh()
	if !ok {
		return nil
	}
	a.state = s
	return tea.Batch(a.listCmd(), a.spinner.Tick)
}

func (a *App) submit() tea.Cmd {
	s, req, ok := a.state.BeginSubmit()
	if !ok {
		return nil
	}
	a.state = s
	return a.sendCmd(req)
}

func (a *App) selected() (model.Item, bool) {
	i := a.table.Cursor()
	if i < 0 || i >= len(a.state.Items) {
		return model.Item{}, false
	}
	return a.state.Items[i], true
}

// beginEdit loads the selected row into the form and jumps to its top.
func (a *App) beginEdit() tea.Cmd {
	it, ok := a.selected()
	if !ok {
		return nil
	}
	a.state = a.state.BeginEdit(it)
	a.syncForm()
	return a.setFocus(focusTitle)
}

func (a *App) askDelete() {
	it, ok := a.selected()
	if !ok || a.state.IsDeleting(it.ID) {
		return
	}
	a.confirm = &it
}

func (a *App) toast(n manager.Notice) tea.Cmd {
	if n.Empty() {
		return nil
	}
	a.nextToast++
	id := a.nextToast
	a.toasts = append(a.toasts, toast{id: id, notice: n})
	return tea.Tick(ToastTTL, func(time.Time) tea.Msg { return toastExpiredMsg{id: id} })
}

// syncForm copies the form state into the input widgets.
func (a *App) syncForm() {
	a.title.SetValue(a.state.Form.Title)
	a.title.CursorEnd()
	a.desc.SetValue(a.state.Form.Description)
}

func (a *App) syncTable() {
	rows := make([]table.Row, 0, len(a.state.Items))
	for _, it := range a.state.Items {
		rows = append(rows, itemRow(it))
	}
	a.table.SetRows(rows)
	if n := len(rows); n > 0 && a.table.Cursor() >= n {
		a.table.SetCursor(n - 1)
	}
}

// --- commands ---

func (a App) listCmd() tea.Cmd {
	ctx, c := a.ctx, a.client
	return func() tea.Msg {
		items, err := c.List(ctx)
		return itemsLoadedMsg{items: items, err: err}
	}
}

func (a App) sendCmd(req manager.Request) tea.Cmd {
	ctx, c := a.ctx, a.client
	return func() tea.Msg {
		return savedMsg{req: req, err: manager.Send(ctx, c, req)}
	}
}

func (a App) deleteCmd(id model.ID) tea.Cmd {
	ctx, c := a.ctx, a.client
	return func() tea.Msg {
		return deletedMsg{id: id, err: c.Delete(ctx, id)}
	}
}

// Run starts the full-screen program and blocks until the user quits.
func Run(ctx context.Context, client manager.Client, log *slog.Logger) error {
	p := tea.NewProgram(NewApp(ctx, client, log), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
