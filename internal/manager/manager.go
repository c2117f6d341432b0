package manager

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/idilsaglam/items/internal/model"
)

// Client is the remote item collection.
type Client interface {
	List(ctx context.Context) ([]model.Item, error)
	Create(ctx context.Context, f model.Fields) (model.Item, error)
	Update(ctx context.Context, id model.ID, f model.Fields) (model.Item, error)
	Delete(ctx context.Context, id model.ID) error
}

// Confirmer asks the user to confirm a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) bool

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) bool { return f(ctx, prompt) }

// AlwaysConfirm approves every prompt.
var AlwaysConfirm = ConfirmFunc(func(context.Context, string) bool { return true })

// DeletePrompt is the question asked before deleting an item.
const DeletePrompt = "Delete this item?"

// Manager runs the transitions against a Client, one call at a time.
// It is what the CLI uses; the TUI drives the same transitions through
// Bubble Tea commands instead.
type Manager struct {
	client  Client
	notify  Notifier
	confirm Confirmer
	log     *slog.Logger
	state   State
}

// Option configures a Manager.
type Option func(*Manager)

func WithNotifier(n Notifier) Option   { return func(m *Manager) { m.notify = n } }
func WithConfirmer(c Confirmer) Option { return func(m *Manager) { m.confirm = c } }
func WithLogger(l *slog.Logger) Option { return func(m *Manager) { m.log = l } }

// NewManager returns a Manager in the mount state. It does not fetch;
// call Refresh for that.
func NewManager(c Client, opts ...Option) *Manager {
	m := &Manager{
		client:  c,
		notify:  NotifierFunc(func(Notice) {}),
		confirm: AlwaysConfirm,
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		state:   New(),
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// State returns a snapshot of the current state.
func (m *Manager) State() State { return m.state }

func (m *Manager) dispatch(n Notice) Notice {
	if !n.Empty() {
		m.notify.Notify(n)
	}
	return n
}

// Refresh replaces the collection with the server's list.
func (m *Manager) Refresh(ctx context.Context) Notice {
	s, ok := m.state.BeginRefresh()
	if !ok {
		return Notice{}
	}
	m.state = s
	items, err := m.client.List(ctx)
	if err != nil {
		m.log.Warn("list items", "err", err)
	}
	s, n := m.state.FinishRefresh(items, err)
	m.state = s
	return m.dispatch(n)
}

// UpdateField merges one form field.
func (m *Manager) UpdateField(name Field, value any) error {
	s, err := m.state.UpdateField(name, value)
	if err != nil {
		return err
	}
	m.state = s
	return nil
}

// BeginEdit switches the form to editing item.
func (m *Manager) BeginEdit(item model.Item) { m.state = m.state.BeginEdit(item) }

// CancelEdit resets the form to create mode.
func (m *Manager) CancelEdit() { m.state = m.state.CancelEdit() }

// Submit creates or updates depending on the mode, then refreshes on
// success.
func (m *Manager) Submit(ctx context.Context) Notice {
	s, req, ok := m.state.BeginSubmit()
	if !ok {
		return Notice{}
	}
	m.state = s
	err := Send(ctx, m.client, req)
	if err != nil {
		m.log.Warn("save item", "err", err)
	}
	s, n, refresh := m.state.FinishSubmit(req, err)
	m.state = s
	m.dispatch(n)
	if refresh {
		m.Refresh(ctx)
	}
	return n
}

// Delete asks for confirmation and removes the item with id. A declined
// prompt makes no call and returns the zero Notice.
func (m *Manager) Delete(ctx context.Context, id model.ID) Notice {
	if !m.confirm.Confirm(ctx, DeletePrompt) {
		return Notice{}
	}
	s, ok := m.state.BeginDelete(id)
	if !ok {
		return Notice{}
	}
	m.state = s
	err := m.client.Delete(ctx, id)
	if err != nil {
		m.log.Warn("delete item", "id", id, "err", err)
	}
	s, n := m.state.FinishDelete(id, err)
	m.state = s
	return m.dispatch(n)
}

// Send performs req against c: Create for Creating, Update for Editing.
func Send(ctx context.Context, c Client, req Request) error {
	switch mode := req.Mode.(type) {
	case Editing:
		_, err := c.Update(ctx, mode.ID, req.Fields)
		return err
	case Creating, nil:
		_, err := c.Create(ctx, req.Fields)
		return err
	default:
		return fmt.Errorf("unknown mode %T", mode)
	}
}
