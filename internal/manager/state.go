// Package manager owns the item form, the fetched collection and the
// flags around them. Transitions are pure: each takes a State and returns
// a new one, plus the Notice a UI should show. Nothing in here talks to
// the terminal.
package manager

import (
	"fmt"
	"slices"

	"github.com/idilsaglam/items/internal/model"
)

// Mode says what a submit does: create a new item or update an existing one.
type Mode interface{ isMode() }

// Creating is the default mode; submit creates.
type Creating struct{}

// Editing targets the item with ID; submit updates it.
type Editing struct{ ID model.ID }

func (Creating) isMode() {}
func (Editing) isMode()  {}

// Field names a form field accepted by UpdateField.
type Field string

const (
	FieldTitle       Field = "title"
	FieldDescription Field = "description"
	FieldCompleted   Field = "completed"
)

// State is the whole item-manager state.
type State struct {
	Items    []model.Item
	Form     model.Fields
	Mode     Mode
	Loading  bool
	Saving   bool
	Deleting []model.ID // deletes in flight
	Status   string     // inline message under the form
}

// Status texts.
const (
	StatusLoadFailed   = "Failed to load items."
	StatusDeleted      = "Item deleted."
	StatusDeleteFailed = "Delete failed."
)

// New returns the state at mount: empty list, empty form, create mode.
func New() State {
	return State{Items: []model.Item{}, Mode: Creating{}}
}

// EditingID returns the id being edited, if any.
func (s State) EditingID() (model.ID, bool) {
	if e, ok := s.Mode.(Editing); ok {
		return e.ID, true
	}
	return "", false
}

// UpdateField merges a single field into the form.
func (s State) UpdateField(name Field, value any) (State, error) {
	switch name {
	case FieldTitle, FieldDescription:
		v, ok := value.(string)
		if !ok {
			return s, fmt.Errorf("field %s: want string, got %T", name, value)
		}
		if name == FieldTitle {
			s.Form.Title = v
		} else {
			s.Form.Description = v
		}
	case FieldCompleted:
		v, ok := value.(bool)
		if !ok {
			return s, fmt.Errorf("field %s: want bool, got %T", name, value)
		}
		s.Form.Completed = v
	default:
		return s, fmt.Errorf("unknown field %q", name)
	}
	return s, nil
}

// BeginEdit loads item into the form and switches to update mode.
func (s State) BeginEdit(item model.Item) State {
	s.Mode = Editing{ID: item.ID}
	s.Form = item.Fields()
	return s
}

// CancelEdit goes back to create mode with an empty form.
func (s State) CancelEdit() State {
	s.Mode = Creating{}
	s.Form = model.Fields{}
	return s
}

// BeginRefresh marks a list call as outstanding. It reports false, and
// changes nothing, when one already is.
func (s State) BeginRefresh() (State, bool) {
	if s.Loading {
		return s, false
	}
	s.Loading = true
	return s, true
}

// FinishRefresh applies the result of a list call.
func (s State) FinishRefresh(items []model.Item, err error) (State, Notice) {
	s.Loading = false
	if err != nil {
		s.Status = StatusLoadFailed
		return s, Warn(StatusLoadFailed)
	}
	if items == nil {
		items = []model.Item{}
	}
	s.Items = items
	return s, Notice{}
}

// Request is what a submit sends: exactly one of create or update.
type Request struct {
	Mode   Mode
	Fields model.Fields
}

// BeginSubmit snapshots the form into a Request. It reports false while a
// previous submit is still in flight.
func (s State) BeginSubmit() (State, Request, bool) {
	if s.Saving {
		return s, Request{}, false
	}
	mode := s.Mode
	if mode == nil {
		mode = Creating{}
	}
	s.Saving = true
	return s, Request{Mode: mode, Fields: s.Form}, true
}

// FinishSubmit applies the outcome of a submit. The returned bool asks the
// caller to refresh the list.
func (s State) FinishSubmit(req Request, err error) (State, Notice, bool) {
	s.Saving = false
	if err != nil {
		return s, Error("Save failed."), false
	}
	var n Notice
	switch req.Mode.(type) {
	case Editing:
		n = Success("Item updated.")
	case Creating, nil:
		n = Success("Item created.")
	}
	s = s.CancelEdit()
	return s, n, true
}

// IsDeleting reports whether a delete of id is in flight.
func (s State) IsDeleting(id model.ID) bool {
	return slices.Contains(s.Deleting, id)
}

// BeginDelete marks a delete of id as in flight. Call it only after the
// user confirmed.
func (s State) BeginDelete(id model.ID) (State, bool) {
	if s.IsDeleting(id) {
		return s, false
	}
	s.Deleting = append(slices.Clone(s.Deleting), id)
	return s, true
}

// FinishDelete applies the outcome of a delete. On success the item is
// dropped locally; no refetch is needed.
func (s State) FinishDelete(id model.ID, err error) (State, Notice) {
	s.Deleting = slices.DeleteFunc(slices.Clone(s.Deleting), func(d model.ID) bool { return d == id })
	if err != nil {
		s.Status = StatusDeleteFailed
		return s, Error(StatusDeleteFailed)
	}
	s.Status = StatusDeleted
	s.Items = slices.DeleteFunc(slices.Clone(s.Items), func(it model.Item) bool { return it.ID == id })
	return s, Success(StatusDeleted)
}

// Find returns the item with id from the collection.
func (s State) Find(id model.ID) (model.Item, bool) {
	for _, it := range s.Items {
		if it.ID == id {
			return it, true
		}
	}
	return model.Item{}, false
}

// SubmitLabel is the submit button text for the current mode.
func (s State) SubmitLabel() string {
	switch s.Mode.(type) {
	case Editing:
		return "Update"
	default:
		return "Create"
	}
}

// CanCancel reports whether the cancel control is shown.
func (s State) CanCancel() bool {
	_, ok := s.Mode.(Editing)
	return ok
}

// ShowEmpty reports whether the "no items" indicator is shown.
func (s State) ShowEmpty() bool { return len(s.Items) == 0 && !s.Loading }

// Counts returns completed and pending totals of the collection.
func (s State) Counts() (done, pending int) {
	for _, it := range s.Items {
		if it.Completed {
			done++
		} else {
			pending++
		}
	}
	return
}
