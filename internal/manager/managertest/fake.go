// Package managertest provides an in-memory manager.Client for tests.
package managertest

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/idilsaglam/items/internal/model"
)

// ErrNotFound is returned for an unknown id.
var ErrNotFound = errors.New("not found")

// Call records one client call.
type Call struct {
	Op     string // list, create, update, delete
	ID     model.ID
	Fields model.Fields
}

// FakeClient is an in-memory item collection that records every call.
type FakeClient struct {
	mu     sync.Mutex
	items  []model.Item
	nextID int
	calls  []Call

	// Error injection
	ListErr   error
	CreateErr error
	UpdateErr error
	DeleteErr error
}

// NewFakeClient returns a FakeClient holding items.
func NewFakeClient(items ...model.Item) *FakeClient {
	f := &FakeClient{nextID: 1}
	for _, it := range items {
		f.items = append(f.items, it)
		if n, err := strconv.Atoi(string(it.ID)); err == nil && n >= f.nextID {
			f.nextID = n + 1
		}
	}
	return f
}

// Calls returns the recorded calls.
func (f *FakeClient) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallCount returns how many calls of op were made.
func (f *FakeClient) CallCount(op string) int {
	n := 0
	for _, c := range f.Calls() {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Items returns the server-side collection.
func (f *FakeClient) Items() []model.Item {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Item, len(f.items))
	copy(out, f.items)
	return out
}

func (f *FakeClient) record(c Call) {
	f.mu.Lock()
	f.calls = append(f.calls, c)
	f.mu.Unlock()
}

func (f *FakeClient) List(ctx context.Context) ([]model.Item, error) {
	f.record(Call{Op: "list"})
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	return f.Items(), nil
}

func (f *FakeClient) Create(ctx context.Context, fields model.Fields) (model.Item, error) {
	f.record(Call{Op: "create", Fields: fields})
	if f.CreateErr != nil {
		return model.Item{}, f.CreateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	it := model.Item{
		ID:          model.ID(strconv.Itoa(f.nextID)),
		Title:       fields.Title,
		Description: fields.Description,
		Completed:   fields.Completed,
	}
	f.nextID++
	f.items = append(f.items, it)
	return it, nil
}

func (f *FakeClient) Update(ctx context.Context, id model.ID, fields model.Fields) (model.Item, error) {
	f.record(Call{Op: "update", ID: id, Fields: fields})
	if f.UpdateErr != nil {
		return model.Item{}, f.UpdateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, it := range f.items {
		if it.ID == id {
			f.items[i] = model.Item{ID: id, Title: fields.Title, Description: fields.Description, Completed: fields.Completed}
			return f.items[i], nil
		}
	}
	return model.Item{}, ErrNotFound
}

func (f *FakeClient) Delete(ctx context.Context, id model.ID) error {
	f.record(Call{Op: "delete", ID: id})
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, it := range f.items {
		if it.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
