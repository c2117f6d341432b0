package manager

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/items/internal/manager/managertest"
	"github.com/idilsaglam/items/internal/model"
)

type recorder struct{ got []Notice }

func (r *recorder) Notify(n Notice) { r.got = append(r.got, n) }

func TestCreateThenRefreshShowsItem(t *testing.T) {
	fc := managertest.NewFakeClient()
	rec := &recorder{}
	m := NewManager(fc, WithNotifier(rec))

	require.NoError(t, m.UpdateField(FieldTitle, "Buy milk"))
	n := m.Submit(context.Background())
	assert.Equal(t, Success("Item created."), n)

	calls := fc.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, managertest.Call{Op: "create", Fields: model.Fields{Title: "Buy milk"}}, calls[0])
	assert.Equal(t, "list", calls[1].Op)

	s := m.State()
	assert.True(t, s.Form.IsZero())
	assert.Equal(t, Creating{}, s.Mode)
	require.Len(t, s.Items, 1)
	assert.Equal(t, "Buy milk", s.Items[0].Title)
	assert.NotEmpty(t, s.Items[0].ID)
	assert.Equal(t, []Notice{Success("Item created.")}, rec.got)
}

func TestEditWithoutChangesCallsUpdateNeverCreate(t *testing.T) {
	fc := managertest.NewFakeClient(
		model.Item{ID: "1", Title: "one"},
		model.Item{ID: "2", Title: "two", Description: "d", Completed: true},
	)
	m := NewManager(fc)
	m.Refresh(context.Background())

	for _, x := range m.State().Items {
		before := fc.CallCount("create")
		m.BeginEdit(x)
		m.Submit(context.Background())
		assert.Equal(t, before, fc.CallCount("create"))

		var last managertest.Call
		for _, c := range fc.Calls() {
			if c.Op == "update" {
				last = c
			}
		}
		assert.Equal(t, x.ID, last.ID)
		assert.Equal(t, x.Fields(), last.Fields)
	}
}

func TestEditScenario(t *testing.T) {
	fc := managertest.NewFakeClient(model.Item{ID: "7", Title: "A", Description: "B"})
	m := NewManager(fc)

	m.BeginEdit(model.Item{ID: "7", Title: "A", Description: "B", Completed: false})
	require.NoError(t, m.UpdateField(FieldCompleted, true))
	n := m.Submit(context.Background())
	assert.Equal(t, Success("Item updated."), n)

	assert.Equal(t, 1, fc.CallCount("update"))
	assert.Equal(t, managertest.Call{Op: "update", ID: "7", Fields: model.Fields{Title: "A", Description: "B", Completed: true}}, fc.Calls()[0])
	assert.Equal(t, 0, fc.CallCount("create"))
}

func TestSubmitFailureLeavesFormForRetry(t *testing.T) {
	fc := managertest.NewFakeClient()
	fc.CreateErr = errors.New("bad request")
	m := NewManager(fc)
	require.NoError(t, m.UpdateField(FieldTitle, "x"))

	n := m.Submit(context.Background())
	assert.Equal(t, Error("Save failed."), n)
	assert.Equal(t, "x", m.State().Form.Title)
	assert.Equal(t, 0, fc.CallCount("list"))
	assert.False(t, m.State().Saving)

	fc.CreateErr = nil
	n = m.Submit(context.Background())
	assert.Equal(t, LevelSuccess, n.Level)
	assert.Len(t, fc.Items(), 1)
}

func TestDeclinedDeleteDoesNothing(t *testing.T) {
	fc := managertest.NewFakeClient(model.Item{ID: "1", Title: "a"})
	m := NewManager(fc, WithConfirmer(ConfirmFunc(func(context.Context, string) bool { return false })))
	m.Refresh(context.Background())
	before := m.State()
	callsBefore := len(fc.Calls())

	n := m.Delete(context.Background(), "1")
	assert.True(t, n.Empty())
	assert.Equal(t, callsBefore, len(fc.Calls()))
	assert.Equal(t, before, m.State())
}

func TestDeleteRemovesWithoutRefetch(t *testing.T) {
	fc := managertest.NewFakeClient(model.Item{ID: "1", Title: "a"}, model.Item{ID: "2", Title: "b"})
	var prompts []string
	m := NewManager(fc, WithConfirmer(ConfirmFunc(func(_ context.Context, p string) bool {
		prompts = append(prompts, p)
		return true
	})))
	m.Refresh(context.Background())

	n := m.Delete(context.Background(), "1")
	assert.Equal(t, Success(StatusDeleted), n)
	assert.Equal(t, []string{DeletePrompt}, prompts)
	assert.Equal(t, 1, fc.CallCount("list"))
	_, found := m.State().Find("1")
	assert.False(t, found)
	assert.Equal(t, StatusDeleted, m.State().Status)
}

func TestDeleteFailureKeepsItem(t *testing.T) {
	fc := managertest.NewFakeClient(model.Item{ID: "1", Title: "a"})
	fc.DeleteErr = errors.New("boom")
	m := NewManager(fc)
	m.Refresh(context.Background())

	n := m.Delete(context.Background(), "1")
	assert.True(t, n.Failed())
	assert.Len(t, m.State().Items, 1)
	assert.Equal(t, StatusDeleteFailed, m.State().Status)
}

func TestListFailureKeepsPriorCollection(t *testing.T) {
	fc := managertest.NewFakeClient(model.Item{ID: "1", Title: "a"})
	rec := &recorder{}
	m := NewManager(fc, WithNotifier(rec))
	m.Refresh(context.Background())
	prior := m.State().Items

	fc.ListErr = errors.New("offline")
	n := m.Refresh(context.Background())
	assert.True(t, n.Failed())
	assert.Equal(t, prior, m.State().Items)
	assert.False(t, m.State().Loading)
	assert.Equal(t, StatusLoadFailed, m.State().Status)
	require.Len(t, rec.got, 1)
	assert.Equal(t, LevelWarn, rec.got[0].Level)
}

func TestSendPicksExactlyOneCall(t *testing.T) {
	fc := managertest.NewFakeClient(model.Item{ID: "9", Title: "t"})
	require.NoError(t, Send(context.Background(), fc, Request{Mode: Creating{}, Fields: model.Fields{Title: "n"}}))
	require.NoError(t, Send(context.Background(), fc, Request{Mode: Editing{ID: "9"}, Fields: model.Fields{Title: "u"}}))
	assert.Equal(t, 1, fc.CallCount("create"))
	assert.Equal(t, 1, fc.CallCount("update"))
}
