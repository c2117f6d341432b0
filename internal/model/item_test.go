package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDAcceptsNumbersAndStrings(t *testing.T) {
	var items []Item
	err := json.Unmarshal([]byte(`[
		{"id": 7, "title": "A", "description": "B", "completed": true},
		{"id": "b1f3", "title": "C", "description": "", "completed": false}
	]`), &items)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, ID("7"), items[0].ID)
	assert.Equal(t, ID("b1f3"), items[1].ID)
	assert.True(t, items[0].Completed)
}

func TestIDMarshalKeepsNumericForm(t *testing.T) {
	b, err := json.Marshal(Item{ID: "42", Title: "x"})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"id":42`)

	b, err = json.Marshal(Item{ID: "abc", Title: "x"})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"id":"abc"`)
}

func TestNullIDIsEmpty(t *testing.T) {
	var it Item
	require.NoError(t, json.Unmarshal([]byte(`{"id": null, "title": "x"}`), &it))
	assert.Equal(t, ID(""), it.ID)
}

func TestFieldsCopy(t *testing.T) {
	it := Item{ID: "1", Title: "A", Description: "B", Completed: true}
	assert.Equal(t, Fields{Title: "A", Description: "B", Completed: true}, it.Fields())
	assert.True(t, Fields{}.IsZero())
	assert.False(t, it.Fields().IsZero())
}
