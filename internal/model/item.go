package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ID is the server-assigned identifier of an item. It is opaque to the
// client: Django hands out integers, other backends use strings, and both
// round-trip unchanged.
type ID string

func (id ID) String() string { return string(id) }

func (id ID) MarshalJSON() ([]byte, error) {
	if n, err := strconv.ParseInt(string(id), 10, 64); err == nil && strconv.FormatInt(n, 10) == string(id) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("id: %w", err)
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// Item is the domain model for an entry of the remote collection.
type Item struct {
	ID          ID     `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

// Fields returns the editable part of the item.
func (it Item) Fields() Fields {
	return Fields{Title: it.Title, Description: it.Description, Completed: it.Completed}
}

// Fields is the editable draft of an item; it doubles as the request body
// for create and update.
type Fields struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

func (f Fields) IsZero() bool { return f == Fields{} }
