// Package jsonfile reads and writes item snapshots as indented JSON; the
// export and import subcommands use it. Single file, human-readable,
// portable.
package jsonfile

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/idilsaglam/items/internal/model"
)

// Load reads items from path. A missing file is an error wrapping
// os.ErrNotExist.
func Load(path string) ([]model.Item, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	var items []model.Item
	if err := json.Unmarshal(b, &items); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	if items == nil {
		items = []model.Item{}
	}
	return items, nil
}

// Save writes items to path, replacing it.
func Save(path string, items []model.Item) error {
	if items == nil {
		items = []model.Item{}
	}
	b, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	if err := os.WriteFile(path, append(b, '\n'), 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}
