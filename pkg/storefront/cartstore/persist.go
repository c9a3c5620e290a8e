package cartstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// StorageKey is the fixed key the cart is persisted under.
const StorageKey = "antiqueShopCart"

// FileStore persists the cart as a JSON blob in a file named after
// StorageKey, the client-side analogue of browser local storage.
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed persister rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{path: filepath.Join(dir, StorageKey+".json")}
}

// Load reads the persisted line list. A missing file yields an empty cart.
func (f *FileStore) Load() ([]Line, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read cart file: %w", err)
	}
	var lines []Line
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, fmt.Errorf("failed to decode cart file: %w", err)
	}
	return lines, nil
}

// Save writes the full line list, replacing any previous state.
func (f *FileStore) Save(lines []Line) error {
	if lines == nil {
		lines = []Line{}
	}
	data, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	if err := os.WriteFile(f.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write cart file: %w", err)
	}
	return nil
}
