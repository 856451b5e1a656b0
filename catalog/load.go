package catalog

import (
	"encoding/json"
	"fmt"
	"os"
)

// Load reads a JSON snapshot from disk.
func Load(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes a JSON array of entries.
func Parse(data []byte) ([]Entry, error) {
	if len(data) == 0 {
		return []Entry{}, nil
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing catalog JSON: %w", err)
	}
	if entries == nil {
		return []Entry{}, nil
	}
	return entries, nil
}
