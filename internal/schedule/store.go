package schedule

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Load reads and parses a schedule file from path.
// A missing file loads as an empty document.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Document{Schedules: []Record{}}, nil
		}
		return nil, fmt.Errorf("read schedule file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a schedule document. Empty input is an empty document.
func Parse(data []byte) (*Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return &Document{Schedules: []Record{}}, nil
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse schedule file: %w", err)
	}
	if doc.Schedules == nil {
		doc.Schedules = []Record{}
	}
	return &doc, nil
}

// Marshal encodes the document with 2-space indentation and a trailing newline.
func (d *Document) Marshal() ([]byte, error) {
	out := Document{Schedules: []Record{}}
	if d != nil && d.Schedules != nil {
		out.Schedules = d.Schedules
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schedule file: %w", err)
	}

	// Add trailing newline
	return append(data, '\n'), nil
}

// Save writes the document to path atomically: the data goes to a temp
// file in the same directory which is then renamed over path.
func (d *Document) Save(path string) error {
	data, err := d.Marshal()
	if err != nil {
		return err
	}
	return WriteFileAtomic(path, data, 0o644)
}

// WriteFileAtomic writes data to a temp file next to path and renames it into place.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create schedule dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("write schedule file: %w", err)
	}
	return nil
}
