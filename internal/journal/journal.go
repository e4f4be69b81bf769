// Package journal records completed publishes in a JSON file under the
// working copy, one entry per run.
package journal

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

const (
	dirName  = ".gitclerk"
	FileName = "journal.json"

	SchemaVersion = "1.0"
)

// Entry is one recorded publish.
type Entry struct {
	RunID   string    `json:"run_id"`
	Time    time.Time `json:"time"`
	Branch  string    `json:"branch"`
	Commit  string    `json:"commit"`
	Message string    `json:"message"`
	Files   []string  `json:"files"`
	Pushed  bool      `json:"pushed"`
}

// Journal is the on-disk shape of the publish record.
type Journal struct {
	SchemaVersion string  `json:"schema_version"`
	Entries       []Entry `json:"entries"`
}

// NewEntry stamps a publish record with a fresh run ID and the current time.
func NewEntry(branch, commit, message string, files []string, pushed bool) Entry {
	return Entry{
		RunID:   uuid.New().String(),
		Time:    time.Now().UTC(),
		Branch:  branch,
		Commit:  commit,
		Message: message,
		Files:   files,
		Pushed:  pushed,
	}
}

// Path returns the journal location for a working copy root.
func Path(root string) string {
	return filepath.Join(root, dirName, FileName)
}

// Load reads the journal for root. A missing file yields an empty journal,
// not an error.
func Load(root string) (*Journal, error) {
	data, err := os.ReadFile(Path(root))
	if errors.Is(err, fs.ErrNotExist) {
		return &Journal{SchemaVersion: SchemaVersion}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read journal: %w", err)
	}

	var j Journal
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("failed to parse journal: %w", err)
	}
	return &j, nil
}

// Append loads the journal for root, adds entry and rewrites the file.
func Append(root string, entry Entry) error {
	j, err := Load(root)
	if err != nil {
		return err
	}

	j.SchemaVersion = SchemaVersion
	j.Entries = append(j.Entries, entry)

	data, err := json.MarshalIndent(j, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize journal: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(Path(root)), 0750); err != nil {
		return fmt.Errorf("failed to create journal directory: %w", err)
	}
	if err := os.WriteFile(Path(root), data, 0600); err != nil {
		return fmt.Errorf("failed to write journal: %w", err)
	}
	return nil
}
