package eventstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rickchristie/tasksolver"
)

// FileStore writes events to <dir>/<session>/<unixnano>-<id>.json.
type FileStore struct {
	dir string
}

// NewFileStore creates a store rooted at dir. The directory is created on
// first write.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Dir returns the root directory.
func (s *FileStore) Dir() string { return s.dir }

// Append writes e to its session directory.
func (s *FileStore) Append(_ context.Context, e tasksolver.Event) error {
	if err := e.Validate(); err != nil {
		return err
	}
	dir, err := s.sessionDir(e.SessionID)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return err
	}
	name := fmt.Sprintf("%d-%s.json", e.Timestamp.UnixNano(), e.ID)
	return os.WriteFile(filepath.Join(dir, name), data, 0o644)
}

// Load reads every event of a session. A session that was never written
// loads as an empty collection.
func (s *FileStore) Load(_ context.Context, sessionID string) (*tasksolver.EventCollection, error) {
	dir, err := s.sessionDir(sessionID)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return collect(nil)
	}
	if err != nil {
		return nil, err
	}

	var events []tasksolver.Event
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		var e tasksolver.Event
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, fmt.Errorf("load %s: %w", entry.Name(), err)
		}
		events = append(events, e)
	}
	return collect(events)
}

// sessionDir maps a session id to its directory. Ids that would leave the
// root are rejected.
func (s *FileStore) sessionDir(sessionID string) (string, error) {
	if sessionID == "" || sessionID == "." || sessionID == ".." || strings.ContainsAny(sessionID, `/\`) {
		return "", fmt.Errorf("%w: unusable session id %q", tasksolver.ErrInvalidEvent, sessionID)
	}
	return filepath.Join(s.dir, sessionID), nil
}

var _ Store = (*FileStore)(nil)
