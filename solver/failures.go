package solver

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rickchristie/tasksolver"
)

// Failure is the record written for an unparseable reply.
type Failure struct {
	Provider  string    `json:"provider"`
	Model     string    `json:"model"`
	Attempt   int       `json:"attempt"`
	Reason    string    `json:"reason"`
	Raw       string    `json:"raw"`
	Timestamp time.Time `json:"timestamp"`
}

// FailureSink writes unparseable replies to a directory, one JSON file each.
type FailureSink struct {
	dir   string
	clock tasksolver.TimeProvider
}

// NewFailureSink creates a sink under dir. A nil clock uses the system clock.
func NewFailureSink(dir string, clock tasksolver.TimeProvider) *FailureSink {
	if clock == nil {
		clock = tasksolver.NewDefaultTimeProvider()
	}
	return &FailureSink{dir: dir, clock: clock}
}

// Dir returns the directory failures are written to.
func (f *FailureSink) Dir() string { return f.dir }

// Save writes one failure record.
func (f *FailureSink) Save(p tasksolver.Provider, attempt int, raw string, cause error) error {
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return err
	}
	now := f.clock.Now()
	rec := Failure{
		Provider:  p.Name(),
		Model:     p.Model(),
		Attempt:   attempt,
		Reason:    cause.Error(),
		Raw:       raw,
		Timestamp: now,
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}
	name := fmt.Sprintf("%d-%s-%d.json", now.UnixNano(), p.Name(), attempt)
	return os.WriteFile(filepath.Join(f.dir, name), data, 0o644)
}
