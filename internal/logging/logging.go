// Package logging configures the process-wide zerolog logger.
package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Field names shared by every package that logs.
const (
	ProviderField = "provider"
	ModelField    = "model"
	SessionField  = "session"
	AttemptField  = "attempt"
	TaskField     = "task"
	EventField    = "event"
)

// NewGlobal sets the global level and, when pretty is set, switches the global
// logger to human readable console output on stderr.
func NewGlobal(level string, pretty bool) error {
	return newGlobal(level, pretty, os.Stderr)
}

func newGlobal(level string, pretty bool, out io.Writer) error {
	l, err := zerolog.ParseLevel(level)
	if err != nil {
		return err
	}

	zerolog.SetGlobalLevel(l)

	if pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: out})
	}
	return nil
}
