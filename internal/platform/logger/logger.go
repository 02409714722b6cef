package logger

import (
	"log/slog"
	"os"
)

// New returns the process logger. Text output keeps local development
// readable; structured attributes carry the interesting fields either way.
func New() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
