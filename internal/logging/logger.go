package logging

import (
	"io"
	"log/slog"
	"os"
)

// NewConsoleHandler writes JSON in production and readable text elsewhere.
func NewConsoleHandler(w io.Writer, production bool) slog.Handler {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if production {
		return slog.NewJSONHandler(w, opts)
	}
	opts.Level = slog.LevelDebug
	return slog.NewTextHandler(w, opts)
}

// Setup installs the console handler, plus any extra sinks, as the default
// slog logger.
func Setup(production bool, extra ...slog.Handler) {
	var handler slog.Handler = NewConsoleHandler(os.Stdout, production)
	if len(extra) > 0 {
		handler = NewMultiHandler(append([]slog.Handler{handler}, extra...)...)
	}
	slog.SetDefault(slog.New(handler))
}

// Component returns a logger tagged with the subsystem name; the DB sink
// stores it in its own column.
func Component(name string) *slog.Logger {
	return slog.Default().With("component", name)
}
