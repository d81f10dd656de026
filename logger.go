package lloyd

import (
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with lloyd-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	}))
}

// WithSession adds a session id field to the logger.
func (l *Logger) WithSession(id string) *Logger {
	return &Logger{
		Logger: l.Logger.With("session", id),
	}
}

// WithK adds a k (cluster count) field to the logger.
func (l *Logger) WithK(k int) *Logger {
	return &Logger{
		Logger: l.Logger.With("k", k),
	}
}

// WithStrategy adds the initialization strategy to the logger.
func (l *Logger) WithStrategy(s Strategy) *Logger {
	return &Logger{
		Logger: l.Logger.With("strategy", s.String()),
	}
}

// WithDimension adds a dimension field to the logger.
func (l *Logger) WithDimension(dim int) *Logger {
	return &Logger{
		Logger: l.Logger.With("dimension", dim),
	}
}

// LogInitialize logs centroid seeding.
func (l *Logger) LogInitialize(points, dim int, err error) {
	if err != nil {
		l.Error("initialization failed",
			"points", points,
			"error", err,
		)
		return
	}
	l.Debug("centroids initialized",
		"points", points,
		"dimension", dim,
	)
}

// LogStep logs a single Lloyd iteration. Terminal transitions are logged at
// Info, every other iteration at Debug.
func (l *Logger) LogStep(iteration int, displacement float64, state State) {
	if state.Terminal() {
		l.Info("session finished",
			"iteration", iteration,
			"displacement", displacement,
			"state", state.String(),
		)
		return
	}
	l.Debug("iteration completed",
		"iteration", iteration,
		"displacement", displacement,
		"state", state.String(),
	)
}

// LogFit logs the outcome of a run-to-completion.
func (l *Logger) LogFit(points, iterations int, state State, err error) {
	if err != nil {
		l.Error("fit failed",
			"points", points,
			"error", err,
		)
		return
	}
	l.Info("fit completed",
		"points", points,
		"iterations", iterations,
		"state", state.String(),
	)
}
