package persist

import "log/slog"

// Level grades the severity of a persistence log event.
type Level int

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

// String returns the lowercase level name.
func (l Level) String() string {
	switch l {
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// LogEvent describes one persistence operation for logging.
type LogEvent struct {
	Level   Level
	Op      string
	StoreID string
	Key     string
	Size    int
	Async   bool
	Err     error
}

// Logger records persistence events.
type Logger interface {
	LogPersist(LogEvent)
}

// LoggerFunc adapts a function to Logger.
type LoggerFunc func(LogEvent)

// LogPersist implements Logger.
func (f LoggerFunc) LogPersist(event LogEvent) {
	if f != nil {
		f(event)
	}
}

type noopLogger struct{}

func (noopLogger) LogPersist(LogEvent) {}

// NewSlogLogger adapts a *slog.Logger to Logger. A nil logger uses
// slog.Default.
func NewSlogLogger(logger *slog.Logger) Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return LoggerFunc(func(event LogEvent) {
		attrs := []any{
			slog.String("op", event.Op),
			slog.String("store", event.StoreID),
			slog.String("key", event.Key),
		}
		if event.Size > 0 {
			attrs = append(attrs, slog.Int("size", event.Size))
		}
		if event.Async {
			attrs = append(attrs, slog.Bool("async", true))
		}
		if event.Err != nil {
			attrs = append(attrs, slog.Any("error", event.Err))
		}
		switch event.Level {
		case LevelError:
			logger.Error("persist", attrs...)
		case LevelWarn:
			logger.Warn("persist", attrs...)
		default:
			logger.Info("persist", attrs...)
		}
	})
}

// WithLogger attaches a logger to the plugin.
func WithLogger(logger Logger) Option {
	return func(cfg *pluginConfig) {
		if logger == nil {
			cfg.logger = noopLogger{}
			return
		}
		cfg.logger = logger
	}
}
