package notify

import (
	"context"
	"log/slog"
)

// Kind classifies a notification.
type Kind string

const (
	KindInfo    Kind = "info"
	KindSuccess Kind = "success"
	KindWarning Kind = "warning"
	KindError   Kind = "error"
)

// Notifier delivers user-facing messages. Implementations must not block or panic.
type Notifier interface {
	Notify(kind Kind, title, message string)
}

// Func adapts a function to Notifier.
type Func func(kind Kind, title, message string)

// Notify calls fn.
func (fn Func) Notify(kind Kind, title, message string) {
	fn(kind, title, message)
}

// Decorate prefixes the title with a glyph for its kind.
func Decorate(kind Kind, title string) string {
	switch kind {
	case KindSuccess:
		return "✅ " + title
	case KindWarning:
		return "⚠️ " + title
	case KindError:
		return "❌ " + title
	default:
		return title
	}
}

// LogNotifier writes notifications to a structured logger.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a notifier that logs every message.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger.With("component", "notify")}
}

// Notify logs the message at a level matching its kind.
func (notifier *LogNotifier) Notify(kind Kind, title, message string) {
	level := slog.LevelInfo
	switch kind {
	case KindWarning:
		level = slog.LevelWarn
	case KindError:
		level = slog.LevelError
	}
	notifier.logger.Log(context.Background(), level, Decorate(kind, title), "message", message, "kind", kind)
}

// Safe wraps a notifier so panics inside it never reach the caller.
func Safe(notifier Notifier, logger *slog.Logger) Notifier {
	if notifier == nil {
		return NewLogNotifier(logger)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return Func(func(kind Kind, title, message string) {
		defer func() {
			if recovered := recover(); recovered != nil {
				logger.Warn("notifier panicked", "title", title, "panic", recovered)
			}
		}()
		notifier.Notify(kind, title, message)
	})
}
