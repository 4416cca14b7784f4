package snapshot

import "log/slog"

// Publisher writes the Pomodoro and focus state files. Failures are logged, never returned.
type Publisher struct {
	sink         Sink
	pomodoroPath string
	focusPath    string
	logger       *slog.Logger
}

// NewPublisher creates a publisher for the two state paths.
func NewPublisher(sink Sink, pomodoroPath, focusPath string, logger *slog.Logger) *Publisher {
	if sink == nil {
		sink = FileSink{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{
		sink:         sink,
		pomodoroPath: pomodoroPath,
		focusPath:    focusPath,
		logger:       logger.With("component", "snapshot"),
	}
}

// PomodoroPath returns the Pomodoro state file location.
func (publisher *Publisher) PomodoroPath() string {
	return publisher.pomodoroPath
}

// FocusPath returns the focus state file location.
func (publisher *Publisher) FocusPath() string {
	return publisher.focusPath
}

// PublishPomodoro writes the current mode and remaining minutes.
func (publisher *Publisher) PublishPomodoro(mode Mode, remainingMinutes int) {
	if publisher.pomodoroPath == "" {
		return
	}
	if err := publisher.sink.WriteState(publisher.pomodoroPath, FormatPomodoro(mode, remainingMinutes)); err != nil {
		publisher.logger.Warn("failed to update pomodoro state", "path", publisher.pomodoroPath, "error", err)
	}
}

// ClearPomodoro removes the Pomodoro state.
func (publisher *Publisher) ClearPomodoro() {
	if publisher.pomodoroPath == "" {
		return
	}
	if err := publisher.sink.ClearState(publisher.pomodoroPath); err != nil {
		publisher.logger.Warn("failed to clear pomodoro state", "path", publisher.pomodoroPath, "error", err)
	}
}

// PublishFocus writes the active task count.
func (publisher *Publisher) PublishFocus(taskCount int, active bool) {
	if publisher.focusPath == "" {
		return
	}
	if err := publisher.sink.WriteState(publisher.focusPath, FormatFocus(taskCount, active)); err != nil {
		publisher.logger.Warn("failed to update focus state", "path", publisher.focusPath, "error", err)
	}
}

// ClearFocus removes the focus state.
func (publisher *Publisher) ClearFocus() {
	if publisher.focusPath == "" {
		return
	}
	if err := publisher.sink.ClearState(publisher.focusPath); err != nil {
		publisher.logger.Warn("failed to clear focus state", "path", publisher.focusPath, "error", err)
	}
}
