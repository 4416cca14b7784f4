package distraction

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"focusdesk/internal/core/model"
	"focusdesk/internal/core/session"
	"focusdesk/internal/core/snapshot"
	"focusdesk/internal/notify"
)

// Probe reports the canonical name of the foreground application.
// An empty name means indeterminate.
type Probe interface {
	ForegroundApp() (string, error)
}

// Sessions is the part of the session store the monitor touches.
type Sessions interface {
	IncrementReminders() int
	ActiveSessions() []session.FocusSession
}

// Config contains runtime options for the monitor.
type Config struct {
	StopTimeout time.Duration
}

// Monitor polls the foreground application and counts distraction reminders.
type Monitor struct {
	mu        sync.Mutex
	sessions  Sessions
	probe     Probe
	notifier  notify.Notifier
	publisher *snapshot.Publisher
	options   Config
	logger    *slog.Logger
	now       func() time.Time

	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// New creates a stopped monitor.
func New(sessions Sessions, probe Probe, notifier notify.Notifier, publisher *snapshot.Publisher, options Config, logger *slog.Logger) *Monitor {
	if options.StopTimeout <= 0 {
		options.StopTimeout = 5 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "distraction")
	return &Monitor{
		sessions:  sessions,
		probe:     probe,
		notifier:  notify.Safe(notifier, logger),
		publisher: publisher,
		options:   options,
		logger:    logger,
		now:       time.Now,
	}
}

// SetClock replaces the time source used for cooldown checks.
func (monitor *Monitor) SetClock(now func() time.Time) {
	monitor.mu.Lock()
	defer monitor.mu.Unlock()
	monitor.now = now
}

// Running reports whether the polling loop is active.
func (monitor *Monitor) Running() bool {
	monitor.mu.Lock()
	defer monitor.mu.Unlock()
	return monitor.running
}

// Start launches the polling loop with a copy of config. Starting twice is a no-op.
func (monitor *Monitor) Start(config model.TrackerConfig) bool {
	monitor.mu.Lock()
	if monitor.running {
		monitor.mu.Unlock()
		return false
	}
	config = config.Normalized()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	monitor.running = true
	monitor.cancel = cancel
	monitor.done = done
	now := monitor.now
	monitor.mu.Unlock()

	monitor.publishFocus()
	go monitor.run(ctx, done, config, now)
	monitor.logger.Info("focus tracker started",
		"interval", config.CheckInterval,
		"cooldown", config.ReminderCooldown,
		"apps", len(config.DistractionApps),
	)
	return true
}

// Stop cancels the loop and waits up to the stop timeout for it to exit.
func (monitor *Monitor) Stop() {
	monitor.mu.Lock()
	if !monitor.running {
		monitor.mu.Unlock()
		return
	}
	cancel := monitor.cancel
	done := monitor.done
	monitor.running = false
	monitor.cancel = nil
	monitor.done = nil
	monitor.mu.Unlock()

	cancel()
	select {
	case <-done:
	case <-time.After(monitor.options.StopTimeout):
		monitor.logger.Warn("focus tracker did not stop in time", "timeout", monitor.options.StopTimeout)
	}
	if monitor.publisher != nil {
		monitor.publisher.ClearFocus()
	}
	monitor.logger.Info("focus tracker stopped")
}

// Refresh republishes the focus state while the loop runs.
func (monitor *Monitor) Refresh() {
	if monitor.Running() {
		monitor.publishFocus()
	}
}

func (monitor *Monitor) run(ctx context.Context, done chan struct{}, config model.TrackerConfig, now func() time.Time) {
	defer close(done)
	defer func() {
		if recovered := recover(); recovered != nil {
			monitor.logger.Error("error in focus tracking loop", "panic", recovered)
			monitor.mu.Lock()
			if monitor.done == done {
				monitor.running = false
				monitor.cancel = nil
				monitor.done = nil
			}
			monitor.mu.Unlock()
			if monitor.publisher != nil {
				monitor.publisher.ClearFocus()
			}
		}
	}()

	gate := cooldownGate{cooldown: config.ReminderCooldown}
	for ctx.Err() == nil {
		monitor.tick(config, &gate, now())
		if !sleepWithContext(ctx, config.CheckInterval) {
			break
		}
	}
	monitor.logger.Debug("focus tracking cancelled")
}

func (monitor *Monitor) tick(config model.TrackerConfig, gate *cooldownGate, now time.Time) {
	app := monitor.sample()
	if app != "" && IsDistraction(app, config.DistractionApps) && gate.Allow(now) {
		monitor.remind(app)
	}
	monitor.publishFocus()
}

func (monitor *Monitor) remind(app string) {
	monitor.sessions.IncrementReminders()
	active := monitor.sessions.ActiveSessions()
	names := make([]string, 0, len(active))
	for _, current := range active {
		names = append(names, current.TaskName)
	}
	monitor.logger.Warn("distraction detected", "app", app, "tasks", strings.Join(names, ", "))
	monitor.notifier.Notify(notify.KindWarning, "Focus Reminder", fmt.Sprintf("You're using %s. Back to work!", app))
}

func (monitor *Monitor) sample() string {
	if monitor.probe == nil {
		return ""
	}
	app, err := monitor.probe.ForegroundApp()
	if err != nil {
		monitor.logger.Debug("failed to get active application", "error", err)
		return ""
	}
	return strings.TrimSpace(app)
}

func (monitor *Monitor) publishFocus() {
	if monitor.publisher == nil {
		return
	}
	monitor.publisher.PublishFocus(len(monitor.sessions.ActiveSessions()), true)
}

// IsDistraction reports whether app contains any configured entry, ignoring case.
func IsDistraction(app string, distractionApps []string) bool {
	lowered := strings.ToLower(app)
	for _, candidate := range distractionApps {
		candidate = strings.ToLower(strings.TrimSpace(candidate))
		if candidate != "" && strings.Contains(lowered, candidate) {
			return true
		}
	}
	return false
}

// cooldownGate allows at most one reminder per cooldown window.
type cooldownGate struct {
	cooldown time.Duration
	last     time.Time
}

// Allow reports whether a reminder may fire at now and, if so, restarts the window.
func (gate *cooldownGate) Allow(now time.Time) bool {
	if !gate.last.IsZero() && now.Sub(gate.last) < gate.cooldown {
		return false
	}
	gate.last = now
	return true
}

func sleepWithContext(ctx context.Context, duration time.Duration) bool {
	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
