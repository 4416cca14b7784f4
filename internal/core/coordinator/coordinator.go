package coordinator

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"focusdesk/internal/core/distraction"
	"focusdesk/internal/core/model"
	"focusdesk/internal/core/pomodoro"
	"focusdesk/internal/core/session"
	"focusdesk/internal/core/snapshot"
	"focusdesk/internal/notify"
)

const defaultPersistTimeout = 5 * time.Second

// Dependencies are the collaborators wired into a coordinator. Nil members are skipped.
type Dependencies struct {
	Notifier    notify.Notifier
	Probe       distraction.Probe
	Persister   Persister
	Sink        snapshot.Sink
	FocusAssist pomodoro.FocusAssist
	Overlay     OverlaySignal
}

// Options tune loop timing. Zero values use production defaults.
type Options struct {
	Engine         pomodoro.Config
	Monitor        distraction.Config
	PersistTimeout time.Duration
}

// Coordinator is the public surface over the session store and both background loops.
type Coordinator struct {
	mu       sync.Mutex
	config   model.Config
	store    *session.Store
	monitor  *distraction.Monitor
	engine   *pomodoro.Engine
	notifier notify.Notifier
	persist  Persister
	overlay  OverlaySignal
	logger   *slog.Logger

	persistTimeout time.Duration
	persistMu      sync.Mutex
	inflight       sync.WaitGroup
	relayDone      chan struct{}
	closed         bool
}

// New wires the store, monitor and engine together. The engine flushes sessions through
// the coordinator at every focus-phase boundary.
func New(config model.Config, deps Dependencies, options Options, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	if options.PersistTimeout <= 0 {
		options.PersistTimeout = defaultPersistTimeout
	}
	notifier := notify.Safe(deps.Notifier, logger)
	publisher := snapshot.NewPublisher(deps.Sink, config.Paths.PomodoroStateFile, config.Paths.FocusStateFile, logger)
	store := session.NewStore(logger)

	coordinator := &Coordinator{
		config:         config,
		store:          store,
		monitor:        distraction.New(store, deps.Probe, notifier, publisher, options.Monitor, logger),
		engine:         pomodoro.New(config.Pomodoro, options.Engine, notifier, publisher, logger),
		notifier:       notifier,
		persist:        deps.Persister,
		overlay:        deps.Overlay,
		logger:         logger.With("component", "coordinator"),
		persistTimeout: options.PersistTimeout,
		relayDone:      make(chan struct{}),
	}
	coordinator.engine.SetFlusher(coordinator)
	if deps.FocusAssist != nil {
		coordinator.engine.SetFocusAssist(deps.FocusAssist)
	}

	events := coordinator.engine.Subscribe(64)
	go coordinator.relayOverlay(events)
	coordinator.applyOpacity(pomodoro.PhaseIdle)
	return coordinator
}

// SetClock replaces the session time source.
func (coordinator *Coordinator) SetClock(now func() time.Time) {
	coordinator.store.SetClock(now)
}

// UpdateConfig replaces the configuration. Running loops keep the copy they started with.
func (coordinator *Coordinator) UpdateConfig(config model.Config) {
	coordinator.mu.Lock()
	coordinator.config = config
	coordinator.mu.Unlock()
	coordinator.engine.UpdateConfig(config.Pomodoro)
	coordinator.logger.Info("configuration updated")
}

// Config returns the current configuration.
func (coordinator *Coordinator) Config() model.Config {
	coordinator.mu.Lock()
	defer coordinator.mu.Unlock()
	return coordinator.config
}

// CreateTask adds a pending task.
func (coordinator *Coordinator) CreateTask(name string) {
	coordinator.store.CreateTask(name)
	coordinator.monitor.Refresh()
}

// StartTask starts or resumes a task and makes sure the distraction monitor is running.
func (coordinator *Coordinator) StartTask(name string) {
	if coordinator.isClosed() {
		coordinator.logger.Warn("coordinator shut down, ignoring task start", "task", name)
		return
	}
	first := coordinator.store.StartTask(name)
	current, ok := coordinator.store.Lookup(name)
	if !ok || !current.IsTracking() {
		return
	}
	if first || !coordinator.monitor.Running() {
		coordinator.monitor.Start(coordinator.Config().Tracker)
	} else {
		coordinator.monitor.Refresh()
	}
	coordinator.notifier.Notify(notify.KindSuccess, "Focus Tracker", "Now tracking: "+name)
}

// PauseTask pauses a task. The monitor stops when nothing is left tracking.
func (coordinator *Coordinator) PauseTask(name string) {
	coordinator.store.PauseTask(name)
	coordinator.stopMonitorIfIdle()
}

// StopTask ends a task, applying the abandonment rule to InProgress requests,
// and persists the session list in the background.
func (coordinator *Coordinator) StopTask(name string, status session.Status) {
	current, ok := coordinator.store.Lookup(name)
	if !ok || !current.IsActive() {
		coordinator.logger.Warn("task not active", "task", name)
		return
	}
	final := session.ClassifyStop(current, status, coordinator.store.Now())
	coordinator.store.StopTask(name, final)
	coordinator.stopMonitorIfIdle()

	coordinator.persistAsync(coordinator.store.AllSessions())
	coordinator.notifier.Notify(notify.KindSuccess, "Task Stopped", "Logged: "+name)
}

// RestartTask returns a stopped task to pending.
func (coordinator *Coordinator) RestartTask(name string) {
	coordinator.store.RestartTask(name)
	coordinator.monitor.Refresh()
}

// RemoveTask deletes a task record.
func (coordinator *Coordinator) RemoveTask(name string) {
	coordinator.store.RemoveTask(name)
	coordinator.stopMonitorIfIdle()
}

// Sessions returns a copy of every session.
func (coordinator *Coordinator) Sessions() []session.FocusSession {
	return coordinator.store.AllSessions()
}

// ActiveSessions returns unstopped sessions, including pending ones.
func (coordinator *Coordinator) ActiveSessions() []session.FocusSession {
	return coordinator.store.ActiveSessions()
}

// TrackingSessions returns started, unstopped sessions.
func (coordinator *Coordinator) TrackingSessions() []session.FocusSession {
	return coordinator.store.TrackingSessions()
}

// CurrentTask returns the first active task name.
func (coordinator *Coordinator) CurrentTask() string {
	return coordinator.store.CurrentTask()
}

// ReminderCount returns the reminder count of the first active task.
func (coordinator *Coordinator) ReminderCount() int {
	return coordinator.store.ReminderCount()
}

// MonitorRunning reports whether the distraction monitor is polling.
func (coordinator *Coordinator) MonitorRunning() bool {
	return coordinator.monitor.Running()
}

// StartPomodoro starts the cycle engine. It does nothing after Shutdown.
func (coordinator *Coordinator) StartPomodoro() bool {
	if coordinator.isClosed() {
		coordinator.logger.Warn("coordinator shut down, ignoring pomodoro start")
		return false
	}
	return coordinator.engine.Start()
}

// StopPomodoro stops the cycle engine.
func (coordinator *Coordinator) StopPomodoro() {
	coordinator.engine.Stop()
}

// PomodoroState returns a copy of the engine state.
func (coordinator *Coordinator) PomodoroState() pomodoro.State {
	return coordinator.engine.State()
}

// PomodoroEvents registers an observer of engine events.
func (coordinator *Coordinator) PomodoroEvents(buffer int) <-chan pomodoro.Event {
	return coordinator.engine.Subscribe(buffer)
}

// FlushSessions force-stops every active session as InProgress and persists the list.
// The engine calls it when a focus phase expires.
func (coordinator *Coordinator) FlushSessions(context.Context) {
	if len(coordinator.store.ActiveSessions()) == 0 {
		return
	}
	stopped := coordinator.store.StopAll(session.StatusInProgress)
	coordinator.logger.Info("flushed sessions at focus boundary", "stopped", stopped)
	coordinator.persistAsync(coordinator.store.AllSessions())
	coordinator.stopMonitorIfIdle()
}

// Shutdown stops all tasks, persists them within the persist timeout and disposes both loops.
// A persister that outlives the timeout is abandoned and the loops are disposed anyway.
func (coordinator *Coordinator) Shutdown(ctx context.Context) error {
	coordinator.mu.Lock()
	if coordinator.closed {
		coordinator.mu.Unlock()
		return nil
	}
	coordinator.closed = true
	coordinator.mu.Unlock()

	stopped := coordinator.store.StopAll(session.StatusInProgress)
	coordinator.logger.Info("shutting down", "stopped", stopped)

	ctx, cancel := context.WithTimeout(ctx, coordinator.persistTimeout)
	defer cancel()

	coordinator.waitInflight(ctx)
	err := coordinator.persistWithin(ctx, coordinator.store.AllSessions())
	if err != nil {
		coordinator.logger.Warn("failed to persist sessions on shutdown", "error", err)
	}

	coordinator.monitor.Stop()
	coordinator.engine.Close()
	<-coordinator.relayDone
	coordinator.logger.Info("shutdown complete")
	return err
}

func (coordinator *Coordinator) stopMonitorIfIdle() {
	if coordinator.store.TrackingCount() == 0 {
		coordinator.monitor.Stop()
		return
	}
	coordinator.monitor.Refresh()
}

func (coordinator *Coordinator) persistAsync(sessions []session.FocusSession) {
	if coordinator.persist == nil {
		return
	}
	coordinator.inflight.Add(1)
	go func() {
		defer coordinator.inflight.Done()
		ctx, cancel := context.WithTimeout(context.Background(), coordinator.persistTimeout)
		defer cancel()
		if err := coordinator.persistNow(ctx, sessions); err != nil {
			coordinator.logger.Warn("failed to persist sessions", "error", err)
		}
	}()
}

// persistWithin runs persistNow in the background and gives up when ctx ends.
func (coordinator *Coordinator) persistWithin(ctx context.Context, sessions []session.FocusSession) error {
	if coordinator.persist == nil {
		return nil
	}
	result := make(chan error, 1)
	go func() {
		result <- coordinator.persistNow(ctx, sessions)
	}()
	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return fmt.Errorf("persist sessions on shutdown: %w", ctx.Err())
	}
}

func (coordinator *Coordinator) isClosed() bool {
	coordinator.mu.Lock()
	defer coordinator.mu.Unlock()
	return coordinator.closed
}

func (coordinator *Coordinator) persistNow(ctx context.Context, sessions []session.FocusSession) (err error) {
	if coordinator.persist == nil {
		return nil
	}
	coordinator.persistMu.Lock()
	defer coordinator.persistMu.Unlock()
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("persist sessions: panic: %v", recovered)
		}
	}()
	return coordinator.persist.Persist(ctx, sessions)
}

func (coordinator *Coordinator) waitInflight(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		coordinator.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		coordinator.logger.Warn("background persistence still running at shutdown")
	}
}

func (coordinator *Coordinator) relayOverlay(events <-chan pomodoro.Event) {
	defer close(coordinator.relayDone)
	for event := range events {
		switch event.Type {
		case pomodoro.EventPhaseChange, pomodoro.EventStopped:
			coordinator.applyOpacity(event.Phase)
		}
	}
}

func (coordinator *Coordinator) applyOpacity(phase pomodoro.Phase) {
	if coordinator.overlay == nil {
		return
	}
	percent := OpacityFor(phase, coordinator.Config().Overlay)
	coordinator.overlay.SetOpacity(percent)
	coordinator.logger.Debug("overlay opacity", "phase", phase, "percent", percent)
}
