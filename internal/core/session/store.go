package session

import (
	"log/slog"
	"sync"
	"time"
)

// Store is the lock-protected collection of focus sessions.
// Every method is safe for concurrent use and returns copies, never aliases.
type Store struct {
	mu       sync.Mutex
	sessions []FocusSession
	now      func() time.Time
	logger   *slog.Logger
}

// NewStore creates an empty session store.
func NewStore(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		now:    time.Now,
		logger: logger.With("component", "sessions"),
	}
}

// SetClock replaces the time source.
func (store *Store) SetClock(now func() time.Time) {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.now = now
}

// CreateTask adds a pending session unless one with the same name exists.
func (store *Store) CreateTask(name string) {
	store.mu.Lock()
	defer store.mu.Unlock()

	if store.indexLocked(name) >= 0 {
		store.logger.Warn("task already exists", "task", name)
		return
	}
	store.sessions = append(store.sessions, FocusSession{
		TaskName: name,
		Status:   StatusInProgress,
	})
	store.logger.Info("created task (not started)", "task", name)
}

// StartTask starts the named session, creating it when absent.
// It returns true when this start made it the only tracking session.
func (store *Store) StartTask(name string) bool {
	store.mu.Lock()
	defer store.mu.Unlock()

	before := store.trackingCountLocked()
	now := store.now()

	index := store.indexLocked(name)
	switch {
	case index < 0:
		store.sessions = append(store.sessions, FocusSession{
			TaskName:  name,
			StartTime: now,
			Status:    StatusInProgress,
		})
	case !store.sessions[index].IsActive():
		store.logger.Debug("task already stopped", "task", name)
		return false
	case !store.sessions[index].IsStarted():
		store.sessions[index].StartTime = now
	default:
		store.logger.Debug("task already tracking", "task", name)
		return false
	}

	store.logger.Info("started tracking task", "task", name)
	return before == 0
}

// RestartTask returns a stopped session to pending so it can be started again.
func (store *Store) RestartTask(name string) {
	store.mu.Lock()
	defer store.mu.Unlock()

	index := store.indexLocked(name)
	if index < 0 {
		store.logger.Warn("restart unknown task", "task", name)
		return
	}
	session := &store.sessions[index]
	session.StartTime = time.Time{}
	session.EndTime = time.Time{}
	session.Status = StatusInProgress
	store.logger.Info("task reset to pending", "task", name)
}

// PauseTask ends the current interval and returns the session to pending.
// Elapsed time is not accumulated across pauses.
func (store *Store) PauseTask(name string) {
	store.mu.Lock()
	defer store.mu.Unlock()

	index := store.activeIndexLocked(name)
	if index < 0 || !store.sessions[index].IsStarted() {
		store.logger.Debug("pause ignored, task not tracking", "task", name)
		return
	}

	session := &store.sessions[index]
	session.EndTime = store.now()
	session.Status = StatusInProgress
	store.logger.Info("paused task", "task", name, "duration_min", session.DurationMinutes())

	session.StartTime = time.Time{}
	session.EndTime = time.Time{}
}

// StopTask stops the named active session with the given status.
func (store *Store) StopTask(name string, status Status) {
	store.mu.Lock()
	defer store.mu.Unlock()

	index := store.activeIndexLocked(name)
	if index < 0 {
		store.logger.Warn("stop ignored, no active task", "task", name)
		return
	}
	store.stopLocked(index, status, store.now())
}

// StopAll stops every active session with the given status and returns how many were stopped.
func (store *Store) StopAll(status Status) int {
	store.mu.Lock()
	defer store.mu.Unlock()

	now := store.now()
	stopped := 0
	for index := range store.sessions {
		if store.sessions[index].IsActive() {
			store.stopLocked(index, status, now)
			stopped++
		}
	}
	return stopped
}

// RemoveTask deletes the named session unconditionally.
func (store *Store) RemoveTask(name string) {
	store.mu.Lock()
	defer store.mu.Unlock()

	index := store.indexLocked(name)
	if index < 0 {
		store.logger.Warn("remove ignored, unknown task", "task", name)
		return
	}
	store.sessions = append(store.sessions[:index], store.sessions[index+1:]...)
	store.logger.Info("removed task", "task", name)
}

// IncrementReminders bumps the reminder count of every active session.
func (store *Store) IncrementReminders() int {
	store.mu.Lock()
	defer store.mu.Unlock()

	count := 0
	for index := range store.sessions {
		if store.sessions[index].IsActive() {
			store.sessions[index].ReminderCount++
			count++
		}
	}
	return count
}

// Lookup returns a copy of the named session.
func (store *Store) Lookup(name string) (FocusSession, bool) {
	store.mu.Lock()
	defer store.mu.Unlock()

	index := store.indexLocked(name)
	if index < 0 {
		return FocusSession{}, false
	}
	return store.sessions[index], true
}

// ActiveSessions returns sessions that have not been stopped, including pending ones.
func (store *Store) ActiveSessions() []FocusSession {
	return store.filter(FocusSession.IsActive)
}

// TrackingSessions returns sessions that are active and started.
func (store *Store) TrackingSessions() []FocusSession {
	return store.filter(FocusSession.IsTracking)
}

// AllSessions returns a snapshot of every held session.
func (store *Store) AllSessions() []FocusSession {
	return store.filter(func(FocusSession) bool { return true })
}

// TrackingCount returns the number of started, active sessions.
func (store *Store) TrackingCount() int {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.trackingCountLocked()
}

// CurrentTask returns the name of the first active session.
func (store *Store) CurrentTask() string {
	active := store.ActiveSessions()
	if len(active) == 0 {
		return ""
	}
	return active[0].TaskName
}

// ReminderCount returns the reminder count of the first active session.
func (store *Store) ReminderCount() int {
	active := store.ActiveSessions()
	if len(active) == 0 {
		return 0
	}
	return active[0].ReminderCount
}

// Now returns the store's current time.
func (store *Store) Now() time.Time {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.now()
}

func (store *Store) filter(keep func(FocusSession) bool) []FocusSession {
	store.mu.Lock()
	defer store.mu.Unlock()

	result := make([]FocusSession, 0, len(store.sessions))
	for _, session := range store.sessions {
		if keep(session) {
			result = append(result, session)
		}
	}
	return result
}

func (store *Store) stopLocked(index int, status Status, now time.Time) {
	session := &store.sessions[index]
	session.EndTime = now
	session.Status = status
	store.logger.Info("stopped task",
		"task", session.TaskName,
		"duration_min", session.DurationMinutes(),
		"status", status,
	)
}

func (store *Store) indexLocked(name string) int {
	for index, session := range store.sessions {
		if session.TaskName == name {
			return index
		}
	}
	return -1
}

func (store *Store) activeIndexLocked(name string) int {
	index := store.indexLocked(name)
	if index < 0 || !store.sessions[index].IsActive() {
		return -1
	}
	return index
}

func (store *Store) trackingCountLocked() int {
	count := 0
	for _, session := range store.sessions {
		if session.IsTracking() {
			count++
		}
	}
	return count
}
