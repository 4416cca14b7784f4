package coordinator

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"focusdesk/internal/core/distraction"
	"focusdesk/internal/core/model"
	"focusdesk/internal/core/pomodoro"
	"focusdesk/internal/core/session"
	"focusdesk/internal/core/snapshot"
	"focusdesk/internal/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPersister struct {
	mu      sync.Mutex
	batches [][]session.FocusSession
	err     error
}

func (persister *recordingPersister) Persist(_ context.Context, sessions []session.FocusSession) error {
	persister.mu.Lock()
	defer persister.mu.Unlock()
	persister.batches = append(persister.batches, append([]session.FocusSession(nil), sessions...))
	return persister.err
}

func (persister *recordingPersister) Batches() [][]session.FocusSession {
	persister.mu.Lock()
	defer persister.mu.Unlock()
	return append([][]session.FocusSession(nil), persister.batches...)
}

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (notifier *recordingNotifier) Notify(_ notify.Kind, title, message string) {
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	notifier.messages = append(notifier.messages, title+": "+message)
}

func (notifier *recordingNotifier) Messages() []string {
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	return append([]string(nil), notifier.messages...)
}

type recordingOverlay struct {
	mu     sync.Mutex
	values []int
}

func (overlay *recordingOverlay) SetOpacity(percent int) {
	overlay.mu.Lock()
	defer overlay.mu.Unlock()
	overlay.values = append(overlay.values, percent)
}

func (overlay *recordingOverlay) Last() int {
	overlay.mu.Lock()
	defer overlay.mu.Unlock()
	if len(overlay.values) == 0 {
		return -1
	}
	return overlay.values[len(overlay.values)-1]
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (clock *clock) Now() time.Time {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return clock.now
}

func (clock *clock) Advance(delta time.Duration) {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	clock.now = clock.now.Add(delta)
}

type fixture struct {
	coordinator *Coordinator
	persister   *recordingPersister
	notifier    *recordingNotifier
	overlay     *recordingOverlay
	sink        *snapshot.MemorySink
	clock       *clock
}

func testConfig() model.Config {
	return model.Config{
		Pomodoro: model.PomodoroConfig{
			Focus:                 20 * time.Millisecond,
			ShortBreak:            time.Hour,
			LongBreak:             time.Hour,
			CyclesBeforeLongBreak: 4,
		},
		Tracker: model.TrackerConfig{
			CheckInterval:    5 * time.Millisecond,
			ReminderCooldown: time.Minute,
			DistractionApps:  []string{"discord"},
		},
		Overlay: model.OverlayConfig{OpacityActive: 100, OpacityBackground: 80, OpacityPomodoro: 50},
		Paths:   model.Paths{PomodoroStateFile: "pomodoro", FocusStateFile: "focus"},
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	fx := &fixture{
		persister: &recordingPersister{},
		notifier:  &recordingNotifier{},
		overlay:   &recordingOverlay{},
		sink:      snapshot.NewMemorySink(),
		clock:     &clock{now: time.Date(2025, 4, 2, 14, 0, 0, 0, time.Local)},
	}
	fx.coordinator = New(testConfig(), Dependencies{
		Notifier:  fx.notifier,
		Persister: fx.persister,
		Sink:      fx.sink,
		Overlay:   fx.overlay,
	}, Options{
		Engine:         pomodoro.Config{TickInterval: 2 * time.Millisecond, CyclePause: time.Millisecond, StopTimeout: time.Second},
		PersistTimeout: time.Second,
	}, nil)
	fx.coordinator.SetClock(fx.clock.Now)
	t.Cleanup(func() { _ = fx.coordinator.Shutdown(context.Background()) })
	return fx
}

func countByName(sessions []session.FocusSession) map[string]int {
	counts := map[string]int{}
	for _, current := range sessions {
		counts[current.TaskName]++
	}
	return counts
}

func TestStartTaskStartsMonitorAndNotifies(t *testing.T) {
	fx := newFixture(t)

	fx.coordinator.StartTask("write report")
	assert.True(t, fx.coordinator.MonitorRunning())
	assert.Contains(t, fx.notifier.Messages(), "Focus Tracker: Now tracking: write report")

	text, ok := fx.sink.State("focus")
	require.True(t, ok)
	assert.Equal(t, "tasks:1\nactive:true", text)
}

func TestMonitorStopsWhenLastTrackingTaskPauses(t *testing.T) {
	fx := newFixture(t)

	fx.coordinator.StartTask("a")
	fx.coordinator.StartTask("b")
	fx.coordinator.PauseTask("a")
	assert.True(t, fx.coordinator.MonitorRunning())

	fx.coordinator.PauseTask("b")
	assert.False(t, fx.coordinator.MonitorRunning())
	_, ok := fx.sink.State("focus")
	assert.False(t, ok)

	fx.coordinator.StartTask("a")
	assert.True(t, fx.coordinator.MonitorRunning())
	fx.coordinator.RemoveTask("a")
	assert.False(t, fx.coordinator.MonitorRunning())
}

func TestStopTaskAbandonsShortSessionsAndPersists(t *testing.T) {
	fx := newFixture(t)

	fx.coordinator.StartTask("quick look")
	fx.clock.Advance(3 * time.Minute)
	fx.coordinator.StopTask("quick look", session.StatusInProgress)

	current, ok := fx.coordinator.store.Lookup("quick look")
	require.True(t, ok)
	assert.Equal(t, session.StatusAbandoned, current.Status)
	assert.Equal(t, 3, current.DurationMinutes())
	assert.False(t, fx.coordinator.MonitorRunning())
	assert.Contains(t, fx.notifier.Messages(), "Task Stopped: Logged: quick look")

	require.Eventually(t, func() bool { return len(fx.persister.Batches()) == 1 }, time.Second, time.Millisecond)
	batch := fx.persister.Batches()[0]
	require.Len(t, batch, 1)
	assert.Equal(t, session.StatusAbandoned, batch[0].Status)
}

func TestStopTaskKeepsLongAndCompletedSessions(t *testing.T) {
	fx := newFixture(t)

	fx.coordinator.StartTask("deep work")
	fx.coordinator.StartTask("review")
	fx.clock.Advance(10 * time.Minute)
	fx.coordinator.StopTask("deep work", session.StatusInProgress)
	fx.coordinator.StopTask("review", session.StatusCompleted)

	deep, _ := fx.coordinator.store.Lookup("deep work")
	review, _ := fx.coordinator.store.Lookup("review")
	assert.Equal(t, session.StatusInProgress, deep.Status)
	assert.Equal(t, session.StatusCompleted, review.Status)
}

func TestStopUnknownTaskIsIgnored(t *testing.T) {
	fx := newFixture(t)
	fx.coordinator.StopTask("ghost", session.StatusCompleted)

	assert.Empty(t, fx.notifier.Messages())
	assert.Empty(t, fx.coordinator.Sessions())
}

func TestFocusBoundaryFlushesEveryActiveTaskOnce(t *testing.T) {
	fx := newFixture(t)

	fx.coordinator.StartTask("a")
	fx.coordinator.StartTask("b")
	require.True(t, fx.coordinator.StartPomodoro())

	require.Eventually(t, func() bool { return len(fx.persister.Batches()) >= 1 }, 2*time.Second, time.Millisecond)
	fx.coordinator.StopPomodoro()

	batch := fx.persister.Batches()[0]
	assert.Equal(t, map[string]int{"a": 1, "b": 1}, countByName(batch))
	for _, current := range batch {
		assert.Equal(t, session.StatusInProgress, current.Status, current.TaskName)
		assert.False(t, current.IsActive(), current.TaskName)
	}
	assert.Empty(t, fx.coordinator.ActiveSessions())
	assert.False(t, fx.coordinator.MonitorRunning())
}

func TestFlushWithoutActiveSessionsDoesNothing(t *testing.T) {
	fx := newFixture(t)
	fx.coordinator.FlushSessions(context.Background())

	time.Sleep(10 * time.Millisecond)
	assert.Empty(t, fx.persister.Batches())
}

func TestOverlayFollowsPhase(t *testing.T) {
	fx := newFixture(t)
	assert.Equal(t, 80, fx.overlay.Last())

	config := testConfig()
	config.Pomodoro.Focus = time.Hour
	fx.coordinator.UpdateConfig(config)

	require.True(t, fx.coordinator.StartPomodoro())
	require.Eventually(t, func() bool { return fx.overlay.Last() == 50 }, time.Second, time.Millisecond)

	fx.coordinator.StopPomodoro()
	require.Eventually(t, func() bool { return fx.overlay.Last() == 80 }, time.Second, time.Millisecond)
}

func TestShutdownStopsAndPersistsSynchronously(t *testing.T) {
	fx := newFixture(t)

	fx.coordinator.StartTask("a")
	fx.coordinator.CreateTask("b")
	fx.clock.Advance(2 * time.Minute)
	require.NoError(t, fx.coordinator.Shutdown(context.Background()))

	batches := fx.persister.Batches()
	require.Len(t, batches, 1)
	assert.Equal(t, map[string]int{"a": 1, "b": 1}, countByName(batches[0]))
	for _, current := range batches[0] {
		assert.Equal(t, session.StatusInProgress, current.Status)
	}
	assert.False(t, fx.coordinator.MonitorRunning())
	assert.False(t, fx.coordinator.PomodoroState().Running)

	require.NoError(t, fx.coordinator.Shutdown(context.Background()))
	assert.Len(t, fx.persister.Batches(), 1)
}

func TestShutdownReturnsPersistError(t *testing.T) {
	fx := newFixture(t)
	fx.persister.err = errors.New("disk full")

	fx.coordinator.StartTask("a")
	err := fx.coordinator.Shutdown(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestLegacyAccessors(t *testing.T) {
	fx := newFixture(t)
	assert.Empty(t, fx.coordinator.CurrentTask())

	fx.coordinator.StartTask("first")
	fx.coordinator.StartTask("second")
	fx.coordinator.store.IncrementReminders()

	assert.Equal(t, "first", fx.coordinator.CurrentTask())
	assert.Equal(t, 1, fx.coordinator.ReminderCount())
}

func TestPersistersJoinErrors(t *testing.T) {
	first := &recordingPersister{err: errors.New("notes failed")}
	second := &recordingPersister{}
	third := &recordingPersister{err: errors.New("history failed")}

	err := Persisters{first, nil, second, third}.Persist(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "notes failed")
	assert.Contains(t, err.Error(), "history failed")
	assert.Len(t, second.Batches(), 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = Persisters{second}.Persist(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOpacityFor(t *testing.T) {
	config := model.OverlayConfig{OpacityActive: 100, OpacityBackground: 80, OpacityPomodoro: 50}
	assert.Equal(t, 50, OpacityFor(pomodoro.PhaseFocus, config))
	assert.Equal(t, 100, OpacityFor(pomodoro.PhaseShortBreak, config))
	assert.Equal(t, 100, OpacityFor(pomodoro.PhaseLongBreak, config))
	assert.Equal(t, 80, OpacityFor(pomodoro.PhaseIdle, config))
	assert.Equal(t, 100, OpacityFor(pomodoro.PhaseFocus, model.OverlayConfig{OpacityPomodoro: 140}))
}

func newBlockedFixture(t *testing.T, release chan struct{}) *Coordinator {
	t.Helper()
	blocking := PersisterFunc(func(context.Context, []session.FocusSession) error {
		<-release
		return nil
	})
	coordinator := New(testConfig(), Dependencies{
		Persister: blocking,
		Sink:      snapshot.NewMemorySink(),
	}, Options{
		Engine:         pomodoro.Config{TickInterval: 2 * time.Millisecond, CyclePause: time.Millisecond, StopTimeout: time.Second},
		Monitor:        distraction.Config{StopTimeout: time.Second},
		PersistTimeout: 50 * time.Millisecond,
	}, nil)
	t.Cleanup(func() { close(release) })
	return coordinator
}

func shutdownWithin(t *testing.T, coordinator *Coordinator, limit time.Duration) error {
	t.Helper()
	result := make(chan error, 1)
	go func() {
		result <- coordinator.Shutdown(context.Background())
	}()
	select {
	case err := <-result:
		return err
	case <-time.After(limit):
		t.Fatalf("shutdown still blocked after %s", limit)
		return nil
	}
}

func TestShutdownIsBoundedWhenPersisterIgnoresContext(t *testing.T) {
	coordinator := newBlockedFixture(t, make(chan struct{}))
	coordinator.StartTask("a")
	require.True(t, coordinator.MonitorRunning())
	require.True(t, coordinator.StartPomodoro())

	err := shutdownWithin(t, coordinator, time.Second)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, coordinator.MonitorRunning())
	assert.False(t, coordinator.PomodoroState().Running)
}

func TestShutdownIsBoundedWhenBackgroundPersistHoldsTheLock(t *testing.T) {
	coordinator := newBlockedFixture(t, make(chan struct{}))
	coordinator.StartTask("a")
	coordinator.StopTask("a", session.StatusCompleted)
	coordinator.StartTask("b")

	err := shutdownWithin(t, coordinator, time.Second)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, coordinator.MonitorRunning())
}

func TestLifecycleStartsAreIgnoredAfterShutdown(t *testing.T) {
	fx := newFixture(t)
	require.NoError(t, fx.coordinator.Shutdown(context.Background()))

	fx.coordinator.StartTask("late")
	assert.False(t, fx.coordinator.MonitorRunning())
	assert.Empty(t, fx.coordinator.TrackingSessions())

	assert.False(t, fx.coordinator.StartPomodoro())
	assert.False(t, fx.coordinator.PomodoroState().Running)
}
