package pomodoro

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"focusdesk/internal/core/model"
	"focusdesk/internal/core/snapshot"
	"focusdesk/internal/notify"
)

// Flusher force-stops and persists focus sessions at the end of a focus phase.
type Flusher interface {
	FlushSessions(ctx context.Context)
}

// FocusAssist toggles the operating system do-not-disturb mode.
type FocusAssist interface {
	SetFocusAssist(enabled bool) error
}

// DefaultCyclePause is the wait between a break and the next focus phase.
const DefaultCyclePause = 10 * time.Second

// Config contains runtime options for the engine. Zero values use production defaults.
type Config struct {
	TickInterval time.Duration
	CyclePause   time.Duration
	StopTimeout  time.Duration
}

// Engine runs the focus/break cycle on a single background loop.
type Engine struct {
	mu        sync.Mutex
	config    model.PomodoroConfig
	options   Config
	notifier  notify.Notifier
	publisher *snapshot.Publisher
	flusher   Flusher
	assist    FocusAssist
	logger    *slog.Logger
	events    []chan Event

	phase      Phase
	cycleCount int
	phaseEnd   time.Time
	phaseTotal time.Duration
	running    bool
	cancel     context.CancelFunc
	done       chan struct{}
}

// New creates an idle engine with the provided configuration.
func New(config model.PomodoroConfig, options Config, notifier notify.Notifier, publisher *snapshot.Publisher, logger *slog.Logger) *Engine {
	if options.TickInterval <= 0 {
		options.TickInterval = time.Minute
	}
	if options.CyclePause <= 0 {
		options.CyclePause = DefaultCyclePause
	}
	if options.StopTimeout <= 0 {
		options.StopTimeout = 5 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "pomodoro")

	return &Engine{
		config:    config.Normalized(),
		options:   options,
		notifier:  notify.Safe(notifier, logger),
		publisher: publisher,
		logger:    logger,
		phase:     PhaseIdle,
	}
}

// SetFlusher injects the focus-phase flush hook.
func (engine *Engine) SetFlusher(flusher Flusher) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	engine.flusher = flusher
}

// SetFocusAssist injects the do-not-disturb toggle.
func (engine *Engine) SetFocusAssist(assist FocusAssist) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	engine.assist = assist
}

// UpdateConfig replaces the configuration used by the next Start.
func (engine *Engine) UpdateConfig(config model.PomodoroConfig) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	engine.config = config.Normalized()
}

// Subscribe registers a new observer channel. Slow observers miss events.
func (engine *Engine) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	engine.mu.Lock()
	engine.events = append(engine.events, ch)
	engine.mu.Unlock()
	return ch
}

// Running reports whether the cycle loop is active.
func (engine *Engine) Running() bool {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.running
}

// State returns a copy of the current engine state.
func (engine *Engine) State() State {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.stateLocked(time.Now())
}

// Start launches the cycle loop. Starting a running engine is a no-op.
// Cycles are counted per run: each Start resets the count, so the stop
// summary reports only cycles completed since the last Start.
func (engine *Engine) Start() bool {
	engine.mu.Lock()
	if engine.running {
		engine.mu.Unlock()
		engine.logger.Warn("pomodoro already running")
		return false
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	config := engine.config
	engine.running = true
	engine.cycleCount = 0
	engine.cancel = cancel
	engine.done = done
	engine.mu.Unlock()

	go engine.run(ctx, done, config)
	engine.logger.Info("pomodoro started",
		"focus", config.Focus,
		"short_break", config.ShortBreak,
		"long_break", config.LongBreak,
		"cycles_before_long_break", config.CyclesBeforeLongBreak,
	)
	return true
}

// Stop cancels the loop, waits up to the stop timeout and reports the completed cycles.
// Stopping an idle engine is a no-op.
func (engine *Engine) Stop() {
	engine.mu.Lock()
	if !engine.running {
		engine.mu.Unlock()
		return
	}
	done := engine.done
	engine.cancel()
	engine.running = false
	engine.cancel = nil
	engine.done = nil
	engine.phase = PhaseIdle
	engine.phaseEnd = time.Time{}
	engine.phaseTotal = 0
	engine.mu.Unlock()

	select {
	case <-done:
	case <-time.After(engine.options.StopTimeout):
		engine.logger.Warn("pomodoro loop did not stop in time", "timeout", engine.options.StopTimeout)
	}

	engine.setFocusAssist(false)
	if engine.publisher != nil {
		engine.publisher.ClearPomodoro()
	}

	engine.mu.Lock()
	cycles := engine.cycleCount
	engine.emitLocked(Event{Type: EventStopped, Phase: PhaseIdle, Cycle: cycles, At: time.Now()})
	engine.mu.Unlock()

	engine.logger.Info("pomodoro stopped", "cycles", cycles)
	engine.notifier.Notify(notify.KindSuccess, "Pomodoro Complete", fmt.Sprintf("You completed %d cycle(s). Great work!", cycles))
}

// Close stops the engine and closes observer channels.
func (engine *Engine) Close() {
	engine.Stop()
	engine.mu.Lock()
	events := engine.events
	engine.events = nil
	engine.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

func (engine *Engine) run(ctx context.Context, done chan struct{}, config model.PomodoroConfig) {
	defer close(done)
	defer engine.recoverLoop(done)

	for ctx.Err() == nil {
		cycle := engine.beginCycle()

		engine.logger.Info("starting focus session", "cycle", cycle, "duration", config.Focus)
		engine.setFocusAssist(true)
		engine.notifier.Notify(notify.KindInfo,
			fmt.Sprintf("Focus Session %d", cycle),
			fmt.Sprintf("Time to focus for %d minutes! 🎯", ceilMinutes(config.Focus)))
		if !engine.runPhase(ctx, PhaseFocus, config.Focus) {
			return
		}
		engine.logger.Info("focus session completed", "cycle", cycle)
		engine.flush(ctx)

		phase, duration := BreakFor(cycle, config)
		title := "Short Break"
		if phase == PhaseLongBreak {
			title = "Long Break"
		}
		engine.logger.Info("starting break", "kind", title, "duration", duration)
		engine.setFocusAssist(false)
		engine.notifier.Notify(notify.KindInfo, title,
			fmt.Sprintf("Take a break for %d minutes. Stand up, stretch, hydrate! ☕", ceilMinutes(duration)))
		if !engine.runPhase(ctx, phase, duration) {
			return
		}
		engine.logger.Info("break completed", "kind", title)

		if !sleepWithContext(ctx, engine.options.CyclePause) {
			return
		}
	}
}

// BreakFor returns the break that follows the given focus cycle.
func BreakFor(cycle int, config model.PomodoroConfig) (Phase, time.Duration) {
	config = config.Normalized()
	if cycle > 0 && cycle%config.CyclesBeforeLongBreak == 0 {
		return PhaseLongBreak, config.LongBreak
	}
	return PhaseShortBreak, config.ShortBreak
}

func (engine *Engine) beginCycle() int {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	engine.cycleCount++
	return engine.cycleCount
}

// runPhase blocks until the phase ends by wall clock or ctx is cancelled.
func (engine *Engine) runPhase(ctx context.Context, phase Phase, duration time.Duration) bool {
	start := time.Now()
	end := start.Add(duration)

	engine.mu.Lock()
	if ctx.Err() != nil {
		engine.mu.Unlock()
		return false
	}
	engine.phase = phase
	engine.phaseEnd = end
	engine.phaseTotal = duration
	engine.emitLocked(Event{
		Type:      EventPhaseChange,
		Phase:     phase,
		Cycle:     engine.cycleCount,
		Remaining: duration,
		Total:     duration,
		At:        start,
	})
	engine.mu.Unlock()

	for {
		now := time.Now()
		if !now.Before(end) {
			return true
		}
		remaining := end.Sub(now)
		engine.mu.Lock()
		if ctx.Err() != nil {
			engine.mu.Unlock()
			return false
		}
		engine.publish(phase, remaining)
		engine.emitLocked(Event{
			Type:      EventProgress,
			Phase:     phase,
			Cycle:     engine.cycleCount,
			Remaining: remaining,
			Total:     duration,
			Progress:  progress(remaining, duration),
			At:        now,
		})
		engine.mu.Unlock()

		if !sleepWithContext(ctx, min(engine.options.TickInterval, remaining)) {
			return false
		}
	}
}

func (engine *Engine) flush(ctx context.Context) {
	engine.mu.Lock()
	flusher := engine.flusher
	engine.mu.Unlock()
	if flusher == nil {
		return
	}
	flusher.FlushSessions(ctx)
}

func (engine *Engine) publish(phase Phase, remaining time.Duration) {
	if engine.publisher == nil {
		return
	}
	mode, ok := phase.Mode()
	if !ok {
		return
	}
	engine.publisher.PublishPomodoro(mode, ceilMinutes(remaining))
}

func (engine *Engine) setFocusAssist(enabled bool) {
	engine.mu.Lock()
	assist := engine.assist
	engine.mu.Unlock()
	if assist == nil {
		return
	}
	if err := assist.SetFocusAssist(enabled); err != nil {
		engine.logger.Warn("failed to set focus assist", "enabled", enabled, "error", err)
		return
	}
	engine.logger.Debug("focus assist set", "enabled", enabled)
}

func (engine *Engine) recoverLoop(done chan struct{}) {
	recovered := recover()
	if recovered == nil {
		return
	}
	engine.logger.Error("error in pomodoro loop", "panic", recovered)

	engine.mu.Lock()
	owned := engine.done == done
	if owned {
		engine.running = false
		engine.cancel = nil
		engine.done = nil
		engine.phase = PhaseIdle
		engine.phaseEnd = time.Time{}
		engine.phaseTotal = 0
	}
	engine.mu.Unlock()

	if owned && engine.publisher != nil {
		engine.publisher.ClearPomodoro()
	}
}

func (engine *Engine) stateLocked(now time.Time) State {
	state := State{
		Phase:      engine.phase,
		CycleCount: engine.cycleCount,
		Running:    engine.running,
		Total:      engine.phaseTotal,
	}
	if !engine.phaseEnd.IsZero() && now.Before(engine.phaseEnd) {
		state.Remaining = engine.phaseEnd.Sub(now)
	}
	return state
}

func (engine *Engine) emitLocked(event Event) {
	for _, ch := range engine.events {
		select {
		case ch <- event:
		default:
		}
	}
}

func ceilMinutes(remaining time.Duration) int {
	if remaining <= 0 {
		return 0
	}
	return int(math.Ceil(remaining.Minutes()))
}

func progress(remaining, total time.Duration) float64 {
	if total <= 0 {
		return 1
	}
	return 1 - float64(remaining)/float64(total)
}

func sleepWithContext(ctx context.Context, duration time.Duration) bool {
	if duration <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
