package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"focusdesk/internal/core/coordinator"
	"focusdesk/internal/core/pomodoro"
	"focusdesk/internal/core/snapshot"
	"focusdesk/internal/notify"
	"focusdesk/internal/platform"
	"focusdesk/internal/storage"
	"focusdesk/internal/ui/overlay"
	"focusdesk/internal/ui/preferences"
	"focusdesk/internal/ui/tasks"
	"focusdesk/internal/ui/tray"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

const shutdownTimeout = 5 * time.Second

func runTray(options *globalOptions) error {
	settings, logger := options.bootstrap()
	defer logger.Close()

	guard, err := platform.AcquireSingleInstance(appName)
	if err != nil {
		if activateErr := platform.ActivateRunningInstance(appName); activateErr != nil {
			logger.Warn("single instance", "error", err, "activate_error", activateErr)
			return nil
		}
		logger.Info("handed off to running instance", "address", platform.InstanceAddress(appName))
		return nil
	}
	defer func() {
		_ = guard.Release()
	}()

	fyneApp := app.NewWithID("com.focusdesk.app")
	desktopApp, ok := fyneApp.(desktop.App)
	if !ok {
		return errors.New("system tray unsupported on this platform")
	}

	trayWindow := fyneApp.NewWindow("FocusDesk")
	trayWindow.SetContent(widget.NewLabel("FocusDesk is running in the system tray."))
	trayWindow.SetCloseIntercept(func() {
		trayWindow.Hide()
	})
	trayWindow.Hide()
	desktopApp.SetSystemTrayWindow(trayWindow)

	persisters, closeHistory := openPersisters(settings, logger.Logger)
	defer closeHistory()

	var (
		core    *coordinator.Coordinator
		uiReady atomic.Bool
	)
	mini := overlay.New(fyneApp, func() overlay.Status {
		state := core.PomodoroState()
		return overlay.Status{
			Mode:      string(state.Phase),
			Remaining: state.Remaining,
			Running:   state.Running,
			Task:      core.CurrentTask(),
			Tracking:  len(core.TrackingSessions()),
			Reminders: core.ReminderCount(),
		}
	})

	deps := coordinator.Dependencies{
		Notifier:  tray.NewNotifier(fyneApp),
		Probe:     platform.NewActiveWindowProbe(),
		Persister: persisters,
		Sink:      snapshot.FileSink{},
		Overlay: coordinator.OverlayFunc(func(percent int) {
			if uiReady.Load() {
				mini.SetOpacity(percent)
			}
		}),
	}
	if settings.FocusAssistEnabled {
		deps.FocusAssist = platform.NewFocusAssist(logger.Logger)
	}
	core = coordinator.New(settings.Config(), deps, coordinator.Options{}, logger.Logger)
	mini.SetOnToggle(func() { togglePomodoro(core) })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	mini.Start(ctx)
	defer mini.Close()

	tasksWindow := tasks.New(fyneApp, core)
	guard.OnActivate(func() {
		if uiReady.Load() {
			fyne.Do(tasksWindow.Show)
		}
	})

	prefsWindow := preferences.New(fyneApp, settings, func(updated preferences.Settings) {
		settings = updated
		core.UpdateConfig(settings.Config())
		path, err := options.settingsPath()
		if err == nil {
			err = storage.SaveSettingsTo(path, settings)
		}
		if err != nil {
			logger.Warn("save settings", "error", err)
			deps.Notifier.Notify(notify.KindError, "Settings", "Could not save settings")
		}
	})

	var trayManager *tray.Manager
	trayManager = tray.New(desktopApp, tray.Callbacks{
		OnShowTasks:      tasksWindow.Show,
		OnToggleOverlay:  mini.Toggle,
		OnTogglePomodoro: func() { togglePomodoro(core) },
		OnPreferences:    prefsWindow.Show,
		OnQuit: func() {
			shutdown(core, logger.Logger)
			fyneApp.Quit()
		},
	})

	events := core.PomodoroEvents(16)
	go func() {
		for event := range events {
			status := trayStatus(event)
			running := event.Type != pomodoro.EventStopped
			tracking := len(core.TrackingSessions())
			fyne.Do(func() {
				trayManager.SetPomodoroRunning(running)
				trayManager.SetStatus(status)
				trayManager.SetTracking(tracking)
				if event.Type == pomodoro.EventPhaseChange {
					tasksWindow.Refresh()
				}
			})
		}
	}()

	fyneApp.Lifecycle().SetOnStarted(func() {
		uiReady.Store(true)
		mini.SetOpacity(coordinator.OpacityFor(core.PomodoroState().Phase, core.Config().Overlay))
	})
	fyneApp.Lifecycle().SetOnStopped(func() {
		shutdown(core, logger.Logger)
	})
	fyneApp.Run()
	return nil
}

func togglePomodoro(core *coordinator.Coordinator) {
	if core.PomodoroState().Running {
		core.StopPomodoro()
		return
	}
	core.StartPomodoro()
}

func shutdown(core *coordinator.Coordinator, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := core.Shutdown(ctx); err != nil {
		logger.Warn("shutdown", "error", err)
	}
}

func trayStatus(event pomodoro.Event) string {
	if event.Type == pomodoro.EventStopped || event.Phase == pomodoro.PhaseIdle {
		return "idle"
	}
	minutes := int((event.Remaining + time.Minute - 1) / time.Minute)
	return fmt.Sprintf("%s %d min", overlay.ModeTitle(string(event.Phase), true), minutes)
}
