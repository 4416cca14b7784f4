package tray

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

const menuTitle = "FocusDesk"

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnShowTasks      func()
	OnToggleOverlay  func()
	OnTogglePomodoro func()
	OnPreferences    func()
	OnQuit           func()
}

// Manager handles system tray state.
type Manager struct {
	app          desktop.App
	statusItem   *fyne.MenuItem
	tasksItem    *fyne.MenuItem
	pomodoroItem *fyne.MenuItem
	overlayItem  *fyne.MenuItem
	prefsItem    *fyne.MenuItem
	quitItem     *fyne.MenuItem
	callbacks    Callbacks
	running      bool
	statusLabel  string
	tracking     int
}

// New creates a tray manager with the provided callbacks.
func New(app desktop.App, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:         app,
		callbacks:   callbacks,
		statusLabel: "idle",
	}

	manager.statusItem = fyne.NewMenuItem("Status: idle", nil)
	manager.statusItem.Disabled = true
	manager.tasksItem = fyne.NewMenuItem("Focus tasks...", invoke(&manager.callbacks.OnShowTasks))
	manager.pomodoroItem = fyne.NewMenuItem("Start Pomodoro", invoke(&manager.callbacks.OnTogglePomodoro))
	manager.overlayItem = fyne.NewMenuItem("Mini window", invoke(&manager.callbacks.OnToggleOverlay))
	manager.prefsItem = fyne.NewMenuItem("Preferences", invoke(&manager.callbacks.OnPreferences))
	manager.quitItem = fyne.NewMenuItem("Quit", invoke(&manager.callbacks.OnQuit))
	manager.quitItem.IsQuit = true

	manager.refreshMenu()
	return manager
}

// SetStatus updates the status label, for example "focus 23 min".
func (manager *Manager) SetStatus(status string) {
	manager.statusLabel = status
	manager.refreshStatus()
}

// SetTracking updates the number of tracked tasks shown next to the status.
func (manager *Manager) SetTracking(count int) {
	manager.tracking = count
	manager.refreshStatus()
}

// SetPomodoroRunning switches the Pomodoro menu item label.
func (manager *Manager) SetPomodoroRunning(running bool) {
	manager.running = running
	if running {
		manager.pomodoroItem.Label = "Stop Pomodoro"
	} else {
		manager.pomodoroItem.Label = "Start Pomodoro"
	}
	manager.refreshMenu()
}

// StatusLabel returns the current status line.
func (manager *Manager) StatusLabel() string {
	return manager.statusItem.Label
}

func (manager *Manager) refreshStatus() {
	status := manager.statusLabel
	if manager.tracking > 0 {
		status = fmt.Sprintf("%s, tracking %d", status, manager.tracking)
	}
	manager.statusItem.Label = fmt.Sprintf("Status: %s", status)
	manager.refreshMenu()
}

func (manager *Manager) refreshMenu() {
	if manager.app == nil {
		return
	}
	manager.app.SetSystemTrayMenu(fyne.NewMenu(menuTitle,
		manager.statusItem,
		fyne.NewMenuItemSeparator(),
		manager.tasksItem,
		manager.pomodoroItem,
		manager.overlayItem,
		manager.prefsItem,
		fyne.NewMenuItemSeparator(),
		manager.quitItem,
	))
}

func invoke(callback *func()) func() {
	return func() {
		if *callback != nil {
			(*callback)()
		}
	}
}
