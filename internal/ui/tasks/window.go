package tasks

import (
	"fmt"
	"strings"
	"time"

	"focusdesk/internal/core/session"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// Controller is the task surface of the coordinator.
type Controller interface {
	CreateTask(name string)
	StartTask(name string)
	PauseTask(name string)
	StopTask(name string, status session.Status)
	RestartTask(name string)
	RemoveTask(name string)
	Sessions() []session.FocusSession
}

// Window lists focus tasks and drives their lifecycle.
type Window struct {
	window     fyne.Window
	controller Controller
	list       *widget.List
	entry      *widget.Entry
	rows       []session.FocusSession
	selected   int
	now        func() time.Time
}

// New creates the hidden tasks window.
func New(app fyne.App, controller Controller) *Window {
	window := app.NewWindow("Focus Tasks")
	tasks := &Window{
		window:     window,
		controller: controller,
		entry:      widget.NewEntry(),
		selected:   -1,
		now:        time.Now,
	}
	tasks.entry.SetPlaceHolder("New task name")
	tasks.entry.OnSubmitted = func(string) { tasks.handleAdd() }

	tasks.list = widget.NewList(
		func() int { return len(tasks.rows) },
		func() fyne.CanvasObject { return widget.NewLabel("task") },
		func(id widget.ListItemID, item fyne.CanvasObject) {
			if id < 0 || id >= len(tasks.rows) {
				return
			}
			item.(*widget.Label).SetText(RowText(tasks.rows[id], tasks.now()))
		},
	)
	tasks.list.OnSelected = func(id widget.ListItemID) { tasks.selected = id }
	tasks.list.OnUnselected = func(widget.ListItemID) { tasks.selected = -1 }

	add := widget.NewButton("Add", tasks.handleAdd)
	actions := container.NewGridWithColumns(3,
		widget.NewButton("Start", tasks.withSelected(controller.StartTask)),
		widget.NewButton("Pause", tasks.withSelected(controller.PauseTask)),
		widget.NewButton("Restart", tasks.withSelected(controller.RestartTask)),
		widget.NewButton("Complete", tasks.withSelected(func(name string) {
			controller.StopTask(name, session.StatusCompleted)
		})),
		widget.NewButton("Stop", tasks.withSelected(func(name string) {
			controller.StopTask(name, session.StatusInProgress)
		})),
		widget.NewButton("Remove", tasks.withSelected(controller.RemoveTask)),
	)

	top := container.NewBorder(nil, nil, nil, add, tasks.entry)
	window.SetContent(container.NewBorder(top, actions, nil, nil, tasks.list))
	window.SetCloseIntercept(window.Hide)
	window.Resize(fyne.NewSize(420, 360))
	return tasks
}

// Show refreshes and displays the window.
func (tasks *Window) Show() {
	tasks.Refresh()
	tasks.window.Show()
	tasks.window.RequestFocus()
}

// Refresh reloads rows from the controller. Must run on the UI thread.
func (tasks *Window) Refresh() {
	tasks.rows = tasks.controller.Sessions()
	if tasks.selected >= len(tasks.rows) {
		tasks.selected = -1
		tasks.list.UnselectAll()
	}
	tasks.list.Refresh()
}

func (tasks *Window) handleAdd() {
	name := strings.TrimSpace(tasks.entry.Text)
	if name == "" {
		return
	}
	tasks.controller.CreateTask(name)
	tasks.entry.SetText("")
	tasks.Refresh()
}

func (tasks *Window) withSelected(action func(name string)) func() {
	return func() {
		if tasks.selected < 0 || tasks.selected >= len(tasks.rows) {
			return
		}
		action(tasks.rows[tasks.selected].TaskName)
		tasks.Refresh()
	}
}

// RowText renders one session for the list.
func RowText(current session.FocusSession, now time.Time) string {
	switch {
	case !current.IsStarted() && current.IsActive():
		return fmt.Sprintf("○ %s  pending", current.TaskName)
	case current.IsTracking():
		line := fmt.Sprintf("● %s  %s", current.TaskName, formatElapsed(current.Elapsed(now)))
		if current.ReminderCount > 0 {
			line = fmt.Sprintf("%s 🔴 %d", line, current.ReminderCount)
		}
		return line
	}
	return fmt.Sprintf("✓ %s  %dmin %s", current.TaskName, current.DurationMinutes(), current.Status)
}

func formatElapsed(elapsed time.Duration) string {
	elapsed = elapsed.Round(time.Second)
	hours := int(elapsed.Hours())
	minutes := int(elapsed.Minutes()) % 60
	seconds := int(elapsed.Seconds()) % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}
