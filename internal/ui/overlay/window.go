package overlay

import (
	"context"
	"fmt"
	"image/color"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// Status is what the mini window renders on every refresh.
type Status struct {
	Mode      string
	Remaining time.Duration
	Running   bool
	Task      string
	Tracking  int
	Reminders int
}

// Source returns the current status. It is called off the UI thread.
type Source func() Status

// Window is a small always-available status panel.
type Window struct {
	app        fyne.App
	window     fyne.Window
	source     Source
	background *canvas.Rectangle
	modeLabel  *canvas.Text
	timerLabel *canvas.Text
	taskLabel  *widget.Label
	toggle     *widget.Button
	onToggle   func()
	visible    bool
	alpha      uint8
	cancel     context.CancelFunc
}

const (
	miniWidthFraction  = float32(0.14)
	miniHeightFraction = float32(0.08)
	defaultScreenWidth = float32(1920)
	defaultScreenHigh  = float32(1080)
	refreshInterval    = time.Second
)

type splashWindowDriver interface {
	CreateSplashWindow() fyne.Window
}

// New creates the hidden mini window.
func New(app fyne.App, source Source) *Window {
	window := app.NewWindow("FocusDesk")
	if driver, ok := app.Driver().(splashWindowDriver); ok {
		// Splash window is undecorated (no native frame/buttons).
		window = driver.CreateSplashWindow()
	}
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}
	window.SetPadded(false)

	background := canvas.NewRectangle(color.NRGBA{R: 24, G: 24, B: 28, A: 255})

	modeLabel := canvas.NewText("Idle", color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	modeLabel.TextStyle = fyne.TextStyle{Bold: true}
	modeLabel.TextSize = 14

	timerLabel := canvas.NewText("--:--", color.NRGBA{R: 232, G: 190, B: 66, A: 255})
	timerLabel.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	timerLabel.TextSize = 22

	taskLabel := widget.NewLabel("No task")
	taskLabel.Truncation = fyne.TextTruncateEllipsis

	mini := &Window{
		app:        app,
		window:     window,
		source:     source,
		background: background,
		modeLabel:  modeLabel,
		timerLabel: timerLabel,
		taskLabel:  taskLabel,
		alpha:      255,
	}
	mini.toggle = widget.NewButton("Start", func() {
		if mini.onToggle != nil {
			mini.onToggle()
		}
	})

	header := container.NewHBox(modeLabel, timerLabel)
	content := container.NewBorder(header, nil, nil, mini.toggle, taskLabel)
	window.SetContent(container.NewStack(background, container.NewPadded(content)))
	window.SetCloseIntercept(mini.Hide)
	return mini
}

// SetOnToggle sets the Pomodoro start/stop handler.
func (mini *Window) SetOnToggle(handler func()) {
	mini.onToggle = handler
}

// Start begins refreshing from the source until ctx ends or Close is called.
func (mini *Window) Start(ctx context.Context) {
	ctx, mini.cancel = context.WithCancel(ctx)
	go func() {
		ticker := time.NewTicker(refreshInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if mini.source == nil {
					continue
				}
				status := mini.source()
				fyne.Do(func() {
					mini.render(status)
				})
			}
		}
	}()
}

// Close stops refreshing.
func (mini *Window) Close() {
	if mini.cancel != nil {
		mini.cancel()
		mini.cancel = nil
	}
}

// Show displays the window near the top of the screen.
func (mini *Window) Show() {
	mini.visible = true
	if mini.source != nil {
		mini.render(mini.source())
	}
	mini.resizeToScreenFraction()
	mini.window.Show()
	mini.applyNativeOpacity(mini.alpha)
}

// Hide closes the window without disposing it.
func (mini *Window) Hide() {
	mini.visible = false
	mini.window.Hide()
}

// Toggle flips visibility.
func (mini *Window) Toggle() {
	if mini.visible {
		mini.Hide()
		return
	}
	mini.Show()
}

// SetOpacity follows the Pomodoro phase. Safe to call from any goroutine.
func (mini *Window) SetOpacity(percent int) {
	alpha := AlphaFor(percent)
	fyne.Do(func() {
		mini.alpha = alpha
		mini.background.FillColor = color.NRGBA{R: 24, G: 24, B: 28, A: alpha}
		canvas.Refresh(mini.background)
		if mini.visible {
			mini.applyNativeOpacity(alpha)
		}
	})
}

func (mini *Window) render(status Status) {
	mini.modeLabel.Text = ModeTitle(status.Mode, status.Running)
	mini.modeLabel.Refresh()
	if status.Running {
		mini.timerLabel.Text = formatDuration(status.Remaining)
		mini.toggle.SetText("Stop")
	} else {
		mini.timerLabel.Text = "--:--"
		mini.toggle.SetText("Start")
	}
	mini.timerLabel.Refresh()
	mini.taskLabel.SetText(TaskLine(status))
}

func (mini *Window) resizeToScreenFraction() {
	screenSize := fyne.NewSize(defaultScreenWidth, defaultScreenHigh)
	canvasSize := mini.window.Canvas().Size()
	if canvasSize.Width >= 1024 && canvasSize.Height >= 720 {
		screenSize = canvasSize
	}

	width := screenSize.Width * miniWidthFraction
	height := screenSize.Height * miniHeightFraction
	minSize := mini.window.Content().MinSize()
	if width < minSize.Width {
		width = minSize.Width
	}
	if height < minSize.Height {
		height = minSize.Height
	}
	mini.window.Resize(fyne.NewSize(width, height))
}

// AlphaFor converts an opacity percentage to an 8-bit alpha.
func AlphaFor(percent int) uint8 {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	return uint8(percent * 255 / 100)
}

// ModeTitle returns the heading for a Pomodoro mode.
func ModeTitle(mode string, running bool) string {
	if !running {
		return "Idle"
	}
	switch mode {
	case "focus":
		return "Focus"
	case "short_break":
		return "Short break"
	case "long_break":
		return "Long break"
	}
	return mode
}

// TaskLine describes the tracked task and its reminders.
func TaskLine(status Status) string {
	if status.Task == "" {
		return "No task"
	}
	line := status.Task
	if status.Tracking > 1 {
		line = fmt.Sprintf("%s (+%d)", line, status.Tracking-1)
	}
	if status.Reminders > 0 {
		line = fmt.Sprintf("%s 🔴 %d", line, status.Reminders)
	}
	return line
}

func formatDuration(value time.Duration) string {
	if value < 0 {
		value = 0
	}
	seconds := int(value.Round(time.Second).Seconds())
	minutes := seconds / 60
	seconds = seconds % 60
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}
