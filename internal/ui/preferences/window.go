package preferences

import (
	"strconv"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

var logLevels = []string{"debug", "info", "warning", "error"}

// Window handles the preferences UI.
type Window struct {
	window      fyne.Window
	settings    Settings
	onSave      func(Settings)
	focus       *widget.Entry
	shortBreak  *widget.Entry
	longBreak   *widget.Entry
	cycles      *widget.Entry
	interval    *widget.Entry
	cooldown    *widget.Entry
	apps        *widget.Entry
	opActive    *widget.Slider
	opIdle      *widget.Slider
	opPomodoro  *widget.Slider
	focusAssist *widget.Check
	logLevel    *widget.Select
}

// New creates a preferences window.
func New(app fyne.App, settings Settings, onSave func(Settings)) *Window {
	window := app.NewWindow("FocusDesk Settings")

	prefs := &Window{
		window:      window,
		onSave:      onSave,
		focus:       widget.NewEntry(),
		shortBreak:  widget.NewEntry(),
		longBreak:   widget.NewEntry(),
		cycles:      widget.NewEntry(),
		interval:    widget.NewEntry(),
		cooldown:    widget.NewEntry(),
		apps:        widget.NewMultiLineEntry(),
		opActive:    percentSlider(),
		opIdle:      percentSlider(),
		opPomodoro:  percentSlider(),
		focusAssist: widget.NewCheck("Silence notifications during focus", nil),
		logLevel:    widget.NewSelect(logLevels, nil),
	}
	prefs.apps.SetPlaceHolder("one application per line")
	prefs.apps.SetMinRowsVisible(4)

	form := container.NewVBox(
		widget.NewLabelWithStyle("Pomodoro", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		row("Focus", prefs.focus, "min"),
		row("Short break", prefs.shortBreak, "min"),
		row("Long break", prefs.longBreak, "min"),
		row("Long break every", prefs.cycles, "cycles"),
		prefs.focusAssist,
		widget.NewLabelWithStyle("Focus tracker", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		row("Check every", prefs.interval, "sec"),
		row("Reminder cooldown", prefs.cooldown, "min"),
		widget.NewLabel("Distraction apps"),
		prefs.apps,
		widget.NewLabelWithStyle("Mini window opacity", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabel("Break"), prefs.opActive,
		widget.NewLabel("Idle"), prefs.opIdle,
		widget.NewLabel("Focus"), prefs.opPomodoro,
		container.NewHBox(widget.NewLabel("Log level"), prefs.logLevel),
	)

	saveButton := widget.NewButton("Save", prefs.handleSave)
	cancelButton := widget.NewButton("Cancel", window.Hide)
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, container.NewVScroll(form)))
	window.SetCloseIntercept(window.Hide)
	window.Resize(fyne.NewSize(440, 620))

	prefs.UpdateSettings(settings)
	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings Settings) {
	prefs.settings = settings
	prefs.focus.SetText(strconv.Itoa(int(settings.Focus.Minutes())))
	prefs.shortBreak.SetText(strconv.Itoa(int(settings.ShortBreak.Minutes())))
	prefs.longBreak.SetText(strconv.Itoa(int(settings.LongBreak.Minutes())))
	prefs.cycles.SetText(strconv.Itoa(settings.CyclesBeforeLongBreak))
	prefs.interval.SetText(strconv.Itoa(int(settings.CheckInterval.Seconds())))
	prefs.cooldown.SetText(strconv.Itoa(int(settings.ReminderCooldown.Minutes())))
	prefs.apps.SetText(strings.Join(settings.DistractionApps, "\n"))
	prefs.opActive.SetValue(float64(settings.OpacityActive))
	prefs.opIdle.SetValue(float64(settings.OpacityBackground))
	prefs.opPomodoro.SetValue(float64(settings.OpacityPomodoro))
	prefs.focusAssist.SetChecked(settings.FocusAssistEnabled)
	prefs.logLevel.SetSelected(settings.LogLevel)
}

func (prefs *Window) handleSave() {
	settings := prefs.settings

	if minutes, ok := parsePositiveInt(prefs.focus.Text); ok {
		settings.Focus = time.Duration(minutes) * time.Minute
	}
	if minutes, ok := parsePositiveInt(prefs.shortBreak.Text); ok {
		settings.ShortBreak = time.Duration(minutes) * time.Minute
	}
	if minutes, ok := parsePositiveInt(prefs.longBreak.Text); ok {
		settings.LongBreak = time.Duration(minutes) * time.Minute
	}
	if cycles, ok := parsePositiveInt(prefs.cycles.Text); ok {
		settings.CyclesBeforeLongBreak = cycles
	}
	if seconds, ok := parsePositiveInt(prefs.interval.Text); ok {
		settings.CheckInterval = time.Duration(seconds) * time.Second
	}
	if minutes, err := strconv.Atoi(strings.TrimSpace(prefs.cooldown.Text)); err == nil && minutes >= 0 {
		settings.ReminderCooldown = time.Duration(minutes) * time.Minute
	}

	settings.DistractionApps = splitApps(prefs.apps.Text)
	settings.OpacityActive = int(prefs.opActive.Value)
	settings.OpacityBackground = int(prefs.opIdle.Value)
	settings.OpacityPomodoro = int(prefs.opPomodoro.Value)
	settings.FocusAssistEnabled = prefs.focusAssist.Checked
	if prefs.logLevel.Selected != "" {
		settings.LogLevel = prefs.logLevel.Selected
	}

	prefs.settings = settings
	if prefs.onSave != nil {
		prefs.onSave(settings)
	}
	prefs.window.Hide()
}

func row(label string, entry *widget.Entry, unit string) fyne.CanvasObject {
	return container.NewBorder(nil, nil, widget.NewLabel(label), widget.NewLabel(unit), entry)
}

func percentSlider() *widget.Slider {
	slider := widget.NewSlider(0, 100)
	slider.Step = 5
	return slider
}

func splitApps(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == '\n' || r == ','
	})
	apps := make([]string, 0, len(fields))
	for _, field := range fields {
		if field = strings.TrimSpace(field); field != "" {
			apps = append(apps, field)
		}
	}
	return apps
}

func parsePositiveInt(value string) (int, bool) {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}
