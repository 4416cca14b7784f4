package tray

import (
	"focusdesk/internal/notify"

	"fyne.io/fyne/v2"
)

// Notifier sends desktop notifications through the fyne app.
type Notifier struct {
	app fyne.App
}

// NewNotifier wraps app as a notify.Notifier.
func NewNotifier(app fyne.App) *Notifier {
	return &Notifier{app: app}
}

// Notify implements notify.Notifier.
func (notifier *Notifier) Notify(kind notify.Kind, title, message string) {
	notification := fyne.NewNotification(notify.Decorate(kind, title), message)
	fyne.Do(func() {
		notifier.app.SendNotification(notification)
	})
}
