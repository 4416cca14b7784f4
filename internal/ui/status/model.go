package status

import (
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
)

const refreshInterval = time.Second

type (
	tickMsg    time.Time
	watchMsg   struct{}
	readingMsg struct {
		reading Reading
		err     error
	}
)

// Model is the bubbletea status view over the two state files.
type Model struct {
	pomodoroPath string
	focusPath    string
	reading      Reading
	err          error
}

// NewModel watches the given state files.
func NewModel(pomodoroPath, focusPath string) Model {
	return Model{pomodoroPath: pomodoroPath, focusPath: focusPath}
}

// Reading returns the last successful read.
func (model Model) Reading() Reading {
	return model.reading
}

func (model Model) Init() tea.Cmd {
	return tea.Batch(model.readCmd(), tickCmd(), model.watchCmd())
}

func (model Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return model, tea.Quit
		case "r":
			return model, model.readCmd()
		}
	case tickMsg:
		return model, tea.Batch(model.readCmd(), tickCmd())
	case watchMsg:
		return model, tea.Batch(model.readCmd(), model.watchCmd())
	case readingMsg:
		model.err = msg.err
		if msg.err == nil {
			model.reading = msg.reading
		}
	}
	return model, nil
}

func (model Model) View() string {
	view := Render(model.reading)
	if model.err != nil {
		view += "\n" + focusStyle.Render(model.err.Error())
	}
	return view + "\n" + dimStyle.Render("q quit, r refresh") + "\n"
}

func (model Model) readCmd() tea.Cmd {
	pomodoroPath, focusPath := model.pomodoroPath, model.focusPath
	return func() tea.Msg {
		reading, err := Read(pomodoroPath, focusPath)
		return readingMsg{reading: reading, err: err}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// watchCmd blocks until one of the state files changes. Without a watcher the tick still refreshes.
func (model Model) watchCmd() tea.Cmd {
	paths := map[string]struct{}{
		filepath.Clean(model.pomodoroPath): {},
		filepath.Clean(model.focusPath):    {},
	}
	return func() tea.Msg {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return nil
		}
		defer watcher.Close()

		for path := range paths {
			_ = watcher.Add(filepath.Dir(path))
		}

		for {
			select {
			case evt, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if _, watched := paths[filepath.Clean(evt.Name)]; !watched {
					continue
				}
				if evt.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
					return watchMsg{}
				}
			case _, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
			}
		}
	}
}
