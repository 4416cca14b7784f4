package main

import (
	"fmt"
	"log/slog"
	"os"

	"focusdesk/internal/core/coordinator"
	"focusdesk/internal/logging"
	"focusdesk/internal/notes"
	"focusdesk/internal/storage"
	"focusdesk/internal/ui/preferences"

	"github.com/spf13/cobra"
)

const appName = preferences.AppName

var Version = "dev"

type globalOptions struct {
	verbose    bool
	configPath string
}

func main() {
	options := &globalOptions{}
	rootCmd := &cobra.Command{
		Use:           "focusdesk",
		Short:         "Pomodoro timer and focus tracker for the desktop",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTray(options)
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&options.verbose, "verbose", "v", false, "Log at debug level")
	rootCmd.PersistentFlags().StringVar(&options.configPath, "config", "", "Settings file (default: user config dir)")

	rootCmd.AddCommand(runCmd(options))
	rootCmd.AddCommand(statusCmd(options))
	rootCmd.AddCommand(historyCmd(options))
	rootCmd.AddCommand(autostartCmd())
	rootCmd.AddCommand(configCmd(options))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (options *globalOptions) settingsPath() (string, error) {
	if options.configPath != "" {
		return options.configPath, nil
	}
	return storage.SettingsPath(appName)
}

// loadSettings never fails hard: a broken file still yields defaults.
func (options *globalOptions) loadSettings() (preferences.Settings, error) {
	path, err := options.settingsPath()
	if err != nil {
		return preferences.DefaultSettings(), err
	}
	return storage.LoadSettingsFrom(path)
}

func (options *globalOptions) bootstrap() (preferences.Settings, *logging.Logger) {
	settings, settingsErr := options.loadSettings()
	logger, err := logging.New(logging.Options{
		Level:   settings.LogLevel,
		File:    settings.LogFile,
		Verbose: options.verbose,
	})
	slog.SetDefault(logger.Logger)
	if err != nil {
		logger.Warn("logger setup", "error", err)
	}
	if settingsErr != nil {
		logger.Warn("load settings, using defaults", "error", settingsErr)
	}
	return settings, logger
}

// openPersisters builds the notes journal and the session history. A history database that
// cannot be opened is logged and left out.
func openPersisters(settings preferences.Settings, logger *slog.Logger) (coordinator.Persisters, func()) {
	persisters := coordinator.Persisters{
		notes.NewJournal(settings.DailyNotesDir, settings.VaultDir, logger),
	}
	closeFn := func() {}

	history, err := storage.OpenHistory(settings.HistoryDB)
	if err != nil {
		logger.Warn("session history unavailable", "path", settings.HistoryDB, "error", err)
		return persisters, closeFn
	}
	persisters = append(persisters, history)
	closeFn = func() {
		if err := history.Close(); err != nil {
			logger.Warn("close session history", "error", err)
		}
	}
	return persisters, closeFn
}
