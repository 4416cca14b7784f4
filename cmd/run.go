package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"focusdesk/internal/core/coordinator"
	"focusdesk/internal/core/snapshot"
	"focusdesk/internal/notify"
	"focusdesk/internal/platform"

	"github.com/spf13/cobra"
)

func runCmd(options *globalOptions) *cobra.Command {
	var (
		startPomodoro bool
		taskNames     []string
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the tracker without the tray until interrupted",
		Long: `Run the Pomodoro engine and focus tracker headless.
Notifications go to the log. On SIGINT or SIGTERM every active task is
stopped as in progress and written to the notes and session history.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, logger := options.bootstrap()
			defer logger.Close()

			persisters, closeHistory := openPersisters(settings, logger.Logger)
			defer closeHistory()

			deps := coordinator.Dependencies{
				Notifier:  notify.NewLogNotifier(logger.Logger),
				Probe:     platform.NewActiveWindowProbe(),
				Persister: persisters,
				Sink:      snapshot.FileSink{},
			}
			if settings.FocusAssistEnabled {
				deps.FocusAssist = platform.NewFocusAssist(logger.Logger)
			}
			core := coordinator.New(settings.Config(), deps, coordinator.Options{}, logger.Logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			for _, name := range taskNames {
				core.CreateTask(name)
				core.StartTask(name)
			}
			if startPomodoro {
				core.StartPomodoro()
			}
			logger.Info("running", "tasks", len(taskNames), "pomodoro", startPomodoro)

			<-ctx.Done()
			logger.Info("shutting down")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return core.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().BoolVarP(&startPomodoro, "pomodoro", "p", false, "Start the Pomodoro cycle")
	cmd.Flags().StringArrayVarP(&taskNames, "task", "t", nil, "Create and start a task (repeatable)")
	return cmd
}
