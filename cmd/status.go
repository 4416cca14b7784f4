package main

import (
	"fmt"

	"focusdesk/internal/ui/status"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func statusCmd(options *globalOptions) *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the published Pomodoro and tracker state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, loadErr := options.loadSettings()
			if loadErr != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", loadErr)
			}

			if watch {
				model := status.NewModel(settings.PomodoroStateFile, settings.FocusStateFile)
				if _, err := tea.NewProgram(model).Run(); err != nil {
					return fmt.Errorf("run status view: %w", err)
				}
				return nil
			}

			reading, err := status.Read(settings.PomodoroStateFile, settings.FocusStateFile)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), status.Plain(reading))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Keep refreshing in a terminal view")
	return cmd
}
