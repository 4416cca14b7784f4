package main

import (
	"fmt"
	"text/tabwriter"

	"focusdesk/internal/storage"

	"github.com/spf13/cobra"
)

func historyCmd(options *globalOptions) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recently logged focus sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, loadErr := options.loadSettings()
			if loadErr != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", loadErr)
			}

			history, err := storage.OpenHistory(settings.HistoryDB)
			if err != nil {
				return err
			}
			defer history.Close()

			records, err := history.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No sessions recorded yet.")
				return nil
			}

			writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(writer, "DATE\tTASK\tMINUTES\tREMINDERS\tSTATUS")
			for _, record := range records {
				fmt.Fprintf(writer, "%s\t%s\t%d\t%d\t%s\n",
					record.Session.StartTime.Local().Format("2006-01-02 15:04"),
					record.Session.TaskName,
					record.DurationMinutes,
					record.Session.ReminderCount,
					record.Session.Status,
				)
			}
			return writer.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum sessions to list")
	return cmd
}
