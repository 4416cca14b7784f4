package main

import (
	"fmt"
	"os"
	"path/filepath"

	"focusdesk/internal/platform"

	"github.com/spf13/cobra"
)

func autostartCmd() *cobra.Command {
	service := platform.NewService()
	cmd := &cobra.Command{
		Use:   "autostart",
		Short: "Manage launching FocusDesk at login",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "enable",
		Short: "Start FocusDesk at login",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			execPath, err := os.Executable()
			if err != nil {
				return fmt.Errorf("resolve executable: %w", err)
			}
			if resolved, err := filepath.EvalSymlinks(execPath); err == nil {
				execPath = resolved
			}
			if err := service.EnableAutostart(appName, execPath); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Autostart enabled.")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "disable",
		Short: "Stop launching FocusDesk at login",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := service.DisableAutostart(appName); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Autostart disabled.")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Report whether autostart is enabled",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			enabled, err := service.AutostartEnabled(appName)
			if err != nil {
				return err
			}
			state := "disabled"
			if enabled {
				state = "enabled"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Autostart %s.\n", state)
			return nil
		},
	})
	return cmd
}
