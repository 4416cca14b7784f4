package main

import (
	"fmt"

	"focusdesk/internal/storage"

	"github.com/spf13/cobra"
)

func configCmd(options *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the settings file",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the settings file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := options.settingsPath()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective settings as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, loadErr := options.loadSettings()
			if loadErr != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", loadErr)
			}
			data, err := storage.MarshalSettings(settings)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write the effective settings to the settings file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := options.settingsPath()
			if err != nil {
				return err
			}
			settings, loadErr := options.loadSettings()
			if loadErr != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", loadErr)
			}
			if err := storage.SaveSettingsTo(path, settings); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Settings written to %s\n", path)
			return nil
		},
	})
	return cmd
}
