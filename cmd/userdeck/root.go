package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/userdeck/userdeck/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:           "userdeck",
	Short:         "userdeck is a web client for a remote user directory.",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		execCtx := commandExecutionContext{
			CommandPath:       cmd.CommandPath(),
			UsesStructuredLog: commandUsesStructuredLogging(cmd),
		}
		setCommandExecutionContext(execCtx)
		if !execCtx.UsesStructuredLog {
			return nil
		}
		_, err := logging.BootstrapFromEnv(logging.BootstrapOptions{
			Command: execCtx.CommandPath,
			Writer:  os.Stderr,
		})
		return err
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, usersCmd)
}
