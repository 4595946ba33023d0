package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var shutdownCmd = &cobra.Command{
	Use:   "shutdown",
	Short: "Stop the server through its shutdown path",
	Long: `Request the server's shutdown path. The path comes from the profile's
shutdown_path, EIR_SHUTDOWN_PATH, or /shutdown.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		client, err := getClient()
		if err != nil {
			return err
		}

		if err := client.Shutdown(cmd.Context()); err != nil {
			return handleError(os.Stderr, err)
		}

		if !quiet {
			fmt.Println("Server stopped.")
		}
		return nil
	},
}
