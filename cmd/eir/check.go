package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sagarc03/eir/config"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate configuration and print the effective settings",
	Long: `Load configuration from files, environment and flags, validate it, and
print the merged result as YAML. Exits non-zero when validation fails.`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := config.FromContext(cmd.Context())
	if err != nil {
		return err
	}

	shown := *cfg
	if shown.Admin.Token != "" {
		shown.Admin.Token = "********"
	}

	out, err := yaml.Marshal(&shown)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	_, err = cmd.OutOrStdout().Write(out)
	return err
}
