package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/sagarc03/eir/config"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Version: version,
	Use:     "eir",
	Short:   "Minimal HTTP/1.1 static file server",
	Long: `Eirserver serves a document root over a small subset of HTTP/1.1:
GET and HEAD, directory listings, script output and ETag revalidation.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		files, _ := cmd.Flags().GetStringSlice("config")

		cfg, err := config.Load(files, cmd.Flags())
		if err != nil {
			return err
		}

		cmd.SetContext(config.WithContext(cmd.Context(), cfg))
		return nil
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringSlice("config", nil, "config file(s), merged left to right (default: ./config.yaml)")
	flags.String("ip", "", "listen address (default: 0.0.0.0, env: EIR_SERVER_IP)")
	flags.Int("port", 0, "listen port (default: 8080, env: EIR_SERVER_PORT)")
	flags.String("root", "", "document root (default: working directory, env: EIR_SERVER_ROOT_DIR)")
	flags.String("off-address", "", "request path that stops the server (default: /shutdown)")
	flags.Int("cache-time", 0, "freshness window in seconds, 0 disables caching (default: 3600)")
	flags.String("cache-backend", "", "cache backend: memory, leveldb, sqlite, postgres (default: memory)")
	flags.String("cache-dsn", "", "cache database connection string (default: eir-cache.db)")
	flags.String("verbosity", "", "access log verbosity: none, minimal, verbose (default: minimal)")
	flags.String("log-type", "", "log sink: console, file, syslog (default: console)")
	flags.String("log-file", "", "log file path when log-type is file")
	flags.String("log-level", "", "log level: debug, info, warn, error (default: info)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
