package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sagarc03/eir/clientcli"
	"github.com/spf13/cobra"
)

var (
	version = "dev"

	cfgFile     string
	profileName string
	address     string
	httpVersion string
	timeout     time.Duration
	jsonOutput  bool
	quiet       bool
)

var rootCmd = &cobra.Command{
	Use:     "eir-cli",
	Version: version,
	Short:   "Client for Eirserver",
	Long: `eir-cli sends raw GET and HEAD requests to an Eirserver and prints the reply.

Server selection, highest precedence first:
  --address flag, EIR_ADDRESS, --profile / EIR_PROFILE, default profile,
  localhost:8080.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ~/.eir/config.yaml, env: EIR_CLI_CONFIG)")
	rootCmd.PersistentFlags().StringVarP(&profileName, "profile", "p", "", "profile name (env: EIR_PROFILE)")
	rootCmd.PersistentFlags().StringVarP(&address, "address", "a", "", "server host:port (default: localhost:8080, env: EIR_ADDRESS)")
	rootCmd.PersistentFlags().StringVar(&httpVersion, "http-version", "", "protocol version sent in the request line (default: HTTP/1.1)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", clientcli.DefaultTimeout, "request timeout")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "print the body only")

	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(headCmd)
	rootCmd.AddCommand(shutdownCmd)
	rootCmd.AddCommand(configureCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// getConfigPath resolves the profile file location.
func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	if p := clientcli.ConfigPathFromEnv(); p != "" {
		return p
	}
	return clientcli.DefaultConfigPath()
}

// buildConfig merges config from profile, env vars, and flags (flags take precedence).
func buildConfig() (*clientcli.Config, error) {
	var configs []*clientcli.Config

	// 1. Load from profile file
	name := profileName
	if name == "" {
		name = clientcli.ProfileFromEnv()
	}

	configPath := getConfigPath()
	if configPath != "" {
		fileCfg, err := clientcli.LoadConfigFile(configPath)
		switch {
		case err == nil:
			p, perr := fileCfg.GetProfile(name)
			if perr != nil && (name != "" || !errors.Is(perr, clientcli.ErrNoProfiles)) {
				return nil, perr
			}
			if p != nil {
				configs = append(configs, clientcli.ConfigFromProfile(p))
			}
		case cfgFile != "" || name != "":
			// Only error if the user explicitly asked for a file or profile
			return nil, err
		}
	}

	// 2. Load from environment variables
	configs = append(configs, clientcli.ConfigFromEnv())

	// 3. Load from flags
	configs = append(configs, &clientcli.Config{
		Address: address,
		Version: httpVersion,
	})

	return clientcli.MergeConfig(configs...), nil
}

// getFormatter returns the appropriate formatter based on flags.
func getFormatter() clientcli.Formatter {
	return clientcli.NewFormatter(jsonOutput, quiet)
}

// getClient creates and returns a configured client.
func getClient() (*clientcli.Client, error) {
	cfg, err := buildConfig()
	if err != nil {
		return nil, err
	}

	return clientcli.New(cfg, clientcli.WithTimeout(timeout))
}

// handleError prints err with the active formatter and returns it so the
// process exits non-zero.
func handleError(w io.Writer, err error) error {
	_ = getFormatter().FormatError(w, err)
	return fmt.Errorf("request failed: %w", err)
}
