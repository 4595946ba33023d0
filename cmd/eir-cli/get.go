package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	getETag    string
	getHeaders bool
	getFail    bool
)

var getCmd = &cobra.Command{
	Use:   "get <path>",
	Short: "Fetch a resource",
	Long: `Send a GET request for path and print the reply.

Examples:
  eir-cli get /index.html
  eir-cli get -i /docs/
  eir-cli get --etag '"1234"' /index.html   # 304 when unchanged
  eir-cli get -q /image.png > image.png`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

var headCmd = &cobra.Command{
	Use:   "head <path>",
	Short: "Fetch the headers of a resource",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := getClient()
		if err != nil {
			return err
		}

		resp, err := client.Head(cmd.Context(), args[0])
		if err != nil {
			return handleError(os.Stderr, err)
		}

		if err := getFormatter().FormatResponse(os.Stdout, resp, true); err != nil {
			return err
		}
		return statusError(resp.StatusCode)
	},
}

func init() {
	getCmd.Flags().StringVar(&getETag, "etag", "", "send If-None-Match with this ETag")
	getCmd.Flags().BoolVarP(&getHeaders, "include", "i", false, "print response headers")
	getCmd.Flags().BoolVarP(&getFail, "fail", "f", false, "exit non-zero on 4xx and 5xx replies")

	headCmd.Flags().BoolVarP(&getFail, "fail", "f", false, "exit non-zero on 4xx and 5xx replies")
}

func runGet(cmd *cobra.Command, args []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	resp, err := client.Get(cmd.Context(), args[0], getETag)
	if err != nil {
		return handleError(os.Stderr, err)
	}

	if err := getFormatter().FormatResponse(os.Stdout, resp, getHeaders); err != nil {
		return err
	}
	return statusError(resp.StatusCode)
}

func statusError(code int) error {
	if getFail && code >= 400 {
		return fmt.Errorf("server replied %d", code)
	}
	return nil
}
