// Command strainctl is the command-line interface to the strain daemon.
// It reports stress levels, manages sessions and prints daily summaries.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/strain-dev/strain/internal/client"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var serverURL string
	var token string

	root := &cobra.Command{
		Use:           "strainctl",
		Short:         "Track developer stress from the command line",
		Long:          "strainctl talks to a running strain daemon to record stress levels,\nmanage coding sessions and show daily summaries.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&serverURL, "server", "http://127.0.0.1:7399", "Base URL of the strain daemon")
	root.PersistentFlags().StringVar(&token, "token", os.Getenv("STRAIN_TOKEN"), "Auth token (defaults to $STRAIN_TOKEN)")

	api := func() *client.HTTPClient {
		return client.NewHTTPClient(serverURL, token)
	}

	root.AddCommand(
		newReportCmd(api),
		newStartCmd(api),
		newEndCmd(api),
		newStatusCmd(api),
		newStatsCmd(api),
		newTodayCmd(api),
		newClearCmd(api),
	)

	return root
}
