package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	host    string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "draftctl",
	Short: "A CLI for draft flows, share codes and the draft server",
	Long: `A command-line companion for the draft server: print pick/ban flows,
decode share codes offline and query a running server.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetLevel(log.DebugLevel)
		}
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&host, "host", "http://localhost:8080", "The host address of the server")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log requests")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "draftctl: %s\n", err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
