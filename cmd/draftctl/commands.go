package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"text/tabwriter"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/DoyleJ11/lol-draft-companion/internal/engine"
	"github.com/DoyleJ11/lol-draft-companion/internal/share"
)

var (
	flowFormat string
	flowSide   string
)

func init() {
	flowCmd.Flags().StringVar(&flowFormat, "format", string(engine.FormatRanked), "ranked or competitive")
	flowCmd.Flags().StringVar(&flowSide, "side", string(engine.SideABlue), "a-blue or a-red")

	rootCmd.AddCommand(flowCmd)
	rootCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(savedCmd)
}

var flowCmd = &cobra.Command{
	Use:   "flow",
	Short: "Print the pick/ban order of a draft format",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := engine.ParseFormat(flowFormat)
		if err != nil {
			return err
		}
		side, err := engine.ParseStartingSide(flowSide)
		if err != nil {
			return err
		}
		return writeFlow(cmd.OutOrStdout(), format, side)
	},
}

var decodeCmd = &cobra.Command{
	Use:   "decode <share-code>",
	Short: "Decode a share code into its snapshot JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := share.Decode(args[0])
		if err != nil {
			return err
		}
		if _, err := share.Load(snap); err != nil {
			log.Warn("snapshot does not load as a draft", "err", err)
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	},
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest(cmd.OutOrStdout(), "/healthz")
	},
}

var savedCmd = &cobra.Command{
	Use:   "saved",
	Short: "List saved drafts on the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest(cmd.OutOrStdout(), "/saved")
	},
}

func writeFlow(w io.Writer, format engine.Format, side engine.StartingSide) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tPHASE\tACTION\tTEAM\tSIDE")
	for i, turn := range engine.GenerateFlow(format, side) {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", i+1, turn.Phase, turn.Action, turn.Team, side.ColorOf(turn.Team))
	}
	return tw.Flush()
}

func performGetRequest(w io.Writer, endpoint string) error {
	url := host + endpoint
	log.Debug("making request", "url", url)

	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("%s: %s %s", url, resp.Status, body)
	}

	fmt.Fprintf(w, "Status Code: %d\n", resp.StatusCode)
	if len(body) > 0 {
		fmt.Fprintln(w, string(body))
	}
	return nil
}
