package cmd

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/nanofish-go/nanofish/packages/history"
)

var (
	historyPath  string
	historyLimit int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded calls, newest first",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&historyPath, "db", "nanofish.db", "History database path")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum entries to show")
}

func runHistory(cmd *cobra.Command, args []string) error {
	store, err := history.Open(historyPath)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.Recent(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(out, "no recorded calls")
		return nil
	}

	dim := color.New(color.Faint).SprintFunc()
	for _, e := range entries {
		status := color.GreenString("%d", e.Status)
		switch {
		case e.Error != "":
			status = color.RedString("ERR")
		case e.Status >= 400:
			status = color.RedString("%d", e.Status)
		case e.Status >= 300:
			status = color.YellowString("%d", e.Status)
		}
		fmt.Fprintf(out, "%s  %s %-7s %s  %d bytes in %s\n",
			dim(e.StartedAt.Format(time.DateTime)),
			status, e.Method, e.URL,
			e.BytesRead, e.Duration.Round(time.Millisecond))
		if e.Error != "" {
			fmt.Fprintf(out, "        %s\n", dim(e.Error))
		}
	}
	return nil
}
