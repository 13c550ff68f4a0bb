package cli

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var historyLimitFlag int

func newHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent download attempts",
		Args:  cobra.NoArgs,
		RunE:  runHistory,
	}

	cmd.Flags().IntVar(&historyLimitFlag, "limit", 20, "Maximum number of attempts to show")

	return cmd
}

func runHistory(cmd *cobra.Command, args []string) error {
	app, cleanup, err := newApp()
	if err != nil {
		return err
	}
	defer cleanup()

	if app.history == nil {
		return fmt.Errorf("download history is disabled (history.enabled = false)")
	}

	records, err := app.history.RecentDownloads(historyLimitFlag)
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}

	if len(records) == 0 {
		fmt.Println("No download attempts recorded")
		return nil
	}

	for _, rec := range records {
		line := fmt.Sprintf("%s  %-8s %-9s %8s  %s",
			rec.CreatedAt.Format("2006-01-02 15:04:05"),
			rec.Size, rec.Outcome,
			humanize.Bytes(uint64(rec.Bytes)),
			rec.Duration.Round(10*time.Millisecond))
		if rec.Error != "" {
			line += "  " + rec.Error
		}
		fmt.Println(line)
	}

	return nil
}
