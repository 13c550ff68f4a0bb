package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/fluentvoice/modelcache/internal/catalog"
	"github.com/fluentvoice/modelcache/internal/progress"
)

func newFetchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "fetch <size>",
		Short: "Download a model variant into the cache",
		Long:  "Download the artifact for the given size (tiny, base, small, medium or large),\nverify it and install it as the active model. Ctrl-C aborts cleanly.",
		Args:  cobra.ExactArgs(1),
		RunE:  runFetch,
	}
}

func runFetch(cmd *cobra.Command, args []string) error {
	size, err := catalog.ParseSize(args[0])
	if err != nil {
		return err
	}

	app, cleanup, err := newApp()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ok, err := app.mgr.Download(ctx, size, renderProgress)
	if err != nil {
		fmt.Println()
		return fmt.Errorf("download canceled: %w", err)
	}
	if !ok {
		return fmt.Errorf("download of %s model failed", size)
	}

	fmt.Printf("Installed %s\n", app.mgr.ActivePath())
	return nil
}

// renderProgress prints download events on a single rewritten line.
func renderProgress(e progress.Event) {
	switch e.Kind {
	case progress.KindDownloading:
		if e.BytesTotal > 0 {
			fmt.Printf("\r%s: %3.0f%% (%s / %s)    ",
				e.Message, e.Percent,
				humanize.Bytes(uint64(e.BytesDownloaded)),
				humanize.Bytes(uint64(e.BytesTotal)))
		} else {
			fmt.Printf("\r%s    ", e.Message)
		}
	case progress.KindComplete:
		fmt.Printf("\r%s (%s)                    \n",
			e.Message, humanize.Bytes(uint64(e.BytesTotal)))
	case progress.KindFailed:
		fmt.Printf("\n%s\n", e.Message)
	}
}
