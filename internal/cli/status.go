package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/fluentvoice/modelcache/internal/catalog"
)

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show cached model variants and the best one available",
		Args:  cobra.NoArgs,
		RunE:  runStatus,
	}
}

func runStatus(cmd *cobra.Command, args []string) error {
	app, cleanup, err := newApp()
	if err != nil {
		return err
	}
	defer cleanup()

	fmt.Printf("Cache directory: %s\n\n", app.fsys.RootDir())

	for _, size := range catalog.Sizes() {
		info := catalog.MustInfo(size)

		status := "not cached"
		if app.mgr.Probe(size) {
			status = "cached"
		} else if app.fsys.FileExists(app.fsys.ArtifactPath(info.FileName)) {
			status = "incomplete"
		}

		fmt.Printf("  %-8s %8s  %-11s %s\n",
			size, humanize.Bytes(uint64(info.ApproxBytes)), status, info.Description)
	}

	best, ok := app.mgr.FindLargestAvailable()
	if !ok {
		fmt.Println("\nNo usable model cached")
		return nil
	}

	fmt.Printf("\nBest available: %s (%s)\n", best, app.mgr.ActivePath())
	return nil
}
