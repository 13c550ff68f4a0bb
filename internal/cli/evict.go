package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fluentvoice/modelcache/internal/catalog"
)

var evictKeepFlag string

func newEvictCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evict",
		Short: "Delete all cached model variants except one",
		Args:  cobra.NoArgs,
		RunE:  runEvict,
	}

	cmd.Flags().StringVar(&evictKeepFlag, "keep", "", "Size to keep (tiny, base, small, medium or large)")
	cmd.MarkFlagRequired("keep")

	return cmd
}

func runEvict(cmd *cobra.Command, args []string) error {
	keep, err := catalog.ParseSize(evictKeepFlag)
	if err != nil {
		return err
	}

	app, cleanup, err := newApp()
	if err != nil {
		return err
	}
	defer cleanup()

	app.mgr.RemoveAllExcept(keep)
	fmt.Printf("Evicted all cached variants except %s\n", keep)
	return nil
}
