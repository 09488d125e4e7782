package cmd

import (
	"github.com/spf13/cobra"

	"github.com/3leaps/hermes/pkg/coordinator"
	"github.com/3leaps/hermes/pkg/output"
)

var listAllFlag bool

var listCmd = &cobra.Command{
	Use:   "list <key>",
	Short: "List the records and queues under a key",
	Args:  cobra.ExactArgs(1),
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listAllFlag, "all", false, "recurse into every subtable instead of listing one level")
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	key := args[0]

	coord, cleanup, err := newLocalCoordinator(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	w := newWriter()
	defer w.Close()

	depth := coordinator.DepthOneLevel
	depthLabel := "one_level"
	if listAllFlag {
		depth = coordinator.DepthAll
		depthLabel = "all"
	}

	entries, err := coord.ListKeys(ctx, key, depth)
	if err != nil {
		writeErr(w, ctx, key, err)
		return err
	}

	out := make([]output.ListingEntry, len(entries))
	for i, e := range entries {
		out[i] = output.ListingEntry{Key: e.Key, Kind: e.Kind}
	}
	return w.WriteListing(ctx, &output.ListingRecord{Prefix: key, Depth: depthLabel, Entries: out})
}
