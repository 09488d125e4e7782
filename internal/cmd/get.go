package cmd

import (
	"github.com/spf13/cobra"

	"github.com/3leaps/hermes/pkg/output"
)

var getCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Read the record stored at a key",
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	key := args[0]

	coord, cleanup, err := newLocalCoordinator(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	w := newWriter()
	defer w.Close()

	value, err := coord.Get(ctx, key)
	if err != nil {
		writeErr(w, ctx, key, err)
		return err
	}
	return w.WriteEntry(ctx, &output.EntryRecord{Key: key, Value: value, Kind: "record"})
}
