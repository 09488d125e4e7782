package cmd

import (
	"github.com/spf13/cobra"

	"github.com/3leaps/hermes/pkg/output"
)

var setCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Write a record at a key, creating intermediate tables as needed",
	Args:  cobra.ExactArgs(2),
	RunE:  runSet,
}

func init() {
	rootCmd.AddCommand(setCmd)
}

func runSet(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	key, value := args[0], args[1]

	coord, cleanup, err := newLocalCoordinator(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	w := newWriter()
	defer w.Close()

	if err := coord.Set(ctx, key, value); err != nil {
		writeErr(w, ctx, key, err)
		return err
	}
	return w.WriteEntry(ctx, &output.EntryRecord{Key: key, Value: value, Kind: "record"})
}
