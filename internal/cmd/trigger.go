package cmd

import (
	"github.com/spf13/cobra"

	"github.com/3leaps/hermes/pkg/output"
)

var triggerCmd = &cobra.Command{
	Use:   "trigger <key> <value>",
	Short: "Fire any hooks matching key with value, without mutating the tree",
	Args:  cobra.ExactArgs(2),
	RunE:  runTrigger,
}

func init() {
	rootCmd.AddCommand(triggerCmd)
}

func runTrigger(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	key, value := args[0], args[1]

	coord, cleanup, err := newLocalCoordinator(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	w := newWriter()
	defer w.Close()

	if err := coord.Trigger(ctx, key, value); err != nil {
		writeErr(w, ctx, key, err)
		return err
	}
	return w.WriteEntry(ctx, &output.EntryRecord{Key: key, Value: value, Kind: "trigger"})
}
