package cmd

import (
	"github.com/spf13/cobra"

	"github.com/3leaps/hermes/pkg/output"
)

var deleteTableFlag bool

var deleteCmd = &cobra.Command{
	Use:   "delete <key>",
	Short: "Remove the record at a key, or the subtable rooted there with --table",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
	deleteCmd.Flags().BoolVar(&deleteTableFlag, "table", false, "delete the subtable rooted at key instead of a record")
}

func runDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	key := args[0]

	coord, cleanup, err := newLocalCoordinator(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	w := newWriter()
	defer w.Close()

	kind := "record"
	if deleteTableFlag {
		kind = "table"
		err = coord.DeleteTable(ctx, key)
	} else {
		err = coord.DeleteKey(ctx, key)
	}
	if err != nil {
		writeErr(w, ctx, key, err)
		return err
	}
	return w.WriteEntry(ctx, &output.EntryRecord{Key: key, Kind: kind})
}
