package cmd

import (
	"github.com/spf13/cobra"

	"github.com/3leaps/hermes/pkg/output"
)

var pushCmd = &cobra.Command{
	Use:   "push <key> <value>",
	Short: "Append a value to the queue at a key",
	Args:  cobra.ExactArgs(2),
	RunE:  runPush,
}

var popCmd = &cobra.Command{
	Use:   "pop <key>",
	Short: "Remove and print the front value of the queue at a key",
	Args:  cobra.ExactArgs(1),
	RunE:  runPop,
}

func init() {
	rootCmd.AddCommand(pushCmd)
	rootCmd.AddCommand(popCmd)
}

func runPush(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	key, value := args[0], args[1]

	coord, cleanup, err := newLocalCoordinator(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	w := newWriter()
	defer w.Close()

	if err := coord.Push(ctx, key, value); err != nil {
		writeErr(w, ctx, key, err)
		return err
	}
	return w.WriteQueueItem(ctx, &output.QueueItemRecord{Key: key, Value: value, Op: "push"})
}

func runPop(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	key := args[0]

	coord, cleanup, err := newLocalCoordinator(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	w := newWriter()
	defer w.Close()

	value, err := coord.Pop(ctx, key)
	if err != nil {
		writeErr(w, ctx, key, err)
		return err
	}
	return w.WriteQueueItem(ctx, &output.QueueItemRecord{Key: key, Value: value, Op: "pop"})
}
