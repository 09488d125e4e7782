package cmd

import (
	"github.com/spf13/cobra"

	"github.com/3leaps/hermes/pkg/output"
)

var hookCmd = &cobra.Command{
	Use:   "hook",
	Short: "Manage webhook subscriptions on key prefixes",
}

var hookSetCmd = &cobra.Command{
	Use:   "set <prefix> <target>",
	Short: "Register target to be notified when a key under prefix changes",
	Args:  cobra.ExactArgs(2),
	RunE:  runHookSet,
}

var hookRemoveCmd = &cobra.Command{
	Use:   "remove <prefix> <target>",
	Short: "Deregister target from prefix",
	Args:  cobra.ExactArgs(2),
	RunE:  runHookRemove,
}

var hookGetCmd = &cobra.Command{
	Use:   "get <prefix>",
	Short: "Print the targets registered exactly at prefix",
	Args:  cobra.ExactArgs(1),
	RunE:  runHookGet,
}

var hookListCmd = &cobra.Command{
	Use:   "list <keyPrefix>",
	Short: "List every registered prefix that has keyPrefix as a prefix",
	Args:  cobra.ExactArgs(1),
	RunE:  runHookList,
}

func init() {
	rootCmd.AddCommand(hookCmd)
	hookCmd.AddCommand(hookSetCmd, hookRemoveCmd, hookGetCmd, hookListCmd)
}

func runHookSet(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	prefix, target := args[0], args[1]

	coord, cleanup, err := newLocalCoordinator(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	w := newWriter()
	defer w.Close()

	if err := coord.HookSet(ctx, prefix, target); err != nil {
		writeErr(w, ctx, prefix, err)
		return err
	}
	return w.WriteHook(ctx, &output.HookRecord{Prefix: prefix, Targets: []string{target}})
}

func runHookRemove(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	prefix, target := args[0], args[1]

	coord, cleanup, err := newLocalCoordinator(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	w := newWriter()
	defer w.Close()

	if err := coord.HookRemove(ctx, prefix, target); err != nil {
		writeErr(w, ctx, prefix, err)
		return err
	}
	return w.WriteHook(ctx, &output.HookRecord{Prefix: prefix, Targets: []string{target}})
}

func runHookGet(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	prefix := args[0]

	coord, cleanup, err := newLocalCoordinator(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	w := newWriter()
	defer w.Close()

	targets, err := coord.HookGet(ctx, prefix)
	if err != nil {
		writeErr(w, ctx, prefix, err)
		return err
	}
	return w.WriteHook(ctx, &output.HookRecord{Prefix: prefix, Targets: targets})
}

func runHookList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	keyPrefix := args[0]

	coord, cleanup, err := newLocalCoordinator(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	w := newWriter()
	defer w.Close()

	hooks, err := coord.HookList(ctx, keyPrefix)
	if err != nil {
		writeErr(w, ctx, keyPrefix, err)
		return err
	}
	for _, h := range hooks {
		if err := w.WriteHook(ctx, &output.HookRecord{Prefix: h.Prefix, Targets: h.Targets}); err != nil {
			return err
		}
	}
	return nil
}
