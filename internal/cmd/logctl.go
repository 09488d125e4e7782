package cmd

import (
	"github.com/spf13/cobra"

	"github.com/3leaps/hermes/pkg/output"
)

var logSuspendCmd = &cobra.Command{
	Use:   "suspend-log",
	Short: "Pause the durable logger's sidecar output",
	RunE:  runLogSuspend,
}

var logResumeCmd = &cobra.Command{
	Use:   "resume-log",
	Short: "Resume the durable logger's sidecar output",
	RunE:  runLogResume,
}

func init() {
	rootCmd.AddCommand(logSuspendCmd)
	rootCmd.AddCommand(logResumeCmd)
}

func runLogSuspend(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	coord, cleanup, err := newLocalCoordinator(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	w := newWriter()
	defer w.Close()

	if err := coord.SuspendLog(ctx); err != nil {
		writeErr(w, ctx, "", err)
		return err
	}
	return w.WriteEntry(ctx, &output.EntryRecord{Key: cfg.RootName, Kind: "log_suspended"})
}

func runLogResume(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	coord, cleanup, err := newLocalCoordinator(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	w := newWriter()
	defer w.Close()

	if err := coord.ResumeLog(ctx); err != nil {
		writeErr(w, ctx, "", err)
		return err
	}
	return w.WriteEntry(ctx, &output.EntryRecord{Key: cfg.RootName, Kind: "log_resumed"})
}
