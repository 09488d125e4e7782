package cmd

import (
	"context"
	"errors"
	"os"

	"github.com/google/uuid"

	"github.com/3leaps/hermes/internal/observability"
	"github.com/3leaps/hermes/pkg/coordinator"
	"github.com/3leaps/hermes/pkg/hookmanager"
	"github.com/3leaps/hermes/pkg/kerr"
	"github.com/3leaps/hermes/pkg/output"
	"github.com/3leaps/hermes/pkg/walog"
)

// newLocalCoordinator builds a coordinator embedding the same actors
// serve would, for the short-lived client commands. It is a stand-in
// for dialing an already-running process until a wire transport exists.
func newLocalCoordinator(ctx context.Context) (*coordinator.Coordinator, func(), error) {
	log := observability.CLILogger

	hooks := hookmanager.Start(hookmanager.Options{Logger: log})

	var logs *walog.Client
	var err error
	if cfg.LoggerDirectory != "" {
		logs, err = walog.Start(cfg.LoggerDirectory, log)
		if err != nil {
			hooks.Close()
			return nil, nil, err
		}
	}

	coord, err := coordinator.New(cfg.RootName, hooks, logs, log)
	if err != nil {
		hooks.Close()
		return nil, nil, err
	}
	if err := coord.Start(ctx); err != nil {
		hooks.Close()
		return nil, nil, err
	}

	cleanup := func() {
		if logs != nil {
			_ = logs.Shutdown(context.Background())
		}
		hooks.Close()
		coord.Close()
	}
	return coord, cleanup, nil
}

func newWriter() *output.JSONLWriter {
	return output.NewJSONLWriter(os.Stdout, uuid.NewString(), cfg.RootName)
}

func writeErr(w *output.JSONLWriter, ctx context.Context, key string, err error) {
	_ = w.WriteError(ctx, &output.ErrorRecord{Code: errCode(err), Message: err.Error(), Key: key})
}

func errCode(err error) string {
	var ke *kerr.Error
	if errors.As(err, &ke) {
		return string(ke.Kind)
	}
	return "InternalError"
}
