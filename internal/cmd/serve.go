package cmd

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/3leaps/hermes/internal/bootstrap"
	"github.com/3leaps/hermes/internal/observability"
	"github.com/3leaps/hermes/internal/watchdog"
	"github.com/3leaps/hermes/pkg/coordinator"
	"github.com/3leaps/hermes/pkg/hookmanager"
	"github.com/3leaps/hermes/pkg/walog"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start a hermes process: replay the durable log, load bootstrap files, and block",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("initial-data-file", "", "flat key/value file to load at startup (overrides config)")
	serveCmd.Flags().String("initial-hook-file", "", "flat prefix/link file to load at startup (overrides config)")
	_ = v.BindPFlag("initial_data_file", serveCmd.Flags().Lookup("initial-data-file"))
	_ = v.BindPFlag("initial_hook_file", serveCmd.Flags().Lookup("initial-hook-file"))
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	log := observability.CLILogger

	hookOpts := hookmanager.Options{
		HTTPClient: &http.Client{Timeout: cfg.HookClientTimeout},
		Logger:     log,
	}
	if cfg.HookRateLimitPerSecond > 0 {
		hookOpts.RateLimit = rate.NewLimiter(rate.Limit(cfg.HookRateLimitPerSecond), 1)
	}
	hooks := hookmanager.Start(hookOpts)

	var logs *walog.Client
	if cfg.LoggerDirectory != "" {
		var err error
		logs, err = walog.Start(cfg.LoggerDirectory, log)
		if err != nil {
			return err
		}
	}

	coord, err := coordinator.New(cfg.RootName, hooks, logs, log)
	if err != nil {
		return err
	}
	if err := coord.Start(ctx); err != nil {
		return err
	}

	if err := bootstrap.LoadData(ctx, coord, cfg.InitialDataFile); err != nil {
		return err
	}
	if err := bootstrap.LoadHooks(ctx, coord, cfg.InitialHookFile, cfg.RootName, log); err != nil {
		return err
	}

	log.Info("hermes is serving", zap.String("root", cfg.RootName))

	stop := make(chan struct{})
	watched := []watchdog.Watched{{Name: "coordinator", Done: coord.Done()}}
	watched = append(watched, watchdog.Watched{Name: "hookmanager", Done: hooks.Done()})
	if logs != nil {
		watched = append(watched, watchdog.Watched{Name: "walog", Done: logs.Done()})
	}
	go watchdog.Run(stop, watchdog.DefaultInterval, log, func(reason string) {
		log.Error("terminating: actor died", zap.String("reason", reason))
		os.Exit(1)
	}, watched...)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
	close(stop)

	log.Info("hermes shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if logs != nil {
		if err := logs.Shutdown(shutdownCtx); err != nil {
			log.Error("logger shutdown failed", zap.Error(err))
		}
	}
	hooks.Close()
	coord.Close()
	return nil
}
