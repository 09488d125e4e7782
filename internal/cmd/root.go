// Package cmd implements the hermes command-line interface: a long
// running server command plus a set of short-lived client commands
// (get/set/list/push/pop/hook) that each start their own in-process
// coordinator from the same configuration the server uses. They do not
// connect to a running server; no wire transport exists.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/3leaps/hermes/internal/config"
	"github.com/3leaps/hermes/internal/observability"
)

var (
	cfgFile string
	cfg     *config.Config
	v       = viper.New()
)

var rootCmd = &cobra.Command{
	Use:   "hermes",
	Short: "A hierarchical in-memory key/value store",
	Long: `hermes stores records, queues and webhook subscriptions in a tree of
named tables rooted at a single configurable root name.

Run "hermes serve" to start a process that owns the tree and replays its
durable log on startup, or use the client subcommands against an
already-running instance's configuration.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(v, cfgFile)
		if err != nil {
			return err
		}
		return observability.Init(cfg.LogLevel, cfg.LogFormat)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		observability.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to a hermes config file (yaml/json/toml)")
	rootCmd.PersistentFlags().String("root-name", "", "root table name (overrides config)")
	rootCmd.PersistentFlags().String("logger-directory", "", "durable log directory (overrides config)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "", "log format: json or console")

	_ = v.BindPFlag("root_name", rootCmd.PersistentFlags().Lookup("root-name"))
	_ = v.BindPFlag("logger_directory", rootCmd.PersistentFlags().Lookup("logger-directory"))
	_ = v.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = v.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
}

// Execute runs the root command, exiting the process with a non-zero
// status on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
