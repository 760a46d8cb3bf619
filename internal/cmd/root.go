// Package cmd wires up the tapd command line interface.
package cmd

import (
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/tapd/internal/action"
	"github.com/Iron-Ham/tapd/internal/config"
	"github.com/Iron-Ham/tapd/internal/device"
	"github.com/Iron-Ham/tapd/internal/event"
	"github.com/Iron-Ham/tapd/internal/logging"
	"github.com/Iron-Ham/tapd/internal/manager"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "tapd",
	Short: "Touchscreen gesture daemon",
	Long: `tapd watches Linux multi-touch devices, recognizes gestures
(swipes, taps, double-taps, long presses, pinches), and runs the shell
commands bound to them in its configuration file.`,
	SilenceUsage: true,
	RunE:         runDaemon,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", config.DefaultPath,
		"config file")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false,
		"log at debug level regardless of the configured level")
}

func runDaemon(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile, slog.Default())
	if err != nil {
		return err
	}

	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	logger, closeLog, err := logging.New(level, cfg.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bus := event.NewBus()
	action.NewExecutor(bus, logger).Attach()
	mgr := manager.New(cfg, bus, logger)

	// Hotplug support is best effort: without it workers still poll on
	// their retry interval.
	watcher, err := device.NewWatcher(device.InputDir, logger)
	if err != nil {
		logger.Warn("hotplug watching unavailable", "error", err)
	} else {
		defer watcher.Close()
		go watcher.Run(ctx)
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case <-watcher.C:
					mgr.Notify()
				}
			}
		}()
	}

	return mgr.Run(ctx)
}
