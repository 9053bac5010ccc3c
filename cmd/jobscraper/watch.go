package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/techiemmk/job-portal-scrapper/internal/browser"
	"github.com/techiemmk/job-portal-scrapper/internal/connector"
	"github.com/techiemmk/job-portal-scrapper/internal/scheduler"
)

var watchPortals []string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-scrape portals on an interval",
	Long:  "Scrape the given portals immediately, then again on the configured interval; blocks until SIGINT/SIGTERM.",
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().StringSliceVarP(&watchPortals, "portal", "p", nil, "portals to watch (default: all)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	portals := watchPortals
	if len(portals) == 0 {
		portals = connector.Portals()
	}
	for _, portal := range portals {
		if _, err := connector.Info(portal); err != nil {
			return err
		}
	}

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("config loaded",
		"portals", portals,
		"interval", cfg.WatchInterval.String(),
		"data_dir", cfg.DataDir,
	)

	b, err := browser.Launch(browser.Options{
		Headless:    cfg.Browser.Headless,
		UserAgent:   cfg.Browser.UserAgent,
		NavTimeout:  cfg.Browser.NavTimeout,
		InstallDeps: cfg.Browser.InstallDeps,
	})
	if err != nil {
		logger.Error("failed to launch browser", "error", err)
		os.Exit(1)
	}
	defer b.Close()

	cycle := func(ctx context.Context) error {
		// One failed portal does not stop the rest of the cycle.
		var lastErr error
		for _, portal := range portals {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if err := scrapePortal(ctx, cfg, b, portal, 0, 0, logger); err != nil {
				logger.Error("portal scrape failed", "portal", portal, "error", err)
				lastErr = err
			}
		}
		return lastErr
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sched := scheduler.New(cycle, cfg.WatchInterval, logger)
	if err := sched.Run(ctx); err != nil {
		logger.Error("scheduler error", "error", err)
		os.Exit(1)
	}

	logger.Info("goodbye")
	return nil
}
