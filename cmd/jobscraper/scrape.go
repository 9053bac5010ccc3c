package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/techiemmk/job-portal-scrapper/internal/browser"
	"github.com/techiemmk/job-portal-scrapper/internal/connector"
)

var (
	scrapePortalFlag string
	scrapeMaxPages   int
	scrapeMaxItems   int
	scrapeConc       int
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape one portal and write the output files",
	Long:  "Scrape a single career portal; blocks until done or SIGINT/SIGTERM.",
	RunE:  runScrape,
}

func init() {
	scrapeCmd.Flags().StringVarP(&scrapePortalFlag, "portal", "p", "", "portal to scrape (required)")
	scrapeCmd.Flags().IntVar(&scrapeMaxPages, "max-pages", 0, "listing pages to walk (0 = all)")
	scrapeCmd.Flags().IntVar(&scrapeMaxItems, "max-items", 0, "cap on detail pages fetched (0 = all)")
	scrapeCmd.Flags().IntVar(&scrapeConc, "concurrency", 0, "override configured page concurrency")
	scrapeCmd.MarkFlagRequired("portal")
	rootCmd.AddCommand(scrapeCmd)
}

func runScrape(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	// Flag mistakes fail before any browser work starts.
	if cmd.Flags().Changed("max-pages") && scrapeMaxPages <= 0 {
		return fmt.Errorf("--max-pages must be positive, got %d", scrapeMaxPages)
	}
	if _, err := connector.Info(scrapePortalFlag); err != nil {
		return err
	}

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if scrapeConc > 0 {
		cfg.Concurrency = scrapeConc
	}

	logger.Info("config loaded",
		"portal", scrapePortalFlag,
		"concurrency", cfg.Concurrency,
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := scrapePortal(ctx, cfg, b, scrapePortalFlag, scrapeMaxPages, scrapeMaxItems, logger); err != nil {
		logger.Error("scrape failed", "portal", scrapePortalFlag, "error", err)
		os.Exit(1)
	}
	return nil
}
