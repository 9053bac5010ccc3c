package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/techiemmk/job-portal-scrapper/internal/browser"
	"github.com/techiemmk/job-portal-scrapper/internal/config"
	"github.com/techiemmk/job-portal-scrapper/internal/connector"
	"github.com/techiemmk/job-portal-scrapper/internal/model"
	"github.com/techiemmk/job-portal-scrapper/internal/orchestrator"
	"github.com/techiemmk/job-portal-scrapper/internal/ratelimit"
	"github.com/techiemmk/job-portal-scrapper/internal/sink"
	"github.com/techiemmk/job-portal-scrapper/internal/translate"
)

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "jobscraper",
	Short: "Multi-portal job posting scraper",
	Long:  "Jobscraper drives a headless browser through big-tech career sites and saves the postings in CSV, RAG and schema.org formats.",
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: SCRAPER_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadConfig resolves the config path and parses it.
// Priority: explicit path arg > SCRAPER_CONFIG env var > "./config.yaml".
// When no path is given and the default file is absent, built-in defaults
// are used.
func loadConfig(path string) (*config.Config, error) {
	explicit := path != ""
	if path == "" {
		if env := os.Getenv("SCRAPER_CONFIG"); env != "" {
			path = env
			explicit = true
		} else {
			path = "config.yaml"
		}
	}
	if !explicit {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return config.Default(), nil
		}
	}
	return config.Load(path)
}

func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
}

// scrapePortal runs one full scrape of a portal through an already-launched
// browser and writes the CSV, RAG and interchange files.
func scrapePortal(ctx context.Context, cfg *config.Config, b browser.Browser, portal string, maxPages, maxItems int, logger *slog.Logger) error {
	startTime := time.Now()

	limiter := ratelimit.NewHostLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	session := browser.NewSession(b, int64(cfg.Concurrency), limiter, logger)

	conn, err := connector.New(portal, session, logger)
	if err != nil {
		return err
	}
	info := conn.Info()

	orch := orchestrator.New(session, orchestrator.Config{
		MaxPages:      maxPages,
		MaxItems:      maxItems,
		RetryAttempts: cfg.Retry.Attempts,
		RetryDelay:    cfg.Retry.BaseDelay,
	}, logger)

	records, err := orch.Run(ctx, conn)
	if err != nil {
		return fmt.Errorf("scraping %s: %w", portal, err)
	}
	endTime := time.Now()

	return writeOutputs(info, records, startTime, endTime, cfg.DataDir, logger)
}

// writeOutputs derives both export formats from the canonical records and
// writes all three output files.
func writeOutputs(info model.PortalInfo, records []model.JobRecord, startTime, endTime time.Time, dataDir string, logger *slog.Logger) error {
	ragBatch := model.ScraperRunBatch{
		StartTime:   startTime.Format(time.RFC3339),
		EndTime:     endTime.Format(time.RFC3339),
		Status:      "completed",
		CompanyName: info.CompanyName,
		WebsiteName: info.WebsiteName,
		Data:        make([]model.RAGJobPosting, 0, len(records)),
	}
	interBatch := model.InterchangeBatch{
		StartTime:   ragBatch.StartTime,
		EndTime:     ragBatch.EndTime,
		Status:      "completed",
		CompanyName: info.CompanyName,
		WebsiteName: info.WebsiteName,
		Data:        make([]model.InterchangePosting, 0, len(records)),
	}
	for _, record := range records {
		ragBatch.Data = append(ragBatch.Data, translate.ToRAG(record, endTime))
		interBatch.Data = append(interBatch.Data, translate.ToInterchange(record, info.BaseURL, endTime))
	}

	translate.NewValidator(logger).CheckBatch(ragBatch)

	out := sink.New(dataDir, logger)
	if _, err := out.WriteCSV(info.Key, records, endTime); err != nil {
		return err
	}
	if _, err := out.WriteRAG(info.Key, ragBatch, endTime); err != nil {
		return err
	}
	if _, err := out.WriteInterchange(info.Key, interBatch, endTime); err != nil {
		return err
	}
	return nil
}
