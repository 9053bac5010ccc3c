package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/techiemmk/job-portal-scrapper/internal/connector"
	"github.com/techiemmk/job-portal-scrapper/internal/model"
	"github.com/techiemmk/job-portal-scrapper/internal/sink"
	"github.com/techiemmk/job-portal-scrapper/internal/translate"
)

var transformPortals []string

var transformCmd = &cobra.Command{
	Use:   "transform",
	Short: "Rebuild RAG files from saved CSV data",
	Long:  "Reload each portal's largest saved CSV and regenerate the RAG-format JSON without touching the network.",
	RunE:  runTransform,
}

func init() {
	transformCmd.Flags().StringSliceVarP(&transformPortals, "portal", "p", nil, "portals to transform (default: all)")
	rootCmd.AddCommand(transformCmd)
}

func runTransform(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	portals := transformPortals
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

	out := sink.New(cfg.DataDir, logger)
	validator := translate.NewValidator(logger)
	now := time.Now()

	failed := false
	for _, portal := range portals {
		records, path, err := out.LoadLatestCSV(portal)
		if err != nil {
			logger.Warn("skipping portal", "portal", portal, "error", err)
			continue
		}
		logger.Info("transforming saved run", "portal", portal, "source", path, "jobs", len(records))

		info, _ := connector.Info(portal)
		batch := model.ScraperRunBatch{
			StartTime:   now.Format(time.RFC3339),
			EndTime:     now.Format(time.RFC3339),
			Status:      "completed",
			CompanyName: info.CompanyName,
			WebsiteName: info.WebsiteName,
			Data:        make([]model.RAGJobPosting, 0, len(records)),
		}
		for _, record := range records {
			batch.Data = append(batch.Data, translate.ToRAG(record, now))
		}
		validator.CheckBatch(batch)

		if _, err := out.WriteRAG(portal, batch, now); err != nil {
			logger.Error("failed to write rag batch", "portal", portal, "error", err)
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
	return nil
}
