package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/techiemmk/job-portal-scrapper/internal/audit"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Browse saved runs interactively (TUI)",
	Long:  "Shows the saved-run picker TUI, then launches the split-pane posting browser.",
	RunE:  runAuditCmd,
}

func init() {
	rootCmd.AddCommand(auditCmd)
}

func runAuditCmd(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	runs, err := audit.ListRuns(cfg.DataDir)
	if err != nil {
		fmt.Println(err)
		return nil
	}

	for {
		choice, err := audit.RunPicker(runs)
		if err != nil {
			fmt.Printf("Picker error: %v\n", err)
			return nil
		}
		if choice < 0 {
			return nil
		}

		batch, err := audit.LoadRun(runs[choice].Path)
		if err != nil {
			fmt.Printf("Error loading run: %v\n", err)
			continue
		}

		wantQuit, err := audit.RunAuditTUI(batch)
		if err != nil {
			fmt.Printf("TUI error: %v\n", err)
		}
		if wantQuit {
			return nil
		}
	}
}
