package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/techiemmk/job-portal-scrapper/internal/connector"
)

var portalsCmd = &cobra.Command{
	Use:   "portals",
	Short: "List supported career portals",
	Run: func(cmd *cobra.Command, args []string) {
		for _, key := range connector.Portals() {
			info, err := connector.Info(key)
			if err != nil {
				continue
			}
			fmt.Printf("%-8s %s (%s)\n", key, info.CompanyName, info.WebsiteName)
		}
	},
}

func init() {
	rootCmd.AddCommand(portalsCmd)
}
