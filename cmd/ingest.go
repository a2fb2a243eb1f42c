package main

import (
	"encoding/json"
	"github.com/maxaizer/job-assistant/internal/config"
	"github.com/maxaizer/job-assistant/internal/feed"
	"github.com/maxaizer/job-assistant/internal/logger"
	"github.com/spf13/cobra"
)

var feedFile string

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest a job feed once and print the report",
	RunE: func(cmd *cobra.Command, _ []string) error {

		cfg := config.Get()

		logger.Setup(cmd.Context(), cfg.Logger)
		defer logger.Cleanup()

		a, err := newApp(cfg)
		if err != nil {
			return err
		}
		defer a.close()

		source := newFeedSource(cfg.Feed)
		if feedFile != "" {
			source = feed.NewFileSource(feedFile)
		}

		report, err := a.ingest.IngestSource(cmd.Context(), source)
		if err != nil {
			return err
		}

		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(report)
	},
}

func init() {
	ingestCmd.Flags().StringVarP(&feedFile, "file", "f", "", "feed JSON file (default is the configured feed)")
}
