package main

import (
	"context"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"os"
	"os/signal"
	"syscall"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "job-assistant",
	Short: "job-assistant matches resumes against job feeds and drafts cover letters",
	PersistentPreRun: func(*cobra.Command, []string) {
		if configPath != "" {
			_ = os.Setenv("CONFIG_PATH", configPath)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"a config file (default is ./configs/config.yaml or $CONFIG_PATH)")
	rootCmd.AddCommand(serveCmd, ingestCmd, tokenCmd)
}

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Fatal(err)
	}
}
