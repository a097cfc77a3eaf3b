package main

import (
	"context"
	"os"

	"github.com/sandevgo/relancebot/internal/config"
	"github.com/sandevgo/relancebot/pkg/log"
	"github.com/spf13/cobra"
)

var (
	debug bool
)

var rootCmd = &cobra.Command{
	Use:   "relance",
	Short: "RelanceBot — customer re-engagement for Crisp",
	Long:  `RelanceBot ingests Crisp chat events, remembers tagged facts and nudges customers who have gone quiet.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Global flags available to all subcommands
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", config.IsDebug(), "enable debug logging")
}

func setupLogger(ctx context.Context) (context.Context, func()) {
	isDebug := debug || config.IsDebug()
	return log.NewContextWithLogger(ctx, isDebug)
}
