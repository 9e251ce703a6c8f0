package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/rcliao/agent-state/internal/cli"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}

	if err := cli.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
