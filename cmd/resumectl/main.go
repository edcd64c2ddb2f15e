package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"resume-ats/internal/cli"
	"resume-ats/internal/shared/config"
	"resume-ats/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()
	// Logs go to stderr so stdout stays clean for command output.
	telemetry.Setup(os.Stderr, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
