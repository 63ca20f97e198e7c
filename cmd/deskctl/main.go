package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/rogerio-castellano/order-desk/internal/cli"
	"github.com/rogerio-castellano/order-desk/internal/logging"
)

func main() {
	level := os.Getenv("DESKCTL_LOG_LEVEL")
	if level == "" {
		level = "warn"
	}
	cfg := logging.DefaultConfig()
	cfg.Level = level
	logging.Init(cfg)
	logging.SetOutput(os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.NewApp(os.Stdout).RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "deskctl:", err)
		stop()
		os.Exit(1)
	}
}
