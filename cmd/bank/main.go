package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"simple-bank-ledger/config"
	"simple-bank-ledger/internal/adapter/cli"
	"simple-bank-ledger/internal/app"
	"simple-bank-ledger/pkg/logger"

	"github.com/spf13/pflag"
)

func main() {
	configPath := pflag.StringP("config", "c", "", "path to a YAML config file")
	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// stdout belongs to the menu
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.Build(ctx, cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("Failed to start")
		fmt.Fprintln(os.Stderr, "The bank is unavailable right now. Please try again later.")
		os.Exit(1)
	}
	defer a.Close()

	shell := cli.New(a.Auth, a.Ledger, a.Sessions, os.Stdin, os.Stdout, cfg.Ledger.AmountScale,
		logger.WithComponent(log, "cli"))
	if reader := cli.TerminalPasswordReader(os.Stdin, os.Stdout); reader != nil {
		shell.SetPasswordReader(reader)
	}

	fmt.Println("Welcome to the Simple Bank!")
	if err := shell.Run(ctx); err != nil && ctx.Err() == nil {
		log.Error().Err(err).Msg("Shell stopped")
	}
}
