package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/cashtrack/internal/app"
	"github.com/MrJamesThe3rd/cashtrack/internal/config"
	"github.com/MrJamesThe3rd/cashtrack/internal/logging"
)

// ledgerApp is opened by the root command before any subcommand runs.
var ledgerApp *app.App

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "cashtrack",
		Short: "Bookkeeping for small businesses: cash and bank in one ledger",
		Long: `cashtrack keeps a local ledger of cash and bank transactions, imports
bank statements, and talks to the Cashtrack API for accounts, profiles and
the server-side collections.`,
		SilenceUsage:      true,
		PersistentPreRunE: openApp,
	}

	root.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	root.PersistentFlags().String("log-format", "", "log format (console, json)")

	root.AddCommand(
		summaryCmd(),
		txCmd(),
		balancesCmd(),
		currencyCmd(),
		authCmd(),
		profileCmd(),
		importCmd(),
		rulesCmd(),
		exportCmd(),
	)
	root.AddCommand(resourceCmds()...)

	return root
}

func openApp(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env file", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.App.LogLevel = level
	}

	if format, _ := cmd.Flags().GetString("log-format"); format != "" {
		cfg.App.LogFormat = format
	}

	if err := logging.Setup(os.Stderr, cfg.App.LogLevel, cfg.App.LogFormat); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	ledgerApp, err = app.New(cmd.Context(), cfg)

	return err
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd().ExecuteContext(ctx)
	stop()

	if ledgerApp != nil {
		if closeErr := ledgerApp.Close(); closeErr != nil {
			slog.Warn("failed to close store", "error", closeErr)
		}
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
