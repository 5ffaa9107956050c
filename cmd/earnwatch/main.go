package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/NasaVasa/earnwatch/internal/app"
	"github.com/NasaVasa/earnwatch/internal/config"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "earnwatch",
		Short:         "Earnings alert scheduling and ticker universe sync",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newDailyCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the daily trigger endpoint and the alert API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), config.Config.ValidateServe, func(ctx context.Context, a *app.App) error {
				return a.Run(ctx)
			})
		},
	}
}

func newDailyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "daily",
		Short: "Run the daily alert sweep and ticker sync once and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), nil, func(ctx context.Context, a *app.App) error {
				return a.RunDaily(ctx)
			})
		},
	}
}

// withApp loads config, applies the command's extra check when given, and
// builds the app for run.
func withApp(ctx context.Context, check func(config.Config) error, run func(context.Context, *app.App) error) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if check != nil {
		if err := check(cfg); err != nil {
			return err
		}
	}

	application, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize app: %w", err)
	}
	defer application.Shutdown()

	return run(ctx, application)
}
