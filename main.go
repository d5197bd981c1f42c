package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Black-And-White-Club/golf-bot/app"
	"github.com/Black-And-White-Club/golf-bot/config"
	"github.com/Black-And-White-Club/golf-bot/internal/observability"
	"github.com/Black-And-White-Club/golf-bot/internal/observability/attr"
	"github.com/urfave/cli/v2"
)

func main() {
	cliApp := &cli.App{
		Name:  "golf-bot",
		Usage: "live golf scoring and leaderboards",
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "run the HTTP API, live feeds and event handlers",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Value:   "config.yaml",
						Usage:   "path to the configuration file",
						EnvVars: []string{"CONFIG_PATH"},
					},
				},
				Action: serve,
			},
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func serve(c *cli.Context) error {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	obs := observability.Init(cfg.Observability)
	logger := obs.Logger

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	application := &app.App{}
	if err := application.Initialize(ctx, cfg, obs); err != nil {
		application.Close()
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer application.Close()

	logger.InfoContext(ctx, "golf-bot started", attr.String("address", cfg.HTTP.Address))

	if err := application.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}

	logger.Info("Application shut down gracefully")
	return nil
}

