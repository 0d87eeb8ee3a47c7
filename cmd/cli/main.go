package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/proofolio/proofolio/internal/client/cli"
	"github.com/proofolio/proofolio/internal/client/config"
	ucli "github.com/urfave/cli/v3"
)

func run(ctx context.Context, cmd *ucli.Command) error {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cmd.IsSet("server") {
		cfg.ServerURL = cmd.String("server")
	}
	if cmd.IsSet("timeout") {
		cfg.Timeout = cmd.Duration("timeout")
	}
	if cmd.IsSet("download-dir") {
		cfg.DownloadDir = cmd.String("download-dir")
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	app, err := cli.NewApp(cfg)
	if err != nil {
		return err
	}

	app.Run(ctx)
	return nil
}

func main() {
	cmd := &ucli.Command{
		Name:   "proofolio",
		Usage:  "Interactive client for a proofolio server",
		Action: run,
		Flags: []ucli.Flag{
			&ucli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to JSON config file",
				Sources: ucli.EnvVars("PROOFOLIO_CLI_CONFIG"),
			},
			&ucli.StringFlag{
				Name:    "server",
				Aliases: []string{"s"},
				Usage:   "Server base URL",
				Sources: ucli.EnvVars("PROOFOLIO_SERVER"),
			},
			&ucli.DurationFlag{
				Name:    "timeout",
				Aliases: []string{"t"},
				Usage:   "Per-request timeout",
			},
			&ucli.StringFlag{
				Name:  "download-dir",
				Usage: "Directory for downloaded proofs",
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
