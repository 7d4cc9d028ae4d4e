package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/mdxoutline/internal"
	pkgconfig "github.com/starford/mdxoutline/pkg/config"
)

type runner func(ctx context.Context, opts ...internal.Option) error

// action loads the config named by --config and hands it to run.
func action(run runner) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		configPath := cmd.String("config")

		cfg := internal.NewDefaultConfig()
		if err := pkgconfig.LoadOptional(configPath, cfg); err != nil {
			return fmt.Errorf("failed to parse config: %w", err)
		}
		if vault := cmd.String("vault"); vault != "" {
			cfg.Vault.Path = vault
		}

		if err := run(ctx, internal.WithConfig(cfg)); err != nil {
			return fmt.Errorf("app run error: %w", err)
		}
		return nil
	}
}

func flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to config file",
			DefaultText: "config/config.yaml",
			Value:       "config/config.yaml",
			Sources:     cli.EnvVars("APP_CONFIG_FILE"),
		},
		&cli.StringFlag{
			Name:    "vault",
			Usage:   "Override the vault directory",
			Sources: cli.EnvVars("APP_VAULT_PATH"),
		},
	}
}

func main() {
	cmd := &cli.Command{
		Name:   "mdxoutline",
		Usage:  "Heading outline mirror and heading-link navigation for MDX vaults",
		Action: action(internal.Run),
		Flags:  flags(),
		Commands: []*cli.Command{
			{
				Name:   "index",
				Usage:  "Mirror every document's outline once and exit",
				Action: action(internal.Index),
				Flags:  flags(),
			},
			{
				Name:   "mcp",
				Usage:  "Serve outline tools over MCP stdio",
				Action: action(internal.ServeMCP),
				Flags:  flags(),
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
