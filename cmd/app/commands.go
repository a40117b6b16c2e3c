package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/saferoute/vault/cmd/app/commands"
	cryptoService "github.com/saferoute/vault/internal/crypto/service"
)

const defaultVaultURL = "http://localhost:8082"

func getCommands(version string) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "server",
			Usage: "Start the vault API server, metrics server and record reaper",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunServer(ctx, version)
			},
		},
		{
			Name:  "create-master-key",
			Usage: "Generate a new 32-byte vault master key",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "kms-provider",
					Usage: "KMS provider used to encrypt the key (e.g., localsecrets, gcpkms, awskms)",
				},
				&cli.StringFlag{
					Name:  "kms-key-uri",
					Usage: "KMS key URI (e.g., base64key://..., awskms:///alias/...)",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunCreateMasterKey(
					ctx,
					cryptoService.NewKMSService(),
					slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})),
					commands.DefaultIO().Writer,
					cmd.String("kms-provider"),
					cmd.String("kms-key-uri"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "health",
			Usage: "Check the health of a running vault",
			Flags: []cli.Flag{urlFlag(), formatFlag()},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunHealth(ctx, nil, commands.DefaultIO().Writer, cmd.String("url"), cmd.String("format"))
			},
		},
		{
			Name:  "status",
			Usage: "Show the number of stored batches and the TTL of a running vault",
			Flags: []cli.Flag{urlFlag(), formatFlag()},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunStatus(ctx, nil, commands.DefaultIO().Writer, cmd.String("url"), cmd.String("format"))
			},
		},
	}
}

func urlFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "url",
		Aliases: []string{"u"},
		Value:   defaultVaultURL,
		Usage:   "Base URL of the vault API",
		Sources: cli.EnvVars("VAULT_URL"),
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Value:   "text",
		Usage:   "Output format: 'text' or 'json'",
	}
}
