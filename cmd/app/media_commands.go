package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/mediavault/cmd/app/commands"
	"github.com/allisson/mediavault/internal/app"
	"github.com/allisson/mediavault/internal/config"
)

func getMediaCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "encrypt-file",
			Usage: "Encrypt a local file into storage under the configured master key",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "input",
					Aliases:  []string{"i"},
					Required: true,
					Usage:    "Path of the plaintext file to ingest",
				},
				&cli.StringFlag{
					Name:    "name",
					Aliases: []string{"n"},
					Value:   "",
					Usage:   "Resource name in storage (defaults to the input file name)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(context.Background()) }()

				keyStore, err := container.KeyStore()
				if err != nil {
					return err
				}

				mediaUseCase, err := container.MediaUseCase()
				if err != nil {
					return err
				}

				return commands.RunEncryptFile(
					ctx,
					mediaUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					commands.EncryptFileOptions{
						InputPath:  cmd.String("input"),
						Name:       cmd.String("name"),
						StagingDir: cfg.UploadStagingDir,
						Ephemeral:  keyStore.MasterKey().Ephemeral,
					},
				)
			},
		},
	}
}
