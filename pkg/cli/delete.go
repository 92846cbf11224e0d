package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/kioku/pkg/model"
)

func deleteCommand() *cli.Command {
	var (
		cfg    config
		cardID model.CardID
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "card-id",
			Aliases:     []string{"id"},
			Usage:       "Card ID to delete",
			Required:    true,
			Destination: (*string)(&cardID),
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, embedderFlags(&cfg)...)

	return &cli.Command{
		Name:  "delete",
		Usage: "Delete a card by ID",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, err := cfg.newUseCase(ctx)
			if err != nil {
				return err
			}

			if err := uc.Delete(ctx, cardID); err != nil {
				return goerr.Wrap(err, "failed to delete card")
			}

			fmt.Fprintf(c.Root().Writer, "deleted %s\n", cardID)
			return nil
		},
	}
}
