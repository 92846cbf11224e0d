package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/kioku/pkg/model"
)

func showCommand() *cli.Command {
	var (
		cfg    config
		cardID model.CardID
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "card-id",
			Aliases:     []string{"id"},
			Usage:       "Card ID to show",
			Required:    true,
			Destination: (*string)(&cardID),
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, embedderFlags(&cfg)...)

	return &cli.Command{
		Name:  "show",
		Usage: "Show detailed information of a specific card",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, err := cfg.newUseCase(ctx)
			if err != nil {
				return err
			}

			got, err := uc.Get(ctx, cardID)
			if err != nil {
				return goerr.Wrap(err, "failed to show card")
			}

			// The embedding is bulky and meaningless to a human reader.
			view := struct {
				*model.Card
				Embedding []float32 `json:"embedding,omitempty"`
			}{Card: got}

			data, err := json.MarshalIndent(view, "", "  ")
			if err != nil {
				return goerr.Wrap(err, "failed to marshal card")
			}

			fmt.Fprintf(c.Root().Writer, "%s\n", string(data))
			return nil
		},
	}
}
