package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/kioku/pkg/model"
	"github.com/m-mizutani/kioku/pkg/usecase/card"
)

func addCommand() *cli.Command {
	var (
		cfg        config
		content    string
		tags       []string
		source     string
		importance int64
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "content",
			Aliases:     []string{"m"},
			Usage:       "Card content to remember",
			Required:    true,
			Destination: &content,
		},
		&cli.StringSliceFlag{
			Name:        "tag",
			Aliases:     []string{"t"},
			Usage:       "Tag to attach (repeatable)",
			Destination: &tags,
		},
		&cli.StringFlag{
			Name:        "source",
			Aliases:     []string{"s"},
			Usage:       "Provenance label",
			Value:       model.DefaultSource,
			Destination: &source,
		},
		&cli.IntFlag{
			Name:        "importance",
			Aliases:     []string{"i"},
			Usage:       "Importance from 1 to 10",
			Value:       5,
			Destination: &importance,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, embedderFlags(&cfg)...)

	return &cli.Command{
		Name:  "add",
		Usage: "Add a new context card",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, err := cfg.newUseCase(ctx)
			if err != nil {
				return err
			}

			added, err := uc.Add(ctx, card.AddInput{
				Content:    content,
				Tags:       tags,
				Source:     source,
				Importance: int(importance),
			})
			if err != nil {
				return goerr.Wrap(err, "failed to add card")
			}

			fmt.Fprintf(c.Root().Writer, "%s\n", added.ID)
			return nil
		},
	}
}
