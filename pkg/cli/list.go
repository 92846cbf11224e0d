package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/kioku/pkg/usecase/card"
)

func listCommand() *cli.Command {
	var (
		cfg   config
		limit int64
	)

	flags := []cli.Flag{
		&cli.IntFlag{
			Name:        "limit",
			Aliases:     []string{"n"},
			Usage:       "Maximum number of cards to list",
			Value:       card.DefaultListLimit,
			Destination: &limit,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, embedderFlags(&cfg)...)

	return &cli.Command{
		Name:  "list",
		Usage: "List stored context cards",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, err := cfg.newUseCase(ctx)
			if err != nil {
				return err
			}

			cards, err := uc.List(ctx, int(limit))
			if err != nil {
				return goerr.Wrap(err, "failed to list cards")
			}

			for _, cd := range cards {
				fmt.Fprintf(c.Root().Writer, "%s\t%d\t%s\t%s\n",
					cd.ID, cd.Importance, cd.CreatedAt.Format("2006-01-02"), summarize(cd.Content))
			}
			return nil
		},
	}
}
