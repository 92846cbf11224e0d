package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func tagsCommand() *cli.Command {
	var cfg config

	flags := append(globalFlags(&cfg), embedderFlags(&cfg)...)

	return &cli.Command{
		Name:      "tags",
		Usage:     "List cards carrying a tag",
		ArgsUsage: "<tag>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			tag := c.Args().First()
			if tag == "" {
				return goerr.New("tag argument is required")
			}

			uc, err := cfg.newUseCase(ctx)
			if err != nil {
				return err
			}

			cards, err := uc.ListByTag(ctx, tag)
			if err != nil {
				return goerr.Wrap(err, "failed to list cards by tag")
			}

			for _, cd := range cards {
				fmt.Fprintf(c.Root().Writer, "%s\t%s\n", cd.ID, summarize(cd.Content))
			}
			return nil
		},
	}
}
