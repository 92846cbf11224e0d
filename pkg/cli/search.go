package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/kioku/pkg/usecase/card"
)

func searchCommand() *cli.Command {
	var (
		cfg   config
		tag   string
		limit int64
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "tag",
			Aliases:     []string{"t"},
			Usage:       "Restrict results to cards with this tag",
			Destination: &tag,
		},
		&cli.IntFlag{
			Name:        "limit",
			Aliases:     []string{"n"},
			Usage:       "Maximum number of results",
			Value:       card.DefaultSearchLimit,
			Destination: &limit,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, embedderFlags(&cfg)...)

	return &cli.Command{
		Name:      "search",
		Usage:     "Search cards by semantic similarity",
		ArgsUsage: "<query>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			query := strings.Join(c.Args().Slice(), " ")
			if query == "" {
				return goerr.New("query argument is required")
			}

			uc, err := cfg.newUseCase(ctx)
			if err != nil {
				return err
			}

			sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond,
				spinner.WithWriter(os.Stderr), spinner.WithSuffix(" searching..."))
			sp.Start()
			results, err := uc.Search(ctx, card.SearchInput{
				Query: query,
				Limit: int(limit),
				Tag:   tag,
			})
			sp.Stop()
			if err != nil {
				return goerr.Wrap(err, "failed to search cards")
			}

			if len(results) == 0 {
				fmt.Fprintf(c.Root().Writer, "No matching cards\n")
				return nil
			}

			for _, r := range results {
				fmt.Fprintf(c.Root().Writer, "%.4f\t%s\t%s\n",
					r.Score, r.Card.ID, summarize(r.Card.Content))
			}
			return nil
		},
	}
}

// summarize compresses card content to a single display line.
func summarize(content string) string {
	line := strings.Join(strings.Fields(content), " ")
	const max = 80
	if len(line) > max {
		return line[:max-3] + "..."
	}
	return line
}
