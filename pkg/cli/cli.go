package cli

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/kioku/pkg/utils/logging"
)

type Error struct {
	Code    int
	Message string
}

func Run(ctx context.Context, argv []string) *Error {
	cmd := &cli.Command{
		Name:  "kioku",
		Usage: "Semantic memory for context cards",
		Commands: []*cli.Command{
			addCommand(),
			searchCommand(),
			showCommand(),
			listCommand(),
			tagsCommand(),
			deleteCommand(),
		},
	}

	if err := cmd.Run(ctx, argv); err != nil {
		logging.Default().Error("command failed", "error", err)
		return &Error{
			Code:    1,
			Message: err.Error(),
		}
	}

	return nil
}
