package card

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/kioku/pkg/model"
	"github.com/m-mizutani/kioku/pkg/utils/logging"
)

// SearchInput contains options for similarity search
type SearchInput struct {
	Query string
	Limit int    // defaults to DefaultSearchLimit, capped at MaxSearchLimit
	Tag   string // optional exact-match tag filter, applied before ranking
}

// Search embeds the query text and returns the nearest cards in
// descending score order. Backends without similarity search (the
// embedded store) yield model.ErrSearchUnsupported before the embedding
// provider is called.
func (u *UseCase) Search(ctx context.Context, input SearchInput) ([]*model.ScoredCard, error) {
	if strings.TrimSpace(input.Query) == "" {
		return nil, goerr.New("search query is empty", goerr.T(model.TagInvalidInput))
	}

	limit := input.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	if limit > MaxSearchLimit {
		limit = MaxSearchLimit
	}

	if !u.repo.SupportsSearch() {
		return nil, model.ErrSearchUnsupported
	}

	vector, err := u.embedder.Embed(ctx, input.Query)
	if err != nil {
		return nil, err
	}

	results, err := u.repo.SearchSimilar(ctx, vector, limit, input.Tag)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to search cards")
	}

	logging.From(ctx).Debug("searched context cards",
		"query", input.Query,
		"limit", limit,
		"tag", input.Tag,
		"hits", len(results),
	)

	return results, nil
}
