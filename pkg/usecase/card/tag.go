package card

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/kioku/pkg/model"
)

// ListByTag retrieves cards whose tag set contains the tag. Matching is
// exact-string and case-sensitive.
func (u *UseCase) ListByTag(ctx context.Context, tag string) ([]*model.Card, error) {
	if strings.TrimSpace(tag) == "" {
		return nil, goerr.New("tag is empty", goerr.T(model.TagInvalidInput))
	}

	cards, err := u.repo.ListCardsByTag(ctx, tag, DefaultTagLimit)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list cards by tag", goerr.V("tag", tag))
	}
	return cards, nil
}
