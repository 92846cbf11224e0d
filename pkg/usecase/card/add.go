package card

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/kioku/pkg/model"
	"github.com/m-mizutani/kioku/pkg/utils/logging"
)

// AddInput contains the caller-supplied fields of a new context card
type AddInput struct {
	Content    string
	Tags       []string
	Source     string
	Importance int
}

// Add creates a new context card: validate, embed, persist. The
// embedding is computed fully before the upsert, so a failure at any
// stage leaves no partially created card behind. On a storage failure
// the embedding is discarded, not cached.
func (u *UseCase) Add(ctx context.Context, input AddInput) (*model.Card, error) {
	card := &model.Card{
		ID:         model.NewCardID(),
		Content:    input.Content,
		Tags:       input.Tags,
		Source:     input.Source,
		Importance: input.Importance,
		CreatedAt:  time.Now().UTC(),
	}
	if card.Source == "" {
		card.Source = model.DefaultSource
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	embedding, err := u.embedder.Embed(ctx, card.Content)
	if err != nil {
		return nil, err
	}
	card.Embedding = embedding

	if err := u.repo.PutCard(ctx, card); err != nil {
		return nil, goerr.Wrap(err, "failed to store card", goerr.V("id", card.ID))
	}

	logging.From(ctx).Info("added context card",
		"id", card.ID,
		"source", card.Source,
		"tags", card.Tags,
	)

	return card, nil
}
