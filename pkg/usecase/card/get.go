package card

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/kioku/pkg/model"
)

// Get retrieves a single card by ID
func (u *UseCase) Get(ctx context.Context, id model.CardID) (*model.Card, error) {
	card, err := u.repo.GetCard(ctx, id)
	if err != nil {
		return nil, err
	}
	return card, nil
}

// List retrieves up to limit cards; limit defaults to DefaultListLimit.
// The order is stable for unchanged underlying data but otherwise
// undefined.
func (u *UseCase) List(ctx context.Context, limit int) ([]*model.Card, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	cards, err := u.repo.ListCards(ctx, limit)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list cards")
	}
	return cards, nil
}
