package card

import (
	"context"

	"github.com/m-mizutani/kioku/pkg/model"
	"github.com/m-mizutani/kioku/pkg/utils/logging"
)

// Delete removes a card permanently. A miss returns
// model.ErrCardNotFound; deleting the same ID twice reports not-found on
// the second call.
func (u *UseCase) Delete(ctx context.Context, id model.CardID) error {
	if err := u.repo.DeleteCard(ctx, id); err != nil {
		return err
	}

	logging.From(ctx).Info("deleted context card", "id", id)
	return nil
}
