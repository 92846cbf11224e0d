package repository

import (
	"context"

	"github.com/m-mizutani/kioku/pkg/model"
)

// Distance is the similarity metric of the vector collection.
type Distance string

const (
	DistanceCosine Distance = "Cosine"
	DistanceDot    Distance = "Dot"
	DistanceEuclid Distance = "Euclid"
)

// Repository defines the interface for context card persistence over a
// vector collection. Two modes exist: the networked Qdrant store and the
// embedded Memstore; SupportsSearch distinguishes their capabilities.
type Repository interface {
	// EnsureCollection creates the collection if absent, or verifies that
	// an existing collection matches the dimension and metric exactly.
	// A mismatch is a configuration error, not retryable per request.
	EnsureCollection(ctx context.Context, dimension int, metric Distance) error

	// PutCard inserts or replaces a card by its ID. The embedding length
	// must equal the collection dimension.
	PutCard(ctx context.Context, card *model.Card) error

	// GetCard retrieves a card by ID
	GetCard(ctx context.Context, id model.CardID) (*model.Card, error)

	// ListCards retrieves up to limit cards in an order that is stable
	// for unchanged underlying data
	ListCards(ctx context.Context, limit int) ([]*model.Card, error)

	// ListCardsByTag retrieves up to limit cards whose tag set contains
	// the tag (exact-string match)
	ListCardsByTag(ctx context.Context, tag string, limit int) ([]*model.Card, error)

	// SearchSimilar returns the limit nearest cards by the collection
	// metric, descending by score. A non-empty tag restricts candidates
	// before ranking, so limit refers to the post-filter result count.
	SearchSimilar(ctx context.Context, vector []float32, limit int, tag string) ([]*model.ScoredCard, error)

	// DeleteCard removes a card permanently. Deleting a missing ID
	// returns model.ErrCardNotFound.
	DeleteCard(ctx context.Context, id model.CardID) error

	// SupportsSearch reports whether SearchSimilar is available in this
	// backend mode
	SupportsSearch() bool
}
