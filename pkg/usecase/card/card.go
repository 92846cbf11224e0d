package card

import (
	"github.com/m-mizutani/kioku/pkg/adapter"
	"github.com/m-mizutani/kioku/pkg/repository"
)

const (
	// DefaultSearchLimit and MaxSearchLimit bound similarity search
	// result counts.
	DefaultSearchLimit = 10
	MaxSearchLimit     = 100

	// DefaultTagLimit caps tag listing results.
	DefaultTagLimit = 50

	// DefaultListLimit caps get-all results.
	DefaultListLimit = 100
)

// UseCase provides context card operations: add, search, get, list,
// delete. It is stateless between calls; the repository and embedder
// handles are safe for concurrent use.
type UseCase struct {
	repo     repository.Repository
	embedder adapter.Embedder
}

// New creates a new card UseCase instance
func New(repo repository.Repository, embedder adapter.Embedder) *UseCase {
	return &UseCase{
		repo:     repo,
		embedder: embedder,
	}
}
