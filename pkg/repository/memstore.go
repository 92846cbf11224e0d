package repository

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/kioku/pkg/model"
)

// Memstore is the embedded in-process Repository for tests and ephemeral
// runs. Data does not persist, and similarity search is not available in
// this mode: SearchSimilar returns model.ErrSearchUnsupported so callers
// see a distinguishable condition instead of a wrong answer.
type Memstore struct {
	mu        sync.RWMutex
	dimension int
	metric    Distance
	cards     map[model.CardID]*model.Card
	order     []model.CardID
}

func NewMemstore() *Memstore {
	return &Memstore{
		cards: make(map[model.CardID]*model.Card),
	}
}

func (s *Memstore) SupportsSearch() bool { return false }

func (s *Memstore) EnsureCollection(_ context.Context, dimension int, metric Distance) error {
	if dimension <= 0 {
		return goerr.New("collection dimension must be positive",
			goerr.T(model.TagCollectionConfig), goerr.V("dimension", dimension))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dimension == 0 {
		s.dimension = dimension
		s.metric = metric
		return nil
	}
	if s.dimension != dimension || s.metric != metric {
		return goerr.New("collection config mismatch",
			goerr.T(model.TagCollectionConfig),
			goerr.V("got_size", s.dimension),
			goerr.V("want_size", dimension),
			goerr.V("got_distance", s.metric),
			goerr.V("want_distance", metric))
	}
	return nil
}

func (s *Memstore) PutCard(_ context.Context, card *model.Card) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dimension > 0 && len(card.Embedding) != s.dimension {
		return goerr.New("embedding length does not match collection dimension",
			goerr.T(model.TagStorage),
			goerr.V("got", len(card.Embedding)),
			goerr.V("want", s.dimension))
	}

	if _, ok := s.cards[card.ID]; !ok {
		s.order = append(s.order, card.ID)
	}
	s.cards[card.ID] = card.Clone()
	return nil
}

func (s *Memstore) GetCard(_ context.Context, id model.CardID) (*model.Card, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	card, ok := s.cards[id]
	if !ok {
		return nil, goerr.Wrap(model.ErrCardNotFound, "no such card", goerr.V("id", id))
	}
	return card.Clone(), nil
}

func (s *Memstore) ListCards(_ context.Context, limit int) ([]*model.Card, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cards := make([]*model.Card, 0, len(s.order))
	for _, id := range s.order {
		if limit > 0 && len(cards) >= limit {
			break
		}
		cards = append(cards, s.cards[id].Clone())
	}
	return cards, nil
}

func (s *Memstore) ListCardsByTag(_ context.Context, tag string, limit int) ([]*model.Card, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var cards []*model.Card
	for _, id := range s.order {
		if limit > 0 && len(cards) >= limit {
			break
		}
		if card := s.cards[id]; card.HasTag(tag) {
			cards = append(cards, card.Clone())
		}
	}
	return cards, nil
}

func (s *Memstore) SearchSimilar(context.Context, []float32, int, string) ([]*model.ScoredCard, error) {
	return nil, model.ErrSearchUnsupported
}

func (s *Memstore) DeleteCard(_ context.Context, id model.CardID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cards[id]; !ok {
		return goerr.Wrap(model.ErrCardNotFound, "no such card", goerr.V("id", id))
	}
	delete(s.cards, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}
