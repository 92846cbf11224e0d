package model

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

type CardID string

// NewCardID generates a new unique CardID
func NewCardID() CardID {
	return CardID(uuid.New().String())
}

const (
	// ImportanceMin and ImportanceMax bound the caller-supplied priority weight.
	ImportanceMin = 1
	ImportanceMax = 10

	// DefaultSource is used when the caller does not specify provenance.
	DefaultSource = "manual"
)

// Card is one stored unit of content, metadata and embedding.
// Content and Embedding are immutable after creation; the only mutation
// of a stored card is an explicit delete by ID.
type Card struct {
	ID         CardID
	Content    string
	Tags       []string
	Source     string
	Importance int
	Embedding  []float32
	CreatedAt  time.Time
}

// Validate checks the caller-supplied fields of a card. The embedding is
// not checked here; its length is verified against the collection
// dimension by the repository.
func (c *Card) Validate() error {
	if strings.TrimSpace(c.Content) == "" {
		return goerr.New("card content is empty", goerr.T(TagInvalidInput))
	}
	if c.Importance < ImportanceMin || c.Importance > ImportanceMax {
		return goerr.New("card importance is out of range",
			goerr.T(TagInvalidInput),
			goerr.V("importance", c.Importance))
	}
	return nil
}

// HasTag reports whether the card carries the tag. Matching is
// exact-string and case-sensitive.
func (c *Card) HasTag(tag string) bool {
	return slices.Contains(c.Tags, tag)
}

// Clone returns a deep copy so that stores and callers never share
// mutable slices.
func (c *Card) Clone() *Card {
	if c == nil {
		return nil
	}
	clone := *c
	clone.Tags = slices.Clone(c.Tags)
	clone.Embedding = slices.Clone(c.Embedding)
	return &clone
}

// ScoredCard is a search result: a card with its similarity score under
// the collection's distance metric.
type ScoredCard struct {
	Card  *Card
	Score float64
}
