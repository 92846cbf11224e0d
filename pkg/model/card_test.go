package model_test

import (
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/kioku/pkg/model"
)

func TestCardValidate(t *testing.T) {
	valid := func() *model.Card {
		return &model.Card{
			ID:         model.NewCardID(),
			Content:    "User prefers Python",
			Tags:       []string{"python", "preference"},
			Source:     "user",
			Importance: 8,
		}
	}

	t.Run("valid card", func(t *testing.T) {
		gt.NoError(t, valid().Validate())
	})

	t.Run("empty content", func(t *testing.T) {
		card := valid()
		card.Content = ""
		err := card.Validate()
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, model.TagInvalidInput))
	})

	t.Run("whitespace only content", func(t *testing.T) {
		card := valid()
		card.Content = "  \t\n "
		err := card.Validate()
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, model.TagInvalidInput))
	})

	t.Run("importance bounds", func(t *testing.T) {
		for _, importance := range []int{1, 5, 10} {
			card := valid()
			card.Importance = importance
			gt.NoError(t, card.Validate())
		}
		for _, importance := range []int{0, 11, -3} {
			card := valid()
			card.Importance = importance
			err := card.Validate()
			gt.Error(t, err)
			gt.True(t, goerr.HasTag(err, model.TagInvalidInput))
		}
	})
}

func TestCardHasTag(t *testing.T) {
	card := &model.Card{
		Content:    "note",
		Tags:       []string{"python", "Preference"},
		Importance: 5,
	}

	gt.True(t, card.HasTag("python"))
	gt.False(t, card.HasTag("preference")) // matching is case-sensitive
	gt.False(t, card.HasTag("rust"))
}

func TestNewCardID(t *testing.T) {
	a := model.NewCardID()
	b := model.NewCardID()
	gt.NotEqual(t, a, b)
	gt.NotEqual(t, string(a), "")
}
