package callback

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hsbot/internal/hsdata"
	"hsbot/internal/request"
)

func TestRoundTrip(t *testing.T) {
	for _, d := range []Data{
		Param(request.KindCard, Add, request.Name, ""),
		Param(request.KindCard, Pick, request.CardSet, "Voyage to the Sunken City"),
		Request(request.KindDeck, Submit),
		List(request.KindCard, Get, "38833"),
		Detail(request.KindCard, Decks),
	} {
		got, err := Parse(d.String())
		require.NoError(t, err)
		assert.Equal(t, d, got)
	}
}

func TestValueMayContainSeparator(t *testing.T) {
	d := Param(request.KindDeck, Pick, request.DeckClass, "a:b")
	got, err := Parse(d.String())
	require.NoError(t, err)
	assert.Equal(t, "a:b", got.Value)
}

func TestParseMalformed(t *testing.T) {
	for _, s := range []string{"", "p:card", "x:card:add::", "p:hero:add::", "p:card:::"} {
		_, err := Parse(s)
		assert.ErrorIs(t, err, ErrMalformed, s)
	}
}

func TestChoicePayloadsFitLimit(t *testing.T) {
	ref := hsdata.MustLoad()
	for _, s := range ref.Sets {
		assert.LessOrEqual(t, len(Param(request.KindCard, Pick, request.CardSet, s.En).String()), MaxLen, s.En)
	}
	for _, c := range ref.Classes {
		assert.LessOrEqual(t, len(Param(request.KindDeck, Pick, request.DeckClass, c.En).String()), MaxLen, c.En)
	}
}
