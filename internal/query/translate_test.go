package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hsbot/internal/request"
)

func TestTranslateCreatureScenario(t *testing.T) {
	c := request.New()
	require.NoError(t, c.Set(request.CardType, "M"))
	require.NoError(t, c.Set(request.Cost, "3"))
	require.NoError(t, c.Set(request.Attack, "4"))
	require.NoError(t, c.Set(request.Health, "3"))

	params, err := Translate(request.KindCard, c)
	require.NoError(t, err)

	assert.Equal(t, Params{
		"ctype":      "M",
		"cost_min":   "3",
		"cost_max":   "3",
		"attack_min": "4",
		"attack_max": "4",
		"health_min": "3",
		"health_max": "3",
	}, params)
}

func TestTranslateNumericMinEqualsMax(t *testing.T) {
	for _, f := range request.NumericFields {
		for _, v := range []string{"0", "1", "12", "999"} {
			c := request.New()
			require.NoError(t, c.Set(f, v))

			params, err := Translate(request.KindCard, c)
			require.NoError(t, err)
			assert.Equal(t, v, params[string(f)+"_min"])
			assert.Equal(t, v, params[string(f)+"_max"])
			assert.Len(t, params, 2)
		}
	}
}

func TestTranslateListsAndText(t *testing.T) {
	c := request.New()
	require.NoError(t, c.Set(request.Name, "Ragnaros the Firelord"))
	require.NoError(t, c.Set(request.Classes, "Demon Hunter"))
	require.NoError(t, c.Set(request.Classes, "Mage"))
	require.NoError(t, c.Set(request.CardSet, "Core"))
	require.NoError(t, c.Set(request.Rarity, "L"))

	params, err := Translate(request.KindCard, c)
	require.NoError(t, err)
	assert.Equal(t, "Ragnaros the Firelord", params["name"])
	assert.Equal(t, "Demon Hunter,Mage", params["classes"])
	assert.Equal(t, "Core", params["cset"])
	assert.Equal(t, "L", params["rarity"])
	assert.Equal(t, []string{"classes", "cset", "name", "rarity"}, params.Keys())
}

func TestTranslateDeck(t *testing.T) {
	c := request.New()
	require.NoError(t, c.Set(request.CreatedAfter, "01.01.2020"))
	require.NoError(t, c.Set(request.DeckFormat, "2"))
	require.NoError(t, c.Set(request.DeckClass, "Priest"))
	require.NoError(t, c.Set(request.DeckCards, "64", "1004"))

	params, err := Translate(request.KindDeck, c)
	require.NoError(t, err)
	assert.Equal(t, Params{
		"deck_created_after": "01/01/2020",
		"dformat":            "2",
		"dclass":             "Priest",
		"deck_cards":         "64,1004",
	}, params)

	assert.Equal(t, "01/01/2020", params.Values().Get("deck_created_after"))
}

func TestTranslateDateMonthFirst(t *testing.T) {
	c := request.New()
	require.NoError(t, c.Set(request.CreatedAfter, "25.12.2021"))

	params, err := Translate(request.KindDeck, c)
	require.NoError(t, err)
	assert.Equal(t, "12/25/2021", params["deck_created_after"])
}

func TestTranslateCorruptDateIsFatal(t *testing.T) {
	c := request.New()
	require.NoError(t, c.Set(request.CreatedAfter, "32.13.2020"))

	_, err := Translate(request.KindDeck, c)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrEmptyRequest)
}

func TestTranslateEmpty(t *testing.T) {
	_, err := Translate(request.KindCard, request.New())
	assert.ErrorIs(t, err, ErrEmptyRequest)

	_, err = Translate(request.KindDeck, request.New())
	assert.ErrorIs(t, err, ErrEmptyRequest)
}

func TestTranslateIgnoresOtherKind(t *testing.T) {
	c := request.New()
	require.NoError(t, c.Set(request.DeckFormat, "1"))

	_, err := Translate(request.KindCard, c)
	assert.ErrorIs(t, err, ErrEmptyRequest)
}

func TestTranslateSingleFieldNeverEmpty(t *testing.T) {
	values := map[request.Field][]string{
		request.Name:         {"Leeroy"},
		request.CardType:     {"S"},
		request.Classes:      {"Mage"},
		request.CardSet:      {"Core"},
		request.Rarity:       {"C"},
		request.Cost:         {"1"},
		request.Attack:       {"1"},
		request.Health:       {"1"},
		request.Durability:   {"1"},
		request.Armor:        {"1"},
		request.DeckFormat:   {"1"},
		request.DeckClass:    {"Mage"},
		request.CreatedAfter: {"01.01.2020"},
		request.DeckCards:    {"64"},
	}
	for f, v := range values {
		c := request.New()
		require.NoError(t, c.Set(f, v...))

		params, err := Translate(f.Kind(), c)
		require.NoError(t, err, f)
		assert.NotEmpty(t, params)
	}
}
