package hsdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmbedded(t *testing.T) {
	ref, err := Load()
	require.NoError(t, err)

	for _, sign := range []string{TypeMinion, TypeSpell, TypeWeapon, TypeHero, TypeLocation} {
		_, ok := ref.TypeBySign(sign)
		assert.True(t, ok, "type %s must be defined", sign)
	}
	assert.True(t, ref.HasClass("Mage"))
	assert.True(t, ref.HasSet("Voyage to the Sunken City"))
	assert.NotEmpty(t, ref.Formats)
}

func TestLookups(t *testing.T) {
	ref := MustLoad()

	minion, ok := ref.TypeByName("Minion")
	require.True(t, ok)
	assert.Equal(t, TypeMinion, minion.Sign)

	rarity, ok := ref.RarityBySign("L")
	require.True(t, ok)
	assert.Equal(t, "Legendary", rarity.En)

	_, ok = ref.RarityByName("Mythic")
	assert.False(t, ok)
	_, ok = ref.TypeBySign("X")
	assert.False(t, ok)
	assert.False(t, ref.HasClass("Necromancer"))

	std, ok := ref.FormatBySign("2")
	require.True(t, ok)
	assert.Equal(t, "Standard", std.En)
}

func TestParseRejectsIncompleteData(t *testing.T) {
	_, err := Parse([]byte("types: []\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("types: [oops"))
	assert.Error(t, err)
}
