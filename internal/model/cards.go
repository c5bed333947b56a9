package model

// CardSummary is one row of a card search response.
type CardSummary struct {
	DbfID    int    `json:"dbf_id"`
	CardID   string `json:"card_id"`
	Name     string `json:"name"`
	CardType string `json:"card_type"` // english type name
	Rarity   string `json:"rarity"`    // english rarity name
	Cost     *int   `json:"cost,omitempty"`
}

// CardDetail is the full card returned by the single-card endpoint.
type CardDetail struct {
	DbfID       int      `json:"dbf_id"`
	CardID      string   `json:"card_id"`
	Name        string   `json:"name"`
	CardType    string   `json:"card_type"`
	CardClass   []string `json:"card_class"`
	CardSet     string   `json:"card_set"`
	Rarity      string   `json:"rarity"`
	Cost        *int     `json:"cost"`
	Attack      *int     `json:"attack"`
	Health      *int     `json:"health"`
	Durability  *int     `json:"durability"`
	Armor       *int     `json:"armor"`
	Text        string   `json:"text"`
	Flavor      string   `json:"flavor"`
	Tribe       []string `json:"tribe"`
	SpellSchool string   `json:"spell_school"`
	Artist      string   `json:"artist"`
	Mechanic    []string `json:"mechanic"`
}
