package model

// DeckSummary is one row of a deck search response.
type DeckSummary struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	DeckClass  string `json:"deck_class"`
	DeckFormat string `json:"deck_format"`
	Created    string `json:"created"`
}

// DeckCard is a card entry of a deck together with its copy count.
type DeckCard struct {
	Card   CardSummary `json:"card"`
	Number int         `json:"number"`
}

// DeckDetail is a complete deck, as returned by the single-deck and decode endpoints.
type DeckDetail struct {
	ID         int        `json:"id"`
	Name       string     `json:"name"`
	DeckClass  string     `json:"deck_class"`
	DeckFormat string     `json:"deck_format"`
	Created    string     `json:"created"`
	String     string     `json:"string"`
	Cards      []DeckCard `json:"cards"`
}

// Size is the total number of cards including duplicates.
func (d DeckDetail) Size() int {
	n := 0
	for _, c := range d.Cards {
		n += c.Number
	}
	return n
}
