package request

import (
	"errors"
	"fmt"
)

// ErrUnknownField signals a field name outside the closed set below reaching
// code that must be total over it. It is a defect, not a user mistake.
var ErrUnknownField = errors.New("unknown request field")

// Kind distinguishes the two request flows.
type Kind string

const (
	KindCard Kind = "card"
	KindDeck Kind = "deck"
)

func (k Kind) Valid() bool {
	return k == KindCard || k == KindDeck
}

// Field names one optional filter of a request.
type Field string

const (
	Name       Field = "name"
	CardType   Field = "ctype"
	Classes    Field = "classes"
	CardSet    Field = "cset"
	Rarity     Field = "rarity"
	Cost       Field = "cost"
	Attack     Field = "attack"
	Health     Field = "health"
	Durability Field = "durability"
	Armor      Field = "armor"

	DeckFormat   Field = "dformat"
	DeckClass    Field = "dclass"
	CreatedAfter Field = "deck_created_after"
	DeckCards    Field = "deck_cards"
)

// Input describes how a field's value is collected from the user.
type Input int

const (
	InputText Input = iota
	InputNumber
	InputDate
	InputCardIDs
	InputChoice
)

var cardFields = []Field{Name, CardType, Classes, CardSet, Rarity, Cost, Attack, Health, Durability, Armor}

var deckFields = []Field{DeckFormat, DeckClass, CreatedAfter, DeckCards}

// NumericFields are the card stats filtered by exact value.
var NumericFields = []Field{Cost, Attack, Health, Durability, Armor}

// Fields returns every field of kind k in display order.
func Fields(k Kind) []Field {
	switch k {
	case KindCard:
		return cardFields
	case KindDeck:
		return deckFields
	}
	return nil
}

// ParseField checks that s names a field of kind k.
func ParseField(k Kind, s string) (Field, error) {
	for _, f := range Fields(k) {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q for %s request", ErrUnknownField, s, k)
}

func (f Field) Kind() Kind {
	switch f {
	case Name, CardType, Classes, CardSet, Rarity, Cost, Attack, Health, Durability, Armor:
		return KindCard
	case DeckFormat, DeckClass, CreatedAfter, DeckCards:
		return KindDeck
	}
	return ""
}

// Label is the human readable name shown in request summaries.
func (f Field) Label() string {
	switch f {
	case Name:
		return "Name"
	case CardType:
		return "Type"
	case Classes:
		return "Classes"
	case CardSet:
		return "Set"
	case Rarity:
		return "Rarity"
	case Cost:
		return "Cost"
	case Attack:
		return "Attack"
	case Health:
		return "Health"
	case Durability:
		return "Durability"
	case Armor:
		return "Armor"
	case DeckFormat:
		return "Format"
	case DeckClass:
		return "Class"
	case CreatedAfter:
		return "Created after"
	case DeckCards:
		return "Cards"
	}
	return "Unknown"
}

func (f Field) Input() Input {
	switch f {
	case Name:
		return InputText
	case Cost, Attack, Health, Durability, Armor:
		return InputNumber
	case CreatedAfter:
		return InputDate
	case DeckCards:
		return InputCardIDs
	}
	return InputChoice
}

// Multi reports whether the field holds a list of values.
func (f Field) Multi() bool {
	return f == Classes || f == DeckCards
}

func (f Field) Numeric() bool {
	return f.Input() == InputNumber
}
