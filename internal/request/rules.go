package request

import (
	"errors"
	"fmt"
	"slices"

	"hsbot/internal/hsdata"
)

// ErrUnknownCode is returned for a choice value that is not in the reference data.
var ErrUnknownCode = errors.New("unknown code")

// typeClears lists, per card type sign, the stat fields that do not apply to
// that type and are unset when the type is selected.
var typeClears = map[string][]Field{
	hsdata.TypeMinion:   {Armor, Durability},
	hsdata.TypeWeapon:   {Armor, Health},
	hsdata.TypeSpell:    {Armor, Durability, Attack, Health},
	hsdata.TypeHero:     {Attack, Health, Durability},
	hsdata.TypeLocation: {Attack, Armor, Durability},
}

// typeStats lists, per card type sign, the stat fields offered besides cost.
var typeStats = map[string][]Field{
	hsdata.TypeMinion:   {Attack, Health},
	hsdata.TypeWeapon:   {Attack, Durability},
	hsdata.TypeSpell:    nil,
	hsdata.TypeHero:     {Armor},
	hsdata.TypeLocation: {Health},
}

// Transition returns the fields cleared by selecting card type sign.
func Transition(sign string) ([]Field, error) {
	fields, ok := typeClears[sign]
	if !ok {
		return nil, fmt.Errorf("%w: card type %q", ErrUnknownCode, sign)
	}
	return fields, nil
}

// StatFields returns the type-specific stat fields for card type sign. Unset or
// unknown types offer none.
func StatFields(sign string) []Field {
	return typeStats[sign]
}

// Offered lists the fields a user may currently choose for a request of kind k,
// in button order.
func Offered(k Kind, c *Context) []Field {
	switch k {
	case KindCard:
		fields := []Field{Name, CardType, Classes, CardSet, Rarity, Cost}
		return append(fields, StatFields(c.Value(CardType))...)
	case KindDeck:
		return slices.Clone(deckFields)
	}
	return nil
}

// IsOffered reports whether f is among Offered(k, c).
func IsOffered(k Kind, c *Context, f Field) bool {
	return slices.Contains(Offered(k, c), f)
}

// CheckCode verifies that code is a valid choice for f.
func CheckCode(ref *hsdata.Reference, f Field, code string) error {
	var ok bool
	switch f {
	case CardType:
		_, ok = ref.TypeBySign(code)
	case Classes, DeckClass:
		ok = ref.HasClass(code)
	case CardSet:
		ok = ref.HasSet(code)
	case Rarity:
		_, ok = ref.RarityBySign(code)
	case DeckFormat:
		_, ok = ref.FormatBySign(code)
	default:
		return fmt.Errorf("%w: %s is not a choice field", ErrUnknownField, f)
	}
	if !ok {
		return fmt.Errorf("%w: %s=%q", ErrUnknownCode, f, code)
	}
	return nil
}

// Set stores values for f and applies the dependent-field rules. Values must
// already be validated. Selecting a class adds it to the current list; every
// other field is replaced.
func (c *Context) Set(f Field, values ...string) error {
	if f.Kind() == "" {
		return fmt.Errorf("%w: %q", ErrUnknownField, f)
	}
	if f == CardType {
		if len(values) != 1 {
			return fmt.Errorf("card type takes one value, got %d", len(values))
		}
		cleared, err := Transition(values[0])
		if err != nil {
			return err
		}
		for _, dep := range cleared {
			c.Clear(dep)
		}
	}
	if f == Classes {
		merged := c.Values(Classes)
		for _, v := range values {
			if !slices.Contains(merged, v) {
				merged = append(merged, v)
			}
		}
		values = merged
	}
	c.put(f, values)
	return nil
}
