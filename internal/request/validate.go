package request

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"hsbot/internal/config"
)

// DateLayout is the dd.mm.yyyy form dates are typed in.
const DateLayout = "02.01.2006"

// Validation rules reported to the user.
const (
	RuleEmpty     = "empty"
	RuleTooLong   = "too_long"
	RuleNotNumber = "not_number"
	RuleBadDate   = "bad_date"
	RuleBadCards  = "bad_cards"
)

// go-playground/validator/v10: single validator shared by every input check.
var validate = validator.New()

// ValidationError is a rejected free-text input. The prompt for Field is shown
// again with a hint chosen by Rule.
type ValidationError struct {
	Field Field
	Rule  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Rule)
}

// ParseInput validates text typed for f and returns the values to store.
func ParseInput(f Field, text string) ([]string, error) {
	text = strings.TrimSpace(text)
	switch f.Input() {
	case InputText:
		if err := validate.Var(text, "required"); err != nil {
			return nil, &ValidationError{Field: f, Rule: RuleEmpty}
		}
		if err := validate.Var(text, fmt.Sprintf("max=%d", config.MaxNameLength)); err != nil {
			return nil, &ValidationError{Field: f, Rule: RuleTooLong}
		}
		return []string{text}, nil
	case InputNumber:
		if err := validate.Var(text, "required,number,max=3"); err != nil {
			return nil, &ValidationError{Field: f, Rule: RuleNotNumber}
		}
		n, err := strconv.Atoi(text)
		if err != nil || n < 0 {
			return nil, &ValidationError{Field: f, Rule: RuleNotNumber}
		}
		return []string{strconv.Itoa(n)}, nil
	case InputDate:
		if err := validate.Var(text, "required,datetime="+DateLayout); err != nil {
			return nil, &ValidationError{Field: f, Rule: RuleBadDate}
		}
		return []string{text}, nil
	case InputCardIDs:
		ids, err := parseCardIDs(text)
		if err != nil {
			return nil, &ValidationError{Field: f, Rule: RuleBadCards}
		}
		return ids, nil
	}
	return nil, fmt.Errorf("%w: %s does not accept typed input", ErrUnknownField, f)
}

func parseCardIDs(text string) ([]string, error) {
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\n'
	})
	var ids []string
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("card id %q is not a positive integer", p)
		}
		id := strconv.Itoa(n)
		if !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	if err := validate.Var(ids, fmt.Sprintf("min=1,max=%d,dive,number", config.MaxDeckCards)); err != nil {
		return nil, err
	}
	return ids, nil
}
