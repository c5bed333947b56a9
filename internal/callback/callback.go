// Package callback encodes and decodes the payload carried by inline buttons.
package callback

import (
	"errors"
	"fmt"
	"strings"

	"hsbot/internal/request"
)

// MaxLen is the platform limit on callback payload size, in bytes.
const MaxLen = 64

var ErrMalformed = errors.New("malformed callback data")

// Scope groups the buttons of one message type.
type Scope string

const (
	ScopeParam   Scope = "p" // field prompt and field selection buttons
	ScopeRequest Scope = "r" // request summary controls
	ScopeList    Scope = "l" // result list controls
	ScopeDetail  Scope = "d" // result detail controls
)

// Actions.
const (
	Add         = "add"
	Pick        = "pick"
	Cancel      = "cancel"
	Clear       = "clear"
	Submit      = "request"
	Close       = "close"
	Language    = "language"
	Collectible = "coll"
	Left        = "left"
	Right       = "right"
	Pages       = "pages"
	Get         = "get"
	Back        = "back"
	Decks       = "decks"
)

// Data is a decoded button payload.
type Data struct {
	Scope  Scope
	Kind   request.Kind
	Action string
	Field  string
	Value  string
}

// String encodes d as scope:kind:action:field:value.
func (d Data) String() string {
	return strings.Join([]string{string(d.Scope), string(d.Kind), d.Action, d.Field, d.Value}, ":")
}

// Parse decodes a payload produced by Data.String.
func Parse(s string) (Data, error) {
	parts := strings.SplitN(s, ":", 5)
	if len(parts) != 5 {
		return Data{}, fmt.Errorf("%w: %q", ErrMalformed, s)
	}
	d := Data{
		Scope:  Scope(parts[0]),
		Kind:   request.Kind(parts[1]),
		Action: parts[2],
		Field:  parts[3],
		Value:  parts[4],
	}
	switch d.Scope {
	case ScopeParam, ScopeRequest, ScopeList, ScopeDetail:
	default:
		return Data{}, fmt.Errorf("%w: scope %q", ErrMalformed, d.Scope)
	}
	if !d.Kind.Valid() {
		return Data{}, fmt.Errorf("%w: kind %q", ErrMalformed, d.Kind)
	}
	if d.Action == "" {
		return Data{}, fmt.Errorf("%w: no action in %q", ErrMalformed, s)
	}
	return d, nil
}

func Param(k request.Kind, action string, f request.Field, value string) Data {
	return Data{Scope: ScopeParam, Kind: k, Action: action, Field: string(f), Value: value}
}

func Request(k request.Kind, action string) Data {
	return Data{Scope: ScopeRequest, Kind: k, Action: action}
}

func List(k request.Kind, action, value string) Data {
	return Data{Scope: ScopeList, Kind: k, Action: action, Value: value}
}

func Detail(k request.Kind, action string) Data {
	return Data{Scope: ScopeDetail, Kind: k, Action: action}
}
