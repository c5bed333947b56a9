package request

import (
	"slices"
	"strings"

	"hsbot/internal/model"
)

// ReturnMarker records which view to restore when a result view is closed.
type ReturnMarker string

const (
	ReturnNone        ReturnMarker = ""
	ReturnRequestView ReturnMarker = "to_request_view"
	ReturnResultList  ReturnMarker = "to_result_list"
)

// MessageRefs are the ids of the chat messages a request currently owns.
// Zero means no such message is displayed.
type MessageRefs struct {
	Request int `json:"request,omitempty"`
	Prompt  int `json:"prompt,omitempty"`
	Result  int `json:"result,omitempty"`
}

// All returns the non-zero message ids.
func (m MessageRefs) All() []int {
	var ids []int
	for _, id := range []int{m.Request, m.Prompt, m.Result} {
		if id != 0 {
			ids = append(ids, id)
		}
	}
	return ids
}

// Results caches a paginated search response and the detail being viewed.
type Results struct {
	Cards [][]model.CardSummary `json:"cards,omitempty"`
	Decks [][]model.DeckSummary `json:"decks,omitempty"`
	Page  int                   `json:"page"`
	Total int                   `json:"total"`

	CardDetail *model.CardDetail `json:"card_detail,omitempty"`
	DeckDetail *model.DeckDetail `json:"deck_detail,omitempty"`
}

// Pages is the number of cached pages.
func (r *Results) Pages() int {
	if r == nil {
		return 0
	}
	return max(len(r.Cards), len(r.Decks))
}

// Context is the state of one in-flight request of a single kind within a
// conversation. An absent key in Fields means the filter is unset.
type Context struct {
	Fields   map[Field][]string `json:"fields,omitempty"`
	Pending  Field              `json:"pending,omitempty"`
	Messages MessageRefs        `json:"messages"`
	Results  *Results           `json:"results,omitempty"`
	Return   ReturnMarker       `json:"return,omitempty"`
}

// New returns an empty context.
func New() *Context {
	return &Context{Fields: map[Field][]string{}}
}

// IsSet reports whether f carries a value.
func (c *Context) IsSet(f Field) bool {
	return len(c.Fields[f]) > 0
}

// Value returns the scalar value of f, or "" when unset.
func (c *Context) Value(f Field) string {
	v := c.Fields[f]
	if len(v) == 0 {
		return ""
	}
	return v[0]
}

// Values returns a copy of the list value of f.
func (c *Context) Values(f Field) []string {
	return slices.Clone(c.Fields[f])
}

// Clear unsets f.
func (c *Context) Clear(f Field) {
	delete(c.Fields, f)
}

// ClearFields unsets every filter of kind k, keeping bookkeeping intact.
func (c *Context) ClearFields(k Kind) {
	for _, f := range Fields(k) {
		delete(c.Fields, f)
	}
}

// Empty reports whether no filter of kind k is set.
func (c *Context) Empty(k Kind) bool {
	for _, f := range Fields(k) {
		if c.IsSet(f) {
			return false
		}
	}
	return true
}

// Display renders the value of f for summaries, joining lists.
func (c *Context) Display(f Field) string {
	return strings.Join(c.Fields[f], ", ")
}

func (c *Context) put(f Field, values []string) {
	if c.Fields == nil {
		c.Fields = map[Field][]string{}
	}
	if len(values) == 0 {
		delete(c.Fields, f)
		return
	}
	c.Fields[f] = values
}
