package model

import "time"

// SearchEvent is emitted after a search request has been answered by the API.
// It feeds the search statistics projection.
type SearchEvent struct {
	ID        string            `json:"id"`
	ChatID    int64             `json:"chat_id"`
	Kind      string            `json:"kind"`   // card or deck
	Params    map[string]string `json:"params"` // translated outbound query
	Results   int               `json:"results"`
	Accepted  bool              `json:"accepted"` // false when the result ceiling was hit
	Timestamp time.Time         `json:"timestamp"`
}
