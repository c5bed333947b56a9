// Package session persists the per-conversation key/value bag the bot keeps
// between updates. Backends are interchangeable; Open picks one at startup.
package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrClosed is returned by a store after Close.
var ErrClosed = errors.New("session store closed")

// Bag is the opaque context of one conversation. Values are JSON documents.
type Bag map[string]json.RawMessage

// Store keeps one Bag per conversation id. Implementations are safe for
// concurrent use by many conversations.
type Store interface {
	// Get returns the bag of chatID. A conversation without state yields an
	// empty, non-nil bag.
	Get(ctx context.Context, chatID int64) (Bag, error)
	// Update merges patch into the bag of chatID. A JSON null value deletes
	// its key.
	Update(ctx context.Context, chatID int64, patch Bag) error
	// Clear drops all state of chatID.
	Clear(ctx context.Context, chatID int64) error
	Ping(ctx context.Context) error
	Close() error
	Name() string
}

var null = []byte("null")

func isNull(v json.RawMessage) bool {
	v = bytes.TrimSpace(v)
	return len(v) == 0 || bytes.Equal(v, null)
}

// Put encodes v into b under key. A nil v marks the key for deletion.
func (b Bag) Put(key string, v any) error {
	if v == nil {
		b[key] = json.RawMessage(null)
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	b[key] = data
	return nil
}

// Delete marks key for deletion on the next Update.
func (b Bag) Delete(key string) {
	b[key] = json.RawMessage(null)
}

// Decode unmarshals the value under key into v. It reports false when the key
// is absent.
func (b Bag) Decode(key string, v any) (bool, error) {
	raw, ok := b[key]
	if !ok || isNull(raw) {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// merge applies patch onto dst following the Update contract.
func merge(dst, patch Bag) {
	for k, v := range patch {
		if isNull(v) {
			delete(dst, k)
			continue
		}
		dst[k] = bytes.Clone(v)
	}
}
