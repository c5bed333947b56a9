package bot

import (
	"context"
	"fmt"

	"hsbot/internal/request"
	"hsbot/internal/session"
)

// Phase is the coarse conversation state. The field being solicited in
// PhaseAwaiting is the Pending field of the active request context.
type Phase string

const (
	PhaseIdle     Phase = ""
	PhaseBuilding Phase = "building"
	PhaseAwaiting Phase = "awaiting"
	PhaseList     Phase = "list"
	PhaseDetail   Phase = "detail"
	PhaseDecoding Phase = "decoding"
)

// State is the persisted position of a conversation.
type State struct {
	Phase Phase        `json:"phase"`
	Kind  request.Kind `json:"kind,omitempty"`
}

// Session bag keys.
const (
	keyState  = "state"
	keyCard   = "card"
	keyDeck   = "deck"
	keyDecode = "decode_prompt"
)

// conversation is the decoded session of one chat.
type conversation struct {
	chatID int64
	State  State
	Card   *request.Context
	Deck   *request.Context
	Decode int // id of the deck code prompt
}

func (c *conversation) request(k request.Kind) *request.Context {
	if k == request.KindDeck {
		return c.Deck
	}
	return c.Card
}

// active is the request context the conversation is currently driving.
func (c *conversation) active() *request.Context {
	return c.request(c.State.Kind)
}

// tracked lists every message id the conversation may still own.
func (c *conversation) tracked() []int {
	ids := append(c.Card.Messages.All(), c.Deck.Messages.All()...)
	if c.Decode != 0 {
		ids = append(ids, c.Decode)
	}
	return ids
}

func (m *Machine) load(ctx context.Context, chatID int64) (*conversation, error) {
	bag, err := m.store.Get(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	conv := &conversation{chatID: chatID, Card: request.New(), Deck: request.New()}
	if _, err := bag.Decode(keyState, &conv.State); err != nil {
		return nil, err
	}
	if _, err := bag.Decode(keyCard, conv.Card); err != nil {
		return nil, err
	}
	if _, err := bag.Decode(keyDeck, conv.Deck); err != nil {
		return nil, err
	}
	if _, err := bag.Decode(keyDecode, &conv.Decode); err != nil {
		return nil, err
	}
	for _, rc := range []*request.Context{conv.Card, conv.Deck} {
		if rc.Fields == nil {
			rc.Fields = map[request.Field][]string{}
		}
	}
	return conv, nil
}

// save writes the whole conversation back. It runs after every mutation and
// before the mutated state is rendered.
func (m *Machine) save(ctx context.Context, conv *conversation) error {
	bag := session.Bag{}
	if err := bag.Put(keyState, conv.State); err != nil {
		return err
	}
	if err := bag.Put(keyCard, conv.Card); err != nil {
		return err
	}
	if err := bag.Put(keyDeck, conv.Deck); err != nil {
		return err
	}
	if conv.Decode != 0 {
		if err := bag.Put(keyDecode, conv.Decode); err != nil {
			return err
		}
	} else {
		bag.Delete(keyDecode)
	}
	if err := m.store.Update(ctx, conv.chatID, bag); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// reset deletes every tracked message, best effort, and drops the session.
func (m *Machine) reset(ctx context.Context, conv *conversation) error {
	for _, id := range conv.tracked() {
		m.deleteQuietly(ctx, conv.chatID, id)
	}
	if err := m.store.Clear(ctx, conv.chatID); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	conv.State = State{}
	conv.Card = request.New()
	conv.Deck = request.New()
	conv.Decode = 0
	return nil
}
