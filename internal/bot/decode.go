package bot

import (
	"context"
	"errors"
	"strings"

	"hsbot/internal/hsapi"
	"hsbot/internal/render"
)

// deckCodePrefix starts every deck code the game exports.
const deckCodePrefix = "AAE"

// IsDeckCode reports whether text is a deck code or a full decklist export,
// which starts with a "###" title line.
func IsDeckCode(text string) bool {
	text = strings.TrimSpace(text)
	return strings.HasPrefix(text, deckCodePrefix) || strings.HasPrefix(text, "###")
}

func (m *Machine) startDecode(ctx context.Context, conv *conversation) error {
	if err := m.reset(ctx, conv); err != nil {
		return err
	}
	conv.State = State{Phase: PhaseDecoding}
	if err := m.save(ctx, conv); err != nil {
		return err
	}
	id, err := m.msg.Send(ctx, conv.chatID, 0, m.render.DecodePrompt())
	if err != nil {
		return err
	}
	conv.Decode = id
	return m.save(ctx, conv)
}

// decode sends the deck behind code as a standalone message. A request in
// progress is left untouched; a pending decode prompt is consumed.
func (m *Machine) decode(ctx context.Context, ev Event, conv *conversation, code string) error {
	log := m.logger(ev)

	deck, err := m.api.DecodeDeck(ctx, code)
	var derr *hsapi.DecodeError
	switch {
	case errors.As(err, &derr):
		log.WithField("reason", derr.Reason).Info("deck code rejected")
		_, err = m.msg.Send(ctx, ev.ChatID, ev.MessageID, render.Answer{Text: render.HintBadDeckCode})
		return err
	case hsapi.IsTransport(err):
		log.WithError(err).Error("card service unreachable")
		_, err = m.msg.Send(ctx, ev.ChatID, ev.MessageID, render.Answer{Text: render.HintServerUnavailable})
		return err
	case err != nil:
		return err
	}

	if conv.State.Phase == PhaseDecoding {
		prompt := conv.Decode
		conv.State = State{}
		conv.Decode = 0
		if err := m.save(ctx, conv); err != nil {
			return err
		}
		m.deleteQuietly(ctx, ev.ChatID, prompt)
	}
	_, err = m.msg.Send(ctx, ev.ChatID, ev.MessageID, m.render.DeckDetail(deck, false))
	return err
}
