// Package telegram binds the conversation machine to the Telegram Bot API.
package telegram

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v4"

	"hsbot/internal/render"
)

// Messenger sends, edits and deletes chat messages through a telebot.Bot.
// Every message is HTML formatted.
type Messenger struct {
	tb  *telebot.Bot
	log *logrus.Entry
}

func NewMessenger(tb *telebot.Bot, log *logrus.Entry) *Messenger {
	return &Messenger{tb: tb, log: log.WithField("component", "telegram")}
}

func stored(chatID int64, msgID int) telebot.StoredMessage {
	return telebot.StoredMessage{MessageID: strconv.Itoa(msgID), ChatID: chatID}
}

func (m *Messenger) Send(_ context.Context, chatID int64, replyTo int, a render.Answer) (int, error) {
	opts := &telebot.SendOptions{ParseMode: telebot.ModeHTML, ReplyMarkup: replyMarkup(a.Markup)}
	if replyTo != 0 {
		opts.ReplyTo = &telebot.Message{ID: replyTo, Chat: &telebot.Chat{ID: chatID}}
		opts.AllowWithoutReply = true
	}
	msg, err := m.tb.Send(&telebot.Chat{ID: chatID}, a.Text, opts)
	if err != nil {
		return 0, err
	}
	return msg.ID, nil
}

// Edit replaces the text and controls of a message. Edits of vanished or
// unchanged messages are not errors.
func (m *Messenger) Edit(_ context.Context, chatID int64, msgID int, a render.Answer) error {
	opts := &telebot.SendOptions{ParseMode: telebot.ModeHTML, ReplyMarkup: replyMarkup(a.Markup)}
	_, err := m.tb.Edit(stored(chatID, msgID), a.Text, opts)
	return m.quiet(err, "edit", chatID, msgID)
}

// EditMarkup replaces only the inline controls. An empty markup removes them.
func (m *Messenger) EditMarkup(_ context.Context, chatID int64, msgID int, mk render.Markup) error {
	_, err := m.tb.EditReplyMarkup(stored(chatID, msgID), replyMarkup(mk))
	return m.quiet(err, "edit markup", chatID, msgID)
}

func (m *Messenger) Delete(_ context.Context, chatID int64, msgID int) error {
	return m.quiet(m.tb.Delete(stored(chatID, msgID)), "delete", chatID, msgID)
}

func (m *Messenger) quiet(err error, op string, chatID int64, msgID int) error {
	if err == nil || !ignorable(err) {
		return err
	}
	m.log.WithFields(logrus.Fields{"chat_id": chatID, "message_id": msgID, "op": op}).
		WithError(err).Debug("ignored")
	return nil
}

// ignorable reports errors for messages the user already deleted, or edits
// that would not change anything.
func ignorable(err error) bool {
	if errors.Is(err, telebot.ErrNotFoundToDelete) ||
		errors.Is(err, telebot.ErrMessageNotModified) ||
		errors.Is(err, telebot.ErrSameMessageContent) {
		return true
	}
	// telebot has no sentinel for a vanished edit target; the API reply comes
	// back as a fresh *telebot.Error.
	var te *telebot.Error
	return errors.As(err, &te) && strings.Contains(te.Description, "message to edit not found")
}

// replyMarkup converts render controls to the Bot API form. Nil means no
// controls.
func replyMarkup(mk render.Markup) *telebot.ReplyMarkup {
	switch {
	case len(mk.Inline) > 0:
		rows := make([][]telebot.InlineButton, len(mk.Inline))
		for i, row := range mk.Inline {
			rows[i] = make([]telebot.InlineButton, len(row))
			for j, b := range row {
				rows[i][j] = telebot.InlineButton{Text: b.Text, Data: b.Data}
			}
		}
		return &telebot.ReplyMarkup{InlineKeyboard: rows}
	case len(mk.Reply) > 0:
		rows := make([][]telebot.ReplyButton, len(mk.Reply))
		for i, row := range mk.Reply {
			rows[i] = make([]telebot.ReplyButton, len(row))
			for j, text := range row {
				rows[i][j] = telebot.ReplyButton{Text: text}
			}
		}
		return &telebot.ReplyMarkup{ReplyKeyboard: rows, ResizeKeyboard: true}
	case mk.Remove:
		return &telebot.ReplyMarkup{RemoveKeyboard: true}
	}
	return nil
}
