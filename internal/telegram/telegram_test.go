package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/telebot.v4"

	"hsbot/internal/bot"
	"hsbot/internal/render"
)

func TestReplyMarkupInline(t *testing.T) {
	rm := replyMarkup(render.Markup{Inline: [][]render.Button{
		{{Text: "Name", Data: "p:card:add:name:"}, {Text: "Type", Data: "p:card:add:ctype:"}},
		{{Text: "REQUEST", Data: "r:card:request::"}},
	}})
	require.NotNil(t, rm)
	require.Len(t, rm.InlineKeyboard, 2)
	assert.Equal(t, telebot.InlineButton{Text: "Type", Data: "p:card:add:ctype:"}, rm.InlineKeyboard[0][1])
	assert.Equal(t, "REQUEST", rm.InlineKeyboard[1][0].Text)
	assert.Empty(t, rm.ReplyKeyboard)
}

func TestReplyMarkupKeyboard(t *testing.T) {
	rm := replyMarkup(render.Markup{Reply: [][]string{{"Cards", "Decks"}, {"Decode Deckstring"}}})
	require.NotNil(t, rm)
	assert.True(t, rm.ResizeKeyboard)
	assert.Equal(t, [][]telebot.ReplyButton{{{Text: "Cards"}, {Text: "Decks"}}, {{Text: "Decode Deckstring"}}}, rm.ReplyKeyboard)

	rm = replyMarkup(render.Markup{Remove: true})
	require.NotNil(t, rm)
	assert.True(t, rm.RemoveKeyboard)

	assert.Nil(t, replyMarkup(render.Markup{}))
}

func TestIgnorable(t *testing.T) {
	assert.True(t, ignorable(telebot.ErrNotFoundToDelete))
	assert.True(t, ignorable(fmt.Errorf("edit: %w", telebot.ErrMessageNotModified)))
	assert.True(t, ignorable(telebot.ErrSameMessageContent))
	assert.True(t, ignorable(&telebot.Error{Code: 400, Description: "Bad Request: message to edit not found"}))
	assert.True(t, ignorable(fmt.Errorf("edit markup: %w", &telebot.Error{Code: 400, Description: "Bad Request: message to edit not found"})))
	assert.False(t, ignorable(&telebot.Error{Code: 400, Description: "Bad Request: message can't be edited"}))
	assert.False(t, ignorable(telebot.ErrChatNotFound))
	assert.False(t, ignorable(errors.New("boom")))
}

// fakeContext answers the handful of telebot.Context methods the handlers
// use. Anything else panics through the nil embedded interface.
type fakeContext struct {
	telebot.Context
	sender    *telebot.User
	msg       *telebot.Message
	cb        *telebot.Callback
	responses []*telebot.CallbackResponse
}

func (c *fakeContext) Sender() *telebot.User       { return c.sender }
func (c *fakeContext) Message() *telebot.Message   { return c.msg }
func (c *fakeContext) Callback() *telebot.Callback { return c.cb }

func (c *fakeContext) Chat() *telebot.Chat {
	if c.msg == nil {
		return nil
	}
	return c.msg.Chat
}

func (c *fakeContext) Respond(resp ...*telebot.CallbackResponse) error {
	c.responses = append(c.responses, resp...)
	return nil
}

type recorder struct {
	commands []string
	events   []bot.Event
	hint     string
	err      error
}

func (r *recorder) HandleCommand(_ context.Context, ev bot.Event, cmd string) error {
	r.commands = append(r.commands, cmd)
	r.events = append(r.events, ev)
	return nil
}

func (r *recorder) HandleText(_ context.Context, ev bot.Event) error {
	r.events = append(r.events, ev)
	return nil
}

func (r *recorder) HandleCallback(_ context.Context, ev bot.Event) (string, error) {
	r.events = append(r.events, ev)
	return r.hint, r.err
}

func newHandlers(rec *recorder) *Handlers {
	logger, _ := test.NewNullLogger()
	return NewHandlers(context.Background(), rec, logrus.NewEntry(logger))
}

func message(text string) *telebot.Message {
	return &telebot.Message{ID: 42, Text: text, Chat: &telebot.Chat{ID: 7}}
}

func TestTextHandler(t *testing.T) {
	rec := &recorder{}
	h := newHandlers(rec)

	c := &fakeContext{sender: &telebot.User{ID: 3}, msg: message("Ragnaros")}
	require.NoError(t, h.onText(c))
	require.Len(t, rec.events, 1)
	assert.Equal(t, bot.Event{ChatID: 7, UserID: 3, MessageID: 42, Text: "Ragnaros"}, rec.events[0])

	require.NoError(t, h.onText(&fakeContext{msg: message("/unknown")}))
	assert.Len(t, rec.events, 1)
}

func TestCommandHandler(t *testing.T) {
	rec := &recorder{}
	h := newHandlers(rec)

	require.NoError(t, h.command(bot.CmdCards)(&fakeContext{sender: &telebot.User{ID: 3}, msg: message("/cards")}))
	assert.Equal(t, []string{bot.CmdCards}, rec.commands)
	assert.Equal(t, int64(7), rec.events[0].ChatID)
}

func TestCallbackHandlerAnswersEveryPress(t *testing.T) {
	rec := &recorder{hint: render.HintEmptyRequest}
	h := newHandlers(rec)

	c := &fakeContext{
		sender: &telebot.User{ID: 3},
		msg:    message("summary"),
		cb:     &telebot.Callback{Data: "r:card:request::"},
	}
	require.NoError(t, h.onCallback(c))
	assert.Equal(t, "r:card:request::", rec.events[0].Text)
	assert.Equal(t, 42, rec.events[0].MessageID)
	require.Len(t, c.responses, 1)
	assert.Equal(t, render.HintEmptyRequest, c.responses[0].Text)

	rec.hint, rec.err = "", errors.New("store down")
	c.responses = nil
	assert.EqualError(t, h.onCallback(c), "store down")
	require.Len(t, c.responses, 1)
	assert.Empty(t, c.responses[0].Text)
}

func TestOnErrorLogsChat(t *testing.T) {
	logger, hook := test.NewNullLogger()
	OnError(logrus.NewEntry(logger))(errors.New("boom"), &fakeContext{msg: message("x")})

	require.Len(t, hook.Entries, 1)
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
	assert.Equal(t, int64(7), hook.LastEntry().Data["chat_id"])
}

// botAPI answers every Bot API call with an error for vanished messages.
func botAPI(t *testing.T) *telebot.Bot {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "/deleteMessage"):
			_, _ = w.Write([]byte(`{"ok":false,"error_code":400,"description":"Bad Request: message to delete not found"}`))
		case strings.HasSuffix(r.URL.Path, "/sendMessage"):
			_, _ = w.Write([]byte(`{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`))
		default:
			_, _ = w.Write([]byte(`{"ok":false,"error_code":400,"description":"Bad Request: message to edit not found"}`))
		}
	}))
	t.Cleanup(srv.Close)

	tb, err := telebot.NewBot(telebot.Settings{URL: srv.URL, Token: "123:abc", Offline: true})
	require.NoError(t, err)
	return tb
}

func TestMessengerIgnoresVanishedMessages(t *testing.T) {
	logger, _ := test.NewNullLogger()
	m := NewMessenger(botAPI(t), logrus.NewEntry(logger))
	ctx := context.Background()

	assert.NoError(t, m.Edit(ctx, 7, 42, render.Answer{Text: "summary"}))
	assert.NoError(t, m.EditMarkup(ctx, 7, 42, render.Markup{}))
	assert.NoError(t, m.Delete(ctx, 7, 42))

	_, err := m.Send(ctx, 7, 0, render.Answer{Text: "hello"})
	assert.Error(t, err)
}
