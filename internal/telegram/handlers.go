package telegram

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v4"

	"hsbot/internal/bot"
)

// Machine is the conversation logic updates are dispatched to.
type Machine interface {
	HandleCommand(ctx context.Context, ev bot.Event, cmd string) error
	HandleText(ctx context.Context, ev bot.Event) error
	HandleCallback(ctx context.Context, ev bot.Event) (string, error)
}

// Commands advertised in the client's command menu. /stats stays unlisted.
var Commands = []telebot.Command{
	{Text: bot.CmdStart, Description: "Main menu"},
	{Text: bot.CmdCards, Description: "Search cards"},
	{Text: bot.CmdDecks, Description: "Search decks"},
	{Text: bot.CmdDecode, Description: "Decode a deck code"},
	{Text: bot.CmdCancel, Description: "Cancel everything"},
}

// Handlers adapts telebot updates to Machine calls.
type Handlers struct {
	ctx     context.Context
	m       Machine
	log     *logrus.Entry
	queue   *chatQueue
	onError func(error, telebot.Context)
}

// NewHandlers returns handlers whose calls run under ctx, usually the
// process lifetime.
func NewHandlers(ctx context.Context, m Machine, log *logrus.Entry) *Handlers {
	log = log.WithField("component", "telegram")
	return &Handlers{ctx: ctx, m: m, log: log, queue: newChatQueue(), onError: OnError(log)}
}

// Register installs every handler on tb and publishes the command menu. The
// bot must be synchronous: handlers only enqueue, so updates of one chat are
// processed in arrival order.
func (h *Handlers) Register(tb *telebot.Bot) error {
	for _, cmd := range []string{bot.CmdStart, bot.CmdCancel, bot.CmdCards, bot.CmdDecks, bot.CmdDecode, bot.CmdStats} {
		tb.Handle("/"+cmd, h.ordered(h.withLog("/"+cmd, h.command(cmd))))
	}
	tb.Handle(telebot.OnText, h.ordered(h.withLog("OnText", h.onText)))
	tb.Handle(telebot.OnCallback, h.ordered(h.withLog("OnCallback", h.onCallback)))
	return tb.SetCommands(Commands)
}

// ordered queues next behind earlier updates of the same chat. Failures go
// to the error hook since the poller has moved on by then.
func (h *Handlers) ordered(next telebot.HandlerFunc) telebot.HandlerFunc {
	return func(c telebot.Context) error {
		h.queue.submit(event(c).ChatID, func() {
			if err := next(c); err != nil {
				h.onError(err, c)
			}
		})
		return nil
	}
}

// Wait blocks until every queued update has been handled.
func (h *Handlers) Wait() {
	h.queue.wait()
}

func (h *Handlers) withLog(name string, next telebot.HandlerFunc) telebot.HandlerFunc {
	return func(c telebot.Context) error {
		ev := event(c)
		h.log.WithFields(logrus.Fields{
			"handler":    name,
			"chat_id":    ev.ChatID,
			"user_id":    ev.UserID,
			"message_id": ev.MessageID,
		}).Debug("update")
		return next(c)
	}
}

func (h *Handlers) command(cmd string) telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.m.HandleCommand(h.ctx, event(c), cmd)
	}
}

func (h *Handlers) onText(c telebot.Context) error {
	ev := event(c)
	if strings.HasPrefix(ev.Text, "/") {
		// unknown command
		return nil
	}
	return h.m.HandleText(h.ctx, ev)
}

// onCallback always answers the press so the client stops its spinner,
// with the hint as a transient notice when there is one.
func (h *Handlers) onCallback(c telebot.Context) error {
	ev := event(c)
	if cb := c.Callback(); cb != nil {
		ev.Text = cb.Data
	}
	hint, err := h.m.HandleCallback(h.ctx, ev)
	resp := &telebot.CallbackResponse{}
	if hint != "" {
		resp.Text = hint
	}
	if rerr := c.Respond(resp); rerr != nil {
		h.log.WithError(rerr).Debug("answer callback")
	}
	return err
}

func event(c telebot.Context) bot.Event {
	var ev bot.Event
	if s := c.Sender(); s != nil {
		ev.UserID = s.ID
	}
	if ch := c.Chat(); ch != nil {
		ev.ChatID = ch.ID
	}
	if msg := c.Message(); msg != nil {
		ev.MessageID = msg.ID
		ev.Text = msg.Text
	}
	return ev
}

// OnError is the telebot error hook: failures of a handler are logged with
// the chat they happened in.
func OnError(log *logrus.Entry) func(error, telebot.Context) {
	return func(err error, c telebot.Context) {
		entry := log.WithError(err)
		if c != nil {
			if ch := c.Chat(); ch != nil {
				entry = entry.WithField("chat_id", ch.ID)
			}
		}
		entry.Error("handler failed")
	}
}
