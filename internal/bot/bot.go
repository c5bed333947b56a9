// Package bot is the conversation state machine. It turns chat events into
// request context mutations, searches and rendered messages.
package bot

import (
	"context"
	"errors"
	"net/url"

	"github.com/sirupsen/logrus"

	"hsbot/internal/config"
	"hsbot/internal/hsdata"
	"hsbot/internal/model"
	"hsbot/internal/render"
	"hsbot/internal/session"
	"hsbot/internal/stats"
)

// ErrTooManyResults is wrapped with the result count when a search exceeds
// the configured ceiling.
var ErrTooManyResults = errors.New("too many results")

// Messenger is the chat platform. Delete and Edit of messages that are gone
// or unchanged must not fail.
type Messenger interface {
	// Send posts a, as a reply to replyTo when it is non-zero, and returns
	// the new message id.
	Send(ctx context.Context, chatID int64, replyTo int, a render.Answer) (int, error)
	Edit(ctx context.Context, chatID int64, msgID int, a render.Answer) error
	EditMarkup(ctx context.Context, chatID int64, msgID int, m render.Markup) error
	Delete(ctx context.Context, chatID int64, msgID int) error
}

// API is the remote card/deck service.
type API interface {
	SearchCards(ctx context.Context, params url.Values) ([]model.CardSummary, error)
	GetCard(ctx context.Context, dbfID int) (*model.CardDetail, error)
	SearchDecks(ctx context.Context, params url.Values) ([]model.DeckSummary, error)
	GetDeck(ctx context.Context, id int) (*model.DeckDetail, error)
	DecodeDeck(ctx context.Context, code string) (*model.DeckDetail, error)
}

// Events receives one audit event per answered search.
type Events interface {
	PublishSearch(ctx context.Context, evt model.SearchEvent) error
}

// StatsSource serves the admin statistics command.
type StatsSource interface {
	Summary(ctx context.Context) (*stats.Summary, error)
}

// Deps are the collaborators of a Machine. Events and Stats are optional.
type Deps struct {
	Store     session.Store
	Messenger Messenger
	API       API
	Events    Events
	Stats     StatsSource
	Ref       *hsdata.Reference
	Renderer  *render.Renderer
	Limits    config.Limits
	AdminID   int64
	Log       *logrus.Entry
}

// Machine handles the events of every conversation. Events of one chat are
// processed one at a time; different chats run concurrently.
type Machine struct {
	store   session.Store
	msg     Messenger
	api     API
	events  Events
	stats   StatsSource
	ref     *hsdata.Reference
	render  *render.Renderer
	limits  config.Limits
	adminID int64
	log     *logrus.Entry
	locks   *chatLocks
}

func New(d Deps) *Machine {
	if d.Limits.PageSize <= 0 || d.Limits.MaxResults <= 0 {
		d.Limits = config.DefaultLimits()
	}
	if d.Log == nil {
		d.Log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Machine{
		store:   d.Store,
		msg:     d.Messenger,
		api:     d.API,
		events:  d.Events,
		stats:   d.Stats,
		ref:     d.Ref,
		render:  d.Renderer,
		limits:  d.Limits,
		adminID: d.AdminID,
		log:     d.Log.WithField("component", "bot"),
		locks:   newChatLocks(),
	}
}

// Event is an inbound chat event.
type Event struct {
	ChatID    int64
	UserID    int64
	MessageID int    // the user's message, or the message carrying the pressed button
	Text      string // message text or callback payload
}

func (m *Machine) logger(ev Event) *logrus.Entry {
	return m.log.WithField("chat_id", ev.ChatID)
}

func (m *Machine) deleteQuietly(ctx context.Context, chatID int64, msgID int) {
	if msgID == 0 {
		return
	}
	if err := m.msg.Delete(ctx, chatID, msgID); err != nil {
		m.log.WithError(err).WithField("chat_id", chatID).Debug("delete message")
	}
}
