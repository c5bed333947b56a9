package bot

import (
	"context"
	"net/url"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"hsbot/internal/config"
	"hsbot/internal/hsapi"
	"hsbot/internal/hsdata"
	"hsbot/internal/model"
	"hsbot/internal/render"
	"hsbot/internal/session"
)

type sentMessage struct {
	ID      int
	ReplyTo int
	Answer  render.Answer
	Deleted bool
	Edits   int
}

// fakeMessenger is an in-memory chat. Deleting or editing a missing message
// is not an error, as with the real adapter.
type fakeMessenger struct {
	mu     sync.Mutex
	nextID int
	msgs   map[int]*sentMessage
	order  []int
}

func newFakeMessenger() *fakeMessenger {
	return &fakeMessenger{nextID: 100, msgs: map[int]*sentMessage{}}
}

func (f *fakeMessenger) Send(_ context.Context, _ int64, replyTo int, a render.Answer) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.msgs[f.nextID] = &sentMessage{ID: f.nextID, ReplyTo: replyTo, Answer: a}
	f.order = append(f.order, f.nextID)
	return f.nextID, nil
}

func (f *fakeMessenger) Edit(_ context.Context, _ int64, msgID int, a render.Answer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := f.msgs[msgID]; ok && !m.Deleted {
		m.Answer = a
		m.Edits++
	}
	return nil
}

func (f *fakeMessenger) EditMarkup(_ context.Context, _ int64, msgID int, mk render.Markup) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := f.msgs[msgID]; ok && !m.Deleted {
		m.Answer.Markup = mk
		m.Edits++
	}
	return nil
}

func (f *fakeMessenger) Delete(_ context.Context, _ int64, msgID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := f.msgs[msgID]; ok {
		m.Deleted = true
	}
	return nil
}

// user registers a message typed by the user and returns its id.
func (f *fakeMessenger) user(text string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.msgs[f.nextID] = &sentMessage{ID: f.nextID, Answer: render.Answer{Text: text}}
	return f.nextID
}

func (f *fakeMessenger) get(id int) *sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.msgs[id]
}

func (f *fakeMessenger) last() *sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.order) == 0 {
		return nil
	}
	return f.msgs[f.order[len(f.order)-1]]
}

func (f *fakeMessenger) sent() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.order)
}

// fakeAPI serves canned responses and records the last query.
type fakeAPI struct {
	mu sync.Mutex

	cards   []model.CardSummary
	decks   []model.DeckSummary
	card    *model.CardDetail
	deck    *model.DeckDetail
	decoded *model.DeckDetail
	err     error

	searches   int
	lastParams url.Values
}

func (a *fakeAPI) SearchCards(_ context.Context, params url.Values) ([]model.CardSummary, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.searches++
	a.lastParams = params
	return a.cards, a.err
}

func (a *fakeAPI) GetCard(_ context.Context, dbfID int) (*model.CardDetail, error) {
	if a.err != nil {
		return nil, a.err
	}
	c := *a.card
	c.DbfID = dbfID
	return &c, nil
}

func (a *fakeAPI) SearchDecks(_ context.Context, params url.Values) ([]model.DeckSummary, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.searches++
	a.lastParams = params
	return a.decks, a.err
}

func (a *fakeAPI) GetDeck(_ context.Context, id int) (*model.DeckDetail, error) {
	if a.err != nil {
		return nil, a.err
	}
	d := *a.deck
	d.ID = id
	return &d, nil
}

func (a *fakeAPI) DecodeDeck(_ context.Context, code string) (*model.DeckDetail, error) {
	if a.err != nil {
		return nil, a.err
	}
	if a.decoded == nil {
		return nil, &hsapi.DecodeError{Reason: "Invalid deck code"}
	}
	return a.decoded, nil
}

type fakeEvents struct {
	mu     sync.Mutex
	events []model.SearchEvent
}

func (e *fakeEvents) PublishSearch(_ context.Context, evt model.SearchEvent) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, evt)
	return nil
}

type harness struct {
	t      *testing.T
	m      *Machine
	chat   *fakeMessenger
	api    *fakeAPI
	events *fakeEvents
	store  session.Store
	hook   *test.Hook
	ctx    context.Context
	chatID int64
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ref, err := hsdata.Load()
	require.NoError(t, err)

	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	h := &harness{
		t:      t,
		chat:   newFakeMessenger(),
		api:    &fakeAPI{},
		events: &fakeEvents{},
		store:  session.NewMemoryStore(),
		hook:   hook,
		ctx:    context.Background(),
		chatID: 77,
	}
	h.m = New(Deps{
		Store:     h.store,
		Messenger: h.chat,
		API:       h.api,
		Events:    h.events,
		Ref:       ref,
		Renderer:  render.New(ref, "http://hs.local/media/cards/"),
		Limits:    config.DefaultLimits(),
		AdminID:   1,
		Log:       logrus.NewEntry(logger),
	})
	return h
}

func (h *harness) command(cmd string) {
	h.t.Helper()
	require.NoError(h.t, h.m.HandleCommand(h.ctx, Event{ChatID: h.chatID, UserID: 5}, cmd))
}

// text sends typed text and returns the id of the user's message.
func (h *harness) text(s string) int {
	h.t.Helper()
	id := h.chat.user(s)
	require.NoError(h.t, h.m.HandleText(h.ctx, Event{ChatID: h.chatID, UserID: 5, MessageID: id, Text: s}))
	return id
}

func (h *harness) press(data string) string {
	h.t.Helper()
	hint, err := h.m.HandleCallback(h.ctx, Event{ChatID: h.chatID, UserID: 5, Text: data})
	require.NoError(h.t, err)
	return hint
}

func (h *harness) conv() *conversation {
	h.t.Helper()
	c, err := h.m.load(h.ctx, h.chatID)
	require.NoError(h.t, err)
	return c
}
