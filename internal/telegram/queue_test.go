package telegram

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hsbot/internal/bot"
)

func TestChatQueueKeepsOrderPerChat(t *testing.T) {
	q := newChatQueue()
	var (
		mu  sync.Mutex
		got = map[int64][]int{}
	)
	for i := 0; i < 50; i++ {
		for chat := int64(1); chat <= 3; chat++ {
			q.submit(chat, func() {
				mu.Lock()
				got[chat] = append(got[chat], i)
				mu.Unlock()
			})
		}
	}
	q.wait()

	for chat := int64(1); chat <= 3; chat++ {
		require.Len(t, got[chat], 50)
		for i, v := range got[chat] {
			assert.Equal(t, i, v)
		}
	}
	assert.Empty(t, q.queues)
}

func TestChatQueueRunsChatsConcurrently(t *testing.T) {
	q := newChatQueue()
	release := make(chan struct{})
	done := make(chan struct{})

	q.submit(1, func() { <-release })
	q.submit(2, func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("chat 2 waited for chat 1")
	}
	close(release)
	q.wait()
}

// slowMachine takes longer on earlier updates, so any reordering would show.
type slowMachine struct {
	mu    sync.Mutex
	texts []string
	err   error
}

func (s *slowMachine) HandleCommand(context.Context, bot.Event, string) error { return nil }

func (s *slowMachine) HandleText(_ context.Context, ev bot.Event) error {
	if ev.Text == "first" {
		time.Sleep(20 * time.Millisecond)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.texts = append(s.texts, ev.Text)
	return s.err
}

func (s *slowMachine) HandleCallback(context.Context, bot.Event) (string, error) { return "", nil }

func TestOrderedDispatch(t *testing.T) {
	m := &slowMachine{}
	logger, hook := test.NewNullLogger()
	h := NewHandlers(context.Background(), m, logrus.NewEntry(logger))
	handle := h.ordered(h.onText)

	require.NoError(t, handle(&fakeContext{msg: message("first")}))
	require.NoError(t, handle(&fakeContext{msg: message("second")}))
	h.Wait()
	assert.Equal(t, []string{"first", "second"}, m.texts)

	m.err = errors.New("store down")
	require.NoError(t, handle(&fakeContext{msg: message("third")}))
	h.Wait()
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
	assert.Equal(t, int64(7), hook.LastEntry().Data["chat_id"])
}
