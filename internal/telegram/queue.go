package telegram

import "sync"

// chatQueue runs jobs of one chat one after another in submission order,
// while different chats proceed concurrently. A chat's worker goroutine
// exits once its queue drains.
type chatQueue struct {
	mu     sync.Mutex
	queues map[int64][]func()
	wg     sync.WaitGroup
}

func newChatQueue() *chatQueue {
	return &chatQueue{queues: map[int64][]func(){}}
}

func (q *chatQueue) submit(chatID int64, job func()) {
	q.mu.Lock()
	defer q.mu.Unlock()
	pending, running := q.queues[chatID]
	q.queues[chatID] = append(pending, job)
	if running {
		return
	}
	q.wg.Add(1)
	go q.drain(chatID)
}

func (q *chatQueue) drain(chatID int64) {
	defer q.wg.Done()
	for {
		q.mu.Lock()
		pending := q.queues[chatID]
		if len(pending) == 0 {
			delete(q.queues, chatID)
			q.mu.Unlock()
			return
		}
		job := pending[0]
		q.queues[chatID] = pending[1:]
		q.mu.Unlock()

		job()
	}
}

// wait blocks until every submitted job has run.
func (q *chatQueue) wait() {
	q.wg.Wait()
}
