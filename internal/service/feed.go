package service

import (
	"sync"

	"budget_tracker/internal/models"
)

// feedBuffer is the per-subscriber channel depth. A subscriber that falls
// further behind loses events rather than blocking writers.
const feedBuffer = 16

// TransactionFeed is an in-memory per-user pub/sub used by the WebSocket
// endpoint. Sessions are the only cross-request state the app keeps outside
// the database; the feed holds no history, only live subscribers.
type TransactionFeed struct {
	mu   sync.Mutex
	subs map[int]map[chan models.FeedEvent]struct{}
}

func NewTransactionFeed() *TransactionFeed {
	return &TransactionFeed{subs: make(map[int]map[chan models.FeedEvent]struct{})}
}

var (
	_ Feed      = (*TransactionFeed)(nil)
	_ Publisher = (*TransactionFeed)(nil)
)

// Subscribe registers a listener for the user's mutations. The returned
// cancel func must be called to release the channel.
func (f *TransactionFeed) Subscribe(userID int) (<-chan models.FeedEvent, func()) {
	ch := make(chan models.FeedEvent, feedBuffer)

	f.mu.Lock()
	if f.subs[userID] == nil {
		f.subs[userID] = make(map[chan models.FeedEvent]struct{})
	}
	f.subs[userID][ch] = struct{}{}
	f.mu.Unlock()

	cancel := func() {
		f.mu.Lock()
		if set, ok := f.subs[userID]; ok {
			if _, ok := set[ch]; ok {
				delete(set, ch)
				close(ch)
			}
			if len(set) == 0 {
				delete(f.subs, userID)
			}
		}
		f.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers ev to the user's subscribers without blocking; a full
// subscriber simply misses the event.
func (f *TransactionFeed) Publish(userID int, ev models.FeedEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for ch := range f.subs[userID] {
		select {
		case ch <- ev:
		default:
		}
	}
}
