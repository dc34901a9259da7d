package service

import (
	"testing"

	"budget_tracker/internal/models"
)

func TestTransactionFeed_DeliversToOwnUserOnly(t *testing.T) {
	feed := NewTransactionFeed()

	mine, cancelMine := feed.Subscribe(7)
	defer cancelMine()
	other, cancelOther := feed.Subscribe(8)
	defer cancelOther()

	feed.Publish(7, models.FeedEvent{Type: models.FeedCreated, Transaction: models.Transaction{ID: 1}})

	select {
	case ev := <-mine:
		if ev.Transaction.ID != 1 {
			t.Fatalf("unexpected event: %+v", ev)
		}
	default:
		t.Fatal("expected an event for the publishing user")
	}

	select {
	case ev := <-other:
		t.Fatalf("event leaked to another user: %+v", ev)
	default:
	}
}

func TestTransactionFeed_FanOut(t *testing.T) {
	feed := NewTransactionFeed()

	a, cancelA := feed.Subscribe(7)
	defer cancelA()
	b, cancelB := feed.Subscribe(7)
	defer cancelB()

	feed.Publish(7, models.FeedEvent{Type: models.FeedUpdated})

	for name, ch := range map[string]<-chan models.FeedEvent{"a": a, "b": b} {
		select {
		case <-ch:
		default:
			t.Fatalf("subscriber %s missed the event", name)
		}
	}
}

func TestTransactionFeed_CancelClosesChannel(t *testing.T) {
	feed := NewTransactionFeed()

	ch, cancel := feed.Subscribe(7)
	cancel()

	if _, open := <-ch; open {
		t.Fatal("expected channel closed after cancel")
	}

	// Publishing after cancel must not panic or deliver.
	feed.Publish(7, models.FeedEvent{Type: models.FeedDeleted})

	// Cancelling twice is safe.
	cancel()
}

func TestTransactionFeed_SlowSubscriberDoesNotBlock(t *testing.T) {
	feed := NewTransactionFeed()

	ch, cancel := feed.Subscribe(7)
	defer cancel()

	// Fill the buffer and then some; Publish must never block.
	for i := 0; i < feedBuffer+10; i++ {
		feed.Publish(7, models.FeedEvent{Type: models.FeedCreated, Transaction: models.Transaction{ID: i}})
	}

	received := 0
	for {
		select {
		case <-ch:
			received++
			continue
		default:
		}
		break
	}
	if received != feedBuffer {
		t.Fatalf("expected exactly %d buffered events, got %d", feedBuffer, received)
	}
}

func TestTransactionFeed_PublishWithoutSubscribers(t *testing.T) {
	feed := NewTransactionFeed()
	// Must be a no-op.
	feed.Publish(7, models.FeedEvent{Type: models.FeedCreated})
}
