package models

// Feed event types.
const (
	FeedCreated = "transaction_created"
	FeedUpdated = "transaction_updated"
	FeedDeleted = "transaction_deleted"
)

// FeedEvent is one live-feed message: a transaction mutation belonging to
// the subscribed user. For deletions only the ID is populated.
type FeedEvent struct {
	Type        string      `json:"type"`
	Transaction Transaction `json:"transaction"`
}
