package model

import "time"

type Subscription struct {
	ID           string    `json:"_id"`
	SubscriberID string    `json:"subscriber"`
	ChannelID    string    `json:"channel"`
	CreatedAt    time.Time `json:"createdAt"`
}

type SubscriptionToggleResult struct {
	Subscribed bool `json:"subscribed"`
}

// SubscriptionEntry is one row in a subscriber or subscribed-channel listing.
type SubscriptionEntry struct {
	User         OwnerSummary `json:"user"`
	SubscribedAt time.Time    `json:"subscribedAt"`
}
