package mq

import "time"

// ReviewEventsChannel is the channel review lifecycle events are published to.
const ReviewEventsChannel = "review.events"

// Review event actions.
const (
	ReviewCreated = "created"
	ReviewUpdated = "updated"
	ReviewDeleted = "deleted"
)

// ReviewEvent is the JSON payload published on review mutations. Consumers
// (notification pipelines, audit logs) key off Action.
type ReviewEvent struct {
	Action   string    `json:"action"`
	ReviewID int       `json:"reviewId"`
	MovieID  int       `json:"movieId"`
	UserID   int       `json:"userId"`
	Rating   int       `json:"rating,omitempty"`
	At       time.Time `json:"at"`
}
