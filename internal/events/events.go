package events

import "context"

const TopicUserEvents = "user_events"

// Event types published to the user events topic.
const (
	TypeUserLoggedIn           = "user_logged_in"
	TypeTokenRevoked           = "token_revoked"
	TypePasswordResetRequested = "password_reset_requested"
	TypePasswordResetCompleted = "password_reset_completed"
)

type Publisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
	Close() error
}
