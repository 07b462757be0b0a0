package notification

import (
	"context"
	"time"
)

// Kind is a typed notification event.
type Kind string

const (
	KindJoinRequest         Kind = "join_request"
	KindJoinApproved        Kind = "join_approved"
	KindJoinDeclined        Kind = "join_declined"
	KindFriendlyInvitation  Kind = "friendly_invitation"
	KindPlayRequest         Kind = "play_request"
	KindPlayRequestAccepted Kind = "play_request_accepted"
	KindPlayRequestDeclined Kind = "play_request_declined"
	KindScoreRequest        Kind = "score_request"
	KindScoreConfirmed      Kind = "score_confirmed"
	KindScoreNull           Kind = "score_null"
	KindMotmWinner          Kind = "motm_winner"
)

// Notification is one in-app event for one user.
type Notification struct {
	ID        string
	UserID    string
	Kind      Kind
	Payload   map[string]any
	CreatedAt time.Time
	ReadAt    *time.Time
}

// Sink delivers one typed event to one user. Delivery is fire-and-forget:
// a sink error never fails the business operation that triggered it.
type Sink interface {
	Create(ctx context.Context, userID string, kind Kind, payload map[string]any) error
}
