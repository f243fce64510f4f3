package entity

import (
	"time"

	"github.com/google/uuid"
)

// NotificationKind enumerates the engagement events recorded in a user's
// activity feed.
type NotificationKind string

const (
	NotificationKindLike    NotificationKind = "like"
	NotificationKindComment NotificationKind = "comment"
	NotificationKindFollow  NotificationKind = "follow"
)

// Notification is an activity-feed entry for RecipientID, describing an
// engagement action performed by ActorID. It is written in the same
// transaction as the engagement mutation that caused it.
type Notification struct {
	ID          uuid.UUID
	RecipientID uuid.UUID        // The user whose feed this entry belongs to.
	ActorID     uuid.UUID        // The user who performed the action.
	Kind        NotificationKind // What happened: like, comment or follow.
	RecipeID    *uuid.UUID       // Set for like and comment events, nil for follows.
	Read        bool
	CreatedAt   time.Time
}
