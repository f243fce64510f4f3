package repository

import (
	"context"
	"errors"

	"yumbook/internal/domain/entity"

	"github.com/google/uuid"
)

// Engagement sentinel errors. The store's composite uniqueness constraints
// are the final arbiter for racing mutations; implementations translate a
// constraint violation into the matching duplicate error rather than
// propagating a raw database error.
var (
	ErrDuplicateLike   = errors.New("recipe already liked by this user")
	ErrLikeNotFound    = errors.New("like not found")
	ErrDuplicateFollow = errors.New("follow edge already exists")
	ErrFollowNotFound  = errors.New("follow edge not found")
)

// LikeRepository manages the (user, recipe) like membership set.
type LikeRepository interface {
	// Exists reports whether the user currently likes the recipe.
	Exists(ctx context.Context, userID, recipeID uuid.UUID) (bool, error)

	// Create inserts the membership row. Returns ErrDuplicateLike if the
	// pair already exists.
	Create(ctx context.Context, like *entity.Like) error

	// Delete removes the membership row. Returns ErrLikeNotFound if no row
	// was held.
	Delete(ctx context.Context, userID, recipeID uuid.UUID) error
}

// CommentRepository manages comments attached to recipes.
type CommentRepository interface {
	// Create persists a new comment.
	Create(ctx context.Context, comment *entity.Comment) error

	// ListByRecipe returns a recipe's comments, oldest first.
	ListByRecipe(ctx context.Context, recipeID uuid.UUID) ([]*entity.Comment, error)
}

// FollowRepository manages directed follow edges between users.
type FollowRepository interface {
	// Exists reports whether follower already follows followed.
	Exists(ctx context.Context, followerID, followedID uuid.UUID) (bool, error)

	// Create inserts the edge. Returns ErrDuplicateFollow if it already exists.
	Create(ctx context.Context, follow *entity.Follow) error

	// Delete removes the edge. Returns ErrFollowNotFound if absent.
	Delete(ctx context.Context, followerID, followedID uuid.UUID) error
}

// NotificationRepository manages activity-feed entries.
type NotificationRepository interface {
	// Create persists a new notification.
	Create(ctx context.Context, notification *entity.Notification) error

	// ListByRecipient returns the newest notifications for a user.
	ListByRecipient(ctx context.Context, recipientID uuid.UUID, limit int) ([]*entity.Notification, error)

	// MarkAllRead flags every notification for the recipient as read.
	MarkAllRead(ctx context.Context, recipientID uuid.UUID) error
}
