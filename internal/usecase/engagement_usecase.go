// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"

	"yumbook/internal/domain/entity"

	"github.com/google/uuid"
)

// EngagementUsecase defines the interface for likes, comments, follows and
// the activity feed. Every mutation also records a notification for the
// affected user in the same transaction.
type EngagementUsecase interface {
	LikeRecipe(ctx context.Context, userID, recipeID uuid.UUID) error
	UnlikeRecipe(ctx context.Context, userID, recipeID uuid.UUID) error
	FollowUser(ctx context.Context, followerID, followedID uuid.UUID) error
	UnfollowUser(ctx context.Context, followerID, followedID uuid.UUID) error
	AddComment(ctx context.Context, authorID, recipeID uuid.UUID, content string) (*entity.Comment, error)
	ListComments(ctx context.Context, recipeID uuid.UUID) ([]*entity.Comment, error)
	ListActivity(ctx context.Context, userID uuid.UUID, limit int) ([]*entity.Notification, error)
}
