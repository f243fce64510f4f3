package impl

import (
	"context"
	"log/slog"

	deliverycontext "yumbook/internal/delivery/context"
	"yumbook/internal/domain/entity"
	domainerrors "yumbook/internal/domain/errors"
	"yumbook/internal/domain/repository"
	"yumbook/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const defaultActivityLimit = 50

// engagementService implements the EngagementUsecase interface. Each
// mutation runs inside one transaction so the membership row, the
// denormalized counter and the notification land or vanish together.
type engagementService struct {
	txManager  repository.TransactionManager
	recipeRepo repository.RecipeRepository
	logger     *slog.Logger
}

// EngagementServiceParams holds dependencies for EngagementService, injected by Fx.
type EngagementServiceParams struct {
	fx.In

	TxManager  repository.TransactionManager
	RecipeRepo repository.RecipeRepository
	Logger     *slog.Logger
}

// NewEngagementService is the constructor for engagementService.
func NewEngagementService(params EngagementServiceParams) usecase.EngagementUsecase {
	return &engagementService{
		txManager:  params.TxManager,
		recipeRepo: params.RecipeRepo,
		logger:     params.Logger,
	}
}

func (srv *engagementService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// LikeRecipe inserts the like and increments the recipe's counter in one
// transaction. Liking twice is a conflict, also when two requests race:
// the store's composite key decides the winner and the loser maps to the
// same conflict error.
func (srv *engagementService) LikeRecipe(ctx context.Context, userID, recipeID uuid.UUID) error {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		recipeRepo := repoFactory.RecipeRepo()

		recipe, err := recipeRepo.FindByID(ctx, recipeID)
		if err != nil {
			if errors.Is(err, repository.ErrRecipeNotFound) {
				return domainerrors.ErrRecipeNotFound
			}

			return errors.Wrap(err, "failed to load recipe for like")
		}

		likeRepo := repoFactory.LikeRepo()

		// Fail fast on an existing like; the composite key below still
		// decides racing requests.
		liked, err := likeRepo.Exists(ctx, userID, recipeID)
		if err != nil {
			return errors.Wrap(err, "failed to check existing like")
		}
		if liked {
			return domainerrors.ErrAlreadyLiked
		}

		like := &entity.Like{UserID: userID, RecipeID: recipeID}
		if err := likeRepo.Create(ctx, like); err != nil {
			if errors.Is(err, repository.ErrDuplicateLike) {
				return domainerrors.ErrAlreadyLiked
			}

			return errors.Wrap(err, "failed to create like")
		}

		if err := recipeRepo.AddLikesCount(ctx, recipeID, 1); err != nil {
			return errors.Wrap(err, "failed to increment likes count")
		}

		return srv.notify(ctx, repoFactory, recipe.OwnerID, userID, entity.NotificationKindLike, &recipeID)
	})
	if err != nil {
		return err
	}

	srv.log(ctx).Debug("Recipe liked", slog.Any("recipeID", recipeID), slog.Any("userID", userID))

	return nil
}

// UnlikeRecipe removes the like and decrements the counter, clamped at
// zero, in one transaction. Unliking a recipe that is not liked is a
// conflict.
func (srv *engagementService) UnlikeRecipe(ctx context.Context, userID, recipeID uuid.UUID) error {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		recipeRepo := repoFactory.RecipeRepo()

		if _, err := recipeRepo.FindByID(ctx, recipeID); err != nil {
			if errors.Is(err, repository.ErrRecipeNotFound) {
				return domainerrors.ErrRecipeNotFound
			}

			return errors.Wrap(err, "failed to load recipe for unlike")
		}

		if err := repoFactory.LikeRepo().Delete(ctx, userID, recipeID); err != nil {
			if errors.Is(err, repository.ErrLikeNotFound) {
				return domainerrors.ErrNotLiked
			}

			return errors.Wrap(err, "failed to delete like")
		}

		return errors.Wrap(recipeRepo.AddLikesCount(ctx, recipeID, -1), "failed to decrement likes count")
	})
	if err != nil {
		return err
	}

	srv.log(ctx).Debug("Recipe unliked", slog.Any("recipeID", recipeID), slog.Any("userID", userID))

	return nil
}

// FollowUser inserts a directed follow edge. Following yourself is invalid;
// a duplicate edge is a conflict.
func (srv *engagementService) FollowUser(ctx context.Context, followerID, followedID uuid.UUID) error {
	if followerID == followedID {
		return domainerrors.ErrSelfFollow
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if _, err := repoFactory.UserRepo().FindByID(ctx, followedID); err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrUserNotFound
			}

			return errors.Wrap(err, "failed to load followed user")
		}

		followRepo := repoFactory.FollowRepo()

		// Fail fast on an existing edge; the composite key below still
		// decides racing requests.
		following, err := followRepo.Exists(ctx, followerID, followedID)
		if err != nil {
			return errors.Wrap(err, "failed to check existing follow")
		}
		if following {
			return domainerrors.ErrAlreadyFollowing
		}

		follow := &entity.Follow{FollowerID: followerID, FollowedID: followedID}
		if err := followRepo.Create(ctx, follow); err != nil {
			if errors.Is(err, repository.ErrDuplicateFollow) {
				return domainerrors.ErrAlreadyFollowing
			}

			return errors.Wrap(err, "failed to create follow")
		}

		return srv.notify(ctx, repoFactory, followedID, followerID, entity.NotificationKindFollow, nil)
	})
	if err != nil {
		return err
	}

	srv.log(ctx).Debug("User followed", slog.Any("followerID", followerID), slog.Any("followedID", followedID))

	return nil
}

// UnfollowUser removes the follow edge. Removing an absent edge is a conflict.
func (srv *engagementService) UnfollowUser(ctx context.Context, followerID, followedID uuid.UUID) error {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if err := repoFactory.FollowRepo().Delete(ctx, followerID, followedID); err != nil {
			if errors.Is(err, repository.ErrFollowNotFound) {
				return domainerrors.ErrNotFollowing
			}

			return errors.Wrap(err, "failed to delete follow")
		}

		return nil
	})
	if err != nil {
		return err
	}

	srv.log(ctx).Debug("User unfollowed", slog.Any("followerID", followerID), slog.Any("followedID", followedID))

	return nil
}

// AddComment attaches a comment to a recipe and notifies its owner.
func (srv *engagementService) AddComment(ctx context.Context, authorID, recipeID uuid.UUID, content string) (*entity.Comment, error) {
	comment := &entity.Comment{
		RecipeID: recipeID,
		AuthorID: authorID,
		Content:  content,
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		recipe, err := repoFactory.RecipeRepo().FindByID(ctx, recipeID)
		if err != nil {
			if errors.Is(err, repository.ErrRecipeNotFound) {
				return domainerrors.ErrRecipeNotFound
			}

			return errors.Wrap(err, "failed to load recipe for comment")
		}

		if err := repoFactory.CommentRepo().Create(ctx, comment); err != nil {
			return errors.Wrap(err, "failed to create comment")
		}

		return srv.notify(ctx, repoFactory, recipe.OwnerID, authorID, entity.NotificationKindComment, &recipeID)
	})
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Debug("Comment added", slog.Any("recipeID", recipeID), slog.Any("authorID", authorID))

	return comment, nil
}

// ListComments returns a recipe's comments, oldest first.
func (srv *engagementService) ListComments(ctx context.Context, recipeID uuid.UUID) ([]*entity.Comment, error) {
	if _, err := srv.recipeRepo.FindByID(ctx, recipeID); err != nil {
		if errors.Is(err, repository.ErrRecipeNotFound) {
			return nil, domainerrors.ErrRecipeNotFound
		}

		return nil, errors.Wrap(err, "failed to load recipe for comments")
	}

	var comments []*entity.Comment
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		var listErr error
		comments, listErr = repoFactory.CommentRepo().ListByRecipe(ctx, recipeID)

		return errors.Wrap(listErr, "failed to list comments")
	})
	if err != nil {
		return nil, err
	}

	return comments, nil
}

// ListActivity returns the newest notifications for the user and marks
// them read in the same transaction.
func (srv *engagementService) ListActivity(ctx context.Context, userID uuid.UUID, limit int) ([]*entity.Notification, error) {
	if limit <= 0 {
		limit = defaultActivityLimit
	}

	var notifications []*entity.Notification
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		notificationRepo := repoFactory.NotificationRepo()

		var listErr error
		notifications, listErr = notificationRepo.ListByRecipient(ctx, userID, limit)
		if listErr != nil {
			return errors.Wrap(listErr, "failed to list activity")
		}

		return errors.Wrap(notificationRepo.MarkAllRead(ctx, userID), "failed to mark activity read")
	})
	if err != nil {
		return nil, err
	}

	return notifications, nil
}

// notify records an activity entry for the recipient. Acting on your own
// content produces no entry.
func (srv *engagementService) notify(ctx context.Context, repoFactory repository.RepositoryFactory, recipientID, actorID uuid.UUID, kind entity.NotificationKind, recipeID *uuid.UUID) error {
	if recipientID == actorID {
		return nil
	}

	notification := &entity.Notification{
		RecipientID: recipientID,
		ActorID:     actorID,
		Kind:        kind,
		RecipeID:    recipeID,
	}

	return errors.Wrap(repoFactory.NotificationRepo().Create(ctx, notification), "failed to create notification")
}
