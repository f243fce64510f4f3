package postgres

import (
	"context"

	"yumbook/internal/domain/entity"
	domainerrors "yumbook/internal/domain/errors"
	"yumbook/internal/domain/repository"
	"yumbook/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// followRepository implements the repository.FollowRepository interface using GORM.
type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository is the constructor for followRepository.
func NewFollowRepository(db *gorm.DB) repository.FollowRepository {
	return &followRepository{
		db: db,
	}
}

// Exists reports whether follower already follows followed.
func (repo *followRepository) Exists(ctx context.Context, followerID, followedID uuid.UUID) (bool, error) {
	var count int64

	if err := repo.db.WithContext(ctx).
		Model(&model.FollowModel{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Count(&count).Error; err != nil {
		return false, errors.Wrap(err, "failed to check follow existence")
	}

	return count > 0, nil
}

// Create inserts the follow edge. The composite primary key decides the
// race when the same edge is created concurrently.
func (repo *followRepository) Create(ctx context.Context, follow *entity.Follow) error {
	followM := &model.FollowModel{
		FollowerID: follow.FollowerID,
		FollowedID: follow.FollowedID,
	}

	if err := repo.db.WithContext(ctx).Create(followM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicateFollow
		}
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrUserNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create follow")
	}

	follow.CreatedAt = followM.CreatedAt

	return nil
}

// Delete removes the follow edge.
func (repo *followRepository) Delete(ctx context.Context, followerID, followedID uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Delete(&model.FollowModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete follow")
	}
	if result.RowsAffected == 0 {
		return repository.ErrFollowNotFound
	}

	return nil
}
