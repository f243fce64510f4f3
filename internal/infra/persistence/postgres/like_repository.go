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

// likeRepository implements the repository.LikeRepository interface using GORM.
type likeRepository struct {
	db *gorm.DB
}

// NewLikeRepository is the constructor for likeRepository.
func NewLikeRepository(db *gorm.DB) repository.LikeRepository {
	return &likeRepository{
		db: db,
	}
}

// Exists reports whether the user currently likes the recipe.
func (repo *likeRepository) Exists(ctx context.Context, userID, recipeID uuid.UUID) (bool, error) {
	var count int64

	if err := repo.db.WithContext(ctx).
		Model(&model.LikeModel{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error; err != nil {
		return false, errors.Wrap(err, "failed to check like existence")
	}

	return count > 0, nil
}

// Create inserts the like row. The composite primary key decides the race
// when two requests like the same recipe concurrently.
func (repo *likeRepository) Create(ctx context.Context, like *entity.Like) error {
	likeM := &model.LikeModel{
		UserID:   like.UserID,
		RecipeID: like.RecipeID,
	}

	if err := repo.db.WithContext(ctx).Create(likeM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicateLike
		}
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrRecipeNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create like")
	}

	like.CreatedAt = likeM.CreatedAt

	return nil
}

// Delete removes the like row.
func (repo *likeRepository) Delete(ctx context.Context, userID, recipeID uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&model.LikeModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete like")
	}
	if result.RowsAffected == 0 {
		return repository.ErrLikeNotFound
	}

	return nil
}
