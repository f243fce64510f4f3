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

// commentRepository implements the repository.CommentRepository interface using GORM.
type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository is the constructor for commentRepository.
func NewCommentRepository(db *gorm.DB) repository.CommentRepository {
	return &commentRepository{
		db: db,
	}
}

// Create persists a new comment.
func (repo *commentRepository) Create(ctx context.Context, comment *entity.Comment) error {
	commentM := &model.CommentModel{
		ID:       comment.ID,
		RecipeID: comment.RecipeID,
		AuthorID: comment.AuthorID,
		Content:  comment.Content,
	}

	if err := repo.db.WithContext(ctx).Create(commentM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrRecipeNotFound
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required comment information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create comment")
	}

	comment.ID = commentM.ID
	comment.CreatedAt = commentM.CreatedAt

	return nil
}

// ListByRecipe returns a recipe's comments, oldest first.
func (repo *commentRepository) ListByRecipe(ctx context.Context, recipeID uuid.UUID) ([]*entity.Comment, error) {
	var commentModels []*model.CommentModel

	if err := repo.db.WithContext(ctx).
		Where("recipe_id = ?", recipeID).
		Order("created_at ASC").
		Find(&commentModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list comments by recipe")
	}

	comments := make([]*entity.Comment, 0, len(commentModels))
	for _, commentM := range commentModels {
		comments = append(comments, &entity.Comment{
			ID:        commentM.ID,
			RecipeID:  commentM.RecipeID,
			AuthorID:  commentM.AuthorID,
			Content:   commentM.Content,
			CreatedAt: commentM.CreatedAt,
		})
	}

	return comments, nil
}
