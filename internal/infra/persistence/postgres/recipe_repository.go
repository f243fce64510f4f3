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

// recipeRepository implements the repository.RecipeRepository interface using GORM.
type recipeRepository struct {
	db *gorm.DB
}

// NewRecipeRepository is the constructor for recipeRepository.
func NewRecipeRepository(db *gorm.DB) repository.RecipeRepository {
	return &recipeRepository{
		db: db,
	}
}

// FindByID retrieves a single recipe by its unique ID.
func (repo *recipeRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Recipe, error) {
	var recipeM model.RecipeModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&recipeM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrRecipeNotFound
		}

		return nil, errors.Wrap(err, "failed to find recipe by id")
	}

	return toRecipeDomain(&recipeM), nil
}

// Create persists a new recipe.
func (repo *recipeRepository) Create(ctx context.Context, recipe *entity.Recipe) error {
	recipeM := fromRecipeDomain(recipe)

	if err := repo.db.WithContext(ctx).Create(recipeM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrUserNotFound
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required recipe information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create recipe")
	}

	recipe.ID = recipeM.ID
	recipe.CreatedAt = recipeM.CreatedAt
	recipe.UpdatedAt = recipeM.UpdatedAt

	return nil
}

// Update modifies an existing recipe.
func (repo *recipeRepository) Update(ctx context.Context, recipe *entity.Recipe) error {
	recipeM := fromRecipeDomain(recipe)

	if err := repo.db.WithContext(ctx).Save(recipeM).Error; err != nil {
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required recipe information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to update recipe")
	}

	recipe.UpdatedAt = recipeM.UpdatedAt

	return nil
}

// Delete removes a recipe. Likes and comments go with it through the
// cascading foreign keys.
func (repo *recipeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.RecipeModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete recipe")
	}
	if result.RowsAffected == 0 {
		return repository.ErrRecipeNotFound
	}

	return nil
}

// List returns recipes ordered by creation time, newest first.
func (repo *recipeRepository) List(ctx context.Context, offset, limit int) ([]*entity.Recipe, error) {
	var recipeModels []*model.RecipeModel

	if err := repo.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&recipeModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list recipes")
	}

	return toRecipeDomainList(recipeModels), nil
}

// ListByOwner returns all recipes posted by the given user.
func (repo *recipeRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.Recipe, error) {
	var recipeModels []*model.RecipeModel

	if err := repo.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&recipeModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list recipes by owner")
	}

	return toRecipeDomainList(recipeModels), nil
}

// Search returns recipes matching the filter, newest first.
func (repo *recipeRepository) Search(ctx context.Context, filter repository.SearchFilter) ([]*entity.Recipe, error) {
	query := repo.db.WithContext(ctx).Model(&model.RecipeModel{})

	if filter.Query != "" {
		pattern := "%" + filter.Query + "%"
		query = query.Where("name ILIKE ? OR description ILIKE ?", pattern, pattern)
	}
	if filter.Cuisine != "" {
		query = query.Where("cuisine ILIKE ?", filter.Cuisine)
	}
	if filter.MaxCookingTime != nil {
		query = query.Where("cooking_time <= ?", *filter.MaxCookingTime)
	}
	for _, tag := range filter.Tags {
		query = query.Where("tags @> ?::jsonb", model.StringList{tag})
	}

	var recipeModels []*model.RecipeModel
	if err := query.Order("created_at DESC").Find(&recipeModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to search recipes")
	}

	return toRecipeDomainList(recipeModels), nil
}

// Trending returns the most liked recipes, most recent first among ties.
func (repo *recipeRepository) Trending(ctx context.Context, limit int) ([]*entity.Recipe, error) {
	var recipeModels []*model.RecipeModel

	if err := repo.db.WithContext(ctx).
		Order("likes_count DESC, created_at DESC").
		Limit(limit).
		Find(&recipeModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list trending recipes")
	}

	return toRecipeDomainList(recipeModels), nil
}

// SimilarByCuisine returns recent recipes sharing a cuisine, excluding one id.
func (repo *recipeRepository) SimilarByCuisine(ctx context.Context, cuisine string, exclude uuid.UUID, limit int) ([]*entity.Recipe, error) {
	var recipeModels []*model.RecipeModel

	if err := repo.db.WithContext(ctx).
		Where("cuisine ILIKE ? AND id <> ?", cuisine, exclude).
		Order("created_at DESC").
		Limit(limit).
		Find(&recipeModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list similar recipes")
	}

	return toRecipeDomainList(recipeModels), nil
}

// AddLikesCount adjusts the denormalized like counter by delta. GREATEST
// keeps the stored value from ever dropping below zero.
func (repo *recipeRepository) AddLikesCount(ctx context.Context, id uuid.UUID, delta int) error {
	result := repo.db.WithContext(ctx).
		Model(&model.RecipeModel{}).
		Where("id = ?", id).
		UpdateColumn("likes_count", gorm.Expr("GREATEST(likes_count + ?, 0)", delta))
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update likes count")
	}
	if result.RowsAffected == 0 {
		return repository.ErrRecipeNotFound
	}

	return nil
}

// --- Mapper Functions ---

// toRecipeDomain converts a GORM RecipeModel to a domain Recipe entity.
func toRecipeDomain(data *model.RecipeModel) *entity.Recipe {
	if data == nil {
		return nil
	}

	return &entity.Recipe{
		ID:                  data.ID,
		OwnerID:             data.OwnerID,
		Name:                data.Name,
		Description:         data.Description,
		Instructions:        data.Instructions,
		Cuisine:             data.Cuisine,
		Difficulty:          data.Difficulty,
		CookingTime:         data.CookingTime,
		PreparationTime:     data.PreparationTime,
		Servings:            data.Servings,
		DietaryRestrictions: data.DietaryRestrictions,
		Tags:                data.Tags,
		ImagePath:           data.ImagePath,
		LikesCount:          data.LikesCount,
		CreatedAt:           data.CreatedAt,
		UpdatedAt:           data.UpdatedAt,
	}
}

// fromRecipeDomain converts a domain Recipe entity to a GORM RecipeModel.
func fromRecipeDomain(data *entity.Recipe) *model.RecipeModel {
	if data == nil {
		return nil
	}

	return &model.RecipeModel{
		ID:                  data.ID,
		OwnerID:             data.OwnerID,
		Name:                data.Name,
		Description:         data.Description,
		Instructions:        data.Instructions,
		Cuisine:             data.Cuisine,
		Difficulty:          data.Difficulty,
		CookingTime:         data.CookingTime,
		PreparationTime:     data.PreparationTime,
		Servings:            data.Servings,
		DietaryRestrictions: data.DietaryRestrictions,
		Tags:                data.Tags,
		ImagePath:           data.ImagePath,
		LikesCount:          data.LikesCount,
		CreatedAt:           data.CreatedAt,
		UpdatedAt:           data.UpdatedAt,
	}
}

func toRecipeDomainList(models []*model.RecipeModel) []*entity.Recipe {
	recipes := make([]*entity.Recipe, 0, len(models))
	for _, recipeM := range models {
		recipes = append(recipes, toRecipeDomain(recipeM))
	}

	return recipes
}
