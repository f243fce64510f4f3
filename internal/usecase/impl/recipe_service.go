package impl

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"yumbook/config"
	deliverycontext "yumbook/internal/delivery/context"
	"yumbook/internal/domain/entity"
	domainerrors "yumbook/internal/domain/errors"
	"yumbook/internal/domain/repository"
	"yumbook/internal/domain/service"
	"yumbook/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const (
	defaultListLimit     = 20
	maxListLimit         = 100
	defaultSimilarLimit  = 5
	defaultTrendingLimit = 10
)

// recipeService implements the RecipeUsecase interface.
type recipeService struct {
	txManager  repository.TransactionManager
	recipeRepo repository.RecipeRepository
	imageStore service.ImageStore
	qrService  service.QRCodeService
	recipeDir  string
	logger     *slog.Logger
}

// RecipeServiceParams holds dependencies for RecipeService, injected by Fx.
type RecipeServiceParams struct {
	fx.In

	TxManager  repository.TransactionManager
	RecipeRepo repository.RecipeRepository
	ImageStore service.ImageStore
	QRService  service.QRCodeService
	Config     *config.Config
	Logger     *slog.Logger
}

// NewRecipeService is the constructor for recipeService.
func NewRecipeService(params RecipeServiceParams) usecase.RecipeUsecase {
	return &recipeService{
		txManager:  params.TxManager,
		recipeRepo: params.RecipeRepo,
		imageStore: params.ImageStore,
		qrService:  params.QRService,
		recipeDir:  params.Config.Storage.RecipeDir,
		logger:     params.Logger,
	}
}

func (srv *recipeService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// CreateRecipe persists a new recipe for the owner, storing the optional
// image first. The stored file is removed again if the insert fails.
func (srv *recipeService) CreateRecipe(ctx context.Context, ownerID uuid.UUID, input *usecase.CreateRecipeInput) (*entity.Recipe, error) {
	imagePath, err := srv.storeImage(ctx, input.Image)
	if err != nil {
		return nil, err
	}

	recipe := &entity.Recipe{
		OwnerID:             ownerID,
		Name:                input.Name,
		Description:         input.Description,
		Instructions:        input.Instructions,
		Cuisine:             input.Cuisine,
		Difficulty:          input.Difficulty,
		CookingTime:         input.CookingTime,
		PreparationTime:     input.PreparationTime,
		Servings:            input.Servings,
		DietaryRestrictions: input.DietaryRestrictions,
		Tags:                input.Tags,
		ImagePath:           imagePath,
	}

	if err := srv.recipeRepo.Create(ctx, recipe); err != nil {
		srv.removeImage(ctx, imagePath)

		return nil, errors.Wrap(err, "failed to create recipe")
	}

	srv.log(ctx).Info("Recipe created", slog.Any("recipeID", recipe.ID), slog.Any("ownerID", ownerID))

	return srv.withImageURL(recipe), nil
}

// GetRecipe retrieves a single recipe by id.
func (srv *recipeService) GetRecipe(ctx context.Context, id uuid.UUID) (*entity.Recipe, error) {
	recipe, err := srv.recipeRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRecipeNotFound) {
			return nil, domainerrors.ErrRecipeNotFound
		}

		return nil, errors.Wrap(err, "failed to get recipe")
	}

	return srv.withImageURL(recipe), nil
}

// ListRecipes returns recipes newest first, with offset/limit paging.
func (srv *recipeService) ListRecipes(ctx context.Context, offset, limit int) ([]*entity.Recipe, error) {
	if offset < 0 {
		offset = 0
	}

	recipes, err := srv.recipeRepo.List(ctx, offset, clampLimit(limit))
	if err != nil {
		return nil, errors.Wrap(err, "failed to list recipes")
	}

	return srv.withImageURLs(recipes), nil
}

// ListOwnRecipes returns every recipe posted by the owner.
func (srv *recipeService) ListOwnRecipes(ctx context.Context, ownerID uuid.UUID) ([]*entity.Recipe, error) {
	recipes, err := srv.recipeRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list own recipes")
	}

	return srv.withImageURLs(recipes), nil
}

// UpdateRecipe applies a partial update after asserting ownership.
func (srv *recipeService) UpdateRecipe(ctx context.Context, actorID, recipeID uuid.UUID, input *usecase.UpdateRecipeInput) (*entity.Recipe, error) {
	newImagePath, err := srv.storeImage(ctx, input.Image)
	if err != nil {
		return nil, err
	}

	var updated *entity.Recipe
	var oldImagePath string

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		recipeRepo := repoFactory.RecipeRepo()

		recipe, err := recipeRepo.FindByID(ctx, recipeID)
		if err != nil {
			if errors.Is(err, repository.ErrRecipeNotFound) {
				return domainerrors.ErrRecipeNotFound
			}

			return errors.Wrap(err, "failed to load recipe for update")
		}

		if recipe.OwnerID != actorID {
			return domainerrors.ErrNotRecipeOwner
		}

		applyRecipePatch(recipe, input)
		if newImagePath != "" {
			oldImagePath = recipe.ImagePath
			recipe.ImagePath = newImagePath
		}

		if err := recipeRepo.Update(ctx, recipe); err != nil {
			return errors.Wrap(err, "failed to persist recipe update")
		}

		updated = recipe

		return nil
	})
	if err != nil {
		srv.removeImage(ctx, newImagePath)

		return nil, err
	}

	srv.removeImage(ctx, oldImagePath)
	srv.log(ctx).Debug("Recipe updated", slog.Any("recipeID", recipeID))

	return srv.withImageURL(updated), nil
}

// DeleteRecipe removes a recipe after asserting ownership. Likes and
// comments go with it through the cascading constraints; the image file is
// removed afterwards, and a removal failure surfaces as an internal error
// without resurrecting the record.
func (srv *recipeService) DeleteRecipe(ctx context.Context, actorID, recipeID uuid.UUID) error {
	var imagePath string

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		recipeRepo := repoFactory.RecipeRepo()

		recipe, err := recipeRepo.FindByID(ctx, recipeID)
		if err != nil {
			if errors.Is(err, repository.ErrRecipeNotFound) {
				return domainerrors.ErrRecipeNotFound
			}

			return errors.Wrap(err, "failed to load recipe for deletion")
		}

		if recipe.OwnerID != actorID {
			return domainerrors.ErrNotRecipeOwner
		}

		imagePath = recipe.ImagePath

		if err := recipeRepo.Delete(ctx, recipeID); err != nil {
			return errors.Wrap(err, "failed to delete recipe")
		}

		return nil
	})
	if err != nil {
		return err
	}

	// The record is already gone either way; a failure here means an
	// orphaned file, which the caller should hear about.
	if imagePath != "" {
		if err := srv.imageStore.Remove(ctx, imagePath); err != nil {
			srv.log(ctx).Error("Failed to remove recipe image file", slog.String("path", imagePath), slog.Any("error", err))

			return domainerrors.ErrInternalError.WrapMessage("failed to remove recipe image file")
		}
	}
	srv.log(ctx).Info("Recipe deleted", slog.Any("recipeID", recipeID), slog.Any("actorID", actorID))

	return nil
}

// SearchRecipes returns recipes matching the filter.
func (srv *recipeService) SearchRecipes(ctx context.Context, input *usecase.SearchRecipesInput) ([]*entity.Recipe, error) {
	recipes, err := srv.recipeRepo.Search(ctx, repository.SearchFilter{
		Query:          input.Query,
		Cuisine:        input.Cuisine,
		MaxCookingTime: input.MaxCookingTime,
		Tags:           input.Tags,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to search recipes")
	}

	return srv.withImageURLs(recipes), nil
}

// TrendingRecipes returns the most liked recipes.
func (srv *recipeService) TrendingRecipes(ctx context.Context, limit int) ([]*entity.Recipe, error) {
	if limit <= 0 {
		limit = defaultTrendingLimit
	}

	recipes, err := srv.recipeRepo.Trending(ctx, clampLimit(limit))
	if err != nil {
		return nil, errors.Wrap(err, "failed to list trending recipes")
	}

	return srv.withImageURLs(recipes), nil
}

// SimilarRecipes returns recent recipes sharing the given recipe's cuisine.
func (srv *recipeService) SimilarRecipes(ctx context.Context, recipeID uuid.UUID, limit int) ([]*entity.Recipe, error) {
	recipe, err := srv.GetRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}

	if recipe.Cuisine == "" {
		return []*entity.Recipe{}, nil
	}

	if limit <= 0 {
		limit = defaultSimilarLimit
	}

	recipes, err := srv.recipeRepo.SimilarByCuisine(ctx, recipe.Cuisine, recipeID, clampLimit(limit))
	if err != nil {
		return nil, errors.Wrap(err, "failed to list similar recipes")
	}

	return srv.withImageURLs(recipes), nil
}

// ShareQR renders a QR code PNG pointing at the recipe's share link.
func (srv *recipeService) ShareQR(ctx context.Context, recipeID uuid.UUID) ([]byte, error) {
	if _, err := srv.GetRecipe(ctx, recipeID); err != nil {
		return nil, err
	}

	pngBytes, err := srv.qrService.GenerateRecipeShareQR(recipeID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate share QR code")
	}

	return pngBytes, nil
}

// storeImage writes an optional upload under the recipe dir with a fresh
// uuid filename. Returns "" when there is nothing to store.
func (srv *recipeService) storeImage(ctx context.Context, upload *usecase.ImageUpload) (string, error) {
	if upload == nil {
		return "", nil
	}

	storedName := uuid.New().String() + strings.ToLower(filepath.Ext(upload.Filename))

	return srv.imageStore.Save(ctx, srv.recipeDir, storedName, upload.Content)
}

// withImageURL fills in the public URL for the stored image path.
func (srv *recipeService) withImageURL(recipe *entity.Recipe) *entity.Recipe {
	if recipe.ImagePath != "" {
		recipe.ImageURL = srv.imageStore.PublicURL(recipe.ImagePath)
	}

	return recipe
}

func (srv *recipeService) withImageURLs(recipes []*entity.Recipe) []*entity.Recipe {
	for _, recipe := range recipes {
		srv.withImageURL(recipe)
	}

	return recipes
}

func (srv *recipeService) removeImage(ctx context.Context, path string) {
	if path == "" {
		return
	}

	if err := srv.imageStore.Remove(ctx, path); err != nil {
		srv.log(ctx).Warn("Failed to remove recipe image file", slog.String("path", path), slog.Any("error", err))
	}
}

func applyRecipePatch(recipe *entity.Recipe, input *usecase.UpdateRecipeInput) {
	if input.Name != nil {
		recipe.Name = *input.Name
	}
	if input.Description != nil {
		recipe.Description = *input.Description
	}
	if input.Instructions != nil {
		recipe.Instructions = *input.Instructions
	}
	if input.Cuisine != nil {
		recipe.Cuisine = *input.Cuisine
	}
	if input.Difficulty != nil {
		recipe.Difficulty = *input.Difficulty
	}
	if input.CookingTime != nil {
		recipe.CookingTime = *input.CookingTime
	}
	if input.PreparationTime != nil {
		recipe.PreparationTime = *input.PreparationTime
	}
	if input.Servings != nil {
		recipe.Servings = *input.Servings
	}
	if input.DietaryRestrictions != nil {
		recipe.DietaryRestrictions = *input.DietaryRestrictions
	}
	if input.Tags != nil {
		recipe.Tags = *input.Tags
	}
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}

	return limit
}
