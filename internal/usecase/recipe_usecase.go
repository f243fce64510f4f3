// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"

	"yumbook/internal/domain/entity"

	"github.com/google/uuid"
)

// RecipeUsecase defines the interface for recipe-related business operations.
// Update and Delete assert that the acting user owns the recipe.
type RecipeUsecase interface {
	CreateRecipe(ctx context.Context, ownerID uuid.UUID, input *CreateRecipeInput) (*entity.Recipe, error)
	GetRecipe(ctx context.Context, id uuid.UUID) (*entity.Recipe, error)
	ListRecipes(ctx context.Context, offset, limit int) ([]*entity.Recipe, error)
	ListOwnRecipes(ctx context.Context, ownerID uuid.UUID) ([]*entity.Recipe, error)
	UpdateRecipe(ctx context.Context, actorID, recipeID uuid.UUID, input *UpdateRecipeInput) (*entity.Recipe, error)
	DeleteRecipe(ctx context.Context, actorID, recipeID uuid.UUID) error
	SearchRecipes(ctx context.Context, input *SearchRecipesInput) ([]*entity.Recipe, error)
	TrendingRecipes(ctx context.Context, limit int) ([]*entity.Recipe, error)
	SimilarRecipes(ctx context.Context, recipeID uuid.UUID, limit int) ([]*entity.Recipe, error)
	ShareQR(ctx context.Context, recipeID uuid.UUID) ([]byte, error)
}

// --- Input DTOs ---

// CreateRecipeInput defines the data required to post a new recipe.
// Image is optional.
type CreateRecipeInput struct {
	Name                string
	Description         string
	Instructions        []string
	Cuisine             string
	Difficulty          string
	CookingTime         int
	PreparationTime     int
	Servings            int
	DietaryRestrictions []string
	Tags                []string
	Image               *ImageUpload
}

// UpdateRecipeInput defines the patch applied to a recipe.
// Only non-nil fields are written.
type UpdateRecipeInput struct {
	Name                *string   `json:"name,omitempty"`
	Description         *string   `json:"description,omitempty"`
	Instructions        *[]string `json:"instructions,omitempty"`
	Cuisine             *string   `json:"cuisine,omitempty"`
	Difficulty          *string   `json:"difficulty,omitempty"`
	CookingTime         *int      `json:"cooking_time,omitempty"`
	PreparationTime     *int      `json:"preparation_time,omitempty"`
	Servings            *int      `json:"servings,omitempty"`
	DietaryRestrictions *[]string `json:"dietary_restrictions,omitempty"`
	Tags                *[]string `json:"tags,omitempty"`
	Image               *ImageUpload
}

// SearchRecipesInput narrows a recipe search.
type SearchRecipesInput struct {
	Query          string
	Cuisine        string
	MaxCookingTime *int
	Tags           []string
}
