package repository

import (
	"context"
	"errors"

	"yumbook/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrRecipeNotFound is returned when the referenced recipe does not exist.
var ErrRecipeNotFound = errors.New("recipe not found")

// SearchFilter narrows a recipe search. Query matches name or description
// as a substring; the remaining fields are applied only when set.
type SearchFilter struct {
	Query          string
	Cuisine        string
	MaxCookingTime *int
	Tags           []string
}

// RecipeRepository defines the standard operations for recipe persistence.
type RecipeRepository interface {
	// FindByID retrieves a single recipe by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Recipe, error)

	// Create persists a new recipe.
	Create(ctx context.Context, recipe *entity.Recipe) error

	// Update modifies an existing recipe.
	Update(ctx context.Context, recipe *entity.Recipe) error

	// Delete removes a recipe and, via cascading constraints, its likes and
	// comments.
	Delete(ctx context.Context, id uuid.UUID) error

	// List returns recipes ordered by creation time, newest first.
	List(ctx context.Context, offset, limit int) ([]*entity.Recipe, error)

	// ListByOwner returns all recipes posted by the given user.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.Recipe, error)

	// Search returns recipes matching the filter.
	Search(ctx context.Context, filter SearchFilter) ([]*entity.Recipe, error)

	// Trending returns the most liked recent recipes.
	Trending(ctx context.Context, limit int) ([]*entity.Recipe, error)

	// SimilarByCuisine returns recent recipes sharing a cuisine, excluding one id.
	SimilarByCuisine(ctx context.Context, cuisine string, exclude uuid.UUID, limit int) ([]*entity.Recipe, error)

	// AddLikesCount adjusts the denormalized like counter by delta. The
	// stored value never drops below zero.
	AddLikesCount(ctx context.Context, id uuid.UUID, delta int) error
}
