package entity

import (
	"time"

	"github.com/google/uuid"
)

// Recipe is a post shared by a user. OwnerID is immutable after creation.
// LikesCount is denormalized and must always equal the number of Like rows
// for this recipe; the engagement usecase maintains it transactionally.
type Recipe struct {
	ID                  uuid.UUID
	OwnerID             uuid.UUID // The user who posted the recipe. Never changes.
	Name                string
	Description         string
	Instructions        []string // Ordered preparation steps.
	Cuisine             string
	Difficulty          string
	CookingTime         int // Minutes, non-negative.
	PreparationTime     int // Minutes, non-negative.
	Servings            int // Greater than zero.
	DietaryRestrictions []string
	Tags                []string
	ImagePath           string // Path to the stored recipe image.
	ImageURL            string // Public URL of the image, derived from ImagePath. Not persisted.
	LikesCount          int    // Denormalized like counter, floored at zero.
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Like records that a user liked a recipe. Membership, not a counter:
// at most one row exists per (user, recipe) pair.
type Like struct {
	UserID    uuid.UUID
	RecipeID  uuid.UUID
	CreatedAt time.Time
}

// Comment is a user's remark on a recipe. Comments are created and
// deleted, never edited.
type Comment struct {
	ID        uuid.UUID
	RecipeID  uuid.UUID
	AuthorID  uuid.UUID
	Content   string
	CreatedAt time.Time
}
