// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"
	"io"

	"yumbook/internal/domain/entity"

	"github.com/google/uuid"
)

// ProfileUsecase defines the interface for profile-related business operations.
type ProfileUsecase interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input *UpdateProfileInput) (*entity.User, error)
	UpdatePassword(ctx context.Context, userID uuid.UUID, input *UpdatePasswordInput) error
	UpdateAvatar(ctx context.Context, userID uuid.UUID, upload *ImageUpload) (*entity.User, error)
	RemoveAvatar(ctx context.Context, userID uuid.UUID) error
}

// --- Input DTOs ---

// UpdateProfileInput defines the patch applied to a user profile.
// Only non-nil fields are written.
type UpdateProfileInput struct {
	Username *string `json:"username,omitempty"`
	Email    *string `json:"email,omitempty"`
	FullName *string `json:"full_name,omitempty"`
}

// UpdatePasswordInput defines the data required to change a password.
type UpdatePasswordInput struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ImageUpload carries an uploaded image's original filename and content.
type ImageUpload struct {
	Filename string
	Content  io.Reader
}
