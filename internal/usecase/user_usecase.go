// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"yumbook/internal/domain/entity"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new user.
type RegisterInput struct {
	Username string
	Email    string
	FullName string
	Password string
}

// LoginInput defines the data required for a user to log in. Login accepts
// a username or an email.
type LoginInput struct {
	Login    string
	Password string
}

// ForgotPasswordInput identifies the account requesting a password reset.
type ForgotPasswordInput struct {
	Email string
}

// ResetPasswordInput carries a reset token and the replacement password.
type ResetPasswordInput struct {
	Token       string
	NewPassword string
}

// --- Output DTOs ---

// RegisterOutput returns the newly created user's basic information.
type RegisterOutput struct {
	User *entity.User
}

// LoginOutput returns the generated access token after a successful login.
type LoginOutput struct {
	AccessToken string
	User        *entity.User
}

// ForgotPasswordOutput returns the short-lived reset token.
type ForgotPasswordOutput struct {
	ResetToken string
}

// UserUsecase defines the interface for account-related business operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type UserUsecase interface {
	Register(ctx context.Context, input *RegisterInput) (*RegisterOutput, error)
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)
	ForgotPassword(ctx context.Context, input *ForgotPasswordInput) (*ForgotPasswordOutput, error)
	ResetPassword(ctx context.Context, input *ResetPasswordInput) error
}
