package handler

import (
	"log/slog"
	"net/http"

	"yumbook/internal/delivery/http/response"
	domainerrors "yumbook/internal/domain/errors"
	"yumbook/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// UserHandler holds dependencies for profile and social graph handlers.
type UserHandler struct {
	profiles   usecase.ProfileUsecase
	engagement usecase.EngagementUsecase
	logger     *slog.Logger
}

// NewUserHandler is the constructor for UserHandler, injected by Fx.
func NewUserHandler(profiles usecase.ProfileUsecase, engagement usecase.EngagementUsecase, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		profiles:   profiles,
		engagement: engagement,
		logger:     logger,
	}
}

// actingUserID extracts the authenticated user's id set by the auth middleware.
func actingUserID(c echo.Context) (uuid.UUID, error) {
	userID, ok := c.Get("userID").(uuid.UUID)
	if !ok {
		return uuid.Nil, domainerrors.ErrUnauthenticated.WrapMessage("no authenticated user on request")
	}

	return userID, nil
}

// Me returns the authenticated user's own profile.
func (h *UserHandler) Me(c echo.Context) error {
	userID, err := actingUserID(c)
	if err != nil {
		return err
	}

	user, err := h.profiles.GetProfile(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, user, "")
}

// GetByUsername returns a public profile.
func (h *UserHandler) GetByUsername(c echo.Context) error {
	user, err := h.profiles.GetByUsername(c.Request().Context(), c.Param("username"))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, user, "")
}

// UpdateMe applies a partial profile update.
func (h *UserHandler) UpdateMe(c echo.Context) error {
	userID, err := actingUserID(c)
	if err != nil {
		return err
	}

	var input usecase.UpdateProfileInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid profile update input")
	}

	user, err := h.profiles.UpdateProfile(c.Request().Context(), userID, &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, user, "Profile updated successfully")
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=72"`
}

// UpdatePassword changes the authenticated user's password.
func (h *UserHandler) UpdatePassword(c echo.Context) error {
	userID, err := actingUserID(c)
	if err != nil {
		return err
	}

	var req updatePasswordRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid password change input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	if err := h.profiles.UpdatePassword(c.Request().Context(), userID, &usecase.UpdatePasswordInput{
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	}); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Password updated successfully")
}

// UploadAvatar stores a new profile image from a multipart form.
func (h *UserHandler) UploadAvatar(c echo.Context) error {
	userID, err := actingUserID(c)
	if err != nil {
		return err
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Avatar file is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return errors.Wrap(err, "failed to open uploaded avatar")
	}
	defer file.Close()

	user, err := h.profiles.UpdateAvatar(c.Request().Context(), userID, &usecase.ImageUpload{
		Filename: fileHeader.Filename,
		Content:  file,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, user, "Avatar updated successfully")
}

// DeleteAvatar removes the profile image.
func (h *UserHandler) DeleteAvatar(c echo.Context) error {
	userID, err := actingUserID(c)
	if err != nil {
		return err
	}

	if err := h.profiles.RemoveAvatar(c.Request().Context(), userID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Avatar removed successfully")
}

type followRequest struct {
	UserID uuid.UUID `json:"user_id" validate:"required"`
}

// Follow creates a follow edge from the authenticated user.
func (h *UserHandler) Follow(c echo.Context) error {
	userID, err := actingUserID(c)
	if err != nil {
		return err
	}

	var req followRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid follow input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	if err := h.engagement.FollowUser(c.Request().Context(), userID, req.UserID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, nil, "Now following")
}

// Unfollow removes a follow edge.
func (h *UserHandler) Unfollow(c echo.Context) error {
	userID, err := actingUserID(c)
	if err != nil {
		return err
	}

	followedID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid user id")
	}

	if err := h.engagement.UnfollowUser(c.Request().Context(), userID, followedID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Unfollowed")
}

// Activity returns the authenticated user's notification feed and marks
// it read.
func (h *UserHandler) Activity(c echo.Context) error {
	userID, err := actingUserID(c)
	if err != nil {
		return err
	}

	limit := queryInt(c, "limit", 0)

	notifications, err := h.engagement.ListActivity(c.Request().Context(), userID, limit)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, notifications, "")
}
