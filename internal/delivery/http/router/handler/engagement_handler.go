package handler

import (
	"log/slog"
	"net/http"

	"yumbook/internal/delivery/http/response"
	"yumbook/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// EngagementHandler holds dependencies for like and comment handlers.
type EngagementHandler struct {
	engagement usecase.EngagementUsecase
	logger     *slog.Logger
}

// NewEngagementHandler is the constructor for EngagementHandler, injected by Fx.
func NewEngagementHandler(engagement usecase.EngagementUsecase, logger *slog.Logger) *EngagementHandler {
	return &EngagementHandler{
		engagement: engagement,
		logger:     logger,
	}
}

// Like records a like for the authenticated user.
func (h *EngagementHandler) Like(c echo.Context) error {
	userID, err := actingUserID(c)
	if err != nil {
		return err
	}

	recipeID, ok := recipeIDParam(c)
	if !ok {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid recipe id")
	}

	if err := h.engagement.LikeRecipe(c.Request().Context(), userID, recipeID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, nil, "Recipe liked")
}

// Unlike removes the authenticated user's like.
func (h *EngagementHandler) Unlike(c echo.Context) error {
	userID, err := actingUserID(c)
	if err != nil {
		return err
	}

	recipeID, ok := recipeIDParam(c)
	if !ok {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid recipe id")
	}

	if err := h.engagement.UnlikeRecipe(c.Request().Context(), userID, recipeID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Like removed")
}

type addCommentRequest struct {
	Content string `json:"content" validate:"required,max=2000"`
}

// AddComment attaches a comment to a recipe.
func (h *EngagementHandler) AddComment(c echo.Context) error {
	userID, err := actingUserID(c)
	if err != nil {
		return err
	}

	recipeID, ok := recipeIDParam(c)
	if !ok {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid recipe id")
	}

	var req addCommentRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid comment input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	comment, err := h.engagement.AddComment(c.Request().Context(), userID, recipeID, req.Content)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, comment, "Comment added")
}

// ListComments returns a recipe's comments, oldest first.
func (h *EngagementHandler) ListComments(c echo.Context) error {
	recipeID, ok := recipeIDParam(c)
	if !ok {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid recipe id")
	}

	comments, err := h.engagement.ListComments(c.Request().Context(), recipeID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, comments, "")
}
