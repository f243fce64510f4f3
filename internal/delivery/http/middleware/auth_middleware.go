package middleware

import (
	"strings"

	domainerrors "yumbook/internal/domain/errors"
	"yumbook/internal/domain/repository"
	"yumbook/internal/domain/service"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AccessTokenCookie is the cookie carrying the access token. Its value
// uses the Bearer scheme, mirroring an Authorization header.
const AccessTokenCookie = "access_token"

const bearerPrefix = "Bearer "

// AuthMiddleware resolves the acting account for each request. Every
// request re-verifies the token and re-reads the user; nothing is cached.
type AuthMiddleware struct {
	tokenSvc service.TokenService
	userRepo repository.UserRepository
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService, userRepo repository.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc, userRepo: userRepo}
}

// Authenticate validates the access token cookie and loads the account it
// names. A missing or malformed cookie is an authentication failure; a
// valid token whose subject no longer exists is reported as the user being
// gone, which is a distinct outcome.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		cookie, err := c.Cookie(AccessTokenCookie)
		if err != nil || cookie.Value == "" {
			return domainerrors.ErrUnauthenticated.WrapMessage("access token cookie is missing")
		}

		tokenString := strings.TrimPrefix(cookie.Value, bearerPrefix)
		if tokenString == cookie.Value {
			return domainerrors.ErrUnauthenticated.WrapMessage("access token must use the Bearer scheme")
		}

		userID, err := m.tokenSvc.Verify(tokenString)
		if err != nil {
			return domainerrors.ErrUnauthenticated.WrapMessage("invalid or expired access token")
		}

		user, err := m.userRepo.FindByID(c.Request().Context(), userID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrUserNotFound.WrapMessage("token subject no longer exists")
			}

			return errors.Wrap(err, "failed to load authenticated user")
		}

		// Set user info on the context for handlers to use
		c.Set("userID", user.ID)
		c.Set("user", user)

		return next(c)
	}
}
