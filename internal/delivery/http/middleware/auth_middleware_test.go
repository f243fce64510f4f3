package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	domainerrors "yumbook/internal/domain/errors"
	"yumbook/internal/domain/entity"
	"yumbook/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTokenService struct {
	subject uuid.UUID
}

func (s *stubTokenService) Issue(subject uuid.UUID, ttl time.Duration) (string, error) {
	return "token-" + subject.String(), nil
}

func (s *stubTokenService) Verify(token string) (uuid.UUID, error) {
	if token != "token-"+s.subject.String() {
		return uuid.Nil, domainerrors.ErrUnauthenticated
	}

	return s.subject, nil
}

func (s *stubTokenService) AccessTokenTTL() time.Duration { return time.Hour }

func (s *stubTokenService) ResetTokenTTL() time.Duration { return 15 * time.Minute }

type stubUserRepo struct {
	user *entity.User
}

func (r *stubUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	if r.user == nil || r.user.ID != id {
		return nil, repository.ErrUserNotFound
	}

	return r.user, nil
}

func (r *stubUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return nil, repository.ErrUserNotFound
}

func (r *stubUserRepo) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	return nil, repository.ErrUserNotFound
}

func (r *stubUserRepo) FindByLogin(ctx context.Context, login string) (*entity.User, error) {
	return nil, repository.ErrUserNotFound
}

func (r *stubUserRepo) ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error) {
	return false, nil
}

func (r *stubUserRepo) Create(ctx context.Context, user *entity.User) error { return nil }

func (r *stubUserRepo) Update(ctx context.Context, user *entity.User) error { return nil }

func newAuthTestContext(t *testing.T, cookie *http.Cookie) echo.Context {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()

	return echo.New().NewContext(req, rec)
}

func okHandler(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func TestAuthenticateMissingCookie(t *testing.T) {
	mw := NewAuthMiddleware(&stubTokenService{subject: uuid.New()}, &stubUserRepo{})

	err := mw.Authenticate(okHandler)(newAuthTestContext(t, nil))

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrUnauthenticated)
}

func TestAuthenticateMalformedScheme(t *testing.T) {
	userID := uuid.New()
	mw := NewAuthMiddleware(&stubTokenService{subject: userID}, &stubUserRepo{})

	cookie := &http.Cookie{Name: AccessTokenCookie, Value: "token-" + userID.String()}
	err := mw.Authenticate(okHandler)(newAuthTestContext(t, cookie))

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrUnauthenticated)
}

func TestAuthenticateInvalidToken(t *testing.T) {
	mw := NewAuthMiddleware(&stubTokenService{subject: uuid.New()}, &stubUserRepo{})

	cookie := &http.Cookie{Name: AccessTokenCookie, Value: "Bearer bogus"}
	err := mw.Authenticate(okHandler)(newAuthTestContext(t, cookie))

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrUnauthenticated)
}

func TestAuthenticateSubjectGone(t *testing.T) {
	userID := uuid.New()
	mw := NewAuthMiddleware(&stubTokenService{subject: userID}, &stubUserRepo{})

	cookie := &http.Cookie{Name: AccessTokenCookie, Value: "Bearer token-" + userID.String()}
	err := mw.Authenticate(okHandler)(newAuthTestContext(t, cookie))

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrUserNotFound)
}

func TestAuthenticateSetsUserOnContext(t *testing.T) {
	userID := uuid.New()
	user := &entity.User{ID: userID, Username: "alice", Email: "alice@example.com"}
	mw := NewAuthMiddleware(&stubTokenService{subject: userID}, &stubUserRepo{user: user})

	c := newAuthTestContext(t, &http.Cookie{Name: AccessTokenCookie, Value: "Bearer token-" + userID.String()})

	var seenUserID uuid.UUID
	var seenUser *entity.User
	next := func(c echo.Context) error {
		seenUserID = c.Get("userID").(uuid.UUID)
		seenUser = c.Get("user").(*entity.User)

		return c.NoContent(http.StatusOK)
	}

	err := mw.Authenticate(next)(c)

	require.NoError(t, err)
	assert.Equal(t, userID, seenUserID)
	assert.Equal(t, "alice", seenUser.Username)
}
