// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"yumbook/config"
	domainerrors "yumbook/internal/domain/errors"
	"yumbook/internal/domain/service"
)

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
// All tokens are signed with HS256 and a single process-wide secret loaded at startup.
type jwtService struct {
	secret         []byte
	accessTokenTTL time.Duration
	resetTokenTTL  time.Duration
}

// NewJWTService is the constructor for jwtService.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.SecretKey.Access == "" {
		return nil, errors.New("jwt secret must be provided")
	}

	return &jwtService{
		secret:         []byte(cfg.SecretKey.Access),
		accessTokenTTL: cfg.Auth.AccessTokenTTL,
		resetTokenTTL:  cfg.Auth.ResetTokenTTL,
	}, nil
}

// Issue creates a token whose payload embeds the stringified subject and an
// expiry of now+ttl.
func (s *jwtService) Issue(subject uuid.UUID, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign token")
	}

	return signed, nil
}

// Verify decodes and checks signature and expiry. Malformed, tampered and
// expired tokens all collapse into the single ErrInvalidCredentials outcome
// so callers cannot distinguish why verification failed.
func (s *jwtService) Verify(tokenString string) (uuid.UUID, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, domainerrors.ErrInvalidCredentials.WrapMessage("token verification failed")
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return uuid.Nil, domainerrors.ErrInvalidCredentials.WrapMessage("token has no subject")
	}

	subject, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, domainerrors.ErrInvalidCredentials.WrapMessage("token subject is not a valid id")
	}

	return subject, nil
}

// AccessTokenTTL returns the configured lifetime for session tokens.
func (s *jwtService) AccessTokenTTL() time.Duration {
	return s.accessTokenTTL
}

// ResetTokenTTL returns the configured lifetime for password-reset tokens.
func (s *jwtService) ResetTokenTTL() time.Duration {
	return s.resetTokenTTL
}
