package middleware

import (
	"log/slog"

	"yumbook/config"
	deliverycontext "yumbook/internal/delivery/context"

	"github.com/labstack/echo/v4"
)

// RequestContextMiddleware tags every request with a request id and a
// request-scoped logger so downstream layers can correlate their entries.
type RequestContextMiddleware struct {
	logger *slog.Logger
	debug  bool
}

// NewRequestContextMiddleware creates the request context middleware.
func NewRequestContextMiddleware(logger *slog.Logger, cfg *config.Config) *RequestContextMiddleware {
	return &RequestContextMiddleware{
		logger: logger,
		debug:  cfg.Env.Debug,
	}
}

// Handle attaches the request id and scoped logger to both the echo
// context and the request's context.Context.
func (m *RequestContextMiddleware) Handle(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := c.Request().Header.Get(deliverycontext.HeaderXRequestID)
		if requestID == "" {
			requestID = deliverycontext.GetRequestID(c)
		}

		deliverycontext.SetRequestID(c, requestID)
		c.Response().Header().Set(deliverycontext.HeaderXRequestID, requestID)

		requestLogger := m.logger.With(slog.String("requestID", requestID))

		ctx := c.Request().Context()
		ctx = deliverycontext.WithRequestID(ctx, requestID)
		ctx = deliverycontext.WithLogger(ctx, requestLogger)
		c.SetRequest(c.Request().WithContext(ctx))

		return next(c)
	}
}
