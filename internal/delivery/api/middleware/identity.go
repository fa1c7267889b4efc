package middleware

import (
	"log/slog"
	"strings"

	"rutopia/internal/delivery/api/response"
	deliverycontext "rutopia/internal/delivery/context"
	"rutopia/internal/domain/constants"
	domainerrors "rutopia/internal/domain/errors"
	"rutopia/internal/domain/service"

	"github.com/labstack/echo/v4"
)

// IdentityMiddleware resolves the caller's user ID. With a verifier configured the
// caller must present an ID token as a Bearer credential; without one the User-Id
// header is trusted as is.
type IdentityMiddleware struct {
	verifier service.IdentityVerifier
	logger   *slog.Logger
}

// NewIdentityMiddleware creates the identity middleware. verifier may be nil.
func NewIdentityMiddleware(verifier service.IdentityVerifier, logger *slog.Logger) *IdentityMiddleware {
	return &IdentityMiddleware{
		verifier: verifier,
		logger:   logger,
	}
}

// Identify records the caller when one is presented. Anonymous requests pass
// through; a presented but invalid token is rejected.
func (m *IdentityMiddleware) Identify(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if m.verifier == nil {
			if userID := strings.TrimSpace(c.Request().Header.Get(constants.HeaderUserID)); userID != "" {
				deliverycontext.SetUserID(c, userID)
			}

			return next(c)
		}

		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
		if authHeader == "" {
			return next(c)
		}

		token, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok {
			return response.Unauthorized(c, domainerrors.ErrUnauthenticated.ErrorCode(), "Invalid token format, must be Bearer token")
		}

		userID, err := m.verifier.VerifyToken(c.Request().Context(), token)
		if err != nil {
			deliverycontext.GetLoggerOrDefault(c.Request().Context(), m.logger).
				Debug("ID token rejected", slog.Any("error", err))

			return response.Unauthorized(c, domainerrors.ErrUnauthenticated.ErrorCode(), "Invalid or expired token")
		}

		deliverycontext.SetUserID(c, userID)

		return next(c)
	}
}

// RequireUser rejects anonymous requests. It must run after Identify.
func (m *IdentityMiddleware) RequireUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if deliverycontext.GetUserID(c) == "" {
			return response.Unauthorized(c, domainerrors.ErrUnauthenticated.ErrorCode(), domainerrors.ErrUnauthenticated.Message())
		}

		return next(c)
	}
}
