package middleware

import (
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/bookreview/catalog-service/internal/api/metrics"
	"github.com/bookreview/catalog-service/internal/core/domain"
	"github.com/bookreview/catalog-service/internal/core/ports"
)

// IdentityKey is the echo.Context key holding the resolved *ports.Identity.
const IdentityKey = "identity"

// Auth resolves the bearer token into a caller identity and attaches it to
// the request context. Rejections are returned as errors for the central
// error handler; nothing reaches next without an identity.
func Auth(authenticator ports.Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return reject(domain.ErrUnauthenticated)
			}

			identity, err := authenticator.Authenticate(c.Request().Context(), token)
			if err != nil {
				return reject(err)
			}

			c.Set(IdentityKey, identity)
			return next(c)
		}
	}
}

// IdentityFrom returns the identity attached by Auth.
func IdentityFrom(c echo.Context) (*ports.Identity, bool) {
	identity, ok := c.Get(IdentityKey).(*ports.Identity)
	return identity, ok && identity != nil && identity.User != nil
}

// bearerToken extracts the token from "Bearer <token>". The scheme is
// case-sensitive and the token must be non-empty.
func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	if token == "" {
		return "", false
	}
	return token, true
}

func reject(err error) error {
	code := domain.CodeOf(err)
	metrics.GateRejectionsTotal.WithLabelValues(code).Inc()
	if code == domain.CodeServerError {
		return fmt.Errorf("authenticate: %w", err)
	}
	return err
}
