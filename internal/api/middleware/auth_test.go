package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/bookreview/catalog-service/internal/core/domain"
	"github.com/bookreview/catalog-service/internal/core/ports"
)

type stubAuthenticator struct {
	identity *ports.Identity
	err      error
	gotToken string
}

func (s *stubAuthenticator) Authenticate(_ context.Context, token string) (*ports.Identity, error) {
	s.gotToken = token
	return s.identity, s.err
}

func runGate(t *testing.T, authz string, auth *stubAuthenticator) (bool, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Auth(auth)(func(c echo.Context) error {
		called = true
		identity, ok := IdentityFrom(c)
		if !ok {
			t.Fatalf("identity not attached")
		}
		if identity.User.ID != "u1" {
			t.Fatalf("unexpected identity: %+v", identity.User)
		}
		return c.NoContent(http.StatusOK)
	})
	err := handler(c)
	return called, err
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	auth := &stubAuthenticator{identity: &ports.Identity{User: &domain.User{ID: "u1"}, TokenID: "jti"}}

	called, err := runGate(t, "Bearer good-token", auth)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if auth.gotToken != "good-token" {
		t.Fatalf("unexpected token passed on: %q", auth.gotToken)
	}
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	for _, header := range []string{"", "Token abc", "bearer abc", "Bearer ", "Bearer    "} {
		t.Run(header, func(t *testing.T) {
			auth := &stubAuthenticator{}
			called, err := runGate(t, header, auth)
			if called {
				t.Fatalf("should not reach next")
			}
			if !errors.Is(err, domain.ErrUnauthenticated) {
				t.Fatalf("expected ErrUnauthenticated, got %v", err)
			}
			if auth.gotToken != "" {
				t.Fatalf("authenticator should not be consulted")
			}
		})
	}
}

func TestAuthMiddleware_PropagatesDomainRejections(t *testing.T) {
	for _, want := range []error{domain.ErrInvalidToken, domain.ErrTokenUserGone} {
		auth := &stubAuthenticator{err: want}
		called, err := runGate(t, "Bearer t", auth)
		if called {
			t.Fatalf("should not reach next")
		}
		if !errors.Is(err, want) {
			t.Fatalf("expected %v, got %v", want, err)
		}
	}
}

func TestAuthMiddleware_UnexpectedFailureIsNotPassedThrough(t *testing.T) {
	boom := errors.New("redis down")
	auth := &stubAuthenticator{err: boom}

	called, err := runGate(t, "Bearer t", auth)
	if called {
		t.Fatalf("should not reach next")
	}
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
	if domain.CodeOf(err) != domain.CodeServerError {
		t.Fatalf("expected server error code, got %s", domain.CodeOf(err))
	}
}
