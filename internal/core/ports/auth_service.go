package ports

import (
	"context"
	"time"

	"github.com/bookreview/catalog-service/internal/core/domain"
)

// SignupInput is the DTO for registration. Fields arrive untrimmed.
type SignupInput struct {
	Name     string
	Email    string
	Password string
}

// LoginInput is the DTO for credential exchange.
type LoginInput struct {
	Email    string
	Password string
}

// Identity is the caller resolved by the authentication gate. It lives for
// a single request.
type Identity struct {
	User      *domain.User
	TokenID   string
	ExpiresAt time.Time
}

// AuthService covers the identity lifecycle.
type AuthService interface {
	Signup(ctx context.Context, in SignupInput) (*domain.User, error)
	Login(ctx context.Context, in LoginInput) (string, error)
	Logout(ctx context.Context, identity *Identity) error
	Authenticator
}

// Authenticator resolves a bearer token into a caller identity.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*Identity, error)
}
