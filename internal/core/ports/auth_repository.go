package ports

import (
	"context"
	"time"

	"github.com/bookreview/catalog-service/internal/core/domain"
)

// UserRepository defines persistence for registered users.
type UserRepository interface {
	// FindByEmail returns domain.ErrUserNotFound when no user has the email.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// Create returns domain.ErrUserExists when the email is already taken,
	// including when a concurrent insert won the race.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}

// TokenDenylist records revoked token ids until they would have expired.
type TokenDenylist interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
