package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/bookreview/catalog-service/internal/core/domain"
	"github.com/bookreview/catalog-service/internal/core/ports"
)

// AuthService implements signup, login, logout and bearer token resolution.
type AuthService struct {
	users    ports.UserRepository
	denylist ports.TokenDenylist
	tokens   *TokenManager
	rules    *rules
	hashCost int
	logger   zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	denylist ports.TokenDenylist,
	tokens *TokenManager,
	hashCost int,
	logger zerolog.Logger,
) *AuthService {
	if hashCost < bcrypt.MinCost || hashCost > bcrypt.MaxCost {
		hashCost = bcrypt.DefaultCost
	}
	return &AuthService{
		users:    users,
		denylist: denylist,
		tokens:   tokens,
		rules:    newRules(),
		hashCost: hashCost,
		logger:   logger,
	}
}

// Signup validates the payload, hashes the password and stores the user.
func (s *AuthService) Signup(ctx context.Context, in ports.SignupInput) (*domain.User, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)

	switch {
	case name == "":
		return nil, domain.ErrNameRequired
	case email == "":
		return nil, domain.ErrEmailRequired
	case in.Password == "":
		return nil, domain.ErrPasswordRequired
	}
	if err := s.rules.check(name, nameRule, domain.ErrInvalidName); err != nil {
		return nil, err
	}
	if err := s.checkCredentials(email, in.Password); err != nil {
		return nil, err
	}

	_, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, domain.ErrUserExists
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	created, err := s.users.Create(ctx, &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", created.ID).Msg("user created")
	return created, nil
}

// Login verifies the credentials and issues a bearer token.
func (s *AuthService) Login(ctx context.Context, in ports.LoginInput) (string, error) {
	email := strings.TrimSpace(in.Email)

	switch {
	case email == "":
		return "", domain.ErrEmailRequired
	case in.Password == "":
		return "", domain.ErrPasswordRequired
	}
	if err := s.checkCredentials(email, in.Password); err != nil {
		return "", err
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		return "", domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

// Logout revokes the caller's token until it would have expired.
func (s *AuthService) Logout(ctx context.Context, identity *ports.Identity) error {
	if identity == nil {
		return domain.ErrUnauthenticated
	}
	if err := s.denylist.Revoke(ctx, identity.TokenID, identity.ExpiresAt); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	s.logger.Info().Str("user_id", identity.User.ID).Msg("token revoked")
	return nil
}

// Authenticate resolves a raw bearer token into the caller identity.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*ports.Identity, error) {
	if strings.TrimSpace(token) == "" {
		return nil, domain.ErrUnauthenticated
	}

	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	revoked, err := s.denylist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check denylist: %w", err)
	}
	if revoked {
		return nil, domain.ErrInvalidToken
	}

	user, err := s.users.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrTokenUserGone
		}
		return nil, fmt.Errorf("resolve user: %w", err)
	}

	return &ports.Identity{
		User:      user,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func (s *AuthService) checkCredentials(email, password string) error {
	if err := s.rules.check(email, emailRule, domain.ErrInvalidEmail); err != nil {
		return err
	}
	return s.rules.check(password, passwordRule, domain.ErrInvalidPassword)
}
