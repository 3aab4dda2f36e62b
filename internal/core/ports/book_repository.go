package ports

import (
	"context"

	"github.com/bookreview/catalog-service/internal/core/domain"
)

// BookFilter carries the optional listing criteria. Text criteria are
// matched literally and case-insensitively.
type BookFilter struct {
	Author string      // substring match on author
	Genre  string      // exact match
	Query  string      // substring match on title OR author
	Page   domain.Page
}

// BookRepository defines persistence for the catalog.
type BookRepository interface {
	// Create returns domain.ErrBookExists when the title is already taken.
	Create(ctx context.Context, book *domain.Book) (*domain.Book, error)
	// FindByID returns domain.ErrBookNotFound when absent.
	FindByID(ctx context.Context, id string) (*domain.Book, error)
	// ExistsByTitle reports whether at least one book carries the title.
	ExistsByTitle(ctx context.Context, title string) (bool, error)
	// List returns the requested page newest-first and the total match count.
	List(ctx context.Context, filter BookFilter) ([]*domain.Book, int64, error)
}
