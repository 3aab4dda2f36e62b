package ports

import (
	"context"

	"github.com/bookreview/catalog-service/internal/core/domain"
)

// CreateBookInput carries a new catalog entry. Nil pointers mean the field
// was absent from the request. PublishedYearMalformed marks a year that was
// supplied but is not an integer.
type CreateBookInput struct {
	Title                  *string
	Author                 *string
	Genre                  *string
	PublishedYear          *int
	PublishedYearMalformed bool
}

// ListBooksInput carries raw list parameters; the service normalises paging.
type ListBooksInput struct {
	Author string
	Genre  string
	Page   int
	Limit  int
}

// SearchBooksInput carries a search query and paging.
type SearchBooksInput struct {
	Query string
	Page  int
	Limit int
}

// BookPage is one page of books.
type BookPage struct {
	Books      []*domain.Book
	Total      int64
	Page       int
	PageSize   int64
	TotalPages int64
}

// ReviewPage is one page of a book's reviews.
type ReviewPage struct {
	Reviews    []*domain.ReviewDetail
	Total      int64
	Page       int
	PageSize   int64
	TotalPages int64
}

// BookDetail composes a book with its review aggregate. AverageRating is nil
// when the book has no reviews.
type BookDetail struct {
	Book          *domain.Book
	AverageRating *float64
	Reviews       ReviewPage
}

// BookService is the catalog use-case boundary.
type BookService interface {
	Create(ctx context.Context, in CreateBookInput) (*domain.Book, error)
	List(ctx context.Context, in ListBooksInput) (*BookPage, error)
	Get(ctx context.Context, id string, page, limit int) (*BookDetail, error)
	Search(ctx context.Context, in SearchBooksInput) (*BookPage, error)
}
