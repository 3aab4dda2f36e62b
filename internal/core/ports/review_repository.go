package ports

import (
	"context"

	"github.com/bookreview/catalog-service/internal/core/domain"
)

// ReviewChanges lists the fields an update replaces. Nil leaves the stored
// value untouched.
type ReviewChanges struct {
	Rating  *float64
	Comment *string
}

// ReviewRepository defines persistence for the review ledger.
type ReviewRepository interface {
	// Create returns domain.ErrReviewExists when (BookID, UserID) is taken.
	// The store's uniqueness constraint decides concurrent creates.
	Create(ctx context.Context, review *domain.Review) (*domain.Review, error)
	// FindByID returns domain.ErrReviewNotFound when absent.
	FindByID(ctx context.Context, id string) (*domain.Review, error)
	ExistsForUser(ctx context.Context, bookID, userID string) (bool, error)
	// Update returns the stored review after applying changes.
	Update(ctx context.Context, id string, changes ReviewChanges) (*domain.Review, error)
	// Delete returns domain.ErrReviewNotFound when nothing was removed.
	Delete(ctx context.Context, id string) error

	// ListByBook returns a newest-first slice annotated with author name and email.
	ListByBook(ctx context.Context, bookID string, page domain.Page) ([]*domain.ReviewDetail, error)
	CountByBook(ctx context.Context, bookID string) (int64, error)
	// AverageRating returns the mean of every rating for the book. found is
	// false when the book has no reviews.
	AverageRating(ctx context.Context, bookID string) (avg float64, found bool, err error)
}
