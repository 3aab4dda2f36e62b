package ports

import (
	"context"

	"github.com/bookreview/catalog-service/internal/core/domain"
)

// FieldState describes how an optional field appeared in a request body.
type FieldState int

const (
	FieldAbsent FieldState = iota
	FieldSet
	FieldMalformed // present but not decodable into the expected type
)

// RatingField is a rating as supplied by the caller.
type RatingField struct {
	State FieldState
	Value float64
}

// CommentField is a comment as supplied by the caller.
type CommentField struct {
	State FieldState
	Value string
}

// CreateReviewInput is the DTO for submitting a review.
type CreateReviewInput struct {
	BookID  string
	UserID  string
	Rating  RatingField
	Comment CommentField
}

// UpdateReviewInput is the DTO for editing a review. MalformedBody is set
// when the request body could not be parsed at all; it is reported only
// after identity and ownership are established.
type UpdateReviewInput struct {
	ReviewID      string
	UserID        string
	Rating        RatingField
	Comment       CommentField
	MalformedBody bool
}

// ReviewService is the review ledger use-case boundary.
type ReviewService interface {
	Create(ctx context.Context, in CreateReviewInput) (*domain.Review, error)
	Update(ctx context.Context, in UpdateReviewInput) (*domain.Review, error)
	Delete(ctx context.Context, reviewID, userID string) error
}

// ReviewAggregator assembles a book's review page and mean rating.
type ReviewAggregator interface {
	Aggregate(ctx context.Context, bookID string, page domain.Page) (*ReviewPage, *float64, error)
}
