package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/bookreview/catalog-service/internal/core/domain"
	"github.com/bookreview/catalog-service/internal/core/ports"
)

// ReviewService implements the review ledger. Ownership is always decided
// before the payload is looked at.
type ReviewService struct {
	reviews ports.ReviewRepository
	books   ports.BookRepository
	rules   *rules
	logger  zerolog.Logger
}

func NewReviewService(reviews ports.ReviewRepository, books ports.BookRepository, logger zerolog.Logger) *ReviewService {
	return &ReviewService{
		reviews: reviews,
		books:   books,
		rules:   newRules(),
		logger:  logger,
	}
}

// Create stores the caller's review of a book. The repository's uniqueness
// constraint on (book, user) is authoritative; the pre-check only saves a
// round trip in the common case.
func (s *ReviewService) Create(ctx context.Context, in ports.CreateReviewInput) (*domain.Review, error) {
	if in.Rating.State != ports.FieldSet {
		return nil, domain.ErrInvalidRating
	}
	if err := s.rules.check(in.Rating.Value, ratingRule, domain.ErrInvalidRating); err != nil {
		return nil, err
	}
	comment, err := s.comment(in.Comment)
	if err != nil {
		return nil, err
	}
	if !domain.IsValidID(in.BookID) {
		return nil, domain.ErrInvalidBookID
	}

	if _, err := s.books.FindByID(ctx, in.BookID); err != nil {
		return nil, err
	}

	exists, err := s.reviews.ExistsForUser(ctx, in.BookID, in.UserID)
	if err != nil {
		return nil, fmt.Errorf("check review: %w", err)
	}
	if exists {
		return nil, domain.ErrReviewExists
	}

	now := time.Now().UTC()
	created, err := s.reviews.Create(ctx, &domain.Review{
		BookID:    in.BookID,
		UserID:    in.UserID,
		Rating:    in.Rating.Value,
		Comment:   comment,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("review_id", created.ID).Str("book_id", created.BookID).Msg("review created")
	return created, nil
}

// Update replaces the supplied fields of the caller's review.
func (s *ReviewService) Update(ctx context.Context, in ports.UpdateReviewInput) (*domain.Review, error) {
	current, err := s.owned(ctx, in.ReviewID, in.UserID)
	if err != nil {
		return nil, err
	}
	if in.MalformedBody {
		return nil, domain.ErrInvalidPayload
	}

	var changes ports.ReviewChanges
	switch in.Rating.State {
	case ports.FieldMalformed:
		return nil, domain.ErrInvalidRating
	case ports.FieldSet:
		if err := s.rules.check(in.Rating.Value, ratingRule, domain.ErrInvalidRating); err != nil {
			return nil, err
		}
		rating := in.Rating.Value
		changes.Rating = &rating
	}
	if in.Comment.State != ports.FieldAbsent {
		comment, err := s.comment(in.Comment)
		if err != nil {
			return nil, err
		}
		changes.Comment = &comment
	}

	if changes.Rating == nil && changes.Comment == nil {
		return current, nil
	}

	updated, err := s.reviews.Update(ctx, in.ReviewID, changes)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("review_id", updated.ID).Msg("review updated")
	return updated, nil
}

// Delete removes the caller's review. A second delete reports
// domain.ErrReviewNotFound.
func (s *ReviewService) Delete(ctx context.Context, reviewID, userID string) error {
	if _, err := s.owned(ctx, reviewID, userID); err != nil {
		return err
	}
	if err := s.reviews.Delete(ctx, reviewID); err != nil {
		return err
	}

	s.logger.Info().Str("review_id", reviewID).Msg("review deleted")
	return nil
}

func (s *ReviewService) owned(ctx context.Context, reviewID, userID string) (*domain.Review, error) {
	if !domain.IsValidID(reviewID) {
		return nil, domain.ErrInvalidReviewID
	}
	review, err := s.reviews.FindByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if review.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return review, nil
}

func (s *ReviewService) comment(f ports.CommentField) (string, error) {
	switch f.State {
	case ports.FieldAbsent:
		return "", nil
	case ports.FieldMalformed:
		return "", domain.ErrInvalidComment
	}
	comment := strings.TrimSpace(f.Value)
	if err := s.rules.check(comment, commentRule, domain.ErrInvalidComment); err != nil {
		return "", err
	}
	return comment, nil
}
