package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/bookreview/catalog-service/internal/core/domain"
	"github.com/bookreview/catalog-service/internal/core/ports"
)

// ReviewAggregator computes a book's review page, total count and mean
// rating as three independent queries over the same book filter. The mean
// always covers every review, not only the returned page.
type ReviewAggregator struct {
	repo ports.ReviewRepository
}

func NewReviewAggregator(repo ports.ReviewRepository) *ReviewAggregator {
	return &ReviewAggregator{repo: repo}
}

// Aggregate returns nil for the mean when the book has no reviews.
func (a *ReviewAggregator) Aggregate(ctx context.Context, bookID string, page domain.Page) (*ports.ReviewPage, *float64, error) {
	var (
		reviews []*domain.ReviewDetail
		total   int64
		avg     float64
		found   bool
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		reviews, err = a.repo.ListByBook(gctx, bookID, page)
		if err != nil {
			return fmt.Errorf("list reviews: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		total, err = a.repo.CountByBook(gctx, bookID)
		if err != nil {
			return fmt.Errorf("count reviews: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		avg, found, err = a.repo.AverageRating(gctx, bookID)
		if err != nil {
			return fmt.Errorf("average rating: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	if reviews == nil {
		reviews = []*domain.ReviewDetail{}
	}

	var mean *float64
	if found {
		rounded := domain.RoundMean(avg)
		mean = &rounded
	}

	return &ports.ReviewPage{
		Reviews:    reviews,
		Total:      total,
		Page:       page.Number,
		PageSize:   page.Size(total),
		TotalPages: page.TotalPages(total),
	}, mean, nil
}
