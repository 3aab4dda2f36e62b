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

// BookService implements the catalog use cases.
type BookService struct {
	repo       ports.BookRepository
	aggregator ports.ReviewAggregator
	rules      *rules
	now        func() time.Time
	logger     zerolog.Logger
}

func NewBookService(repo ports.BookRepository, aggregator ports.ReviewAggregator, logger zerolog.Logger) *BookService {
	return &BookService{
		repo:       repo,
		aggregator: aggregator,
		rules:      newRules(),
		now:        time.Now,
		logger:     logger,
	}
}

// Create validates and stores a new book. A title already in the catalog is
// rejected with domain.ErrBookExists.
func (s *BookService) Create(ctx context.Context, in ports.CreateBookInput) (*domain.Book, error) {
	switch {
	case !present(in.Title):
		return nil, domain.ErrTitleRequired
	case !present(in.Author):
		return nil, domain.ErrAuthorRequired
	case !present(in.Genre):
		return nil, domain.ErrGenreRequired
	case in.PublishedYear == nil && !in.PublishedYearMalformed:
		return nil, domain.ErrPublishedYearRequired
	}

	title, author, genre := trimmed(in.Title), trimmed(in.Author), trimmed(in.Genre)
	if err := s.rules.check(title, titleRule, domain.ErrInvalidTitle); err != nil {
		return nil, err
	}
	if err := s.rules.check(author, authorRule, domain.ErrInvalidAuthor); err != nil {
		return nil, err
	}
	if err := s.rules.check(genre, genreRule, domain.ErrInvalidGenre); err != nil {
		return nil, err
	}
	if in.PublishedYearMalformed {
		return nil, domain.ErrInvalidPublishedYear
	}
	now := s.now().UTC()
	if err := s.rules.year(*in.PublishedYear, now.Year()); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByTitle(ctx, title)
	if err != nil {
		return nil, fmt.Errorf("check title: %w", err)
	}
	if exists {
		return nil, domain.ErrBookExists
	}

	created, err := s.repo.Create(ctx, &domain.Book{
		Title:         title,
		Author:        author,
		Genre:         domain.Genre(genre),
		PublishedYear: *in.PublishedYear,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("book_id", created.ID).Str("genre", string(created.Genre)).Msg("book created")
	return created, nil
}

// List returns a page of books filtered by author substring and exact genre.
func (s *BookService) List(ctx context.Context, in ports.ListBooksInput) (*ports.BookPage, error) {
	filter := ports.BookFilter{
		Author: strings.TrimSpace(in.Author),
		Genre:  strings.TrimSpace(in.Genre),
		Page:   domain.NewPage(in.Page, in.Limit, domain.DefaultListLimit),
	}
	return s.page(ctx, filter)
}

// Search matches the query against title or author.
func (s *BookService) Search(ctx context.Context, in ports.SearchBooksInput) (*ports.BookPage, error) {
	query := strings.TrimSpace(in.Query)
	if query == "" {
		return nil, domain.ErrEmptyQuery
	}
	filter := ports.BookFilter{
		Query: query,
		Page:  domain.NewPage(in.Page, in.Limit, domain.DefaultListLimit),
	}
	return s.page(ctx, filter)
}

// Get returns the book with its review page and mean rating.
func (s *BookService) Get(ctx context.Context, id string, page, limit int) (*ports.BookDetail, error) {
	if !domain.IsValidID(id) {
		return nil, domain.ErrInvalidBookID
	}

	book, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	reviews, avg, err := s.aggregator.Aggregate(ctx, id, domain.NewPage(page, limit, domain.DefaultReviewLimit))
	if err != nil {
		return nil, err
	}

	return &ports.BookDetail{
		Book:          book,
		AverageRating: avg,
		Reviews:       *reviews,
	}, nil
}

func (s *BookService) page(ctx context.Context, filter ports.BookFilter) (*ports.BookPage, error) {
	books, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	if books == nil {
		books = []*domain.Book{}
	}
	return &ports.BookPage{
		Books:      books,
		Total:      total,
		Page:       filter.Page.Number,
		PageSize:   filter.Page.Size(total),
		TotalPages: filter.Page.TotalPages(total),
	}, nil
}
