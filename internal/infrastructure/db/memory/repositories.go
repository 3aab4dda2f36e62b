package memory

import (
	"context"
	"sort"
	"time"

	"github.com/bookreview/catalog-service/internal/core/domain"
	"github.com/bookreview/catalog-service/internal/core/ports"
)

// UserRepository implementation -----------------------------------------------

type UserRepository struct {
	s *Store
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	stored := *user
	stored.ID = newID()
	r.s.users[stored.ID] = stored
	return &stored, nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

// BookRepository implementation -----------------------------------------------

type BookRepository struct {
	s *Store
}

func (r *BookRepository) Create(_ context.Context, book *domain.Book) (*domain.Book, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, b := range r.s.books {
		if b.Title == book.Title {
			return nil, domain.ErrBookExists
		}
	}
	stored := *book
	stored.ID = newID()
	r.s.books[stored.ID] = stored
	return &stored, nil
}

func (r *BookRepository) FindByID(_ context.Context, id string) (*domain.Book, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	b, ok := r.s.books[id]
	if !ok {
		return nil, domain.ErrBookNotFound
	}
	return &b, nil
}

func (r *BookRepository) ExistsByTitle(_ context.Context, title string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, b := range r.s.books {
		if b.Title == title {
			return true, nil
		}
	}
	return false, nil
}

func (r *BookRepository) List(_ context.Context, f ports.BookFilter) ([]*domain.Book, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	matched := make([]*domain.Book, 0)
	for _, b := range r.s.books {
		if f.Author != "" && !containsFold(b.Author, f.Author) {
			continue
		}
		if f.Genre != "" && string(b.Genre) != f.Genre {
			continue
		}
		if f.Query != "" && !containsFold(b.Title, f.Query) && !containsFold(b.Author, f.Query) {
			continue
		}
		clone := b
		matched = append(matched, &clone)
	}
	sortBooks(matched)
	return window(matched, f.Page), int64(len(matched)), nil
}

// ReviewRepository implementation ---------------------------------------------

type ReviewRepository struct {
	s *Store
}

func (r *ReviewRepository) Create(_ context.Context, review *domain.Review) (*domain.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, rv := range r.s.reviews {
		if rv.BookID == review.BookID && rv.UserID == review.UserID {
			return nil, domain.ErrReviewExists
		}
	}
	stored := *review
	stored.ID = newID()
	r.s.reviews[stored.ID] = stored
	return &stored, nil
}

func (r *ReviewRepository) FindByID(_ context.Context, id string) (*domain.Review, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rv, ok := r.s.reviews[id]
	if !ok {
		return nil, domain.ErrReviewNotFound
	}
	return &rv, nil
}

func (r *ReviewRepository) ExistsForUser(_ context.Context, bookID, userID string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, rv := range r.s.reviews {
		if rv.BookID == bookID && rv.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *ReviewRepository) Update(_ context.Context, id string, changes ports.ReviewChanges) (*domain.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rv, ok := r.s.reviews[id]
	if !ok {
		return nil, domain.ErrReviewNotFound
	}
	if changes.Rating != nil {
		rv.Rating = *changes.Rating
	}
	if changes.Comment != nil {
		rv.Comment = *changes.Comment
	}
	rv.UpdatedAt = r.s.now().UTC()
	r.s.reviews[id] = rv
	return &rv, nil
}

func (r *ReviewRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.reviews[id]; !ok {
		return domain.ErrReviewNotFound
	}
	delete(r.s.reviews, id)
	return nil
}

// forBookLocked returns the book's reviews newest-first. Callers hold the lock.
func (r *ReviewRepository) forBookLocked(bookID string) []domain.Review {
	out := make([]domain.Review, 0)
	for _, rv := range r.s.reviews {
		if rv.BookID == bookID {
			out = append(out, rv)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return newestFirst(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID)
	})
	return out
}

func (r *ReviewRepository) ListByBook(_ context.Context, bookID string, page domain.Page) ([]*domain.ReviewDetail, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	slice := window(r.forBookLocked(bookID), page)
	out := make([]*domain.ReviewDetail, 0, len(slice))
	for _, rv := range slice {
		detail := &domain.ReviewDetail{Review: rv}
		if u, ok := r.s.users[rv.UserID]; ok {
			detail.User = &domain.ReviewAuthor{Name: u.Name, Email: u.Email}
		}
		out = append(out, detail)
	}
	return out, nil
}

func (r *ReviewRepository) CountByBook(_ context.Context, bookID string) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return int64(len(r.forBookLocked(bookID))), nil
}

func (r *ReviewRepository) AverageRating(_ context.Context, bookID string) (float64, bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	reviews := r.forBookLocked(bookID)
	if len(reviews) == 0 {
		return 0, false, nil
	}
	var sum float64
	for _, rv := range reviews {
		sum += rv.Rating
	}
	return sum / float64(len(reviews)), true, nil
}

// TokenDenylist implementation ------------------------------------------------

type TokenDenylist struct {
	s *Store
}

// Revoke records tokenID until the given instant. Expired entries are
// pruned on each call.
func (d *TokenDenylist) Revoke(_ context.Context, tokenID string, until time.Time) error {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()

	now := d.s.now()
	for id, exp := range d.s.revoked {
		if !exp.After(now) {
			delete(d.s.revoked, id)
		}
	}
	if until.After(now) {
		d.s.revoked[tokenID] = until
	}
	return nil
}

func (d *TokenDenylist) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	d.s.mu.RLock()
	defer d.s.mu.RUnlock()

	until, ok := d.s.revoked[tokenID]
	return ok && until.After(d.s.now()), nil
}
