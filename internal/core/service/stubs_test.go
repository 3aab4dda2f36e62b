package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bookreview/catalog-service/internal/core/domain"
	"github.com/bookreview/catalog-service/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories. Each one enforces the same uniqueness rules
// as the real store, atomically, so race tests are meaningful.
// ---------------------------------------------------------------------------

var errStoreDown = errors.New("store unavailable")

type idSeq struct {
	mu sync.Mutex
	n  int
}

func (s *idSeq) next() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("%024x", s.n)
}

var ids idSeq

// ---- users ----

type stubUserRepo struct {
	mu      sync.Mutex
	byEmail map[string]*domain.User
	findErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byEmail: make(map[string]*domain.User)}
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, u := range r.byEmail {
		if u.ID == id {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byEmail[user.Email]; exists {
		return nil, domain.ErrUserExists
	}
	clone := *user
	clone.ID = ids.next()
	r.byEmail[clone.Email] = &clone
	out := clone
	return &out, nil
}

func (r *stubUserRepo) remove(email string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byEmail, email)
}

// ---- denylist ----

type stubDenylist struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	err     error
}

func newStubDenylist() *stubDenylist {
	return &stubDenylist{revoked: make(map[string]time.Time)}
}

func (d *stubDenylist) Revoke(_ context.Context, tokenID string, until time.Time) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return d.err
	}
	d.revoked[tokenID] = until
	return nil
}

func (d *stubDenylist) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return false, d.err
	}
	_, ok := d.revoked[tokenID]
	return ok, nil
}

// ---- books ----

type stubBookRepo struct {
	mu        sync.Mutex
	books     map[string]*domain.Book
	existsErr error
	lastList  ports.BookFilter
}

func newStubBookRepo() *stubBookRepo {
	return &stubBookRepo{books: make(map[string]*domain.Book)}
}

func (r *stubBookRepo) Create(_ context.Context, b *domain.Book) (*domain.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.books {
		if existing.Title == b.Title {
			return nil, domain.ErrBookExists
		}
	}
	clone := *b
	clone.ID = ids.next()
	r.books[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubBookRepo) FindByID(_ context.Context, id string) (*domain.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.books[id]
	if !ok {
		return nil, domain.ErrBookNotFound
	}
	clone := *b
	return &clone, nil
}

func (r *stubBookRepo) ExistsByTitle(_ context.Context, title string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.existsErr != nil {
		return false, r.existsErr
	}
	for _, b := range r.books {
		if b.Title == title {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubBookRepo) List(_ context.Context, f ports.BookFilter) ([]*domain.Book, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastList = f

	var matched []*domain.Book
	for _, b := range r.books {
		if f.Author != "" && !containsFold(b.Author, f.Author) {
			continue
		}
		if f.Genre != "" && string(b.Genre) != f.Genre {
			continue
		}
		if f.Query != "" && !containsFold(b.Title, f.Query) && !containsFold(b.Author, f.Query) {
			continue
		}
		clone := *b
		matched = append(matched, &clone)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	total := int64(len(matched))
	skip := f.Page.Skip()
	if skip >= total {
		return []*domain.Book{}, total, nil
	}
	end := skip + int64(f.Page.Limit)
	if end > total {
		end = total
	}
	return matched[skip:end], total, nil
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

// ---- reviews ----

type stubReviewRepo struct {
	mu      sync.Mutex
	reviews map[string]*domain.Review
	authors map[string]domain.ReviewAuthor
	avgErr  error
	// skipPrecheck makes ExistsForUser always report false so that the
	// Create constraint is exercised under races.
	skipPrecheck bool
}

func newStubReviewRepo() *stubReviewRepo {
	return &stubReviewRepo{
		reviews: make(map[string]*domain.Review),
		authors: make(map[string]domain.ReviewAuthor),
	}
}

func (r *stubReviewRepo) Create(_ context.Context, rv *domain.Review) (*domain.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.reviews {
		if existing.BookID == rv.BookID && existing.UserID == rv.UserID {
			return nil, domain.ErrReviewExists
		}
	}
	clone := *rv
	clone.ID = ids.next()
	r.reviews[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubReviewRepo) FindByID(_ context.Context, id string) (*domain.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rv, ok := r.reviews[id]
	if !ok {
		return nil, domain.ErrReviewNotFound
	}
	clone := *rv
	return &clone, nil
}

func (r *stubReviewRepo) ExistsForUser(_ context.Context, bookID, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.skipPrecheck {
		return false, nil
	}
	for _, rv := range r.reviews {
		if rv.BookID == bookID && rv.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubReviewRepo) Update(_ context.Context, id string, c ports.ReviewChanges) (*domain.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rv, ok := r.reviews[id]
	if !ok {
		return nil, domain.ErrReviewNotFound
	}
	if c.Rating != nil {
		rv.Rating = *c.Rating
	}
	if c.Comment != nil {
		rv.Comment = *c.Comment
	}
	rv.UpdatedAt = time.Now().UTC()
	clone := *rv
	return &clone, nil
}

func (r *stubReviewRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.reviews[id]; !ok {
		return domain.ErrReviewNotFound
	}
	delete(r.reviews, id)
	return nil
}

func (r *stubReviewRepo) forBook(bookID string) []*domain.Review {
	var out []*domain.Review
	for _, rv := range r.reviews {
		if rv.BookID == bookID {
			out = append(out, rv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *stubReviewRepo) ListByBook(_ context.Context, bookID string, page domain.Page) ([]*domain.ReviewDetail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := r.forBook(bookID)
	var out []*domain.ReviewDetail
	for i := page.Skip(); i < int64(len(all)) && len(out) < page.Limit; i++ {
		detail := &domain.ReviewDetail{Review: *all[i]}
		if a, ok := r.authors[all[i].UserID]; ok {
			author := a
			detail.User = &author
		}
		out = append(out, detail)
	}
	return out, nil
}

func (r *stubReviewRepo) CountByBook(_ context.Context, bookID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.forBook(bookID))), nil
}

func (r *stubReviewRepo) AverageRating(_ context.Context, bookID string) (float64, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.avgErr != nil {
		return 0, false, r.avgErr
	}
	all := r.forBook(bookID)
	if len(all) == 0 {
		return 0, false, nil
	}
	var sum float64
	for _, rv := range all {
		sum += rv.Rating
	}
	return sum / float64(len(all)), true, nil
}
