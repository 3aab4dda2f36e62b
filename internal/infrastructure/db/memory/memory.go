// Package memory is a thread-safe in-memory implementation of every store
// port. It backs STORE_DRIVER=memory and end-to-end tests. Uniqueness rules
// are checked and applied under a single write lock, which gives the same
// guarantees as the unique indexes of the Mongo store.
package memory

import (
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/bookreview/catalog-service/internal/core/domain"
)

// Store holds every collection behind one lock.
type Store struct {
	mu      sync.RWMutex
	users   map[string]domain.User
	books   map[string]domain.Book
	reviews map[string]domain.Review
	revoked map[string]time.Time
	now     func() time.Time
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		users:   make(map[string]domain.User),
		books:   make(map[string]domain.Book),
		reviews: make(map[string]domain.Review),
		revoked: make(map[string]time.Time),
		now:     time.Now,
	}
}

// Users returns the user repository view of the store.
func (s *Store) Users() *UserRepository { return &UserRepository{s: s} }

// Books returns the book repository view of the store.
func (s *Store) Books() *BookRepository { return &BookRepository{s: s} }

// Reviews returns the review repository view of the store.
func (s *Store) Reviews() *ReviewRepository { return &ReviewRepository{s: s} }

// Denylist returns the token denylist view of the store.
func (s *Store) Denylist() *TokenDenylist { return &TokenDenylist{s: s} }

func newID() string {
	return primitive.NewObjectID().Hex()
}

// newestFirst orders by creation time descending, then by id descending so
// records created within the same instant keep insertion order reversed.
func newestFirst(aTime, bTime time.Time, aID, bID string) bool {
	if !aTime.Equal(bTime) {
		return aTime.After(bTime)
	}
	return aID > bID
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func window[T any](items []T, page domain.Page) []T {
	skip := page.Skip()
	if skip < 0 || skip >= int64(len(items)) {
		return []T{}
	}
	end := skip + int64(page.Limit)
	if end > int64(len(items)) {
		end = int64(len(items))
	}
	return items[skip:end]
}

func sortBooks(books []*domain.Book) {
	sort.Slice(books, func(i, j int) bool {
		return newestFirst(books[i].CreatedAt, books[j].CreatedAt, books[i].ID, books[j].ID)
	})
}
