package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bookreview/catalog-service/internal/core/domain"
	"github.com/bookreview/catalog-service/internal/core/ports"
)

const booksCollection = "books"

type BookRepository struct {
	coll    *mongo.Collection
	timeout time.Duration
}

// NewBookRepository bounds every call by timeout; zero means the default.
func NewBookRepository(db *mongo.Database, timeout time.Duration) *BookRepository {
	return &BookRepository{coll: db.Collection(booksCollection), timeout: operationTimeout(timeout)}
}

type mongoBook struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Title         string             `bson:"title"`
	Author        string             `bson:"author"`
	Genre         string             `bson:"genre"`
	PublishedYear int                `bson:"publishedYear"`
	CreatedAt     time.Time          `bson:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt"`
}

func (m *mongoBook) toDomain() *domain.Book {
	return &domain.Book{
		ID:            m.ID.Hex(),
		Title:         m.Title,
		Author:        m.Author,
		Genre:         domain.Genre(m.Genre),
		PublishedYear: m.PublishedYear,
		CreatedAt:     m.CreatedAt.UTC(),
		UpdatedAt:     m.UpdatedAt.UTC(),
	}
}

// Create inserts a book. The unique title index is authoritative for
// duplicates that slip past the service's existence check.
func (r *BookRepository) Create(ctx context.Context, book *domain.Book) (*domain.Book, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	doc := mongoBook{
		ID:            primitive.NewObjectID(),
		Title:         book.Title,
		Author:        book.Author,
		Genre:         string(book.Genre),
		PublishedYear: book.PublishedYear,
		CreatedAt:     book.CreatedAt,
		UpdatedAt:     book.UpdatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrBookExists
		}
		return nil, fmt.Errorf("insert book: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *BookRepository) FindByID(ctx context.Context, id string) (*domain.Book, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, domain.ErrBookNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var mb mongoBook
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mb); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrBookNotFound
		}
		return nil, fmt.Errorf("find book: %w", err)
	}
	return mb.toDomain(), nil
}

// ExistsByTitle counts matches; an empty result is not a match.
func (r *BookRepository) ExistsByTitle(ctx context.Context, title string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, bson.M{"title": title}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count books: %w", err)
	}
	return n > 0, nil
}

// List returns one page newest-first plus the total number of matches.
func (r *BookRepository) List(ctx context.Context, f ports.BookFilter) ([]*domain.Book, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	filter := bookFilter(f)

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count books: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(f.Page.Skip()).
		SetLimit(int64(f.Page.Limit))

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find books: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []mongoBook
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode books: %w", err)
	}

	books := make([]*domain.Book, 0, len(docs))
	for i := range docs {
		books = append(books, docs[i].toDomain())
	}
	return books, total, nil
}

// bookFilter builds the query document. Text criteria are regex-escaped so
// user input is matched literally.
func bookFilter(f ports.BookFilter) bson.M {
	filter := bson.M{}
	if f.Author != "" {
		filter["author"] = containsInsensitive(f.Author)
	}
	if f.Genre != "" {
		filter["genre"] = f.Genre
	}
	if f.Query != "" {
		filter["$or"] = bson.A{
			bson.M{"title": containsInsensitive(f.Query)},
			bson.M{"author": containsInsensitive(f.Query)},
		}
	}
	return filter
}

func containsInsensitive(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}
