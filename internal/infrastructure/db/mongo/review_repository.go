package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bookreview/catalog-service/internal/core/domain"
	"github.com/bookreview/catalog-service/internal/core/ports"
)

const reviewsCollection = "reviews"

type ReviewRepository struct {
	coll    *mongo.Collection
	timeout time.Duration
}

// NewReviewRepository bounds every call by timeout; zero means the default.
func NewReviewRepository(db *mongo.Database, timeout time.Duration) *ReviewRepository {
	return &ReviewRepository{coll: db.Collection(reviewsCollection), timeout: operationTimeout(timeout)}
}

type mongoReview struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Book      primitive.ObjectID `bson:"book"`
	User      primitive.ObjectID `bson:"user"`
	Rating    float64            `bson:"rating"`
	Comment   string             `bson:"comment"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

type mongoReviewAuthor struct {
	Name  string `bson:"name"`
	Email string `bson:"email"`
}

// mongoReviewDetail is the shape produced by the listing pipeline.
type mongoReviewDetail struct {
	ID        primitive.ObjectID `bson:"_id"`
	Book      primitive.ObjectID `bson:"book"`
	User      primitive.ObjectID `bson:"user"`
	Rating    float64            `bson:"rating"`
	Comment   string             `bson:"comment"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
	Author    *mongoReviewAuthor `bson:"author,omitempty"`
}

func (m *mongoReview) toDomain() *domain.Review {
	return &domain.Review{
		ID:        m.ID.Hex(),
		BookID:    m.Book.Hex(),
		UserID:    m.User.Hex(),
		Rating:    m.Rating,
		Comment:   m.Comment,
		CreatedAt: m.CreatedAt.UTC(),
		UpdatedAt: m.UpdatedAt.UTC(),
	}
}

// Create inserts a review. Two racing creates for the same (book, user)
// are decided by the unique compound index.
func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) (*domain.Review, error) {
	bookID, err := objectID(review.BookID)
	if err != nil {
		return nil, domain.ErrBookNotFound
	}
	userID, err := objectID(review.UserID)
	if err != nil {
		return nil, fmt.Errorf("review author %q: %w", review.UserID, err)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	doc := mongoReview{
		ID:        primitive.NewObjectID(),
		Book:      bookID,
		User:      userID,
		Rating:    review.Rating,
		Comment:   review.Comment,
		CreatedAt: review.CreatedAt,
		UpdatedAt: review.UpdatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrReviewExists
		}
		return nil, fmt.Errorf("insert review: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ReviewRepository) FindByID(ctx context.Context, id string) (*domain.Review, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, domain.ErrReviewNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var mr mongoReview
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mr); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrReviewNotFound
		}
		return nil, fmt.Errorf("find review: %w", err)
	}
	return mr.toDomain(), nil
}

func (r *ReviewRepository) ExistsForUser(ctx context.Context, bookID, userID string) (bool, error) {
	book, err := objectID(bookID)
	if err != nil {
		return false, nil
	}
	user, err := objectID(userID)
	if err != nil {
		return false, nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, bson.M{"book": book, "user": user}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count reviews: %w", err)
	}
	return n > 0, nil
}

// Update sets only the supplied fields and returns the stored document.
func (r *ReviewRepository) Update(ctx context.Context, id string, changes ports.ReviewChanges) (*domain.Review, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, domain.ErrReviewNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	set := bson.M{"updatedAt": time.Now().UTC()}
	if changes.Rating != nil {
		set["rating"] = *changes.Rating
	}
	if changes.Comment != nil {
		set["comment"] = *changes.Comment
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var mr mongoReview
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&mr); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrReviewNotFound
		}
		return nil, fmt.Errorf("update review: %w", err)
	}
	return mr.toDomain(), nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return domain.ErrReviewNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrReviewNotFound
	}
	return nil
}

// ListByBook returns one page of reviews newest-first, each joined with its
// author's name and email. Nothing else from the users collection is projected.
func (r *ReviewRepository) ListByBook(ctx context.Context, bookID string, page domain.Page) ([]*domain.ReviewDetail, error) {
	book, err := objectID(bookID)
	if err != nil {
		return []*domain.ReviewDetail{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cursor, err := r.coll.Aggregate(ctx, reviewPagePipeline(book, page))
	if err != nil {
		return nil, fmt.Errorf("aggregate reviews: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []mongoReviewDetail
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode reviews: %w", err)
	}

	out := make([]*domain.ReviewDetail, 0, len(docs))
	for i := range docs {
		d := docs[i]
		review := mongoReview{
			ID:        d.ID,
			Book:      d.Book,
			User:      d.User,
			Rating:    d.Rating,
			Comment:   d.Comment,
			CreatedAt: d.CreatedAt,
			UpdatedAt: d.UpdatedAt,
		}
		detail := &domain.ReviewDetail{Review: *review.toDomain()}
		if a := d.Author; a != nil {
			detail.User = &domain.ReviewAuthor{Name: a.Name, Email: a.Email}
		}
		out = append(out, detail)
	}
	return out, nil
}

func reviewPagePipeline(book primitive.ObjectID, page domain.Page) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"book": book}}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}}},
		{{Key: "$skip", Value: page.Skip()}},
		{{Key: "$limit", Value: int64(page.Limit)}},
		{{Key: "$lookup", Value: bson.M{
			"from":         usersCollection,
			"localField":   "user",
			"foreignField": "_id",
			"as":           "author",
			"pipeline":     bson.A{bson.M{"$project": bson.M{"_id": 0, "name": 1, "email": 1}}},
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$author", "preserveNullAndEmptyArrays": true}}},
	}
}

func (r *ReviewRepository) CountByBook(ctx context.Context, bookID string) (int64, error) {
	book, err := objectID(bookID)
	if err != nil {
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, bson.M{"book": book})
	if err != nil {
		return 0, fmt.Errorf("count reviews: %w", err)
	}
	return n, nil
}

// AverageRating runs $avg over every review of the book.
func (r *ReviewRepository) AverageRating(ctx context.Context, bookID string) (float64, bool, error) {
	book, err := objectID(bookID)
	if err != nil {
		return 0, false, nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cursor, err := r.coll.Aggregate(ctx, averagePipeline(book))
	if err != nil {
		return 0, false, fmt.Errorf("aggregate average: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Avg float64 `bson:"avg"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, false, fmt.Errorf("decode average: %w", err)
	}
	if len(rows) == 0 {
		return 0, false, nil
	}
	return rows[0].Avg, true, nil
}

func averagePipeline(book primitive.ObjectID) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"book": book}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "avg": bson.M{"$avg": "$rating"}}}},
	}
}
