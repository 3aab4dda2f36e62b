package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/bookreview/catalog-service/internal/core/domain"
	"github.com/bookreview/catalog-service/internal/core/ports"
)

const (
	alice = "aaaaaaaaaaaaaaaaaaaaaaaa"
	bob   = "bbbbbbbbbbbbbbbbbbbbbbbb"
)

type reviewFixture struct {
	svc     *ReviewService
	reviews *stubReviewRepo
	bookID  string
}

func newReviewFixture(t *testing.T) *reviewFixture {
	t.Helper()
	books := newStubBookRepo()
	reviews := newStubReviewRepo()
	book, err := books.Create(context.Background(), &domain.Book{Title: "Dune", Author: "Herbert", Genre: domain.GenreScienceFiction, PublishedYear: 1965})
	if err != nil {
		t.Fatalf("seed book: %v", err)
	}
	return &reviewFixture{
		svc:     NewReviewService(reviews, books, zerolog.Nop()),
		reviews: reviews,
		bookID:  book.ID,
	}
}

func rating(v float64) ports.RatingField { return ports.RatingField{State: ports.FieldSet, Value: v} }
func comment(v string) ports.CommentField { return ports.CommentField{State: ports.FieldSet, Value: v} }

func (f *reviewFixture) create(t *testing.T, userID string, r float64) *domain.Review {
	t.Helper()
	rv, err := f.svc.Create(context.Background(), ports.CreateReviewInput{BookID: f.bookID, UserID: userID, Rating: rating(r), Comment: comment("great")})
	if err != nil {
		t.Fatalf("create review: %v", err)
	}
	return rv
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestReviewService_Create_Success(t *testing.T) {
	f := newReviewFixture(t)

	rv, err := f.svc.Create(context.Background(), ports.CreateReviewInput{
		BookID:  f.bookID,
		UserID:  alice,
		Rating:  rating(4.5),
		Comment: comment("  a classic  "),
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if rv.ID == "" || rv.BookID != f.bookID || rv.UserID != alice {
		t.Fatalf("unexpected review: %+v", rv)
	}
	if rv.Comment != "a classic" {
		t.Fatalf("expected trimmed comment, got %q", rv.Comment)
	}

	noComment, err := f.svc.Create(context.Background(), ports.CreateReviewInput{BookID: f.bookID, UserID: bob, Rating: rating(3)})
	if err != nil {
		t.Fatalf("Create without comment returned error: %v", err)
	}
	if noComment.Comment != "" {
		t.Fatalf("expected empty default comment, got %q", noComment.Comment)
	}
}

func TestReviewService_Create_CheckOrder(t *testing.T) {
	f := newReviewFixture(t)
	long := comment(strings.Repeat("c", domain.CommentMaxLen+1))

	cases := []struct {
		name string
		in   ports.CreateReviewInput
		want error
	}{
		{"missing rating beats bad id", ports.CreateReviewInput{BookID: "bad", UserID: alice}, domain.ErrInvalidRating},
		{"malformed rating", ports.CreateReviewInput{BookID: f.bookID, UserID: alice, Rating: ports.RatingField{State: ports.FieldMalformed}}, domain.ErrInvalidRating},
		{"rating below range", ports.CreateReviewInput{BookID: f.bookID, UserID: alice, Rating: rating(0.5)}, domain.ErrInvalidRating},
		{"rating above range", ports.CreateReviewInput{BookID: f.bookID, UserID: alice, Rating: rating(5.5)}, domain.ErrInvalidRating},
		{"two decimals", ports.CreateReviewInput{BookID: f.bookID, UserID: alice, Rating: rating(4.25)}, domain.ErrInvalidRating},
		{"long comment beats bad id", ports.CreateReviewInput{BookID: "bad", UserID: alice, Rating: rating(4), Comment: long}, domain.ErrInvalidComment},
		{"malformed comment", ports.CreateReviewInput{BookID: f.bookID, UserID: alice, Rating: rating(4), Comment: ports.CommentField{State: ports.FieldMalformed}}, domain.ErrInvalidComment},
		{"bad book id", ports.CreateReviewInput{BookID: "bad", UserID: alice, Rating: rating(4)}, domain.ErrInvalidBookID},
		{"unknown book", ports.CreateReviewInput{BookID: "ffffffffffffffffffffffff", UserID: alice, Rating: rating(4)}, domain.ErrBookNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := f.svc.Create(context.Background(), tc.in); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestReviewService_Create_Duplicate(t *testing.T) {
	f := newReviewFixture(t)
	f.create(t, alice, 4)

	_, err := f.svc.Create(context.Background(), ports.CreateReviewInput{BookID: f.bookID, UserID: alice, Rating: rating(2)})
	if !errors.Is(err, domain.ErrReviewExists) {
		t.Fatalf("expected ErrReviewExists, got %v", err)
	}
}

func TestReviewService_Create_ConcurrentSamePair(t *testing.T) {
	f := newReviewFixture(t)
	f.reviews.skipPrecheck = true

	var (
		wg   sync.WaitGroup
		errs = make([]error, 2)
	)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.Create(context.Background(), ports.CreateReviewInput{BookID: f.bookID, UserID: alice, Rating: rating(4)})
		}(i)
	}
	wg.Wait()

	var ok, conflict int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrReviewExists):
			conflict++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 || conflict != 1 {
		t.Fatalf("expected exactly one success, got %d ok / %d conflict", ok, conflict)
	}
}

// ---------------------------------------------------------------------------
// Update
// ---------------------------------------------------------------------------

func TestReviewService_Update_PartialFields(t *testing.T) {
	f := newReviewFixture(t)
	rv := f.create(t, alice, 4)

	updated, err := f.svc.Update(context.Background(), ports.UpdateReviewInput{ReviewID: rv.ID, UserID: alice, Rating: rating(2.5)})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Rating != 2.5 || updated.Comment != "great" {
		t.Fatalf("expected rating replaced and comment kept, got %+v", updated)
	}

	updated, err = f.svc.Update(context.Background(), ports.UpdateReviewInput{ReviewID: rv.ID, UserID: alice, Comment: comment("")})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Comment != "" || updated.Rating != 2.5 {
		t.Fatalf("expected explicit empty comment to clear it, got %+v", updated)
	}

	unchanged, err := f.svc.Update(context.Background(), ports.UpdateReviewInput{ReviewID: rv.ID, UserID: alice})
	if err != nil {
		t.Fatalf("empty update returned error: %v", err)
	}
	if unchanged.Rating != 2.5 {
		t.Fatalf("expected no-op update, got %+v", unchanged)
	}
}

func TestReviewService_Update_Errors(t *testing.T) {
	f := newReviewFixture(t)
	rv := f.create(t, alice, 4)

	cases := []struct {
		name string
		in   ports.UpdateReviewInput
		want error
	}{
		{"bad id", ports.UpdateReviewInput{ReviewID: "xyz", UserID: alice}, domain.ErrInvalidReviewID},
		{"missing", ports.UpdateReviewInput{ReviewID: "ffffffffffffffffffffffff", UserID: alice}, domain.ErrReviewNotFound},
		{"not owner with valid payload", ports.UpdateReviewInput{ReviewID: rv.ID, UserID: bob, Rating: rating(5)}, domain.ErrForbidden},
		{"not owner with broken payload", ports.UpdateReviewInput{ReviewID: rv.ID, UserID: bob, MalformedBody: true}, domain.ErrForbidden},
		{"not owner with bad rating", ports.UpdateReviewInput{ReviewID: rv.ID, UserID: bob, Rating: rating(9)}, domain.ErrForbidden},
		{"broken payload", ports.UpdateReviewInput{ReviewID: rv.ID, UserID: alice, MalformedBody: true}, domain.ErrInvalidPayload},
		{"bad rating", ports.UpdateReviewInput{ReviewID: rv.ID, UserID: alice, Rating: rating(0)}, domain.ErrInvalidRating},
		{"malformed rating", ports.UpdateReviewInput{ReviewID: rv.ID, UserID: alice, Rating: ports.RatingField{State: ports.FieldMalformed}}, domain.ErrInvalidRating},
		{"long comment", ports.UpdateReviewInput{ReviewID: rv.ID, UserID: alice, Comment: comment(strings.Repeat("x", 1001))}, domain.ErrInvalidComment},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := f.svc.Update(context.Background(), tc.in); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}

	stored, _ := f.reviews.FindByID(context.Background(), rv.ID)
	if stored.Rating != 4 {
		t.Fatalf("rejected updates must not change the review, got rating %v", stored.Rating)
	}
}

// ---------------------------------------------------------------------------
// Delete
// ---------------------------------------------------------------------------

func TestReviewService_Delete(t *testing.T) {
	f := newReviewFixture(t)
	rv := f.create(t, alice, 4)

	if err := f.svc.Delete(context.Background(), "bad", alice); !errors.Is(err, domain.ErrInvalidReviewID) {
		t.Fatalf("expected ErrInvalidReviewID, got %v", err)
	}
	if err := f.svc.Delete(context.Background(), rv.ID, bob); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := f.svc.Delete(context.Background(), rv.ID, alice); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if err := f.svc.Delete(context.Background(), rv.ID, alice); !errors.Is(err, domain.ErrReviewNotFound) {
		t.Fatalf("expected second delete to report ErrReviewNotFound, got %v", err)
	}

	// The pair is free again once the review is gone.
	f.create(t, alice, 3)
}
