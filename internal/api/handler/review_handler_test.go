package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/bookreview/catalog-service/internal/core/domain"
	"github.com/bookreview/catalog-service/internal/core/ports"
)

type stubReviewService struct {
	createFn func(ctx context.Context, in ports.CreateReviewInput) (*domain.Review, error)
	updateFn func(ctx context.Context, in ports.UpdateReviewInput) (*domain.Review, error)
	deleteFn func(ctx context.Context, reviewID, userID string) error
}

func (s *stubReviewService) Create(ctx context.Context, in ports.CreateReviewInput) (*domain.Review, error) {
	return s.createFn(ctx, in)
}

func (s *stubReviewService) Update(ctx context.Context, in ports.UpdateReviewInput) (*domain.Review, error) {
	return s.updateFn(ctx, in)
}

func (s *stubReviewService) Delete(ctx context.Context, reviewID, userID string) error {
	return s.deleteFn(ctx, reviewID, userID)
}

const reviewID = "65b000000000000000000001"

func TestReviewHandler_Create_Success(t *testing.T) {
	stub := &stubReviewService{
		createFn: func(ctx context.Context, in ports.CreateReviewInput) (*domain.Review, error) {
			if in.BookID != dune.ID || in.UserID != "u1" {
				t.Fatalf("unexpected ids: %+v", in)
			}
			if in.Rating.State != ports.FieldSet || in.Rating.Value != 4.5 {
				t.Fatalf("unexpected rating: %+v", in.Rating)
			}
			if in.Comment.State != ports.FieldSet || in.Comment.Value != "great" {
				t.Fatalf("unexpected comment: %+v", in.Comment)
			}
			return &domain.Review{ID: reviewID, BookID: in.BookID, UserID: in.UserID, Rating: 4.5, Comment: "great"}, nil
		},
	}
	handler := NewReviewHandler(stub)

	c, rec := newJSONContext(http.MethodPost, "/books/"+dune.ID+"/reviews", `{"rating":4.5,"comment":"great"}`)
	c.SetParamNames("id")
	c.SetParamValues(dune.ID)
	withIdentity(c, "u1")

	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	resp := decodeBody(t, rec)
	if resp["message"] != "Review submitted successfully" {
		t.Fatalf("unexpected message: %v", resp["message"])
	}
	if data := resp["data"].(map[string]any); data["rating"] != 4.5 {
		t.Fatalf("unexpected data: %+v", data)
	}
}

func TestReviewHandler_Create_FieldShapes(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantRating  ports.FieldState
		wantComment ports.FieldState
	}{
		{name: "empty object", body: `{}`, wantRating: ports.FieldAbsent, wantComment: ports.FieldAbsent},
		{name: "nulls", body: `{"rating":null,"comment":null}`, wantRating: ports.FieldAbsent, wantComment: ports.FieldAbsent},
		{name: "string rating", body: `{"rating":"4"}`, wantRating: ports.FieldMalformed, wantComment: ports.FieldAbsent},
		{name: "bool rating", body: `{"rating":true}`, wantRating: ports.FieldMalformed, wantComment: ports.FieldAbsent},
		{name: "numeric comment", body: `{"rating":3,"comment":12}`, wantRating: ports.FieldSet, wantComment: ports.FieldMalformed},
		{name: "empty comment", body: `{"rating":3,"comment":""}`, wantRating: ports.FieldSet, wantComment: ports.FieldSet},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got ports.CreateReviewInput
			stub := &stubReviewService{
				createFn: func(ctx context.Context, in ports.CreateReviewInput) (*domain.Review, error) {
					got = in
					return nil, domain.ErrInvalidRating
				},
			}
			handler := NewReviewHandler(stub)

			c, _ := newJSONContext(http.MethodPost, "/books/x/reviews", tt.body)
			withIdentity(c, "u1")
			_ = handler.Create(c)

			if got.Rating.State != tt.wantRating || got.Comment.State != tt.wantComment {
				t.Fatalf("states = (%d, %d), want (%d, %d)", got.Rating.State, got.Comment.State, tt.wantRating, tt.wantComment)
			}
		})
	}
}

func TestReviewHandler_Create_BrokenBody(t *testing.T) {
	stub := &stubReviewService{
		createFn: func(ctx context.Context, in ports.CreateReviewInput) (*domain.Review, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewReviewHandler(stub)

	c, _ := newJSONContext(http.MethodPost, "/books/x/reviews", `{"rating":`)
	withIdentity(c, "u1")

	if err := handler.Create(c); !errors.Is(err, domain.ErrInvalidPayload) {
		t.Fatalf("expected ErrInvalidPayload, got %v", err)
	}
}

func TestReviewHandler_Update_BrokenBodyDeferredToService(t *testing.T) {
	var got ports.UpdateReviewInput
	stub := &stubReviewService{
		updateFn: func(ctx context.Context, in ports.UpdateReviewInput) (*domain.Review, error) {
			got = in
			return nil, domain.ErrForbidden
		},
	}
	handler := NewReviewHandler(stub)

	c, _ := newJSONContext(http.MethodPut, "/reviews/"+reviewID, `{not json`)
	c.SetParamNames("id")
	c.SetParamValues(reviewID)
	withIdentity(c, "u2")

	if err := handler.Update(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if !got.MalformedBody || got.ReviewID != reviewID || got.UserID != "u2" {
		t.Fatalf("unexpected input: %+v", got)
	}
}

func TestReviewHandler_Update_Success(t *testing.T) {
	stub := &stubReviewService{
		updateFn: func(ctx context.Context, in ports.UpdateReviewInput) (*domain.Review, error) {
			if in.MalformedBody || in.Rating.State != ports.FieldAbsent || in.Comment.Value != "" || in.Comment.State != ports.FieldSet {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.Review{ID: in.ReviewID, UserID: in.UserID, Rating: 4}, nil
		},
	}
	handler := NewReviewHandler(stub)

	c, rec := newJSONContext(http.MethodPut, "/reviews/"+reviewID, `{"comment":""}`)
	c.SetParamNames("id")
	c.SetParamValues(reviewID)
	withIdentity(c, "u1")

	if err := handler.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if msg := decodeBody(t, rec)["message"]; msg != "Review updated successfully" {
		t.Fatalf("unexpected message: %v", msg)
	}
}

func TestReviewHandler_Update_EmptyBody(t *testing.T) {
	stub := &stubReviewService{
		updateFn: func(ctx context.Context, in ports.UpdateReviewInput) (*domain.Review, error) {
			if in.MalformedBody || in.Rating.State != ports.FieldAbsent || in.Comment.State != ports.FieldAbsent {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.Review{ID: in.ReviewID}, nil
		},
	}
	handler := NewReviewHandler(stub)

	c, _ := newJSONContext(http.MethodPut, "/reviews/"+reviewID, "")
	c.SetParamNames("id")
	c.SetParamValues(reviewID)
	withIdentity(c, "u1")

	if err := handler.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestReviewHandler_Delete(t *testing.T) {
	stub := &stubReviewService{
		deleteFn: func(ctx context.Context, id, userID string) error {
			if id != reviewID || userID != "u1" {
				t.Fatalf("unexpected args: %s %s", id, userID)
			}
			return nil
		},
	}
	handler := NewReviewHandler(stub)

	c, rec := newJSONContext(http.MethodDelete, "/reviews/"+reviewID, "")
	c.SetParamNames("id")
	c.SetParamValues(reviewID)
	withIdentity(c, "u1")

	if err := handler.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	resp := decodeBody(t, rec)
	if resp["message"] != "Review deleted successfully" {
		t.Fatalf("unexpected message: %v", resp["message"])
	}
	if data, ok := resp["data"].(map[string]any); !ok || len(data) != 0 {
		t.Fatalf("expected empty data object, got %+v", resp["data"])
	}
}

func TestReviewHandler_Delete_NotFound(t *testing.T) {
	stub := &stubReviewService{
		deleteFn: func(ctx context.Context, id, userID string) error {
			return domain.ErrReviewNotFound
		},
	}
	handler := NewReviewHandler(stub)

	c, _ := newJSONContext(http.MethodDelete, "/reviews/"+reviewID, "")
	withIdentity(c, "u1")

	if err := handler.Delete(c); !errors.Is(err, domain.ErrReviewNotFound) {
		t.Fatalf("expected ErrReviewNotFound, got %v", err)
	}
}
