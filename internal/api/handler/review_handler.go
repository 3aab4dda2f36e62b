package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bookreview/catalog-service/internal/api/metrics"
	"github.com/bookreview/catalog-service/internal/core/domain"
	"github.com/bookreview/catalog-service/internal/core/ports"
)

type ReviewHandler struct {
	reviewService ports.ReviewService
}

func NewReviewHandler(reviewService ports.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// Create submits the caller's review of a book.
//
// @Summary      Review a book
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string         true  "Book ID"
// @Param        body  body      reviewRequest  true  "Rating and comment"
// @Success      201   {object}  successResponse
// @Failure      400   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Failure      409   {object}  map[string]any
// @Router       /books/{id}/reviews [post]
func (h *ReviewHandler) Create(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req reviewRequest
	if err := c.Bind(&req); err != nil {
		return domain.ErrInvalidPayload
	}

	review, err := h.reviewService.Create(c.Request().Context(), ports.CreateReviewInput{
		BookID:  c.Param("id"),
		UserID:  identity.User.ID,
		Rating:  ports.RatingField(req.Rating),
		Comment: ports.CommentField(req.Comment),
	})
	if err != nil {
		return err
	}

	metrics.ReviewsTotal.WithLabelValues(metrics.ActionCreated).Inc()
	return c.JSON(http.StatusCreated, ok("Review submitted successfully", review))
}

// Update edits the caller's own review.
//
// @Summary      Update a review
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string         true  "Review ID"
// @Param        body  body      reviewRequest  true  "Fields to change"
// @Success      200   {object}  successResponse
// @Failure      400   {object}  map[string]any
// @Failure      403   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Router       /reviews/{id} [put]
func (h *ReviewHandler) Update(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	// A broken body is only reported once ownership has been checked.
	var req reviewRequest
	malformed := c.Bind(&req) != nil

	review, err := h.reviewService.Update(c.Request().Context(), ports.UpdateReviewInput{
		ReviewID:      c.Param("id"),
		UserID:        identity.User.ID,
		Rating:        ports.RatingField(req.Rating),
		Comment:       ports.CommentField(req.Comment),
		MalformedBody: malformed,
	})
	if err != nil {
		return err
	}

	metrics.ReviewsTotal.WithLabelValues(metrics.ActionUpdated).Inc()
	return c.JSON(http.StatusOK, ok("Review updated successfully", review))
}

// Delete removes the caller's own review.
//
// @Summary      Delete a review
// @Tags         reviews
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Review ID"
// @Success      200  {object}  successResponse
// @Failure      400  {object}  map[string]any
// @Failure      403  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /reviews/{id} [delete]
func (h *ReviewHandler) Delete(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.reviewService.Delete(c.Request().Context(), c.Param("id"), identity.User.ID); err != nil {
		return err
	}

	metrics.ReviewsTotal.WithLabelValues(metrics.ActionDeleted).Inc()
	return c.JSON(http.StatusOK, ok("Review deleted successfully", nil))
}
