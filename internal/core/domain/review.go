package domain

import (
	"math"
	"time"
)

// Rating bounds and precision.
const (
	MinRating        = 1.0
	MaxRating        = 5.0
	CommentMaxLen    = 1000
	ratingTolerance  = 1e-9
	ratingDecimalDiv = 10
)

// IsValidRating reports whether r lies in [1,5] and has at most one
// fractional decimal digit.
func IsValidRating(r float64) bool {
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return false
	}
	if r < MinRating || r > MaxRating {
		return false
	}
	scaled := r * ratingDecimalDiv
	return math.Abs(scaled-math.Round(scaled)) < ratingTolerance
}

// RoundMean rounds a mean rating half away from zero to two decimals.
func RoundMean(avg float64) float64 {
	return math.Round(avg*100) / 100
}

// Review is one user's rating of one book. At most one exists per
// (BookID, UserID) pair.
type Review struct {
	ID        string    `json:"id"`
	BookID    string    `json:"bookId"`
	UserID    string    `json:"userId"`
	Rating    float64   `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ReviewAuthor is the public projection of a review's author.
type ReviewAuthor struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ReviewDetail is a review annotated with its author for listings.
type ReviewDetail struct {
	Review
	User *ReviewAuthor `json:"user"`
}
