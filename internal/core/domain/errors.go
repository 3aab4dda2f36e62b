package domain

import "errors"

// ErrorKind classifies an expected domain failure. The transport layer maps
// each kind to exactly one HTTP status.
type ErrorKind int

const (
	KindValidation ErrorKind = iota + 1
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindConflict
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// Error is an expected failure carrying a stable machine-readable code.
// Sentinels below are compared by identity with errors.Is.
type Error struct {
	Kind    ErrorKind
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(kind ErrorKind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// CodeServerError is reported for every failure that is not a *Error.
const CodeServerError = "SERVER_ERROR"

// CodeOf returns the stable code carried by err, or CodeServerError.
func CodeOf(err error) string {
	var derr *Error
	if errors.As(err, &derr) {
		return derr.Code
	}
	return CodeServerError
}

// Identity lifecycle.
var (
	ErrNameRequired       = newError(KindValidation, "NAME_REQUIRED", "Name is required")
	ErrEmailRequired      = newError(KindValidation, "EMAIL_REQUIRED", "Email is required")
	ErrPasswordRequired   = newError(KindValidation, "PASSWORD_REQUIRED", "Password is required")
	ErrInvalidName        = newError(KindValidation, "INVALID_NAME", "Name must be at least 2 characters long and should not exceed 100 characters.")
	ErrInvalidEmail       = newError(KindValidation, "INVALID_EMAIL", "Please provide a valid email address.")
	ErrInvalidPassword    = newError(KindValidation, "INVALID_PASSWORD", "Password must be at least 8 characters long and should not exceed 50 characters.")
	ErrUserExists         = newError(KindConflict, "EMAIL_ALREADY_EXISTS", "A user with the provided email already exists")
	ErrUserNotFound       = newError(KindNotFound, "USER_NOT_FOUND", "User does not exist")
	ErrInvalidCredentials = newError(KindUnauthenticated, "INVALID_PASSWORD", "Password does not match")
)

// Authentication gate.
var (
	ErrUnauthenticated = newError(KindUnauthenticated, "UNAUTHENTICATED", "Authorization token missing or malformed")
	ErrInvalidToken    = newError(KindForbidden, "INVALID_TOKEN", "Token is invalid or expired")
	ErrTokenUserGone   = newError(KindNotFound, "USER_NOT_FOUND", "User associated with this token was not found")
)

// Book catalog.
var (
	ErrTitleRequired         = newError(KindValidation, "TITLE_REQUIRED", "Title is required")
	ErrAuthorRequired        = newError(KindValidation, "AUTHOR_REQUIRED", "Author is required")
	ErrGenreRequired         = newError(KindValidation, "GENRE_REQUIRED", "Genre is required")
	ErrPublishedYearRequired = newError(KindValidation, "PUBLISHED_YEAR_REQUIRED", "Published year is required")
	ErrInvalidTitle          = newError(KindValidation, "INVALID_TITLE", "Title must be between 1 and 200 characters")
	ErrInvalidAuthor         = newError(KindValidation, "INVALID_AUTHOR", "Author name must be between 1 and 100 characters")
	ErrInvalidGenre          = newError(KindValidation, "INVALID_GENRE", "Genre must be a valid category")
	ErrInvalidPublishedYear  = newError(KindValidation, "INVALID_PUBLISHED_YEAR", "Published year must be between 0 and the current year")
	ErrBookExists            = newError(KindConflict, "BOOK_ALREADY_EXISTS", "Book is already added")
	ErrInvalidBookID         = newError(KindValidation, "INVALID_BOOK_ID", "Invalid book ID")
	ErrBookNotFound          = newError(KindNotFound, "BOOK_NOT_FOUND", "The requested book was not found in the system.")
	ErrEmptyQuery            = newError(KindValidation, "INVALID_QUERY", "Search query cannot be empty")
	ErrInvalidPagination     = newError(KindValidation, "INVALID_PAGINATION", "page and limit must be integers")
)

// Review ledger.
var (
	ErrInvalidRating   = newError(KindValidation, "INVALID_RATING", "Rating must be a number between 1 and 5 with at most one decimal place")
	ErrInvalidComment  = newError(KindValidation, "INVALID_COMMENT", "Review text cannot exceed 1000 characters")
	ErrInvalidReviewID = newError(KindValidation, "INVALID_REVIEW_ID", "Invalid review ID")
	ErrReviewNotFound  = newError(KindNotFound, "REVIEW_NOT_FOUND", "Review not found")
	ErrReviewExists    = newError(KindConflict, "REVIEW_ALREADY_EXISTS", "You have already reviewed this book")
	ErrForbidden       = newError(KindForbidden, "FORBIDDEN", "You can only modify your own review")
	ErrInvalidPayload  = newError(KindValidation, "INVALID_PAYLOAD", "Request body is not valid JSON")
)
