package domain

import (
	"regexp"
	"time"
)

// Genre is one of the fixed catalog categories.
type Genre string

const (
	GenreFiction        Genre = "Fiction"
	GenreNonFiction     Genre = "Non-Fiction"
	GenreScienceFiction Genre = "Science Fiction"
	GenreFantasy        Genre = "Fantasy"
	GenreMystery        Genre = "Mystery"
	GenreBiography      Genre = "Biography"
	GenreRomance        Genre = "Romance"
	GenreHorror         Genre = "Horror"
	GenreOther          Genre = "Other"
)

// Genres lists every accepted genre in display order.
var Genres = []Genre{
	GenreFiction,
	GenreNonFiction,
	GenreScienceFiction,
	GenreFantasy,
	GenreMystery,
	GenreBiography,
	GenreRomance,
	GenreHorror,
	GenreOther,
}

// IsValid reports whether g is part of the enumeration. Matching is exact.
func (g Genre) IsValid() bool {
	for _, known := range Genres {
		if g == known {
			return true
		}
	}
	return false
}

// Field bounds for books.
const (
	TitleMaxLen  = 200
	AuthorMaxLen = 100
)

// Book is a catalog entry. Books are immutable once created.
type Book struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	Genre         Genre     `json:"genre"`
	PublishedYear int       `json:"publishedYear"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

var idPattern = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

// IsValidID reports whether id has the shape of a store identifier
// (24 hexadecimal characters).
func IsValidID(id string) bool {
	return idPattern.MatchString(id)
}
