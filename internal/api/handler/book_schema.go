package handler

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/bookreview/catalog-service/internal/core/domain"
)

// createBookRequest keeps every field optional so that absence and
// malformed values can be told apart from zero values.
type createBookRequest struct {
	Title         *string      `json:"title"`
	Author        *string      `json:"author"`
	Genre         *string      `json:"genre"`
	PublishedYear yearField `json:"publishedYear"`
}

// yearField records whether publishedYear was sent and whether it holds an
// integral number. It never fails decoding so that a bad year is reported
// in field order rather than as a broken body.
type yearField struct {
	Set       bool
	Malformed bool
	Value     int
}

func (f *yearField) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	f.Set = true

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		f.Malformed = true
		return nil
	}
	if v, err := strconv.Atoi(n.String()); err == nil {
		f.Value = v
		return nil
	}
	v, err := n.Float64()
	if err != nil || v != float64(int(v)) {
		f.Malformed = true
		return nil
	}
	f.Value = int(v)
	return nil
}

type bookListResponse struct {
	Success    bool           `json:"success"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	PageSize   int64          `json:"pageSize"`
	TotalPages int64          `json:"totalPages"`
	Data       []*domain.Book `json:"data"`
}

type reviewPageSchema struct {
	Total      int64                  `json:"total"`
	Page       int                    `json:"page"`
	PageSize   int64                  `json:"pageSize"`
	TotalPages int64                  `json:"totalPages"`
	Data       []*domain.ReviewDetail `json:"data"`
}

type bookDetailSchema struct {
	Book          *domain.Book     `json:"book"`
	AverageRating *float64         `json:"averageRating"`
	Reviews       reviewPageSchema `json:"reviews"`
}

type bookSearchSchema struct {
	Books       []*domain.Book `json:"books"`
	Total       int64          `json:"total"`
	CurrentPage int            `json:"currentPage"`
	PageSize    int64          `json:"pageSize"`
	TotalPages  int64          `json:"totalPages"`
}
