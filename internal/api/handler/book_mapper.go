package handler

import (
	"github.com/bookreview/catalog-service/internal/core/domain"
	"github.com/bookreview/catalog-service/internal/core/ports"
)

func toCreateBookInput(req createBookRequest) ports.CreateBookInput {
	in := ports.CreateBookInput{
		Title:  req.Title,
		Author: req.Author,
		Genre:  req.Genre,
	}
	switch {
	case req.PublishedYear.Malformed:
		in.PublishedYearMalformed = true
	case req.PublishedYear.Set:
		year := req.PublishedYear.Value
		in.PublishedYear = &year
	}
	return in
}

func toBookListResponse(p *ports.BookPage) bookListResponse {
	return bookListResponse{
		Success:    true,
		Total:      p.Total,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: p.TotalPages,
		Data:       nonNilBooks(p.Books),
	}
}

func toBookDetailSchema(d *ports.BookDetail) bookDetailSchema {
	reviews := d.Reviews.Reviews
	if reviews == nil {
		reviews = []*domain.ReviewDetail{}
	}
	return bookDetailSchema{
		Book:          d.Book,
		AverageRating: d.AverageRating,
		Reviews: reviewPageSchema{
			Total:      d.Reviews.Total,
			Page:       d.Reviews.Page,
			PageSize:   d.Reviews.PageSize,
			TotalPages: d.Reviews.TotalPages,
			Data:       reviews,
		},
	}
}

func toBookSearchSchema(p *ports.BookPage) bookSearchSchema {
	return bookSearchSchema{
		Books:       nonNilBooks(p.Books),
		Total:       p.Total,
		CurrentPage: p.Page,
		PageSize:    p.PageSize,
		TotalPages:  p.TotalPages,
	}
}

func nonNilBooks(books []*domain.Book) []*domain.Book {
	if books == nil {
		return []*domain.Book{}
	}
	return books
}
