package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bookreview/catalog-service/internal/api/metrics"
	"github.com/bookreview/catalog-service/internal/core/domain"
	"github.com/bookreview/catalog-service/internal/core/ports"
)

type BookHandler struct {
	bookService ports.BookService
}

func NewBookHandler(bookService ports.BookService) *BookHandler {
	return &BookHandler{bookService: bookService}
}

// Create adds a book to the catalog.
//
// @Summary      Add a book
// @Tags         books
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createBookRequest  true  "Book"
// @Success      201   {object}  successResponse
// @Failure      400   {object}  map[string]any
// @Failure      409   {object}  map[string]any
// @Router       /books [post]
func (h *BookHandler) Create(c echo.Context) error {
	if _, err := ctxIdentity(c); err != nil {
		return err
	}

	var req createBookRequest
	if err := c.Bind(&req); err != nil {
		return domain.ErrInvalidPayload
	}

	book, err := h.bookService.Create(c.Request().Context(), toCreateBookInput(req))
	if err != nil {
		return err
	}

	metrics.BooksCreatedTotal.WithLabelValues(string(book.Genre)).Inc()
	return c.JSON(http.StatusCreated, ok("Book added successfully", book))
}

// List returns a page of books, optionally filtered by author and genre.
//
// @Summary      List books
// @Tags         books
// @Produce      json
// @Param        author  query     string  false  "Author substring"
// @Param        genre   query     string  false  "Genre"
// @Param        page    query     int     false  "Page"
// @Param        limit   query     int     false  "Page size"
// @Success      200     {object}  bookListResponse
// @Router       /books [get]
func (h *BookHandler) List(c echo.Context) error {
	page, limit, err := ctxPaging(c)
	if err != nil {
		return err
	}

	result, err := h.bookService.List(c.Request().Context(), ports.ListBooksInput{
		Author: c.QueryParam("author"),
		Genre:  c.QueryParam("genre"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toBookListResponse(result))
}

// Get returns a book with its mean rating and a page of reviews.
//
// @Summary      Get book
// @Tags         books
// @Produce      json
// @Param        id     path      string  true   "Book ID"
// @Param        page   query     int     false  "Review page"
// @Param        limit  query     int     false  "Review page size"
// @Success      200    {object}  successResponse
// @Failure      400    {object}  map[string]any
// @Failure      404    {object}  map[string]any
// @Router       /books/{id} [get]
func (h *BookHandler) Get(c echo.Context) error {
	page, limit, err := ctxPaging(c)
	if err != nil {
		return err
	}

	detail, err := h.bookService.Get(c.Request().Context(), c.Param("id"), page, limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, ok("", toBookDetailSchema(detail)))
}

// Search matches books by title or author.
//
// @Summary      Search books
// @Tags         books
// @Produce      json
// @Param        query  query     string  true   "Search term"
// @Param        page   query     int     false  "Page"
// @Param        limit  query     int     false  "Page size"
// @Success      200    {object}  successResponse
// @Failure      400    {object}  map[string]any
// @Router       /search [get]
func (h *BookHandler) Search(c echo.Context) error {
	page, limit, err := ctxPaging(c)
	if err != nil {
		return err
	}

	result, err := h.bookService.Search(c.Request().Context(), ports.SearchBooksInput{
		Query: c.QueryParam("query"),
		Page:  page,
		Limit: limit,
	})
	if err != nil {
		return err
	}

	message := fmt.Sprintf("Found %d book(s) matching your search", result.Total)
	return c.JSON(http.StatusOK, ok(message, toBookSearchSchema(result)))
}
