package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/bookreview/catalog-service/internal/api/middleware"
	"github.com/bookreview/catalog-service/internal/core/domain"
	"github.com/bookreview/catalog-service/internal/core/ports"
)

// ctxIdentity returns the caller identity attached by the Auth middleware.
// A protected route reached without one is treated as unauthenticated.
func ctxIdentity(c echo.Context) (*ports.Identity, error) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return nil, domain.ErrUnauthenticated
	}
	return identity, nil
}

// ctxPaging reads the optional page and limit query parameters. Missing
// values are left at zero for the service to default; non-integer values
// are rejected.
func ctxPaging(c echo.Context) (page, limit int, err error) {
	err = echo.QueryParamsBinder(c).
		Int("page", &page).
		Int("limit", &limit).
		BindError()
	if err != nil {
		return 0, 0, domain.ErrInvalidPagination
	}
	return page, limit, nil
}
