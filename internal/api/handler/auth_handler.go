package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bookreview/catalog-service/internal/api/metrics"
	"github.com/bookreview/catalog-service/internal/core/domain"
	"github.com/bookreview/catalog-service/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signupData struct {
	UserID string `json:"userId"`
}

type loginData struct {
	Token string `json:"token"`
}

// Signup registers a new user.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "Name, email and password"
// @Success      201   {object}  successResponse
// @Failure      400   {object}  map[string]any
// @Failure      409   {object}  map[string]any
// @Router       /signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return domain.ErrInvalidPayload
	}

	user, err := h.authService.Signup(c.Request().Context(), ports.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	countAttempt("signup", err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, ok("User created successfully", signupData{UserID: user.ID}))
}

// Login exchanges credentials for a bearer token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      201   {object}  successResponse
// @Failure      400   {object}  map[string]any
// @Failure      401   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return domain.ErrInvalidPayload
	}

	token, err := h.authService.Login(c.Request().Context(), ports.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	countAttempt("login", err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, ok("User logged in successfully", loginData{Token: token}))
}

// Logout revokes the caller's token.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200   {object}  successResponse
// @Failure      401   {object}  map[string]any
// @Router       /logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	err = h.authService.Logout(c.Request().Context(), identity)
	countAttempt("logout", err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, ok("Logged out successfully", nil))
}

func countAttempt(operation string, err error) {
	result := "success"
	if err != nil {
		result = domain.CodeOf(err)
	}
	metrics.AuthAttemptsTotal.WithLabelValues(operation, result).Inc()
}
