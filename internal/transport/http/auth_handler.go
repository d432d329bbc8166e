package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/staylist/staylist-backend/internal/service"
	"github.com/staylist/staylist-backend/internal/util"
)

type AuthHandler struct {
	auth *service.AuthService
}

func RegisterAuth(e *echo.Echo, auth *service.AuthService) {
	handler := &AuthHandler{auth: auth}

	e.POST("/api/users", handler.register)
	e.POST("/api/session", handler.login)
	e.POST("/api/session/google", handler.loginWithGoogle)
	e.GET("/api/session", handler.restoreSession, RequireAuth(auth))
}

// register handles POST /api/users
func (h *AuthHandler) register(c echo.Context) error {
	var req struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Email     string `json:"email"`
		Password  string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("Invalid request body", http.StatusBadRequest))
	}

	result, err := h.auth.Register(c.Request().Context(), service.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		if verr, ok := service.AsValidationError(err); ok {
			return c.JSON(http.StatusBadRequest, util.ValidationFailed(http.StatusBadRequest, verr.Fields))
		}
		if errors.Is(err, service.ErrEmailTaken) {
			return c.JSON(http.StatusForbidden, util.Error("User with that email already exists", http.StatusForbidden))
		}
		return c.JSON(http.StatusInternalServerError, util.Error("Internal server error", http.StatusInternalServerError))
	}

	return c.JSON(http.StatusCreated, util.Envelope{"user": result.User, "token": result.Token})
}

// login handles POST /api/session
func (h *AuthHandler) login(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("Invalid request body", http.StatusBadRequest))
	}

	result, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, util.Error("Invalid credentials", http.StatusUnauthorized))
		}
		return c.JSON(http.StatusInternalServerError, util.Error("Internal server error", http.StatusInternalServerError))
	}

	return c.JSON(http.StatusOK, util.Envelope{"user": result.User, "token": result.Token})
}

// loginWithGoogle handles POST /api/session/google
func (h *AuthHandler) loginWithGoogle(c echo.Context) error {
	var req struct {
		IDToken string `json:"idToken"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("Invalid request body", http.StatusBadRequest))
	}

	result, err := h.auth.LoginWithGoogle(c.Request().Context(), req.IDToken)
	if err != nil {
		if errors.Is(err, service.ErrInvalidToken) {
			return c.JSON(http.StatusUnauthorized, util.Error("Invalid Google token", http.StatusUnauthorized))
		}
		return c.JSON(http.StatusInternalServerError, util.Error("Internal server error", http.StatusInternalServerError))
	}

	return c.JSON(http.StatusOK, util.Envelope{"user": result.User, "token": result.Token})
}

// restoreSession handles GET /api/session
func (h *AuthHandler) restoreSession(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, util.Error("Authentication required", http.StatusUnauthorized))
	}
	return c.JSON(http.StatusOK, util.Data("user", user))
}
