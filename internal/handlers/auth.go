package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sceu/clinic/internal/auth"
	"github.com/sceu/clinic/internal/config"
	"github.com/sceu/clinic/internal/middleware"
	"github.com/sceu/clinic/internal/models"
	apperrors "github.com/sceu/clinic/pkg/errors"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	auth *auth.Auth
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *auth.Auth) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func setSessionCookie(c *gin.Context, token string, maxAge int) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     "session_token",
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   config.GetCookieSecure(),
	})
}

// Register handles user registration. Only admins may create accounts; the
// first account is created with the CLI.
func (h *AuthHandler) Register(c *gin.Context) {
	user, ok := middleware.RequireAuth(c)
	if !ok {
		return
	}
	if user.Role != models.RoleAdmin {
		writeError(c, apperrors.Forbidden("forbidden"))
		return
	}

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperrors.BadRequest("invalid request body"))
		return
	}

	if req.Email == "" || req.Password == "" || req.Name == "" {
		writeError(c, apperrors.BadRequest("email, password, and name are required"))
		return
	}
	if len(req.Password) < 8 {
		writeError(c, apperrors.BadRequest("password must be at least 8 characters"))
		return
	}
	if req.Role == "" {
		req.Role = models.RoleStaff
	}

	created, err := h.auth.RegisterUser(c.Request.Context(), req.Email, req.Password, req.Name, req.Role)
	if err != nil {
		writeError(c, apperrors.BadRequest(err.Error()))
		return
	}

	c.JSON(http.StatusCreated, created.ToResponse())
}

// Login handles user login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperrors.BadRequest("invalid request body"))
		return
	}

	if req.Email == "" || req.Password == "" {
		writeError(c, apperrors.BadRequest("email and password are required"))
		return
	}

	user, sessionToken, err := h.auth.LoginUser(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, apperrors.Unauthorized("invalid email or password"))
		return
	}

	setSessionCookie(c, sessionToken, int(auth.SessionDuration.Seconds()))
	c.JSON(http.StatusOK, user.ToResponse())
}

// Logout handles user logout
func (h *AuthHandler) Logout(c *gin.Context) {
	token := middleware.GetSessionTokenFromContext(c)
	if token != "" {
		h.auth.LogoutUser(c.Request.Context(), token)
	}

	setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Me returns the authenticated user
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := middleware.RequireAuth(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, user.ToResponse())
}
