package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/eventify/eventify-go/internal/app/models"
)

const (
	accessCookieName  = "auth_token"
	refreshCookieName = "refresh_token"
)

type AuthHandlers struct {
	authService AuthService
	sessions    *SessionContext
	logger      *zap.Logger
	// cookieMaxAge is the auth_token cookie lifetime in seconds.
	cookieMaxAge int
}

func NewAuthHandlers(authService AuthService, sessions *SessionContext, cookieMaxAge int, logger *zap.Logger) *AuthHandlers {
	return &AuthHandlers{
		authService:  authService,
		sessions:     sessions,
		logger:       logger,
		cookieMaxAge: cookieMaxAge,
	}
}

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandlers) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username, email and password are required"})
		return
	}

	userID, err := h.authService.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, models.ErrConflict):
			c.JSON(http.StatusConflict, gin.H{"error": "email or username already exists"})
		default:
			h.logger.Error("Registration failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user_id": userID})
}

func (h *AuthHandlers) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	accessToken, refreshToken, err := h.sessions.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, models.ErrUnauthenticated) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		h.logger.Error("Login failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	h.setSessionCookies(c, accessToken, refreshToken)
	c.JSON(http.StatusOK, gin.H{"access_token": accessToken})
}

func (h *AuthHandlers) Logout(c *gin.Context) {
	refreshToken, _ := c.Cookie(refreshCookieName)

	if err := h.sessions.SignOut(c.Request.Context(), refreshToken); err != nil {
		h.logger.Warn("Logout completed with error", zap.Error(err))
	}

	h.clearSessionCookies(c)
	c.JSON(http.StatusOK, gin.H{"status": "signed out"})
}

func (h *AuthHandlers) Refresh(c *gin.Context) {
	refreshToken, err := c.Cookie(refreshCookieName)
	if err != nil || refreshToken == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing refresh token"})
		return
	}

	accessToken, newRefreshToken, err := h.authService.RefreshSession(c.Request.Context(), refreshToken)
	if err != nil {
		h.clearSessionCookies(c)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired refresh token"})
		return
	}

	h.setSessionCookies(c, accessToken, newRefreshToken)
	c.JSON(http.StatusOK, gin.H{"access_token": accessToken})
}

// Me returns the authenticated user from the validated token context.
func (h *AuthHandlers) Me(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	user, err := h.authService.GetUserByID(c.Request.Context(), userID.(string))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}
		h.logger.Error("Failed to load current user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load user"})
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *AuthHandlers) setSessionCookies(c *gin.Context, accessToken, refreshToken string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(accessCookieName, accessToken, h.cookieMaxAge, "/", "", false, true)
	c.SetCookie(refreshCookieName, refreshToken, h.cookieMaxAge*30, "/", "", false, true)
}

func (h *AuthHandlers) clearSessionCookies(c *gin.Context) {
	c.SetCookie(accessCookieName, "", -1, "/", "", false, true)
	c.SetCookie(refreshCookieName, "", -1, "/", "", false, true)
}
