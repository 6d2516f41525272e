package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"homeservice.backend/internal/domain/entities"
	domainerrors "homeservice.backend/internal/domain/errors"
	"homeservice.backend/internal/interfaces/http/middleware"
	"homeservice.backend/internal/interfaces/http/response"
	"homeservice.backend/internal/usecases"
	"homeservice.backend/pkg/logger"
	"homeservice.backend/pkg/redis"
)

const (
	accessCookie  = "token"
	refreshCookie = "refresh_token"
)

// SessionStore keeps server-side sessions for clients that log in with useSession
type SessionStore interface {
	CreateSession(ctx context.Context, sessionID string, data *redis.SessionData, expiration time.Duration) error
	DeleteSession(ctx context.Context, sessionID string) error
}

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authUsecase *usecases.AuthUsecase
	sessions    SessionStore
	sessionTTL  time.Duration
	secure      bool
}

// NewAuthHandler creates a new auth handler. Sessions and cookies live for sessionTTL.
func NewAuthHandler(authUsecase *usecases.AuthUsecase, sessions SessionStore, sessionTTL time.Duration, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		sessions:    sessions,
		sessionTTL:  sessionTTL,
		secure:      secureCookies,
	}
}

// SendCode issues a verification code by SMS
// POST /api/v1/auth/send-code
func (h *AuthHandler) SendCode(c *gin.Context) {
	var input entities.SendCodeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, bindError(err))
		return
	}

	if err := h.authUsecase.SendCode(c.Request.Context(), input.Phone); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": "Verification code sent",
	})
}

// CheckPhone reports whether a phone number is registered
// GET /api/v1/auth/check-phone?phone=
func (h *AuthHandler) CheckPhone(c *gin.Context) {
	exists, err := h.authUsecase.CheckPhoneExists(c.Request.Context(), c.Query("phone"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"exists": exists})
}

// Login handles password and code login, registering first-time code users
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var input entities.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, bindError(err))
		return
	}

	authResponse, err := h.authUsecase.Login(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	status := http.StatusOK
	if authResponse.Registered {
		status = http.StatusCreated
	}

	if input.UseSession && h.sessions != nil {
		sessionID := uuid.NewString()
		err := h.sessions.CreateSession(c.Request.Context(), sessionID, &redis.SessionData{
			UserID:       authResponse.User.ID.String(),
			Role:         string(authResponse.User.Role),
			AccessToken:  authResponse.AccessToken,
			RefreshToken: authResponse.RefreshToken,
		}, h.sessionTTL)
		if err != nil {
			response.Error(c, err)
			return
		}

		response.Success(c, status, &entities.AuthResponse{
			SessionID:  sessionID,
			User:       authResponse.User,
			Registered: authResponse.Registered,
		})
		return
	}

	h.setTokenCookies(c, authResponse.AccessToken, authResponse.RefreshToken)
	response.Success(c, status, authResponse)
}

// ResetPassword replaces the password after verifying a code
// POST /api/v1/auth/password-reset
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var input entities.PasswordResetInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, bindError(err))
		return
	}

	if err := h.authUsecase.ResetPassword(c.Request.Context(), input.Phone, input.Code, input.NewPassword); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": "Password updated",
	})
}

// RefreshToken handles token refresh
// POST /api/v1/auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var refreshToken string

	if c.Request.ContentLength > 0 {
		var input struct {
			RefreshToken string `json:"refreshToken"`
		}
		if err := c.ShouldBindJSON(&input); err == nil {
			refreshToken = input.RefreshToken
		}
	}

	if refreshToken == "" {
		if cookie, err := c.Cookie(refreshCookie); err == nil {
			refreshToken = cookie
		}
	}

	if refreshToken == "" {
		response.Error(c, domainerrors.BadRequest("Refresh token is required"))
		return
	}

	tokenPair, err := h.authUsecase.RefreshToken(c.Request.Context(), refreshToken)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.setTokenCookies(c, tokenPair.AccessToken, tokenPair.RefreshToken)
	response.Success(c, http.StatusOK, tokenPair)
}

// Logout drops the server-side session, if any, and clears auth cookies
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if sessionID := middleware.GetSessionID(c); sessionID != "" && h.sessions != nil {
		if err := h.sessions.DeleteSession(c.Request.Context(), sessionID); err != nil {
			logger.Warn(c.Request.Context(), "Failed to delete session", zap.Error(err))
		}
	}

	c.SetCookie(accessCookie, "", -1, "/", "", h.secure, true)
	c.SetCookie(refreshCookie, "", -1, "/", "", h.secure, true)
	response.Success(c, http.StatusOK, gin.H{
		"message": "Logged out",
	})
}

// GetMe returns the current user and, for customers, their profile
// GET /api/v1/auth/me
func (h *AuthHandler) GetMe(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Unauthorized"))
		return
	}

	user, err := h.authUsecase.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			response.Error(c, domainerrors.ErrUserNotFound)
			return
		}
		response.Error(c, err)
		return
	}

	body := gin.H{"user": user}
	profile, err := h.authUsecase.GetProfile(c.Request.Context(), userID)
	switch {
	case err == nil:
		body["profile"] = profile
	case !errors.Is(err, domainerrors.ErrNotFound):
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, body)
}

func (h *AuthHandler) setTokenCookies(c *gin.Context, access, refresh string) {
	maxAge := int(h.sessionTTL.Seconds())
	c.SetCookie(accessCookie, access, maxAge, "/", "", h.secure, true)
	c.SetCookie(refreshCookie, refresh, maxAge, "/", "", h.secure, true)
}
