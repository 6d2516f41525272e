package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"homeservice.backend/internal/domain/entities"
	domainerrors "homeservice.backend/internal/domain/errors"
	"homeservice.backend/internal/interfaces/http/response"
	"homeservice.backend/pkg/jwt"
	"homeservice.backend/pkg/logger"
	"homeservice.backend/pkg/redis"
)

const (
	// AuthorizationHeader is the header key for authorization
	AuthorizationHeader = "Authorization"
	// BearerPrefix is the prefix for bearer tokens
	BearerPrefix = "Bearer "
	// SessionIDHeader carries a server-side session id issued by login with useSession
	SessionIDHeader = "X-Session-ID"
	// UserIDKey is the context key for user ID
	UserIDKey = "userId"
	// UserRoleKey is the context key for user role
	UserRoleKey = "userRole"
	// SessionIDKey is the context key for the resolved session id, if any
	SessionIDKey = "sessionId"
)

// SessionReader resolves a session id into its stored token pair
type SessionReader interface {
	GetSession(ctx context.Context, sessionID string) (*redis.SessionData, error)
}

// AuthMiddleware accepts either an access token in the Authorization header or a
// session id whose stored access token is then validated.
func AuthMiddleware(jwtService *jwt.JWTService, sessions SessionReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, sessionID, err := resolveToken(c, sessions)
		if err != nil {
			logger.Warn(c.Request.Context(), "Authentication failed",
				zap.String("path", c.Request.URL.Path),
				zap.Error(err),
			)
			response.Abort(c, domainerrors.Unauthorized(err.Error()))
			return
		}

		claims, err := jwtService.ValidateKind(tokenString, jwt.KindAccess)
		if err != nil {
			message := "Invalid token"
			if errors.Is(err, jwt.ErrExpiredToken) {
				message = "Token has expired"
			}
			response.Abort(c, domainerrors.Unauthorized(message))
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(UserRoleKey, claims.Role)
		if sessionID != "" {
			c.Set(SessionIDKey, sessionID)
		}
		ctx := context.WithValue(c.Request.Context(), logger.UserIDKey, claims.UserID.String())
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func resolveToken(c *gin.Context, sessions SessionReader) (token, sessionID string, err error) {
	if sessionID = c.GetHeader(SessionIDHeader); sessionID != "" && sessions != nil {
		session, err := sessions.GetSession(c.Request.Context(), sessionID)
		if err != nil {
			if errors.Is(err, redis.ErrSessionNotFound) {
				return "", "", errors.New("session expired or unknown")
			}
			return "", "", errors.New("session lookup failed")
		}
		return session.AccessToken, sessionID, nil
	}

	authHeader := c.GetHeader(AuthorizationHeader)
	if authHeader == "" {
		return "", "", errors.New("authorization header is required")
	}
	if !strings.HasPrefix(authHeader, BearerPrefix) {
		return "", "", errors.New("invalid authorization format, use: Bearer <token>")
	}
	return strings.TrimPrefix(authHeader, BearerPrefix), "", nil
}

// GetUserID gets the user ID from context
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := userID.(uuid.UUID)
	return id, ok
}

// GetUserRole gets the user role from context
func GetUserRole(c *gin.Context) (entities.UserRole, bool) {
	role, exists := c.Get(UserRoleKey)
	if !exists {
		return "", false
	}
	s, ok := role.(string)
	return entities.UserRole(s), ok
}

// GetSessionID returns the session id the request authenticated with
func GetSessionID(c *gin.Context) string {
	return c.GetString(SessionIDKey)
}

// RequireRole creates a middleware that requires one of roles
func RequireRole(roles ...entities.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, exists := GetUserRole(c)
		if !exists {
			response.Abort(c, domainerrors.Unauthorized("User role not found"))
			return
		}

		for _, role := range roles {
			if userRole == role {
				c.Next()
				return
			}
		}

		response.Abort(c, domainerrors.Forbidden("Insufficient permissions"))
	}
}

// RequireAdmin creates a middleware that requires admin role
func RequireAdmin() gin.HandlerFunc {
	return RequireRole(entities.UserRoleAdmin)
}
