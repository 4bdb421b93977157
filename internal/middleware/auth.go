package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const roleKey = contextKey("role")

// RoleAdmin may run agency-wide operations such as the legacy migration.
const RoleAdmin = "admin"

// LedgerClaims are the claims the session service issues. Subject is the agency account ID.
type LedgerClaims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// AuthMiddleware creates a Gin middleware handler that validates JWT tokens.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Warn("Authorization header missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": "Authorization header required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			logger.Warn("Authorization header format invalid")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": "Authorization header format must be Bearer {token}"})
			return
		}

		claims := &LedgerClaims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(jwtSecret), nil
		})
		if err != nil {
			logger.Warn("Invalid token", "error", err)
			msg := "Invalid token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "Token has expired"
			} else if errors.Is(err, jwt.ErrTokenNotValidYet) {
				msg = "Token not valid yet"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": msg})
			return
		}

		if !token.Valid || claims.Subject == "" {
			logger.Warn("Invalid token claims or token is not valid")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": "Invalid token claims"})
			return
		}

		userID := claims.Subject
		ctx := context.WithValue(c.Request.Context(), userIDKey, userID)
		ctx = context.WithValue(ctx, roleKey, claims.Role)
		ctx = WithLogger(ctx, logger.With(slog.String("user_id", userID)))
		c.Request = c.Request.WithContext(ctx)
		c.Set(string(userIDKey), userID)

		c.Next()
	}
}

// RequireRole aborts with 403 unless the authenticated token carries role.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		got, _ := c.Request.Context().Value(roleKey).(string)
		if got != role {
			GetLoggerFromCtx(c.Request.Context()).Warn("Role required", slog.String("required_role", role), slog.String("role", got))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden", "message": "insufficient role"})
			return
		}
		c.Next()
	}
}
