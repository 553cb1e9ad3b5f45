package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/SscSPs/auth_session_service/internal/apperrors"
	"github.com/gin-gonic/gin"
)

// AccessTokenVerifier resolves a bearer access token to its subject user id.
type AccessTokenVerifier interface {
	VerifyAccessToken(ctx context.Context, accessToken string) (string, error)
}

// AuthMiddleware creates a Gin middleware handler that requires a valid access token.
// Refresh tokens are rejected.
func AuthMiddleware(verifier AccessTokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Warn("Authorization header missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, apperrors.NewUnauthorizedError("Authorization header required"))
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			logger.Warn("Authorization header format invalid")
			c.AbortWithStatusJSON(http.StatusUnauthorized, apperrors.NewUnauthorizedError("Authorization header format must be Bearer {token}"))
			return
		}

		userID, err := verifier.VerifyAccessToken(c.Request.Context(), parts[1])
		if err != nil {
			msg := "Invalid token"
			if errors.Is(err, apperrors.ErrTokenExpired) {
				msg = "Token has expired"
			}
			logger.Warn("Access token rejected", slog.String("reason", err.Error()))
			c.AbortWithStatusJSON(http.StatusUnauthorized, apperrors.NewUnauthorizedError(msg))
			return
		}

		enrichedLogger := logger.With(slog.String("user_id", userID))
		ctx := WithLogger(WithUserID(c.Request.Context(), userID), enrichedLogger)
		c.Request = c.Request.WithContext(ctx)
		c.Set(string(userIDKey), userID)
		c.Set(string(loggerKey), enrichedLogger)

		c.Next()
	}
}
