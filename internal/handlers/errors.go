package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/auth_session_service/internal/apperrors"
	"github.com/SscSPs/auth_session_service/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ErrorResponse is the JSON body of every error response.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// toAppError maps service errors onto status codes and client-facing messages.
// Unrecognised errors become a 500 carrying fallback.
func toAppError(err error, fallback string) *apperrors.AppError {
	var appErr *apperrors.AppError
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, apperrors.ErrValidation):
		return apperrors.NewAppError(http.StatusBadRequest, err.Error(), err)
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return apperrors.NewAppError(http.StatusUnauthorized, "Invalid email or password", err)
	case errors.Is(err, apperrors.ErrEmailAlreadyExists):
		return apperrors.NewAppError(http.StatusConflict, "An account with this email already exists", err)
	case errors.Is(err, apperrors.ErrTokenExpired):
		return apperrors.NewAppError(http.StatusUnauthorized, "Token has expired", err)
	case errors.Is(err, apperrors.ErrTokenInvalid):
		return apperrors.NewAppError(http.StatusUnauthorized, "Invalid token", err)
	case errors.Is(err, apperrors.ErrUserNotFound):
		return apperrors.NewAppError(http.StatusUnauthorized, "User not found", err)
	case errors.Is(err, apperrors.ErrAlreadyLinkedToOtherAccount):
		return apperrors.NewAppError(http.StatusConflict, "This identity is already linked to another account", err)
	case errors.Is(err, apperrors.ErrProviderAlreadyLinked):
		return apperrors.NewAppError(http.StatusConflict, "Another identity from this provider is already linked", err)
	case errors.Is(err, apperrors.ErrUnknownProvider):
		return apperrors.NewAppError(http.StatusNotFound, "Unknown identity provider", err)
	case errors.Is(err, apperrors.ErrInvalidOAuthState):
		return apperrors.NewAppError(http.StatusBadRequest, "Invalid or expired OAuth state", err)
	case errors.Is(err, apperrors.ErrNotFound):
		return apperrors.NewAppError(http.StatusNotFound, "Resource not found", err)
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.NewAppError(http.StatusGatewayTimeout, "Request timed out", err)
	default:
		return apperrors.NewAppError(http.StatusInternalServerError, fallback, err)
	}
}

// respondError logs err at a level matching its status and writes the error body.
func respondError(c *gin.Context, err error, fallback string) {
	appErr := toAppError(err, fallback)
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	if appErr.Code >= http.StatusInternalServerError {
		logger.Error(fallback, slog.String("error", err.Error()))
	} else {
		logger.Warn("Request rejected", slog.Int("status", appErr.Code), slog.String("error", err.Error()))
	}
	c.AbortWithStatusJSON(appErr.Code, ErrorResponse{Code: appErr.Code, Message: appErr.Message})
}

// respondBindError writes a 400 for a request body that failed binding.
func respondBindError(c *gin.Context, err error) {
	middleware.GetLoggerFromContext(c).Warn("Failed to bind request", slog.String("error", err.Error()))
	appErr := apperrors.NewBadRequestError("Invalid request body: " + err.Error())
	c.AbortWithStatusJSON(appErr.Code, ErrorResponse{Code: appErr.Code, Message: appErr.Message})
}

// respondData wraps payload in the {"data": ...} envelope.
func respondData(c *gin.Context, status int, payload any) {
	c.JSON(status, gin.H{"data": payload})
}
