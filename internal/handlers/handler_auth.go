package handlers

import (
	"errors"
	"net/http"

	"github.com/SscSPs/auth_session_service/internal/apperrors"
	portssvc "github.com/SscSPs/auth_session_service/internal/core/ports/services"
	"github.com/SscSPs/auth_session_service/internal/dto"
	"github.com/SscSPs/auth_session_service/internal/middleware"
	"github.com/SscSPs/auth_session_service/internal/utils"
	"github.com/gin-gonic/gin"
)

// authHandler handles password authentication and session lifecycle requests.
type authHandler struct {
	session portssvc.SessionSvcFacade
	posthog *utils.PosthogClientWrapper
}

func newAuthHandler(session portssvc.SessionSvcFacade, posthog *utils.PosthogClientWrapper) *authHandler {
	return &authHandler{session: session, posthog: posthog}
}

// registerAuthRoutes sets up the routes for authentication.
func registerAuthRoutes(auth *gin.RouterGroup, session portssvc.SessionSvcFacade, loginLimit gin.HandlerFunc, posthog *utils.PosthogClientWrapper) {
	h := newAuthHandler(session, posthog)

	auth.POST("/register", h.register)
	auth.POST("/login", loginLimit, h.login)
	auth.POST("/refresh", h.refresh)
	auth.POST("/logout", h.logout)
}

// register godoc
// @Summary Register new user
// @Description Creates a password account and returns a session for it.
// @Tags auth
// @Accept json
// @Produce json
// @Param register body dto.RegisterRequest true "User Registration Info"
// @Success 201 {object} dto.AuthResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Email already registered"
// @Failure 500 {object} ErrorResponse
// @Router /auth/register [post]
func (h *authHandler) register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	ctx := c.Request.Context()
	user, err := h.session.Register(ctx, req)
	if err != nil {
		respondError(c, err, "Failed to register user")
		return
	}

	session, err := h.session.IssueSessionFor(ctx, user)
	if err != nil {
		respondError(c, err, "Failed to create session")
		return
	}

	middleware.PosthogEvent(c, h.posthog, user.UserID, utils.EventUserRegistered, nil)
	respondData(c, http.StatusCreated, dto.ToAuthResponse(session))
}

// login godoc
// @Summary User login
// @Description Authenticates with email and password and returns a session.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login Credentials"
// @Success 200 {object} dto.AuthResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/login [post]
func (h *authHandler) login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	ctx := c.Request.Context()
	user, err := h.session.Login(ctx, req.Email, req.Password)
	if err != nil {
		respondError(c, err, "Failed to log in")
		return
	}

	session, err := h.session.IssueSessionFor(ctx, user)
	if err != nil {
		respondError(c, err, "Failed to create session")
		return
	}

	middleware.PosthogEvent(c, h.posthog, user.UserID, utils.EventUserLoggedIn, map[string]any{"method": "password"})
	respondData(c, http.StatusOK, dto.ToAuthResponse(session))
}

// refresh godoc
// @Summary Refresh session
// @Description Exchanges a refresh token for a new token pair. Each refresh token works once.
// @Tags auth
// @Accept json
// @Produce json
// @Param refresh body dto.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} dto.TokenPairResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse "Invalid or expired refresh token"
// @Failure 500 {object} ErrorResponse
// @Router /auth/refresh [post]
func (h *authHandler) refresh(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	ctx := c.Request.Context()
	pair, err := h.session.Refresh(ctx, req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrTokenExpired):
			err = apperrors.NewAppError(http.StatusUnauthorized, "Refresh token has expired", err)
		case errors.Is(err, apperrors.ErrTokenInvalid):
			err = apperrors.NewAppError(http.StatusUnauthorized, "Invalid refresh token", err)
		}
		respondError(c, err, "Failed to refresh session")
		return
	}

	if h.posthog.IsInitialized() {
		if userID, verr := h.session.VerifyAccessToken(ctx, pair.AccessToken); verr == nil {
			middleware.PosthogEvent(c, h.posthog, userID, utils.EventSessionRefresh, nil)
		}
	}
	respondData(c, http.StatusOK, dto.ToTokenPairResponse(pair))
}

// logout godoc
// @Summary Log out
// @Description Revokes the given refresh token. Unknown or already revoked tokens succeed.
// @Tags auth
// @Accept json
// @Produce json
// @Param logout body dto.LogoutRequest true "Refresh token to revoke"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/logout [post]
func (h *authHandler) logout(c *gin.Context) {
	var req dto.LogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if err := h.session.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		respondError(c, err, "Failed to log out")
		return
	}

	respondData(c, http.StatusOK, dto.MessageResponse{Message: "Logged out"})
}
