package handlers

import (
	"net/http"

	"github.com/SscSPs/auth_session_service/internal/apperrors"
	portssvc "github.com/SscSPs/auth_session_service/internal/core/ports/services"
	"github.com/SscSPs/auth_session_service/internal/dto"
	"github.com/SscSPs/auth_session_service/internal/middleware"
	"github.com/SscSPs/auth_session_service/internal/utils"
	"github.com/gin-gonic/gin"
)

// userHandler handles HTTP requests about the authenticated user.
type userHandler struct {
	userService portssvc.UserSvcFacade
	session     portssvc.SessionSvcFacade
	providers   portssvc.OAuthProviderRegistry
	posthog     *utils.PosthogClientWrapper
}

func newUserHandler(services *portssvc.ServiceContainer, posthog *utils.PosthogClientWrapper) *userHandler {
	return &userHandler{
		userService: services.User,
		session:     services.Session,
		providers:   services.Providers,
		posthog:     posthog,
	}
}

// registerUserRoutes registers the routes for the current user. rg must
// already carry the auth middleware.
func registerUserRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer, posthog *utils.PosthogClientWrapper) {
	h := newUserHandler(services, posthog)

	me := rg.Group("/users/me")
	{
		me.GET("", h.getProfile)
		me.PATCH("", h.updateProfile)
		me.POST("/identities/:provider", h.linkIdentity)
	}
}

// getProfile godoc
// @Summary Get current user
// @Description Returns the authenticated user with their linked identities.
// @Tags users
// @Produce json
// @Success 200 {object} dto.ProfileResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /users/me [get]
func (h *userHandler) getProfile(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	profile, err := h.userService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to load profile")
		return
	}

	respondData(c, http.StatusOK, dto.ToProfileResponse(profile))
}

// updateProfile godoc
// @Summary Update current user
// @Description Updates the name and picture of the authenticated user. Omitted fields are left unchanged.
// @Tags users
// @Accept json
// @Produce json
// @Param profile body dto.UpdateProfileRequest true "Fields to change"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /users/me [patch]
func (h *userHandler) updateProfile(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err, "Failed to update profile")
		return
	}

	middleware.PosthogEvent(c, h.posthog, userID, utils.EventProfileUpdated, nil)
	respondData(c, http.StatusOK, dto.ToUserResponse(user.Public()))
}

// linkIdentity godoc
// @Summary Link an external identity
// @Description Exchanges a provider authorization code and links the identity to the authenticated user.
// @Tags users
// @Accept json
// @Produce json
// @Param provider path string true "Provider name" example(google)
// @Param code body dto.LinkIdentityRequest true "Authorization code"
// @Success 200 {object} dto.ProfileResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Unknown provider"
// @Failure 409 {object} ErrorResponse "Identity already linked"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /users/me/identities/{provider} [post]
func (h *userHandler) linkIdentity(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req dto.LinkIdentityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	ctx := c.Request.Context()
	provider, err := h.providers.Get(c.Param("provider"))
	if err != nil {
		respondError(c, err, "Failed to link identity")
		return
	}

	profile, err := provider.Exchange(ctx, req.Code)
	if err != nil {
		respondError(c, err, "Failed to link identity")
		return
	}

	if err := h.session.LinkIdentity(ctx, userID, provider.Name(), *profile); err != nil {
		respondError(c, err, "Failed to link identity")
		return
	}

	updated, err := h.userService.GetProfile(ctx, userID)
	if err != nil {
		respondError(c, err, "Failed to load profile")
		return
	}

	middleware.PosthogEvent(c, h.posthog, userID, utils.EventIdentityLinked, map[string]any{"provider": provider.Name()})
	respondData(c, http.StatusOK, dto.ToProfileResponse(updated))
}

// requireUserID reads the authenticated user id, writing a 401 when absent.
func requireUserID(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok || userID == "" {
		appErr := apperrors.NewUnauthorizedError("Unauthorized")
		c.AbortWithStatusJSON(appErr.Code, ErrorResponse{Code: appErr.Code, Message: appErr.Message})
		return "", false
	}
	return userID, true
}
