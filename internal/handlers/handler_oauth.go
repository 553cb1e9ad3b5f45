package handlers

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/SscSPs/auth_session_service/internal/apperrors"
	"github.com/SscSPs/auth_session_service/internal/core/domain"
	portssvc "github.com/SscSPs/auth_session_service/internal/core/ports/services"
	"github.com/SscSPs/auth_session_service/internal/dto"
	"github.com/SscSPs/auth_session_service/internal/middleware"
	"github.com/SscSPs/auth_session_service/internal/utils"
	"github.com/gin-gonic/gin"
)

// oauthHandler drives sign-in through external identity providers.
type oauthHandler struct {
	session     portssvc.SessionSvcFacade
	providers   portssvc.OAuthProviderRegistry
	state       portssvc.OAuthStateStore
	frontendURL string
	posthog     *utils.PosthogClientWrapper
}

func newOAuthHandler(services *portssvc.ServiceContainer, frontendURL string, posthog *utils.PosthogClientWrapper) *oauthHandler {
	return &oauthHandler{
		session:     services.Session,
		providers:   services.Providers,
		state:       services.OAuthState,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		posthog:     posthog,
	}
}

// registerOAuthRoutes mounts the provider routes under the auth group.
func registerOAuthRoutes(auth *gin.RouterGroup, services *portssvc.ServiceContainer, frontendURL string, posthog *utils.PosthogClientWrapper) {
	h := newOAuthHandler(services, frontendURL, posthog)

	auth.GET("/providers", h.listProviders)
	auth.POST("/:provider/exchange-code", h.exchangeCode)
	auth.GET("/:provider/login", h.login)
	auth.GET("/:provider/callback", h.callback)
}

// listProviders godoc
// @Summary List identity providers
// @Description Returns the names of the configured external identity providers.
// @Tags oauth
// @Produce json
// @Success 200 {array} string
// @Router /auth/providers [get]
func (h *oauthHandler) listProviders(c *gin.Context) {
	respondData(c, http.StatusOK, h.providers.Names())
}

// exchangeCode godoc
// @Summary Exchange authorization code for a session
// @Description Exchanges a provider authorization code obtained by the frontend, resolving or creating the user.
// @Tags oauth
// @Accept json
// @Produce json
// @Param provider path string true "Provider name" example(google)
// @Param code body dto.ExchangeCodeRequest true "Authorization code"
// @Success 200 {object} dto.AuthResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse "Provider rejected the code"
// @Failure 404 {object} ErrorResponse "Unknown provider"
// @Failure 500 {object} ErrorResponse
// @Router /auth/{provider}/exchange-code [post]
func (h *oauthHandler) exchangeCode(c *gin.Context) {
	var req dto.ExchangeCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	session, userID, err := h.signIn(c, c.Param("provider"), req.Code)
	if err != nil {
		respondError(c, err, "Failed to sign in with provider")
		return
	}

	middleware.PosthogEvent(c, h.posthog, userID, utils.EventProviderLogin, map[string]any{"provider": c.Param("provider")})
	respondData(c, http.StatusOK, dto.ToAuthResponse(session))
}

// login godoc
// @Summary Start provider login
// @Description Redirects the browser to the provider consent page with a single-use state value.
// @Tags oauth
// @Param provider path string true "Provider name" example(google)
// @Success 302
// @Failure 404 {object} ErrorResponse "Unknown provider"
// @Failure 503 {object} ErrorResponse "Redirect login is not configured"
// @Router /auth/{provider}/login [get]
func (h *oauthHandler) login(c *gin.Context) {
	if h.state == nil {
		appErr := apperrors.NewAppError(http.StatusServiceUnavailable, "Redirect login is not configured", nil)
		c.AbortWithStatusJSON(appErr.Code, ErrorResponse{Code: appErr.Code, Message: appErr.Message})
		return
	}

	provider, err := h.providers.Get(c.Param("provider"))
	if err != nil {
		respondError(c, err, "Failed to start provider login")
		return
	}

	state, err := h.state.Issue(c.Request.Context(), provider.Name())
	if err != nil {
		respondError(c, err, "Failed to start provider login")
		return
	}

	c.Redirect(http.StatusFound, provider.AuthCodeURL(state))
}

// callback godoc
// @Summary Provider redirect target
// @Description Consumes the state, signs the user in and redirects to the frontend with the session tokens.
// @Tags oauth
// @Param provider path string true "Provider name" example(google)
// @Param state query string true "State issued by the login route"
// @Param code query string true "Authorization code"
// @Success 302
// @Router /auth/{provider}/callback [get]
func (h *oauthHandler) callback(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)
	providerName := strings.ToLower(c.Param("provider"))

	if h.state == nil {
		h.redirectError(c, "login_unavailable")
		return
	}

	if providerErr := c.Query("error"); providerErr != "" {
		logger.Warn("Provider returned an error", slog.String("provider", providerName), slog.String("error", providerErr))
		h.redirectError(c, "access_denied")
		return
	}

	if err := h.state.Consume(ctx, c.Query("state"), providerName); err != nil {
		logger.Warn("OAuth state rejected", slog.String("provider", providerName), slog.String("error", err.Error()))
		h.redirectError(c, "invalid_state")
		return
	}

	session, userID, err := h.signIn(c, providerName, c.Query("code"))
	if err != nil {
		logger.Warn("Provider sign-in failed", slog.String("provider", providerName), slog.String("error", err.Error()))
		h.redirectError(c, "login_failed")
		return
	}

	middleware.PosthogEvent(c, h.posthog, userID, utils.EventProviderLogin, map[string]any{"provider": providerName})

	q := url.Values{}
	q.Set("accessToken", session.AccessToken)
	q.Set("refreshToken", session.RefreshToken)
	c.Redirect(http.StatusFound, h.frontendURL+"/auth/success?"+q.Encode())
}

// signIn exchanges code with the named provider and issues a session for the resolved user.
func (h *oauthHandler) signIn(c *gin.Context, providerName, code string) (*domain.AuthResponse, string, error) {
	ctx := c.Request.Context()

	provider, err := h.providers.Get(providerName)
	if err != nil {
		return nil, "", err
	}

	profile, err := provider.Exchange(ctx, code)
	if err != nil {
		return nil, "", err
	}

	user, err := h.session.LoginViaProvider(ctx, provider.Name(), *profile)
	if err != nil {
		return nil, "", err
	}

	session, err := h.session.IssueSessionFor(ctx, user)
	if err != nil {
		return nil, "", err
	}
	return session, user.UserID, nil
}

func (h *oauthHandler) redirectError(c *gin.Context, reason string) {
	q := url.Values{}
	q.Set("error", reason)
	c.Redirect(http.StatusFound, h.frontendURL+"/auth/error?"+q.Encode())
}
