package handler

import (
	"net/http"
	"strings"

	appidentity "github.com/fieldline/backend/internal/application/identity"
	"github.com/fieldline/backend/internal/infrastructure/config"
	"github.com/fieldline/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles sign-in for the web app (session cookie) and the
// mobile app (bearer tokens)
type AuthHandler struct {
	BaseHandler
	authService *appidentity.AuthService
	session     config.SessionConfig
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *appidentity.AuthService, session config.SessionConfig) *AuthHandler {
	return &AuthHandler{authService: authService, session: session}
}

// Login godoc
// @ID           webLogin
// @Summary      Web login
// @Description  Authenticate with email and password and receive a session cookie
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login credentials"
// @Success      200 {object} APIResponse[WebLoginResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      429 {object} ErrorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !h.bindJSON(c, &req) {
		return
	}

	sess, user, err := h.authService.WebLogin(c.Request.Context(), appidentity.LoginInput{
		Email:     req.Email,
		Password:  req.Password,
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.setSessionCookie(c, sess.ID, int(h.session.TTL.Seconds()))
	h.Success(c, WebLoginResponse{User: toUserResponse(user), ExpiresAt: sess.ExpiresAt})
}

// Logout godoc
// @ID           logout
// @Summary      Logout
// @Description  Delete the current session, or revoke the current bearer token
// @Tags         auth
// @Produce      json
// @Success      204
// @Failure      401 {object} ErrorResponse
// @Security     SessionCookie
// @Security     BearerAuth
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context(), middleware.CurrentIdentity(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.setSessionCookie(c, "", -1)
	h.NoContent(c)
}

// MobileLogin godoc
// @ID           mobileLogin
// @Summary      Mobile login
// @Description  Authenticate with email and password and receive a bearer token pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login credentials"
// @Success      200 {object} APIResponse[MobileLoginResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Router       /auth/mobile/login [post]
func (h *AuthHandler) MobileLogin(c *gin.Context) {
	var req LoginRequest
	if !h.bindJSON(c, &req) {
		return
	}

	pair, user, err := h.authService.MobileLogin(c.Request.Context(), appidentity.LoginInput{
		Email:     req.Email,
		Password:  req.Password,
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, MobileLoginResponse{Tokens: pair, User: toUserResponse(user)})
}

// Refresh godoc
// @ID           mobileRefresh
// @Summary      Refresh tokens
// @Description  Exchange a refresh token for a new token pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RefreshTokenRequest true "Refresh token"
// @Success      200 {object} APIResponse[auth.TokenPair]
// @Failure      401 {object} ErrorResponse
// @Router       /auth/mobile/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshTokenRequest
	if !h.bindJSON(c, &req) {
		return
	}
	pair, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, pair)
}

// Me godoc
// @ID           me
// @Summary      Current user
// @Description  The signed-in user and their active organization memberships
// @Tags         auth
// @Produce      json
// @Success      200 {object} APIResponse[MeResponse]
// @Failure      401 {object} ErrorResponse
// @Security     SessionCookie
// @Security     BearerAuth
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	profile, err := h.authService.Me(c.Request.Context(), userID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toMeResponse(profile))
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(sameSite(h.session.SameSite))
	path := h.session.Path
	if path == "" {
		path = "/"
	}
	c.SetCookie(h.session.CookieName, value, maxAge, path, h.session.Domain, h.session.Secure, true)
}

func sameSite(mode string) http.SameSite {
	switch strings.ToLower(mode) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
