package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JonnyWalker81/yearinmotion/internal/apierror"
	"github.com/JonnyWalker81/yearinmotion/internal/logger"
	"github.com/JonnyWalker81/yearinmotion/internal/middleware"
	"github.com/JonnyWalker81/yearinmotion/internal/service"
)

type AuthHandler struct {
	authService  service.AuthService
	secureCookie bool
}

// NewAuthHandler creates a new auth handler. secureCookie marks the session
// cookie HTTPS-only.
func NewAuthHandler(authService service.AuthService, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		secureCookie: secureCookie,
	}
}

// Connect handles GET /auth/strava
func (h *AuthHandler) Connect(c *gin.Context) {
	url, err := h.authService.AuthorizeURL()
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.Redirect(http.StatusFound, url)
}

// Callback handles GET /auth/callback
func (h *AuthHandler) Callback(c *gin.Context) {
	if reason := c.Query("error"); reason != "" {
		requestID := apierror.GetRequestID(c)
		apierror.WriteProblem(c, apierror.NewBadRequestError(requestID,
			"strava authorization denied: "+reason, "Strava access was not granted"))
		return
	}

	session, err := h.authService.HandleCallback(c.Request.Context(), c.Query("code"), c.Query("state"))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	middleware.SetSessionCookie(c, session.ID, h.secureCookie)
	c.JSON(http.StatusOK, session)
}

// Logout handles POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if id := middleware.SessionID(c); id != "" {
		if err := h.authService.Logout(c.Request.Context(), id); err != nil {
			writeServiceError(c, err)
			return
		}
	}

	middleware.ClearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "logged out successfully"})
}

// Token handles POST /api/token, performing the OAuth grant server side so
// the client secret never reaches the browser
func (h *AuthHandler) Token(c *gin.Context) {
	var req service.TokenRequest
	if err := c.ShouldBind(&req); err != nil {
		requestID := apierror.GetRequestID(c)
		apierror.WriteProblem(c, apierror.NewBadRequestError(requestID, err.Error(), "Invalid token request"))
		return
	}

	tok, err := h.authService.ProxyToken(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	logger.Ctx(c.Request.Context()).Debug("token proxied", logger.String("grant_type", req.GrantType))
	c.JSON(http.StatusOK, tok)
}
