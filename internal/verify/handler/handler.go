package handler

import (
	"errors"
	"net/http"
	"strings"

	"verify-service/internal/audit"
	"verify-service/internal/logger"
	"verify-service/internal/session"
	"verify-service/internal/verify/provider"

	"github.com/gin-gonic/gin"
)

// Handler exposes the rendezvous contract both participants use: the
// initiating client creates and polls sessions, the completing client opens
// the verification link, authenticates, and reports completion.
type Handler struct {
	store    session.Store
	provider provider.IdentityProvider
	recorder audit.Recorder
	baseURL  string
}

func NewHandler(
	store session.Store,
	identityProvider provider.IdentityProvider,
	recorder audit.Recorder,
	publicBaseURL string,
) *Handler {
	return &Handler{
		store:    store,
		provider: identityProvider,
		recorder: recorder,
		baseURL:  strings.TrimRight(publicBaseURL, "/"),
	}
}

// RegisterRoutes wires the session rendezvous endpoints and the completing
// client's OAuth flow. requireOperator guards session creation only; every
// other route must stay reachable with nothing but the link.
func (h *Handler) RegisterRoutes(r *gin.Engine, requireOperator gin.HandlerFunc) {
	r.POST("/session", requireOperator, h.createSession)
	r.GET("/session/:id", h.getSession)
	r.POST("/session/:id", h.completeSession)

	r.GET("/verify/:id/start", h.startVerification)
	r.GET("/oauth/callback", h.callback)
}

type createSessionRequest struct {
	Email string `json:"email"`
}

func (h *Handler) createSession(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to create session",
		})
		return
	}

	sess, err := h.store.Create(c.Request.Context(), req.Email)
	if err != nil {
		logger.Error("session create failed", map[string]any{
			"error": err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to create session",
		})
		return
	}

	h.record(c, sess.ID, sess.Email, audit.EventCreated)

	c.JSON(http.StatusCreated, gin.H{
		"sessionId":        sess.ID,
		"verificationLink": h.baseURL + "/verify/" + sess.ID,
	})
}

func (h *Handler) getSession(c *gin.Context) {
	sess, err := h.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.renderStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, sess)
}

func (h *Handler) completeSession(c *gin.Context) {
	id := c.Param("id")

	sess, err := h.store.Get(c.Request.Context(), id)
	if err != nil {
		h.renderStoreError(c, err)
		return
	}

	if err := h.store.MarkVerified(c.Request.Context(), id); err != nil {
		h.renderStoreError(c, err)
		return
	}

	if !sess.Verified {
		h.record(c, sess.ID, sess.Email, audit.EventVerified)
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) startVerification(c *gin.Context) {
	sess, err := h.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.renderStoreError(c, err)
		return
	}

	if sess.Verified {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"email":   sess.Email,
		})
		return
	}

	state := generateState(c)
	_, codeChallenge := generatePKCE(c)
	setVerifyCookie(c.Writer, sess.ID)

	c.Redirect(http.StatusFound, h.provider.AuthCodeURL(state, codeChallenge, sess.Email))
}

func (h *Handler) callback(c *gin.Context) {
	if !validateState(c) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid state"})
		return
	}

	if errParam := c.Query("error"); errParam != "" {
		authErr := callbackError(errParam)

		logger.Warn("oidc callback returned error", map[string]any{
			"error": errParam,
			"desc":  c.Query("error_description"),
		})

		// Either way the session stays pending; the initiating client's
		// poller cannot observe the failure.
		if errors.Is(authErr, provider.ErrCancelled) {
			c.JSON(http.StatusOK, gin.H{
				"success": false,
				"error":   "Validation cancelled by user",
			})
			return
		}

		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error":   "authentication failed",
		})
		return
	}

	code := c.Query("code")
	if code == "" {
		logger.Error("oidc callback missing code and error", nil)
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing authorization code"})
		return
	}

	sessionID := getVerifyCookie(c)
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing verification session"})
		return
	}

	sess, err := h.store.Get(c.Request.Context(), sessionID)
	if err != nil {
		h.renderStoreError(c, err)
		return
	}

	codeVerifier := getPKCEVerifier(c)
	if codeVerifier == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing pkce verifier"})
		return
	}

	identity, err := h.provider.ExchangeCode(c.Request.Context(), code, codeVerifier)
	if err != nil {
		logger.Error("identity exchange failed", map[string]any{
			"error": err.Error(),
		})
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication failed"})
		return
	}

	// The one security boundary this service has: only someone who can
	// authenticate as the session's email may flip it to verified.
	if !strings.EqualFold(identity.Email, sess.Email) {
		logger.Warn("identity mismatch on callback", map[string]any{
			"session_id": sess.ID,
		})
		c.JSON(http.StatusForbidden, gin.H{
			"error": "authenticated account does not match verification target",
		})
		return
	}

	if err := h.store.MarkVerified(c.Request.Context(), sess.ID); err != nil {
		h.renderStoreError(c, err)
		return
	}

	h.record(c, sess.ID, sess.Email, audit.EventVerified)
	clearVerifyCookie(c.Writer)

	logger.Info("verification completed", map[string]any{
		"session_id": sess.ID,
		"tenant":     identity.TenantID,
	})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"email":   sess.Email,
	})
}

func (h *Handler) renderStoreError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, session.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
	case errors.Is(err, session.ErrExpired):
		c.JSON(http.StatusGone, gin.H{"error": "Session expired"})
	default:
		logger.Error("session store failure", map[string]any{
			"error": err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func (h *Handler) record(c *gin.Context, sessionID, email, event string) {
	if err := h.recorder.Record(c.Request.Context(), sessionID, email, event); err != nil {
		logger.Warn("audit record failed", map[string]any{
			"event": event,
			"error": err.Error(),
		})
	}
}

// callbackError maps the provider's callback error code to the auth error
// taxonomy. access_denied is what Microsoft sends when the user closes or
// declines the login prompt.
func callbackError(code string) error {
	if code == "access_denied" {
		return provider.ErrCancelled
	}
	return errors.New("authentication failed: " + code)
}
