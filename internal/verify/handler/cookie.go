package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// The verify cookie carries the session id across the OAuth redirect so the
// callback knows which session the returning user is completing. It lives
// as long as one login attempt reasonably takes.
const (
	verifyCookieName = "__verify_session"
	verifyCookieTTL  = 15 * time.Minute
)

func setVerifyCookie(w http.ResponseWriter, sessionID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     verifyCookieName,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(verifyCookieTTL.Seconds()),
	})
}

func getVerifyCookie(c *gin.Context) string {
	cookie, err := c.Request.Cookie(verifyCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func clearVerifyCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     verifyCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}
