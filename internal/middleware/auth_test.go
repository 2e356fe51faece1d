package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newRouter(keyHash string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/session", RequireOperatorKey(keyHash), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func doPost(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/session", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestRequireOperatorKey(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret-key"), bcrypt.MinCost)
	require.NoError(t, err)

	r := newRouter(string(hash))

	assert.Equal(t, http.StatusOK, doPost(r, "Bearer secret-key").Code)
	assert.Equal(t, http.StatusUnauthorized, doPost(r, "Bearer wrong-key").Code)
	assert.Equal(t, http.StatusUnauthorized, doPost(r, "secret-key").Code, "missing Bearer prefix")
	assert.Equal(t, http.StatusUnauthorized, doPost(r, "").Code)
}

func TestRequireOperatorKeyOpenWhenUnset(t *testing.T) {
	r := newRouter("")
	assert.Equal(t, http.StatusOK, doPost(r, "").Code)
}
