package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"farmbasket_back_end/internal/models"
	"farmbasket_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", AuthRequired(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString("user_id")})
	})
	return r
}

func getMe(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRequiredAcceptsIssuedToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	// With no configured secret both sides must fall back to the same key,
	// otherwise every token minted in that setup is unusable.
	token, err := utils.GenerateJWT(models.User{ID: "user-1", Phone: "+919876543210"})
	require.NoError(t, err)

	w := getMe(authTestRouter(), "Bearer "+token)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user-1")
}

func TestAuthRequiredSeesConfiguredSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "configured-later")

	// The secret is read per request, not frozen at package load.
	token, err := utils.GenerateJWT(models.User{ID: "user-2", Phone: "+919876543211"})
	require.NoError(t, err)

	w := getMe(authTestRouter(), "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)

	t.Setenv("JWT_SECRET", "rotated")
	w = getMe(authTestRouter(), "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequiredRejectsMissingAndMalformedTokens(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	r := authTestRouter()

	assert.Equal(t, http.StatusUnauthorized, getMe(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, getMe(r, "Bearer not.a.token").Code)
	assert.Equal(t, http.StatusUnauthorized, getMe(r, "Basic abc").Code)
}
