package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/HazelSharmaCoderHZ/HealthPlus2/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func protectedRouter(secret string) *gin.Engine {
	r := gin.New()
	r.GET("/me", AuthMiddleware(secret), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": c.GetUint(CtxUserID), "email": c.GetString(CtxEmail)})
	})
	return r
}

func get(r http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r := protectedRouter("secret")

	token, err := utils.GenerateJWT(7, "a@b.c", "secret", time.Hour)
	require.NoError(t, err)

	w := get(r, "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(7), gjson.Get(w.Body.String(), "id").Int())
	assert.Equal(t, "a@b.c", gjson.Get(w.Body.String(), "email").String())

	w = get(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Authorization header required", gjson.Get(w.Body.String(), "error").String())

	w = get(r, "Token "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	other, err := utils.GenerateJWT(7, "a@b.c", "other", time.Hour)
	require.NoError(t, err)
	w = get(r, "Bearer "+other)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid token", gjson.Get(w.Body.String(), "error").String())

	expired, err := utils.GenerateJWT(7, "a@b.c", "secret", -time.Minute)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, get(r, "Bearer "+expired).Code)

	assert.Equal(t, http.StatusInternalServerError, get(protectedRouter(""), "Bearer "+token).Code)
}
