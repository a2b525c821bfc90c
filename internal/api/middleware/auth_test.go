package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unknowntpo/threads-nextjs-sub000/internal/pkg/jwt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testJWTSecret = "test-secret-key-for-middleware"

func authTestRouter() *gin.Engine {
	router := gin.New()
	router.Use(Auth(testJWTSecret))
	router.GET("/test", func(c *gin.Context) {
		userID, _ := GetUserID(c)
		c.JSON(http.StatusOK, gin.H{"user_id": userID})
	})
	return router
}

func TestAuth_Success(t *testing.T) {
	router := authTestRouter()

	token, err := jwt.GenerateToken("user-abc", testJWTSecret, 24)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, "user-abc", result["user_id"])
}

func TestAuth_Rejections(t *testing.T) {
	expiredToken, err := jwt.GenerateToken("user-abc", testJWTSecret, 0)
	require.NoError(t, err)
	wrongSecretToken, err := jwt.GenerateToken("user-abc", "different-secret", 24)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"no bearer prefix", "some-token-without-bearer"},
		{"garbage token", "Bearer invalid-token"},
		{"wrong secret", "Bearer " + wrongSecretToken},
		{"expired token", "Bearer " + expiredToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := authTestRouter()

			req := httptest.NewRequest("GET", "/test", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func optionalAuthTestRouter() *gin.Engine {
	router := gin.New()
	router.Use(OptionalAuth(testJWTSecret))
	router.GET("/test", func(c *gin.Context) {
		userID, ok := GetUserID(c)
		c.JSON(http.StatusOK, gin.H{"user_id": userID, "authenticated": ok})
	})
	return router
}

func TestOptionalAuth(t *testing.T) {
	validToken, err := jwt.GenerateToken("user-xyz", testJWTSecret, 24)
	require.NoError(t, err)

	tests := []struct {
		name          string
		header        string
		authenticated bool
	}{
		{"valid token", "Bearer " + validToken, true},
		{"no token", "", false},
		{"invalid token", "Bearer invalid-token", false},
		{"no bearer prefix", "no-bearer-prefix", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := optionalAuthTestRouter()

			req := httptest.NewRequest("GET", "/test", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)

			var result map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
			assert.Equal(t, tt.authenticated, result["authenticated"])
			if tt.authenticated {
				assert.Equal(t, "user-xyz", result["user_id"])
			}
		})
	}
}

func TestGetUserID(t *testing.T) {
	t.Run("not set", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		userID, ok := GetUserID(c)
		assert.False(t, ok)
		assert.Empty(t, userID)
	})

	t.Run("wrong type", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Set(UserIDKey, 12345)
		userID, ok := GetUserID(c)
		assert.False(t, ok)
		assert.Empty(t, userID)
	})

	t.Run("valid", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Set(UserIDKey, "user-789")
		userID, ok := GetUserID(c)
		assert.True(t, ok)
		assert.Equal(t, "user-789", userID)
	})
}
