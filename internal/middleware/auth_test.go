package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"skillkart_backend/internal/config"
	"skillkart_backend/internal/model"
	"skillkart_backend/internal/util"

	"github.com/gin-gonic/gin"
)

func tokenFor(t *testing.T, role model.UserRole, secret string) string {
	t.Helper()
	u := &model.User{Email: "u@example.com", Role: role}
	u.ID = 1
	token, err := util.GenerateJWT(u, secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}
	return token
}

func TestAuthAndRoleMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{JWT: config.JWTConfig{Secret: "secret"}}

	r := gin.New()
	r.GET("/me", AuthMiddleware(cfg), func(c *gin.Context) {
		c.String(http.StatusOK, string(util.GetUserFromContext(c).Role))
	})
	r.GET("/admin", AuthMiddleware(cfg), RoleMiddleware(model.Admin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	learner := tokenFor(t, model.Learner, "secret")
	admin := tokenFor(t, model.Admin, "secret")
	forged := tokenFor(t, model.Admin, "other")
	expiredUser := &model.User{Email: "u@example.com", Role: model.Learner}
	expired, err := util.GenerateJWT(expiredUser, "secret", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	tests := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{"missing token", "/me", "", http.StatusUnauthorized},
		{"bearer token", "/me", "Bearer " + learner, http.StatusOK},
		{"query token", "/me?token=" + learner, "", http.StatusOK},
		{"wrong secret", "/me", "Bearer " + forged, http.StatusUnauthorized},
		{"expired token", "/me", "Bearer " + expired, http.StatusUnauthorized},
		{"learner on admin route", "/admin", "Bearer " + learner, http.StatusForbidden},
		{"admin on admin route", "/admin", "Bearer " + admin, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}
