package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/createex/circle/pkg/auth"
)

func newLogoutFixture(t *testing.T) (*gin.Engine, *auth.JWTManager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jwtMgr := auth.NewJWTManager("test-secret", time.Hour)
	// nothing listens here, every redis call fails
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	h := NewAuthHandler(nil, jwtMgr, rdb, nil)

	router := gin.New()
	router.POST("/auth/logout", h.Logout)
	return router, jwtMgr
}

func TestLogoutReportsBlacklistFailure(t *testing.T) {
	router, jwtMgr := newLogoutFixture(t)

	token, err := jwtMgr.Generate(uuid.NewString())
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500 when the blacklist write fails, body %s", w.Code, w.Body.String())
	}
}

func TestLogoutRejectsInvalidToken(t *testing.T) {
	router, _ := newLogoutFixture(t)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "missing header", header: "", want: http.StatusBadRequest},
		{name: "malformed header", header: "Bearer", want: http.StatusBadRequest},
		{name: "garbage token", header: "Bearer not-a-jwt", want: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.want {
				t.Errorf("status = %d, want %d, body %s", w.Code, tt.want, w.Body.String())
			}
		})
	}
}
