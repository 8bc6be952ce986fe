package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/futig/cbam-wizard/internal/api/common"
	pkghttp "github.com/futig/cbam-wizard/pkg/http"
)

func signed(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.StandardClaims{ExpiresAt: exp.Unix(), Subject: "user-1"})
	s, err := token.SignedString([]byte("secret"))
	require.NoError(t, err)
	return s
}

func TestAuth(t *testing.T) {
	var forwarded string
	h := Auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		forwarded, _ = pkghttp.TokenFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	valid := signed(t, time.Now().Add(time.Hour))

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"expired jwt", "Bearer " + signed(t, time.Now().Add(-time.Minute)), http.StatusUnauthorized},
		{"valid jwt", "Bearer " + valid, http.StatusOK},
		{"opaque token", "Bearer opaque-token", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/calculations/1/wizard", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusUnauthorized {
				assert.Contains(t, rec.Body.String(), common.CodeSessionExpired)
			}
		})
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+valid)
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, valid, forwarded)
}

func TestCORS_AuthSuite(t *testing.T) {
	h := CORS([]string{"https://app.example"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://app.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://app.example", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
