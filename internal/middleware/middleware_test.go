package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Dan9191/clt-simulator/internal/config"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

func TestAuthMiddleware(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	cfg := &config.Config{APIUser: "admin", APIPasswordHash: string(hash)}
	h := AuthMiddleware(cfg)(okHandler)

	tests := []struct {
		name     string
		user     string
		password string
		noAuth   bool
		want     int
	}{
		{name: "valid credentials", user: "admin", password: "s3cret", want: http.StatusNoContent},
		{name: "wrong password", user: "admin", password: "nope", want: http.StatusUnauthorized},
		{name: "wrong user", user: "root", password: "s3cret", want: http.StatusUnauthorized},
		{name: "no credentials", noAuth: true, want: http.StatusUnauthorized},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/export-csv", nil)
			if !tc.noAuth {
				req.SetBasicAuth(tc.user, tc.password)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			assert.Equal(t, tc.want, w.Code)
			if tc.want == http.StatusUnauthorized {
				assert.Contains(t, w.Header().Get("WWW-Authenticate"), "Basic")
			}
		})
	}

	t.Run("disabled without hash", func(t *testing.T) {
		h := AuthMiddleware(&config.Config{})(okHandler)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestRecover(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	h := Recover(log)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/simulate", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "boom", body["error"])
}

func TestRequestLogger(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	h := RequestLogger(log)(okHandler)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}
