package httpapi

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/todovault/todovault/internal/logging"
	"github.com/todovault/todovault/internal/server/config"
	"github.com/todovault/todovault/internal/server/files"
	"github.com/todovault/todovault/internal/server/shared/db"
	"github.com/todovault/todovault/internal/server/tasks"
	"github.com/todovault/todovault/internal/server/users"
)

func newTestServer(t *testing.T) (*HTTPServer, *config.Config) {
	t.Helper()

	base := t.TempDir()
	cfg := &config.Config{
		EndpointAddr:                ":0",
		SecretKey:                   "test-secret",
		AccessTokenValidityDuration: time.Hour,
		FilesDir:                    filepath.Join(base, "files"),
		UploadsDir:                  filepath.Join(base, "uploads"),
		ConvertCommand:              "false",
		ConvertTimeout:              time.Second,
		MaxTaskTextLength:           1000,
	}

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

	rm := db.NewInMemoryRepositoryManager()
	userService := users.NewService(rm.Users(), cfg)
	taskService := tasks.NewService(rm.Tasks(), cfg)

	fileService, err := files.NewService(cfg, logger)
	require.NoError(t, err)

	return NewHTTPServer(cfg, logger, userService, taskService, fileService), cfg
}

// doJSON performs a request with an optional JSON body and bearer token and
// returns the recorded response.
func doJSON(t *testing.T, s *HTTPServer, method, target, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

// registerAndLogin creates an identity and returns its id and a fresh
// session token.
func registerAndLogin(t *testing.T, s *HTTPServer, email, password string) (string, string) {
	t.Helper()

	rec := doJSON(t, s, http.MethodPost, "/api/register", "", map[string]string{"email": email, "password": password})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	user := decodeJSON[userResponse](t, rec)

	rec = doJSON(t, s, http.MethodPost, "/api/login", "", map[string]string{"email": email, "password": password})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	token := decodeJSON[tokenResponse](t, rec)

	return user.ID, token.Token
}
