package httpapi

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/todovault/todovault/internal/server/auth"
)

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr error
	}{
		{"valid", "Bearer abc.def.ghi", "abc.def.ghi", nil},
		{"padded", "  Bearer abc.def.ghi  ", "abc.def.ghi", nil},
		{"empty", "", "", errMissingAuthorization},
		{"no scheme", "abc.def.ghi", "", errBadAuthorization},
		{"wrong scheme", "Basic abc", "", errBadAuthorization},
		{"scheme only", "Bearer ", "", errBadAuthorization},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := bearerToken(tt.header)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRequireAuth_MissingToken(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/api/todos", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthenticated", decodeJSON[errorResponse](t, rec).Error)
}

func TestRequireAuth_GarbageToken(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/api/todos", "not-a-valid-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid token", decodeJSON[errorResponse](t, rec).Error)
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	s, cfg := newTestServer(t)

	token, err := auth.GenerateToken("some-user", "a@b.com", []byte(cfg.SecretKey), -time.Minute)
	require.NoError(t, err)

	rec := doJSON(t, s, http.MethodGet, "/api/todos", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "token expired", decodeJSON[errorResponse](t, rec).Error)
}

func TestRequireAuth_WrongSecret(t *testing.T) {
	s, _ := newTestServer(t)

	token, err := auth.GenerateToken("some-user", "a@b.com", []byte("other-secret"), time.Hour)
	require.NoError(t, err)

	rec := doJSON(t, s, http.MethodGet, "/api/todos", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid token", decodeJSON[errorResponse](t, rec).Error)
}

func TestRequireAuth_BindsIdentity(t *testing.T) {
	s, _ := newTestServer(t)

	userID, token := registerAndLogin(t, s, "guard@example.com", "pw123456")

	rec := doJSON(t, s, http.MethodGet, "/api/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	me := decodeJSON[userResponse](t, rec)
	assert.Equal(t, userID, me.ID)
	assert.Equal(t, "guard@example.com", me.Email)
}
