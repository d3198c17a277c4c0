package httpserver

import (
	"encoding/json"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginEndpoint_Success(t *testing.T) {
	t.Parallel()

	env := newHandlerEnv(t)
	user := env.createUser(t, "player@example.com", "Secret123")

	rec := env.doForm(http.MethodPost, "/token", url.Values{
		"username": {"Player@Example.COM"},
		"password": {"Secret123"},
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeBody(t, rec)
	assert.NotEmpty(t, resp["access_token"])
	assert.Equal(t, "bearer", resp["token_type"])

	respUser, ok := resp["user"].(map[string]any)
	require.True(t, ok, "expected 'user' object in response")
	assert.Equal(t, user.ID.String(), respUser["id"])
	assert.Equal(t, "player@example.com", respUser["email"])

	_, leaked := respUser["password_hash"]
	assert.False(t, leaked, "password hash must never be serialized")
}

func TestLoginEndpoint_AcceptsJSONBody(t *testing.T) {
	t.Parallel()

	env := newHandlerEnv(t)
	env.createUser(t, "player@example.com", "Secret123")

	rec := env.doJSON(http.MethodPost, "/token", map[string]string{
		"username": "player@example.com",
		"password": "Secret123",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestLoginEndpoint_BadCredentials(t *testing.T) {
	t.Parallel()

	env := newHandlerEnv(t)
	env.createUser(t, "player@example.com", "Secret123")

	tests := []struct {
		name     string
		username string
		password string
	}{
		{name: "unknown email", username: "nobody@example.com", password: "Secret123"},
		{name: "wrong password", username: "player@example.com", password: "Wrong123"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := env.doForm(http.MethodPost, "/token", url.Values{
				"username": {tt.username},
				"password": {tt.password},
			}, "")
			require.Equal(t, http.StatusUnauthorized, rec.Code)

			// The body must not betray which half was wrong.
			resp := decodeBody(t, rec)
			assert.Equal(t, "Incorrect username or password", resp["message"])
		})
	}
}

func TestLoginEndpoint_Banned(t *testing.T) {
	t.Parallel()

	env := newHandlerEnv(t)
	user := env.createUser(t, "banned@example.com", "Secret123")
	env.banUser(t, user.ID)

	rec := env.doForm(http.MethodPost, "/token", url.Values{
		"username": {"banned@example.com"},
		"password": {"Secret123"},
	}, "")
	require.Equal(t, http.StatusForbidden, rec.Code)

	resp := decodeBody(t, rec)
	assert.Equal(t, "This account has been banned", resp["message"])
}

func TestLoginEndpoint_AlreadyAuthenticated(t *testing.T) {
	t.Parallel()

	env := newHandlerEnv(t)
	env.createUser(t, "player@example.com", "Secret123")
	token := env.login(t, "player@example.com", "Secret123")

	rec := env.doForm(http.MethodPost, "/token", url.Values{
		"username": {"player@example.com"},
		"password": {"Secret123"},
	}, token)
	require.Equal(t, http.StatusForbidden, rec.Code)

	resp := decodeBody(t, rec)
	assert.Equal(t, "Already authenticated", resp["message"])

	// A token that no longer validates does not block the login.
	rec = env.doForm(http.MethodPost, "/token", url.Values{
		"username": {"player@example.com"},
		"password": {"Secret123"},
	}, "garbage.token.value")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestLogoutEndpoint_RevokesToken(t *testing.T) {
	t.Parallel()

	env := newHandlerEnv(t)
	env.createUser(t, "player@example.com", "Secret123")
	token := env.login(t, "player@example.com", "Secret123")

	rec := env.doJSON(http.MethodDelete, "/token", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeBody(t, rec)
	assert.Equal(t, "Token successfully revoked.", resp["detail"])

	// The token is dead from here on.
	rec = env.doJSON(http.MethodGet, "/users/me", nil, token)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.doJSON(http.MethodDelete, "/token", nil, token)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogoutEndpoint_RequiresToken(t *testing.T) {
	t.Parallel()

	env := newHandlerEnv(t)

	rec := env.doJSON(http.MethodDelete, "/token", nil, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	resp := decodeBody(t, rec)
	assert.Equal(t, "Not authenticated", resp["message"])
}

func TestMeEndpoint(t *testing.T) {
	t.Parallel()

	env := newHandlerEnv(t)
	user := env.createUser(t, "player@example.com", "Secret123")
	token := env.login(t, "player@example.com", "Secret123")

	rec := env.doJSON(http.MethodGet, "/users/me", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeBody(t, rec)
	assert.Equal(t, user.ID.String(), resp["id"])
	assert.Equal(t, "player@example.com", resp["email"])

	rec = env.doJSON(http.MethodGet, "/users/me", nil, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Not authenticated", decodeBody(t, rec)["message"])

	rec = env.doJSON(http.MethodGet, "/users/me", nil, "garbage.token.value")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Could not validate credentials", decodeBody(t, rec)["message"])
}

func TestMeEndpoint_ExpiredToken(t *testing.T) {
	t.Parallel()

	env := newHandlerEnv(t)
	env.createUser(t, "player@example.com", "Secret123")
	token := env.login(t, "player@example.com", "Secret123")

	env.clock.Advance(time.Hour + time.Second)

	rec := env.doJSON(http.MethodGet, "/users/me", nil, token)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	resp := decodeBody(t, rec)
	assert.Equal(t, "Could not validate credentials", resp["message"])
}

func TestMeEndpoint_BannedAfterIssue(t *testing.T) {
	t.Parallel()

	env := newHandlerEnv(t)
	user := env.createUser(t, "player@example.com", "Secret123")
	token := env.login(t, "player@example.com", "Secret123")

	env.banUser(t, user.ID)

	rec := env.doJSON(http.MethodGet, "/users/me", nil, token)
	require.Equal(t, http.StatusForbidden, rec.Code)

	resp := decodeBody(t, rec)
	assert.Equal(t, "This account has been banned", resp["message"])
}

func TestHealthEndpoints(t *testing.T) {
	t.Parallel()

	env := newHandlerEnv(t)

	rec := env.doJSON(http.MethodGet, "/health/live", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.doJSON(http.MethodGet, "/health-check", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Status   string `json:"status"`
		Services struct {
			Database string `json:"database"`
		} `json:"services"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "okay", resp.Status)
	assert.Equal(t, "okay", resp.Services.Database)
}

func TestHealthCheckEndpoint_DatabaseDown(t *testing.T) {
	t.Parallel()

	env := newHandlerEnv(t)

	sqlDB, err := env.repo.DB.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	rec := env.doJSON(http.MethodGet, "/health-check", nil, "")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp struct {
		Status   string `json:"status"`
		Services struct {
			Database string `json:"database"`
		} `json:"services"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, "error", resp.Services.Database)
}
