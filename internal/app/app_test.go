package app

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealth(t *testing.T) {
	ts := NewTestServer(t)

	res, body := ts.SendRequest(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, body)
}

func TestRegisterActivateLogin(t *testing.T) {
	ts := NewTestServer(t)

	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email":    "alice@example.com",
		"password": "Str0ng!Passw0rd",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, body)
	assert.True(t, strings.HasPrefix(res.Header.Get("Authorization"), "Bearer "))
	assert.Contains(t, body, `"is_verified":false`)

	token := ts.Mail.lastToken(t, "alice@example.com")

	res, body = ts.SendRequest(t, http.MethodPost, "/api/v1/auth/activate", "", map[string]string{"token": token})
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	// single use
	res, _ = ts.SendRequest(t, http.MethodPost, "/api/v1/auth/activate", "", map[string]string{"token": token})
	assert.Equal(t, http.StatusGone, res.StatusCode)

	res, _ = ts.SendRequest(t, http.MethodPost, "/api/v1/auth/activate", "", map[string]string{"token": strings.Repeat("0", 64)})
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	res, body = ts.SendRequest(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "Str0ng!Passw0rd",
	})
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	var session struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &session))

	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/users/me", session.Token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	assert.Contains(t, body, `"is_verified":true`)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	ts := NewTestServer(t)
	ts.register(t, "bob@example.com")

	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "bob@example.com",
		"password": "Wr0ng!Password",
	})
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	assert.Contains(t, body, `"code":"INVALID_CREDENTIALS"`)
}

func TestActivationTokenExpiresAfterADay(t *testing.T) {
	ts := NewTestServer(t)
	ts.register(t, "carol@example.com")
	token := ts.Mail.lastToken(t, "carol@example.com")

	ts.Clock.Add(24*time.Hour + time.Second)

	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/activate", "", map[string]string{"token": token})
	assert.Equal(t, http.StatusGone, res.StatusCode)
	assert.Contains(t, body, `"code":"TOKEN_EXPIRED"`)
}

func TestPasswordResetOverHTTP(t *testing.T) {
	ts := NewTestServer(t)
	ts.register(t, "dave@example.com")

	res, _ := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/password/forgot", "", map[string]string{"email": "dave@example.com"})
	require.Equal(t, http.StatusAccepted, res.StatusCode)
	token := ts.Mail.lastToken(t, "dave@example.com")

	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/password/reset", "", map[string]string{
		"token":        token,
		"new_password": "N3w!Passw0rd99",
	})
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	res, _ = ts.SendRequest(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "dave@example.com",
		"password": "N3w!Passw0rd99",
	})
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	ts := NewTestServer(t)

	for _, tc := range []struct {
		method, path, token string
	}{
		{http.MethodGet, "/api/v1/users/me", ""},
		{http.MethodGet, "/api/v1/blogs/feed", ""},
		{http.MethodGet, "/api/v1/notifications", "not-a-jwt"},
		{http.MethodPost, "/api/v1/blogs", ""},
	} {
		res, body := ts.SendRequest(t, tc.method, tc.path, tc.token, nil)
		assert.Equal(t, http.StatusUnauthorized, res.StatusCode, "%s %s", tc.method, tc.path)
		assert.Contains(t, body, `"error"`)
	}
}

func TestPublishNotifiesFollowers(t *testing.T) {
	ts := NewTestServer(t)
	authorToken, authorID := ts.register(t, "author@example.com")

	var followers []string
	for i := 0; i < 3; i++ {
		token, _ := ts.register(t, fmt.Sprintf("reader%d@example.com", i))
		res, body := ts.SendRequest(t, http.MethodPost, fmt.Sprintf("/api/v1/users/%d/follow", authorID), token, nil)
		require.Equal(t, http.StatusCreated, res.StatusCode, body)
		followers = append(followers, token)
	}

	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/blogs", authorToken, map[string]any{
		"title":   "Hello",
		"content": "First post",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, body)
	var blog struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &blog))

	// drafts are private
	res, _ = ts.SendRequest(t, http.MethodGet, fmt.Sprintf("/api/v1/blogs/%d", blog.ID), followers[0], nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	res, body = ts.SendRequest(t, http.MethodPost, fmt.Sprintf("/api/v1/blogs/%d/publish", blog.ID), authorToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	assert.Contains(t, body, `"notified":3`)

	for _, token := range followers {
		res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/notifications/unseen-count", token, nil)
		require.Equal(t, http.StatusOK, res.StatusCode, body)
		assert.JSONEq(t, `{"unseen":1}`, body)

		res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/blogs/feed", token, nil)
		require.Equal(t, http.StatusOK, res.StatusCode, body)
		assert.Contains(t, body, `"title":"Hello"`)
	}

	// the author does not notify themselves
	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/notifications/unseen-count", authorToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.JSONEq(t, `{"unseen":0}`, body)
}

func TestCannotFollowSelf(t *testing.T) {
	ts := NewTestServer(t)
	token, id := ts.register(t, "solo@example.com")

	res, _ := ts.SendRequest(t, http.MethodPost, fmt.Sprintf("/api/v1/users/%d/follow", id), token, nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestUnknownProviderRejected(t *testing.T) {
	ts := NewTestServer(t)

	res, _ := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/oauth/myspace", "", map[string]string{"token": "x"})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}
