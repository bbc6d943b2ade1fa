package auth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkwell_backend/internal/models"
)

func TestProvidersRejectsUnknownName(t *testing.T) {
	p := NewProviders()
	_, err := p.Verify(context.Background(), "myspace", "token")
	assert.ErrorIs(t, err, ErrUnsupportedProvider)

	_, err = p.Verify(context.Background(), "default", "token")
	assert.ErrorIs(t, err, ErrUnsupportedProvider)
}

func TestProvidersDelegates(t *testing.T) {
	p := NewProviders()
	p.Register(models.ProviderGoogle, IdentityVerifierFunc(func(ctx context.Context, token string) (*ProviderIdentity, error) {
		if token != "good" {
			return nil, errors.New("bad token")
		}
		return &ProviderIdentity{Email: "Someone@Example.com", Subject: "sub"}, nil
	}))

	identity, err := p.Verify(context.Background(), "Google", "good")
	require.NoError(t, err)
	assert.Equal(t, "someone@example.com", identity.Email)
	assert.Equal(t, models.ProviderGoogle, identity.Provider)

	_, err = p.Verify(context.Background(), "google", "bad")
	assert.Error(t, err)
}

func TestFacebookVerifier(t *testing.T) {
	const appID, appSecret = "inkwell-app", "inkwell-secret"
	tokens := map[string]struct{ app, user, email string }{
		"valid":    {appID, "123", "fb@example.com"},
		"no-email": {appID, "124", ""},
		"foreign":  {"other-app", "125", "victim@example.com"},
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch r.URL.Path {
		case "/debug_token":
			assert.Equal(t, appID+"|"+appSecret, q.Get("access_token"))
			tok, ok := tokens[q.Get("input_token")]
			if !ok {
				_, _ = w.Write([]byte(`{"data":{"is_valid":false}}`))
				return
			}
			_, _ = fmt.Fprintf(w, `{"data":{"app_id":%q,"user_id":%q,"is_valid":true}}`, tok.app, tok.user)
		case "/me":
			assert.Equal(t, "id,email", q.Get("fields"))
			mac := hmac.New(sha256.New, []byte(appSecret))
			mac.Write([]byte(q.Get("access_token")))
			assert.Equal(t, hex.EncodeToString(mac.Sum(nil)), q.Get("appsecret_proof"))

			tok, ok := tokens[q.Get("access_token")]
			if !ok {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"error":{"message":"Invalid OAuth access token.","type":"OAuthException"}}`))
				return
			}
			_, _ = fmt.Fprintf(w, `{"id":%q,"email":%q}`, tok.user, tok.email)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	v := NewFacebookVerifier(srv.Client(), srv.URL, appID, appSecret)

	identity, err := v.Verify(context.Background(), "valid")
	require.NoError(t, err)
	assert.Equal(t, "fb@example.com", identity.Email)
	assert.Equal(t, "123", identity.Subject)

	_, err = v.Verify(context.Background(), "no-email")
	assert.ErrorIs(t, err, ErrEmailUnverified)

	_, err = v.Verify(context.Background(), "foreign")
	assert.ErrorIs(t, err, ErrAudienceMismatch)

	_, err = v.Verify(context.Background(), "expired")
	assert.Error(t, err)
}

func TestFacebookVerifierRequiresAppCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("no request expected, got %s", r.URL.Path)
	}))
	defer srv.Close()

	_, err := NewFacebookVerifier(srv.Client(), srv.URL, "", "").Verify(context.Background(), "valid")
	assert.Error(t, err)
}
