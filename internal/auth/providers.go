package auth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/zitadel/oidc/v3/pkg/client/rp"
	"github.com/zitadel/oidc/v3/pkg/oidc"

	"inkwell_backend/internal/models"
)

const (
	googleIssuer  = "https://accounts.google.com"
	googleKeysURL = "https://www.googleapis.com/oauth2/v3/certs"
	appleIssuer   = "https://appleid.apple.com"
	appleKeysURL  = "https://appleid.apple.com/auth/keys"

	DefaultGraphURL = "https://graph.facebook.com"
)

var (
	ErrUnsupportedProvider = errors.New("unsupported identity provider")
	ErrEmailUnverified     = errors.New("identity provider did not return a verified email")
	ErrAudienceMismatch    = errors.New("token was issued to a different application")
)

// ProviderIdentity is what a successful provider verification yields.
type ProviderIdentity struct {
	Provider models.AccountProvider
	Email    string
	Subject  string
}

// IdentityVerifier checks a token issued by one external provider.
type IdentityVerifier interface {
	Verify(ctx context.Context, token string) (*ProviderIdentity, error)
}

// IdentityVerifierFunc adapts a function to IdentityVerifier.
type IdentityVerifierFunc func(ctx context.Context, token string) (*ProviderIdentity, error)

func (f IdentityVerifierFunc) Verify(ctx context.Context, token string) (*ProviderIdentity, error) {
	return f(ctx, token)
}

// Providers routes verification to the verifier registered for a provider name.
type Providers struct {
	verifiers map[models.AccountProvider]IdentityVerifier
}

func NewProviders() *Providers {
	return &Providers{verifiers: make(map[models.AccountProvider]IdentityVerifier)}
}

func (p *Providers) Register(provider models.AccountProvider, v IdentityVerifier) {
	p.verifiers[provider] = v
}

// Verify resolves the verified email behind token.
// Unknown provider names return ErrUnsupportedProvider; any other error is a verification failure.
func (p *Providers) Verify(ctx context.Context, providerName, token string) (*ProviderIdentity, error) {
	provider := models.AccountProvider(strings.ToLower(providerName))
	v, ok := p.verifiers[provider]
	if !ok || !provider.IsExternal() {
		return nil, ErrUnsupportedProvider
	}
	if token == "" {
		return nil, errors.New("empty provider token")
	}

	identity, err := v.Verify(ctx, token)
	if err != nil {
		return nil, err
	}
	if identity.Email == "" {
		return nil, ErrEmailUnverified
	}
	identity.Provider = provider
	identity.Email = strings.ToLower(identity.Email)
	return identity, nil
}

// ---------------------------------------------------------------------------
// OpenID Connect providers (Google, Apple)
// ---------------------------------------------------------------------------

type oidcVerifier struct {
	verifier *rp.IDTokenVerifier
}

// NewOIDCVerifier checks ID tokens signed by issuer's published keys and issued to clientID.
func NewOIDCVerifier(httpClient *http.Client, issuer, keysURL, clientID string) IdentityVerifier {
	keySet := rp.NewRemoteKeySet(httpClient, keysURL)
	return &oidcVerifier{
		verifier: rp.NewIDTokenVerifier(issuer, clientID, keySet),
	}
}

func NewGoogleVerifier(httpClient *http.Client, clientID string) IdentityVerifier {
	return NewOIDCVerifier(httpClient, googleIssuer, googleKeysURL, clientID)
}

func NewAppleVerifier(httpClient *http.Client, clientID string) IdentityVerifier {
	return NewOIDCVerifier(httpClient, appleIssuer, appleKeysURL, clientID)
}

func (v *oidcVerifier) Verify(ctx context.Context, token string) (*ProviderIdentity, error) {
	claims, err := rp.VerifyIDToken[*oidc.IDTokenClaims](ctx, token, v.verifier)
	if err != nil {
		return nil, fmt.Errorf("verify id token: %w", err)
	}
	if claims.Email == "" || !bool(claims.EmailVerified) {
		return nil, ErrEmailUnverified
	}
	return &ProviderIdentity{Email: claims.Email, Subject: claims.GetSubject()}, nil
}

// ---------------------------------------------------------------------------
// Facebook
// ---------------------------------------------------------------------------

type facebookVerifier struct {
	client    *http.Client
	graphURL  string
	appID     string
	appSecret string
}

// NewFacebookVerifier checks through the Graph API that an access token was issued to appID
// and resolves the user's email from /me.
func NewFacebookVerifier(httpClient *http.Client, graphURL, appID, appSecret string) IdentityVerifier {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if graphURL == "" {
		graphURL = DefaultGraphURL
	}
	return &facebookVerifier{
		client:    httpClient,
		graphURL:  strings.TrimRight(graphURL, "/"),
		appID:     appID,
		appSecret: appSecret,
	}
}

type facebookError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

type facebookDebugToken struct {
	Data struct {
		AppID   string `json:"app_id"`
		UserID  string `json:"user_id"`
		IsValid bool   `json:"is_valid"`
	} `json:"data"`
	Error *facebookError `json:"error,omitempty"`
}

type facebookMe struct {
	ID    string         `json:"id"`
	Email string         `json:"email"`
	Error *facebookError `json:"error,omitempty"`
}

func (v *facebookVerifier) Verify(ctx context.Context, token string) (*ProviderIdentity, error) {
	if v.appID == "" || v.appSecret == "" {
		return nil, errors.New("facebook app credentials are not configured")
	}

	var debug facebookDebugToken
	q := url.Values{}
	q.Set("input_token", token)
	q.Set("access_token", v.appID+"|"+v.appSecret)
	if err := v.get(ctx, "/debug_token", q, &debug, func() *facebookError { return debug.Error }); err != nil {
		return nil, err
	}
	if !debug.Data.IsValid {
		return nil, errors.New("facebook rejected token: not valid")
	}
	if debug.Data.AppID != v.appID {
		return nil, ErrAudienceMismatch
	}

	var me facebookMe
	q = url.Values{}
	q.Set("fields", "id,email")
	q.Set("access_token", token)
	q.Set("appsecret_proof", v.proof(token))
	if err := v.get(ctx, "/me", q, &me, func() *facebookError { return me.Error }); err != nil {
		return nil, err
	}
	if debug.Data.UserID != "" && me.ID != debug.Data.UserID {
		return nil, ErrAudienceMismatch
	}
	if me.Email == "" {
		return nil, ErrEmailUnverified
	}
	return &ProviderIdentity{Email: me.Email, Subject: me.ID}, nil
}

// proof is the appsecret_proof Graph API parameter: hex HMAC-SHA256 of the token keyed by the app secret.
func (v *facebookVerifier) proof(token string) string {
	mac := hmac.New(sha256.New, []byte(v.appSecret))
	mac.Write([]byte(token))
	return hex.EncodeToString(mac.Sum(nil))
}

func (v *facebookVerifier) get(ctx context.Context, path string, q url.Values, out any, apiErr func() *facebookError) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.graphURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return fmt.Errorf("facebook graph request: %w", err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode facebook response: %w", err)
	}
	if e := apiErr(); resp.StatusCode != http.StatusOK || e != nil {
		msg := resp.Status
		if e != nil {
			msg = e.Message
		}
		return fmt.Errorf("facebook rejected token: %s", msg)
	}
	return nil
}
