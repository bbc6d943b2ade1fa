package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"inkwell_backend/internal/auth"
	"inkwell_backend/internal/clock"
	"inkwell_backend/internal/config"
	"inkwell_backend/internal/email"
	"inkwell_backend/internal/repositories/memstore"
	"inkwell_backend/internal/storage"
)

var tokenInLink = regexp.MustCompile(`token=([0-9a-f]{64})`)

// outbox records every message instead of delivering it.
type outbox struct {
	mu   sync.Mutex
	msgs []*email.Message
}

func (o *outbox) Send(_ context.Context, msg *email.Message) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.msgs = append(o.msgs, msg)
	return nil
}

// lastToken returns the token from the newest message sent to addr.
func (o *outbox) lastToken(t *testing.T, addr string) string {
	t.Helper()
	o.mu.Lock()
	defer o.mu.Unlock()
	for i := len(o.msgs) - 1; i >= 0; i-- {
		if o.msgs[i].To != addr {
			continue
		}
		m := tokenInLink.FindStringSubmatch(o.msgs[i].HTMLBody)
		require.NotNil(t, m, "no token link in message to %s", addr)
		return m[1]
	}
	t.Fatalf("no message sent to %s", addr)
	return ""
}

type TestServer struct {
	Server *httptest.Server
	App    *Application
	Clock  *clock.Mock
	Mail   *outbox
}

func testConfig(t *testing.T) *config.Config {
	cfg := &config.Config{}
	cfg.Server.Env = "test"
	cfg.App.FrontendURL = "https://inkwell.test"
	cfg.JWT.Secret = "app-test-secret-0123456789abcdefghijkl"
	cfg.JWT.TTL = 30 * 24 * time.Hour
	cfg.Tokens.TTL = 24 * time.Hour
	cfg.Storage.Type = "local"
	cfg.Storage.BasePath = t.TempDir()
	cfg.Upload.MaxSize = 1 << 20
	cfg.Upload.AllowedTypes = []string{"image/png", "image/jpeg"}
	cfg.Fanout.Concurrency = 4
	cfg.Workers.TokenCleanupInterval = time.Hour
	return cfg
}

func NewTestServer(t *testing.T) *TestServer {
	t.Helper()
	cfg := testConfig(t)
	clk := clock.NewMock(time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))
	mail := &outbox{}

	files, err := storage.NewLocalStorage(storage.ConfigFrom(cfg))
	require.NoError(t, err)

	application, err := New(Dependencies{
		Config:    cfg,
		Store:     memstore.New().UseClock(clk),
		Clock:     clk,
		Sender:    mail,
		Storage:   files,
		Providers: auth.NewProviders(),
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go application.WS.Run(ctx)

	server := httptest.NewServer(application.Router)
	t.Cleanup(func() {
		server.Close()
		cancel()
	})

	return &TestServer{Server: server, App: application, Clock: clk, Mail: mail}
}

func (ts *TestServer) SendRequest(t *testing.T, method, path, token string, body interface{}) (*http.Response, string) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, ts.Server.URL+path, reqBody)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := ts.Server.Client().Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res, string(resBody)
}

// register signs up and returns the session token and user id.
func (ts *TestServer) register(t *testing.T, addr string) (string, uint) {
	t.Helper()
	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email":    addr,
		"password": "Str0ng!Passw0rd",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, body)

	var out struct {
		Token string `json:"token"`
		User  struct {
			ID uint `json:"id"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	return out.Token, out.User.ID
}
