package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"inkwell_backend/internal/auth"
	"inkwell_backend/internal/clock"
	"inkwell_backend/internal/config"
	"inkwell_backend/internal/models"
	"inkwell_backend/internal/repositories/memstore"
	"inkwell_backend/internal/storage"
)

const (
	testSecret   = "test-secret-test-secret-test-secret!"
	testPassword = "Str0ng!Passw0rd"
)

type sentMail struct {
	purpose models.TokenPurpose
	to      string
	token   string
}

// fakeMailer records every token mail and can be told to fail.
type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *fakeMailer) SendToken(_ context.Context, purpose models.TokenPurpose, user *models.User, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{purpose: purpose, to: user.Email, token: token})
	return nil
}

func (m *fakeMailer) fail(err error) {
	m.mu.Lock()
	m.err = err
	m.mu.Unlock()
}

func (m *fakeMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func (m *fakeMailer) last() sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sent[len(m.sent)-1]
}

type recordingPusher struct {
	mu     sync.Mutex
	pushed map[uint][]uint
}

func (p *recordingPusher) PushNotification(userID uint, n *models.Notification) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pushed == nil {
		p.pushed = map[uint][]uint{}
	}
	p.pushed[userID] = append(p.pushed[userID], n.BlogID)
}

type testEnv struct {
	store  *memstore.Store
	clock  *clock.Mock
	mailer *fakeMailer
	pusher *recordingPusher
	svc    *ServiceContainer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	clk := clock.NewMock(time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))
	store := memstore.New().UseClock(clk)
	mailer := &fakeMailer{}
	pusher := &recordingPusher{}

	signer, err := auth.NewSessionSigner(testSecret, 0, clk)
	require.NoError(t, err)

	providers := auth.NewProviders()
	providers.Register(models.ProviderGoogle, auth.IdentityVerifierFunc(func(_ context.Context, token string) (*auth.ProviderIdentity, error) {
		switch token {
		case "google-ok":
			return &auth.ProviderIdentity{Email: "gina@example.com", Subject: "g-1"}, nil
		case "google-existing":
			return &auth.ProviderIdentity{Email: "alice@example.com", Subject: "g-2"}, nil
		default:
			return nil, errors.New("token rejected by google")
		}
	}))

	files, err := storage.NewLocalStorage(storage.Config{BasePath: t.TempDir(), BaseURL: "https://cdn.test"})
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.Tokens.TTL = 24 * time.Hour
	cfg.Fanout.Concurrency = 4
	cfg.Upload.MaxSize = 1024
	cfg.Upload.AllowedTypes = []string{"image/png", "image/jpeg"}

	svc := NewServiceContainer(Dependencies{
		Store:     store,
		Config:    cfg,
		Clock:     clk,
		Signer:    signer,
		Providers: providers,
		Mailer:    mailer,
		Storage:   files,
		Pusher:    pusher,
	})

	return &testEnv{store: store, clock: clk, mailer: mailer, pusher: pusher, svc: svc}
}

// createUser stores a verified password user directly.
func (e *testEnv) createUser(t *testing.T, email string) *models.User {
	t.Helper()
	hash, err := auth.HashPassword(testPassword)
	require.NoError(t, err)
	u := &models.User{Email: email, PasswordHash: &hash, IsVerified: true, Provider: models.ProviderDefault}
	require.NoError(t, e.store.Users().Create(context.Background(), u))
	return u
}

func (e *testEnv) follow(t *testing.T, follower, followed uint) {
	t.Helper()
	require.NoError(t, e.svc.FollowService.Follow(context.Background(), follower, followed))
}

func (e *testEnv) draft(t *testing.T, authorID uint, title, content string) *models.Blog {
	t.Helper()
	blog := &models.Blog{AuthorID: authorID, Title: title, Content: content}
	require.NoError(t, e.store.Blogs().Create(context.Background(), blog))
	return blog
}

func newLocalFiles(t *testing.T, dir string) *storage.LocalStorage {
	t.Helper()
	files, err := storage.NewLocalStorage(storage.Config{BasePath: dir})
	require.NoError(t, err)
	return files
}
