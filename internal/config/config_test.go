package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/inkwell")
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("SERVER_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost/inkwell", cfg.Database.DSN)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 30*24*time.Hour, cfg.JWT.TTL)
	assert.Equal(t, 24*time.Hour, cfg.Tokens.TTL)
	assert.Equal(t, 7*24*time.Hour, cfg.Tokens.Retention)
	assert.Equal(t, "local", cfg.Storage.Type)
	assert.Equal(t, 8, cfg.Fanout.Concurrency)
}

func TestLoad_FromYAML(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: 8000
  env: production
database:
  url: postgres://db/inkwell
jwt:
  secret: ` + testSecret + `
email:
  smtp_host: smtp.inkwell.test
tokens:
  ttl: 12h
  retention: 48h
fanout:
  concurrency: 3
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, "production", cfg.Server.Env)
	assert.Equal(t, 12*time.Hour, cfg.Tokens.TTL)
	assert.Equal(t, 48*time.Hour, cfg.Tokens.Retention)
	assert.Equal(t, 3, cfg.Fanout.Concurrency)
}

func TestLoad_ShortSecretRejected(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/inkwell")
	t.Setenv("JWT_SECRET", "short")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_ProductionRequiresSMTP(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/inkwell")
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("SERVER_ENV", "production")
	t.Setenv("SMTP_HOST", "")

	_, err := Load()
	assert.ErrorContains(t, err, "smtp_host")

	t.Setenv("SMTP_HOST", "smtp.inkwell.test")
	_, err = Load()
	assert.NoError(t, err)
}

func TestLoad_FacebookNeedsSecret(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/inkwell")
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("FACEBOOK_APP_ID", "1234")
	t.Setenv("FACEBOOK_APP_SECRET", "")

	_, err := Load()
	assert.ErrorContains(t, err, "facebook_app_secret")
}
