package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Database struct {
		DSN          string `yaml:"url"`
		MaxOpenConns int    `yaml:"max_open_conns"`
		MaxIdleConns int    `yaml:"max_idle_conns"`
	} `yaml:"database"`

	App struct {
		// FrontendURL is the base for links sent by email.
		FrontendURL string   `yaml:"frontend_url"`
		CORSOrigins []string `yaml:"cors_origins"`
	} `yaml:"app"`

	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`

		// BreakerFailures consecutive failures open the breaker for BreakerTimeout.
		BreakerFailures uint32        `yaml:"breaker_failures"`
		BreakerTimeout  time.Duration `yaml:"breaker_timeout"`
	} `yaml:"email"`

	JWT struct {
		Secret string        `yaml:"secret"`
		TTL    time.Duration `yaml:"ttl"`
	} `yaml:"jwt"`

	Tokens struct {
		TTL time.Duration `yaml:"ttl"`
		// Retention keeps dead tokens around after TTL so lookups still report them as expired.
		Retention time.Duration `yaml:"retention"`
	} `yaml:"tokens"`

	OAuth struct {
		GoogleClientID string `yaml:"google_client_id"`
		AppleClientID  string `yaml:"apple_client_id"`
		FacebookAppID  string `yaml:"facebook_app_id"`
		FacebookSecret string `yaml:"facebook_app_secret"`
		GraphURL       string `yaml:"facebook_graph_url"`
	} `yaml:"oauth"`

	Storage struct {
		Type      string `yaml:"type"`      // local, s3
		BasePath  string `yaml:"base_path"` // local
		BaseURL   string `yaml:"base_url"`  // public URL prefix
		Bucket    string `yaml:"bucket"`
		Region    string `yaml:"region"`
		AccessKey string `yaml:"access_key"`
		SecretKey string `yaml:"secret_key"`
		Endpoint  string `yaml:"endpoint"`
	} `yaml:"storage"`

	Upload struct {
		MaxSize      int64    `yaml:"max_size"`
		AllowedTypes []string `yaml:"allowed_types"`
	} `yaml:"upload"`

	Fanout struct {
		Concurrency int `yaml:"concurrency"`
	} `yaml:"fanout"`

	RateLimit struct {
		RequestsPerSecond float64 `yaml:"requests_per_second"`
		Burst             int     `yaml:"burst"`
	} `yaml:"rate_limit"`

	Workers struct {
		TokenCleanupInterval time.Duration `yaml:"token_cleanup_interval"`
	} `yaml:"workers"`
}

var AppConfig *Config

// LoadConfig reads config/config.yaml (or CONFIG_PATH). When DATABASE_URL is set the
// configuration comes from environment variables instead, which is how tests and containers run.
func LoadConfig() {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	AppConfig = cfg
}

func Load() (*Config, error) {
	var cfg Config

	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		log.Println("Loading configuration from environment")
		fromEnv(&cfg, dbURL)
	} else {
		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = "config/config.yaml"
		}
		log.Printf("Loading configuration from %s", configPath)

		f, err := os.Open(configPath)
		if err != nil {
			return nil, fmt.Errorf("open config file %s: %w", configPath, err)
		}
		defer f.Close()

		if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", configPath, err)
		}
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func fromEnv(cfg *Config, dbURL string) {
	cfg.Database.DSN = dbURL
	cfg.Server.Env = os.Getenv("SERVER_ENV")
	cfg.Server.Port, _ = strconv.Atoi(os.Getenv("SERVER_PORT"))
	cfg.JWT.Secret = os.Getenv("JWT_SECRET")
	cfg.App.FrontendURL = os.Getenv("FRONTEND_URL")

	cfg.Email.SMTPHost = os.Getenv("SMTP_HOST")
	cfg.Email.SMTPPort, _ = strconv.Atoi(os.Getenv("SMTP_PORT"))
	cfg.Email.SMTPUsername = os.Getenv("SMTP_USER")
	cfg.Email.SMTPPassword = os.Getenv("SMTP_PASSWORD")
	cfg.Email.FromEmail = os.Getenv("SMTP_FROM")

	cfg.OAuth.GoogleClientID = os.Getenv("GOOGLE_CLIENT_ID")
	cfg.OAuth.AppleClientID = os.Getenv("APPLE_CLIENT_ID")
	cfg.OAuth.FacebookAppID = os.Getenv("FACEBOOK_APP_ID")
	cfg.OAuth.FacebookSecret = os.Getenv("FACEBOOK_APP_SECRET")

	cfg.Storage.Type = os.Getenv("STORAGE_TYPE")
	cfg.Storage.Bucket = os.Getenv("S3_BUCKET")
	cfg.Storage.Region = os.Getenv("S3_REGION")
	cfg.Storage.AccessKey = os.Getenv("S3_ACCESS_KEY")
	cfg.Storage.SecretKey = os.Getenv("S3_SECRET_KEY")
	cfg.Storage.Endpoint = os.Getenv("S3_ENDPOINT")
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.Env == "" {
		c.Server.Env = "development"
	}
	if c.App.FrontendURL == "" {
		c.App.FrontendURL = "http://localhost:3000"
	}
	if c.JWT.TTL == 0 {
		c.JWT.TTL = 30 * 24 * time.Hour
	}
	if c.Tokens.TTL == 0 {
		c.Tokens.TTL = 24 * time.Hour
	}
	if c.Tokens.Retention == 0 {
		c.Tokens.Retention = 7 * 24 * time.Hour
	}
	if c.Email.SMTPPort == 0 {
		c.Email.SMTPPort = 587
	}
	if c.Email.BreakerFailures == 0 {
		c.Email.BreakerFailures = 5
	}
	if c.Email.BreakerTimeout == 0 {
		c.Email.BreakerTimeout = 30 * time.Second
	}
	if c.OAuth.GraphURL == "" {
		c.OAuth.GraphURL = "https://graph.facebook.com"
	}
	if c.Storage.Type == "" {
		c.Storage.Type = "local"
	}
	if c.Storage.BasePath == "" {
		c.Storage.BasePath = "./uploads"
	}
	if c.Storage.BaseURL == "" {
		c.Storage.BaseURL = "/uploads"
	}
	if c.Upload.MaxSize == 0 {
		c.Upload.MaxSize = 5 * 1024 * 1024
	}
	if len(c.Upload.AllowedTypes) == 0 {
		c.Upload.AllowedTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}
	}
	if c.Fanout.Concurrency <= 0 {
		c.Fanout.Concurrency = 8
	}
	if c.RateLimit.RequestsPerSecond == 0 {
		c.RateLimit.RequestsPerSecond = 1
	}
	if c.RateLimit.Burst == 0 {
		c.RateLimit.Burst = 10
	}
	if c.Workers.TokenCleanupInterval == 0 {
		c.Workers.TokenCleanupInterval = time.Hour
	}
}

// Validate checks settings without which the process must not start.
func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return fmt.Errorf("database.url is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("jwt.secret must be at least 32 characters")
	}
	if c.OAuth.FacebookAppID != "" && c.OAuth.FacebookSecret == "" {
		return fmt.Errorf("oauth.facebook_app_secret is required when facebook login is enabled")
	}
	if c.Server.Env == "production" && c.Email.SMTPHost == "" {
		return fmt.Errorf("email.smtp_host is required in production")
	}
	switch c.Storage.Type {
	case "local", "s3":
	default:
		return fmt.Errorf("unsupported storage type: %s", c.Storage.Type)
	}
	return nil
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}
