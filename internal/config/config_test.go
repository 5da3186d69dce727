package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		ServerPort:            "8000",
		RequestTimeout:        30 * time.Second,
		DatabaseURL:           "postgres://localhost/vidtube",
		DBMaxConns:            10,
		DBMinConns:            1,
		DBMaxConnLifetime:     30 * time.Minute,
		DBMaxConnIdleTime:     5 * time.Minute,
		DBHealthCheckInterval: 30 * time.Second,
		AccessTokenSecret:     "access-secret",
		AccessTokenExpiry:     time.Hour,
		RefreshTokenSecret:    "refresh-secret",
		RefreshTokenExpiry:    240 * time.Hour,
		MediaBackend:          MediaBackendLocal,
		MediaLocalRoot:        "./public/media",
		MediaIdleTimeout:      30 * time.Second,
		UploadTempDir:         "./public/temp",
		MaxUploadSize:         1 << 20,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "missing database url", mutate: func(c *Config) { c.DatabaseURL = "" }, wantErr: "DATABASE_URL"},
		{name: "missing access secret", mutate: func(c *Config) { c.AccessTokenSecret = " " }, wantErr: "ACCESS_TOKEN_SECRET"},
		{name: "missing refresh secret", mutate: func(c *Config) { c.RefreshTokenSecret = "" }, wantErr: "REFRESH_TOKEN_SECRET"},
		{name: "shared secret", mutate: func(c *Config) { c.RefreshTokenSecret = c.AccessTokenSecret }, wantErr: "must differ"},
		{name: "refresh shorter than access", mutate: func(c *Config) { c.RefreshTokenExpiry = time.Minute }, wantErr: "longer"},
		{name: "s3 without bucket", mutate: func(c *Config) { c.MediaBackend = MediaBackendS3 }, wantErr: "S3_BUCKET"},
		{name: "s3 configured", mutate: func(c *Config) {
			c.MediaBackend = MediaBackendS3
			c.S3Bucket = "media"
			c.S3Region = "us-east-1"
		}},
		{name: "min conns above max", mutate: func(c *Config) { c.DBMinConns = 20 }, wantErr: "DB_MIN_CONNS"},
		{name: "zero conn lifetime", mutate: func(c *Config) { c.DBMaxConnLifetime = 0 }, wantErr: "pool durations"},
		{name: "zero media idle timeout", mutate: func(c *Config) { c.MediaIdleTimeout = 0 }, wantErr: "MEDIA_IDLE_TIMEOUT"},
		{name: "unknown backend", mutate: func(c *Config) { c.MediaBackend = "ftp" }, wantErr: "unknown MEDIA_BACKEND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/vidtube")
	t.Setenv("ACCESS_TOKEN_SECRET", "a")
	t.Setenv("REFRESH_TOKEN_SECRET", "b")
	t.Setenv("ACCESS_TOKEN_EXPIRY", "15m")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test,")
	t.Setenv("COOKIE_SECURE", "false")
	t.Setenv("RATE_LIMIT_RPM", "not-a-number")
	t.Setenv("DB_MAX_CONN_IDLE_TIME", "90s")
	t.Setenv("MEDIA_IDLE_TIMEOUT", "45s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 15*time.Minute, cfg.AccessTokenExpiry)
	assert.Equal(t, 240*time.Hour, cfg.RefreshTokenExpiry)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.False(t, cfg.CookieSecure)
	assert.Equal(t, 300, cfg.RateLimitRPM)
	assert.Equal(t, MediaBackendLocal, cfg.MediaBackend)
	assert.Equal(t, 90*time.Second, cfg.DBMaxConnIdleTime)
	assert.Equal(t, 30*time.Minute, cfg.DBMaxConnLifetime)
	assert.Equal(t, 45*time.Second, cfg.MediaIdleTimeout)
}
