package config

import (
	"testing"
	"time"
)

// setRequiredEnv は必須環境変数を設定する。
func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/scoutbase_test?sslmode=disable")
	t.Setenv("JWT_ACCESS_SECRET", "test-access-secret")
	t.Setenv("JWT_REFRESH_SECRET", "test-refresh-secret")
}

func TestLoadRequiresMandatoryVariables(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_ACCESS_SECRET", "")
	t.Setenv("JWT_REFRESH_SECRET", "")

	if _, err := Load(); err == nil {
		t.Error("Load should fail when required variables are missing")
	}
}

func TestLoadRejectsIdenticalJWTSecrets(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("JWT_REFRESH_SECRET", "test-access-secret")

	if _, err := Load(); err == nil {
		t.Error("Load should reject identical access/refresh secrets")
	}
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.AccessTokenTTL != 15*time.Minute {
		t.Errorf("AccessTokenTTL = %v, want 15m", cfg.AccessTokenTTL)
	}
	if cfg.RefreshTokenTTL != 7*24*time.Hour {
		t.Errorf("RefreshTokenTTL = %v, want 168h", cfg.RefreshTokenTTL)
	}
	if cfg.OTPTTL != 10*time.Minute {
		t.Errorf("OTPTTL = %v, want 10m", cfg.OTPTTL)
	}
	if cfg.ServerPort != "8080" {
		t.Errorf("ServerPort = %q, want 8080", cfg.ServerPort)
	}
	if cfg.MetricsPort != "9090" {
		t.Errorf("MetricsPort = %q, want 9090", cfg.MetricsPort)
	}
	if cfg.RateLimitGeneral != 120 {
		t.Errorf("RateLimitGeneral = %d, want 120", cfg.RateLimitGeneral)
	}
	if cfg.RateLimitOTP != 5 {
		t.Errorf("RateLimitOTP = %d, want 5", cfg.RateLimitOTP)
	}
	if cfg.NotificationRetentionDays != 90 {
		t.Errorf("NotificationRetentionDays = %d, want 90", cfg.NotificationRetentionDays)
	}
	if cfg.FetchMaxBodyBytes != 10*1024*1024 {
		t.Errorf("FetchMaxBodyBytes = %d, want 10MiB", cfg.FetchMaxBodyBytes)
	}
	if cfg.NewsFeedURLs != nil {
		t.Errorf("NewsFeedURLs = %v, want nil", cfg.NewsFeedURLs)
	}
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ACCESS_TOKEN_TTL", "30m")
	t.Setenv("SERVER_PORT", "3000")
	t.Setenv("RATE_LIMIT_GENERAL", "60")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.AccessTokenTTL != 30*time.Minute {
		t.Errorf("AccessTokenTTL = %v, want 30m", cfg.AccessTokenTTL)
	}
	if cfg.ServerPort != "3000" {
		t.Errorf("ServerPort = %q, want 3000", cfg.ServerPort)
	}
	if cfg.RateLimitGeneral != 60 {
		t.Errorf("RateLimitGeneral = %d, want 60", cfg.RateLimitGeneral)
	}
}

func TestLoadInvalidValuesFallBackToDefaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("OTP_TTL", "not-a-duration")
	t.Setenv("RATE_LIMIT_OTP", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.OTPTTL != 10*time.Minute {
		t.Errorf("OTPTTL = %v, want default 10m", cfg.OTPTTL)
	}
	if cfg.RateLimitOTP != 5 {
		t.Errorf("RateLimitOTP = %d, want default 5", cfg.RateLimitOTP)
	}
}

func TestGetEnvStringListParsing(t *testing.T) {
	t.Setenv("TEST_FEED_LIST", " https://a.example/feed.xml, ,https://b.example/rss ,")

	got := getEnvStringList("TEST_FEED_LIST")
	want := []string{"https://a.example/feed.xml", "https://b.example/rss"}

	if len(got) != len(want) {
		t.Fatalf("got %d entries, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d = %q, want %q", i, got[i], want[i])
		}
	}
}
