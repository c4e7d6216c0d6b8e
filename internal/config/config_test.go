package config

import (
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("ACCESS_SECRET_KEY", "access-secret-32-characters-ok!!")
	t.Setenv("REFRESH_SECRET_KEY", "refresh-secret-32-characters-ok!")
	t.Setenv("DB_PASSWORD", "test")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v, want nil", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("Port: got %v, want 8080", cfg.Server.Port)
	}
	if cfg.Auth.AccessTokenExpiry != 300*time.Second {
		t.Errorf("AccessTokenExpiry: got %v, want 300s", cfg.Auth.AccessTokenExpiry)
	}
	if cfg.Auth.RefreshTokenExpiry != 600*time.Second {
		t.Errorf("RefreshTokenExpiry: got %v, want 600s", cfg.Auth.RefreshTokenExpiry)
	}
	if cfg.RateLimit.Window != 10*time.Second {
		t.Errorf("RateLimit.Window: got %v, want 10s", cfg.RateLimit.Window)
	}
	if cfg.RateLimit.MaxLoginAttempts != 5 {
		t.Errorf("MaxLoginAttempts: got %v, want 5", cfg.RateLimit.MaxLoginAttempts)
	}
	if cfg.Cleanup.UnconfirmedTTL != 24*time.Hour {
		t.Errorf("UnconfirmedTTL: got %v, want 24h", cfg.Cleanup.UnconfirmedTTL)
	}
}

func TestLoad_MissingSecrets(t *testing.T) {
	t.Setenv("ACCESS_SECRET_KEY", "")
	t.Setenv("REFRESH_SECRET_KEY", "")
	t.Setenv("DB_PASSWORD", "test")

	if _, err := Load(); err == nil {
		t.Fatal("Load() with no secrets: got nil error")
	}
}

func TestLoad_IdenticalSecretsRejected(t *testing.T) {
	t.Setenv("ACCESS_SECRET_KEY", "same-secret-32-characters-long!!")
	t.Setenv("REFRESH_SECRET_KEY", "same-secret-32-characters-long!!")
	t.Setenv("DB_PASSWORD", "test")

	if _, err := Load(); err == nil {
		t.Fatal("Load() with identical secrets: got nil error")
	}
}

func TestLoad_ShortSecretRejected(t *testing.T) {
	t.Setenv("ACCESS_SECRET_KEY", "short")
	t.Setenv("REFRESH_SECRET_KEY", "refresh-secret-32-characters-ok!")
	t.Setenv("DB_PASSWORD", "test")

	if _, err := Load(); err == nil {
		t.Fatal("Load() with short access secret: got nil error")
	}
}

func TestLoad_MissingDBPassword(t *testing.T) {
	t.Setenv("ACCESS_SECRET_KEY", "access-secret-32-characters-ok!!")
	t.Setenv("REFRESH_SECRET_KEY", "refresh-secret-32-characters-ok!")
	t.Setenv("DB_PASSWORD", "")

	if _, err := Load(); err == nil {
		t.Fatal("Load() with no DB password: got nil error")
	}
}

func TestLoad_ProductionRequiresAdminPassword(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ENV", "production")
	t.Setenv("BASIC_AUTH_PASSWORD", "")

	if _, err := Load(); err == nil {
		t.Fatal("Load() in production without admin password: got nil error")
	}
}

func TestLoad_TrustedProxiesParsed(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 172.16.0.0/12")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v, want nil", err)
	}

	if len(cfg.Server.TrustedProxies) != 2 {
		t.Fatalf("TrustedProxies: got %d entries, want 2", len(cfg.Server.TrustedProxies))
	}
	if cfg.Server.TrustedProxies[1] != "172.16.0.0/12" {
		t.Errorf("TrustedProxies[1]: got %q, want 172.16.0.0/12", cfg.Server.TrustedProxies[1])
	}
}

func TestLoad_InvalidDurationFallsBack(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ACCESS_TOKEN_EXPIRY", "not-a-duration")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v, want nil", err)
	}

	if cfg.Auth.AccessTokenExpiry != 300*time.Second {
		t.Errorf("AccessTokenExpiry with invalid value: got %v, want 300s", cfg.Auth.AccessTokenExpiry)
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "bloghub",
		Password: "pw",
		Name:     "bloghub",
		SSLMode:  "require",
	}

	want := "host=db.internal port=5433 user=bloghub password=pw dbname=bloghub sslmode=require"
	if got := cfg.DSN(); got != want {
		t.Errorf("DSN: got %q, want %q", got, want)
	}
}
