package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaultsWithMemoryStorage(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("CONFIG_FILE", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPPort != "8080" || cfg.VoterIdentityMode != "ip_fallback" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.AdminTokenTTL != 12*time.Hour || cfg.BroadcastBuffer != 64 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadFileThenEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lanvote.yaml")
	body := []byte("storage_driver: memory\nhttp_port: \"9090\"\nestimated_voters: 40\nadmin_token_ttl: 30m\nvoter_identity_mode: exact\n")
	if err := os.WriteFile(path, body, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("HTTP_PORT", "7070")
	t.Setenv("TRUST_PROXY_HEADERS", "yes")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPPort != "7070" {
		t.Fatalf("expected env to win over file, got %q", cfg.HTTPPort)
	}
	if cfg.EstimatedVoters != 40 || cfg.AdminTokenTTL != 30*time.Minute || cfg.VoterIdentityMode != "exact" {
		t.Fatalf("expected file values, got %+v", cfg)
	}
	if !cfg.TrustProxyHeaders {
		t.Fatalf("expected trust proxy headers from env")
	}
}

func TestLoadRequiresDSNForPostgres(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("POSTGRES_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected missing dsn to fail")
	}
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("STORAGE_DRIVER", "sqlite")

	if _, err := Load(); err == nil {
		t.Fatalf("expected unknown driver to fail")
	}
}

func TestEnvHelpersFallBackOnGarbage(t *testing.T) {
	t.Setenv("X_INT", "abc")
	t.Setenv("X_DUR", "soon")
	t.Setenv("X_BOOL", "maybe")

	if got := envInt("X_INT", 3); got != 3 {
		t.Fatalf("envInt fallback: got %d", got)
	}
	if got := envDuration("X_DUR", time.Second); got != time.Second {
		t.Fatalf("envDuration fallback: got %s", got)
	}
	if got := envBool("X_BOOL", true); !got {
		t.Fatalf("envBool fallback: got %v", got)
	}
}
