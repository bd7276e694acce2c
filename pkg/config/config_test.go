package config

import (
	"strings"
	"testing"
)

func TestEnsureDSNFromParts(t *testing.T) {
	cfg := DBConfig{
		Host:     "db.internal",
		Port:     5432,
		User:     "shopdesk",
		Password: "p@ss/word",
		Name:     "shopdesk",
		SSLMode:  "require",
	}
	if err := cfg.ensureDSN(); err != nil {
		t.Fatalf("ensureDSN: %v", err)
	}
	if !strings.HasPrefix(cfg.DSN, "postgres://shopdesk:") {
		t.Fatalf("unexpected DSN %q", cfg.DSN)
	}
	if !strings.Contains(cfg.DSN, "sslmode=require") {
		t.Fatalf("expected sslmode in DSN, got %q", cfg.DSN)
	}
	if strings.Contains(cfg.DSN, "p@ss/word") {
		t.Fatalf("expected password to be escaped, got %q", cfg.DSN)
	}
}

func TestEnsureDSNPrefersExplicitValue(t *testing.T) {
	cfg := DBConfig{DSN: "postgres://u:p@localhost:5432/db"}
	if err := cfg.ensureDSN(); err != nil {
		t.Fatalf("ensureDSN: %v", err)
	}
	if cfg.DSN != "postgres://u:p@localhost:5432/db" {
		t.Fatalf("expected DSN untouched, got %q", cfg.DSN)
	}
}

func TestEnsureDSNRequiresParts(t *testing.T) {
	cfg := DBConfig{Host: "only-host"}
	if err := cfg.ensureDSN(); err == nil {
		t.Fatal("expected error when user/name missing")
	}
}

func TestAppEnvHelpers(t *testing.T) {
	app := AppConfig{Env: "DEV"}
	if !app.IsDev() || app.IsProd() {
		t.Fatalf("expected dev env detection, got dev=%v prod=%v", app.IsDev(), app.IsProd())
	}
	app.Env = "prod"
	if !app.IsProd() || app.IsDev() {
		t.Fatalf("expected prod env detection")
	}
}
