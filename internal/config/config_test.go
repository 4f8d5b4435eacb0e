package config

import (
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Fatalf("server port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Admin.AccessCode == "" {
		t.Fatal("admin access code default missing")
	}
	if cfg.Fetcher.Workers <= 0 {
		t.Fatalf("fetcher workers = %d, want positive", cfg.Fetcher.Workers)
	}

	// Repositories infer not-found from affected rows, which only counts
	// matched rows when the driver flag is set.
	if !strings.Contains(cfg.MySQL.DSN, "clientFoundRows=true") {
		t.Fatalf("DSN %q missing clientFoundRows=true", cfg.MySQL.DSN)
	}
	if !strings.Contains(cfg.MySQL.DSN, "parseTime=true") {
		t.Fatalf("DSN %q missing parseTime=true", cfg.MySQL.DSN)
	}
}
