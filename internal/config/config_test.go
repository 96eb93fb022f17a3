package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestApplyDefaults(t *testing.T) {
	t.Parallel()

	cfg := Config{}
	ApplyDefaults(&cfg)

	if cfg.BaseURL != DefaultBaseURL {
		t.Fatalf("base_url=%q", cfg.BaseURL)
	}
	if cfg.PollInterval != DefaultPollInterval {
		t.Fatalf("poll_interval=%v", cfg.PollInterval)
	}
	if cfg.SyncOnStart {
		t.Fatalf("sync_on_start default not false")
	}
}

func TestValidate_RejectsBadBaseURL(t *testing.T) {
	t.Parallel()

	cfg := Config{BaseURL: "localhost:2501", PollInterval: time.Second}
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected error")
	}

	cfg.BaseURL = "http://localhost:2501"
	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected: %v", err)
	}
}

func TestValidate_RejectsNonPositiveInterval(t *testing.T) {
	t.Parallel()

	cfg := Config{BaseURL: DefaultBaseURL, PollInterval: -time.Second}
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected error")
	}
}

func TestSave_Writes0600AndRoundTrips(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	path := filepath.Join(tmp, "shootout.yaml")
	in := Config{BaseURL: "http://kismet:2501", PollInterval: 2 * time.Second, SyncOnStart: true}
	if err := Save(path, in); err != nil {
		t.Fatalf("Save: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("mode=%o", info.Mode().Perm())
	}

	out, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if out.BaseURL != in.BaseURL || out.PollInterval != in.PollInterval || !out.SyncOnStart {
		t.Fatalf("config=%+v", out)
	}
}
