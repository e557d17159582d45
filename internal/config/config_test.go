package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("LOANDESK_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))

	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.API.Timeout != 30*time.Second {
		t.Errorf("api.timeout = %v", c.API.Timeout)
	}
	if c.Poll.RefreshInterval != 60*time.Second {
		t.Errorf("poll.refresh_interval = %v", c.Poll.RefreshInterval)
	}
	if c.Poll.AssignmentInterval != 30*time.Second {
		t.Errorf("poll.assignment_interval = %v", c.Poll.AssignmentInterval)
	}
	if c.Poll.DebounceDelay != 300*time.Millisecond {
		t.Errorf("poll.debounce_delay = %v", c.Poll.DebounceDelay)
	}
	if c.Log.Level != "info" {
		t.Errorf("log.level = %q", c.Log.Level)
	}
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := "[api]\nbase_url = \"https://workflow.example.com\"\n\n[poll]\nrefresh_interval = \"2m\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("LOANDESK_CONFIG", path)
	t.Setenv("LOANDESK_LOG_LEVEL", "debug")

	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.API.BaseURL != "https://workflow.example.com" {
		t.Errorf("api.base_url = %q", c.API.BaseURL)
	}
	if c.Poll.RefreshInterval != 2*time.Minute {
		t.Errorf("poll.refresh_interval = %v", c.Poll.RefreshInterval)
	}
	if c.Log.Level != "debug" {
		t.Errorf("log.level = %q", c.Log.Level)
	}
}
