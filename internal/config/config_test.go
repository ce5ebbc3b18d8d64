package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.VKBaseURL != "https://api.vk.com/method/" {
		t.Errorf("VKBaseURL = %q, want default api.vk.com endpoint", cfg.VKBaseURL)
	}
	if cfg.VKAPIVersion != "5.131" {
		t.Errorf("VKAPIVersion = %q, want 5.131", cfg.VKAPIVersion)
	}
	if cfg.RequestTimeout != 10*time.Second {
		t.Errorf("RequestTimeout = %v, want 10s", cfg.RequestTimeout)
	}
	if cfg.StorageType != "none" {
		t.Errorf("StorageType = %q, want none", cfg.StorageType)
	}
	if cfg.PublishersFile != "" {
		t.Errorf("PublishersFile = %q, want empty", cfg.PublishersFile)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want warn", cfg.LogLevel)
	}
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("VK_API_BASE_URL", "http://127.0.0.1:9999/method/")
	t.Setenv("VK_API_VERSION", "5.199")
	t.Setenv("VK_REQUEST_TIMEOUT_SECONDS", "3")
	t.Setenv("STORAGE_TYPE", "bbolt")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.VKBaseURL != "http://127.0.0.1:9999/method/" {
		t.Errorf("VKBaseURL = %q", cfg.VKBaseURL)
	}
	if cfg.VKAPIVersion != "5.199" {
		t.Errorf("VKAPIVersion = %q, want 5.199", cfg.VKAPIVersion)
	}
	if cfg.RequestTimeout != 3*time.Second {
		t.Errorf("RequestTimeout = %v, want 3s", cfg.RequestTimeout)
	}
	if cfg.StorageType != "bbolt" {
		t.Errorf("StorageType = %q, want bbolt", cfg.StorageType)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "zero timeout", key: "VK_REQUEST_TIMEOUT_SECONDS", val: "0"},
		{name: "negative ttl", key: "STORAGE_TTL_SECONDS", val: "-1"},
		{name: "zero cleanup", key: "STORAGE_CLEANUP_INTERVAL_SECONDS", val: "0"},
		{name: "blank version", key: "VK_API_VERSION", val: "  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%q", tt.key, tt.val)
			}
		})
	}
}
