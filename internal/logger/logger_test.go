package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/Adda-Baaj/vk-fetch/internal/config"
)

func TestInitWriterFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := InitWriter(&config.Config{LogLevel: "warn"}, &buf)
	if err != nil {
		t.Fatalf("InitWriter: %v", err)
	}
	defer func() { S = nil }()

	log.InfoObj("hidden", "k", "v")
	log.WarnObj("visible", "fetch_error", map[string]any{"method": "friends.get"})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 log line, got %d: %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["msg"] != "visible" {
		t.Fatalf("msg = %v, want visible", entry["msg"])
	}
	if _, ok := entry["ts"]; !ok {
		t.Fatalf("expected ts key in %v", entry)
	}
	field, ok := entry["fetch_error"].(map[string]any)
	if !ok || field["method"] != "friends.get" {
		t.Fatalf("unexpected structured field %v", entry["fetch_error"])
	}
}

func TestHelpersAreSafeBeforeInit(t *testing.T) {
	S = nil
	InfoObj("msg", "k", 1)
	ErrorObj("msg", "k", 1)
	if err := Close(); err != nil {
		t.Fatalf("Close before init: %v", err)
	}
}

func TestParseLevelFallsBackToInfo(t *testing.T) {
	if got := parseLevel("verbose"); got.String() != "info" {
		t.Fatalf("parseLevel(verbose) = %s, want info", got)
	}
	if got := parseLevel(" WARNING "); got.String() != "warn" {
		t.Fatalf("parseLevel(WARNING) = %s, want warn", got)
	}
}
