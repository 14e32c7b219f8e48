package config

import (
	"strings"
	"testing"
)

// mapBackend is a test double for ConfigBackend.
type mapBackend struct {
	strings map[string]string
	ints    map[string]int
}

func (m *mapBackend) GetString(key string) (string, bool, error) {
	v, ok := m.strings[key]
	return v, ok, nil
}

func (m *mapBackend) GetInt(key string) (int, bool, error) {
	v, ok := m.ints[key]
	return v, ok, nil
}

func (m *mapBackend) SetString(key, val string) error {
	m.strings[key] = val
	return nil
}

func (m *mapBackend) SetInt(key string, val int) error {
	m.ints[key] = val
	return nil
}

func (m *mapBackend) Delete(key string) error {
	delete(m.strings, key)
	delete(m.ints, key)
	return nil
}

func emptyBackend() *mapBackend {
	return &mapBackend{strings: map[string]string{}, ints: map[string]int{}}
}

// TestDefaults verifies default values survive an empty backend.
func TestDefaults(t *testing.T) {
	cfg, err := loadWith(emptyBackend())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 4600 {
		t.Errorf("Server.Port = %d, want 4600", cfg.Server.Port)
	}
	if cfg.Speech.BaseURL != "http://localhost:5002" {
		t.Errorf("Speech.BaseURL = %q", cfg.Speech.BaseURL)
	}
	if cfg.Speech.Locale != "hi-IN" {
		t.Errorf("Speech.Locale = %q, want hi-IN", cfg.Speech.Locale)
	}
	if cfg.Notify.WebhookURL != "" {
		t.Errorf("Notify.WebhookURL = %q, want empty", cfg.Notify.WebhookURL)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
	}
}

func TestBackendValues(t *testing.T) {
	b := emptyBackend()
	b.ints["server.port"] = 9001
	b.strings["speech.locale"] = "en-IN"

	cfg, err := loadWith(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 9001 {
		t.Errorf("Server.Port = %d, want 9001", cfg.Server.Port)
	}
	if cfg.Speech.Locale != "en-IN" {
		t.Errorf("Speech.Locale = %q, want en-IN", cfg.Speech.Locale)
	}
}

// TestEnvOverride verifies environment variables beat backend values.
func TestEnvOverride(t *testing.T) {
	b := emptyBackend()
	b.strings["speech.base_url"] = "http://file-value:5002"

	t.Setenv("YAAD_SPEECH_BASE_URL", "http://env-value:5002")
	t.Setenv("YAAD_SERVER_PORT", "7777")

	cfg, err := loadWith(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Speech.BaseURL != "http://env-value:5002" {
		t.Errorf("Speech.BaseURL = %q, want env value", cfg.Speech.BaseURL)
	}
	if cfg.Server.Port != 7777 {
		t.Errorf("Server.Port = %d, want 7777", cfg.Server.Port)
	}
}

// An unknown key must fail before touching the config file, and the
// error should tell the user what the valid keys are.
func TestSetKey_Unknown(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	err := SetKey("no.such.key", "x")
	if err == nil {
		t.Fatal("SetKey accepted an unknown key")
	}
	if !strings.Contains(err.Error(), "server.port") {
		t.Errorf("error does not list valid keys: %v", err)
	}
}

func TestGetAPIToken_StableAcrossCalls(t *testing.T) {
	dir := t.TempDir()

	tok1, err := GetAPIToken(dir)
	if err != nil {
		t.Fatalf("first GetAPIToken: %v", err)
	}
	if len(tok1) != 64 {
		t.Errorf("token length = %d, want 64 hex chars", len(tok1))
	}

	tok2, err := GetAPIToken(dir)
	if err != nil {
		t.Fatalf("second GetAPIToken: %v", err)
	}
	if tok1 != tok2 {
		t.Error("token changed between calls")
	}
}
