package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gochat.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "k1")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LLM.Model != DefaultModel || cfg.LLM.BaseURL != DefaultBaseURL {
		t.Errorf("unexpected llm defaults: %+v", cfg.LLM)
	}
	if cfg.LLM.APIKey != "k1" {
		t.Errorf("APIKey = %q, want k1", cfg.LLM.APIKey)
	}
	if cfg.UI.DefaultLanguage != "python" {
		t.Errorf("DefaultLanguage = %q", cfg.UI.DefaultLanguage)
	}
	if len(cfg.Chat.DeveloperQuestions) != len(DefaultDeveloperQuestions) {
		t.Errorf("developer questions = %v", cfg.Chat.DeveloperQuestions)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoad_File(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "k2")
	path := writeConfig(t, `
addr: ":9000"
llm:
  model: gemini-1.5-pro
  timeout: 5s
chat:
  developer_answer: "The Team"
  max_turns: 3
ui:
  default_language: go
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":9000" {
		t.Errorf("Addr = %q", cfg.Addr)
	}
	if cfg.LLM.Model != "gemini-1.5-pro" || cfg.LLM.Timeout != 5*time.Second {
		t.Errorf("LLM = %+v", cfg.LLM)
	}
	// untouched keys keep their defaults
	if cfg.LLM.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %q", cfg.LLM.BaseURL)
	}
	if cfg.Chat.DeveloperAnswer != "The Team" || cfg.Chat.MaxTurns != 3 {
		t.Errorf("Chat = %+v", cfg.Chat)
	}
	if cfg.UI.DefaultLanguage != "go" {
		t.Errorf("DefaultLanguage = %q", cfg.UI.DefaultLanguage)
	}
	if cfg.LLM.APIKey != "k2" {
		t.Errorf("APIKey = %q, want fallback k2", cfg.LLM.APIKey)
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); !os.IsNotExist(err) {
		t.Errorf("missing file: err = %v", err)
	}
	path := writeConfig(t, "addr: [unterminated")
	if _, err := Load(path); err == nil {
		t.Error("expected decode error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"no api key", func(c *Config) { c.LLM.APIKey = "" }, true},
		{"no model", func(c *Config) { c.LLM.Model = "" }, true},
		{"negative turns", func(c *Config) { c.Chat.MaxTurns = -1 }, true},
		{"empty trigger", func(c *Config) { c.Chat.DeveloperQuestions = []string{""} }, true},
		{"no answer", func(c *Config) { c.Chat.DeveloperAnswer = "" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.LLM.APIKey = "key"
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
