package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"MOVIECHAT_PRIMARY_URL",
		"MOVIECHAT_FALLBACK_URL",
		"MOVIECHAT_OPENAI_API_KEY",
		"MOVIECHAT_OPENAI_BASE_URL",
		"MOVIECHAT_OPENAI_MODEL",
		"MOVIECHAT_DEBUG",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_CreatesDefaultFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", DefaultConfigFile)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(cfg.Endpoints) != 2 {
		t.Fatalf("expected 2 default endpoints, got %d", len(cfg.Endpoints))
	}
	if cfg.Endpoints[0].Kind != KindAgent || cfg.Endpoints[1].Kind != KindCompletion {
		t.Errorf("unexpected endpoint order: %+v", cfg.Endpoints)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected default config to be written: %v", err)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), DefaultConfigFile)
	data := "content:\n  suggestions:\n    - Only this one\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(cfg.Content.Suggestions) != 1 || cfg.Content.Suggestions[0] != "Only this one" {
		t.Errorf("unexpected suggestions: %v", cfg.Content.Suggestions)
	}
	if cfg.Content.SystemPrompt != DefaultConfig().Content.SystemPrompt {
		t.Error("expected default system prompt to be kept")
	}
	if len(cfg.Endpoints) != 2 {
		t.Errorf("expected default endpoints, got %d", len(cfg.Endpoints))
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), DefaultConfigFile)
	if err := os.WriteFile(path, []byte("endpoints: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("MOVIECHAT_PRIMARY_URL", "http://127.0.0.1:9000/generate")
	t.Setenv("MOVIECHAT_FALLBACK_URL", "http://127.0.0.1:9001/llm")
	t.Setenv("MOVIECHAT_OPENAI_API_KEY", "sk-test")
	t.Setenv("MOVIECHAT_DEBUG", "true")

	cfg, err := Load(filepath.Join(t.TempDir(), DefaultConfigFile))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got := cfg.Endpoints[0].URL; got != "http://127.0.0.1:9000/generate" {
		t.Errorf("primary URL = %q", got)
	}
	if got := cfg.Endpoints[1].URL; got != "http://127.0.0.1:9001/llm" {
		t.Errorf("fallback URL = %q", got)
	}
	if len(cfg.Endpoints) != 3 {
		t.Fatalf("expected openai endpoint to be appended, got %d endpoints", len(cfg.Endpoints))
	}
	openai := cfg.Endpoints[2]
	if openai.Kind != KindOpenAI || openai.APIKey != "sk-test" || openai.Model != "gpt-4o-mini" {
		t.Errorf("unexpected openai endpoint: %+v", openai)
	}
	if !cfg.Debug {
		t.Error("expected debug to be enabled")
	}
}

func TestLoadDotEnv(t *testing.T) {
	t.Run("Missing file is ignored", func(t *testing.T) {
		if err := LoadDotEnv(filepath.Join(t.TempDir(), ".env")); err != nil {
			t.Errorf("LoadDotEnv() error = %v", err)
		}
	})

	t.Run("Values are exported", func(t *testing.T) {
		t.Setenv("MOVIECHAT_FALLBACK_URL", "")
		os.Unsetenv("MOVIECHAT_FALLBACK_URL")
		path := filepath.Join(t.TempDir(), ".env")
		if err := os.WriteFile(path, []byte("MOVIECHAT_FALLBACK_URL=http://example.test/llm\n"), 0644); err != nil {
			t.Fatal(err)
		}

		if err := LoadDotEnv(path); err != nil {
			t.Fatalf("LoadDotEnv() error = %v", err)
		}
		if got := os.Getenv("MOVIECHAT_FALLBACK_URL"); got != "http://example.test/llm" {
			t.Errorf("MOVIECHAT_FALLBACK_URL = %q", got)
		}
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:   "Defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "No endpoints",
			mutate:  func(c *Config) { c.Endpoints = nil },
			wantErr: "at least one endpoint",
		},
		{
			name:    "Unknown kind",
			mutate:  func(c *Config) { c.Endpoints[0].Kind = "grpc" },
			wantErr: "unknown kind",
		},
		{
			name:    "Empty URL",
			mutate:  func(c *Config) { c.Endpoints[1].URL = "" },
			wantErr: "url must not be empty",
		},
		{
			name: "OpenAI without key",
			mutate: func(c *Config) {
				c.Endpoints = append(c.Endpoints, EndpointConfig{Name: "openai", Kind: KindOpenAI, Model: "gpt-4o-mini"})
			},
			wantErr: "api_key must not be empty",
		},
		{
			name:    "No suggestions",
			mutate:  func(c *Config) { c.Content.Suggestions = nil },
			wantErr: "suggestions must not be empty",
		},
		{
			name:    "No error reply",
			mutate:  func(c *Config) { c.Content.ErrorReply = "" },
			wantErr: "error_reply must not be empty",
		},
		{
			name:    "No error notice",
			mutate:  func(c *Config) { c.Content.ErrorNotice = "" },
			wantErr: "error_notice must not be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}
