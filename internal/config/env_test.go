package config

import (
	"strings"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("SECRET_AUTH_KEY", "testsecret")
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("LLM_BACKEND", "ollama")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.ArchiveQueueSize != 4 {
		t.Fatalf("archive queue: got=%d want=4", cfg.ArchiveQueueSize)
	}
	if cfg.ChunkSize != 512 || cfg.ChunkOverlap != 20 {
		t.Fatalf("chunking: got=%d/%d want=512/20", cfg.ChunkSize, cfg.ChunkOverlap)
	}
	if cfg.RequestTimeout != 0 {
		t.Fatalf("request timeout should be disabled by default, got %s", cfg.RequestTimeout)
	}
	if cfg.ArchiveEnabled() {
		t.Fatalf("archive should be off without a bucket")
	}
}

func TestLoadConfigRequiresSecret(t *testing.T) {
	t.Setenv("SECRET_AUTH_KEY", "")
	t.Setenv("STORE_BACKEND", "memory")
	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error without SECRET_AUTH_KEY")
	}
}

func TestLoadConfigRejectsMalformedValues(t *testing.T) {
	t.Setenv("SECRET_AUTH_KEY", "testsecret")
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("LLM_BACKEND", "ollama")
	t.Setenv("CHUNK_SIZE", "lots")
	t.Setenv("REQUEST_TIMEOUT", "30")

	_, err := LoadConfig()
	if err == nil {
		t.Fatalf("expected error for malformed values")
	}
	for _, key := range []string{"CHUNK_SIZE", "REQUEST_TIMEOUT"} {
		if !strings.Contains(err.Error(), key) {
			t.Fatalf("error should name %s: %v", key, err)
		}
	}
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{
			AuthSecret:   "s",
			StoreBackend: StoreMemory,
			LLMBackend:   LLMOllama,
			ChunkSize:    512,
			ChunkOverlap: 20,
		}
	}
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"ok", func(*Config) {}, false},
		{"unknown store", func(c *Config) { c.StoreBackend = "sqlite" }, true},
		{"postgres without url", func(c *Config) { c.StoreBackend = StorePostgres }, true},
		{"gemini without key", func(c *Config) { c.LLMBackend = LLMGemini }, true},
		{"openai with key", func(c *Config) { c.LLMBackend = LLMOpenAI; c.OpenAIKey = "k" }, false},
		{"overlap too large", func(c *Config) { c.ChunkOverlap = 512 }, true},
		{"archive without queue", func(c *Config) {
			c.BucketName, c.AwsAccessKey, c.AwsSecretKey = "b", "a", "s"
		}, true},
		{"archive with queue", func(c *Config) {
			c.BucketName, c.AwsAccessKey, c.AwsSecretKey, c.ArchiveQueueSize = "b", "a", "s", 2
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(&c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() err=%v wantErr=%v", err, tt.wantErr)
			}
		})
	}
}

func TestGetEnvList(t *testing.T) {
	t.Setenv("X_LIST", " http://a.com, ,http://b.com ")
	got := getEnvList("X_LIST", nil)
	if len(got) != 2 || got[0] != "http://a.com" || got[1] != "http://b.com" {
		t.Fatalf("unexpected list: %v", got)
	}
}
