package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := DefaultConfig()
	if cfg.Server.Port != want.Server.Port || cfg.Gemini.DefaultModel != want.Gemini.DefaultModel {
		t.Errorf("got %+v, want defaults", cfg)
	}
	if cfg.Favorites.Backend != BackendSQLite {
		t.Errorf("backend = %q, want sqlite", cfg.Favorites.Backend)
	}
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
server:
  port: 9090
gemini:
  api_key: from-file
  idea_count: 5
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("GEMINI_API_KEY", "")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("host = %q, want default", cfg.Server.Host)
	}
	if cfg.Gemini.APIKey != "from-file" || cfg.Gemini.IdeaCount != 5 {
		t.Errorf("gemini = %+v", cfg.Gemini)
	}
	if cfg.Gemini.BaseURL == "" {
		t.Error("base_url lost its default")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("gemini:\n  api_key: from-file\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("GEMINI_API_KEY", "from-env")
	t.Setenv("IDEAGEN_NATS_URL", "nats://example:4222")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Gemini.APIKey != "from-env" {
		t.Errorf("api key = %q, want from-env", cfg.Gemini.APIKey)
	}
	if cfg.NATS.URL != "nats://example:4222" {
		t.Errorf("nats url = %q", cfg.NATS.URL)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"mongo", func(c *Config) { c.Favorites.Backend = BackendMongo }, false},
		{"firestore without project", func(c *Config) { c.Favorites.Backend = BackendFirestore }, true},
		{"firestore with project", func(c *Config) {
			c.Favorites.Backend = BackendFirestore
			c.Favorites.Firestore.ProjectID = "p"
		}, false},
		{"unknown backend", func(c *Config) { c.Favorites.Backend = "redis" }, true},
		{"zero count", func(c *Config) { c.Gemini.IdeaCount = 0 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
