package config

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Logging   LoggingConfig   `yaml:"logging"`
	Gemini    GeminiConfig    `yaml:"gemini"`
	Favorites FavoritesConfig `yaml:"favorites"`
	NATS      NATSConfig      `yaml:"nats"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Export    ExportConfig    `yaml:"export"`
}

type ServerConfig struct {
	Host                string `yaml:"host"`
	Port                int    `yaml:"port"`
	ReadTimeoutSeconds  int    `yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `yaml:"write_timeout_seconds"`
	SessionTTLHours     int    `yaml:"session_ttl_hours"`
}

type DatabaseConfig struct {
	Path                string `yaml:"path"`
	HousekeepingMinutes int    `yaml:"housekeeping_minutes"`
	// LogRetentionDays of 0 keeps the generation log forever.
	LogRetentionDays int `yaml:"log_retention_days"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

type GeminiConfig struct {
	APIKey         string `yaml:"api_key"`
	BaseURL        string `yaml:"base_url"`
	DefaultModel   string `yaml:"default_model"`
	PreferredModel string `yaml:"preferred_model"`
	ModelFamily    string `yaml:"model_family"`
	IdeaCount      int    `yaml:"idea_count"`
	// DiscoverySeconds bounds the startup model listing only.
	DiscoverySeconds int `yaml:"discovery_seconds"`
}

// Favorites backends.
const (
	BackendSQLite    = "sqlite"
	BackendMongo     = "mongo"
	BackendFirestore = "firestore"
)

type FavoritesConfig struct {
	Backend   string          `yaml:"backend"`
	Mongo     MongoConfig     `yaml:"mongo"`
	Firestore FirestoreConfig `yaml:"firestore"`
}

type MongoConfig struct {
	URI        string `yaml:"uri"`
	Database   string `yaml:"database"`
	Collection string `yaml:"collection"`
}

type FirestoreConfig struct {
	ProjectID  string `yaml:"project_id"`
	Collection string `yaml:"collection"`
}

type NATSConfig struct {
	// URL is empty when event publishing is disabled.
	URL           string `yaml:"url"`
	SubjectPrefix string `yaml:"subject_prefix"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type ExportConfig struct {
	PublicBaseURL string `yaml:"public_base_url"`
}

func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Host:                "0.0.0.0",
			Port:                8080,
			ReadTimeoutSeconds:  30,
			WriteTimeoutSeconds: 120,
			SessionTTLHours:     7 * 24,
		},
		Database: DatabaseConfig{
			Path:                "./ideagen.db",
			HousekeepingMinutes: 60,
			LogRetentionDays:    90,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Gemini: GeminiConfig{
			BaseURL:          "https://generativelanguage.googleapis.com/v1",
			DefaultModel:     "gemini-1.5-flash",
			PreferredModel:   "gemini-1.5-flash",
			ModelFamily:      "gemini",
			IdeaCount:        20,
			DiscoverySeconds: 10,
		},
		Favorites: FavoritesConfig{
			Backend: BackendSQLite,
			Mongo: MongoConfig{
				URI:        "mongodb://localhost:27017",
				Database:   "ideagen",
				Collection: "favorites",
			},
			Firestore: FirestoreConfig{
				Collection: "favorites",
			},
		},
		NATS: NATSConfig{
			SubjectPrefix: "ideagen",
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
		Export: ExportConfig{
			PublicBaseURL: "http://localhost:8080",
		},
	}
}

// Load reads a YAML config file and merges it over defaults, then applies
// environment overrides. If the file does not exist, defaults are used.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	case os.IsNotExist(err):
		slog.Info("No config file found, using defaults", "path", path)
	default:
		return cfg, err
	}

	applyEnvOverrides(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.Gemini.APIKey = v
	}
	if v := os.Getenv("IDEAGEN_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("IDEAGEN_MONGO_URI"); v != "" {
		cfg.Favorites.Mongo.URI = v
	}
	if v := os.Getenv("IDEAGEN_NATS_URL"); v != "" {
		cfg.NATS.URL = v
	}
}

// Validate checks values that would otherwise fail late at startup.
func (c Config) Validate() error {
	switch c.Favorites.Backend {
	case BackendSQLite, BackendMongo:
	case BackendFirestore:
		if c.Favorites.Firestore.ProjectID == "" {
			return fmt.Errorf("favorites.firestore.project_id is required for the firestore backend")
		}
	default:
		return fmt.Errorf("unknown favorites backend %q", c.Favorites.Backend)
	}
	if c.Gemini.IdeaCount <= 0 {
		return fmt.Errorf("gemini.idea_count must be positive, got %d", c.Gemini.IdeaCount)
	}
	return nil
}
