package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"sync"
)

// Config holds the process configuration. The zero value is completed by
// defaults; a JSON config file and LILIBOX_* environment variables override
// it (env wins).
type Config struct {
	Port            int    `json:"port"`
	MediaFolderID   string `json:"mediaFolderId"`
	TMDBAPIKey      string `json:"tmdbApiKey"`
	TMDBLanguage    string `json:"tmdbLanguage"`
	CredentialsPath string `json:"credentialsPath"`
	TokenPath       string `json:"tokenPath"`
	LogFile         string `json:"logFile"`
	AllowAnyOrigin  bool   `json:"allowAnyOrigin"`
	// Catalog rate limiting (requests per minute per IP, 0 disables).
	CatalogRatePerMinute int `json:"catalogRatePerMinute"`
	CatalogRateBurst     int `json:"catalogRateBurst"`
}

const (
	DefaultPort             = 3000
	DefaultTMDBLanguage     = "en-US"
	DefaultCredentialsPath  = "credentials.json"
	DefaultTokenPath        = "token.json"
	DefaultCatalogRate      = 30
	DefaultCatalogRateBurst = 10
)

// Manager guards concurrent reads of the loaded configuration. The config is
// read-only after Load; the mutex exists so a future reload stays safe.
type Manager struct {
	mu  sync.RWMutex
	cfg Config
}

// Load reads the config file (optional: a missing file just means defaults),
// applies environment overrides and validates the result.
func Load(path string) (*Manager, error) {
	cfg := Config{
		Port:                 DefaultPort,
		TMDBLanguage:         DefaultTMDBLanguage,
		CredentialsPath:      DefaultCredentialsPath,
		TokenPath:            DefaultTokenPath,
		AllowAnyOrigin:       true,
		CatalogRatePerMinute: DefaultCatalogRate,
		CatalogRateBurst:     DefaultCatalogRateBurst,
	}

	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := json.Unmarshal(b, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d", cfg.Port)
	}
	if cfg.MediaFolderID == "" {
		return nil, fmt.Errorf("media folder id is required (set mediaFolderId or MEDIA_FOLDER_ID)")
	}

	return &Manager{cfg: cfg}, nil
}

// Get returns a snapshot of the current configuration.
func (m *Manager) Get() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Port = port
		}
	}
	// MEDIA_FOLDER_ID keeps the original deployment's variable name.
	if v := os.Getenv("MEDIA_FOLDER_ID"); v != "" {
		cfg.MediaFolderID = v
	}
	if v := os.Getenv("LILIBOX_TMDB_API_KEY"); v != "" {
		cfg.TMDBAPIKey = v
	}
	if v := os.Getenv("LILIBOX_TMDB_LANGUAGE"); v != "" {
		cfg.TMDBLanguage = v
	}
	if v := os.Getenv("LILIBOX_CREDENTIALS_PATH"); v != "" {
		cfg.CredentialsPath = v
	}
	if v := os.Getenv("LILIBOX_TOKEN_PATH"); v != "" {
		cfg.TokenPath = v
	}
	if v := os.Getenv("LILIBOX_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
}
