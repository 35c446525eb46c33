// Package config manages global (~/.config/cinematch/config.toml) and
// per-dataset (.cinematch/config.toml) configuration for cinematch.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// DirName is the per-dataset directory holding the database and config.
const DirName = ".cinematch"

// GlobalConfig holds user-wide settings.
type GlobalConfig struct {
	TMDB      TMDBConfig      `toml:"tmdb"`
	Recommend RecommendConfig `toml:"recommend"`
	Server    ServerConfig    `toml:"server"`
	Log       LogConfig       `toml:"log"`
}

// TMDBConfig controls the metadata enrichment client.
type TMDBConfig struct {
	APIKey         string  `toml:"api_key"`
	BaseURL        string  `toml:"base_url"`
	ImageBaseURL   string  `toml:"image_base_url"`
	Language       string  `toml:"language"`
	TimeoutMs      int     `toml:"timeout_ms"`
	RateLimit      float64 `toml:"rate_limit"` // requests per second
	Burst          int     `toml:"burst"`
	MaxConcurrency int     `toml:"max_concurrency"`
}

// Timeout returns the per-fetch timeout.
func (c TMDBConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// RecommendConfig controls ranking and title resolution.
type RecommendConfig struct {
	TopK           int     `toml:"top_k"`
	FuzzyFallback  bool    `toml:"fuzzy_fallback"`
	FuzzyThreshold float64 `toml:"fuzzy_threshold"` // 0-100; 0 accepts any best match
	OverviewChars  int     `toml:"overview_chars"`
}

type ServerConfig struct {
	Addr              string `toml:"addr"`
	RequestsPerMinute int    `toml:"requests_per_minute"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// ProjectConfig holds per-dataset overrides stored in .cinematch/config.toml.
type ProjectConfig struct {
	Dataset        DatasetMeta `toml:"dataset"`
	TopK           int         `toml:"top_k,omitempty"`
	FuzzyThreshold *float64    `toml:"fuzzy_threshold,omitempty"`
}

type DatasetMeta struct {
	Name   string `toml:"name"`
	Movies string `toml:"movies"`
	Matrix string `toml:"matrix"`
}

// DefaultGlobal returns sensible defaults.
func DefaultGlobal() GlobalConfig {
	return GlobalConfig{
		TMDB: TMDBConfig{
			BaseURL:        "https://api.themoviedb.org/3",
			ImageBaseURL:   "https://image.tmdb.org/t/p/w500",
			Language:       "en-US",
			TimeoutMs:      5000,
			RateLimit:      20,
			Burst:          5,
			MaxConcurrency: 5,
		},
		Recommend: RecommendConfig{
			TopK:           5,
			FuzzyFallback:  true,
			FuzzyThreshold: 60,
			OverviewChars:  200,
		},
		Server: ServerConfig{
			Addr:              ":8080",
			RequestsPerMinute: 120,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "auto",
		},
	}
}

// GlobalConfigPath returns the path to the global config file.
func GlobalConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "cinematch", "config.toml"), nil
}

// LoadGlobal loads the global config, applying defaults for any missing values.
func LoadGlobal() (GlobalConfig, error) {
	cfg := DefaultGlobal()

	path, err := GlobalConfigPath()
	if err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			if _, err := toml.DecodeFile(path, &cfg); err != nil {
				return cfg, fmt.Errorf("config: load global: %w", err)
			}
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

// applyEnv lets environment variables override file values.
func applyEnv(cfg *GlobalConfig) {
	if v := os.Getenv("TMDB_API_KEY"); v != "" {
		cfg.TMDB.APIKey = v
	}
	if v := os.Getenv("CINEMATCH_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

// SaveGlobal writes the global config to disk.
func SaveGlobal(cfg GlobalConfig) error {
	path, err := GlobalConfigPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: mkdir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("config: create global config: %w", err)
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// LoadProject loads .cinematch/config.toml from the given root.
func LoadProject(root string) (ProjectConfig, error) {
	var cfg ProjectConfig
	path := filepath.Join(ProjectConfigDirPath(root), "config.toml")

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("config: load project: %w", err)
	}
	return cfg, nil
}

// SaveProject writes the project config to .cinematch/config.toml.
func SaveProject(root string, cfg ProjectConfig) error {
	dir := ProjectConfigDirPath(root)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("config: mkdir project: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, "config.toml"))
	if err != nil {
		return fmt.Errorf("config: create project config: %w", err)
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// ProjectDBPath returns the path to the packaged dataset database.
func ProjectDBPath(root string) string {
	return filepath.Join(root, DirName, "cinematch.db")
}

// ProjectConfigDirPath returns the path to the .cinematch/ directory.
func ProjectConfigDirPath(root string) string {
	return filepath.Join(root, DirName)
}

// Load returns the effective config for a dataset root (global merged with project).
func Load(root string) (GlobalConfig, error) {
	global, err := LoadGlobal()
	if err != nil {
		return global, err
	}

	project, err := LoadProject(root)
	if err != nil {
		return global, err
	}
	if project.TopK > 0 {
		global.Recommend.TopK = project.TopK
	}
	if project.FuzzyThreshold != nil {
		global.Recommend.FuzzyThreshold = *project.FuzzyThreshold
	}
	return global, nil
}
