package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	toml "github.com/pelletier/go-toml/v2"
)

// Config captures everything shopkeep needs to reach the catalog API.
// Credentials come only from the environment; the TOML file never holds
// secrets.
type Config struct {
	APIURL   string
	Username string
	Password string
	FreshFor time.Duration
	LogPath  string
}

const (
	defaultConfigPath = "~/.config/shopkeep/config.toml"
	defaultLogPath    = "~/.local/state/shopkeep/shopkeep.log"
	defaultAPIURL     = "http://localhost:5000"
	defaultFreshMins  = 5
	envPrefix         = "SHOPKEEP_"
)

// envOverrides are applied on top of the file. Username and password have no
// file-based fallback and must be present.
type envOverrides struct {
	APIURL   string `env:"API_URL"`
	Username string `env:"USERNAME,required"`
	Password string `env:"PASSWORD,required"`
	LogPath  string `env:"LOG_PATH"`
}

// Load locates and parses the shopkeep config, falling back to defaults when
// the file is missing, then overlays SHOPKEEP_* environment variables.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		APIURL:   defaultAPIURL,
		FreshFor: defaultFreshMins * time.Minute,
		LogPath:  mustExpand(defaultLogPath),
	}

	file, err := os.Open(resolved)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("open config: %w", err)
		}
	} else {
		defer file.Close()

		bytes, err := io.ReadAll(file)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}

		var raw struct {
			APIURL       string `toml:"api_url"`
			CacheTTLMins int    `toml:"cache_ttl_minutes"`
			LogPath      string `toml:"log_path"`
		}
		if err := toml.Unmarshal(bytes, &raw); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}

		if v := strings.TrimSpace(raw.APIURL); v != "" {
			cfg.APIURL = v
		}
		if raw.CacheTTLMins > 0 {
			cfg.FreshFor = time.Duration(raw.CacheTTLMins) * time.Minute
		}
		if v := strings.TrimSpace(raw.LogPath); v != "" {
			cfg.LogPath = mustExpand(v)
		}
	}

	var ov envOverrides
	if err := env.ParseWithOptions(&ov, env.Options{Prefix: envPrefix}); err != nil {
		return Config{}, fmt.Errorf("read environment: %w", err)
	}
	if v := strings.TrimSpace(ov.APIURL); v != "" {
		cfg.APIURL = v
	}
	if v := strings.TrimSpace(ov.LogPath); v != "" {
		cfg.LogPath = mustExpand(v)
	}
	cfg.Username = ov.Username
	cfg.Password = ov.Password

	return cfg, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
