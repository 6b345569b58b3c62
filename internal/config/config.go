package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	StorageSQLite = "sqlite"
	StorageFile   = "file"
	StorageMemory = "memory"
)

type Config struct {
	DBPath     string `json:"db_path"`
	Storage    string `json:"storage"`
	DataDir    string `json:"data_dir"`
	LogPath    string `json:"log_path"`
	WebEnabled bool   `json:"web_enabled"`
	WebPort    int    `json:"web_port"`
}

func Default() Config {
	return Config{Storage: StorageSQLite, WebPort: 8080}
}

func DefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "lazytodo", "config.json"), nil
}

func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}

func Load(path string) (Config, error) {
	config := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return Config{}, err
	}

	if err := json.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

func Save(path string, cfg Config) error {
	if err := EnsureDir(path); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

// ApplyDefaults fills paths relative to the directory holding the config file.
func (c *Config) ApplyDefaults(configPath string) {
	base := filepath.Dir(configPath)
	c.Storage = strings.ToLower(strings.TrimSpace(c.Storage))
	if c.Storage == "" {
		c.Storage = StorageSQLite
	}
	if c.DBPath == "" {
		c.DBPath = filepath.Join(base, "lazytodo.db")
	}
	if c.DataDir == "" {
		c.DataDir = filepath.Join(base, "data")
	}
	if c.LogPath == "" {
		c.LogPath = filepath.Join(base, "lazytodo.log")
	}
	if c.WebPort == 0 {
		c.WebPort = 8080
	}
}

func (c Config) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.Storage)) {
	case "", StorageSQLite, StorageFile, StorageMemory:
	default:
		return fmt.Errorf("unknown storage %q (want sqlite, file or memory)", c.Storage)
	}
	if c.WebPort < 0 || c.WebPort > 65535 {
		return fmt.Errorf("invalid web port %d", c.WebPort)
	}
	return nil
}
