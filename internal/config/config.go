package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xxxsen/common/logger"
)

type Config struct {
	Database        DatabaseConfig   `json:"database"`
	JWTSecret       string           `json:"jwt_secret"`
	Port            int              `json:"port"`
	JWTTTLHours     int              `json:"jwt_ttl_hours"`
	LogConfig       logger.LogConfig `json:"log_config"`
	FileStore       FileStoreConfig  `json:"file_store"`
	RevisionMaxKeep int              `json:"revision_max_keep"`
	RenderCacheSize int              `json:"render_cache_size"`
	CORSAllowlist   []string         `json:"cors_allowlist"`
}

type DatabaseConfig struct {
	DSN      string `json:"dsn"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"dbname"`
	SSLMode  string `json:"sslmode"`
}

type FileStoreConfig struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Database.DSN == "" && cfg.Database.Host == "" {
		return nil, fmt.Errorf("database.dsn or database.host is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("jwt_secret is required")
	}
	if cfg.Port == 0 {
		return nil, fmt.Errorf("port is required")
	}
	if cfg.JWTTTLHours == 0 {
		cfg.JWTTTLHours = 72
	}
	if cfg.LogConfig.Level == "" {
		cfg.LogConfig.Level = "info"
	}
	if cfg.FileStore.Type == "" {
		cfg.FileStore.Type = "local"
	}
	if cfg.RevisionMaxKeep == 0 {
		cfg.RevisionMaxKeep = 20
	}
	if cfg.RenderCacheSize == 0 {
		cfg.RenderCacheSize = 256
	}
	return &cfg, nil
}
