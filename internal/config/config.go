package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Database struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"sslMode"`
}

type Config struct {
	Server struct {
		Port        int      `yaml:"port"`
		CORSOrigins []string `yaml:"corsOrigins"`
		// Submissions per client IP: bucket size and refill per second.
		RateLimitBurst  int `yaml:"rateLimitBurst"`
		RateLimitRefill int `yaml:"rateLimitRefill"`
		// Proxies (CIDR or address) whose X-Forwarded-For names the client.
		TrustedProxies []string `yaml:"trustedProxies"`
		// Operator keys guard /metrics; empty leaves it open.
		OperatorKeys map[string]string `yaml:"operatorKeys"`
	} `yaml:"server"`

	Storage struct {
		Driver   string   `yaml:"driver"` // memory | mysql | postgres
		Database Database `yaml:"database"`
	} `yaml:"storage"`

	Ledger struct {
		Mode           string `yaml:"mode"` // client | memory
		AllowLocalOnly bool   `yaml:"allowLocalOnly"`
		Address        string `yaml:"address"`
	} `yaml:"ledger"`

	Vault struct {
		Driver string `yaml:"driver"` // memory | minio
		Minio  struct {
			Endpoint   string `yaml:"endpoint"`
			AccessKey  string `yaml:"accessKey"`
			SecretKey  string `yaml:"secretKey"`
			BucketName string `yaml:"bucketName"`
			Region     string `yaml:"region"`
			UseSSL     bool   `yaml:"useSSL"`
		} `yaml:"minio"`
	} `yaml:"vault"`

	Seal struct {
		Secret string `yaml:"secret"`
		Salt   string `yaml:"salt"`
	} `yaml:"seal"`

	Validation struct {
		MinYear int `yaml:"minYear"`
		MaxYear int `yaml:"maxYear"`
	} `yaml:"validation"`

	Log struct {
		Level       string `yaml:"level"`
		Development bool   `yaml:"development"`
	} `yaml:"log"`
}

// Default returns a config that runs fully in memory.
func Default() *Config {
	var c Config
	c.Server.Port = 5000
	c.Server.RateLimitBurst = 10
	c.Server.RateLimitRefill = 1
	c.Storage.Driver = "memory"
	c.Ledger.Mode = "client"
	c.Ledger.AllowLocalOnly = true
	c.Vault.Driver = "memory"
	c.Vault.Minio.BucketName = "loudao-private"
	c.Validation.MinYear = 2020
	c.Validation.MaxYear = 2025
	c.Log.Level = "info"
	return &c
}

// Load baca file config.yaml over the defaults. A missing file is not an
// error; environment overrides are applied last.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	cfg.applyEnv(os.Getenv)
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv(getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	set(&c.Seal.Secret, "LOUDAO_SEAL_SECRET")
	set(&c.Storage.Driver, "LOUDAO_STORAGE_DRIVER")
	set(&c.Storage.Database.Password, "LOUDAO_DB_PASSWORD")
	set(&c.Vault.Minio.AccessKey, "LOUDAO_MINIO_ACCESS_KEY")
	set(&c.Vault.Minio.SecretKey, "LOUDAO_MINIO_SECRET_KEY")
	set(&c.Log.Level, "LOUDAO_LOG_LEVEL")
	if v := getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Server.Port = p
		}
	}
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	var problems []string
	switch c.Storage.Driver {
	case "memory", "mysql", "postgres":
	default:
		problems = append(problems, fmt.Sprintf("storage.driver %q (want memory, mysql or postgres)", c.Storage.Driver))
	}
	switch c.Ledger.Mode {
	case "client", "memory":
	default:
		problems = append(problems, fmt.Sprintf("ledger.mode %q (want client or memory)", c.Ledger.Mode))
	}
	switch c.Vault.Driver {
	case "memory", "minio":
	default:
		problems = append(problems, fmt.Sprintf("vault.driver %q (want memory or minio)", c.Vault.Driver))
	}
	if c.Validation.MinYear > c.Validation.MaxYear {
		problems = append(problems, "validation.minYear is after validation.maxYear")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Helper untuk build DSN MySQL
func (c *Config) MySQLDSN() string {
	d := c.Storage.Database
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		d.User, d.Password, d.Host, d.Port, d.Name,
	)
}

// PostgresDSN builds a lib/pq connection string.
func (c *Config) PostgresDSN() string {
	d := c.Storage.Database
	ssl := d.SSLMode
	if ssl == "" {
		ssl = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, ssl,
	)
}
