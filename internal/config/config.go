package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port         int           `yaml:"port"`
		ReadTimeout  time.Duration `yaml:"readTimeout"`
		WriteTimeout time.Duration `yaml:"writeTimeout"`
		IdleTimeout  time.Duration `yaml:"idleTimeout"`
		StaticDir    string        `yaml:"staticDir"`
	} `yaml:"server"`

	AI struct {
		Provider         string        `yaml:"provider"` // gemini | openai
		APIKey           string        `yaml:"apiKey"`
		Model            string        `yaml:"model"`
		BaseURL          string        `yaml:"baseURL"`
		FallbackProvider string        `yaml:"fallbackProvider"`
		FallbackAPIKey   string        `yaml:"fallbackApiKey"`
		FallbackModel    string        `yaml:"fallbackModel"`
		Timeout          time.Duration `yaml:"timeout"`
	} `yaml:"ai"`

	CORS struct {
		AllowedOrigins []string `yaml:"allowedOrigins"`
		AllowedMethods []string `yaml:"allowedMethods"`
		AllowedHeaders []string `yaml:"allowedHeaders"`
		MaxAge         int      `yaml:"maxAge"`
	} `yaml:"cors"`

	Limits struct {
		MaxContentBytes int `yaml:"maxContentBytes"` // 0 disables the size check
		RateCapacity    int `yaml:"rateCapacity"`
		RateRefill      int `yaml:"rateRefill"` // tokens per second
	} `yaml:"limits"`

	// Auth maps tenant -> API key. Empty disables auth.
	Auth struct {
		Keys map[string]string `yaml:"keys"`
	} `yaml:"auth"`

	Database struct {
		Driver   string `yaml:"driver"` // mysql | postgres | "" (journal disabled)
		DSN      string `yaml:"dsn"`
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
	} `yaml:"database"`

	Minio struct {
		Endpoint   string `yaml:"endpoint"`
		AccessKey  string `yaml:"accessKey"`
		SecretKey  string `yaml:"secretKey"`
		BucketName string `yaml:"bucketName"`
		Region     string `yaml:"region"`
		UseSSL     bool   `yaml:"useSSL"`
	} `yaml:"minio"`
}

// Default returns a config with every default applied and no credentials.
func Default() *Config {
	var cfg Config
	cfg.preset()
	cfg.applyDefaults()
	return &cfg
}

// Load baca file config.yaml. A missing file is fine: defaults and env
// overrides still apply, so the service starts without any file.
func Load(path string) (*Config, error) {
	var cfg Config
	cfg.preset()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, err
	}

	cfg.applyEnvOverrides()
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("AI_PROVIDER"); v != "" {
		c.AI.Provider = v
	}
	if v := os.Getenv("AI_MODEL"); v != "" {
		c.AI.Model = v
	}

	// pilih provider dari key yang tersedia kalau belum diset
	if c.AI.Provider == "" {
		switch {
		case providerKey("gemini") != "":
			c.AI.Provider = "gemini"
		case providerKey("openai") != "":
			c.AI.Provider = "openai"
		}
	}
	if c.AI.APIKey == "" {
		c.AI.APIKey = providerKey(c.AI.Provider)
	}
	if c.AI.FallbackProvider != "" && c.AI.FallbackAPIKey == "" {
		c.AI.FallbackAPIKey = providerKey(c.AI.FallbackProvider)
	}

	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Server.Port = p
		}
	}
	if v := os.Getenv("DATABASE_DRIVER"); v != "" {
		c.Database.Driver = v
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		c.Database.DSN = v
	}
}

// providerKey reads the credential env var(s) for provider.
func providerKey(provider string) string {
	switch provider {
	case "gemini":
		if v := os.Getenv("GOOGLE_API_KEY"); v != "" {
			return v
		}
		return os.Getenv("GEMINI_API_KEY")
	case "openai":
		return os.Getenv("OPENAI_API_KEY")
	}
	return ""
}

// preset fills fields whose zero value is meaningful. It runs before the
// file is decoded, so an explicit 0 in the file survives.
func (c *Config) preset() {
	c.Limits.MaxContentBytes = 64 << 10
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8000
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 60 * time.Second
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60 * time.Second
	}
	if c.AI.Provider == "" {
		c.AI.Provider = "gemini"
	}
	if c.AI.Timeout == 0 {
		c.AI.Timeout = 30 * time.Second
	}
	if len(c.CORS.AllowedOrigins) == 0 {
		c.CORS.AllowedOrigins = []string{"*"}
	}
	if len(c.CORS.AllowedMethods) == 0 {
		c.CORS.AllowedMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"}
	}
	if len(c.CORS.AllowedHeaders) == 0 {
		c.CORS.AllowedHeaders = []string{"*"}
	}
	if c.Limits.RateCapacity == 0 {
		c.Limits.RateCapacity = 30
	}
	if c.Limits.RateRefill == 0 {
		c.Limits.RateRefill = 1
	}
	if c.Minio.BucketName == "" {
		c.Minio.BucketName = "verdicts"
	}
}

// Validate rejects unknown provider/driver names and negative limits.
func (c *Config) Validate() error {
	for _, p := range []string{c.AI.Provider, c.AI.FallbackProvider} {
		switch p {
		case "", "gemini", "openai":
		default:
			return fmt.Errorf("unknown ai provider %q (allowed: gemini, openai)", p)
		}
	}
	switch c.Database.Driver {
	case "", "mysql", "postgres":
	default:
		return fmt.Errorf("unknown database driver %q (allowed: mysql, postgres)", c.Database.Driver)
	}
	if c.Limits.MaxContentBytes < 0 || c.Limits.RateCapacity < 0 || c.Limits.RateRefill < 0 {
		return fmt.Errorf("limits must not be negative")
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	return nil
}

// JournalEnabled reports whether analyses are persisted.
func (c *Config) JournalEnabled() bool { return c.Database.Driver != "" }

// ArchiveEnabled reports whether raw model output goes to MinIO.
func (c *Config) ArchiveEnabled() bool { return c.Minio.Endpoint != "" }

// DSN returns the raw dsn if set, otherwise one built for the driver.
func (c *Config) DSN() string {
	if c.Database.DSN != "" {
		return c.Database.DSN
	}
	switch c.Database.Driver {
	case "postgres":
		return c.PostgresDSN()
	default:
		return c.MySQLDSN()
	}
}

// Helper untuk build DSN MySQL
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
	)
}

// Helper untuk build DSN Postgres
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
	)
}
