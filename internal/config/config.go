package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const ConfigPathEnv = "GATEKV_CONFIG_PATH"

type AppConfig struct {
	EngineConfig    EngineConfig    `yaml:"engine"`
	NetworkConfig   NetworkConfig   `yaml:"network"`
	PoolConfig      PoolConfig      `yaml:"pool"`
	LoggingConfig   LoggingConfig   `yaml:"logging"`
	RateLimitConfig RateLimitConfig `yaml:"rate_limit"`
	MetricsConfig   MetricsConfig   `yaml:"metrics"`
}

type EngineConfig struct {
	StartSize       int `yaml:"start_size" env:"GATEKV_ENGINE_START_SIZE" env-default:"1000"`
	PartitionsCount int `yaml:"partitions_count" env:"GATEKV_ENGINE_PARTITIONS" env-default:"0"`
}

type NetworkConfig struct {
	Host           string        `yaml:"host" env:"GATEKV_HOST" env-default:"0.0.0.0"`
	Port           int           `yaml:"port" env:"GATEKV_PORT" env-default:"9999"`
	MaxConnections int           `yaml:"max_connections" env:"GATEKV_MAX_CONNECTIONS" env-default:"100"`
	MaxMessageSize string        `yaml:"max_message_size" env:"GATEKV_MAX_MESSAGE_SIZE" env-default:"512b"`
	ReadTimeout    time.Duration `yaml:"read_timeout" env:"GATEKV_READ_TIMEOUT" env-default:"5s"`
	WriteTimeout   time.Duration `yaml:"write_timeout" env:"GATEKV_WRITE_TIMEOUT" env-default:"5s"`
}

type PoolConfig struct {
	Workers int `yaml:"workers" env:"GATEKV_WORKERS" env-default:"3"`
}

type LoggingConfig struct {
	Level      string `yaml:"level" env:"GATEKV_LOG_LEVEL" env-default:"info"`
	Output     string `yaml:"output" env:"GATEKV_LOG_OUTPUT"`
	MaxSizeMB  int    `yaml:"max_size_mb" env-default:"100"`
	MaxBackups int    `yaml:"max_backups" env-default:"3"`
	MaxAgeDays int    `yaml:"max_age_days" env-default:"7"`
	Compress   bool   `yaml:"compress" env-default:"false"`
}

// RateLimitConfig limits accepted connections per client IP.
// Zero RequestsPerSecond disables the limiter.
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" env:"GATEKV_RATE_LIMIT_RPS" env-default:"0"`
	Burst             int     `yaml:"burst" env:"GATEKV_RATE_LIMIT_BURST" env-default:"10"`
	CacheSize         int     `yaml:"cache_size" env-default:"1000"`
}

func (c *RateLimitConfig) Enabled() bool {
	return c.RequestsPerSecond > 0
}

// MetricsConfig exposes prometheus metrics on Address. Empty address disables it.
type MetricsConfig struct {
	Address string `yaml:"address" env:"GATEKV_METRICS_ADDRESS"`
}

func (c *NetworkConfig) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func (c *NetworkConfig) ParseRequestSizeInBytes() (int, error) {
	size, err := ParseSizeInBytes(c.MaxMessageSize)
	if err != nil {
		return 0, err
	}

	return int(size), nil
}

// Load reads the config from path, falling back to GATEKV_CONFIG_PATH and then
// to environment variables and defaults only.
func Load(path string) (*AppConfig, error) {
	if path == "" {
		path = os.Getenv(ConfigPathEnv)
	}

	if path == "" {
		return LoadFromEnv()
	}

	return LoadFromPath(path)
}

func LoadFromPath(configPath string) (*AppConfig, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	var cfg AppConfig

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("cannot read config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func LoadFromEnv() (*AppConfig, error) {
	var cfg AppConfig

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("cannot read config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *AppConfig) Validate() error {
	if c.NetworkConfig.Port < 0 || c.NetworkConfig.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.NetworkConfig.Port)
	}

	if c.NetworkConfig.MaxConnections <= 0 {
		return errors.New("max_connections must be positive")
	}

	if _, err := c.NetworkConfig.ParseRequestSizeInBytes(); err != nil {
		return err
	}

	if c.PoolConfig.Workers <= 0 {
		return errors.New("pool workers count must be positive")
	}

	if c.EngineConfig.PartitionsCount < 0 {
		return errors.New("partitions_count cannot be negative")
	}

	if c.RateLimitConfig.Enabled() && c.RateLimitConfig.Burst <= 0 {
		return errors.New("rate limit burst must be positive")
	}

	return nil
}

var sizeRegexp = regexp.MustCompile(`^(\d+)(b|kb|mb)$`)

func ParseSizeInBytes(val string) (int64, error) {
	matches := sizeRegexp.FindStringSubmatch(strings.ToLower(strings.TrimSpace(val)))

	if len(matches) != 3 {
		return 0, fmt.Errorf("unknown format of size in bytes: %s", val)
	}

	size, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0, fmt.Errorf("cannot parse size in bytes: %s", val)
	}

	var sizeInBytes int64

	switch matches[2] {
	case "b":
		sizeInBytes = int64(size)
	case "kb":
		sizeInBytes = int64(size) << 10
	case "mb":
		sizeInBytes = int64(size) << 20
	default:
		return 0, fmt.Errorf("unknown dimension of size in bytes: %s", val)
	}

	if sizeInBytes <= 0 {
		return 0, fmt.Errorf("size in bytes must be positive: %s", val)
	}

	return sizeInBytes, nil
}
