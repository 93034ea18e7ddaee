package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Hermes     HermesConfig     `yaml:"hermes"`
	MarketData MarketDataConfig `yaml:"market_data"`
	Cache      CacheConfig      `yaml:"cache"`
	Logging    LoggingConfig    `yaml:"logging"`
}

type ServerConfig struct {
	Port               int      `yaml:"port"`
	MetricsPort        int      `yaml:"metrics_port"`
	CORSOrigins        []string `yaml:"cors_origins"`
	RateLimitPerMinute int      `yaml:"rate_limit_per_minute"`
}

type HermesConfig struct {
	URL string `yaml:"url"`
}

type MarketDataConfig struct {
	BinanceURL        string  `yaml:"binance_url"`
	CoinGeckoURL      string  `yaml:"coingecko_url"`
	CoinGeckoAPIKey   string  `yaml:"coingecko_api_key"`
	TimeoutMs         int     `yaml:"timeout_ms"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
	CoinListTTLHours  int     `yaml:"coin_list_ttl_hours"`
	QuoteCurrency     string  `yaml:"quote_currency"`
}

type CacheConfig struct {
	RedisAddr string `yaml:"redis_addr"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func (c MarketDataConfig) UpstreamTimeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

func (c MarketDataConfig) CoinListTTL() time.Duration {
	return time.Duration(c.CoinListTTLHours) * time.Hour
}

func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:               8000,
			MetricsPort:        8001,
			CORSOrigins:        []string{"*"},
			RateLimitPerMinute: 120,
		},
		MarketData: MarketDataConfig{
			BinanceURL:        "https://api.binance.com",
			CoinGeckoURL:      "https://api.coingecko.com",
			TimeoutMs:         10000,
			RequestsPerSecond: 5,
			Burst:             10,
			CoinListTTLHours:  24,
			QuoteCurrency:     "USDT",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate rejects settings the service cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if c.Server.MetricsPort <= 0 || c.Server.MetricsPort > 65535 {
		errs = append(errs, fmt.Errorf("server.metrics_port %d out of range", c.Server.MetricsPort))
	}
	if c.Server.RateLimitPerMinute < 0 {
		errs = append(errs, errors.New("server.rate_limit_per_minute must not be negative"))
	}
	if c.MarketData.BinanceURL == "" {
		errs = append(errs, errors.New("market_data.binance_url is required"))
	}
	if c.MarketData.CoinGeckoURL == "" {
		errs = append(errs, errors.New("market_data.coingecko_url is required"))
	}
	if c.MarketData.TimeoutMs <= 0 {
		errs = append(errs, errors.New("market_data.timeout_ms must be positive"))
	}
	if c.MarketData.RequestsPerSecond <= 0 {
		errs = append(errs, errors.New("market_data.requests_per_second must be positive"))
	}
	if c.MarketData.Burst <= 0 {
		errs = append(errs, errors.New("market_data.burst must be positive"))
	}
	if c.MarketData.CoinListTTLHours <= 0 {
		errs = append(errs, errors.New("market_data.coin_list_ttl_hours must be positive"))
	}
	if c.MarketData.QuoteCurrency == "" {
		errs = append(errs, errors.New("market_data.quote_currency is required"))
	}
	return errors.Join(errs...)
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("ALLOCATOR_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("ALLOCATOR_METRICS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.MetricsPort = n
		}
	}
	if v := os.Getenv("ALLOCATOR_CORS_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		cfg.Server.CORSOrigins = origins
	}
	if v := os.Getenv("ALLOCATOR_RATE_LIMIT_PER_MINUTE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.RateLimitPerMinute = n
		}
	}
	if v := os.Getenv("ALLOCATOR_HERMES_URL"); v != "" {
		cfg.Hermes.URL = v
	}
	if v := os.Getenv("ALLOCATOR_BINANCE_URL"); v != "" {
		cfg.MarketData.BinanceURL = v
	}
	if v := os.Getenv("ALLOCATOR_COINGECKO_URL"); v != "" {
		cfg.MarketData.CoinGeckoURL = v
	}
	if v := os.Getenv("ALLOCATOR_COINGECKO_API_KEY"); v != "" {
		cfg.MarketData.CoinGeckoAPIKey = v
	}
	if v := os.Getenv("ALLOCATOR_UPSTREAM_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MarketData.TimeoutMs = n
		}
	}
	if v := os.Getenv("ALLOCATOR_REDIS_ADDR"); v != "" {
		cfg.Cache.RedisAddr = v
	}
	if v := os.Getenv("ALLOCATOR_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("ALLOCATOR_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}
