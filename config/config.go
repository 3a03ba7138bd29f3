package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Pricing   PricingConfig   `yaml:"pricing"`
	Orders    OrdersConfig    `yaml:"orders"`
	AI        AIConfig        `yaml:"ai"`
	Broker    BrokerConfig    `yaml:"broker"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	LogFormat string          `yaml:"log_format"`
}

type ServerConfig struct {
	Port           string   `yaml:"port"`
	GinMode        string   `yaml:"gin_mode"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	TrustedProxies []string `yaml:"trusted_proxies"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"` // sqlite, mysql, postgres
	DSN    string `yaml:"dsn"`
}

type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

type PricingConfig struct {
	ShippingFee   float64 `yaml:"shipping_fee"`
	TaxRate       float64 `yaml:"tax_rate"`
	DineInAdvance float64 `yaml:"dine_in_advance"`
}

type OrdersConfig struct {
	DeliveryDuration    time.Duration `yaml:"delivery_duration"`
	ReservationDuration time.Duration `yaml:"reservation_duration"`
	MonitorInterval     time.Duration `yaml:"monitor_interval"`
	TrackingInterval    time.Duration `yaml:"tracking_interval"`
	Tables              []string      `yaml:"tables"`
}

type AIConfig struct {
	APIKey  string        `yaml:"api_key"`
	Model   string        `yaml:"model"`
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type BrokerConfig struct {
	URL      string `yaml:"url"` // empty disables publishing
	Exchange string `yaml:"exchange"`
}

type RateLimitConfig struct {
	RequestsPerSecond int `yaml:"requests_per_second"`
	SuggestPerMinute  int `yaml:"suggest_per_minute"`
	LoginPerMinute    int `yaml:"login_per_minute"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           "8080",
			GinMode:        "debug",
			AllowedOrigins: []string{"http://localhost:9002"},
			TrustedProxies: []string{"127.0.0.1"},
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			DSN:    "junkeats.db",
		},
		Auth: AuthConfig{
			TokenTTL: 24 * time.Hour,
		},
		Pricing: PricingConfig{
			ShippingFee:   5.00,
			TaxRate:       0.05,
			DineInAdvance: 100.00,
		},
		Orders: OrdersConfig{
			DeliveryDuration:    20 * time.Second,
			ReservationDuration: time.Hour,
			MonitorInterval:     time.Second,
			TrackingInterval:    time.Second,
			Tables:              []string{"T1", "T2", "T3", "T4", "T5", "T6", "T7", "T8"},
		},
		AI: AIConfig{
			Model:   "gpt-4o-mini",
			Timeout: 30 * time.Second,
		},
		Broker: BrokerConfig{
			Exchange: "junkeats.orders",
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 50,
			SuggestPerMinute:  6,
			LoginPerMinute:    5,
		},
		LogFormat: "text",
	}
}

// Load reads .env, then the YAML file named by CONFIG_FILE (config.yaml
// when unset and present), then environment overrides.
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	path := os.Getenv("CONFIG_FILE")
	required := path != ""
	if path == "" {
		path = "config.yaml"
	}

	cfg, err := LoadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) || required {
			return nil, err
		}
		cfg = Default()
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// LoadFile decodes a YAML file over the defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.Server.Port, "PORT")
	setString(&c.Server.GinMode, "GIN_MODE")
	setList(&c.Server.AllowedOrigins, "CORS_ORIGINS")
	setString(&c.Database.Driver, "DB_DRIVER")
	setString(&c.Database.DSN, "DB_DSN")
	setString(&c.Auth.JWTSecret, "JWT_SECRET")
	setString(&c.AI.APIKey, "OPENAI_API_KEY")
	setString(&c.AI.Model, "AI_MODEL")
	setString(&c.AI.BaseURL, "AI_BASE_URL")
	setString(&c.Broker.URL, "AMQP_URL")
	setString(&c.Broker.Exchange, "AMQP_EXCHANGE")
	setString(&c.LogFormat, "LOG_FORMAT")
	setList(&c.Orders.Tables, "DINE_IN_TABLES")

	durations := map[string]*time.Duration{
		"TOKEN_TTL":            &c.Auth.TokenTTL,
		"DELIVERY_DURATION":    &c.Orders.DeliveryDuration,
		"RESERVATION_DURATION": &c.Orders.ReservationDuration,
		"MONITOR_INTERVAL":     &c.Orders.MonitorInterval,
		"AI_TIMEOUT":           &c.AI.Timeout,
	}
	for key, dst := range durations {
		if v := os.Getenv(key); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", key, err)
			}
			*dst = d
		}
	}

	floats := map[string]*float64{
		"SHIPPING_FEE":    &c.Pricing.ShippingFee,
		"TAX_RATE":        &c.Pricing.TaxRate,
		"DINE_IN_ADVANCE": &c.Pricing.DineInAdvance,
	}
	for key, dst := range floats {
		if v := os.Getenv(key); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", key, err)
			}
			*dst = f
		}
	}
	return nil
}

// Validate rejects configurations the services cannot run with.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite", "mysql", "postgres":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Server.GinMode == "release" && c.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET is required in release mode")
	}
	if c.Orders.DeliveryDuration <= 0 {
		return errors.New("orders.delivery_duration must be positive")
	}
	if c.Orders.ReservationDuration <= 0 {
		return errors.New("orders.reservation_duration must be positive")
	}
	if c.Pricing.TaxRate < 0 || c.Pricing.ShippingFee < 0 || c.Pricing.DineInAdvance < 0 {
		return errors.New("pricing values must not be negative")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setList(dst *[]string, key string) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	*dst = out
}
