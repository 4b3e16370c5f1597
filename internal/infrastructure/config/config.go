package config

import (
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration
type Config struct {
	App           AppConfig
	API           APIConfig
	Channel       ChannelConfig
	Snapshot      SnapshotConfig
	Redis         RedisConfig
	Log           LogConfig
	Introspection IntrospectionConfig
	Telemetry     TelemetryConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name    string
	Env     string
	Profile string // snapshot namespace, lets several accounts share one box
}

// APIConfig holds platform REST API settings
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// ChannelConfig holds push-channel transport settings
type ChannelConfig struct {
	URL                      string // derived from api.base_url when empty
	HandshakeTimeout         time.Duration
	PingInterval             time.Duration
	PongTimeout              time.Duration
	ReconnectInitialInterval time.Duration
	ReconnectMaxInterval     time.Duration
	ReconnectMultiplier      float64
	ReconnectMaxRetries      int // 0 = retry forever
}

// SnapshotConfig holds persisted-snapshot settings
type SnapshotConfig struct {
	Backend    string // file, sqlite, redis, memory
	Path       string // file backend: directory for snapshot documents
	SQLitePath string // sqlite backend: database file
	KeyPrefix  string // redis backend: key namespace
	TTL        time.Duration
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// IntrospectionConfig holds the local read-only state endpoint settings
type IntrospectionConfig struct {
	Enabled bool
	Addr    string
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled           bool    // Whether to enable OpenTelemetry
	CollectorEndpoint string  // OTEL Collector endpoint (e.g., "localhost:4317")
	SamplingRatio     float64 // Sampling ratio (0.0-1.0, 1.0 = 100%)
	ServiceName       string  // Service name for traces
	Insecure          bool    // Use insecure (non-TLS) connection (development only)
	LogsEnabled       bool    // Ship zap output through OTLP as well
	DBTraceEnabled    bool    // Trace the sqlite snapshot store (otelgorm)
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with COMMERCE_ prefix (e.g., COMMERCE_API_BASE_URL)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/commerce-client")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("COMMERCE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Boolean default; applyDefaults cannot distinguish false from unset.
	v.SetDefault("introspection.enabled", true)

	cfg := &Config{
		App: AppConfig{
			Name:    v.GetString("app.name"),
			Env:     v.GetString("app.env"),
			Profile: v.GetString("app.profile"),
		},
		API: APIConfig{
			BaseURL: v.GetString("api.base_url"),
			Timeout: v.GetDuration("api.timeout"),
		},
		Channel: ChannelConfig{
			URL:                      v.GetString("channel.url"),
			HandshakeTimeout:         v.GetDuration("channel.handshake_timeout"),
			PingInterval:             v.GetDuration("channel.ping_interval"),
			PongTimeout:              v.GetDuration("channel.pong_timeout"),
			ReconnectInitialInterval: v.GetDuration("channel.reconnect_initial_interval"),
			ReconnectMaxInterval:     v.GetDuration("channel.reconnect_max_interval"),
			ReconnectMultiplier:      v.GetFloat64("channel.reconnect_multiplier"),
			ReconnectMaxRetries:      v.GetInt("channel.reconnect_max_retries"),
		},
		Snapshot: SnapshotConfig{
			Backend:    v.GetString("snapshot.backend"),
			Path:       v.GetString("snapshot.path"),
			SQLitePath: v.GetString("snapshot.sqlite_path"),
			KeyPrefix:  v.GetString("snapshot.key_prefix"),
			TTL:        v.GetDuration("snapshot.ttl"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Introspection: IntrospectionConfig{
			Enabled: v.GetBool("introspection.enabled"),
			Addr:    v.GetString("introspection.addr"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:       v.GetString("telemetry.service_name"),
			Insecure:          v.GetBool("telemetry.insecure"),
			LogsEnabled:       v.GetBool("telemetry.logs_enabled"),
			DBTraceEnabled:    v.GetBool("telemetry.db_trace_enabled"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "commerce-client"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Profile == "" {
		cfg.App.Profile = "default"
	}
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = "http://localhost:8080"
	}
	if cfg.API.Timeout == 0 {
		cfg.API.Timeout = 15 * time.Second
	}
	if cfg.Channel.URL == "" {
		cfg.Channel.URL = deriveChannelURL(cfg.API.BaseURL)
	}
	if cfg.Channel.HandshakeTimeout == 0 {
		cfg.Channel.HandshakeTimeout = 10 * time.Second
	}
	if cfg.Channel.PingInterval == 0 {
		cfg.Channel.PingInterval = 30 * time.Second
	}
	if cfg.Channel.PongTimeout == 0 {
		cfg.Channel.PongTimeout = 10 * time.Second
	}
	if cfg.Channel.ReconnectInitialInterval == 0 {
		cfg.Channel.ReconnectInitialInterval = time.Second
	}
	if cfg.Channel.ReconnectMaxInterval == 0 {
		cfg.Channel.ReconnectMaxInterval = 30 * time.Second
	}
	if cfg.Channel.ReconnectMultiplier == 0 {
		cfg.Channel.ReconnectMultiplier = 2.0
	}
	if cfg.Snapshot.Backend == "" {
		cfg.Snapshot.Backend = "file"
	}
	if cfg.Snapshot.Path == "" {
		cfg.Snapshot.Path = "."
	}
	if cfg.Snapshot.SQLitePath == "" {
		cfg.Snapshot.SQLitePath = "snapshots.db"
	}
	if cfg.Snapshot.KeyPrefix == "" {
		cfg.Snapshot.KeyPrefix = "commerce"
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.Introspection.Addr == "" {
		cfg.Introspection.Addr = "127.0.0.1:7180"
	}
	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317"
	}
	if cfg.Telemetry.SamplingRatio == 0 {
		cfg.Telemetry.SamplingRatio = 1.0
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = cfg.App.Name
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Host == "" {
		return fmt.Errorf("api.base_url is not a valid URL: %q", c.API.BaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api.base_url must use http or https, got %q", u.Scheme)
	}

	cu, err := url.Parse(c.Channel.URL)
	if err != nil || cu.Host == "" {
		return fmt.Errorf("channel.url is not a valid URL: %q", c.Channel.URL)
	}
	if cu.Scheme != "ws" && cu.Scheme != "wss" {
		return fmt.Errorf("channel.url must use ws or wss, got %q", cu.Scheme)
	}

	switch c.Snapshot.Backend {
	case "file", "sqlite", "redis", "memory":
	default:
		return fmt.Errorf("snapshot.backend must be one of file, sqlite, redis, memory; got %q", c.Snapshot.Backend)
	}

	if c.Channel.ReconnectMultiplier < 1.0 {
		return fmt.Errorf("channel.reconnect_multiplier must be >= 1.0, got %f", c.Channel.ReconnectMultiplier)
	}
	if c.Channel.ReconnectMaxRetries < 0 {
		return fmt.Errorf("channel.reconnect_max_retries cannot be negative")
	}

	// Production-specific validations
	if c.App.Env == "production" {
		if u.Scheme != "https" {
			return fmt.Errorf("api.base_url must use https in production")
		}
		if cu.Scheme != "wss" {
			return fmt.Errorf("channel.url must use wss in production")
		}
		if c.Introspection.Enabled {
			host, _, err := net.SplitHostPort(c.Introspection.Addr)
			if err != nil {
				return fmt.Errorf("introspection.addr is not host:port: %q", c.Introspection.Addr)
			}
			ip := net.ParseIP(host)
			if ip == nil || !ip.IsLoopback() {
				return fmt.Errorf("introspection.addr must bind a loopback address in production, got %q", c.Introspection.Addr)
			}
		}
	}

	// Validate telemetry configuration (all environments)
	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}

	return nil
}

// deriveChannelURL maps the REST base URL onto the push endpoint:
// http -> ws, https -> wss, path /ws.
func deriveChannelURL(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return ""
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = "/ws"
	u.RawQuery = ""
	return u.String()
}

// Addr returns the Redis address in host:port form.
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}
