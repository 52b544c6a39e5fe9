// Package config loads the anglify service configuration from a YAML file,
// an optional .env file and environment variables.
package config

import (
	"net"
	"strconv"
	"strings"
	"time"
)

// Config is the root service configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Cache      CacheConfig      `yaml:"cache"`
	Dictionary DictionaryConfig `yaml:"dictionary"`
	Log        LogConfig        `yaml:"log"`
	CORS       CORSConfig       `yaml:"cors"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"3000"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes"   env:"SERVER_MAX_BODY_BYTES"   env-default:"1048576"`

	// Responses are gzipped for clients that accept it unless this is set.
	DisableCompression bool `yaml:"disable_compression" env:"SERVER_DISABLE_COMPRESSION"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// CacheConfig selects the translation cache backend.
type CacheConfig struct {
	Backend       string        `yaml:"backend"        env:"CACHE_BACKEND"        env-default:"memory"`
	TTL           int           `yaml:"ttl"            env:"CACHE_TTL"            env-default:"3600"`
	MaxEntries    int           `yaml:"max_entries"    env:"CACHE_MAX_ENTRIES"    env-default:"10000"`
	RedisURL      string        `yaml:"redis_url"      env:"REDIS_URL"`
	KeyPrefix     string        `yaml:"key_prefix"     env:"CACHE_KEY_PREFIX"     env-default:"anglify:"`
	SnapshotPath  string        `yaml:"snapshot_path"  env:"CACHE_SNAPSHOT_PATH"`
	StatsInterval time.Duration `yaml:"stats_interval" env:"CACHE_STATS_INTERVAL" env-default:"5m"`
}

// DictionaryConfig points at an optional directory of YAML tables that
// replace the embedded ones.
type DictionaryConfig struct {
	Path string `yaml:"path" env:"DICTIONARY_PATH"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"console"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-default:"*"`
	AllowedMethods string `yaml:"allowed_methods" env:"CORS_ALLOWED_METHODS" env-default:"GET,POST,OPTIONS"`
	AllowedHeaders string `yaml:"allowed_headers" env:"CORS_ALLOWED_HEADERS" env-default:"Content-Type"`
	MaxAge         int    `yaml:"max_age"         env:"CORS_MAX_AGE"         env-default:"86400"`
}

// Origins returns the allowed origins as a list.
func (c CORSConfig) Origins() []string {
	return splitList(c.AllowedOrigins)
}

// RateLimitConfig holds per-client rate limiting settings.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"             env:"RATE_LIMIT_ENABLED"             env-default:"true"`
	RequestsPerMinute int  `yaml:"requests_per_minute" env:"RATE_LIMIT_REQUESTS_PER_MINUTE" env-default:"120"`
	Burst             int  `yaml:"burst"               env:"RATE_LIMIT_BURST"               env-default:"20"`
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
