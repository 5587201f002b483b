// Package config handles configuration loading and defaults.
package config

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap/zapcore"
)

// Backends the client can talk to.
const (
	BackendTRPC   = "trpc"
	BackendGRPC   = "grpc"
	BackendMemory = "memory"
)

// Default values.
const (
	DefaultBackend   = BackendTRPC
	DefaultAPIURL    = "http://localhost:3000"
	DefaultAPIPrefix = "/api/trpc"
	DefaultGRPCAddr  = "localhost:50051"
	DefaultTheme     = "classic"
	DefaultLogLevel  = "info"
	DefaultNoticeTTL = 4 * time.Second
)

// Config holds the full configuration for the client.
type Config struct {
	// Remote API
	Backend     string `toml:"backend"`
	APIURL      string `toml:"api_url"`
	APIPrefix   string `toml:"api_prefix"`
	Transformer string `toml:"transformer"`
	GRPCAddr    string `toml:"grpc_addr"`
	SeedFile    string `toml:"seed_file"` // memory backend only

	// Zero means no client-side timeout.
	RequestTimeout Duration `toml:"request_timeout"`

	// UI
	Theme     string   `toml:"theme"`
	NoticeTTL Duration `toml:"notice_ttl"`

	// Diagnostics
	LogFile   string `toml:"log_file"`
	LogLevel  string `toml:"log_level"`
	TraceFile string `toml:"trace_file"`
}

func setDefaults(cfg *Config) {
	cfg.Backend = DefaultBackend
	cfg.APIURL = DefaultAPIURL
	cfg.APIPrefix = DefaultAPIPrefix
	cfg.GRPCAddr = DefaultGRPCAddr
	cfg.Theme = DefaultTheme
	cfg.LogLevel = DefaultLogLevel
	cfg.NoticeTTL = Duration(DefaultNoticeTTL)
}

// Default returns a Config populated with defaults only.
func Default() *Config {
	cfg := &Config{}
	setDefaults(cfg)
	return cfg
}

// Validate rejects values the client cannot act on. Every problem is
// reported, not just the first.
func (c *Config) Validate() error {
	var result *multierror.Error
	if !slices.Contains([]string{BackendTRPC, BackendGRPC, BackendMemory}, c.Backend) {
		result = multierror.Append(result, fmt.Errorf("backend %q: want trpc, grpc or memory", c.Backend))
	}
	if c.Transformer != "" && c.Transformer != "superjson" {
		result = multierror.Append(result, fmt.Errorf("transformer %q: want superjson or empty", c.Transformer))
	}
	if c.Backend == BackendTRPC && strings.TrimSpace(c.APIURL) == "" {
		result = multierror.Append(result, fmt.Errorf("api_url is required for the trpc backend"))
	}
	if c.Backend == BackendGRPC && strings.TrimSpace(c.GRPCAddr) == "" {
		result = multierror.Append(result, fmt.Errorf("grpc_addr is required for the grpc backend"))
	}
	if c.RequestTimeout < 0 {
		result = multierror.Append(result, fmt.Errorf("request_timeout must not be negative"))
	}
	if !slices.Contains([]string{"classic", "neon", "mono"}, strings.ToLower(c.Theme)) {
		result = multierror.Append(result, fmt.Errorf("theme %q: want classic, neon or mono", c.Theme))
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		result = multierror.Append(result, fmt.Errorf("log_level %q: %w", c.LogLevel, err))
	}
	return result.ErrorOrNil()
}

// Duration is a time.Duration that reads "5s"-style strings from TOML,
// env vars and flags.
type Duration time.Duration

func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) String() string { return time.Duration(d).String() }

func (d *Duration) UnmarshalText(b []byte) error {
	return d.Set(string(b))
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Set implements flag.Value.
func (d *Duration) Set(s string) error {
	s = strings.TrimSpace(s)
	if s == "" || s == "0" {
		*d = 0
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}
