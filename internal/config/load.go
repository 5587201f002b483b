package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ProgramName names the flag set in usage output.
const ProgramName = "tada"

// NewFlagSet returns the flag set Load expects: named after the program
// and returning parse errors instead of exiting.
func NewFlagSet() *flag.FlagSet {
	return flag.NewFlagSet(ProgramName, flag.ContinueOnError)
}

// Load loads configuration from multiple sources in priority order:
// 1. Defaults
// 2. User config file ($XDG_CONFIG_HOME/tada/config.toml or ~/.tada/config.toml)
// 3. Project config file (tada.toml or .tada.toml in current directory)
// 4. File named by TADA_CONFIG
// 5. Environment variables
// 6. CLI flags
//
// fs must not have been parsed yet; after Load, fs.Args() holds the
// remaining (subcommand) arguments.
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := Default()

	if p := findUserConfigFile(); p != "" {
		if err := loadConfigFile(cfg, p); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", p, err)
		}
	}
	if p := findProjectConfigFile(); p != "" {
		if err := loadConfigFile(cfg, p); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", p, err)
		}
	}
	if p := strings.TrimSpace(os.Getenv("TADA_CONFIG")); p != "" {
		if err := loadConfigFile(cfg, expandPath(p)); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", p, err)
		}
	}

	if err := loadFromEnv(cfg); err != nil {
		return nil, err
	}

	if err := parseFlags(cfg, fs, args); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	cfg.LogFile = expandPath(cfg.LogFile)
	cfg.TraceFile = expandPath(cfg.TraceFile)
	cfg.SeedFile = expandPath(cfg.SeedFile)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadConfigFile(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		return fmt.Errorf("unknown keys: %v", undec)
	}
	return nil
}

func findUserConfigFile() string {
	var candidates []string
	if dir, err := os.UserConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(dir, "tada", "config.toml"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".tada", "config.toml"))
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func findProjectConfigFile() string {
	for _, name := range []string{"tada.toml", ".tada.toml"} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// loadFromEnv overrides config from TADA_* environment variables.
func loadFromEnv(cfg *Config) error {
	strs := map[string]*string{
		"TADA_BACKEND":     &cfg.Backend,
		"TADA_API_URL":     &cfg.APIURL,
		"TADA_API_PREFIX":  &cfg.APIPrefix,
		"TADA_TRANSFORMER": &cfg.Transformer,
		"TADA_GRPC_ADDR":   &cfg.GRPCAddr,
		"TADA_SEED_FILE":   &cfg.SeedFile,
		"TADA_THEME":       &cfg.Theme,
		"TADA_LOG_FILE":    &cfg.LogFile,
		"TADA_LOG_LEVEL":   &cfg.LogLevel,
		"TADA_TRACE_FILE":  &cfg.TraceFile,
	}
	for key, dst := range strs {
		if v, ok := os.LookupEnv(key); ok {
			*dst = strings.TrimSpace(v)
		}
	}

	durations := map[string]*Duration{
		"TADA_REQUEST_TIMEOUT": &cfg.RequestTimeout,
		"TADA_NOTICE_TTL":      &cfg.NoticeTTL,
	}
	for key, dst := range durations {
		if v, ok := os.LookupEnv(key); ok {
			if err := dst.Set(v); err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
		}
	}
	return nil
}

// parseFlags defines and parses CLI flags on top of the loaded values.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string) error {
	if fs == nil {
		fs = NewFlagSet()
	}
	fs.StringVar(&cfg.Backend, "backend", cfg.Backend, "remote backend: trpc | grpc | memory")
	fs.StringVar(&cfg.APIURL, "api-url", cfg.APIURL, "base URL of the tRPC API")
	fs.StringVar(&cfg.APIPrefix, "api-prefix", cfg.APIPrefix, "path prefix of tRPC procedures")
	fs.StringVar(&cfg.Transformer, "transformer", cfg.Transformer, "tRPC data transformer: superjson or empty")
	fs.StringVar(&cfg.GRPCAddr, "grpc-addr", cfg.GRPCAddr, "gRPC server address")
	fs.StringVar(&cfg.SeedFile, "seed", cfg.SeedFile, "JSON file of todos for the memory backend")
	fs.Var(&cfg.RequestTimeout, "timeout", "per-request timeout (0 = none)")
	fs.StringVar(&cfg.Theme, "theme", cfg.Theme, "color theme: classic | neon | mono")
	fs.Var(&cfg.NoticeTTL, "notice-ttl", "how long error notices stay visible (0 = until the next successful action)")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "write JSON logs to this file")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug | info | warn | error")
	fs.StringVar(&cfg.TraceFile, "trace-file", cfg.TraceFile, "write OpenTelemetry spans to this file")
	return fs.Parse(args)
}

// expandPath expands a leading ~/ and environment variables.
func expandPath(p string) string {
	if p == "" {
		return p
	}
	p = os.ExpandEnv(p)
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return p
		}
		return filepath.Join(home, strings.TrimPrefix(p[1:], "/"))
	}
	return p
}
