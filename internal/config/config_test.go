package config

import (
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points HOME/XDG at an empty temp dir, clears TADA_* vars and
// chdirs into a fresh project dir.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	for _, k := range []string{
		"TADA_CONFIG", "TADA_BACKEND", "TADA_API_URL", "TADA_API_PREFIX", "TADA_TRANSFORMER",
		"TADA_GRPC_ADDR", "TADA_SEED_FILE", "TADA_THEME", "TADA_LOG_FILE", "TADA_LOG_LEVEL",
		"TADA_TRACE_FILE", "TADA_REQUEST_TIMEOUT", "TADA_NOTICE_TTL",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	proj := t.TempDir()
	t.Chdir(proj)
	return home
}

func newFlagSet() *flag.FlagSet {
	fs := NewFlagSet()
	fs.SetOutput(io.Discard)
	return fs
}

func TestDefaults(t *testing.T) {
	isolate(t)
	cfg, err := Load(newFlagSet(), nil)
	require.NoError(t, err)

	assert.Equal(t, BackendTRPC, cfg.Backend)
	assert.Equal(t, DefaultAPIURL, cfg.APIURL)
	assert.Equal(t, DefaultAPIPrefix, cfg.APIPrefix)
	assert.Equal(t, DefaultGRPCAddr, cfg.GRPCAddr)
	assert.Equal(t, time.Duration(0), cfg.RequestTimeout.Std())
	assert.Equal(t, DefaultNoticeTTL, cfg.NoticeTTL.Std())
	assert.Equal(t, "classic", cfg.Theme)
}

func TestLoadConfigFile_ProjectOverridesUser(t *testing.T) {
	home := isolate(t)

	userDir := filepath.Join(home, ".config", "tada")
	require.NoError(t, os.MkdirAll(userDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(userDir, "config.toml"), []byte(`
backend = "grpc"
grpc_addr = "todo.internal:50051"
theme = "neon"
`), 0o644))

	require.NoError(t, os.WriteFile("tada.toml", []byte(`
theme = "mono"
request_timeout = "2s"
transformer = "superjson"
`), 0o644))

	cfg, err := Load(newFlagSet(), nil)
	require.NoError(t, err)
	assert.Equal(t, BackendGRPC, cfg.Backend)
	assert.Equal(t, "todo.internal:50051", cfg.GRPCAddr)
	assert.Equal(t, "mono", cfg.Theme)
	assert.Equal(t, 2*time.Second, cfg.RequestTimeout.Std())
	assert.Equal(t, "superjson", cfg.Transformer)
}

func TestLoadConfigFile_UnknownKey(t *testing.T) {
	isolate(t)
	require.NoError(t, os.WriteFile("tada.toml", []byte(`colour = "red"`), 0o644))

	_, err := Load(newFlagSet(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "colour")
}

func TestLoadFromEnv(t *testing.T) {
	isolate(t)
	t.Setenv("TADA_BACKEND", "memory")
	t.Setenv("TADA_SEED_FILE", "~/todos.json")
	t.Setenv("TADA_NOTICE_TTL", "0")
	t.Setenv("TADA_REQUEST_TIMEOUT", "750ms")

	cfg, err := Load(newFlagSet(), nil)
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, cfg.Backend)
	home, _ := os.UserHomeDir()
	assert.Equal(t, filepath.Join(home, "todos.json"), cfg.SeedFile)
	assert.Equal(t, time.Duration(0), cfg.NoticeTTL.Std())
	assert.Equal(t, 750*time.Millisecond, cfg.RequestTimeout.Std())
}

func TestLoadFromEnv_BadDuration(t *testing.T) {
	isolate(t)
	t.Setenv("TADA_REQUEST_TIMEOUT", "soon")

	_, err := Load(newFlagSet(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TADA_REQUEST_TIMEOUT")
}

func TestParseFlags_OverrideEnvAndLeaveArgs(t *testing.T) {
	isolate(t)
	t.Setenv("TADA_BACKEND", "grpc")

	fs := newFlagSet()
	cfg, err := Load(fs, []string{"-backend", "memory", "-timeout", "1s", "ls", "completed"})
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, cfg.Backend)
	assert.Equal(t, time.Second, cfg.RequestTimeout.Std())
	assert.Equal(t, []string{"ls", "completed"}, fs.Args())
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"backend":     func(c *Config) { c.Backend = "soap" },
		"transformer": func(c *Config) { c.Transformer = "devalue" },
		"theme":       func(c *Config) { c.Theme = "sepia" },
		"api url":     func(c *Config) { c.APIURL = " " },
		"timeout":     func(c *Config) { c.RequestTimeout = Duration(-time.Second) },
		"log level":   func(c *Config) { c.LogLevel = "loud" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
	assert.NoError(t, Default().Validate())
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	cfg := Default()
	cfg.Backend = "soap"
	cfg.Theme = "sepia"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `backend "soap"`)
	assert.Contains(t, err.Error(), `theme "sepia"`)
}

func TestExplicitConfigFile(t *testing.T) {
	isolate(t)
	p := filepath.Join(t.TempDir(), "custom.toml")
	require.NoError(t, os.WriteFile(p, []byte(`api_url = "https://todo.example.com"`), 0o644))
	t.Setenv("TADA_CONFIG", p)

	cfg, err := Load(newFlagSet(), nil)
	require.NoError(t, err)
	assert.Equal(t, "https://todo.example.com", cfg.APIURL)
}

func TestNewFlagSet(t *testing.T) {
	fs := NewFlagSet()
	assert.Equal(t, "tada", fs.Name())
	assert.Equal(t, flag.ContinueOnError, fs.ErrorHandling())
}

func TestLoad_NilFlagSet(t *testing.T) {
	isolate(t)
	cfg, err := Load(nil, []string{"-backend", "memory"})
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Backend)
}
