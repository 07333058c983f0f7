package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/rxkit/errors"
)

func TestServiceConfigApplyDefaults(t *testing.T) {
	t.Run("empty environment defaults to development", func(t *testing.T) {
		cfg := ServiceConfig{Name: "svc"}
		cfg.ApplyDefaults()
		if cfg.Environment != "development" {
			t.Errorf("got %q, want development", cfg.Environment)
		}
		if !cfg.Debug {
			t.Error("expected debug=true for development")
		}
		if cfg.Logging.ServiceName != "svc" {
			t.Errorf("got logging service name %q, want svc", cfg.Logging.ServiceName)
		}
	})

	t.Run("production keeps debug false", func(t *testing.T) {
		cfg := ServiceConfig{Name: "svc", Environment: "production"}
		cfg.ApplyDefaults()
		if cfg.Debug {
			t.Error("expected debug=false for production")
		}
	})
}

func TestServiceConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ServiceConfig
		wantErr string
	}{
		{"valid staging", ServiceConfig{Name: "svc", Environment: "staging"}, ""},
		{"missing name", ServiceConfig{Environment: "production"}, "name: is required"},
		{"invalid environment", ServiceConfig{Name: "svc", Environment: "qa"}, "environment: must be one of"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.cfg.Logging.ApplyDefaults()
			err := tc.cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("got %v, want error containing %q", err, tc.wantErr)
			}
		})
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{ServiceConfig: ServiceConfig{Name: "rxdemo"}}
	cfg.ApplyDefaults()

	if cfg.Rx.Scheduler != "immediate" || cfg.Rx.DefaultBuffer != 64 {
		t.Errorf("unexpected rx defaults %+v", cfg.Rx)
	}
	if cfg.SSE.KeepAlive != 30*time.Second || cfg.Server.Port != 8080 {
		t.Errorf("unexpected section defaults sse=%+v port=%d", cfg.SSE, cfg.Server.Port)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	mc := cfg.MeterConfig()
	tc := cfg.TracerConfig()
	if mc.ServiceName != "rxdemo" || tc.SampleRate != 1.0 || mc.Interval != 15*time.Second {
		t.Errorf("unexpected observability configs %+v %+v", mc, tc)
	}
}

func TestConfigValidate_ReportsEverySection(t *testing.T) {
	cfg := Config{ServiceConfig: ServiceConfig{Name: "rxdemo"}}
	cfg.ApplyDefaults()
	cfg.Rx.Scheduler = "async"
	cfg.SSE.Buffer = -1
	cfg.Observability.SampleRate = 2

	err := cfg.Validate()
	appErr, ok := errors.AsAppError(err)
	if !ok {
		t.Fatalf("got %v, want an AppError", err)
	}
	for _, want := range []string{"rx.scheduler", "observability.sample_rate: must be between 0 and 1", "sse.buffer"} {
		if !strings.Contains(appErr.Message, want) {
			t.Errorf("message %q does not mention %s", appErr.Message, want)
		}
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yml")
	yamlContent := `
name: rxdemo
environment: staging
rx:
  scheduler: deferred
sse:
  keep_alive: 5s
server:
  port: 9090
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	t.Setenv("RXKIT_SSE_BUFFER", "32")
	t.Setenv("RXKIT_OBSERVABILITY_SAMPLE_RATE", "0.25")

	cfg, err := Load("rxdemo", WithConfigFile(configPath), WithEnvFile(filepath.Join(dir, ".env")))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Environment != "staging" || cfg.Rx.Scheduler != "deferred" {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.SSE.KeepAlive != 5*time.Second || cfg.Server.Port != 9090 {
		t.Errorf("got keep_alive %s port %d", cfg.SSE.KeepAlive, cfg.Server.Port)
	}
	if cfg.SSE.Buffer != 32 || cfg.Observability.SampleRate != 0.25 {
		t.Errorf("env overrides not applied: buffer=%d rate=%g", cfg.SSE.Buffer, cfg.Observability.SampleRate)
	}
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	if err := os.WriteFile(envPath, []byte("RXKIT_RX_DEFAULT_BUFFER=7\n"), 0o644); err != nil {
		t.Fatalf("failed to write env file: %v", err)
	}
	t.Cleanup(func() { os.Unsetenv("RXKIT_RX_DEFAULT_BUFFER") })

	cfg, err := Load("rxdemo", WithConfigFile(filepath.Join(dir, "missing.yml")), WithEnvFile(envPath))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Name != "rxdemo" {
		t.Errorf("got name %q, want rxdemo", cfg.Name)
	}
	if cfg.Rx.DefaultBuffer != 7 {
		t.Errorf("got default_buffer %d, want 7", cfg.Rx.DefaultBuffer)
	}
}

func TestLoad_InvalidConfig(t *testing.T) {
	t.Setenv("RXKIT_RX_SCHEDULER", "async")
	_, err := Load("rxdemo", WithFileSystem(&mockFS{}))
	if err == nil || !strings.Contains(err.Error(), "rx.scheduler") {
		t.Errorf("got %v, want an rx.scheduler validation error", err)
	}
}

type mockFS struct {
	files map[string]bool
}

func (m *mockFS) Exists(path string) bool { return m.files[path] }
func (m *mockFS) LoadEnv(string) error    { return nil }

func TestResolverWithMockFS(t *testing.T) {
	tests := []struct {
		name     string
		files    []string
		wantConf string
		wantEnv  string
	}{
		{"service dir wins", []string{"./cmd/rxdemo/config.yml", "./config.yml"}, "./cmd/rxdemo/config.yml", ""},
		{"parent dir", []string{"../config/config.yml"}, "../config/config.yml", ""},
		{"service env file first", []string{"./.env", "./cmd/rxdemo/.env.rxdemo"}, "", "./cmd/rxdemo/.env.rxdemo"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fs := &mockFS{files: map[string]bool{}}
			for _, f := range tc.files {
				fs.files[f] = true
			}
			resolver := &Resolver{FileSystem: fs}
			got := resolver.ResolveFiles("rxdemo", LoaderConfig{})
			if got.ConfigFile != tc.wantConf || got.EnvFile != tc.wantEnv {
				t.Errorf("got %+v, want config %q env %q", got, tc.wantConf, tc.wantEnv)
			}
		})
	}
}

func TestLoaderOptions(t *testing.T) {
	var lc LoaderConfig
	WithFileSystem(&mockFS{})(&lc)
	WithConfigFile("/path/to/config.yml")(&lc)
	WithEnvFile("/path/to/.env")(&lc)
	WithEnvPrefix("DEMO")(&lc)

	if lc.FileSystem == nil || lc.ConfigFile != "/path/to/config.yml" || lc.EnvFile != "/path/to/.env" || lc.EnvPrefix != "DEMO" {
		t.Errorf("unexpected loader config %+v", lc)
	}
}
