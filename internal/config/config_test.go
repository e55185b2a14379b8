package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func TestLoad_Defaults(t *testing.T) {
	resetViper(t)
	testChdir(t, t.TempDir())

	if err := InitConfig(""); err != nil {
		t.Fatalf("InitConfig: %v", err)
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Source.URL != "https://raw.githubusercontent.com/521xueweihan/GitHub520/main/hosts" {
		t.Errorf("Source.URL = %q", cfg.Source.URL)
	}
	if cfg.Source.Timeout != 30*time.Second {
		t.Errorf("Source.Timeout = %s, want 30s", cfg.Source.Timeout)
	}
	if cfg.Marker.Backend != BackendFile {
		t.Errorf("Marker.Backend = %q, want %q", cfg.Marker.Backend, BackendFile)
	}
	if cfg.Marker.Path != "last_update_time.txt" {
		t.Errorf("Marker.Path = %q", cfg.Marker.Path)
	}
	if cfg.Output.Path != "GitHubHost.plugin" {
		t.Errorf("Output.Path = %q", cfg.Output.Path)
	}
	if cfg.Logging.Level != "INFO" {
		t.Errorf("Logging.Level = %q, want INFO", cfg.Logging.Level)
	}
	if cfg.App.Force {
		t.Error("App.Force = true, want false")
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	resetViper(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	content := `source:
  url: http://example.test/hosts
  timeout: 5s
marker:
  backend: etcd
  etcd:
    endpoints: ["etcd-1:2379", "etcd-2:2379"]
    key: /markers/github
output:
  path: out/plugin.txt
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := InitConfig(path); err != nil {
		t.Fatalf("InitConfig: %v", err)
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Source.URL != "http://example.test/hosts" {
		t.Errorf("Source.URL = %q", cfg.Source.URL)
	}
	if cfg.Source.Timeout != 5*time.Second {
		t.Errorf("Source.Timeout = %s, want 5s", cfg.Source.Timeout)
	}
	if cfg.Marker.Backend != BackendEtcd {
		t.Errorf("Marker.Backend = %q", cfg.Marker.Backend)
	}
	if len(cfg.Marker.Etcd.Endpoints) != 2 {
		t.Errorf("Marker.Etcd.Endpoints = %v", cfg.Marker.Etcd.Endpoints)
	}
	if cfg.Marker.Etcd.Key != "/markers/github" {
		t.Errorf("Marker.Etcd.Key = %q", cfg.Marker.Etcd.Key)
	}
	if cfg.Output.Path != "out/plugin.txt" {
		t.Errorf("Output.Path = %q", cfg.Output.Path)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	resetViper(t)
	testChdir(t, t.TempDir())
	t.Setenv("GHS_OUTPUT_PATH", "/tmp/from-env.plugin")

	if err := InitConfig(""); err != nil {
		t.Fatalf("InitConfig: %v", err)
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Output.Path != "/tmp/from-env.plugin" {
		t.Errorf("Output.Path = %q, want env value", cfg.Output.Path)
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Source: SourceConfig{URL: "http://x", Timeout: time.Second},
			Marker: MarkerConfig{Backend: BackendFile, Path: "m.txt"},
			Output: OutputConfig{Path: "o.txt"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "empty url", mutate: func(c *Config) { c.Source.URL = " " }, wantErr: "source.url"},
		{name: "zero timeout", mutate: func(c *Config) { c.Source.Timeout = 0 }, wantErr: "source.timeout"},
		{name: "empty output", mutate: func(c *Config) { c.Output.Path = "" }, wantErr: "output.path"},
		{name: "empty marker path", mutate: func(c *Config) { c.Marker.Path = "" }, wantErr: "marker.path"},
		{name: "unknown backend", mutate: func(c *Config) { c.Marker.Backend = "redis" }, wantErr: "unknown marker.backend"},
		{
			name: "etcd without endpoints",
			mutate: func(c *Config) {
				c.Marker.Backend = BackendEtcd
				c.Marker.Etcd.Key = "/k"
			},
			wantErr: "marker.etcd.endpoints",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("err = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

// testChdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir for pre-1.24 toolchains).
func testChdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir %s: %v", dir, err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(wd); err != nil {
			t.Fatalf("restore wd %s: %v", wd, err)
		}
	})
}
