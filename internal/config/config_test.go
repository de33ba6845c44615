package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/adrg/xdg"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	xdg.Reload()
	t.Cleanup(xdg.Reload)

	want := filepath.Join("/custom/config", "agentsync", "config.yaml")
	if got := ConfigPath(); got != want {
		t.Errorf("ConfigPath() = %s, want %s", got, want)
	}
}

func TestLoadFrom(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		missing   bool
		want      Config
		wantError string
	}{
		{
			name:    "missing file gives defaults",
			missing: true,
			want:    DefaultConfig(),
		},
		{
			name:    "empty file gives defaults",
			content: "",
			want:    DefaultConfig(),
		},
		{
			name:    "all fields",
			content: "canonical_dir: agents\nskip_git_check: true\nproviders: [claude, cursor]\nversion: \"1\"\n",
			want: Config{
				CanonicalDir: "agents",
				SkipGitCheck: true,
				Providers:    []string{"claude", "cursor"},
				Version:      "1",
			},
		},
		{
			name:    "partial file keeps defaults",
			content: "skip_git_check: true\n",
			want: Config{
				CanonicalDir: ".agentsync",
				SkipGitCheck: true,
				Version:      CurrentVersion,
			},
		},
		{
			name:      "unknown provider",
			content:   "providers: [vim]\n",
			wantError: "unsupported provider: vim",
		},
		{
			name:      "absolute canonical dir",
			content:   "canonical_dir: /etc/agents\n",
			wantError: "canonical_dir",
		},
		{
			name:      "malformed yaml",
			content:   "providers: [claude\n",
			wantError: "failed to parse config file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if !tt.missing {
				path = writeConfig(t, tt.content)
			}

			cfg, err := LoadFrom(path)
			if tt.wantError != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantError) {
					t.Fatalf("LoadFrom() error = %v, want containing %q", err, tt.wantError)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadFrom() unexpected error: %v", err)
			}
			if cfg.CanonicalDir != tt.want.CanonicalDir ||
				cfg.SkipGitCheck != tt.want.SkipGitCheck ||
				cfg.Version != tt.want.Version ||
				strings.Join(cfg.Providers, ",") != strings.Join(tt.want.Providers, ",") {
				t.Errorf("LoadFrom() = %+v, want %+v", *cfg, tt.want)
			}
		})
	}
}

func TestLoad_UsesXDGLocation(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	xdg.Reload()
	t.Cleanup(xdg.Reload)

	dir := filepath.Join(home, "agentsync")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("canonical_dir: shared\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.CanonicalDir != "shared" {
		t.Errorf("CanonicalDir = %q, want %q", cfg.CanonicalDir, "shared")
	}
}

func TestSaveToThenLoadFrom(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Config{CanonicalDir: "agents", Providers: []string{"gemini"}}

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo() error: %v", err)
	}
	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}
	if loaded.CanonicalDir != "agents" || len(loaded.Providers) != 1 || loaded.Providers[0] != "gemini" {
		t.Errorf("round trip mismatch: %+v", *loaded)
	}
	if loaded.Version != CurrentVersion {
		t.Errorf("Version = %q, want %q", loaded.Version, CurrentVersion)
	}
}

func TestMarshal_OmitsEmptyProviders(t *testing.T) {
	cfg := DefaultConfig()
	data, err := cfg.Marshal()
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "providers") {
		t.Errorf("expected no providers key, got:\n%s", data)
	}
	if !strings.Contains(string(data), "canonical_dir: .agentsync") {
		t.Errorf("expected canonical_dir, got:\n%s", data)
	}
}
