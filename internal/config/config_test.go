package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	config := Default()

	home, err := os.UserHomeDir()
	if err == nil && config.Store.DataDir != home {
		t.Errorf("expected DataDir %q, got %q", home, config.Store.DataDir)
	}
	if config.Logging.Level != "info" {
		t.Errorf("expected Logging.Level 'info', got '%s'", config.Logging.Level)
	}
	if config.Display.MaxContentWidth != 0 {
		t.Errorf("expected MaxContentWidth 0, got %d", config.Display.MaxContentWidth)
	}
}

func TestStoreDir(t *testing.T) {
	config := Default()
	config.Store.DataDir = filepath.Join("/tmp", "wg")

	want := filepath.Join("/tmp", "wg", "graph")
	if got := config.StoreDir(); got != want {
		t.Errorf("StoreDir() = %q, want %q", got, want)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
store:
  data_dir: /srv/workgraph

logging:
  level: debug

display:
  max_content_width: 40
`
	if err := os.WriteFile(configPath, []byte(configContent), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	config, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	if config.Store.DataDir != "/srv/workgraph" {
		t.Errorf("expected DataDir '/srv/workgraph', got '%s'", config.Store.DataDir)
	}
	if config.Logging.Level != "debug" {
		t.Errorf("expected Logging.Level 'debug', got '%s'", config.Logging.Level)
	}
	if config.Display.MaxContentWidth != 40 {
		t.Errorf("expected MaxContentWidth 40, got %d", config.Display.MaxContentWidth)
	}
}

func TestLoadFromFile_PartialKeepsDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	if err := os.WriteFile(configPath, []byte("logging:\n  level: trace\n"), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	config, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	if config.Logging.Level != "trace" {
		t.Errorf("expected Logging.Level 'trace', got '%s'", config.Logging.Level)
	}
	if config.Store.DataDir != Default().Store.DataDir {
		t.Errorf("expected default DataDir, got '%s'", config.Store.DataDir)
	}
}

func TestLoadFromFile_PathExpansion(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	t.Setenv("WG_TEST_ROOT", "/opt/data")

	tests := []struct {
		name    string
		dataDir string
		want    string
	}{
		{"env var", "${WG_TEST_ROOT}/wg", "/opt/data/wg"},
		{"tilde", "~/notes", filepath.Join(home, "notes")},
		{"plain", "/var/lib/wg", "/var/lib/wg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "config.yaml")
			content := "store:\n  data_dir: \"" + tt.dataDir + "\"\n"
			if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
				t.Fatalf("failed to write test config: %v", err)
			}

			config, err := LoadFromFile(configPath)
			if err != nil {
				t.Fatalf("LoadFromFile failed: %v", err)
			}
			if config.Store.DataDir != tt.want {
				t.Errorf("expected DataDir %q, got %q", tt.want, config.Store.DataDir)
			}
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("WG_DATA_DIR", "/data/wg")
	t.Setenv("WG_LOG_LEVEL", "debug")
	t.Setenv("WG_MAX_CONTENT_WIDTH", "32")

	config := Default()
	applyEnvOverrides(config)

	if config.Store.DataDir != "/data/wg" {
		t.Errorf("expected DataDir '/data/wg', got '%s'", config.Store.DataDir)
	}
	if config.Logging.Level != "debug" {
		t.Errorf("expected Logging.Level 'debug', got '%s'", config.Logging.Level)
	}
	if config.Display.MaxContentWidth != 32 {
		t.Errorf("expected MaxContentWidth 32, got %d", config.Display.MaxContentWidth)
	}
}

func TestEnvOverrides_InvalidWidthIgnored(t *testing.T) {
	t.Setenv("WG_MAX_CONTENT_WIDTH", "wide")

	config := Default()
	applyEnvOverrides(config)

	if config.Display.MaxContentWidth != 0 {
		t.Errorf("expected MaxContentWidth 0, got %d", config.Display.MaxContentWidth)
	}
}

func TestLoad_ConfigFileThenEnv(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("WG_DATA_DIR", "")
	t.Setenv("WG_LOG_LEVEL", "trace")
	t.Setenv("WG_MAX_CONTENT_WIDTH", "")

	if err := os.MkdirAll(filepath.Join(home, ".workgraph"), 0700); err != nil {
		t.Fatal(err)
	}
	content := "store:\n  data_dir: /from/file\nlogging:\n  level: debug\n"
	if err := os.WriteFile(filepath.Join(home, ".workgraph", "config.yaml"), []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	config, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if config.Store.DataDir != "/from/file" {
		t.Errorf("expected DataDir from file, got '%s'", config.Store.DataDir)
	}
	if config.Logging.Level != "trace" {
		t.Errorf("expected env to override level, got '%s'", config.Logging.Level)
	}
}

func TestValidate_Valid(t *testing.T) {
	config := Default()
	if err := config.Validate(); err != nil {
		t.Errorf("expected valid config, got error: %v", err)
	}
}

func TestValidate_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty data dir", func(c *Config) { c.Store.DataDir = "" }},
		{"negative width", func(c *Config) { c.Display.MaxContentWidth = -1 }},
		{"unknown level", func(c *Config) { c.Logging.Level = "verbose" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := Default()
			tt.mutate(config)
			if err := config.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestValidate_ValidLogLevels(t *testing.T) {
	validLevels := []string{"", "info", "debug", "trace"}

	for _, level := range validLevels {
		t.Run(level, func(t *testing.T) {
			config := Default()
			config.Logging.Level = level
			if err := config.Validate(); err != nil {
				t.Errorf("expected log level '%s' to be valid, got error: %v", level, err)
			}
		})
	}
}

func TestLoadFromFile_NotFound(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error for nonexistent file")
	}
}

func TestLoadFromFile_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	invalidYAML := `
store:
  data_dir: [invalid yaml
`
	if err := os.WriteFile(configPath, []byte(invalidYAML), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	_, err := LoadFromFile(configPath)
	if err == nil {
		t.Error("expected error for invalid YAML")
	}
}
