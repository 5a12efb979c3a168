package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Templates.Dir != "templates" {
		t.Errorf("expected templates dir 'templates', got %s", cfg.Templates.Dir)
	}
	if cfg.Output.Root != "" {
		t.Errorf("expected empty output root, got %s", cfg.Output.Root)
	}
	if cfg.Output.Flat {
		t.Error("expected flat to be false by default")
	}
	if cfg.Workers.Count != 0 {
		t.Errorf("expected worker count 0 (GOMAXPROCS), got %d", cfg.Workers.Count)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
templates:
  dir: "/srv/templates"

output:
  root: "/srv/out"
  flat: true

workers:
  count: 8

logging:
  level: "debug"
  log_file: "cutter.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Templates.Dir != "/srv/templates" {
		t.Errorf("expected templates dir '/srv/templates', got %s", cfg.Templates.Dir)
	}
	if cfg.Output.Root != "/srv/out" {
		t.Errorf("expected output root '/srv/out', got %s", cfg.Output.Root)
	}
	if !cfg.Output.Flat {
		t.Error("expected flat to be true")
	}
	if cfg.Workers.Count != 8 {
		t.Errorf("expected worker count 8, got %d", cfg.Workers.Count)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "cutter.log" {
		t.Errorf("expected log file 'cutter.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
templates:
  dir: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	err := loadFromFile(cfg, configPath)
	if err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	err := loadFromFile(cfg, "/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)

	path := findConfigFile()
	if path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("templates:\n  dir: \"x\"\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	path = findConfigFile()
	if path == "" {
		t.Error("expected to find config.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name: "templates flag",
			setup: func() {
				*flagTemplates = "/custom/templates"
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Templates.Dir != "/custom/templates" {
					t.Errorf("expected templates dir '/custom/templates', got %s", cfg.Templates.Dir)
				}
			},
			teardown: func() { *flagTemplates = "" },
		},
		{
			name: "output flag",
			setup: func() {
				*flagOutput = "/custom/out"
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Output.Root != "/custom/out" {
					t.Errorf("expected output root '/custom/out', got %s", cfg.Output.Root)
				}
			},
			teardown: func() { *flagOutput = "" },
		},
		{
			name: "flat flag",
			setup: func() {
				*flagFlat = true
			},
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Output.Flat {
					t.Error("expected flat to be true with flat flag")
				}
			},
			teardown: func() { *flagFlat = false },
		},
		{
			name: "workers flag",
			setup: func() {
				*flagWorkers = 4
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Workers.Count != 4 {
					t.Errorf("expected worker count 4, got %d", cfg.Workers.Count)
				}
			},
			teardown: func() { *flagWorkers = 0 },
		},
		{
			name: "log level and file flags",
			setup: func() {
				*flagLogLevel = "warn"
				*flagLogFile = "out.log"
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "warn" {
					t.Errorf("expected log level 'warn', got %s", cfg.Logging.Level)
				}
				if cfg.Logging.LogFile != "out.log" {
					t.Errorf("expected log file 'out.log', got %s", cfg.Logging.LogFile)
				}
			},
			teardown: func() {
				*flagLogLevel = ""
				*flagLogFile = ""
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)

			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
workers:
  count: 2
output:
  root: "/from/file"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagWorkers = 16
	defer func() {
		*flagConfig = ""
		*flagWorkers = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Workers should be from flag (16), not file (2).
	if cfg.Workers.Count != 16 {
		t.Errorf("expected worker count 16 from flag, got %d", cfg.Workers.Count)
	}

	// Output root should be from file since no flag override.
	if cfg.Output.Root != "/from/file" {
		t.Errorf("expected output root '/from/file' from file, got %s", cfg.Output.Root)
	}
}
