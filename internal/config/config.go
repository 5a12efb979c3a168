// Package config handles the CLI's own ambient settings: where templates
// live, how many files to process concurrently, where output goes, and
// how to log. It has nothing to do with any one icon operation's
// configuration — that's pkg/bitmask's TOML-sourced IconOperationConfig.
package config

// Config holds the CLI's own settings.
type Config struct {
	Templates TemplatesConfig `yaml:"templates"`
	Output    OutputConfig    `yaml:"output"`
	Workers   WorkersConfig   `yaml:"workers"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// TemplatesConfig points at the directory pkg/templates.FileResolver
// reads named templates from.
type TemplatesConfig struct {
	Dir string `yaml:"dir"`
}

// OutputConfig controls where Slice/Reconstruct outputs land.
type OutputConfig struct {
	// Root, if set, mirrors every output beneath this directory instead
	// of writing it adjacent to its input.
	Root string `yaml:"root"`
	// Flat writes every output directly into Root with no mirrored
	// subdirectory structure.
	Flat bool `yaml:"flat"`
}

// WorkersConfig controls the CLI's file-processing worker pool.
type WorkersConfig struct {
	// Count is the number of files processed concurrently. Zero means
	// GOMAXPROCS.
	Count int `yaml:"count"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Templates: TemplatesConfig{
			Dir: "templates",
		},
		Output: OutputConfig{
			Root: "",
			Flat: false,
		},
		Workers: WorkersConfig{
			Count: 0,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
