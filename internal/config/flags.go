package config

import "flag"

var (
	flagConfig    = flag.String("config", "", "Path to config file")
	flagTemplates = flag.String("templates", "", "Template directory")
	flagOutput    = flag.String("output", "", "Output root directory")
	flagFlat      = flag.Bool("flat", false, "Write outputs flat into the output root")
	flagWorkers   = flag.Int("workers", 0, "Number of files to process concurrently (0 = GOMAXPROCS)")
	flagLogLevel  = flag.String("log-level", "", "Log level (debug, info, warn, error)")
	flagLogFile   = flag.String("log-file", "", "Log file path (empty logs to stderr)")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagTemplates != "" {
		cfg.Templates.Dir = *flagTemplates
	}
	if *flagOutput != "" {
		cfg.Output.Root = *flagOutput
	}
	if *flagFlat {
		cfg.Output.Flat = true
	}
	if *flagWorkers > 0 {
		cfg.Workers.Count = *flagWorkers
	}
	if *flagLogLevel != "" {
		cfg.Logging.Level = *flagLogLevel
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
}
