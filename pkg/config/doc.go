// Package config loads configuration from two sources: the process
// environment (optionally seeded from .env files) and YAML settings files.
//
// Environment parsing wraps github.com/caarlos0/env/v11 and
// github.com/joho/godotenv. Each configuration type is parsed once and cached
// for the lifetime of the process:
//
//	type Config struct {
//	    SettingsFile string `env:"SEARCHKIT_SETTINGS_FILE" envDefault:"searchkit.yaml"`
//	    SchemaFile   string `env:"SEARCHKIT_SCHEMA_FILE" envDefault:"schema.yaml"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg); err != nil {
//	    log.Fatal(err)
//	}
//
// YAML files are decoded with gopkg.in/yaml.v3 in strict mode: a key that
// does not map to a struct field fails the load. Environment references in
// the file are expanded first:
//
//	var settings opensearch.Settings
//	if err := config.LoadYAML(cfg.SettingsFile, &settings); err != nil {
//	    // errors.Is(err, config.ErrReadingFile) or config.ErrParsingFile
//	}
//
// # Error Handling
//
// All failures join one of the sentinel errors (ErrParsingConfig,
// ErrLoadingEnvFile, ErrReadingFile, ErrParsingFile, ErrNilPointer) with the
// underlying cause, so errors.Is works on both.
//
// ResetCache clears cached environment configurations, mostly for tests.
package config
