package config

import (
	"time"

	"provider-generator/internal/gen"
	"provider-generator/internal/logger"
	"provider-generator/internal/plan"
)

// DefaultFile is the config file looked up in the working directory.
const DefaultFile = ".provider-generator.yaml"

// EnvPrefix starts every environment variable the loader reads.
const EnvPrefix = "PROVIDERGEN_"

// Config is the configuration of one generator run.
type Config struct {
	// Patterns are the Go package patterns to scan.
	Patterns []string `koanf:"patterns" yaml:"patterns" env:"PROVIDERGEN_PATTERNS" validate:"required_without=Manifest"`
	// Manifest replaces source scanning with a YAML manifest.
	Manifest string `koanf:"manifest" yaml:"manifest" env:"PROVIDERGEN_MANIFEST"`
	// Dir is the directory patterns are resolved in.
	Dir string `koanf:"dir" yaml:"dir" env:"PROVIDERGEN_DIR"`
	// Output is the name of the generated file in each package.
	Output    string   `koanf:"output" yaml:"output" env:"PROVIDERGEN_OUTPUT" validate:"required,endswith=.go,excludes=/"`
	BuildTags []string `koanf:"build_tags" yaml:"build_tags" env:"PROVIDERGEN_BUILD_TAGS"`
	// Exclude skips packages whose directory, relative to Dir, matches one
	// of these doublestar patterns.
	Exclude        []string      `koanf:"exclude" yaml:"exclude" env:"PROVIDERGEN_EXCLUDE"`
	ProviderSuffix string        `koanf:"provider_suffix" yaml:"provider_suffix" env:"PROVIDERGEN_PROVIDER_SUFFIX" validate:"omitempty,goident"`
	Comments       bool          `koanf:"comments" yaml:"comments" env:"PROVIDERGEN_COMMENTS"`
	Debug          bool          `koanf:"debug" yaml:"debug" env:"PROVIDERGEN_DEBUG"`
	DryRun         bool          `koanf:"dry_run" yaml:"dry_run" env:"PROVIDERGEN_DRY_RUN"`
	Strict         bool          `koanf:"strict" yaml:"strict" env:"PROVIDERGEN_STRICT"`
	Runtime        RuntimeConfig `koanf:"runtime" yaml:"runtime"`
	Log            LogConfig     `koanf:"log" yaml:"log"`
	Watch          WatchConfig   `koanf:"watch" yaml:"watch"`
}

// RuntimeConfig locates the runtime package generated code imports.
type RuntimeConfig struct {
	Path  string `koanf:"path" yaml:"path" env:"PROVIDERGEN_RUNTIME_PATH" validate:"required"`
	Alias string `koanf:"alias" yaml:"alias" env:"PROVIDERGEN_RUNTIME_ALIAS" validate:"required,goident"`
}

// LogConfig configures the default logger.
type LogConfig struct {
	Level  string `koanf:"level" yaml:"level" env:"PROVIDERGEN_LOG_LEVEL" validate:"oneof=debug info warn error disabled"`
	JSON   bool   `koanf:"json" yaml:"json" env:"PROVIDERGEN_LOG_JSON"`
	Source bool   `koanf:"source" yaml:"source" env:"PROVIDERGEN_LOG_SOURCE"`
}

// WatchConfig tunes how file events are batched in watch mode.
type WatchConfig struct {
	// Debounce is the quiet period after the last event before regenerating.
	Debounce time.Duration `koanf:"debounce" yaml:"debounce" env:"PROVIDERGEN_WATCH_DEBOUNCE" validate:"gt=0"`
	// MaxWait bounds how long a stream of events can delay a run.
	MaxWait time.Duration `koanf:"max_wait" yaml:"max_wait" env:"PROVIDERGEN_WATCH_MAX_WAIT" validate:"gtefield=Debounce"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	planCfg := plan.DefaultConfig()
	genCfg := gen.DefaultGeneratorConfig()

	return &Config{
		Patterns:       []string{"./..."},
		Dir:            ".",
		Output:         genCfg.Filename,
		ProviderSuffix: planCfg.ProviderSuffix,
		Comments:       genCfg.GenerateComments,
		Debug:          genCfg.DebugUnformatted,
		Runtime: RuntimeConfig{
			Path:  planCfg.RuntimePath,
			Alias: planCfg.RuntimeAlias,
		},
		Log: LogConfig{
			Level: string(logger.InfoLevel),
		},
		Watch: WatchConfig{
			Debounce: 200 * time.Millisecond,
			MaxWait:  2 * time.Second,
		},
	}
}

// PlanConfig returns the planner settings.
func (c *Config) PlanConfig() plan.Config {
	return plan.Config{
		RuntimePath:    c.Runtime.Path,
		RuntimeAlias:   c.Runtime.Alias,
		ProviderSuffix: c.ProviderSuffix,
	}
}

// GeneratorConfig returns the emitter settings.
func (c *Config) GeneratorConfig() gen.GeneratorConfig {
	return gen.GeneratorConfig{
		Filename:         c.Output,
		GenerateComments: c.Comments,
		DebugUnformatted: c.Debug,
	}
}

// LoggerConfig returns the logger settings.
func (c *Config) LoggerConfig() *logger.Config {
	cfg := logger.DefaultConfig()
	cfg.Level = logger.LogLevel(c.Log.Level)
	cfg.JSON = c.Log.JSON
	cfg.AddSource = c.Log.Source

	return cfg
}
