package config

import (
	"context"
	"errors"
	"fmt"
	"go/token"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"gopkg.in/yaml.v3"
)

// SourceType names where a configuration value came from.
type SourceType string

const (
	SourceDefault SourceType = "default"
	SourceYAML    SourceType = "yaml"
	SourceEnv     SourceType = "env"
	SourceCLI     SourceType = "cli"
)

// LoadOptions selects the sources of a load beyond defaults and the
// environment.
type LoadOptions struct {
	// File is an explicit config file. When empty, DefaultFile is used if
	// it exists in Dir.
	File string
	// Dir is where DefaultFile is looked up.
	Dir string
	// Overrides are CLI values keyed by koanf path; they win over every
	// other source.
	Overrides map[string]any
}

// Loader loads configuration from defaults, a YAML file, the environment
// and CLI overrides, in increasing precedence.
type Loader struct {
	koanf     *koanf.Koanf
	validator *validator.Validate
	sources   map[string]SourceType
	mu        sync.RWMutex
}

// NewLoader creates a Loader with validation support.
func NewLoader() *Loader {
	v := validator.New()
	_ = v.RegisterValidation("goident", func(fl validator.FieldLevel) bool {
		return token.IsIdentifier(fl.Field().String())
	})

	return &Loader{
		koanf:     koanf.New("."),
		validator: v,
		sources:   make(map[string]SourceType),
	}
}

// Load builds and validates the configuration.
func (l *Loader) Load(_ context.Context, opts LoadOptions) (*Config, error) {
	l.reset()

	if err := l.loadDefaults(); err != nil {
		return nil, err
	}

	if err := l.loadFile(opts); err != nil {
		return nil, err
	}

	if err := l.loadEnvironment(); err != nil {
		return nil, err
	}

	if err := l.apply(opts.Overrides, SourceCLI); err != nil {
		return nil, err
	}

	return l.unmarshalAndValidate()
}

// Sources reports, per configuration key, the source that set its value.
func (l *Loader) Sources() map[string]SourceType {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make(map[string]SourceType, len(l.sources))
	for k, v := range l.sources {
		out[k] = v
	}

	return out
}

// Keys lists the configuration keys in order.
func (l *Loader) Keys() []string {
	keys := l.koanf.Keys()
	sort.Strings(keys)

	return keys
}

func (l *Loader) reset() {
	l.koanf = koanf.New(".")

	l.mu.Lock()
	l.sources = make(map[string]SourceType)
	l.mu.Unlock()
}

func (l *Loader) trackChanges(before map[string]any, source SourceType) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, key := range l.koanf.Keys() {
		prev, existed := before[key]
		if !existed || fmt.Sprint(prev) != fmt.Sprint(l.koanf.Get(key)) {
			l.sources[key] = source
		}
	}
}

func (l *Loader) snapshot() map[string]any {
	out := make(map[string]any)
	for _, key := range l.koanf.Keys() {
		out[key] = l.koanf.Get(key)
	}

	return out
}

// loadDefaults loads the default configuration.
func (l *Loader) loadDefaults() error {
	if err := l.koanf.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return fmt.Errorf("failed to load defaults: %w", err)
	}

	l.trackChanges(nil, SourceDefault)

	return nil
}

// loadFile merges the YAML config file, if any.
func (l *Loader) loadFile(opts LoadOptions) error {
	path := opts.File
	if path == "" {
		path = filepath.Join(opts.Dir, DefaultFile)
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var values map[string]any
	if err := yaml.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return l.apply(values, SourceYAML)
}

// apply sets every key of values, keeping keys it does not mention.
func (l *Loader) apply(values map[string]any, source SourceType) error {
	if len(values) == 0 {
		return nil
	}

	before := l.snapshot()

	for key, value := range flattenMap("", values) {
		if err := l.koanf.Set(key, value); err != nil {
			return fmt.Errorf("failed to set key %s from source %s: %w", key, source, err)
		}
	}

	l.trackChanges(before, source)

	return nil
}

// loadEnvironment loads configuration from PROVIDERGEN_ variables.
func (l *Loader) loadEnvironment() error {
	envToPath := make(map[string]string)
	for _, mapping := range GenerateEnvMappings() {
		envToPath[mapping.EnvVar] = mapping.ConfigPath
	}

	before := l.snapshot()

	if err := l.koanf.Load(env.Provider(".", env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(key string, value string) (string, any) {
			if configPath, exists := envToPath[key]; exists {
				return configPath, value
			}

			return transformEnvKey(key), value
		},
	}), nil); err != nil {
		return fmt.Errorf("failed to load environment variables: %w", err)
	}

	l.trackChanges(before, SourceEnv)

	return nil
}

// flattenMap flattens a nested map into dot-notation keys
func flattenMap(prefix string, m map[string]any) map[string]any {
	result := make(map[string]any)

	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}

		if nestedMap, ok := v.(map[string]any); ok {
			for fk, fv := range flattenMap(key, nestedMap) {
				result[fk] = fv
			}
		} else {
			result[key] = v
		}
	}

	return result
}

// unmarshalAndValidate unmarshals the configuration and validates it.
func (l *Loader) unmarshalAndValidate() (*Config, error) {
	var config Config

	if err := l.koanf.UnmarshalWithConf("", &config, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           &config,
			TagName:          "koanf",
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := l.Validate(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// Validate checks if the configuration meets all validation requirements.
func (l *Loader) Validate(config *Config) error {
	if config == nil {
		return fmt.Errorf("configuration cannot be nil")
	}

	if err := l.validator.Struct(config); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	return nil
}
