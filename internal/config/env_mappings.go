package config

import (
	"reflect"
	"strings"
)

// EnvMapping binds an environment variable to a configuration path.
type EnvMapping struct {
	EnvVar     string
	ConfigPath string
}

// GenerateEnvMappings derives the environment mappings from the env and
// koanf tags of Config.
func GenerateEnvMappings() []EnvMapping {
	var out []EnvMapping

	collectEnv(reflect.TypeOf(Config{}), "", &out)

	return out
}

func collectEnv(t reflect.Type, prefix string, out *[]EnvMapping) {
	for i := range t.NumField() {
		f := t.Field(i)

		key := f.Tag.Get("koanf")
		if key == "" {
			continue
		}

		path := key
		if prefix != "" {
			path = prefix + "." + key
		}

		if f.Type.Kind() == reflect.Struct {
			collectEnv(f.Type, path, out)
			continue
		}

		if env := f.Tag.Get("env"); env != "" {
			*out = append(*out, EnvMapping{EnvVar: env, ConfigPath: path})
		}
	}
}

// transformEnvKey converts an unmapped variable to a koanf path: the prefix
// is dropped and the rest lower-cased, PROVIDERGEN_DRY_RUN -> dry_run.
func transformEnvKey(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
}
