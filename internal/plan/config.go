package plan

// Config holds configuration for planning.
type Config struct {
	// RuntimePath is the import path of the runtime package generated code
	// depends on.
	RuntimePath string
	// RuntimeAlias is the preferred name for the runtime import. A fresh
	// name is picked when it is taken.
	RuntimeAlias string
	// ProviderSuffix is appended to the annotated type's name to name its
	// provider.
	ProviderSuffix string
}

// Default runtime package.
const (
	DefaultRuntimePath  = "provider-generator/provide"
	DefaultRuntimeAlias = "provide"
)

// DefaultConfig returns the default planning configuration.
func DefaultConfig() Config {
	return Config{
		RuntimePath:    DefaultRuntimePath,
		RuntimeAlias:   DefaultRuntimeAlias,
		ProviderSuffix: "Provider",
	}
}
