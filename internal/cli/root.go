package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"provider-generator/internal/config"
	"provider-generator/internal/logger"
)

// ErrDiagnostics is returned when a run reported error diagnostics. The
// diagnostics themselves have already been printed.
var ErrDiagnostics = errors.New("generation reported errors")

type configKey struct{}

// flagPaths maps flag names to configuration paths. Only flags the user set
// override the configuration.
var flagPaths = map[string]string{
	"dir":             "dir",
	"manifest":        "manifest",
	"output":          "output",
	"tags":            "build_tags",
	"exclude":         "exclude",
	"provider-suffix": "provider_suffix",
	"runtime-path":    "runtime.path",
	"runtime-alias":   "runtime.alias",
	"comments":        "comments",
	"debug":           "debug",
	"dry-run":         "dry_run",
	"strict":          "strict",
	"log-level":       "log.level",
	"log-json":        "log.json",
	"log-source":      "log.source",
	"debounce":        "watch.debounce",
}

// RootCmd builds the provider-generator command tree.
func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "provider-generator",
		Short: "Generate dependency providers for annotated Go types",
		Long: `provider-generator scans Go packages for types annotated with
//inject:provide(...) and writes a provider for each of them.`,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "config file (default is ./"+config.DefaultFile+")")
	flags.StringP("dir", "C", ".", "directory to resolve package patterns in")
	flags.String("manifest", "", "read annotations from a YAML manifest instead of source")
	flags.StringSlice("tags", nil, "build tags used when loading packages")
	flags.StringSlice("exclude", nil, "doublestar patterns of package directories to skip")
	flags.String("log-level", "info", "log level (debug, info, warn, error, disabled)")
	flags.Bool("log-json", false, "log in JSON format")
	flags.Bool("log-source", false, "include source locations in logs")

	root.AddCommand(
		GenerateCmd(),
		CheckCmd(),
		InspectCmd(),
		ManifestCmd(),
	)

	return root
}

// setup loads the configuration, initialises logging and stores both in
// the command context.
func setup(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	level, logJSON, logSource, err := logger.GetLoggerConfig(cmd)
	if err != nil {
		return err
	}

	logger.SetupLogger(level, logJSON, logSource)

	configFile, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}

	dir, err := cmd.Flags().GetString("dir")
	if err != nil {
		return fmt.Errorf("failed to get dir flag: %w", err)
	}

	overrides := extractOverrides(cmd.Flags())
	if len(args) > 0 {
		overrides["patterns"] = args
	}

	cfg, err := config.NewLoader().Load(ctx, config.LoadOptions{
		File:      configFile,
		Dir:       dir,
		Overrides: overrides,
	})
	if err != nil {
		return err
	}

	logCfg := cfg.LoggerConfig()
	logCfg.Output = cmd.ErrOrStderr()
	logger.Init(logCfg)

	log := logger.GetDefault()
	ctx = logger.ContextWithLogger(ctx, log)
	ctx = context.WithValue(ctx, configKey{}, cfg)
	cmd.SetContext(ctx)

	log.Debug("Configuration loaded", "patterns", cfg.Patterns, "dir", cfg.Dir, "output", cfg.Output)

	return nil
}

// extractOverrides collects the values of changed flags keyed by
// configuration path.
func extractOverrides(flags *pflag.FlagSet) map[string]any {
	overrides := make(map[string]any)

	flags.Visit(func(f *pflag.Flag) {
		path, ok := flagPaths[f.Name]
		if !ok {
			return
		}

		if sv, ok := f.Value.(pflag.SliceValue); ok {
			overrides[path] = sv.GetSlice()
			return
		}

		overrides[path] = f.Value.String()
	})

	return overrides
}

// configFromContext returns the configuration setup stored.
func configFromContext(ctx context.Context) *config.Config {
	if cfg, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return cfg
	}

	return config.Default()
}
