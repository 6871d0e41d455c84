package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// GenerateCmd writes a provider file into every package with annotated
// types.
func GenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [packages]",
		Short: "Generate providers for annotated types",
		Example: `  provider-generator generate ./...
  provider-generator generate --manifest providers.yaml
  provider-generator generate --watch ./internal/...`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			p, err := newPipeline(ctx)
			if err != nil {
				return err
			}

			watch, err := cmd.Flags().GetBool("watch")
			if err != nil {
				return fmt.Errorf("failed to get watch flag: %w", err)
			}

			if watch {
				return runWatch(ctx, p, cmd.OutOrStdout(), cmd.ErrOrStderr())
			}

			return p.generate(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	addOutputFlags(cmd)
	cmd.Flags().Bool("dry-run", false, "print generated files instead of writing them")
	cmd.Flags().Bool("strict", false, "treat warnings as errors")
	cmd.Flags().Bool("watch", false, "regenerate when Go files change")
	cmd.Flags().Duration("debounce", 0, "quiet period before regenerating in watch mode")

	return cmd
}

// addOutputFlags registers the flags that shape generated code.
func addOutputFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringP("output", "o", "", "name of the generated file in each package")
	flags.String("provider-suffix", "", "suffix appended to type names to name providers")
	flags.String("runtime-path", "", "import path of the runtime package")
	flags.String("runtime-alias", "", "preferred alias of the runtime package")
	flags.Bool("comments", true, "emit doc comments on providers")
	flags.Bool("debug", true, "keep unformattable output in a sidecar file")
}
