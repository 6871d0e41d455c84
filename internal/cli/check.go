package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// CheckCmd reports diagnostics and verifies that the generated files on
// disk are current. It writes nothing.
func CheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [packages]",
		Short: "Validate annotations and verify generated files are up to date",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			p, err := newPipeline(ctx)
			if err != nil {
				return err
			}

			r, files, err := p.render(ctx, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			outdated, err := stale(files)
			if err != nil {
				return err
			}

			for _, path := range outdated {
				fmt.Fprintf(cmd.ErrOrStderr(), "stale: %s\n", path)
			}

			if len(outdated) > 0 {
				return ErrStale
			}

			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d providers in %d packages\n", r.Providers(), len(files))

			return nil
		},
	}

	addOutputFlags(cmd)
	cmd.Flags().Bool("strict", false, "treat warnings as errors")

	return cmd
}
