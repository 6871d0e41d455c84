package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"provider-generator/internal/manifest"
)

var errManifestMode = errors.New("manifest export reads source; --manifest is not allowed")

// ManifestCmd exports the annotations found in source to YAML manifests,
// one per package.
func ManifestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "manifest [packages]",
		Short: "Export discovered annotations to YAML manifests",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			p, err := newPipeline(ctx)
			if err != nil {
				return err
			}

			if p.cfg.Manifest != "" {
				return errManifestMode
			}

			out, err := cmd.Flags().GetString("out")
			if err != nil {
				return fmt.Errorf("failed to get out flag: %w", err)
			}

			result, err := p.analyze(ctx)
			if err != nil {
				return err
			}

			report(cmd.ErrOrStderr(), result.Diagnostics)

			if result.Diagnostics.HasErrors() {
				return ErrDiagnostics
			}

			for _, pkg := range result.Packages {
				if len(pkg.Types) == 0 {
					continue
				}

				path := filepath.Join(pkg.Dir, out)
				f := manifest.FromAnalysis(pkg, filepath.Dir(path))

				if out == "-" {
					data, err := manifest.Marshal(f)
					if err != nil {
						return err
					}

					fmt.Fprintf(cmd.OutOrStdout(), "# %s\n%s", pkg.Path, data)

					continue
				}

				if err := manifest.WriteFile(f, path); err != nil {
					return err
				}

				p.log.Info("Manifest written", "package", pkg.Path, "path", path)
			}

			return nil
		},
	}

	cmd.Flags().String("out", "providers.yaml", "manifest file name in each package, or - for stdout")

	return cmd
}
