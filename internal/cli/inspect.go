package cli

import (
	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
)

// InspectCmd dumps the generation plans, including diagnostics, without
// rendering code.
func InspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect [packages]",
		Short: "Dump the generation plans",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			p, err := newPipeline(ctx)
			if err != nil {
				return err
			}

			r, err := p.plan(ctx)
			if err != nil {
				return err
			}

			dumper := spew.ConfigState{
				Indent:                  "  ",
				DisablePointerAddresses: true,
				DisableCapacities:       true,
				SortKeys:                true,
			}
			dumper.Fdump(cmd.OutOrStdout(), r.Plans)

			report(cmd.ErrOrStderr(), r.Diagnostics)

			return nil
		},
	}

	addOutputFlags(cmd)

	return cmd
}
