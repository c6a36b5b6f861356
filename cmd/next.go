package cmd

import (
	"fmt"

	"github.com/compozy/tagpush/internal/orchestrator"
	"github.com/spf13/cobra"
)

func newNextCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "next",
		Short: "Print the tag the next run would create",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := newContainer(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer c.close()
			tag, derived, err := orchestrator.NewNextOrchestrator(c.dependencies(), c.options()).Execute(cmd.Context())
			if err != nil {
				return err
			}
			c.ui.VerboseLog("latest version on %s: v%s", c.cfg.Remote, derived.Latest)
			fmt.Fprintln(cmd.OutOrStdout(), tag)
			return nil
		},
	}
}
