package cmd

import (
	"github.com/compozy/tagpush/internal/orchestrator"
	"github.com/spf13/cobra"
)

func newTagCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tag",
		Short: "Tag HEAD with the next version and push only the tag",
		Long: `Work out the next version from the remote tags, commit any pending
changes as "chore: version backup v<next> - auto commit", then create
the timestamped tag and push it. The branch itself is not pushed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := newContainer(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer c.close()
			_, err = orchestrator.NewTagOrchestrator(c.dependencies(), c.options()).Execute(cmd.Context())
			return err
		},
	}
}
