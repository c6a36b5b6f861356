package cmd

import (
	"github.com/compozy/tagpush/internal/orchestrator"
	"github.com/compozy/tagpush/pkg/version"
	"github.com/spf13/cobra"
)

// rootOptions holds the persistent flags shared by every command.
type rootOptions struct {
	configPath string
	verbose    bool
}

// NewRootCmd builds the tagpush command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:   "tagpush [message]",
		Short: "Commit, tag and push a timestamped backup of the working tree",
		Long: `tagpush commits every pending change, tags the commit with the next
version found on the remote plus a timestamp (v1.2.4-20240102-150405),
and pushes both the commit and the tag.

The commit message defaults to "chore: auto commit". A clean working tree
is not an error: nothing is committed, tagged or pushed.`,
		Version:       version.Summary(),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newContainer(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer c.close()
			message := ""
			if len(args) == 1 {
				message = args[0]
			}
			orch := orchestrator.NewPushOrchestrator(c.dependencies(), c.options())
			_, err = orch.Execute(cmd.Context(), message)
			return err
		},
	}
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default ./.tagpush.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.AddCommand(
		newTagCmd(opts),
		newNextCmd(opts),
		newVersionCmd(),
	)
	return rootCmd
}
