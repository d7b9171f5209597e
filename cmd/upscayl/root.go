package main

import (
	"github.com/phrazzld/upscayl-gateway/internal/upscale"
	"github.com/spf13/cobra"
)

// newRootCommand builds the command tree. Orchestrator options are passed
// through to every command that polls.
func newRootCommand(opts ...upscale.Option) *cobra.Command {
	var configFlag string
	var jsonFlag bool
	var verboseFlag bool

	ctx := newCommandContext(&configFlag, &jsonFlag, &verboseFlag, opts)

	rootCmd := &cobra.Command{
		Use:           "upscayl",
		Short:         "Upscale images with the remote Upscayl API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", ".", "Directory containing config.yaml")
	rootCmd.PersistentFlags().BoolVar(&jsonFlag, "json", false, "Print machine-readable JSON")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Log remote calls to stderr")

	rootCmd.AddCommand(newStartCommand(ctx))
	rootCmd.AddCommand(newStatusCommand(ctx))
	rootCmd.AddCommand(newWaitCommand(ctx))
	rootCmd.AddCommand(newTokenCommand(ctx))

	return rootCmd
}
