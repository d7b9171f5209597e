package main

import (
	"fmt"

	"github.com/phrazzld/upscayl-gateway/internal/platform/upscayl"
	"github.com/phrazzld/upscayl-gateway/internal/upscale"
	"github.com/spf13/cobra"
)

type startResult struct {
	TaskID string `json:"task_id"`
	Status string `json:"status"`
}

func newStartCommand(ctx *commandContext) *cobra.Command {
	var flags upscaleFlags

	cmd := &cobra.Command{
		Use:   "start <image>...",
		Short: "Create an upscale task and print its ID without waiting",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			images, err := readImages(args)
			if err != nil {
				return err
			}

			return ctx.withOrchestrator(cmd.ErrOrStderr(), func(o *upscale.Orchestrator, _ *upscayl.Client) error {
				handle, err := o.StartTask(cmd.Context(), images, flags.request())
				if err != nil {
					return fmt.Errorf("start task: %w", err)
				}

				if ctx.jsonOutput() {
					return writeJSON(cmd, startResult{TaskID: handle.String(), Status: "started"})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Started task %s\n", handle)
				return nil
			})
		},
	}

	flags.register(cmd)
	return cmd
}
