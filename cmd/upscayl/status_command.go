package main

import (
	"fmt"

	"github.com/phrazzld/upscayl-gateway/internal/domain"
	"github.com/phrazzld/upscayl-gateway/internal/platform/upscayl"
	"github.com/phrazzld/upscayl-gateway/internal/upscale"
	"github.com/spf13/cobra"
)

type statusResult struct {
	domain.TaskOutcome
	Raw upscayl.StatusPayload `json:"raw,omitempty"`
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var rawFlag bool

	cmd := &cobra.Command{
		Use:   "status <task-id>",
		Short: "Check a task once and print its normalized state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			handle := domain.TaskHandle(args[0])

			return ctx.withOrchestrator(cmd.ErrOrStderr(), func(o *upscale.Orchestrator, client *upscayl.Client) error {
				outcome, payload, err := o.Status(cmd.Context(), handle)
				if err != nil {
					return fmt.Errorf("get status: %w", err)
				}

				// Download URLs are shown while a task is still producing
				// files, not only once it completes.
				if len(outcome.URLs) == 0 {
					outcome.URLs = client.Normalizer().ImageURLs(payload)
				}

				if ctx.jsonOutput() {
					result := statusResult{TaskOutcome: outcome}
					if rawFlag {
						result.Raw = payload
					}
					return writeJSON(cmd, result)
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderOutcome(outcome))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&rawFlag, "raw", false, "Include the remote status body in JSON output")
	return cmd
}
