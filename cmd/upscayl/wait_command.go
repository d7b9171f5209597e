package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/phrazzld/upscayl-gateway/internal/domain"
	"github.com/phrazzld/upscayl-gateway/internal/platform/upscayl"
	"github.com/phrazzld/upscayl-gateway/internal/upscale"
	"github.com/spf13/cobra"
)

func newWaitCommand(ctx *commandContext) *cobra.Command {
	var flags upscaleFlags
	var maxWait time.Duration
	var taskID string

	cmd := &cobra.Command{
		Use:   "wait [<image>...]",
		Short: "Upscale images and wait for the result",
		Long: "Create an upscale task and poll it until it completes, fails or the deadline passes.\n" +
			"With --task, poll an existing task instead of creating one.",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if taskID != "" && len(args) > 0 {
				return errors.New("--task cannot be combined with image arguments")
			}

			var images []domain.UploadedImage
			if taskID == "" {
				var err error
				if images, err = readImages(args); err != nil {
					return err
				}
			}

			return ctx.withOrchestrator(cmd.ErrOrStderr(), func(o *upscale.Orchestrator, _ *upscayl.Client) error {
				var outcome domain.TaskOutcome
				var err error
				if taskID != "" {
					outcome, err = o.Await(cmd.Context(), domain.TaskHandle(taskID), maxWait)
				} else {
					outcome, err = o.RunToCompletion(cmd.Context(), images, flags.request(), maxWait)
				}

				if err != nil && errors.Is(err, upscale.ErrStartFailed) {
					return err
				}

				if ctx.jsonOutput() {
					if werr := writeJSON(cmd, outcome); werr != nil {
						return werr
					}
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), renderOutcome(outcome))
				}
				return err
			})
		},
	}

	flags.register(cmd)
	cmd.Flags().DurationVar(&maxWait, "max-wait", 0, "Polling deadline (default from polling.max_wait_seconds)")
	cmd.Flags().StringVar(&taskID, "task", "", "Wait for an existing task instead of creating one")
	return cmd
}
