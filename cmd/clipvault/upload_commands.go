package main

import (
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"clipvault/internal/uploads"
)

func newUploadCommand(ctx *commandContext) *cobra.Command {
	uploadCmd := &cobra.Command{
		Use:   "upload",
		Short: "Upload videos to remote storage and clips to the channel",
	}

	uploadCmd.AddCommand(newUploadVideoCommand(ctx))
	uploadCmd.AddCommand(newUploadClipCommand(ctx))
	uploadCmd.AddCommand(newUploadAllCommand(ctx))

	return uploadCmd
}

func newUploadVideoCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "video <video-id>",
		Short: "Upload one video to remote storage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseVideoID(args[0])
			if err != nil {
				return err
			}
			orchestrator, err := ctx.newOrchestrator()
			if err != nil {
				return err
			}

			video, err := orchestrator.UploadVideo(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %s: %s\n", video.Filename, video.RemoteLink)
			return nil
		},
	}
}

func newUploadClipCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clip <clip-id>",
		Short: "Send one clip to the distribution channel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseClipID(args[0])
			if err != nil {
				return err
			}
			orchestrator, err := ctx.newOrchestrator()
			if err != nil {
				return err
			}

			clip, err := orchestrator.UploadClip(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Sent %s: %s\n", clip.Filename, clip.DistributionLink)
			return nil
		},
	}
}

func newUploadAllCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "all",
		Short: "Upload every pending and failed asset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			orchestrator, err := ctx.newOrchestrator()
			if err != nil {
				return err
			}

			var progress uploads.ProgressFunc
			var bar *progressbar.ProgressBar
			if !jsonOut && shouldColorize(cmd.OutOrStdout()) {
				progress = func(completed, total int) {
					if bar == nil {
						bar = progressbar.NewOptions(total,
							progressbar.OptionSetWriter(cmd.ErrOrStderr()),
							progressbar.OptionSetDescription("Uploading"),
							progressbar.OptionSetWidth(40),
							progressbar.OptionShowCount(),
							progressbar.OptionOnCompletion(func() {
								fmt.Fprintln(cmd.ErrOrStderr())
							}),
						)
					}
					_ = bar.Set(completed)
				}
			}

			summary, err := orchestrator.UploadAllPending(cmd.Context(), progress)
			if bar != nil {
				_ = bar.Finish()
			}
			if err != nil {
				return err
			}

			if jsonOut {
				return writeJSON(cmd, summary)
			}

			out := cmd.OutOrStdout()
			if summary.Attempted == 0 {
				fmt.Fprintln(out, "Nothing pending to upload.")
				return nil
			}
			fmt.Fprintf(out, "Uploaded %d of %d asset(s); %d failed, %d skipped.\n",
				summary.Succeeded, summary.Attempted, summary.Failed, summary.Skipped)
			for _, itemErr := range summary.Errors {
				fmt.Fprintf(out, "  %s %s: %s\n", itemErr.Kind, itemErr.ID, itemErr.Message)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the sweep summary as JSON")
	return cmd
}
