package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"clipvault/internal/timecode"
)

func newClipCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clip <video-id> <start> <end>",
		Short: "Derive a clip from a tracked video",
		Long: fmt.Sprintf(`Derive a clip covering [start, end) from a tracked video.
Time codes use the %s format.`, timecode.Pattern),
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			videoID, err := parseVideoID(args[0])
			if err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			deriver, err := ctx.newDeriver()
			if err != nil {
				return err
			}

			runCtx := cmd.Context()
			if cfg.FFmpeg.TranscodeTimeout > 0 {
				var cancel context.CancelFunc
				timeout := time.Duration(cfg.FFmpeg.TranscodeTimeout) * time.Second
				runCtx, cancel = context.WithTimeout(runCtx, timeout)
				defer cancel()
			}

			clip, err := deriver.Derive(runCtx, videoID, args[1], args[2])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Created clip %d (%s) covering %s\n",
				clip.ID, clip.Filename, formatRange(clip.StartTime, clip.EndTime))
			fmt.Fprintf(out, "Wrote %s\n", clip.Path)
			return nil
		},
	}

	return cmd
}
