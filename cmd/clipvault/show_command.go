package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "show <video-id>",
		Short: "Show a video and its clips",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseVideoID(args[0])
			if err != nil {
				return err
			}
			store, err := ctx.ensureStore()
			if err != nil {
				return err
			}

			video, err := store.GetVideo(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("load video: %w", err)
			}
			if video == nil {
				return fmt.Errorf("video %d is not tracked", id)
			}
			videoClips, err := store.ClipsByVideo(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("load clips: %w", err)
			}

			if jsonOut {
				return writeJSON(cmd, map[string]any{
					"video": video,
					"clips": videoClips,
				})
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			fmt.Fprintf(out, "Video %d\n", video.ID)
			fmt.Fprintf(out, "  Filename:  %s\n", video.Filename)
			fmt.Fprintf(out, "  Path:      %s\n", video.Path)
			fmt.Fprintf(out, "  Status:    %s\n", video.Status)
			fmt.Fprintf(out, "  Upload:    %s\n", displayStatus(string(video.UploadStatus), colorize))
			fmt.Fprintf(out, "  Link:      %s\n", orDash(video.RemoteLink))
			if video.ErrorMessage != "" {
				fmt.Fprintf(out, "  Error:     %s\n", video.ErrorMessage)
			}
			fmt.Fprintf(out, "  Updated:   %s\n", formatTimestamp(video.UpdatedAt))

			if len(videoClips) == 0 {
				fmt.Fprintln(out, "No clips derived from this video.")
				return nil
			}

			rows := make([][]string, 0, len(videoClips))
			for _, clip := range videoClips {
				rows = append(rows, []string{
					fmt.Sprintf("%d", clip.ID),
					clip.Filename,
					formatRange(clip.StartTime, clip.EndTime),
					displayStatus(string(clip.DistributionStatus), colorize),
					orDash(clip.DistributionLink),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"CLIP", "FILENAME", "RANGE", "DISTRIBUTION", "LINK"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the video and clips as JSON")
	return cmd
}
