package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"clipvault/internal/catalog"
)

func newClipsCommand(ctx *commandContext) *cobra.Command {
	var videoFilter string
	var statusFilter string
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "clips",
		Short: "List derived clips",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.ensureStore()
			if err != nil {
				return err
			}

			var rows []*catalog.Clip
			switch {
			case strings.TrimSpace(videoFilter) != "":
				videoID, err := parseVideoID(videoFilter)
				if err != nil {
					return err
				}
				rows, err = store.ClipsByVideo(cmd.Context(), videoID)
				if err != nil {
					return fmt.Errorf("list clips: %w", err)
				}
			case strings.TrimSpace(statusFilter) != "":
				status, ok := catalog.ParseDistributionStatus(strings.TrimSpace(statusFilter))
				if !ok {
					return fmt.Errorf("unknown distribution status %q", statusFilter)
				}
				rows, err = store.ClipsByDistributionStatus(cmd.Context(), status)
				if err != nil {
					return fmt.Errorf("list clips: %w", err)
				}
			default:
				rows, err = store.ListClips(cmd.Context())
				if err != nil {
					return fmt.Errorf("list clips: %w", err)
				}
			}

			if jsonOut {
				return writeJSON(cmd, rows)
			}

			out := cmd.OutOrStdout()
			if len(rows) == 0 {
				fmt.Fprintln(out, "No clips found.")
				return nil
			}

			colorize := shouldColorize(out)
			tableRows := make([][]string, 0, len(rows))
			for _, clip := range rows {
				tableRows = append(tableRows, []string{
					fmt.Sprintf("%d", clip.ID),
					fmt.Sprintf("%d", clip.VideoID),
					clip.Filename,
					formatRange(clip.StartTime, clip.EndTime),
					displayStatus(string(clip.DistributionStatus), colorize),
					orDash(clip.DistributionLink),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "VIDEO", "FILENAME", "RANGE", "DISTRIBUTION", "LINK"},
				tableRows,
				[]columnAlignment{alignRight, alignRight, alignLeft, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&videoFilter, "video", "", "Show only clips of the given video id")
	cmd.Flags().StringVar(&statusFilter, "status", "", "Filter by distribution status (pending, queued, uploaded, failed)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit clips as JSON")
	return cmd
}
