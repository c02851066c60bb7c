package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"clipvault/internal/catalog"
)

func newStatsCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show catalog statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.ensureStore()
			if err != nil {
				return err
			}

			stats, err := store.Stats(cmd.Context())
			if err != nil {
				return fmt.Errorf("load stats: %w", err)
			}

			if jsonOut {
				return writeJSON(cmd, stats)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Videos: %d\n", stats.TotalVideos)
			for _, status := range catalog.AllUploadStatuses() {
				if count := stats.VideosByUpload[status]; count > 0 {
					fmt.Fprintf(out, "  %-10s %d\n", statusTitle.String(string(status)), count)
				}
			}
			fmt.Fprintf(out, "Clips: %d\n", stats.TotalClips)
			for _, status := range catalog.AllDistributionStatuses() {
				if count := stats.ClipsByDistribution[status]; count > 0 {
					fmt.Fprintf(out, "  %-10s %d\n", statusTitle.String(string(status)), count)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit statistics as JSON")
	return cmd
}
