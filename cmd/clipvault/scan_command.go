package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Reconcile the videos directory with the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			reconciler, err := ctx.newReconciler()
			if err != nil {
				return err
			}

			report, err := reconciler.Scan(cmd.Context(), cfg.Paths.VideosDir)
			if err != nil {
				return fmt.Errorf("scan videos directory: %w", err)
			}

			if jsonOut {
				return writeJSON(cmd, report)
			}

			out := cmd.OutOrStdout()
			if len(report.Added) == 0 && len(report.Errors) == 0 {
				fmt.Fprintln(out, "Catalog is up to date; no new videos found.")
				return nil
			}

			if len(report.Added) > 0 {
				rows := make([][]string, 0, len(report.Added))
				for _, video := range report.Added {
					rows = append(rows, []string{
						fmt.Sprintf("%d", video.ID),
						video.Filename,
						string(video.Status),
					})
				}
				fmt.Fprintf(out, "Tracked %d new video(s):\n", len(report.Added))
				fmt.Fprintln(out, renderTable(
					[]string{"ID", "FILENAME", "STATUS"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft},
				))
			}

			for _, scanErr := range report.Errors {
				fmt.Fprintf(out, "warning: %s: %s\n", scanErr.Filename, scanErr.Message)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the scan report as JSON")
	return cmd
}
