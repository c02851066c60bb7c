package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRetryCommand(ctx *commandContext) *cobra.Command {
	retryCmd := &cobra.Command{
		Use:   "retry",
		Short: "Reset failed uploads back to pending",
	}

	retryCmd.AddCommand(&cobra.Command{
		Use:   "video <video-id>",
		Short: "Reset a failed video upload to pending",
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

			won, err := store.RetryVideoUpload(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("retry video upload: %w", err)
			}
			if !won {
				return fmt.Errorf("video %d is not in a failed state", id)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Video %d reset to pending.\n", id)
			return nil
		},
	})

	retryCmd.AddCommand(&cobra.Command{
		Use:   "clip <clip-id>",
		Short: "Reset a failed clip distribution to pending",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseClipID(args[0])
			if err != nil {
				return err
			}
			store, err := ctx.ensureStore()
			if err != nil {
				return err
			}

			won, err := store.RetryClipUpload(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("retry clip upload: %w", err)
			}
			if !won {
				return fmt.Errorf("clip %d is not in a failed state", id)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Clip %d reset to pending.\n", id)
			return nil
		},
	})

	return retryCmd
}
