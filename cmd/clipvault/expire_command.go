package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newExpireCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "expire <video-id>",
		Short: "Mark an uploaded video's remote copy as expired",
		Long: `Mark a video whose remote storage copy has lapsed as expired.
The stored remote link is cleared; re-uploading requires a retry.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseVideoID(args[0])
			if err != nil {
				return err
			}
			store, err := ctx.ensureStore()
			if err != nil {
				return err
			}

			won, err := store.ExpireVideo(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("expire video: %w", err)
			}
			if !won {
				return fmt.Errorf("video %d is not in an uploaded state", id)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Video %d marked expired; remote link cleared.\n", id)
			return nil
		},
	}
}
