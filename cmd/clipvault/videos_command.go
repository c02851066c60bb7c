package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"clipvault/internal/catalog"
	"clipvault/internal/identity"
)

func newVideosCommand(ctx *commandContext) *cobra.Command {
	var statusFilter string
	var showAll bool
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "videos",
		Short: "List tracked videos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.ensureStore()
			if err != nil {
				return err
			}

			var videos []*catalog.Video
			if trimmed := strings.TrimSpace(statusFilter); trimmed != "" {
				status, ok := catalog.ParseUploadStatus(trimmed)
				if !ok {
					return fmt.Errorf("unknown upload status %q", trimmed)
				}
				videos, err = store.VideosByUploadStatus(cmd.Context(), status)
			} else {
				videos, err = store.ListVideos(cmd.Context())
			}
			if err != nil {
				return fmt.Errorf("list videos: %w", err)
			}

			var untracked []untrackedFile
			if showAll {
				untracked, err = listUntracked(cmd.Context(), ctx)
				if err != nil {
					return err
				}
			}

			if jsonOut {
				if showAll {
					return writeJSON(cmd, map[string]any{
						"tracked":   videos,
						"untracked": untracked,
					})
				}
				return writeJSON(cmd, videos)
			}

			out := cmd.OutOrStdout()
			if len(videos) == 0 && len(untracked) == 0 {
				fmt.Fprintln(out, "No videos tracked.")
				return nil
			}

			colorize := shouldColorize(out)
			rows := make([][]string, 0, len(videos))
			for _, video := range videos {
				rows = append(rows, []string{
					fmt.Sprintf("%d", video.ID),
					video.Filename,
					string(video.Status),
					displayStatus(string(video.UploadStatus), colorize),
					orDash(video.RemoteLink),
					formatTimestamp(video.UpdatedAt),
				})
			}
			if len(videos) > 0 {
				fmt.Fprintln(out, renderTable(
					[]string{"ID", "FILENAME", "STATUS", "UPLOAD", "LINK", "UPDATED"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
				))
			}

			if len(untracked) > 0 {
				untrackedRows := make([][]string, 0, len(untracked))
				for _, file := range untracked {
					untrackedRows = append(untrackedRows, []string{
						fmt.Sprintf("%d", file.ID),
						file.Filename,
					})
				}
				fmt.Fprintf(out, "%d untracked file(s); run `clipvault scan` to track them:\n", len(untracked))
				fmt.Fprintln(out, renderTable(
					[]string{"ID", "FILENAME"},
					untrackedRows,
					[]columnAlignment{alignRight, alignLeft},
				))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&statusFilter, "status", "", "Filter by upload status (pending, queued, uploading, uploaded, failed, expired)")
	cmd.Flags().BoolVar(&showAll, "all", false, "Include media files on disk that are not yet tracked")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit videos as JSON")
	return cmd
}

// untrackedFile is a media file on disk with no catalog row. The id shown is
// what the file would receive once tracked.
type untrackedFile struct {
	ID       uint64 `json:"id"`
	Filename string `json:"filename"`
	Path     string `json:"path"`
}

func listUntracked(runCtx context.Context, ctx *commandContext) ([]untrackedFile, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	store, err := ctx.ensureStore()
	if err != nil {
		return nil, err
	}

	extensions := make(map[string]struct{}, len(cfg.Catalog.VideoExtensions))
	for _, ext := range cfg.Catalog.VideoExtensions {
		extensions[strings.ToLower(ext)] = struct{}{}
	}

	entries, err := os.ReadDir(cfg.Paths.VideosDir)
	if err != nil {
		return nil, fmt.Errorf("read videos directory: %w", err)
	}

	var untracked []untrackedFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, ok := extensions[strings.ToLower(filepath.Ext(entry.Name()))]; !ok {
			continue
		}
		path := filepath.Join(cfg.Paths.VideosDir, entry.Name())
		id, err := identity.FromFile(path)
		if err != nil {
			continue
		}
		existing, err := store.GetVideo(runCtx, id)
		if err != nil {
			return nil, fmt.Errorf("look up video: %w", err)
		}
		if existing == nil {
			untracked = append(untracked, untrackedFile{ID: id, Filename: entry.Name(), Path: path})
		}
	}
	return untracked, nil
}
