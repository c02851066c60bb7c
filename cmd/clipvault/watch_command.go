package main

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"clipvault/internal/catalog"
	"clipvault/internal/daemon"
	"clipvault/internal/deps"
	"clipvault/internal/logging"
	"clipvault/internal/reconcile"
	"clipvault/internal/services/keep2share"
	"clipvault/internal/services/telegram"
	"clipvault/internal/uploads"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Run the clipvault daemon in the foreground",
		Long: `Watch the videos directory and run the background loops: periodic
reconciliation, upload sweeps, and stale upload reclamation. Runs until
interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			if status := deps.CheckFFmpeg(cfg.FFmpegBinary()); !status.Available {
				logger.Warn("ffmpeg unavailable; clip derivation will fail", "detail", status.Detail)
			}

			store, err := catalog.Open(cfg)
			if err != nil {
				return fmt.Errorf("open catalog: %w", err)
			}
			defer store.Close()

			// Missing credentials only disable uploads; watching and
			// scanning still run.
			var videoStorage keep2share.Client = keep2share.Disabled{}
			if strings.TrimSpace(cfg.Keep2Share.AccessToken) != "" {
				videoStorage, err = keep2share.New(cfg.Keep2Share.AccessToken, cfg.Keep2Share.FolderID, cfg.Keep2Share.BaseURL)
				if err != nil {
					return err
				}
			} else {
				logger.Warn("keep2share access token not configured; video uploads disabled")
			}
			var clipChannel telegram.Client = telegram.Disabled{}
			if strings.TrimSpace(cfg.Telegram.BotToken) != "" {
				clipChannel, err = telegram.New(cfg.Telegram.BotToken, cfg.Telegram.ChannelID, cfg.Telegram.BaseURL)
				if err != nil {
					return err
				}
			} else {
				logger.Warn("telegram bot token not configured; clip uploads disabled")
			}

			reconciler := reconcile.New(store, cfg.Catalog.VideoExtensions, logger)
			orchestrator := uploads.New(store, videoStorage, clipChannel, logger)

			d, err := daemon.New(cfg, store, reconciler, orchestrator, logger)
			if err != nil {
				return fmt.Errorf("create daemon: %w", err)
			}
			if err := d.Start(signalCtx); err != nil {
				return err
			}
			defer d.Stop()

			<-signalCtx.Done()
			logger.Info("clipvault daemon shutting down")
			return nil
		},
	}
}
