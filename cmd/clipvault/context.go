package main

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"clipvault/internal/catalog"
	"clipvault/internal/clips"
	"clipvault/internal/config"
	"clipvault/internal/logging"
	"clipvault/internal/reconcile"
	"clipvault/internal/services/ffmpeg"
	"clipvault/internal/services/keep2share"
	"clipvault/internal/services/telegram"
	"clipvault/internal/uploads"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	storeOnce sync.Once
	store     *catalog.Store
	storeErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureStore() (*catalog.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	c.storeOnce.Do(func() {
		c.store, c.storeErr = catalog.Open(cfg)
	})
	return c.store, c.storeErr
}

func (c *commandContext) closeStore() {
	if c.store != nil {
		_ = c.store.Close()
		c.store = nil
	}
}

// cliLogger keeps interactive commands quiet: warnings and above go to
// stderr, everything else is suppressed.
func (c *commandContext) cliLogger() *slog.Logger {
	c.loggerOnce.Do(func() {
		logger, err := logging.New(logging.Options{
			Level:       "warn",
			Format:      "console",
			OutputPaths: []string{"stderr"},
		})
		if err != nil {
			logger = logging.NewNop()
		}
		c.logger = logger
	})
	return c.logger
}

func (c *commandContext) newReconciler() (*reconcile.Reconciler, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	store, err := c.ensureStore()
	if err != nil {
		return nil, err
	}
	return reconcile.New(store, cfg.Catalog.VideoExtensions, c.cliLogger()), nil
}

func (c *commandContext) newDeriver() (*clips.Deriver, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	store, err := c.ensureStore()
	if err != nil {
		return nil, err
	}
	transcoder := ffmpeg.NewCLI(
		ffmpeg.WithBinary(cfg.FFmpegBinary()),
		ffmpeg.WithCodecs(cfg.FFmpeg.VideoCodec, cfg.FFmpeg.AudioCodec),
	)
	return clips.New(store, transcoder, cfg.Paths.ClipsDir, c.cliLogger()), nil
}

func (c *commandContext) newOrchestrator() (*uploads.Orchestrator, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	store, err := c.ensureStore()
	if err != nil {
		return nil, err
	}
	// A missing credential only disables that destination, so a
	// Telegram-only setup can still send clips (and vice versa).
	var videoStorage keep2share.Client = keep2share.Disabled{}
	if strings.TrimSpace(cfg.Keep2Share.AccessToken) != "" {
		videoStorage, err = keep2share.New(cfg.Keep2Share.AccessToken, cfg.Keep2Share.FolderID, cfg.Keep2Share.BaseURL)
		if err != nil {
			return nil, err
		}
	}
	var clipChannel telegram.Client = telegram.Disabled{}
	if strings.TrimSpace(cfg.Telegram.BotToken) != "" {
		clipChannel, err = telegram.New(cfg.Telegram.BotToken, cfg.Telegram.ChannelID, cfg.Telegram.BaseURL)
		if err != nil {
			return nil, err
		}
	}
	return uploads.New(store, videoStorage, clipChannel, c.cliLogger()), nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
