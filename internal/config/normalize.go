package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeCatalog()
	c.normalizeFFmpeg()
	c.normalizeKeep2Share()
	c.normalizeTelegram()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.VideosDir, err = expandPath(c.Paths.VideosDir); err != nil {
		return fmt.Errorf("paths.videos_dir: %w", err)
	}
	if c.Paths.ClipsDir, err = expandPath(c.Paths.ClipsDir); err != nil {
		return fmt.Errorf("paths.clips_dir: %w", err)
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeCatalog() {
	if len(c.Catalog.VideoExtensions) == 0 {
		c.Catalog.VideoExtensions = []string{".mp4"}
	}
	normalized := make([]string, 0, len(c.Catalog.VideoExtensions))
	for _, ext := range c.Catalog.VideoExtensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		normalized = append(normalized, ext)
	}
	c.Catalog.VideoExtensions = normalized
}

func (c *Config) normalizeFFmpeg() {
	c.FFmpeg.VideoCodec = strings.TrimSpace(c.FFmpeg.VideoCodec)
	if c.FFmpeg.VideoCodec == "" {
		c.FFmpeg.VideoCodec = defaultVideoCodec
	}
	c.FFmpeg.AudioCodec = strings.TrimSpace(c.FFmpeg.AudioCodec)
	if c.FFmpeg.AudioCodec == "" {
		c.FFmpeg.AudioCodec = defaultAudioCodec
	}
}

func (c *Config) normalizeKeep2Share() {
	if c.Keep2Share.AccessToken == "" {
		if value, ok := os.LookupEnv("K2S_ACCESS_TOKEN"); ok {
			c.Keep2Share.AccessToken = value
		}
	}
	if c.Keep2Share.FolderID == "" {
		if value, ok := os.LookupEnv("K2S_FOLDER_ID"); ok {
			c.Keep2Share.FolderID = value
		}
	}
	c.Keep2Share.BaseURL = strings.TrimSpace(c.Keep2Share.BaseURL)
	if c.Keep2Share.BaseURL == "" {
		c.Keep2Share.BaseURL = defaultK2SBaseURL
	}
	if !strings.HasSuffix(c.Keep2Share.BaseURL, "/") {
		c.Keep2Share.BaseURL += "/"
	}
}

func (c *Config) normalizeTelegram() {
	if c.Telegram.BotToken == "" {
		if value, ok := os.LookupEnv("TG_BOT_TOKEN"); ok {
			c.Telegram.BotToken = value
		}
	}
	if c.Telegram.ChannelID == "" {
		if value, ok := os.LookupEnv("TG_CHANNEL_ID"); ok {
			c.Telegram.ChannelID = value
		}
	}
	c.Telegram.BaseURL = strings.TrimSpace(strings.TrimRight(c.Telegram.BaseURL, "/"))
	if c.Telegram.BaseURL == "" {
		c.Telegram.BaseURL = defaultTelegramBaseURL
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
