package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable. Upload credentials are not
// required here; the uploader clients report missing credentials when an
// upload is actually attempted.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateCatalog(); err != nil {
		return err
	}
	if err := c.validateFFmpeg(); err != nil {
		return err
	}
	if err := c.validateWorkflow(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.VideosDir) == "" {
		return errors.New("paths.videos_dir must be set")
	}
	if strings.TrimSpace(c.Paths.ClipsDir) == "" {
		return errors.New("paths.clips_dir must be set")
	}
	if c.Paths.VideosDir == c.Paths.ClipsDir {
		return errors.New("paths.videos_dir and paths.clips_dir must differ")
	}
	return nil
}

func (c *Config) validateCatalog() error {
	if len(c.Catalog.VideoExtensions) == 0 {
		return errors.New("catalog.video_extensions must list at least one extension")
	}
	return nil
}

func (c *Config) validateFFmpeg() error {
	if c.FFmpeg.TranscodeTimeout <= 0 {
		return errors.New("ffmpeg.transcode_timeout must be positive (seconds)")
	}
	return nil
}

func (c *Config) validateWorkflow() error {
	return ensurePositiveMap(map[string]int{
		"workflow.scan_interval":        c.Workflow.ScanInterval,
		"workflow.upload_poll_interval": c.Workflow.UploadPollInterval,
		"workflow.stale_upload_timeout": c.Workflow.StaleUploadTimeout,
		"keep2share.request_timeout":    c.Keep2Share.RequestTimeout,
		"keep2share.upload_timeout":     c.Keep2Share.UploadTimeout,
		"telegram.upload_timeout":       c.Telegram.UploadTimeout,
	})
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
