package testsupport

import (
	"path/filepath"
	"testing"

	"clipvault/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.VideosDir = filepath.Join(base, "videos")
	cfgVal.Paths.ClipsDir = filepath.Join(base, "clips")
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Keep2Share.AccessToken = "test-token"
	cfgVal.Keep2Share.FolderID = "test-folder"
	cfgVal.Telegram.BotToken = "test:bot-token"
	cfgVal.Telegram.ChannelID = "-1001234567890"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithVideoExtensions overrides the scanned extension filter.
func WithVideoExtensions(exts ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Catalog.VideoExtensions = exts
	}
}

// WithKeep2ShareBaseURL points the remote-storage client at a test server.
func WithKeep2ShareBaseURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Keep2Share.BaseURL = url
	}
}

// WithTelegramBaseURL points the messaging client at a test server.
func WithTelegramBaseURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Telegram.BaseURL = url
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.VideosDir)
}
