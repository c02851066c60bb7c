package config

const (
	defaultVideosDir          = "~/.local/share/clipvault/storage/videos"
	defaultClipsDir           = "~/.local/share/clipvault/storage/clips"
	defaultDataDir            = "~/.local/share/clipvault/data"
	defaultLogDir             = "~/.local/share/clipvault/logs"
	defaultVideoCodec         = "libx264"
	defaultAudioCodec         = "aac"
	defaultTranscodeTimeout   = 1800
	defaultK2SBaseURL         = "https://keep2share.cc/api/v2/"
	defaultK2SRequestTimeout  = 30
	defaultK2SUploadTimeout   = 3600
	defaultTelegramBaseURL    = "https://api.telegram.org"
	defaultTelegramTimeout    = 600
	defaultScanInterval       = 60
	defaultUploadPollInterval = 30
	defaultStaleUploadTimeout = 7200
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			VideosDir: defaultVideosDir,
			ClipsDir:  defaultClipsDir,
			DataDir:   defaultDataDir,
			LogDir:    defaultLogDir,
		},
		Catalog: Catalog{
			VideoExtensions: []string{".mp4"},
		},
		FFmpeg: FFmpeg{
			VideoCodec:       defaultVideoCodec,
			AudioCodec:       defaultAudioCodec,
			TranscodeTimeout: defaultTranscodeTimeout,
		},
		Keep2Share: Keep2Share{
			BaseURL:        defaultK2SBaseURL,
			RequestTimeout: defaultK2SRequestTimeout,
			UploadTimeout:  defaultK2SUploadTimeout,
		},
		Telegram: Telegram{
			BaseURL:       defaultTelegramBaseURL,
			UploadTimeout: defaultTelegramTimeout,
		},
		Workflow: Workflow{
			ScanInterval:       defaultScanInterval,
			UploadPollInterval: defaultUploadPollInterval,
			StaleUploadTimeout: defaultStaleUploadTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
