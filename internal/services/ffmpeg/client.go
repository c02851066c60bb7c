// Package ffmpeg wraps the ffmpeg command line for cutting clips out of a
// source video.
package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

var commandContext = exec.CommandContext

// ErrTranscode indicates ffmpeg exited unsuccessfully. The wrapped message
// carries the tool's stderr output verbatim.
var ErrTranscode = errors.New("ffmpeg: transcode failed")

// Client defines clip extraction behaviour.
type Client interface {
	Extract(ctx context.Context, source string, start, duration float64, output string) error
}

// Option configures the CLI client.
type Option func(*CLI)

// WithBinary overrides the default binary name.
func WithBinary(binary string) Option {
	return func(c *CLI) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// WithCodecs overrides the output video and audio codecs.
func WithCodecs(video, audio string) Option {
	return func(c *CLI) {
		if video != "" {
			c.videoCodec = video
		}
		if audio != "" {
			c.audioCodec = audio
		}
	}
}

// CLI wraps the ffmpeg command-line transcoder.
type CLI struct {
	binary     string
	videoCodec string
	audioCodec string
}

// NewCLI constructs a CLI client using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{binary: "ffmpeg", videoCodec: "libx264", audioCodec: "aac"}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// Extract cuts duration seconds starting at start from source into output.
// The seek happens before the input is opened, so ffmpeg jumps to the
// keyframe nearest the start offset instead of decoding from zero.
func (c *CLI) Extract(ctx context.Context, source string, start, duration float64, output string) error {
	if source == "" {
		return errors.New("source path required")
	}
	if output == "" {
		return errors.New("output path required")
	}
	if start < 0 {
		return fmt.Errorf("start offset %v must not be negative", start)
	}
	if duration <= 0 {
		return fmt.Errorf("duration %v must be positive", duration)
	}

	args := []string{
		"-y",
		"-ss", formatSeconds(start),
		"-i", source,
		"-t", formatSeconds(duration),
		"-c:v", c.videoCodec,
		"-c:a", c.audioCodec,
		"-strict", "experimental",
		output,
	}

	cmd := commandContext(ctx, c.binary, args...) //nolint:gosec
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		diagnostic := strings.TrimSpace(stderr.String())
		if diagnostic == "" {
			diagnostic = err.Error()
		}
		return fmt.Errorf("%w: %s", ErrTranscode, diagnostic)
	}
	return nil
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

var _ Client = (*CLI)(nil)
