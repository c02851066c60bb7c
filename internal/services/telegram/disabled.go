package telegram

import (
	"context"

	"clipvault/internal/services"
)

// Disabled is a Client used when no bot token is configured. Every send
// fails with a configuration error, leaving the clip in a retryable state.
type Disabled struct{}

var _ Client = Disabled{}

func (Disabled) SendVideo(context.Context, string, string) (string, error) {
	return "", services.Wrap(services.ErrConfiguration, "telegram", "send_video", "bot token not configured", nil)
}
