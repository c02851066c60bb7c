package keep2share

import (
	"context"

	"clipvault/internal/services"
)

// Disabled is a Client used when no access token is configured. Every upload
// fails with a configuration error, leaving the asset in a retryable state.
type Disabled struct{}

var _ Client = Disabled{}

func (Disabled) Upload(context.Context, string) (string, error) {
	return "", services.Wrap(services.ErrConfiguration, "keep2share", "upload", "access token not configured", nil)
}
