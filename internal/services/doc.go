// Package services provides shared plumbing for external collaborators:
// sentinel errors with a Wrap helper for classification, and context
// annotations that carry asset identifiers through upload and transcode
// operations for structured logging.
package services
