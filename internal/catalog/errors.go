package catalog

import "errors"

var (
	// ErrDuplicateIdentity indicates an identity collision with a row whose
	// filename or path differs from the incoming file.
	ErrDuplicateIdentity = errors.New("catalog: duplicate identity")

	// ErrParentNotFound indicates a clip references a video that is not
	// tracked in the catalog.
	ErrParentNotFound = errors.New("catalog: parent video not found")

	// ErrDuplicateClip indicates a clip with the same parent and filename
	// already exists.
	ErrDuplicateClip = errors.New("catalog: duplicate clip")
)
