// Package catalog persists the video and clip catalog in SQLite and owns the
// upload state machines. Status transitions are single-row atomic
// check-then-set updates so concurrent workers never double-process an asset.
package catalog
