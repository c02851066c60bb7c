// Package main hosts the clipvault CLI entrypoint and command graph.
//
// The Cobra-based command tree covers catalog reconciliation, clip
// derivation, upload orchestration, and the foreground daemon. It
// centralizes configuration resolution and store setup so subcommands can
// focus on user experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
