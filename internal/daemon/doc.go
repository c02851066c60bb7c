// Package daemon coordinates the long-running clipvault process.
//
// It wires configuration, the catalog store, the directory reconciler, and
// the upload orchestrator into a single lifecycle with flock-based locking
// to prevent multiple instances. The daemon watches the videos directory
// for new files, scans it periodically, sweeps pending uploads, and
// reclaims uploads abandoned mid-flight.
//
// Keep orchestration logic here: the individual operations live in their
// respective packages while the daemon focuses on startup, shutdown, and
// scheduling.
package daemon
