package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

// writeJSON serves the --json flag carried by the listing and sweep
// commands, encoding v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
