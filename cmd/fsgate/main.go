// Package main is the entry point for the fsgate CLI.
//
// The CLI is a thin dispatcher over the sandboxed file engine: it loads the
// policy configuration, builds the engine once, maps each subcommand onto
// one engine operation, and renders the structured result (or the typed
// denial) as JSON. No policy decision lives here.
package main

import (
	"os"
)

func main() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		renderError(cmd.OutOrStdout(), err)
		os.Exit(1)
	}
}
