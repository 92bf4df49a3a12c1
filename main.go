// =============================================================================
// Lançamentos Consolidator - Main Entry Point
// =============================================================================
//
// This is the main entry point for the Lançamentos Consolidator CLI. It
// delegates command execution to the cmd package.
//
// USAGE:
//   lancamentos process     - Summarise statements (files, directories or stdin)
//   lancamentos serve       - Serve the consolidator over HTTP
//   lancamentos rules       - Show or export the classification rules
//   lancamentos validate    - Validate the configuration without processing
//   lancamentos version     - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : The pipeline (textinput, reconstructor, rowparser,
//                      classifier, aggregator), reports and the HTTP server
//   - pkg/           : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/lancamentos/cmd"
)

// main is the entry point of the application.
func main() {
	cmd.Execute()
}
