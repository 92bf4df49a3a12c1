// =============================================================================
// Lançamentos Consolidator - Serve Command
// =============================================================================
//
// COMMAND USAGE:
//   lancamentos serve [--addr :8080]
//
// Starts the HTTP server (see internal/server) and runs until SIGINT or
// SIGTERM, then shuts down gracefully.
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/ginjaninja78/lancamentos/internal/converter"
	"github.com/ginjaninja78/lancamentos/internal/logger"
	"github.com/ginjaninja78/lancamentos/internal/server"
	"github.com/spf13/cobra"
)

var serveAddr string

// serveCmd represents the 'serve' command.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the consolidator over HTTP",
	Long: `Start an HTTP server that accepts pasted statements.

  GET  /api/health
  GET  /api/categories
  POST /api/process[?format=json|csv|xml|xlsx][&entries=true]

POST /api/process takes a text/plain body or {"text": "...", "source": "..."}.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		if serveAddr != "" {
			appConfig.Server.Addr = serveAddr
		}
		if appConfig.LogLevel != "debug" && !verbose {
			gin.SetMode(gin.ReleaseMode)
		}

		cls, err := converter.LoadClassifier(appConfig)
		if err != nil {
			return fmt.Errorf("failed to load classification rules: %w", err)
		}
		log := logger.FromContext(cmd.Context())
		conv := converter.New(appConfig, cls, logger.Printf{L: log})

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return server.New(conv, appConfig, log).Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config)")
}
