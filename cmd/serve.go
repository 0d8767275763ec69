package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"invoicebridge/internal/config"
	"invoicebridge/internal/gemini"
	"invoicebridge/internal/logger"
	"invoicebridge/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the invoice upload HTTP server",
	Long: `Start the HTTP server that accepts PDF uploads on POST /extract,
forwards them to the document-understanding model, persists the
structured responses and returns them to the caller. POST /parse runs
the heuristic text parser instead.

Required environment variables:
  GEMINI_API_KEY - API key for the document-understanding model
  GEMINI_MODEL   - model name (default gemini-2.5-pro)
  PORT           - listen port (default 8000)`,
	Example: `  invoicebridge serve
  invoicebridge serve --port 9000`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("port", "", "Listen port (overrides PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("serve")

	cfg := config.Load()
	if err := cfg.RequireGemini(); err != nil {
		return fmt.Errorf("document-understanding configuration incomplete: %w", err)
	}

	port, _ := cmd.Flags().GetString("port")
	if port == "" {
		port = cfg.Port
	}

	extractor, err := gemini.NewClient(gemini.Config{
		APIKey: cfg.GeminiAPIKey,
		Model:  cfg.GeminiModel,
	})
	if err != nil {
		return fmt.Errorf("failed to create extraction client: %w", err)
	}

	srv := server.New(extractor, cfg.ResponsesDir)
	log.Info().Str("port", port).Str("model", cfg.GeminiModel).Msg("Upload server starting")
	return srv.Run(":" + port)
}
