package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"invoicebridge/internal/logger"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "invoicebridge",
	Short: "Invoicebridge - extract invoice data from documents and post it to Zoho Books",
	Long: `Invoicebridge turns unstructured invoice documents into structured
records and posts them to Zoho Books.

Extraction runs either through a document-understanding model (PDF
uploads, "serve" and the /extract endpoint) or through a heuristic text
parser ("parse"). The "sync" command resolves the customer and creates
the invoice on the accounting platform.`,
	Version: version,
	Run: func(cmd *cobra.Command, args []string) {
		log := logger.WithComponent("root")
		log.Info().
			Str("version", version).
			Msg("Invoicebridge executed")

		fmt.Println("Welcome to Invoicebridge!")
		fmt.Println("Use --help to see available commands and options.")
	},
}

func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print version information")
}
