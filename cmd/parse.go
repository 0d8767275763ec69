package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"invoicebridge/internal/logger"
	"invoicebridge/internal/parser"
)

var parseCmd = &cobra.Command{
	Use:   "parse [text-file]",
	Short: "Extract structured invoice fields from raw text",
	Long: `Run the heuristic field-extraction engine over a plain-text file,
typically the text layer of a PDF as returned by a document-understanding
service.

Extraction is best-effort: invoice number, dates, amounts, VAT number and
bilingual company names are recovered by per-line recognizers and
positional heuristics, and fields the heuristics cannot resolve are left
unset rather than failing. Candidate line items are collected as an
unstructured superset for downstream review.`,
	Example: `  # Parse extracted text to stdout (JSON format)
  invoicebridge parse invoice.txt

  # Save the extracted record to a file
  invoicebridge parse invoice.txt -o record.json`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
}

func runParse(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("parse")
	outputPath, _ := cmd.Flags().GetString("output")

	text, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read text file: %w", err)
	}

	rec := parser.Parse(string(text))

	total := 0.0
	if rec.TotalAmount != nil {
		total = *rec.TotalAmount
	}
	log.Info().
		Str("file", args[0]).
		Str("invoice_number", rec.InvoiceNumber).
		Str("invoice_date", rec.InvoiceDate).
		Float64("total_amount", total).
		Int("line_item_candidates", len(rec.PotentialLineItems)).
		Msg("Extraction completed")

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to create JSON output: %w", err)
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, data, 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		log.Info().Str("output_file", outputPath).Msg("Extracted record written to file")
		return nil
	}

	if _, err := os.Stdout.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	fmt.Println()
	return nil
}
