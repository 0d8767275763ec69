package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"invoicebridge/internal/config"
	"invoicebridge/internal/logger"
	"invoicebridge/internal/parser"
	"invoicebridge/internal/structurer"
	"invoicebridge/internal/zoho"
	"invoicebridge/pkg/models"
)

var syncCmd = &cobra.Command{
	Use:   "sync [invoice-file]",
	Short: "Post an extracted invoice to Zoho Books",
	Long: `Resolve the customer by name and create the invoice on Zoho Books.

The input file is either a structured invoice JSON (for example a saved
/extract response) or, with --text, a raw text file that is first run
through the heuristic parser. Dates and amounts are normalized on the
way out; the extracted invoice number is submitted as the reference
number so Zoho's own invoice sequence stays authoritative.

Required environment variables:
  ZOHO_CLIENT_ID, ZOHO_CLIENT_SECRET, ZOHO_REFRESH_TOKEN, ZOHO_ORG_ID
  ZOHO_DC - data center code (com, eu, in, au, jp; default com)`,
	Example: `  # Post a structured extraction result
  invoicebridge sync responses/invoice.pdf.json --customer "ACME LTD"

  # Parse raw text first, then post
  invoicebridge sync invoice.txt --text --customer "ACME LTD"

  # Let an LLM recover line-item descriptions before posting
  invoicebridge sync invoice.txt --text --structure --customer "ACME LTD"`,
	Args: cobra.ExactArgs(1),
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)

	syncCmd.Flags().String("customer", "", "Customer name to resolve on Zoho Books (required)")
	syncCmd.Flags().Bool("text", false, "Treat the input as raw text and run the heuristic parser")
	syncCmd.Flags().Bool("structure", false, "Recover line-item descriptions with the LLM structurer (needs OPENAI_API_KEY)")
	syncCmd.Flags().Int("timeout", 60, "Overall timeout in seconds")
	_ = syncCmd.MarkFlagRequired("customer")
}

func runSync(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("sync")

	customer, _ := cmd.Flags().GetString("customer")
	fromText, _ := cmd.Flags().GetBool("text")
	structure, _ := cmd.Flags().GetBool("structure")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	cfg := config.Load()
	if err := cfg.RequireZoho(); err != nil {
		return fmt.Errorf("zoho configuration incomplete: %w", err)
	}

	ctx, cancel := signalContext(time.Duration(timeoutSecs) * time.Second)
	defer cancel()

	inv, err := loadInvoice(ctx, cfg, args[0], fromText, structure)
	if err != nil {
		return err
	}

	client := zoho.NewClient(cfg.ZohoConfig())

	customerID, err := client.FindCustomer(ctx, customer)
	if err != nil {
		return fmt.Errorf("customer lookup failed: %w", err)
	}
	if customerID == "" {
		return fmt.Errorf("customer %q not found on Zoho Books", customer)
	}
	log.Info().Str("customer", customer).Str("customer_id", customerID).Msg("Customer resolved")

	invoiceID, doc, err := client.CreateInvoice(ctx, inv, customerID)
	if err != nil {
		return fmt.Errorf("invoice creation failed: %w", err)
	}

	fmt.Printf("Invoice created: %s\n", invoiceID)
	if data, err := json.MarshalIndent(doc, "", "  "); err == nil {
		fmt.Println(string(data))
	}
	return nil
}

// loadInvoice reads the submission input, running the heuristic parser
// and optionally the LLM structurer for raw-text inputs.
func loadInvoice(ctx context.Context, cfg *config.Config, path string, fromText, structure bool) (models.InvoiceData, error) {
	log := logger.WithComponent("sync")

	data, err := os.ReadFile(path)
	if err != nil {
		return models.InvoiceData{}, fmt.Errorf("failed to read invoice file: %w", err)
	}

	if !fromText {
		var inv models.InvoiceData
		if err := json.Unmarshal(data, &inv); err != nil {
			return models.InvoiceData{}, fmt.Errorf("failed to decode invoice JSON: %w", err)
		}
		return inv, nil
	}

	rec := parser.Parse(string(data))
	inv := rec.ToInvoiceData()

	if structure {
		svc, err := structurer.NewService(cfg.OpenAIAPIKey, structurer.Config{Model: cfg.OpenAIModel}, logger.WithComponent("structurer"))
		if err != nil {
			return models.InvoiceData{}, err
		}
		items, err := svc.StructureLineItems(ctx, rec.PotentialLineItems, rec.AllLines)
		if err != nil {
			// Best-effort step: keep the positional conversion.
			log.Warn().Err(err).Msg("Line-item structuring failed, keeping positional candidates")
		} else if len(items) > 0 {
			inv.LineItems = items
		}
	}

	return inv, nil
}

// signalContext returns a context bounded by the timeout and canceled on
// SIGINT/SIGTERM.
func signalContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
