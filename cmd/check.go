package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"invoicebridge/internal/config"
	"invoicebridge/internal/zoho"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Diagnose the environment configuration",
	Long: `Report which configuration variables are set without printing their
values: each credential shows a masked prefix and its length, so a stray
quote or a truncated paste stays visible. The configured Zoho data-center
code is validated against the supported regions.

Reads the same environment (and .env file) as the other commands.`,
	Example: `  invoicebridge check`,
	RunE:    runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	entries := []struct {
		key   string
		value string
	}{
		{"GEMINI_API_KEY", cfg.GeminiAPIKey},
		{"ZOHO_CLIENT_ID", cfg.ZohoClientID},
		{"ZOHO_CLIENT_SECRET", cfg.ZohoClientSecret},
		{"ZOHO_REFRESH_TOKEN", cfg.ZohoRefreshToken},
		{"ZOHO_ORG_ID", cfg.ZohoOrgID},
		{"ZOHO_DC", cfg.ZohoDC},
	}

	fmt.Println("--- Environment Variable Check ---")
	missing := 0
	for _, e := range entries {
		if e.value == "" {
			fmt.Printf("MISSING  %s\n", e.key)
			missing++
			continue
		}
		fmt.Printf("ok       %s (starts with %q, length %d)\n", e.key, maskValue(e.value), len(e.value))
	}

	fmt.Println()
	fmt.Println("--- Data Center Check ---")
	if _, known := zoho.EndpointsForRegion(cfg.ZohoDC); known {
		fmt.Printf("ok       ZOHO_DC=%q\n", cfg.ZohoDC)
	} else {
		fmt.Printf("WARNING  ZOHO_DC=%q is not one of %v, requests will use the default region\n",
			cfg.ZohoDC, zoho.Regions())
	}

	if missing > 0 {
		return fmt.Errorf("%d required variable(s) missing", missing)
	}
	return nil
}

// maskValue keeps a short prefix for eyeballing which credential landed
// in which variable, without echoing the secret.
func maskValue(v string) string {
	if len(v) > 4 {
		return v[:4] + "..."
	}
	return "***"
}
