package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"invoicebridge/internal/logger"
	"invoicebridge/internal/zoho"
)

var authorizeCmd = &cobra.Command{
	Use:   "authorize",
	Short: "Exchange a Zoho grant code for a refresh token",
	Long: `One-time OAuth bootstrap: exchange a Self Client grant code for a
refresh token. The refresh token is what the sync pipeline is configured
with (ZOHO_REFRESH_TOKEN); access tokens are then minted on demand.

Generate the grant code from the Zoho API console (Self Client) with the
ZohoBooks.fullAccess.all scope.`,
	Example: `  invoicebridge authorize --client-id ID --client-secret SECRET --code CODE --dc eu`,
	RunE:    runAuthorize,
}

func init() {
	rootCmd.AddCommand(authorizeCmd)

	authorizeCmd.Flags().String("client-id", "", "Zoho client ID (required)")
	authorizeCmd.Flags().String("client-secret", "", "Zoho client secret (required)")
	authorizeCmd.Flags().String("code", "", "Grant code from the Zoho API console (required)")
	authorizeCmd.Flags().String("redirect-uri", "http://localhost:8000/callback", "Redirect URI registered on the client")
	authorizeCmd.Flags().String("dc", "com", fmt.Sprintf("Zoho data center %v", zoho.Regions()))
	_ = authorizeCmd.MarkFlagRequired("client-id")
	_ = authorizeCmd.MarkFlagRequired("client-secret")
	_ = authorizeCmd.MarkFlagRequired("code")
}

func runAuthorize(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("authorize")

	clientID, _ := cmd.Flags().GetString("client-id")
	clientSecret, _ := cmd.Flags().GetString("client-secret")
	code, _ := cmd.Flags().GetString("code")
	redirectURI, _ := cmd.Flags().GetString("redirect-uri")
	dc, _ := cmd.Flags().GetString("dc")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	log.Info().Str("dc", dc).Msg("Exchanging grant code")
	tokens, err := zoho.ExchangeCode(ctx, clientID, clientSecret, code, redirectURI, dc)
	if err != nil {
		return fmt.Errorf("grant code exchange failed: %w", err)
	}

	fmt.Println("SUCCESS! Here are your tokens:")
	fmt.Printf("  Access Token:  %s\n", tokens.AccessToken)
	fmt.Printf("  Refresh Token: %s\n", tokens.RefreshToken)
	fmt.Printf("  Expires In:    %d\n", tokens.ExpiresIn)

	if tokens.RefreshToken == "" {
		fmt.Println()
		fmt.Println("WARNING: No refresh token received. The grant code may have been")
		fmt.Println("used already, or the scope is missing. For Self Client codes,")
		fmt.Println("request the ZohoBooks.fullAccess.all scope.")
		return nil
	}

	fmt.Println()
	fmt.Println("Save the refresh token in your .env file as ZOHO_REFRESH_TOKEN.")
	return nil
}
