// Package zoho synchronizes extracted invoices into Zoho Books: it owns
// the OAuth token lifecycle, customer resolution by name, and idempotent
// invoice submission against the regional resource server.
//
// Required configuration (see Config): client id, client secret, refresh
// token, organization id and a two-letter data-center code selecting the
// regional endpoint pair. An unrecognized code falls back to the default
// region with a logged warning.
package zoho

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"invoicebridge/internal/logger"
	"invoicebridge/internal/normalize"
	"invoicebridge/pkg/models"
)

// booksPath is the Zoho Books API root under the regional API host.
const booksPath = "/books/v3"

// Config carries the credentials and region for one tenant. It is passed
// explicitly into NewClient so multiple tenants or regions can coexist in
// one process; nothing is read from ambient globals.
type Config struct {
	ClientID       string
	ClientSecret   string
	RefreshToken   string
	OrganizationID string
	// Region is the two-letter data-center code (com, eu, in, au, jp).
	Region string
}

func (c Config) complete() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.RefreshToken != "" && c.OrganizationID != ""
}

// Client talks to the Zoho Books resource server. Safe for concurrent use;
// the shared credential slot is synchronized inside the token source.
type Client struct {
	cfg        Config
	apiURL     string
	tokens     *tokenSource
	httpClient *http.Client
	log        zerolog.Logger
}

// NewClient creates a sync client for the configured region. Incomplete
// credentials are logged, not rejected, so construction always succeeds;
// the first network call surfaces ErrAuthFailed instead.
func NewClient(cfg Config) *Client {
	ep, known := EndpointsForRegion(cfg.Region)
	return newClient(cfg, ep, known)
}

// NewClientWithEndpoints creates a client against explicit endpoints,
// bypassing the region table. Used by tests and emulators.
func NewClientWithEndpoints(cfg Config, ep Endpoints) *Client {
	return newClient(cfg, ep, true)
}

func newClient(cfg Config, ep Endpoints, knownRegion bool) *Client {
	log := logger.WithComponent("zoho-client")
	if !knownRegion {
		log.Warn().
			Str("dc", cfg.Region).
			Str("fallback", defaultRegion).
			Msg("Unknown data center code, using default region")
	}
	if !cfg.complete() {
		log.Warn().Err(ErrMissingCredentials).Msg("Zoho credentials not fully configured")
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}
	c := &Client{
		cfg:        cfg,
		apiURL:     strings.TrimSuffix(ep.APIURL, "/") + booksPath,
		tokens:     newTokenSource(cfg.ClientID, cfg.ClientSecret, cfg.RefreshToken, ep.AccountsURL, httpClient),
		httpClient: httpClient,
		log:        log,
	}
	log.Info().
		Str("dc", cfg.Region).
		Str("org", cfg.OrganizationID).
		Msg("Zoho client initialized")
	return c
}

// doWithAuthRetry performs one authenticated request, forcing exactly one
// token refresh and retrying once when the resource server answers 401.
// Both lookup and create go through here so they share the same one-shot
// reactive policy.
func (c *Client) doWithAuthRetry(ctx context.Context, build func(token string) (*http.Request, error)) (*http.Response, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	req, err := build(token)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}
	resp.Body.Close()

	c.log.Debug().Msg("Access token rejected, refreshing once")
	token, err = c.tokens.Refresh(ctx)
	if err != nil {
		return nil, err
	}
	req, err = build(token)
	if err != nil {
		return nil, err
	}
	return c.httpClient.Do(req)
}

// FindCustomer resolves a customer by name and returns the first matching
// contact id. Zero matches and non-success lookups both yield ("", nil);
// the latter is logged so rejected lookups stay visible without aborting
// the pipeline.
func (c *Client) FindCustomer(ctx context.Context, name string) (string, error) {
	query := url.Values{}
	query.Set("organization_id", c.cfg.OrganizationID)
	query.Set("contact_name", name)
	endpoint := c.apiURL + "/contacts?" + query.Encode()

	resp, err := c.doWithAuthRetry(ctx, func(token string) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Zoho-oauthtoken "+token)
		return req, nil
	})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.log.Error().
			Int("status", resp.StatusCode).
			Str("body", string(body)).
			Str("name", name).
			Msg("Customer lookup failed")
		return "", nil
	}

	var out struct {
		Contacts []struct {
			ContactID string `json:"contact_id"`
		} `json:"contacts"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode contacts response: %w", err)
	}
	if len(out.Contacts) == 0 {
		return "", nil
	}
	return out.Contacts[0].ContactID, nil
}

// CreateInvoice submits one invoice for the resolved customer and returns
// the remote invoice id plus the created document. The invoice date is
// normalized to YYYY-MM-DD and line-item rate/quantity are coerced to
// numbers. The extracted invoice number rides along as reference_number
// only; Zoho's own invoice sequence stays authoritative, which avoids
// collisions with numbers already taken.
func (c *Client) CreateInvoice(ctx context.Context, inv models.InvoiceData, customerID string) (string, map[string]any, error) {
	const op = "CreateInvoice"

	date, ok := normalize.Date(inv.InvoiceDate)
	if !ok {
		c.log.Warn().
			Str("date", inv.InvoiceDate).
			Msg("Could not parse invoice date, sending original")
	}

	items := make([]map[string]any, 0, len(inv.LineItems))
	for _, item := range inv.LineItems {
		items = append(items, map[string]any{
			"description": item.Description,
			"rate":        normalize.Amount(item.UnitPrice),
			"quantity":    normalize.Amount(item.Quantity),
		})
	}

	payload := map[string]any{
		"customer_id":      customerID,
		"date":             date,
		"reference_number": inv.InvoiceNumber,
		"line_items":       items,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", nil, fmt.Errorf("marshal invoice payload: %w", err)
	}

	query := url.Values{}
	query.Set("organization_id", c.cfg.OrganizationID)
	endpoint := c.apiURL + "/invoices?" + query.Encode()

	c.log.Info().
		Str("customer_id", customerID).
		Str("date", date).
		Str("reference", inv.InvoiceNumber).
		Int("line_items", len(items)).
		Msg("Creating invoice")

	resp, err := c.doWithAuthRetry(ctx, func(token string) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Zoho-oauthtoken "+token)
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
	if err != nil {
		return "", nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, fmt.Errorf("read create response: %w", err)
	}

	if resp.StatusCode != http.StatusCreated {
		apiErr := &APIError{Op: op, StatusCode: resp.StatusCode, Body: string(raw)}
		var remote struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(raw, &remote) == nil {
			apiErr.Message = remote.Message
		}
		c.log.Error().
			Int("status", resp.StatusCode).
			Str("message", apiErr.Message).
			Msg("Invoice creation rejected")
		return "", nil, apiErr
	}

	var created struct {
		Invoice map[string]any `json:"invoice"`
	}
	if err := json.Unmarshal(raw, &created); err != nil {
		return "", nil, fmt.Errorf("decode created invoice: %w", err)
	}

	invoiceID, _ := created.Invoice["invoice_id"].(string)
	c.log.Info().
		Str("invoice_id", invoiceID).
		Msg("Invoice created")
	return invoiceID, created.Invoice, nil
}
