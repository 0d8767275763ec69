// Package gemini calls the Gemini generateContent endpoint to turn an
// uploaded invoice PDF into a structured JSON guess.
//
// The service is treated as opaque: its output is either valid JSON
// matching the requested schema or arbitrary text. Decoding is lenient.
// Markdown code fences are stripped and anything that still is not JSON
// comes back as a raw-text passthrough object, never an error, so a
// misbehaving model degrades the result instead of crashing the caller.
// The schema of a successful guess is not validated here; missing fields
// normalize to defaults at submission time.
package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"invoicebridge/internal/logger"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel   = "gemini-2.5-pro"
	defaultTimeout = 120 * time.Second
)

var (
	// ErrMissingAPIKey is returned when no API key is configured.
	ErrMissingAPIKey = errors.New("gemini API key is not configured")

	// ErrNoCandidates is returned when the model produced no candidates.
	ErrNoCandidates = errors.New("gemini returned no candidates")
)

// extractionPrompt asks for the strict invoice schema. Fields the model
// cannot find come back null or "N/A"; the downstream normalizers accept
// both.
const extractionPrompt = `Extract the data from this invoice PDF into the following strict JSON format.
If a field is not found, return null (or "N/A" for text fields).

REQUIRED JSON SCHEMA:
{
    "invoice_number": "string",
    "invoice_date": "string",
    "due_date": "string",
    "seller": {
        "name_english": "string",
        "name_arabic": "string",
        "address": "string",
        "vat_number": "string",
        "cr_number": "string"
    },
    "buyer": {
        "name": "string",
        "address": "string",
        "vat_number": "string"
    },
    "line_items": [
        {
            "description": "string",
            "quantity": "number/string",
            "unit_price": "number/string",
            "total": "number/string"
        }
    ],
    "totals": {
        "subtotal": "string",
        "vat_amount": "string",
        "grand_total": "string"
    },
    "bank_details": {
        "bank_name": "string",
        "account_number": "string",
        "iban": "string"
    }
}

Ensure "totals" and "bank_details" keys exactly match the names above if data exists.
Return ONLY valid JSON.`

// Config holds the document-understanding client configuration.
type Config struct {
	// APIKey authenticates against the generative language API.
	APIKey string

	// Model selects the model, e.g. "gemini-2.5-pro".
	Model string

	// BaseURL overrides the API host; used by tests.
	BaseURL string

	// Timeout bounds one extraction call. Default: 120 seconds.
	Timeout time.Duration
}

// Client is the HTTP client for the document-understanding service.
type Client struct {
	cfg        Config
	httpClient *http.Client
	log        zerolog.Logger
}

// NewClient creates a document-understanding client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        logger.WithComponent("gemini"),
	}, nil
}

// ExtractInvoice sends the PDF bytes with the extraction prompt and
// returns the decoded structured guess, or a raw-text passthrough object
// when the model did not produce valid JSON.
func (c *Client) ExtractInvoice(ctx context.Context, pdf []byte) (map[string]any, error) {
	payload := map[string]any{
		"contents": []map[string]any{{
			"parts": []map[string]any{
				{"inline_data": map[string]any{
					"mime_type": "application/pdf",
					"data":      base64.StdEncoding.EncodeToString(pdf),
				}},
				{"text": extractionPrompt},
			},
		}},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal generate request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		strings.TrimSuffix(c.cfg.BaseURL, "/"), c.cfg.Model, c.cfg.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	c.log.Info().
		Str("model", c.cfg.Model).
		Int("pdf_bytes", len(pdf)).
		Msg("Sending document for extraction")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("generate request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read generate response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		c.log.Error().
			Int("status", resp.StatusCode).
			Str("body", string(raw)).
			Msg("Extraction request rejected")
		return nil, fmt.Errorf("gemini: generateContent failed (status %d): %s", resp.StatusCode, raw)
	}

	var out struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode generate response: %w", err)
	}
	if len(out.Candidates) == 0 {
		return nil, ErrNoCandidates
	}

	var text strings.Builder
	for _, part := range out.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}

	result := DecodeLenient(text.String())
	c.log.Info().
		Dur("duration", time.Since(start)).
		Bool("structured", result["raw_text_output"] == nil).
		Msg("Extraction completed")
	return result, nil
}
