package zoho

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"invoicebridge/internal/logger"
)

// tokenPath is the OAuth token endpoint under the regional accounts host.
const tokenPath = "/oauth/v2/token"

// tokenSource owns the single cached bearer credential. The slot is
// guarded by a mutex because the client may be shared across concurrent
// callers. There is no expiry tracking: staleness is discovered
// reactively when the resource server answers 401, at which point the
// caller forces a refresh. A failed refresh stores nothing, so the state
// machine is Unset -> Valid -> Valid, with failures leaving the slot
// effectively Unset.
type tokenSource struct {
	clientID     string
	clientSecret string
	refreshToken string
	accountsURL  string
	httpClient   *http.Client
	log          zerolog.Logger

	mu    sync.Mutex
	token string
}

func newTokenSource(clientID, clientSecret, refreshToken, accountsURL string, httpClient *http.Client) *tokenSource {
	return &tokenSource{
		clientID:     clientID,
		clientSecret: clientSecret,
		refreshToken: refreshToken,
		accountsURL:  strings.TrimSuffix(accountsURL, "/"),
		httpClient:   httpClient,
		log:          logger.WithComponent("zoho-token"),
	}
}

// Token returns the cached credential, performing the first refresh
// lazily.
func (ts *tokenSource) Token(ctx context.Context) (string, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if ts.token != "" {
		return ts.token, nil
	}
	return ts.refreshLocked(ctx)
}

// Refresh discards the cached credential and exchanges the refresh token
// for a new one. Used when the resource server has rejected the current
// credential.
func (ts *tokenSource) Refresh(ctx context.Context) (string, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.token = ""
	return ts.refreshLocked(ctx)
}

func (ts *tokenSource) refreshLocked(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("refresh_token", ts.refreshToken)
	form.Set("client_id", ts.clientID)
	form.Set("client_secret", ts.clientSecret)
	form.Set("grant_type", "refresh_token")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ts.accountsURL+tokenPath, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := ts.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token refresh request failed: %w", err)
	}
	defer resp.Body.Close()

	var body struct {
		AccessToken string `json:"access_token"`
		Error       string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("%w: unreadable token response (status %d)", ErrAuthFailed, resp.StatusCode)
	}

	if resp.StatusCode != http.StatusOK || body.Error != "" || body.AccessToken == "" {
		ts.log.Error().
			Int("status", resp.StatusCode).
			Str("error", body.Error).
			Msg("Token refresh rejected")
		if body.Error != "" {
			return "", fmt.Errorf("%w: %s", ErrAuthFailed, body.Error)
		}
		return "", fmt.Errorf("%w: status %d", ErrAuthFailed, resp.StatusCode)
	}

	ts.token = body.AccessToken
	ts.log.Debug().Msg("Access token refreshed")
	return ts.token, nil
}

// GrantTokens is the result of a one-time authorization-code exchange.
type GrantTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// ExchangeCode trades a Self Client grant code for a refresh token. This
// is the one-time OAuth bootstrap; the refresh token it prints is what
// the long-running client is configured with.
func ExchangeCode(ctx context.Context, clientID, clientSecret, code, redirectURI, dc string) (*GrantTokens, error) {
	ep, known := EndpointsForRegion(dc)
	if !known {
		log := logger.WithComponent("zoho-token")
		log.Warn().
			Str("dc", dc).
			Str("fallback", defaultRegion).
			Msg("Unknown data center code, using default region")
	}

	form := url.Values{}
	form.Set("code", code)
	form.Set("client_id", clientID)
	form.Set("client_secret", clientSecret)
	form.Set("redirect_uri", redirectURI)
	form.Set("grant_type", "authorization_code")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ep.AccountsURL+tokenPath, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build exchange request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("grant code exchange failed: %w", err)
	}
	defer resp.Body.Close()

	var body struct {
		GrantTokens
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: unreadable exchange response (status %d)", ErrAuthFailed, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK || body.Error != "" {
		if body.Error != "" {
			return nil, fmt.Errorf("%w: %s", ErrAuthFailed, body.Error)
		}
		return nil, fmt.Errorf("%w: status %d", ErrAuthFailed, resp.StatusCode)
	}

	return &body.GrantTokens, nil
}
