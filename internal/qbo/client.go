// Package qbo talks to the QuickBooks Online reports API. It fetches the
// aged payables detail report and performs a single token
// refresh-and-retry when the access token has expired. There is no
// backoff and no retry loop beyond that.
package qbo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"paycalc/internal/report"
)

const (
	// minorVersion pins the reports API revision.
	minorVersion = "73"

	reportPath = "/v3/company/%s/reports/AgedPayableDetail"

	defaultTimeout = 30 * time.Second
)

// ErrMissingCredentials is returned when the realm ID, access token, or
// refresh token needed for a call is absent.
var ErrMissingCredentials = errors.New("missing QuickBooks credentials")

// Options configures a Client. BaseURL, RealmID, and AccessToken are
// required; Tokens enables the expired-token retry.
type Options struct {
	BaseURL     string
	RealmID     string
	AccessToken string
	Tokens      *TokenManager
	HTTPClient  *http.Client
}

// Client fetches reports from QuickBooks Online.
type Client struct {
	http    *http.Client
	baseURL string
	realmID string
	access  string
	tokens  *TokenManager
}

func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		http:    httpClient,
		baseURL: opts.BaseURL,
		realmID: opts.RealmID,
		access:  opts.AccessToken,
		tokens:  opts.Tokens,
	}
}

// FetchAgedPayables retrieves the aged payables detail report. A 401
// triggers exactly one token refresh and retry; any other non-200 status
// fails the fetch.
func (c *Client) FetchAgedPayables(ctx context.Context) (*report.AgedPayables, error) {
	if c.realmID == "" || c.access == "" {
		return nil, ErrMissingCredentials
	}

	slog.InfoContext(ctx, "Fetching aged payables report", "realm_id", c.realmID)
	resp, err := c.get(ctx, c.access)
	if err != nil {
		return nil, fmt.Errorf("aged payables request: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		drain(resp)
		slog.WarnContext(ctx, "Access token expired, refreshing")
		if c.tokens == nil {
			return nil, ErrMissingCredentials
		}
		tok, err := c.tokens.Refresh(ctx)
		if err != nil {
			return nil, err
		}
		c.access = tok.AccessToken

		resp, err = c.get(ctx, c.access)
		if err != nil {
			return nil, fmt.Errorf("aged payables request after refresh: %w", err)
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("aged payables request failed: status %d: %s", resp.StatusCode, body)
	}

	rep, err := report.Decode(resp.Body)
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "Aged payables report fetched")
	return rep, nil
}

func (c *Client) get(ctx context.Context, accessToken string) (*http.Response, error) {
	u := c.baseURL + fmt.Sprintf(reportPath, url.PathEscape(c.realmID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	q := req.URL.Query()
	q.Set("minorversion", minorVersion)
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")
	return c.http.Do(req)
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	resp.Body.Close()
}
