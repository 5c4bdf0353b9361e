// Package nightscout provides a pull client for the external glucose
// monitor. The monitor is an untrusted collaborator: it supplies
// time-stamped readings in mg/dL plus a directional trend token, nothing
// more is assumed about it.
package nightscout

import (
	"context"
	"crypto/sha1" //nolint:gosec // Required for Nightscout API secret hashing (legacy API requirement)
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mrcode/diabefit/internal/models"
)

// Entry is one sensor glucose reading as the monitor reports it.
type Entry struct {
	SGV       int    `json:"sgv"`  // mg/dL
	Date      int64  `json:"date"` // unix milliseconds
	DateStr   string `json:"dateString"`
	Direction string `json:"direction"`
}

// Time returns the measurement time, preferring the millisecond timestamp
// and falling back to the ISO date string.
func (e *Entry) Time() time.Time {
	if e.Date > 0 {
		return time.UnixMilli(e.Date)
	}
	parsed, err := time.Parse(time.RFC3339, e.DateStr)
	if err != nil {
		return time.Time{}
	}
	return parsed
}

// ValueMmol returns the reading converted to mmol/L, rounded to one decimal.
func (e *Entry) ValueMmol() float64 {
	return models.MgdlToMmol(e.SGV)
}

// Client handles communication with the monitor's HTTP API.
type Client struct {
	baseURL    string
	apiSecret  string
	apiToken   string
	useToken   bool
	httpClient *http.Client
}

// NewClient creates a new monitor client.
func NewClient(baseURL, apiSecret, apiToken string, useToken bool) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		apiSecret: apiSecret,
		apiToken:  apiToken,
		useToken:  useToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// hashSecret generates the SHA1 hash of the API secret.
// Note: SHA1 is required for Nightscout API compatibility.
func hashSecret(secret string) string {
	hasher := sha1.New() //nolint:gosec // Required for Nightscout API
	hasher.Write([]byte(secret))
	return hex.EncodeToString(hasher.Sum(nil))
}

// buildRequest creates an HTTP request with proper authentication.
func (c *Client) buildRequest(ctx context.Context, endpoint string, params url.Values) (*http.Request, error) {
	fullURL := c.baseURL + endpoint
	if params != nil {
		fullURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/json")

	if c.useToken && c.apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiToken)
	} else if c.apiSecret != "" {
		req.Header.Set("API-SECRET", hashSecret(c.apiSecret))
	}

	return req, nil
}

// doRequest executes an HTTP request and returns the response body.
func (c *Client) doRequest(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("API error %d: %s", resp.StatusCode, string(body))
	}

	return body, nil
}

// CurrentEntry retrieves the most recent glucose reading.
func (c *Client) CurrentEntry(ctx context.Context) (*Entry, error) {
	params := url.Values{}
	params.Set("count", "1")

	req, err := c.buildRequest(ctx, "/api/v1/entries/current", params)
	if err != nil {
		return nil, err
	}

	body, err := c.doRequest(req)
	if err != nil {
		return nil, err
	}

	// The current endpoint returns a single object or an array.
	var entry Entry
	if err := json.Unmarshal(body, &entry); err != nil {
		var entries []Entry
		if err := json.Unmarshal(body, &entries); err != nil {
			return nil, fmt.Errorf("parsing entry: %w", err)
		}
		if len(entries) > 0 {
			return &entries[0], nil
		}
		return nil, fmt.Errorf("no entries returned")
	}

	return &entry, nil
}

// EntriesSince retrieves all glucose readings measured at or after the
// cutoff, for bulk history ingestion.
func (c *Client) EntriesSince(ctx context.Context, cutoff time.Time) ([]Entry, error) {
	params := url.Values{}
	params.Set("find[date][$gte]", fmt.Sprintf("%d", cutoff.UnixMilli()))
	params.Set("count", "10000")

	req, err := c.buildRequest(ctx, "/api/v1/entries/sgv", params)
	if err != nil {
		return nil, err
	}

	body, err := c.doRequest(req)
	if err != nil {
		return nil, err
	}

	var entries []Entry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("parsing entries: %w", err)
	}

	return entries, nil
}

// TestConnection checks whether the monitor answers at all.
func (c *Client) TestConnection(ctx context.Context) error {
	_, err := c.CurrentEntry(ctx)
	return err
}
