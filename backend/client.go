// Package backend is the HTTP client for the consular back-office REST API.
// It owns the wire formats and maps transport and status failures onto a
// small set of sentinel errors; the auth package translates those into the
// user-facing taxonomy.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

var (
	// RejectedErr covers 401/403 responses: the presented credential
	// (password or refresh token) was refused.
	RejectedErr = errors.New("backend rejected credentials")
	// UnavailableErr covers timeouts, transport failures and 5xx responses.
	UnavailableErr = errors.New("backend unavailable")
	// UnexpectedStatusErr covers any other non-2xx response.
	UnexpectedStatusErr = errors.New("unexpected backend response")
)

const (
	loginPath   = "/auth/login"
	refreshPath = "/auth/refresh"
)

// Client calls the backend auth endpoints and proxies authorized requests.
// Every call is bounded by the configured timeout.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	log        zerolog.Logger
}

// ClientOption modifies a Client.
type ClientOption func(*Client)

// WithHTTPClient overrides the underlying http.Client (primarily for testing).
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger used for unexpected backend responses.
func WithLogger(log zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.log = log
	}
}

// NewClient creates a backend client for the given base URL.
func NewClient(baseURL string, timeout time.Duration, options ...ClientOption) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("[NewClient] baseURL is required")
	}
	if timeout <= 0 {
		return nil, errors.New("[NewClient] timeout must be positive")
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		timeout:    timeout,
		httpClient: &http.Client{},
		log:        zerolog.Nop(),
	}
	for _, opt := range options {
		opt(c)
	}
	return c, nil
}

// Login exchanges credentials for a principal and token pair.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var result LoginResult
	err := c.postJSON(ctx, loginPath, loginRequest{Email: email, Password: password}, &result)
	if err != nil {
		return nil, errors.Wrap(err, "[Client.Login]")
	}
	if result.AccessToken == "" || result.RefreshToken == "" {
		return nil, errors.Wrap(UnexpectedStatusErr, "[Client.Login] incomplete token pair")
	}
	return &result, nil
}

// Refresh exchanges a refresh token for a new token pair.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*TokenResult, error) {
	var result TokenResult
	err := c.postJSON(ctx, refreshPath, refreshRequest{RefreshToken: refreshToken}, &result)
	if err != nil {
		return nil, errors.Wrap(err, "[Client.Refresh]")
	}
	if result.AccessToken == "" || result.RefreshToken == "" {
		return nil, errors.Wrap(UnexpectedStatusErr, "[Client.Refresh] incomplete token pair")
	}
	return &result, nil
}

// Do forwards an arbitrary API request with the given bearer access token.
// The caller owns the response body. Used by the dashboard's API proxy.
func (c *Client) Do(ctx context.Context, method, path, accessToken string, body io.Reader) (*http.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, errors.Wrap(err, "[Client.Do] build request")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(UnavailableErr, err.Error())
	}
	return resp, nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	encoded, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Timeouts and connection failures both land here; the caller
		// cannot tell them apart and does not need to.
		return errors.Wrap(UnavailableErr, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return errors.Wrap(UnexpectedStatusErr, "decode response: "+err.Error())
		}
		return nil
	}

	detail := decodeErrorBody(resp.Body)
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return errors.Wrap(RejectedErr, detail)
	case resp.StatusCode >= 500:
		return errors.Wrap(UnavailableErr, detail)
	default:
		c.log.Warn().Int("status", resp.StatusCode).Str("path", path).Str("detail", detail).Msg("unexpected backend response")
		return errors.Wrapf(UnexpectedStatusErr, "status %d: %s", resp.StatusCode, detail)
	}
}

func decodeErrorBody(r io.Reader) string {
	var body errorBody
	if err := json.NewDecoder(io.LimitReader(r, 4096)).Decode(&body); err != nil {
		return "no error detail"
	}
	if body.Message == "" {
		return body.Code
	}
	return body.Message
}
