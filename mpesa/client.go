// SPDX-License-Identifier: GPL-3.0-only

package mpesa

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"rentdesk-server/commons"
	"rentdesk-server/metrics"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	tokenPath = "/oauth/v1/generate?grant_type=client_credentials"
	pushPath  = "/mpesa/stkpush/v1/processrequest"

	timestampLayout = "20060102150405"

	tokenFailureMessage = "Failed to get access token"
)

// Client talks to the M-Pesa Daraja API. It holds only immutable
// configuration and is safe for concurrent use.
type Client struct {
	config     Config
	baseURL    string
	httpClient *http.Client
	now        func() time.Time
}

type Option func(*Client)

// WithHTTPClient replaces the instrumented default client. The configured
// timeout still applies when hc has none.
// A nil hc keeps the default client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc == nil {
			return
		}
		clone := *hc
		if clone.Timeout == 0 {
			clone.Timeout = c.config.Timeout
		}
		c.httpClient = &clone
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

func NewClient(cfg Config, opts ...Option) (*Client, error) {
	if err := cfg.validate(); err != nil {
		commons.Logger.Error("Invalid M-Pesa configuration:", err)
		return nil, err
	}
	base, err := cfg.resolveBaseURL()
	if err != nil {
		commons.Logger.Error("Invalid M-Pesa configuration:", err)
		return nil, err
	}

	c := &Client{
		config:  cfg,
		baseURL: base,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	commons.Logger.Debugf("M-Pesa client initialized for %s", base)
	return c, nil
}

// GetAccessToken exchanges the consumer credentials for a bearer token.
func (c *Client) GetAccessToken(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+tokenPath, nil)
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.config.ConsumerKey, c.config.ConsumerSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("access token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", statusError(resp, req.URL.String())
	}

	var body tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode access token response: %w", err)
	}
	if body.AccessToken == "" {
		return "", errors.New("access token response carried no token")
	}
	return body.AccessToken, nil
}

// GeneratePassword returns base64(shortcode + passkey + timestamp) and the
// timestamp it was built from, formatted in now's location.
func (c *Client) GeneratePassword(now time.Time) (string, string) {
	timestamp := now.Format(timestampLayout)
	raw := c.config.Shortcode + c.config.Passkey + timestamp
	return base64.StdEncoding.EncodeToString([]byte(raw)), timestamp
}

// ErrNonFiniteAmount is returned for NaN and infinite amounts.
var ErrNonFiniteAmount = errors.New("amount must be a finite number")

// TruncateAmount drops the fractional part; the API accepts whole units only.
func TruncateAmount(amount float64) (int64, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, fmt.Errorf("%w, got %v", ErrNonFiniteAmount, amount)
	}
	return decimal.NewFromFloat(amount).IntPart(), nil
}

// STKPush asks the customer's phone to authorize a payment. It never returns
// an error: every failure is reported through the Result.
func (c *Client) STKPush(ctx context.Context, phone string, amount float64, accountRef, desc string) Result {
	commons.Logger.Debugf("Initiating STK push of %v to %s for %s", amount, phone, accountRef)

	wholeAmount, err := TruncateAmount(amount)
	if err != nil {
		commons.Logger.Errorf("STK push for %s rejected: %v", accountRef, err)
		metrics.ObserveSTKPush(metrics.OutcomePushError)
		return Result{Success: false, Message: err.Error(), Failure: PushFailure}
	}

	started := time.Now()
	token, err := c.GetAccessToken(ctx)
	metrics.ObserveMpesaRequest(metrics.StepToken, time.Since(started))
	if err != nil {
		commons.Logger.Error("Failed to get M-Pesa access token:", err)
		metrics.ObserveSTKPush(metrics.OutcomeTokenError)
		return Result{Success: false, Message: tokenFailureMessage, Failure: TokenFailure}
	}

	password, timestamp := c.GeneratePassword(c.now())
	payload := STKPushRequest{
		BusinessShortCode: c.config.Shortcode,
		Password:          password,
		Timestamp:         timestamp,
		TransactionType:   TransactionType,
		Amount:            wholeAmount,
		PartyA:            phone,
		PartyB:            c.config.Shortcode,
		PhoneNumber:       phone,
		CallBackURL:       c.config.CallbackURL,
		AccountReference:  accountRef,
		TransactionDesc:   desc,
	}

	started = time.Now()
	data, response, err := c.push(ctx, token, payload)
	metrics.ObserveMpesaRequest(metrics.StepPush, time.Since(started))
	if err != nil {
		commons.Logger.Errorf("STK push for %s failed: %v", accountRef, err)
		metrics.ObserveSTKPush(metrics.OutcomePushError)
		return Result{Success: false, Message: err.Error(), Response: response, Failure: PushFailure}
	}

	commons.Logger.Infof("STK push accepted for %s", accountRef)
	metrics.ObserveSTKPush(metrics.OutcomeSuccess)
	return Result{Success: true, Data: data}
}

// push returns the decoded body on success. On failure it returns the
// decoded provider body when one was available.
func (c *Client) push(ctx context.Context, token string, payload STKPushRequest) (map[string]any, map[string]any, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+pushPath, bytes.NewReader(body))
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("read STK push response: %w", err)
	}
	parsed, parseErr := decodeObject(raw)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, parsed, statusError(resp, req.URL.String())
	}
	if parseErr != nil {
		return nil, nil, fmt.Errorf("malformed STK push response: %w", parseErr)
	}
	return parsed, nil, nil
}

func decodeObject(raw []byte) (map[string]any, error) {
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	if out == nil {
		return nil, errors.New("response body is not a JSON object")
	}
	return out, nil
}

func statusError(resp *http.Response, url string) error {
	kind := "Client"
	if resp.StatusCode >= 500 {
		kind = "Server"
	}
	return fmt.Errorf("%d %s Error: %s for url: %s", resp.StatusCode, kind, http.StatusText(resp.StatusCode), url)
}
