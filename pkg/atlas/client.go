package atlas

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"
)

// Config holds connection settings for the console backend API.
type Config struct {
	BaseURL        string        `env:"ATLAS_BASE_URL,required"`
	AccessToken    string        `env:"ATLAS_ACCESS_TOKEN"`
	RequestTimeout time.Duration `env:"ATLAS_REQUEST_TIMEOUT" envDefault:"30s"`
}

// Client talks to the console backend API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client, e.g. for tests or
// custom transports. Nil clients are ignored.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithAccessToken sets the bearer credential used for authenticated calls.
func WithAccessToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// New creates a backend API client from the given config.
func New(cfg Config, opts ...Option) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, ErrMissingBaseURL
	}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      cfg.AccessToken,
		httpClient: &http.Client{Timeout: timeout},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// CheckEligibility asks whether the identity qualifies for the discounted
// trial price for a plan. Display-time check only; the backend re-validates
// at the moment of charge.
func (c *Client) CheckEligibility(ctx context.Context, req EligibilityRequest) (*EligibilityResponse, error) {
	var resp EligibilityResponse
	if err := c.do(ctx, http.MethodPost, "/subscriptions/check-eligibility", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateCheckout creates a fresh provider order or subscription for one
// checkout attempt. References are single-use; a retry must call this again.
func (c *Client) CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutResponse, error) {
	var resp CheckoutResponse
	if err := c.do(ctx, http.MethodPost, "/subscriptions/checkout", req, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, errors.Join(ErrBackendRejected, &APIError{StatusCode: http.StatusOK, Message: resp.Message})
	}
	return &resp, nil
}

// UpgradeCheckout starts a plan upgrade and returns the new provider
// subscription reference.
func (c *Client) UpgradeCheckout(ctx context.Context, req UpgradeCheckoutRequest) (*UpgradeCheckoutResponse, error) {
	var resp UpgradeCheckoutResponse
	if err := c.do(ctx, http.MethodPost, "/upgrade/checkout", req, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, errors.Join(ErrBackendRejected, &APIError{StatusCode: http.StatusOK, Message: resp.Message})
	}
	return &resp, nil
}

// PaymentDetails returns the backend's authoritative record for a payment or
// subscription identifier. Read-only and safe to call repeatedly.
func (c *Client) PaymentDetails(ctx context.Context, req PaymentDetailsRequest) (*PaymentDetailsResponse, error) {
	var resp PaymentDetailsResponse
	if err := c.do(ctx, http.MethodPost, "/billing/webhook/payment-details", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CurrentSubscription returns the caller's current subscription, if the
// provider webhook has propagated it yet.
func (c *Client) CurrentSubscription(ctx context.Context) (*MeResponse, error) {
	var resp MeResponse
	if err := c.do(ctx, http.MethodGet, "/subscriptions/me", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SyncSubscription triggers the backend billing sync for a subscription that
// has just become visible.
func (c *Client) SyncSubscription(ctx context.Context, subscriptionID string) error {
	return c.do(ctx, http.MethodPost, "/billing/subscription/sync", SyncSubscriptionRequest{SubscriptionID: subscriptionID}, nil)
}

// MarkEmailUsed marks the identity's trial as consumed. Idempotent overwrite
// on the backend.
func (c *Client) MarkEmailUsed(ctx context.Context, email string) error {
	var resp StatusResponse
	return c.do(ctx, http.MethodPost, "/subscriptions/mark-email-as-used", MarkEmailUsedRequest{Email: email}, &resp)
}

// UpdateAccountType flips the account tier. Idempotent overwrite on the
// backend.
func (c *Client) UpdateAccountType(ctx context.Context, email string, accountType AccountType) error {
	var resp StatusResponse
	return c.do(ctx, http.MethodPost, "/subscriptions/update-account-type", UpdateAccountTypeRequest{Email: email, AccountType: accountType}, &resp)
}

// AddCredit re-applies a prepaid balance as a credit keyed by ReferenceID, so
// repeated calls with the same reference do not double-credit.
func (c *Client) AddCredit(ctx context.Context, req AddCreditRequest) error {
	return c.do(ctx, http.MethodPost, "/billing/credits/add", req, nil)
}

// CreditBalance returns the caller's current prepaid balance. Read before an
// upgrade begins; the captured value is what gets carried forward.
func (c *Client) CreditBalance(ctx context.Context) (*BalanceResponse, error) {
	var resp BalanceResponse
	if err := c.do(ctx, http.MethodGet, "/billing/credits/balance", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SaveBillingDetails persists the billing address and payment-method choice.
// Best-effort: callers treat failures as non-fatal.
func (c *Client) SaveBillingDetails(ctx context.Context, req BillingDetailsRequest) error {
	return c.do(ctx, http.MethodPost, "/billing/details", req, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return errors.Join(ErrRequestFailed, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return errors.Join(ErrRequestFailed, err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Join(ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return errors.Join(ErrUnauthorized, &APIError{StatusCode: resp.StatusCode, Message: backendMessage(resp.Body)})
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.Join(ErrRequestFailed, &APIError{StatusCode: resp.StatusCode, Message: backendMessage(resp.Body)})
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Join(ErrDecodeResponse, err)
	}

	return nil
}

// backendMessage pulls the error envelope's message out of a non-2xx body.
func backendMessage(body io.Reader) string {
	var envelope StatusResponse
	if err := json.NewDecoder(body).Decode(&envelope); err != nil {
		return ""
	}
	return envelope.Message
}
