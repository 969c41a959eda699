// Package payment wraps the Chapa HTTP API. The client is deliberately thin:
// two remote operations, no local state beyond configuration. Errors returned
// here mean "could not get an answer from the provider"; a reachable provider
// reporting an unsuccessful payment is not an error (VerifyResult.Paid=false).
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// DefaultCurrency is what bookings are charged in unless overridden.
const DefaultCurrency = "ETB"

// statusSuccessful is the provider-side transaction status that means the
// payer completed checkout. Anything else (failed, pending, absent) is a
// not-successful payment.
const statusSuccessful = "successful"

// The provider may hang; every call goes out with a bounded client timeout.
const defaultTimeout = 15 * time.Second

type Config struct {
	BaseURL   string
	SecretKey string
	// HTTPClient overrides the default client (tests). Leave nil in production.
	HTTPClient *http.Client
}

type Client struct {
	baseURL   string
	secretKey string
	http      *http.Client
}

func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.SecretKey) == "" {
		return nil, fmt.Errorf("chapa: secret key is required")
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("chapa: base URL is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		secretKey: cfg.SecretKey,
		http:      httpClient,
	}, nil
}

// InitializeRequest carries everything the provider needs to host a checkout
// page. Reference is the booking id used as tx_ref; it must be unique per
// attempt because the provider keys the transaction on it.
type InitializeRequest struct {
	Reference   string
	Amount      int64
	Currency    string
	Email       string
	FirstName   string
	LastName    string
	CallbackURL string
	ReturnURL   string
	Title       string
	Description string
}

// initializePayload mirrors the provider's wire format, including the
// flattened customization[...] keys.
type initializePayload struct {
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Amount      string `json:"amount"`
	TxRef       string `json:"tx_ref"`
	Currency    string `json:"currency"`
	CallbackURL string `json:"callback_url"`
	ReturnURL   string `json:"return_url"`
	Title       string `json:"customization[title]"`
	Description string `json:"customization[description]"`
}

type initializeResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    struct {
		CheckoutURL string `json:"checkout_url"`
	} `json:"data"`
}

type verifyResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Status string `json:"status"`
	} `json:"data"`
}

// VerifyResult is the provider's answer about a transaction. Paid is true
// only for status "successful".
type VerifyResult struct {
	Status string
	Paid   bool
}

// InitializeTransaction creates a pending transaction on the provider's side
// and returns the hosted checkout URL. The side effect is not reversible from
// here. Any transport failure, non-2xx response, or malformed body is
// returned as an error.
func (c *Client) InitializeTransaction(ctx context.Context, req InitializeRequest) (string, error) {
	if strings.TrimSpace(req.Reference) == "" {
		return "", fmt.Errorf("chapa: transaction reference is required")
	}
	if req.Amount <= 0 {
		return "", fmt.Errorf("chapa: amount must be positive, got %d", req.Amount)
	}
	currency := req.Currency
	if currency == "" {
		currency = DefaultCurrency
	}

	payload := initializePayload{
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Amount:      strconv.FormatInt(req.Amount, 10),
		TxRef:       req.Reference,
		Currency:    currency,
		CallbackURL: req.CallbackURL,
		ReturnURL:   req.ReturnURL,
		Title:       req.Title,
		Description: req.Description,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("chapa: encode initialize payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/transaction/initialize", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("chapa: build initialize request: %w", err)
	}
	c.setHeaders(httpReq)

	var out initializeResponse
	if err := c.do(httpReq, &out); err != nil {
		return "", fmt.Errorf("chapa: initialize %s: %w", req.Reference, err)
	}
	if out.Status != "success" || strings.TrimSpace(out.Data.CheckoutURL) == "" {
		return "", fmt.Errorf("chapa: initialize %s rejected (status %q)", req.Reference, out.Status)
	}

	return out.Data.CheckoutURL, nil
}

// VerifyTransaction asks the provider for the current status of a previously
// initialized transaction. An error means the provider could not be asked;
// Paid=false with a nil error means it answered and the payment did not
// complete.
func (c *Client) VerifyTransaction(ctx context.Context, reference string) (VerifyResult, error) {
	if strings.TrimSpace(reference) == "" {
		return VerifyResult{}, fmt.Errorf("chapa: transaction reference is required")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/transaction/verify/"+reference, nil)
	if err != nil {
		return VerifyResult{}, fmt.Errorf("chapa: build verify request: %w", err)
	}
	c.setHeaders(httpReq)

	var out verifyResponse
	if err := c.do(httpReq, &out); err != nil {
		return VerifyResult{}, fmt.Errorf("chapa: verify %s: %w", reference, err)
	}
	if out.Status != "success" {
		return VerifyResult{}, fmt.Errorf("chapa: verify %s rejected (status %q)", reference, out.Status)
	}

	status := strings.TrimSpace(out.Data.Status)
	return VerifyResult{
		Status: status,
		Paid:   status == statusSuccessful,
	}, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
