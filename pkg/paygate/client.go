// Package paygate is a minimal HTTP client for the settlement gateway
// that moves funds to wallet addresses for withdrawals and refunds.
package paygate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hemshop/hemshop-api/internal/utils"
)

// Client is an HTTP client for the settlement gateway API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	secret     string
	debug      bool
}

// NewClient constructs a new settlement gateway client with sane defaults.
func NewClient(baseURL, apiKey, secret string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    baseURL,
		apiKey:     apiKey,
		secret:     secret,
		debug:      os.Getenv("ENV") == "development",
	}
}

// TransferRequest is the outbound transfer payload. Reference is the
// idempotency key; the gateway executes each reference at most once.
type TransferRequest struct {
	To        string `json:"to"`
	Amount    int64  `json:"amount"`
	Reference string `json:"reference"`
}

// TransferResponse is the gateway's reply.
type TransferResponse struct {
	Status    string `json:"status"`
	Reference string `json:"reference"`
	TxHash    string `json:"txHash,omitempty"`
	Message   string `json:"message,omitempty"`
}

// Transfer sends funds to a wallet address. It implements the
// service.Transferrer interface.
func (c *Client) Transfer(ctx context.Context, to string, amount int64, reference string) error {
	req := TransferRequest{To: to, Amount: amount, Reference: reference}
	var resp TransferResponse
	if err := c.doRequest(ctx, "/v1/transfers", req, &resp); err != nil {
		return err
	}
	if resp.Status != "accepted" && resp.Status != "completed" {
		return fmt.Errorf("transfer rejected: %s", resp.Message)
	}
	return nil
}

// doRequest performs a signed HTTP POST with JSON payloads and decodes
// the JSON response into result.
func (c *Client) doRequest(ctx context.Context, endpoint string, body any, result any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	if c.debug {
		log.Debug().
			Str("endpoint", c.baseURL+endpoint).
			RawJSON("request", payload).
			Msg("[PAYGATE] Outgoing request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("X-Signature", utils.GenerateSignature(payload, c.secret))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if c.debug {
		log.Debug().
			Str("endpoint", endpoint).
			Int("status_code", resp.StatusCode).
			RawJSON("response", respBody).
			Msg("[PAYGATE] Incoming response")
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("gateway returned status %d: %s", resp.StatusCode, string(respBody))
	}
	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
