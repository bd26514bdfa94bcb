// Package facilitator provides the client for the external verify/settle
// service. The donation endpoint treats the facilitator's answers as
// authoritative and never re-derives them locally.
package facilitator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/vorpalengineering/cryptocoffee-go/types"
)

// Facilitator verifies and settles signed payment authorizations. Settle
// must only be called after Verify succeeds for the same payload: settlement
// consumes the authorization nonce Verify validated.
type Facilitator interface {
	Verify(ctx context.Context, req *types.VerifyRequest) (*types.VerifyResponse, error)
	Settle(ctx context.Context, req *types.SettleRequest) (*types.SettleResponse, error)
}

// Client is the HTTP facilitator client.
type Client struct {
	facilitatorURL string
	httpClient     *http.Client
}

// NewClient creates a facilitator client for the given base URL.
func NewClient(facilitatorURL string) *Client {
	return &Client{
		facilitatorURL: facilitatorURL,
		httpClient:     &http.Client{},
	}
}

// Verify sends a payment verification request to the facilitator.
func (c *Client) Verify(ctx context.Context, req *types.VerifyRequest) (*types.VerifyResponse, error) {
	var verifyResp types.VerifyResponse
	if err := c.post(ctx, "/verify", req, &verifyResp); err != nil {
		return nil, err
	}
	return &verifyResp, nil
}

// Settle sends a payment settlement request to the facilitator.
func (c *Client) Settle(ctx context.Context, req *types.SettleRequest) (*types.SettleResponse, error) {
	var settleResp types.SettleResponse
	if err := c.post(ctx, "/settle", req, &settleResp); err != nil {
		return nil, err
	}
	return &settleResp, nil
}

// Supported queries the scheme/network pairs the facilitator can settle.
func (c *Client) Supported(ctx context.Context) (*types.SupportedResponse, error) {
	url := fmt.Sprintf("%s/supported", c.facilitatorURL)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var supportedResp types.SupportedResponse
	if err := json.NewDecoder(resp.Body).Decode(&supportedResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &supportedResp, nil
}

func (c *Client) post(ctx context.Context, path string, req any, out any) error {
	url := c.facilitatorURL + path

	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
