package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/atvirokodosprendimai/menuapi/internal/core/ports"
)

const defaultClientTimeout = 15 * time.Second

// Client talks to a Stripe-style checkout API. The provider secret is passed
// per call as a bearer token and is never stored on the client.
type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultClientTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

type lineItemPayload struct {
	Name string `json:"name"`
	// UnitAmount is in minor units (cents).
	UnitAmount int64 `json:"unit_amount"`
	Quantity   int   `json:"quantity"`
}

type createSessionPayload struct {
	SuccessURL string            `json:"success_url"`
	CancelURL  string            `json:"cancel_url"`
	LineItems  []lineItemPayload `json:"line_items"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

type sessionResponse struct {
	ID     string `json:"id"`
	URL    string `json:"url"`
	Status string `json:"status"`
}

func (c *Client) CreateCheckout(ctx context.Context, secret string, items []ports.CheckoutLineItem, successURL, cancelURL string, metadata map[string]string) (ports.CheckoutSession, error) {
	payload := createSessionPayload{
		SuccessURL: successURL,
		CancelURL:  cancelURL,
		LineItems:  make([]lineItemPayload, 0, len(items)),
		Metadata:   metadata,
	}
	for _, item := range items {
		payload.LineItems = append(payload.LineItems, lineItemPayload{
			Name:       item.Name,
			UnitAmount: int64(item.UnitPrice*100 + 0.5),
			Quantity:   item.Quantity,
		})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return ports.CheckoutSession{}, fmt.Errorf("marshal session request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/checkout/sessions", bytes.NewReader(body))
	if err != nil {
		return ports.CheckoutSession{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+secret)

	return c.doSession(req)
}

func (c *Client) RetrieveSession(ctx context.Context, secret, sessionID string) (ports.CheckoutSession, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/checkout/sessions/"+url.PathEscape(sessionID), nil)
	if err != nil {
		return ports.CheckoutSession{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+secret)

	return c.doSession(req)
}

func (c *Client) doSession(req *http.Request) (ports.CheckoutSession, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return ports.CheckoutSession{}, fmt.Errorf("call provider: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return ports.CheckoutSession{}, fmt.Errorf("provider returned status %d", resp.StatusCode)
	}

	var session sessionResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&session); err != nil {
		return ports.CheckoutSession{}, fmt.Errorf("decode session: %w", err)
	}
	if session.ID == "" {
		return ports.CheckoutSession{}, fmt.Errorf("provider response has no session id")
	}
	return ports.CheckoutSession{ID: session.ID, URL: session.URL, Status: session.Status}, nil
}
