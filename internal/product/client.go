package product

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client calls the product service to decrement stock bookkeeping after an
// order is placed. Strictly best-effort: one attempt per item, the caller
// logs and swallows failures.
type Client struct {
	baseURL string
	http    *http.Client
}

// The decrement runs after the order is committed, outside request
// cancellation, so the client itself must bound how long one attempt may
// hang.
const requestTimeout = 5 * time.Second

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: requestTimeout},
	}
}

// Field names follow the product service's JSON binding, same as the
// inventory wire.
type decreaseRequest struct {
	SkuCode  string `json:"skuCode"`
	Quantity int    `json:"quantity"`
}

func (c *Client) DecreaseQuantity(ctx context.Context, skuCode string, quantity int) error {
	body, err := json.Marshal(decreaseRequest{SkuCode: skuCode, Quantity: quantity})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/product/decrease-quantity", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("product service responded %d for sku %s", resp.StatusCode, skuCode)
	}
	return nil
}
