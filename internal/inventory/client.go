package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/HuzaifaIlyas02/order-service/internal/domain"
)

// Client talks to the inventory service over plain HTTP. It carries no
// resilience of its own; wrap it in a resilience.Policy.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{},
	}
}

type stockStatus struct {
	SkuCode string `json:"skuCode"`
	InStock bool   `json:"inStock"`
}

// Check queries the in-stock flag for every SKU in one call. SKUs the
// remote does not answer for are simply absent from the result, which the
// caller treats as out of stock.
func (c *Client) Check(ctx context.Context, skus []string) (domain.StockResult, error) {
	q := url.Values{}
	for _, sku := range skus {
		q.Add("skuCode", sku)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/inventory?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInventoryUnavailable, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInventoryUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: inventory responded %d", domain.ErrInventoryUnavailable, resp.StatusCode)
	}

	var statuses []stockStatus
	if err := json.NewDecoder(resp.Body).Decode(&statuses); err != nil {
		return nil, fmt.Errorf("%w: bad response body: %v", domain.ErrInventoryUnavailable, err)
	}

	result := make(domain.StockResult, len(statuses))
	for _, s := range statuses {
		result[s.SkuCode] = s.InStock
	}
	return result, nil
}
