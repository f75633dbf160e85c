package product

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestClient_DecreaseQuantity(t *testing.T) {
	t.Parallel()

	t.Run("posts sku and quantity", func(t *testing.T) {
		var got map[string]any
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/api/product/decrease-quantity", r.URL.Path)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		}))
		defer srv.Close()

		err := NewClient(srv.URL).DecreaseQuantity(context.Background(), "iphone_13", 2)
		require.NoError(t, err)
		// The product service binds camelCase field names.
		require.Equal(t, map[string]any{"skuCode": "iphone_13", "quantity": float64(2)}, got)
	})

	t.Run("non-2xx is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		err := NewClient(srv.URL).DecreaseQuantity(context.Background(), "ghost", 1)
		require.Error(t, err)
	})

	t.Run("unreachable host is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()

		err := NewClient(srv.URL).DecreaseQuantity(context.Background(), "iphone_13", 1)
		require.Error(t, err)
	})

	t.Run("hung product service is cut off by the client timeout", func(t *testing.T) {
		block := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-block:
			case <-r.Context().Done():
			}
		}))
		defer srv.Close()
		defer close(block)

		c := NewClient(srv.URL)
		c.http.Timeout = 50 * time.Millisecond

		start := time.Now()
		err := c.DecreaseQuantity(context.Background(), "iphone_13", 1)
		require.Error(t, err)
		require.Less(t, time.Since(start), time.Second, "decrement must not hang past the client timeout")
	})
}
