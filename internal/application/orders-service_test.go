package application

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/HuzaifaIlyas02/order-service/internal/domain"
	"github.com/HuzaifaIlyas02/order-service/internal/logger"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

type fakeStore struct {
	saved   []*domain.Order
	saveErr error
	nextID  int64
}

func (f *fakeStore) Save(ctx context.Context, o *domain.Order) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.nextID++
	o.ID = f.nextID
	cp := *o
	f.saved = append(f.saved, &cp)
	return nil
}

func (f *fakeStore) ListByUsername(ctx context.Context, username string) ([]domain.Order, error) {
	var out []domain.Order
	for i := len(f.saved) - 1; i >= 0; i-- {
		if f.saved[i].Username == username {
			out = append(out, *f.saved[i])
		}
	}
	return out, nil
}

func (f *fakeStore) ListAll(ctx context.Context) ([]domain.Order, error) {
	var out []domain.Order
	for i := len(f.saved) - 1; i >= 0; i-- {
		out = append(out, *f.saved[i])
	}
	return out, nil
}

type fakeStock struct {
	result domain.StockResult
	err    error
	calls  [][]string
}

func (f *fakeStock) Check(ctx context.Context, skus []string) (domain.StockResult, error) {
	f.calls = append(f.calls, skus)
	return f.result, f.err
}

type fakePublisher struct {
	published []string
	err       error
}

func (f *fakePublisher) PublishOrderPlaced(ctx context.Context, orderNumber string) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, orderNumber)
	return nil
}

type decrement struct {
	sku string
	qty int
}

type fakeUpdater struct {
	calls   []decrement
	failSku string
}

func (f *fakeUpdater) DecreaseQuantity(ctx context.Context, skuCode string, quantity int) error {
	f.calls = append(f.calls, decrement{sku: skuCode, qty: quantity})
	if skuCode == f.failSku {
		return errors.New("product service down")
	}
	return nil
}

func twoItemRequest() PlaceOrderRequest {
	return PlaceOrderRequest{
		LineItems: []domain.LineItem{
			{SkuCode: "a", PriceCents: 1000, Quantity: 2},
			{SkuCode: "b", PriceCents: 500, Quantity: 1},
		},
		DeliveryAddress: "1 Main St",
		PhoneNumber:     "+1-555-0100",
		Email:           "alice@example.com",
		PaymentMethod:   domain.PaymentCard,
	}
}

func TestOrdersService_PlaceOrder(t *testing.T) {
	t.Run("success persists once, publishes once, decrements per item", func(t *testing.T) {
		store := &fakeStore{}
		stock := &fakeStock{result: domain.StockResult{"a": true, "b": true}}
		pub := &fakePublisher{}
		upd := &fakeUpdater{}
		svc := NewOrdersService(store, stock, pub, upd)

		number, err := svc.PlaceOrder(context.Background(), twoItemRequest(), "alice")
		require.NoError(t, err)
		require.NotEmpty(t, number)

		require.Len(t, store.saved, 1)
		require.Equal(t, number, store.saved[0].OrderNumber)
		require.Equal(t, "alice", store.saved[0].Username)
		require.Len(t, store.saved[0].LineItems, 2)

		require.Equal(t, []string{number}, pub.published)
		require.Equal(t, []decrement{{"a", 2}, {"b", 1}}, upd.calls)

		require.Len(t, stock.calls, 1)
		require.Equal(t, []string{"a", "b"}, stock.calls[0])
	})

	t.Run("placed order shows up in both listings exactly once", func(t *testing.T) {
		store := &fakeStore{}
		svc := NewOrdersService(store,
			&fakeStock{result: domain.StockResult{"a": true, "b": true}},
			&fakePublisher{}, &fakeUpdater{})

		number, err := svc.PlaceOrder(context.Background(), twoItemRequest(), "alice")
		require.NoError(t, err)

		mine, err := svc.GetMyOrders(context.Background(), "alice")
		require.NoError(t, err)
		require.Len(t, mine, 1)
		require.Equal(t, number, mine[0].OrderNumber)

		all, err := svc.GetAllOrders(context.Background())
		require.NoError(t, err)
		require.Len(t, all, 1)
		require.Equal(t, number, all[0].OrderNumber)

		other, err := svc.GetMyOrders(context.Background(), "bob")
		require.NoError(t, err)
		require.Empty(t, other)
	})

	t.Run("any out-of-stock sku blocks every side effect", func(t *testing.T) {
		store := &fakeStore{}
		pub := &fakePublisher{}
		upd := &fakeUpdater{}
		svc := NewOrdersService(store,
			&fakeStock{result: domain.StockResult{"a": true, "b": false}}, pub, upd)

		_, err := svc.PlaceOrder(context.Background(), twoItemRequest(), "alice")
		require.ErrorIs(t, err, domain.ErrOutOfStock)
		require.Empty(t, store.saved)
		require.Empty(t, pub.published)
		require.Empty(t, upd.calls)
	})

	t.Run("missing sku in the stock result is treated as out of stock", func(t *testing.T) {
		store := &fakeStore{}
		svc := NewOrdersService(store,
			&fakeStock{result: domain.StockResult{"a": true}},
			&fakePublisher{}, &fakeUpdater{})

		_, err := svc.PlaceOrder(context.Background(), twoItemRequest(), "alice")
		require.ErrorIs(t, err, domain.ErrOutOfStock)
		require.Empty(t, store.saved)
	})

	t.Run("inventory failure propagates with zero side effects", func(t *testing.T) {
		for _, cause := range []error{domain.ErrInventoryUnavailable, domain.ErrInventoryCircuitOpen} {
			store := &fakeStore{}
			pub := &fakePublisher{}
			upd := &fakeUpdater{}
			svc := NewOrdersService(store, &fakeStock{err: cause}, pub, upd)

			_, err := svc.PlaceOrder(context.Background(), twoItemRequest(), "alice")
			require.ErrorIs(t, err, cause)
			require.Empty(t, store.saved)
			require.Empty(t, pub.published)
			require.Empty(t, upd.calls)
		}
	})

	t.Run("save failure is fatal and nothing downstream runs", func(t *testing.T) {
		pub := &fakePublisher{}
		upd := &fakeUpdater{}
		svc := NewOrdersService(&fakeStore{saveErr: errors.New("db down")},
			&fakeStock{result: domain.StockResult{"a": true, "b": true}}, pub, upd)

		_, err := svc.PlaceOrder(context.Background(), twoItemRequest(), "alice")
		require.Error(t, err)
		require.Empty(t, pub.published)
		require.Empty(t, upd.calls)
	})

	t.Run("publish failure does not fail the order", func(t *testing.T) {
		store := &fakeStore{}
		upd := &fakeUpdater{}
		svc := NewOrdersService(store,
			&fakeStock{result: domain.StockResult{"a": true, "b": true}},
			&fakePublisher{err: errors.New("broker unreachable")}, upd)

		number, err := svc.PlaceOrder(context.Background(), twoItemRequest(), "alice")
		require.NoError(t, err)
		require.NotEmpty(t, number)
		require.Len(t, store.saved, 1)
		require.Equal(t, []decrement{{"a", 2}, {"b", 1}}, upd.calls)
	})

	t.Run("one failed decrement does not stop the rest", func(t *testing.T) {
		store := &fakeStore{}
		upd := &fakeUpdater{failSku: "a"}
		svc := NewOrdersService(store,
			&fakeStock{result: domain.StockResult{"a": true, "b": true}},
			&fakePublisher{}, upd)

		number, err := svc.PlaceOrder(context.Background(), twoItemRequest(), "alice")
		require.NoError(t, err)
		require.NotEmpty(t, number)
		require.Len(t, store.saved, 1, "persisted order must survive decrement failure")
		require.Equal(t, []decrement{{"a", 2}, {"b", 1}}, upd.calls, "both items attempted")
	})

	t.Run("duplicate skus are checked once", func(t *testing.T) {
		stock := &fakeStock{result: domain.StockResult{"a": true}}
		svc := NewOrdersService(&fakeStore{}, stock, &fakePublisher{}, &fakeUpdater{})

		req := PlaceOrderRequest{
			LineItems: []domain.LineItem{
				{SkuCode: "a", PriceCents: 100, Quantity: 1},
				{SkuCode: "a", PriceCents: 100, Quantity: 3},
			},
			PaymentMethod: domain.PaymentCOD,
		}
		_, err := svc.PlaceOrder(context.Background(), req, "alice")
		require.NoError(t, err)
		require.Equal(t, [][]string{{"a"}}, stock.calls)
	})

	t.Run("validation rejects bad requests before any remote call", func(t *testing.T) {
		cases := map[string]PlaceOrderRequest{
			"no line items": {PaymentMethod: domain.PaymentCard},
			"empty sku": {
				LineItems:     []domain.LineItem{{SkuCode: "", PriceCents: 100, Quantity: 1}},
				PaymentMethod: domain.PaymentCard,
			},
			"zero quantity": {
				LineItems:     []domain.LineItem{{SkuCode: "a", PriceCents: 100, Quantity: 0}},
				PaymentMethod: domain.PaymentCard,
			},
			"negative price": {
				LineItems:     []domain.LineItem{{SkuCode: "a", PriceCents: -1, Quantity: 1}},
				PaymentMethod: domain.PaymentCard,
			},
			"bad payment method": {
				LineItems:     []domain.LineItem{{SkuCode: "a", PriceCents: 100, Quantity: 1}},
				PaymentMethod: "IOU",
			},
		}
		for name, req := range cases {
			t.Run(name, func(t *testing.T) {
				stock := &fakeStock{result: domain.StockResult{"a": true}}
				store := &fakeStore{}
				svc := NewOrdersService(store, stock, &fakePublisher{}, &fakeUpdater{})

				_, err := svc.PlaceOrder(context.Background(), req, "alice")
				require.ErrorIs(t, err, domain.ErrInvalidOrderRequest)
				require.Empty(t, stock.calls)
				require.Empty(t, store.saved)
			})
		}
	})
}
