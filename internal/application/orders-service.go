package application

import (
	"context"
	"fmt"
	"time"

	"github.com/HuzaifaIlyas02/order-service/internal/domain"
	"github.com/HuzaifaIlyas02/order-service/internal/logger"
)

// OrdersService composes the placement flow: stock gate first, then
// persistence, then best-effort notifications. It holds no per-request
// state; the stock checker's breaker is the only shared component.
type OrdersService struct {
	store    OrderStore
	stock    StockChecker
	events   EventPublisher
	products QuantityUpdater
}

func NewOrdersService(store OrderStore, stock StockChecker, events EventPublisher, products QuantityUpdater) *OrdersService {
	return &OrdersService{
		store:    store,
		stock:    stock,
		events:   events,
		products: products,
	}
}

type PlaceOrderRequest struct {
	LineItems       []domain.LineItem
	DeliveryAddress string
	PhoneNumber     string
	Email           string
	PaymentMethod   domain.PaymentMethod
}

func (r *PlaceOrderRequest) validate() error {
	if len(r.LineItems) == 0 {
		return fmt.Errorf("%w: order has no line items", domain.ErrInvalidOrderRequest)
	}
	for _, it := range r.LineItems {
		if it.SkuCode == "" {
			return fmt.Errorf("%w: line item without sku code", domain.ErrInvalidOrderRequest)
		}
		if it.Quantity <= 0 {
			return fmt.Errorf("%w: non-positive quantity for sku %s", domain.ErrInvalidOrderRequest, it.SkuCode)
		}
		if it.PriceCents < 0 {
			return fmt.Errorf("%w: negative price for sku %s", domain.ErrInvalidOrderRequest, it.SkuCode)
		}
	}
	if !r.PaymentMethod.Valid() {
		return fmt.Errorf("%w: unknown payment method %q", domain.ErrInvalidOrderRequest, r.PaymentMethod)
	}
	return nil
}

// PlaceOrder runs the placement state machine and returns the order number.
//
// Errors before the save leave no side effects at all. Once the order row
// is committed nothing rolls it back: publish and quantity updates are
// attempted once each, logged and swallowed on failure.
func (s *OrdersService) PlaceOrder(ctx context.Context, req PlaceOrderRequest, username string) (string, error) {
	if err := req.validate(); err != nil {
		return "", err
	}

	order := &domain.Order{
		OrderNumber:     domain.NewOrderNumber(),
		Username:        username,
		OrderDate:       time.Now().UTC(),
		LineItems:       req.LineItems,
		DeliveryAddress: req.DeliveryAddress,
		PhoneNumber:     req.PhoneNumber,
		Email:           req.Email,
		PaymentMethod:   req.PaymentMethod,
	}
	logger.Info("placing order", "order_number", order.OrderNumber, "username", username)

	skus := order.SkuCodes()
	result, err := s.stock.Check(ctx, skus)
	if err != nil {
		// Unavailable or circuit open: the handler turns this into the
		// degraded fallback, never into a server error.
		return "", err
	}
	if !result.AllInStock(skus) {
		return "", domain.ErrOutOfStock
	}

	// The stock gate passed; the rest must survive client disconnection.
	ctx = context.WithoutCancel(ctx)

	if err := s.store.Save(ctx, order); err != nil {
		logger.Error("order save failed", "order_number", order.OrderNumber, "err", err)
		return "", fmt.Errorf("save order: %w", err)
	}

	if err := s.events.PublishOrderPlaced(ctx, order.OrderNumber); err != nil {
		logger.Warn("order-placed publish failed", "order_number", order.OrderNumber, "err", err)
	}

	for _, it := range order.LineItems {
		if err := s.products.DecreaseQuantity(ctx, it.SkuCode, it.Quantity); err != nil {
			logger.Warn("quantity update failed", "sku", it.SkuCode, "err", err)
		}
	}

	return order.OrderNumber, nil
}

func (s *OrdersService) GetMyOrders(ctx context.Context, username string) ([]domain.Order, error) {
	return s.store.ListByUsername(ctx, username)
}

func (s *OrdersService) GetAllOrders(ctx context.Context) ([]domain.Order, error) {
	return s.store.ListAll(ctx)
}
