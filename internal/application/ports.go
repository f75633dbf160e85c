package application

import (
	"context"

	"github.com/HuzaifaIlyas02/order-service/internal/domain"
)

type OrderStore interface {
	Save(ctx context.Context, o *domain.Order) error
	ListByUsername(ctx context.Context, username string) ([]domain.Order, error)
	ListAll(ctx context.Context) ([]domain.Order, error)
}

type StockChecker interface {
	Check(ctx context.Context, skus []string) (domain.StockResult, error)
}

type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, orderNumber string) error
}

type QuantityUpdater interface {
	DecreaseQuantity(ctx context.Context, skuCode string, quantity int) error
}
