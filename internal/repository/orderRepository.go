package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/HuzaifaIlyas02/order-service/internal/domain"
	"github.com/HuzaifaIlyas02/order-service/internal/logger"
)

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(p *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: p}
}

// Save persists the order and its line items in one transaction and assigns
// the generated id. Either the whole aggregate lands or nothing does.
func (r *OrderRepository) Save(ctx context.Context, o *domain.Order) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if tx != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	var orderID int64
	err = tx.QueryRow(ctx,
		`INSERT INTO t_orders
			(order_number, username, order_date, delivery_address, phone_number, email, payment_method)
		 VALUES
			($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		o.OrderNumber,
		o.Username,
		o.OrderDate,
		o.DeliveryAddress,
		o.PhoneNumber,
		o.Email,
		o.PaymentMethod,
	).Scan(&orderID)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	if len(o.LineItems) > 0 {
		batch := &pgx.Batch{}
		for _, it := range o.LineItems {
			batch.Queue(
				`INSERT INTO t_order_line_items (order_id, sku_code, price_cents, quantity)
				 VALUES ($1, $2, $3, $4)`,
				orderID, it.SkuCode, it.PriceCents, it.Quantity,
			)
		}
		br := tx.SendBatch(ctx, batch)
		if err = br.Close(); err != nil {
			return fmt.Errorf("insert line items: %w", err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	tx = nil
	o.ID = orderID
	return nil
}

// ListByUsername returns the user's orders, newest first, line items in
// insertion order.
func (r *OrderRepository) ListByUsername(ctx context.Context, username string) ([]domain.Order, error) {
	return r.list(ctx,
		`SELECT id, order_number, username, order_date, delivery_address, phone_number, email, payment_method
		 FROM t_orders
		 WHERE username = $1
		 ORDER BY order_date DESC, id DESC`, username)
}

// ListAll returns every order, newest first.
func (r *OrderRepository) ListAll(ctx context.Context) ([]domain.Order, error) {
	return r.list(ctx,
		`SELECT id, order_number, username, order_date, delivery_address, phone_number, email, payment_method
		 FROM t_orders
		 ORDER BY order_date DESC, id DESC`)
}

func (r *OrderRepository) list(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	index := make(map[int64]int)
	var ids []int64
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.OrderNumber, &o.Username, &o.OrderDate,
			&o.DeliveryAddress, &o.PhoneNumber, &o.Email, &o.PaymentMethod); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		index[o.ID] = len(orders)
		ids = append(ids, o.ID)
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil
	}

	itemRows, err := r.pool.Query(ctx,
		`SELECT order_id, sku_code, price_cents, quantity
		 FROM t_order_line_items
		 WHERE order_id = ANY($1)
		 ORDER BY id`, ids)
	if err != nil {
		return nil, fmt.Errorf("query line items: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var orderID int64
		var it domain.LineItem
		if err := itemRows.Scan(&orderID, &it.SkuCode, &it.PriceCents, &it.Quantity); err != nil {
			return nil, fmt.Errorf("scan line item: %w", err)
		}
		i, ok := index[orderID]
		if !ok {
			logger.Warn("line item without a parent order", "order_id", orderID)
			continue
		}
		orders[i].LineItems = append(orders[i].LineItems, it)
	}
	if err := itemRows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}
