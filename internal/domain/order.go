package domain

import (
	"time"

	"github.com/google/uuid"
)

type PaymentMethod string

const (
	PaymentCard   PaymentMethod = "CARD"
	PaymentCOD    PaymentMethod = "COD"
	PaymentWallet PaymentMethod = "WALLET"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCard, PaymentCOD, PaymentWallet:
		return true
	}
	return false
}

type Order struct {
	ID              int64         `json:"id"`
	OrderNumber     string        `json:"order_number"`
	Username        string        `json:"username"`
	OrderDate       time.Time     `json:"order_date"`
	LineItems       []LineItem    `json:"line_items"`
	DeliveryAddress string        `json:"delivery_address"`
	PhoneNumber     string        `json:"phone_number"`
	Email           string        `json:"email"`
	PaymentMethod   PaymentMethod `json:"payment_method"`
}

type LineItem struct {
	SkuCode    string `json:"sku_code"`
	PriceCents int64  `json:"price"`
	Quantity   int    `json:"quantity"`
}

// NewOrderNumber returns a collision-resistant random token. Generated once
// per logical order, before any remote call, never regenerated on retry.
func NewOrderNumber() string {
	return uuid.NewString()
}

// SkuCodes returns the distinct SKU set of the order's line items,
// preserving first-seen order.
func (o *Order) SkuCodes() []string {
	seen := make(map[string]struct{}, len(o.LineItems))
	skus := make([]string, 0, len(o.LineItems))
	for _, it := range o.LineItems {
		if _, ok := seen[it.SkuCode]; ok {
			continue
		}
		seen[it.SkuCode] = struct{}{}
		skus = append(skus, it.SkuCode)
	}
	return skus
}
