package presentation

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/HuzaifaIlyas02/order-service/internal/application"
	"github.com/HuzaifaIlyas02/order-service/internal/domain"
	"github.com/HuzaifaIlyas02/order-service/internal/identity"
	"github.com/HuzaifaIlyas02/order-service/internal/logger"
	"github.com/HuzaifaIlyas02/order-service/internal/presentation/helpers"
)

// Fallback text when the inventory dependency is degraded. Deliberately a
// non-error response: "we could not run the check" is not "the check said
// no" and not a server fault the client should retry against.
const fallbackMessage = "Oops! Something went wrong, please order after some time!"

type OrderPlacer interface {
	PlaceOrder(ctx context.Context, req application.PlaceOrderRequest, username string) (string, error)
	GetMyOrders(ctx context.Context, username string) ([]domain.Order, error)
	GetAllOrders(ctx context.Context) ([]domain.Order, error)
}

type OrdersHandler struct {
	svc OrderPlacer
}

func NewOrdersHandler(svc OrderPlacer) *OrdersHandler {
	return &OrdersHandler{svc: svc}
}

func (h *OrdersHandler) Register(r chi.Router) {
	r.Post("/api/order", h.PlaceOrder)
	r.Get("/api/order/history", h.GetMyOrders)
	r.Get("/api/order/all", h.GetAllOrders)
}

type placeOrderPayload struct {
	LineItems       []domain.LineItem    `json:"line_items"`
	DeliveryAddress string               `json:"delivery_address"`
	PhoneNumber     string               `json:"phone_number"`
	Email           string               `json:"email"`
	PaymentMethod   domain.PaymentMethod `json:"payment_method"`
}

func (h *OrdersHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	username, err := identity.FromRequest(r)
	if err != nil {
		helpers.HttpError(w, http.StatusUnauthorized, err.Error())
		return
	}

	var payload placeOrderPayload
	if err := helpers.DecodeJSON(r.Body, &payload); err != nil {
		helpers.HttpError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	number, err := h.svc.PlaceOrder(r.Context(), application.PlaceOrderRequest{
		LineItems:       payload.LineItems,
		DeliveryAddress: payload.DeliveryAddress,
		PhoneNumber:     payload.PhoneNumber,
		Email:           payload.Email,
		PaymentMethod:   payload.PaymentMethod,
	}, username)

	switch {
	case err == nil:
		helpers.WriteJSON(w, http.StatusCreated, map[string]any{
			"status":       "ok",
			"order_number": number,
		})
	case errors.Is(err, domain.ErrInvalidOrderRequest):
		helpers.HttpError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrOutOfStock):
		helpers.HttpError(w, http.StatusConflict, "one or more products are out of stock, please try again later")
	case errors.Is(err, domain.ErrInventoryUnavailable), errors.Is(err, domain.ErrInventoryCircuitOpen):
		logger.Warn("inventory degraded, returning fallback", "err", err)
		helpers.WriteJSON(w, http.StatusOK, map[string]string{
			"status":  "degraded",
			"message": fallbackMessage,
		})
	default:
		logger.Error("place order failed", "err", err)
		helpers.HttpError(w, http.StatusInternalServerError, "failed to place order")
	}
}

func (h *OrdersHandler) GetMyOrders(w http.ResponseWriter, r *http.Request) {
	username, err := identity.FromRequest(r)
	if err != nil {
		helpers.HttpError(w, http.StatusUnauthorized, err.Error())
		return
	}

	orders, err := h.svc.GetMyOrders(r.Context(), username)
	if err != nil {
		logger.Error("list my orders failed", "username", username, "err", err)
		helpers.HttpError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	helpers.WriteJSON(w, http.StatusOK, orders)
}

// GetAllOrders is unscoped; the gateway in front of this service decides
// who may call it.
func (h *OrdersHandler) GetAllOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.svc.GetAllOrders(r.Context())
	if err != nil {
		logger.Error("list all orders failed", "err", err)
		helpers.HttpError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	helpers.WriteJSON(w, http.StatusOK, orders)
}
