package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/shopveda/storefront/internal/domain/order"
)

// AdminListOrders returns every order, newest first.
func (h *Handler) AdminListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orderService.List(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	out := make([]orderResponse, len(orders))
	for i := range orders {
		out[i] = toOrderResponse(&orders[i])
	}
	writeJSON(w, http.StatusOK, out)
}

type verifyPaymentRequest struct {
	VerifiedAmount decimal.Decimal `json:"verifiedAmount"`
	PaymentStatus  string          `json:"paymentStatus"`
}

// AdminVerifyPayment records the administrator's decision on a manually
// submitted payment. The verifier identity is taken from the API key, not
// the request body.
func (h *Handler) AdminVerifyPayment(w http.ResponseWriter, r *http.Request) {
	var req verifyPaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	verifiedBy := "admin"
	if info := APIKeyFromContext(r.Context()); info != nil {
		verifiedBy = info.Name
	}

	orderID := chi.URLParam(r, "id")
	err := h.orderService.VerifyManually(
		r.Context(), orderID, req.VerifiedAmount, order.PaymentStatus(req.PaymentStatus), verifiedBy,
	)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	o, err := h.orderService.Get(r.Context(), orderID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(o))
}

type updateStatusRequest struct {
	OrderStatus string `json:"orderStatus"`
}

// AdminUpdateOrderStatus moves an order to a new fulfillment status.
func (h *Handler) AdminUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	orderID := chi.URLParam(r, "id")
	if err := h.orderService.UpdateStatus(r.Context(), orderID, order.OrderStatus(req.OrderStatus)); err != nil {
		writeDomainError(w, r, err)
		return
	}

	o, err := h.orderService.Get(r.Context(), orderID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(o))
}
