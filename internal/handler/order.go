package handler

import (
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/shopveda/storefront/internal/domain/order"
)

// orderResponse is the full order as exposed over the API. Monetary fields
// come back exactly as fixed at creation time.
type orderResponse struct {
	ID          string          `json:"id"`
	OrderNumber string          `json:"orderNumber"`
	Customer    order.Customer  `json:"customer"`
	Items       []order.Item    `json:"items"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Discount    decimal.Decimal `json:"discount"`
	CouponCode  string          `json:"couponCode,omitempty"`
	TotalAmount decimal.Decimal `json:"totalAmount"`

	PaymentStatus order.PaymentStatus `json:"paymentStatus"`
	OrderStatus   order.OrderStatus   `json:"orderStatus"`

	PaymentID          string           `json:"paymentId,omitempty"`
	UTRNumber          string           `json:"utrNumber,omitempty"`
	PaymentProofURL    string           `json:"paymentProofUrl,omitempty"`
	PaymentSubmittedAt *time.Time       `json:"paymentSubmittedAt,omitempty"`
	VerifiedAmount     *decimal.Decimal `json:"verifiedAmount,omitempty"`
	VerifiedAt         *time.Time       `json:"verifiedAt,omitempty"`
	VerifiedBy         string           `json:"verifiedBy,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toOrderResponse(o *order.Order) orderResponse {
	return orderResponse{
		ID:                 o.ID,
		OrderNumber:        o.OrderNumber,
		Customer:           o.Customer,
		Items:              o.Items,
		Subtotal:           o.Subtotal,
		Discount:           o.Discount,
		CouponCode:         o.CouponCode,
		TotalAmount:        o.TotalAmount,
		PaymentStatus:      o.PaymentStatus,
		OrderStatus:        o.OrderStatus,
		PaymentID:          o.PaymentID,
		UTRNumber:          o.UTRNumber,
		PaymentProofURL:    o.PaymentProofURL,
		PaymentSubmittedAt: o.PaymentSubmittedAt,
		VerifiedAmount:     o.VerifiedAmount,
		VerifiedAt:         o.VerifiedAt,
		VerifiedBy:         o.VerifiedBy,
		CreatedAt:          o.CreatedAt,
		UpdatedAt:          o.UpdatedAt,
	}
}

type createOrderItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type createOrderRequest struct {
	Customer   order.Customer    `json:"customer"`
	Items      []createOrderItem `json:"items"`
	CouponCode string            `json:"couponCode"`
}

// CreateOrder places a new order from the checkout page.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	items := make([]order.CreateItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = order.CreateItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}
	}

	o, err := h.orderService.Create(r.Context(), order.CreateRequest{
		Customer:   req.Customer,
		Items:      items,
		CouponCode: req.CouponCode,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toOrderResponse(o))
}

// GetOrder returns a single order by ID.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.orderService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(o))
}

// SubmitPayment records the customer's manual payment proof: a UTR reference
// plus an optional screenshot, sent as multipart form data.
func (h *Handler) SubmitPayment(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}

	utr := r.FormValue("utr")

	var (
		proof     []byte
		proofName string
	)
	if file, header, err := r.FormFile("screenshot"); err == nil {
		defer func() { _ = file.Close() }()
		data, readErr := io.ReadAll(file)
		if readErr != nil {
			writeError(w, http.StatusBadRequest, "could not read screenshot")
			return
		}
		proof = data
		proofName = header.Filename
	}

	orderID := chi.URLParam(r, "id")
	if err := h.orderService.SubmitManualPayment(r.Context(), orderID, utr, proof, proofName); err != nil {
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

type verifyGatewayRequest struct {
	OrderID        string `json:"orderId"`
	GatewayOrderID string `json:"gatewayOrderId"`
	PaymentID      string `json:"paymentId"`
	Signature      string `json:"signature"`
}

type verifyGatewayResponse struct {
	Verified bool `json:"verified"`
}

// VerifyGatewayPayment handles the post-checkout gateway callback: it checks
// the gateway signature and records paid or failed on the order. The boolean
// result tells the storefront which page to show.
func (h *Handler) VerifyGatewayPayment(w http.ResponseWriter, r *http.Request) {
	var req verifyGatewayRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.OrderID == "" || req.GatewayOrderID == "" || req.PaymentID == "" || req.Signature == "" {
		writeError(w, http.StatusBadRequest, "orderId, gatewayOrderId, paymentId and signature required")
		return
	}

	verified, err := h.orderService.VerifyGatewayPayment(
		r.Context(), req.OrderID, req.GatewayOrderID, req.PaymentID, req.Signature,
	)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, verifyGatewayResponse{Verified: verified})
}
