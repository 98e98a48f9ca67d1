package handler

import (
	"net/http"

	"github.com/shopspring/decimal"
)

type validateCouponRequest struct {
	Code     string          `json:"code"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

type validateCouponResponse struct {
	Valid    bool            `json:"valid"`
	Code     string          `json:"code"`
	Discount decimal.Decimal `json:"discount"`
}

// ValidateCoupon checks a coupon against a cart subtotal before checkout so
// the storefront can show the discounted total up front.
func (h *Handler) ValidateCoupon(w http.ResponseWriter, r *http.Request) {
	var req validateCouponRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Code == "" {
		writeError(w, http.StatusBadRequest, "code required")
		return
	}

	d, err := h.coupons.Validate(r.Context(), req.Code, req.Subtotal)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, validateCouponResponse{
		Valid:    true,
		Code:     d.Code,
		Discount: d.Amount,
	})
}
