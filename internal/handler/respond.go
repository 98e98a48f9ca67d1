package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/shopveda/storefront/internal/domain/coupon"
	"github.com/shopveda/storefront/internal/domain/order"
	"github.com/shopveda/storefront/internal/domain/product"
	"github.com/shopveda/storefront/internal/otp"
)

// errorResponse is the JSON body for every non-2xx response.
type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Code: status, Message: message})
}

// writeDomainError maps domain errors onto HTTP statuses. Business-rule
// rejections carry their human-readable reason verbatim; anything unexpected
// is logged and hidden behind a generic 500.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, order.ErrNotFound), errors.Is(err, product.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
		return
	case errors.Is(err, order.ErrAlreadySubmitted):
		writeError(w, http.StatusConflict, err.Error())
		return
	case errors.Is(err, coupon.ErrInvalidCoupon):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	case errors.Is(err, otp.ErrExpired), errors.Is(err, otp.ErrMismatch), errors.Is(err, otp.ErrTooManyAttempts):
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}

	var vErr *order.ValidationError
	if errors.As(err, &vErr) {
		writeError(w, http.StatusBadRequest, vErr.Error())
		return
	}

	var mpErr *coupon.MinPurchaseError
	if errors.As(err, &mpErr) {
		writeError(w, http.StatusUnprocessableEntity, mpErr.Error())
		return
	}

	var pnfErr *order.ProductNotFoundError
	if errors.As(err, &pnfErr) {
		writeError(w, http.StatusUnprocessableEntity, pnfErr.Error())
		return
	}

	zctx.From(r.Context()).Error("request failed", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal server error")
}

// decodeJSON decodes the request body into v, rejecting unknown fields.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(err, "decode body")
	}
	return nil
}
