package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/shopveda/storefront/internal/notify"
)

type sendOTPRequest struct {
	Phone string `json:"phone"`
}

// SendOTP issues a one-time password for the phone number and queues it for
// SMS delivery. The code never appears in the response.
func (h *Handler) SendOTP(w http.ResponseWriter, r *http.Request) {
	var req sendOTPRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	phone := strings.TrimSpace(req.Phone)
	if phone == "" {
		writeError(w, http.StatusBadRequest, "phone required")
		return
	}

	code, err := h.otpStore.Issue(r.Context(), phone)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	h.notifier.Enqueue(notify.Message{
		Kind: notify.KindOTPSMS,
		To:   phone,
		Body: fmt.Sprintf("Your login code is %s", code),
	})

	writeJSON(w, http.StatusOK, map[string]bool{"sent": true})
}

type verifyOTPRequest struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

// VerifyOTP checks a submitted code. A correct code is consumed and cannot be
// replayed.
func (h *Handler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyOTPRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	phone := strings.TrimSpace(req.Phone)
	if phone == "" || req.Code == "" {
		writeError(w, http.StatusBadRequest, "phone and code required")
		return
	}

	if err := h.otpStore.Verify(r.Context(), phone, req.Code); err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"verified": true})
}
