//go:build integration

package integration

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"testing"
)

func createOrder(t *testing.T, couponCode string, items ...orderItemRequest) orderResponse {
	t.Helper()

	resp := doPost(t, "/api/orders", orderRequest{
		Customer:   testCustomer(),
		Items:      items,
		CouponCode: couponCode,
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		body := decodeJSONBody[errorResponse](t, resp)
		t.Fatalf("create order: status %d: %s", resp.StatusCode, body.Message)
	}
	return decodeJSONBody[orderResponse](t, resp)
}

func TestCouponValidation(t *testing.T) {
	t.Run("WELCOME10 on 1000 gives 100", func(t *testing.T) {
		resp := doPost(t, "/api/coupons/validate", map[string]any{
			"code": "WELCOME10", "subtotal": "1000",
		})
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status %d", resp.StatusCode)
		}
		body := decodeJSONBody[validateCouponResponse](t, resp)
		if !body.Valid || body.Discount != "100" {
			t.Fatalf("got valid=%v discount=%s, want valid=true discount=100", body.Valid, body.Discount)
		}
	})

	t.Run("case-insensitive lookup", func(t *testing.T) {
		resp := doPost(t, "/api/coupons/validate", map[string]any{
			"code": "  welcome10 ", "subtotal": "1000",
		})
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status %d", resp.StatusCode)
		}
	})

	t.Run("SAVE20 capped at 500", func(t *testing.T) {
		resp := doPost(t, "/api/coupons/validate", map[string]any{
			"code": "SAVE20", "subtotal": "5000",
		})
		defer resp.Body.Close()

		body := decodeJSONBody[validateCouponResponse](t, resp)
		if body.Discount != "500" {
			t.Fatalf("discount = %s, want 500 (capped)", body.Discount)
		}
	})

	t.Run("FLAT500 below minimum purchase", func(t *testing.T) {
		resp := doPost(t, "/api/coupons/validate", map[string]any{
			"code": "FLAT500", "subtotal": "1500",
		})
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusUnprocessableEntity {
			t.Fatalf("status %d, want 422", resp.StatusCode)
		}
		body := decodeJSONBody[errorResponse](t, resp)
		if body.Message != "Minimum purchase of 2000 required" {
			t.Fatalf("message = %q", body.Message)
		}
	})

	t.Run("unknown code", func(t *testing.T) {
		resp := doPost(t, "/api/coupons/validate", map[string]any{
			"code": "NOPE123", "subtotal": "1000",
		})
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusUnprocessableEntity {
			t.Fatalf("status %d, want 422", resp.StatusCode)
		}
		body := decodeJSONBody[errorResponse](t, resp)
		if body.Message != "Invalid coupon code" {
			t.Fatalf("message = %q", body.Message)
		}
	})
}

func TestManualPaymentLifecycle(t *testing.T) {
	// Brass Diya Set 550 x 2 = 1100, WELCOME10 -> 10% = 110.
	o := createOrder(t, "WELCOME10", orderItemRequest{ProductID: "prod-brass-diya-set", Quantity: 2})

	if o.Subtotal != "1100" || o.Discount != "110" || o.TotalAmount != "990" {
		t.Fatalf("amounts = %s/%s/%s, want 1100/110/990", o.Subtotal, o.Discount, o.TotalAmount)
	}
	if o.PaymentStatus != "pending" || o.OrderStatus != "pending" {
		t.Fatalf("fresh order in %s/%s, want pending/pending", o.PaymentStatus, o.OrderStatus)
	}

	// Customer submits the UPI transaction reference.
	resp := doSubmitPayment(t, o.ID, "UTR123456789012", []byte("fake-png"))
	submitted := decodeJSONBody[orderResponse](t, resp)
	resp.Body.Close()
	if submitted.PaymentStatus != "pending_verification" {
		t.Fatalf("payment status = %s, want pending_verification", submitted.PaymentStatus)
	}
	if submitted.UTRNumber != "UTR123456789012" {
		t.Fatalf("utr = %s", submitted.UTRNumber)
	}

	// Re-submission is rejected.
	resp = doSubmitPayment(t, o.ID, "UTR999", nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate submission: status %d, want 409", resp.StatusCode)
	}
	body := decodeJSONBody[errorResponse](t, resp)
	resp.Body.Close()
	if body.Message != "Payment details already submitted for this order." {
		t.Fatalf("message = %q", body.Message)
	}

	// Administrator confirms the full amount.
	resp = doJSON(t, http.MethodPost, "/api/admin/orders/"+o.ID+"/verify-payment", map[string]any{
		"verifiedAmount": "990", "paymentStatus": "paid",
	}, adminHeaders())
	verified := decodeJSONBody[orderResponse](t, resp)
	resp.Body.Close()
	if verified.PaymentStatus != "paid" || verified.VerifiedAmount != "990" {
		t.Fatalf("verified = %s/%s, want paid/990", verified.PaymentStatus, verified.VerifiedAmount)
	}
	if verified.VerifiedBy != "back-office" {
		t.Fatalf("verifiedBy = %s", verified.VerifiedBy)
	}

	// Fulfillment moves on.
	resp = doJSON(t, http.MethodPatch, "/api/admin/orders/"+o.ID+"/status", map[string]any{
		"orderStatus": "confirmed",
	}, adminHeaders())
	confirmed := decodeJSONBody[orderResponse](t, resp)
	resp.Body.Close()
	if confirmed.OrderStatus != "confirmed" {
		t.Fatalf("order status = %s", confirmed.OrderStatus)
	}
}

func TestGatewayVerification(t *testing.T) {
	sign := func(gatewayOrderID, paymentID string) string {
		mac := hmac.New(sha256.New, []byte(gatewaySecret))
		mac.Write([]byte(gatewayOrderID + "|" + paymentID))
		return hex.EncodeToString(mac.Sum(nil))
	}

	t.Run("valid signature marks paid", func(t *testing.T) {
		o := createOrder(t, "", orderItemRequest{ProductID: "prod-sandalwood-incense", Quantity: 1})

		resp := doPost(t, "/api/payments/verify", map[string]any{
			"orderId":        o.ID,
			"gatewayOrderId": "rzp_order_100",
			"paymentId":      "rzp_pay_100",
			"signature":      sign("rzp_order_100", "rzp_pay_100"),
		})
		body := decodeJSONBody[verifyGatewayResponse](t, resp)
		resp.Body.Close()
		if !body.Verified {
			t.Fatal("expected verified=true")
		}

		resp = doGet(t, "/api/orders/"+o.ID)
		stored := decodeJSONBody[orderResponse](t, resp)
		resp.Body.Close()
		if stored.PaymentStatus != "paid" || stored.PaymentID != "rzp_pay_100" {
			t.Fatalf("stored = %s/%s, want paid/rzp_pay_100", stored.PaymentStatus, stored.PaymentID)
		}
	})

	t.Run("tampered signature marks failed", func(t *testing.T) {
		o := createOrder(t, "", orderItemRequest{ProductID: "prod-sandalwood-incense", Quantity: 1})

		resp := doPost(t, "/api/payments/verify", map[string]any{
			"orderId":        o.ID,
			"gatewayOrderId": "rzp_order_200",
			"paymentId":      "rzp_pay_200",
			"signature":      sign("rzp_order_200", "tampered"),
		})
		body := decodeJSONBody[verifyGatewayResponse](t, resp)
		resp.Body.Close()
		if body.Verified {
			t.Fatal("expected verified=false")
		}

		resp = doGet(t, "/api/orders/"+o.ID)
		stored := decodeJSONBody[orderResponse](t, resp)
		resp.Body.Close()
		if stored.PaymentStatus != "failed" {
			t.Fatalf("stored status = %s, want failed", stored.PaymentStatus)
		}
	})
}

func TestCreateOrderValidation(t *testing.T) {
	t.Run("empty items", func(t *testing.T) {
		resp := doPost(t, "/api/orders", orderRequest{Customer: testCustomer()})
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("status %d, want 400", resp.StatusCode)
		}
	})

	t.Run("invalid coupon fails checkout", func(t *testing.T) {
		resp := doPost(t, "/api/orders", orderRequest{
			Customer:   testCustomer(),
			Items:      []orderItemRequest{{ProductID: "prod-jute-tote", Quantity: 1}},
			CouponCode: "NOPE123",
		})
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusUnprocessableEntity {
			t.Fatalf("status %d, want 422", resp.StatusCode)
		}
	})

	t.Run("missing order returns 404", func(t *testing.T) {
		resp := doGet(t, "/api/orders/no-such-order")
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusNotFound {
			t.Fatalf("status %d, want 404", resp.StatusCode)
		}
	})
}

func TestAdminAuth(t *testing.T) {
	t.Run("missing key", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, "/api/admin/orders", nil, nil)
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("status %d, want 401", resp.StatusCode)
		}
	})

	t.Run("wrong key", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, "/api/admin/orders", nil, map[string]string{"X-API-Key": "wrong"})
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("status %d, want 401", resp.StatusCode)
		}
	})

	t.Run("valid key lists orders", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, "/api/admin/orders", nil, adminHeaders())
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status %d, want 200", resp.StatusCode)
		}
	})
}
