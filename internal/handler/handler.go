// Package handler exposes the storefront over HTTP: the public catalog,
// checkout and payment endpoints, the OTP login flow, and the API-key
// protected admin back office.
package handler

import (
	"github.com/go-chi/chi/v5"

	"github.com/shopveda/storefront/internal/domain/coupon"
	"github.com/shopveda/storefront/internal/domain/order"
	"github.com/shopveda/storefront/internal/domain/product"
	"github.com/shopveda/storefront/internal/notify"
	"github.com/shopveda/storefront/internal/otp"
)

// Config holds non-dependency configuration for the Handler.
type Config struct {
	// ImageBaseURL is prepended to relative image paths in product responses.
	// When empty, image paths are returned as stored in the database.
	ImageBaseURL string
	// MaxUploadBytes bounds the payment-proof multipart body size.
	MaxUploadBytes int64
}

// Handler delegates HTTP requests to the domain services.
type Handler struct {
	products     product.Repository
	coupons      coupon.Validator
	orderService *order.Service
	otpStore     *otp.Store
	notifier     notify.Enqueuer
	security     *Security

	imageBaseURL   string
	maxUploadBytes int64
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(
	cfg Config,
	products product.Repository,
	coupons coupon.Validator,
	orderService *order.Service,
	otpStore *otp.Store,
	notifier notify.Enqueuer,
	security *Security,
) *Handler {
	maxUpload := cfg.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = 10 << 20
	}
	return &Handler{
		products:       products,
		coupons:        coupons,
		orderService:   orderService,
		otpStore:       otpStore,
		notifier:       notifier,
		security:       security,
		imageBaseURL:   cfg.ImageBaseURL,
		maxUploadBytes: maxUpload,
	}
}

// Routes mounts every endpoint on a chi router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", h.ListProducts)
		r.Get("/products/{id}", h.GetProduct)

		r.Post("/coupons/validate", h.ValidateCoupon)

		r.Post("/orders", h.CreateOrder)
		r.Get("/orders/{id}", h.GetOrder)
		r.Post("/orders/{id}/payment", h.SubmitPayment)

		r.Post("/payments/verify", h.VerifyGatewayPayment)

		r.Post("/auth/otp/send", h.SendOTP)
		r.Post("/auth/otp/verify", h.VerifyOTP)

		r.Route("/admin", func(r chi.Router) {
			r.Use(h.security.RequireAPIKey)

			r.Get("/orders", h.AdminListOrders)
			r.Post("/orders/{id}/verify-payment", h.AdminVerifyPayment)
			r.Patch("/orders/{id}/status", h.AdminUpdateOrderStatus)

			r.Post("/products", h.AdminCreateProduct)
			r.Put("/products/{id}", h.AdminUpdateProduct)
			r.Delete("/products/{id}", h.AdminDeleteProduct)
		})
	})

	return r
}
