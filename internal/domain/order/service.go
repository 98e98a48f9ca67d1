package order

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/shopveda/storefront/internal/domain/coupon"
	"github.com/shopveda/storefront/internal/domain/product"
	"github.com/shopveda/storefront/internal/notify"
	"github.com/shopveda/storefront/internal/payment"
	"github.com/shopveda/storefront/internal/upload"
)

// ProductNotFoundError indicates a requested product does not exist in the
// catalog at checkout time.
type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %s not found", e.ProductID)
}

// CreateItem is a single requested line item at checkout.
type CreateItem struct {
	ProductID string
	Quantity  int
}

// CreateRequest holds the input for creating an order.
type CreateRequest struct {
	Customer   Customer
	Items      []CreateItem
	CouponCode string
}

// Service owns the order lifecycle: creation at checkout, customer payment
// submission, gateway verification, administrator verification, and
// fulfillment status updates.
//
// Every operation is a request-scoped read-modify-write against the order
// store. There is no per-order locking: two concurrent writers to the same
// order (say, a gateway webhook racing an administrator) interleave with a
// last-write-wins outcome on the store. That is an accepted consistency gap
// of the design, not a guarantee.
type Service struct {
	products product.Repository
	coupons  coupon.Validator
	orders   Repository
	verifier payment.Verifier
	uploader upload.Uploader
	notifier notify.Enqueuer

	operatorEmail string
	now           func() time.Time
}

// NewService creates an order Service with the required collaborators.
// operatorEmail receives the new-payment alert on gateway-verified orders.
func NewService(
	products product.Repository,
	coupons coupon.Validator,
	orders Repository,
	verifier payment.Verifier,
	uploader upload.Uploader,
	notifier notify.Enqueuer,
	operatorEmail string,
) *Service {
	return &Service{
		products:      products,
		coupons:       coupons,
		orders:        orders,
		verifier:      verifier,
		uploader:      uploader,
		notifier:      notifier,
		operatorEmail: operatorEmail,
		now:           time.Now,
	}
}

// Create validates the checkout request, snapshots the purchased products,
// applies the coupon, and persists a new order in the pending/pending state.
//
// Subtotal, discount, and total are fixed here and never recomputed: the
// order is a historical record, immune to later catalog or coupon changes.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Order, error) {
	if len(req.Items) == 0 {
		return nil, validationf("items required")
	}
	if err := validateCustomer(req.Customer); err != nil {
		return nil, err
	}

	ids := make([]string, len(req.Items))
	for i, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, validationf("quantity must be greater than 0 for product %s", item.ProductID)
		}
		ids[i] = item.ProductID
	}

	fetched, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "get products")
	}
	byID := make(map[string]product.Product, len(fetched))
	for _, p := range fetched {
		byID[p.ID] = p
	}

	items := make([]Item, len(req.Items))
	subtotal := decimal.Zero
	for i, item := range req.Items {
		p, ok := byID[item.ProductID]
		if !ok {
			return nil, &ProductNotFoundError{ProductID: item.ProductID}
		}
		items[i] = Item{
			ProductID: p.ID,
			Product: ProductSnapshot{
				ID:    p.ID,
				Name:  p.Name,
				Price: p.Price,
				Image: p.Image,
			},
			Quantity: item.Quantity,
		}
		subtotal = subtotal.Add(p.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	discount := decimal.Zero
	couponCode := ""
	if req.CouponCode != "" {
		d, err := s.coupons.Validate(ctx, req.CouponCode, subtotal)
		if err != nil {
			return nil, err
		}
		discount = d.Amount
		couponCode = d.Code
	}

	total := subtotal.Sub(discount)
	if !total.IsPositive() {
		return nil, validationf("order total must be positive")
	}

	now := s.now()
	o := &Order{
		ID:            uuid.New().String(),
		OrderNumber:   newOrderNumber(now),
		Customer:      req.Customer,
		Items:         items,
		Subtotal:      subtotal,
		Discount:      discount,
		CouponCode:    couponCode,
		TotalAmount:   total,
		PaymentStatus: PaymentPending,
		OrderStatus:   StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.orders.Create(ctx, o); err != nil {
		return nil, errors.Wrap(err, "create order")
	}

	return o, nil
}

// SubmitManualPayment records customer-submitted proof of a UPI/bank transfer
// and moves the order to pending_verification.
//
// A UTR number is required; the screenshot is optional and an upload failure
// is logged but never blocks the submission.
func (s *Service) SubmitManualPayment(ctx context.Context, orderID, utr string, proof []byte, proofName string) error {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return err
	}

	if o.PaymentStatus == PaymentPendingVerification || o.PaymentStatus == PaymentPaid {
		return ErrAlreadySubmitted
	}

	utr = strings.TrimSpace(utr)
	if utr == "" {
		return validationf("UTR number is required")
	}

	if len(proof) > 0 {
		url, err := s.uploader.Upload(ctx, proof, proofName)
		if err != nil {
			zctx.From(ctx).Warn("payment proof upload failed, continuing without proof URL",
				zap.String("order_id", orderID),
				zap.Error(err),
			)
		} else {
			o.PaymentProofURL = url
		}
	}

	now := s.now()
	o.UTRNumber = utr
	o.PaymentSubmittedAt = &now
	o.PaymentStatus = PaymentPendingVerification
	o.UpdatedAt = now

	if err := s.orders.Update(ctx, o); err != nil {
		return errors.Wrap(err, "update order")
	}
	return nil
}

// VerifyManually records an administrator's verdict after reviewing bank
// statements against the submitted proof. It is always permitted regardless
// of the current payment status, and may be repeated: the administrator is
// the authority of last resort, and re-verification overwrites the previous
// verification fields.
func (s *Service) VerifyManually(ctx context.Context, orderID string, amount decimal.Decimal, status PaymentStatus, verifiedBy string) error {
	if !verifiableStatuses[status] {
		return validationf("payment status must be one of paid, partial, failed")
	}
	if !amount.IsPositive() {
		return validationf("verified amount must be a positive number")
	}

	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return err
	}

	now := s.now()
	o.PaymentStatus = status
	o.VerifiedAmount = &amount
	o.VerifiedAt = &now
	o.VerifiedBy = verifiedBy
	o.UpdatedAt = now

	if err := s.orders.Update(ctx, o); err != nil {
		return errors.Wrap(err, "update order")
	}
	return nil
}

// VerifyGatewayPayment checks the gateway callback signature and settles the
// order as paid or failed accordingly. The verification result is returned to
// the caller either way so it can render a success or an error page.
//
// On success, confirmation notifications are enqueued best-effort: their
// delivery (or failure) never affects the verification outcome.
func (s *Service) VerifyGatewayPayment(ctx context.Context, orderID, gatewayOrderID, paymentID, signature string) (bool, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return false, err
	}

	verified := s.verifier.Verify(gatewayOrderID, paymentID, signature)

	now := s.now()
	if verified {
		o.PaymentStatus = PaymentPaid
		o.PaymentID = paymentID
	} else {
		o.PaymentStatus = PaymentFailed
	}
	o.UpdatedAt = now

	if err := s.orders.Update(ctx, o); err != nil {
		return false, errors.Wrap(err, "update order")
	}

	if verified {
		s.notifier.Enqueue(notify.Message{
			Kind:    notify.KindCustomerConfirmation,
			To:      o.Customer.Email,
			Subject: fmt.Sprintf("Order %s confirmed", o.OrderNumber),
			Body:    fmt.Sprintf("Thank you! We received your payment of %s for order %s.", o.TotalAmount, o.OrderNumber),
		})
		s.notifier.Enqueue(notify.Message{
			Kind:    notify.KindOperatorAlert,
			To:      s.operatorEmail,
			Subject: fmt.Sprintf("Payment received for order %s", o.OrderNumber),
			Body:    fmt.Sprintf("Order %s paid %s via gateway payment %s.", o.OrderNumber, o.TotalAmount, paymentID),
		})
	}

	return verified, nil
}

// UpdateStatus sets the fulfillment status. Any of the five statuses may be
// set from any other; no legal-sequence check is made.
func (s *Service) UpdateStatus(ctx context.Context, orderID string, status OrderStatus) error {
	if !status.IsValid() {
		return validationf("invalid order status %q", status)
	}

	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return err
	}

	o.OrderStatus = status
	o.UpdatedAt = s.now()

	if err := s.orders.Update(ctx, o); err != nil {
		return errors.Wrap(err, "update order")
	}
	return nil
}

// Get returns a single order by ID.
func (s *Service) Get(ctx context.Context, orderID string) (*Order, error) {
	return s.orders.GetByID(ctx, orderID)
}

// List returns every order, newest first per the repository's ordering.
func (s *Service) List(ctx context.Context) ([]Order, error) {
	return s.orders.List(ctx)
}

func validateCustomer(c Customer) error {
	switch {
	case strings.TrimSpace(c.Phone) == "":
		return validationf("customer phone is required")
	case strings.TrimSpace(c.Email) == "":
		return validationf("customer email is required")
	case strings.TrimSpace(c.Address.Street) == "":
		return validationf("address street is required")
	case strings.TrimSpace(c.Address.City) == "":
		return validationf("address city is required")
	case strings.TrimSpace(c.Address.State) == "":
		return validationf("address state is required")
	case strings.TrimSpace(c.Address.Pincode) == "":
		return validationf("address pincode is required")
	}
	return nil
}

// newOrderNumber builds the human-facing identifier: ORD-<unix-ms>-<random>.
func newOrderNumber(now time.Time) string {
	return fmt.Sprintf("ORD-%d-%04d", now.UnixMilli(), rand.IntN(10000))
}
