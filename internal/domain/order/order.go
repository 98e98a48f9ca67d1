package order

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus tracks where an order sits in the payment lifecycle.
type PaymentStatus string

const (
	// PaymentPending is the initial state: no payment attempt recorded.
	PaymentPending PaymentStatus = "pending"
	// PaymentPendingVerification means the customer submitted manual proof
	// (UTR and/or screenshot) awaiting administrator review.
	PaymentPendingVerification PaymentStatus = "pending_verification"
	// PaymentPaid means the full amount was confirmed received.
	PaymentPaid PaymentStatus = "paid"
	// PaymentPartial means the administrator confirmed a partial amount.
	PaymentPartial PaymentStatus = "partial"
	// PaymentFailed means the payment was rejected or never arrived.
	PaymentFailed PaymentStatus = "failed"
)

// verifiableStatuses are the outcomes an administrator may record during
// manual verification.
var verifiableStatuses = map[PaymentStatus]bool{
	PaymentPaid:    true,
	PaymentPartial: true,
	PaymentFailed:  true,
}

// OrderStatus tracks fulfillment, independently of payment.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusShipped   OrderStatus = "shipped"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

// IsValid reports whether s is one of the five fulfillment statuses.
// No ordering between statuses is enforced: any status may be set from any
// other, which keeps the administrator as the authority of last resort.
func (s OrderStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Address is the customer's shipping address. All fields are required.
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
}

// Customer identifies who placed the order and where it ships.
type Customer struct {
	Name    string  `json:"name,omitempty"`
	Phone   string  `json:"phone"`
	Email   string  `json:"email"`
	Address Address `json:"address"`
}

// ProductSnapshot captures the product as it was at order-creation time.
// It is never re-synced to later catalog changes; the order is a historical
// record of what the customer actually bought and at what price.
type ProductSnapshot struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Image string          `json:"image"`
}

// Item is a single line item in an order.
type Item struct {
	ProductID string          `json:"productId"`
	Product   ProductSnapshot `json:"product"`
	Quantity  int             `json:"quantity"`
}

// Order is the central mutable entity of the storefront.
//
// Subtotal, Discount, CouponCode, and TotalAmount are computed once at
// creation and never change afterwards. TotalAmount = Subtotal - Discount,
// with 0 <= TotalAmount <= Subtotal.
type Order struct {
	ID          string
	OrderNumber string
	Customer    Customer
	Items       []Item
	Subtotal    decimal.Decimal
	Discount    decimal.Decimal
	CouponCode  string
	TotalAmount decimal.Decimal

	PaymentStatus PaymentStatus
	OrderStatus   OrderStatus

	// Gateway-verified payments.
	PaymentID string

	// Manual payment proof.
	UTRNumber          string
	PaymentProofURL    string
	PaymentSubmittedAt *time.Time

	// Administrator verification record.
	VerifiedAmount *decimal.Decimal
	VerifiedAt     *time.Time
	VerifiedBy     string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Repository defines persistence for orders. GetByID returns ErrNotFound when
// no order matches. Implementations must round-trip every field, including
// nested item snapshots and all timestamps, without loss.
type Repository interface {
	List(ctx context.Context) ([]Order, error)
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id string) (*Order, error)
	Update(ctx context.Context, o *Order) error
}
