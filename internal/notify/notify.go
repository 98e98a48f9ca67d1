// Package notify delivers best-effort notifications (order confirmations to
// customers, alerts to the shop operator). Messages are queued and sent by
// background workers; delivery failures are logged and never surface to the
// operation that triggered them.
package notify

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Kind distinguishes notification templates.
type Kind string

const (
	// KindCustomerConfirmation is the order-confirmation email to the customer.
	KindCustomerConfirmation Kind = "customer_confirmation"
	// KindOperatorAlert is the new-paid-order alert to the shop operator.
	KindOperatorAlert Kind = "operator_alert"
	// KindOTPSMS is the login one-time password sent to a phone number.
	KindOTPSMS Kind = "otp_sms"
)

// Message is a single queued notification.
type Message struct {
	Kind    Kind
	To      string
	Subject string
	Body    string
}

// Sender delivers a single message. The transport (email provider, SMS
// gateway) lives behind this interface and is out of scope here.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Enqueuer accepts messages for asynchronous best-effort delivery.
type Enqueuer interface {
	Enqueue(msg Message) bool
}

// Dispatcher drains a bounded queue with a pool of worker goroutines.
type Dispatcher struct {
	queue  chan Message
	sender Sender
	lg     *zap.Logger
	g      *errgroup.Group
}

// NewDispatcher creates a Dispatcher with the given queue capacity and sender.
func NewDispatcher(sender Sender, lg *zap.Logger, queueSize int) *Dispatcher {
	return &Dispatcher{
		queue:  make(chan Message, queueSize),
		sender: sender,
		lg:     lg,
	}
}

// Start launches the worker pool. Workers run until the queue is closed via
// Close or ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context, workers int) {
	d.g, ctx = errgroup.WithContext(ctx)
	for range workers {
		d.g.Go(func() error {
			d.worker(ctx)
			return nil
		})
	}
}

func (d *Dispatcher) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-d.queue:
			if !ok {
				return
			}
			if err := d.sender.Send(ctx, msg); err != nil {
				// Best-effort: log and move on.
				d.lg.Warn("notification delivery failed",
					zap.String("kind", string(msg.Kind)),
					zap.String("to", msg.To),
					zap.Error(err),
				)
			}
		}
	}
}

// Enqueue adds a message to the queue without blocking. When the queue is
// full the message is dropped and logged; the caller's operation is never
// held up by notification backpressure.
func (d *Dispatcher) Enqueue(msg Message) bool {
	select {
	case d.queue <- msg:
		return true
	default:
		d.lg.Warn("notification queue full, dropping message",
			zap.String("kind", string(msg.Kind)),
			zap.String("to", msg.To),
		)
		return false
	}
}

// Close stops accepting work and waits for the workers to drain the queue.
// Enqueue must not be called after Close.
func (d *Dispatcher) Close() {
	close(d.queue)
	if d.g != nil {
		_ = d.g.Wait()
	}
}
