package order

import (
	"context"
	"errors"
	"strconv"

	"github.com/kopihub/kopihub/internal/gateway/midtrans"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Notification is the gateway's server-to-server payment status payload.
type Notification struct {
	OrderId           string `json:"order_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
	PaymentType       string `json:"payment_type"`
}

// Outcome reports what a notification did. Applied is false when the
// notification was authentic but deliberately left the order untouched
// (duplicate delivery, or a capture held for fraud review).
type Outcome struct {
	OrderId int64  `json:"order_id,string"`
	Status  Status `json:"status"`
	Applied bool   `json:"applied"`
	Message string `json:"message"`
}

// Reconciler verifies webhook notifications and maps gateway statuses onto
// the order status machine. The signature is the sole authentication for
// the endpoint.
type Reconciler struct {
	orders    OrderRepository
	serverKey string
}

func NewReconciler(orders OrderRepository, serverKey string) *Reconciler {
	return &Reconciler{orders: orders, serverKey: serverKey}
}

// Apply verifies and applies one notification. A failed signature check
// never mutates any order, whatever the payload claims.
func (r *Reconciler) Apply(ctx context.Context, notif Notification) (*Outcome, error) {
	if notif.SignatureKey == "" {
		return nil, ErrInvalidSignature
	}
	if !midtrans.VerifySignature(notif.OrderId, notif.StatusCode, notif.GrossAmount, r.serverKey, notif.SignatureKey) {
		zap.L().Warn("webhook signature mismatch", zap.String("order_id", notif.OrderId))
		return nil, ErrInvalidSignature
	}

	orderID, err := strconv.ParseInt(notif.OrderId, 10, 64)
	if err != nil {
		return nil, ErrOrderNotFound
	}

	trx, err := r.orders.GetByID(ctx, orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	} else if err != nil {
		return nil, err
	}

	// the gateway echoes the gross amount back with two decimals; a
	// mismatch against our grand total is logged for reconciliation but
	// does not block the transition, the signature already authenticated
	// the payload
	if notif.GrossAmount != midtrans.FormatGross(trx.GrandTotal) {
		zap.L().Warn("gross amount mismatch on notification",
			zap.Int64("order_id", orderID),
			zap.String("notified", notif.GrossAmount),
			zap.String("expected", midtrans.FormatGross(trx.GrandTotal)))
	}

	target, paymentType, held, err := r.mapStatus(notif)
	if err != nil {
		return nil, err
	}
	if held {
		// capture held by fraud review: authentic but deliberately ignored
		return &Outcome{
			OrderId: orderID,
			Status:  Status(trx.StatusId),
			Applied: false,
			Message: "capture held by fraud review",
		}, nil
	}

	current := Status(trx.StatusId)
	if current == target {
		// duplicate delivery, idempotent no-op
		return &Outcome{
			OrderId: orderID,
			Status:  current,
			Applied: false,
			Message: "status already applied",
		}, nil
	}
	if !current.CanTransition(target) {
		zap.L().Warn("rejected status transition",
			zap.Int64("order_id", orderID),
			zap.String("from", current.String()),
			zap.String("to", target.String()))
		return nil, ErrInvalidTransition
	}

	if err := r.orders.UpdateStatus(ctx, orderID, target, paymentType); err != nil {
		return nil, err
	}

	zap.L().Info("order status reconciled",
		zap.Int64("order_id", orderID),
		zap.String("from", current.String()),
		zap.String("to", target.String()),
		zap.String("payment_type", paymentType))

	return &Outcome{
		OrderId: orderID,
		Status:  target,
		Applied: true,
		Message: "transaction " + target.String(),
	}, nil
}

// mapStatus translates the gateway status pair to a target state. The
// payment type is only recorded on successful capture/settlement.
func (r *Reconciler) mapStatus(notif Notification) (target Status, paymentType string, held bool, err error) {
	switch notif.TransactionStatus {
	case "capture":
		if notif.FraudStatus == "accept" {
			return StatusSettled, notif.PaymentType, false, nil
		}
		return 0, "", true, nil
	case "settlement":
		return StatusSettled, notif.PaymentType, false, nil
	case "cancel", "deny", "expire":
		return StatusCanceled, "", false, nil
	case "pending":
		return StatusPending, "", false, nil
	default:
		return 0, "", false, ErrUnknownStatus
	}
}
