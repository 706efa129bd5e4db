package order

import (
	"context"
	"testing"

	"github.com/kopihub/kopihub/internal/domain"
	"github.com/kopihub/kopihub/internal/gateway/midtrans"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testServerKey = "SB-Mid-server-testkey"

type fakeOrders struct {
	orders  map[int64]*domain.Transaction
	updates int
}

func newFakeOrders(trx ...*domain.Transaction) *fakeOrders {
	f := &fakeOrders{orders: make(map[int64]*domain.Transaction)}
	for _, t := range trx {
		f.orders[t.ID] = t
	}
	return f
}

func (f *fakeOrders) CreateHeader(_ context.Context, trx *domain.Transaction) error {
	f.orders[trx.ID] = trx
	return nil
}

func (f *fakeOrders) CreateItems(_ context.Context, _ []domain.TransactionItem) error {
	return nil
}

func (f *fakeOrders) GetByID(_ context.Context, id int64) (*domain.Transaction, error) {
	if trx, okay := f.orders[id]; okay {
		return trx, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeOrders) UpdateStatus(_ context.Context, id int64, status Status, paymentType string) error {
	trx, okay := f.orders[id]
	if !okay {
		return gorm.ErrRecordNotFound
	}
	trx.StatusId = int64(status)
	if paymentType != "" {
		trx.PaymentType = paymentType
	}
	f.updates++
	return nil
}

func signedNotification(orderID, statusCode, grossAmount, trxStatus, fraudStatus string) Notification {
	return Notification{
		OrderId:           orderID,
		StatusCode:        statusCode,
		GrossAmount:       grossAmount,
		SignatureKey:      midtrans.Signature(orderID, statusCode, grossAmount, testServerKey),
		TransactionStatus: trxStatus,
		FraudStatus:       fraudStatus,
		PaymentType:       "credit_card",
	}
}

func TestApplySettlement(t *testing.T) {
	orders := newFakeOrders(&domain.Transaction{ID: 42, StatusId: int64(StatusPending), GrandTotal: 21000})
	r := NewReconciler(orders, testServerKey)

	out, err := r.Apply(context.Background(), signedNotification("42", "200", "21000.00", "settlement", ""))
	require.NoError(t, err)
	assert.True(t, out.Applied)
	assert.Equal(t, StatusSettled, out.Status)
	assert.Equal(t, int64(StatusSettled), orders.orders[42].StatusId)
	assert.Equal(t, "credit_card", orders.orders[42].PaymentType)
}

func TestApplyMismatchedGrossAmountStillApplies(t *testing.T) {
	// amounts are reconciled by logging only; the signed status change
	// must still go through
	orders := newFakeOrders(&domain.Transaction{ID: 42, StatusId: int64(StatusPending), GrandTotal: 99999})
	r := NewReconciler(orders, testServerKey)

	out, err := r.Apply(context.Background(), signedNotification("42", "200", "21000.00", "settlement", ""))
	require.NoError(t, err)
	assert.True(t, out.Applied)
	assert.Equal(t, int64(StatusSettled), orders.orders[42].StatusId)
}

func TestApplyCaptureAccept(t *testing.T) {
	orders := newFakeOrders(&domain.Transaction{ID: 42, StatusId: int64(StatusPending)})
	r := NewReconciler(orders, testServerKey)

	out, err := r.Apply(context.Background(), signedNotification("42", "200", "21000.00", "capture", "accept"))
	require.NoError(t, err)
	assert.True(t, out.Applied)
	assert.Equal(t, StatusSettled, out.Status)
}

func TestApplyCaptureHeldByFraudReview(t *testing.T) {
	orders := newFakeOrders(&domain.Transaction{ID: 42, StatusId: int64(StatusPending)})
	r := NewReconciler(orders, testServerKey)

	// challenge fraud status: authentic notification, deterministic
	// response, zero state change
	out, err := r.Apply(context.Background(), signedNotification("42", "200", "21000.00", "capture", "challenge"))
	require.NoError(t, err)
	assert.False(t, out.Applied)
	assert.Equal(t, StatusPending, out.Status)
	assert.Equal(t, int64(StatusPending), orders.orders[42].StatusId)
	assert.Zero(t, orders.updates)
}

func TestApplyCancelDenyExpire(t *testing.T) {
	for _, trxStatus := range []string{"cancel", "deny", "expire"} {
		t.Run(trxStatus, func(t *testing.T) {
			orders := newFakeOrders(&domain.Transaction{ID: 42, StatusId: int64(StatusPending)})
			r := NewReconciler(orders, testServerKey)

			out, err := r.Apply(context.Background(), signedNotification("42", "202", "21000.00", trxStatus, ""))
			require.NoError(t, err)
			assert.True(t, out.Applied)
			assert.Equal(t, StatusCanceled, out.Status)
		})
	}
}

func TestApplyPendingDuplicateIsNoOp(t *testing.T) {
	orders := newFakeOrders(&domain.Transaction{ID: 42, StatusId: int64(StatusPending)})
	r := NewReconciler(orders, testServerKey)

	out, err := r.Apply(context.Background(), signedNotification("42", "201", "21000.00", "pending", ""))
	require.NoError(t, err)
	assert.False(t, out.Applied)
	assert.Zero(t, orders.updates)
}

func TestApplyBadSignatureNeverMutates(t *testing.T) {
	orders := newFakeOrders(&domain.Transaction{ID: 42, StatusId: int64(StatusPending)})
	r := NewReconciler(orders, testServerKey)

	notif := signedNotification("42", "200", "21000.00", "settlement", "")
	notif.SignatureKey = "deadbeef"

	_, err := r.Apply(context.Background(), notif)
	assert.ErrorIs(t, err, ErrInvalidSignature)
	assert.Equal(t, int64(StatusPending), orders.orders[42].StatusId)
	assert.Zero(t, orders.updates)
}

func TestApplyMissingSignature(t *testing.T) {
	orders := newFakeOrders(&domain.Transaction{ID: 42, StatusId: int64(StatusPending)})
	r := NewReconciler(orders, testServerKey)

	notif := signedNotification("42", "200", "21000.00", "settlement", "")
	notif.SignatureKey = ""

	_, err := r.Apply(context.Background(), notif)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestApplyUnknownOrder(t *testing.T) {
	r := NewReconciler(newFakeOrders(), testServerKey)

	_, err := r.Apply(context.Background(), signedNotification("77", "200", "21000.00", "settlement", ""))
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestApplyUnknownStatus(t *testing.T) {
	orders := newFakeOrders(&domain.Transaction{ID: 42, StatusId: int64(StatusPending)})
	r := NewReconciler(orders, testServerKey)

	_, err := r.Apply(context.Background(), signedNotification("42", "200", "21000.00", "refund", ""))
	assert.ErrorIs(t, err, ErrUnknownStatus)
	assert.Zero(t, orders.updates)
}

func TestApplyRejectsReopeningTerminalState(t *testing.T) {
	orders := newFakeOrders(&domain.Transaction{ID: 42, StatusId: int64(StatusSettled)})
	r := NewReconciler(orders, testServerKey)

	// a late "pending" after settlement must not move the order back
	_, err := r.Apply(context.Background(), signedNotification("42", "201", "21000.00", "pending", ""))
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, int64(StatusSettled), orders.orders[42].StatusId)
}

func TestApplySettlementRegardlessOfPriorPendingDeliveries(t *testing.T) {
	orders := newFakeOrders(&domain.Transaction{ID: 42, StatusId: int64(StatusPending)})
	r := NewReconciler(orders, testServerKey)

	_, err := r.Apply(context.Background(), signedNotification("42", "201", "21000.00", "pending", ""))
	require.NoError(t, err)

	out, err := r.Apply(context.Background(), signedNotification("42", "200", "21000.00", "settlement", ""))
	require.NoError(t, err)
	assert.True(t, out.Applied)
	assert.Equal(t, int64(StatusSettled), orders.orders[42].StatusId)
}
