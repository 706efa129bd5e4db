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

type fakeGateway struct {
	calls      int
	lastIntent midtrans.PaymentIntent
	session    *midtrans.PaymentSession
	err        error
}

func (f *fakeGateway) CreateSession(_ context.Context, intent midtrans.PaymentIntent) (*midtrans.PaymentSession, error) {
	f.calls++
	f.lastIntent = intent
	if f.err != nil {
		return nil, f.err
	}
	return f.session, nil
}

// newTestService wires the orchestrator to fakes. The transaction runner
// restores the order store when the closure fails, matching rollback
// semantics.
func newTestService(catalog *fakeCatalog, orders *fakeOrders, gw PaymentGateway) *Service {
	s := NewService(nil, gw, DefaultTaxPercent)
	s.catalogFor = func(*gorm.DB) CatalogRepository { return catalog }
	s.ordersFor = func(*gorm.DB) OrderRepository { return orders }
	s.runTx = func(ctx context.Context, fn func(tx *gorm.DB) error) error {
		before := make(map[int64]*domain.Transaction, len(orders.orders))
		for id, trx := range orders.orders {
			before[id] = trx
		}
		if err := fn(nil); err != nil {
			orders.orders = before
			return err
		}
		return nil
	}
	return s
}

func cashRequest() CreateOrderRequest {
	return CreateOrderRequest{
		UserId:      7,
		ShippingId:  1,
		FullName:    "Test Buyer",
		UserEmail:   "buyer@gmail.com",
		Address:     "Jl. Test 1",
		PaymentType: PaymentMethodCash,
		Products:    []CartLine{{ProductId: 101, SizeId: 1, Quantity: 1}},
	}
}

func TestCreateOrderCashSkipsGateway(t *testing.T) {
	orders := newFakeOrders()
	gw := &fakeGateway{}
	s := newTestService(newFakeCatalog(), orders, gw)

	result, err := s.CreateOrder(context.Background(), cashRequest())
	require.NoError(t, err)

	assert.Zero(t, gw.calls)
	assert.Equal(t, PaymentMethodCash, result.PaymentMethod)
	assert.Empty(t, result.Token)
	assert.Empty(t, result.RedirectURL)
	assert.Equal(t, int64(20000), result.Totals.Subtotal)
	assert.Equal(t, int64(1000), result.Totals.Tax)
	assert.Equal(t, int64(21000), result.Totals.GrandTotal)

	require.Len(t, orders.orders, 1)
	header := orders.orders[result.ID]
	require.NotNil(t, header)
	assert.Equal(t, int64(StatusPending), header.StatusId)
	assert.Equal(t, int64(21000), header.GrandTotal)
}

func TestCreateOrderGatewayReturnsSession(t *testing.T) {
	orders := newFakeOrders()
	gw := &fakeGateway{session: &midtrans.PaymentSession{
		Token:       "snap-token",
		RedirectURL: "https://app.sandbox.midtrans.com/snap/v2/vtweb/snap-token",
	}}
	s := newTestService(newFakeCatalog(), orders, gw)

	req := cashRequest()
	req.PaymentType = "bank_transfer"
	result, err := s.CreateOrder(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 1, gw.calls)
	assert.Equal(t, PaymentMethodGateway, result.PaymentMethod)
	assert.Equal(t, "snap-token", result.Token)
	assert.NotEmpty(t, result.RedirectURL)

	// intent carries the final grand total and the order id
	assert.Equal(t, int64(21000), gw.lastIntent.GrossAmount)
	assert.NotEmpty(t, gw.lastIntent.OrderId)
	require.Len(t, orders.orders, 1)
}

func TestCreateOrderGatewayFailureRollsBack(t *testing.T) {
	orders := newFakeOrders()
	gw := &fakeGateway{err: assert.AnError}
	s := newTestService(newFakeCatalog(), orders, gw)

	req := cashRequest()
	req.PaymentType = "bank_transfer"
	_, err := s.CreateOrder(context.Background(), req)

	assert.ErrorIs(t, err, ErrGateway)
	assert.Equal(t, 1, gw.calls)
	assert.Empty(t, orders.orders)
}

func TestCreateOrderIncompleteSessionRollsBack(t *testing.T) {
	orders := newFakeOrders()
	gw := &fakeGateway{session: &midtrans.PaymentSession{Token: "", RedirectURL: ""}}
	s := newTestService(newFakeCatalog(), orders, gw)

	req := cashRequest()
	req.PaymentType = "bank_transfer"
	_, err := s.CreateOrder(context.Background(), req)

	assert.ErrorIs(t, err, ErrGateway)
	assert.Empty(t, orders.orders)
}

func TestCreateOrderUnknownProductRollsBack(t *testing.T) {
	orders := newFakeOrders()
	gw := &fakeGateway{}
	s := newTestService(newFakeCatalog(), orders, gw)

	req := cashRequest()
	req.Products = []CartLine{{ProductId: 999, SizeId: 1, Quantity: 1}}
	_, err := s.CreateOrder(context.Background(), req)

	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.Zero(t, gw.calls)
	assert.Empty(t, orders.orders)
}

func TestCreateOrderEmptyCart(t *testing.T) {
	gw := &fakeGateway{}
	s := newTestService(newFakeCatalog(), newFakeOrders(), gw)

	_, err := s.CreateOrder(context.Background(), CreateOrderRequest{PaymentType: PaymentMethodCash})
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Zero(t, gw.calls)
}
