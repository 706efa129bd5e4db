package order

import (
	"context"
	"strconv"

	"github.com/kopihub/kopihub/internal/domain"
	"github.com/kopihub/kopihub/internal/gateway/midtrans"
	"github.com/kopihub/kopihub/pkg/common"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PaymentGateway abstracts the hosted checkout provider.
type PaymentGateway interface {
	CreateSession(ctx context.Context, intent midtrans.PaymentIntent) (*midtrans.PaymentSession, error)
}

// PaymentMethodCash is the only payment method that skips the gateway.
const PaymentMethodCash = "Cash"

// PaymentMethodGateway is the method label recorded for hosted checkouts.
const PaymentMethodGateway = "Midtrans"

// Service orchestrates order creation: pricing, totals, header and line
// inserts and the conditional gateway call, all inside one database
// transaction.
type Service struct {
	db         *gorm.DB
	gateway    PaymentGateway
	taxPercent int64

	// repository constructors and the transaction runner are swappable so
	// the orchestration can run against fakes
	catalogFor func(tx *gorm.DB) CatalogRepository
	ordersFor  func(tx *gorm.DB) OrderRepository
	runTx      func(ctx context.Context, fn func(tx *gorm.DB) error) error
}

func NewService(db *gorm.DB, gateway PaymentGateway, taxPercent int64) *Service {
	if taxPercent <= 0 {
		taxPercent = DefaultTaxPercent
	}
	s := &Service{db: db, gateway: gateway, taxPercent: taxPercent}
	s.catalogFor = func(tx *gorm.DB) CatalogRepository { return NewGormCatalogRepository(tx) }
	s.ordersFor = func(tx *gorm.DB) OrderRepository { return NewGormOrderRepository(tx) }
	s.runTx = func(ctx context.Context, fn func(tx *gorm.DB) error) error {
		return s.db.WithContext(ctx).Transaction(fn)
	}
	return s
}

// CreateOrderRequest is one checkout submission.
type CreateOrderRequest struct {
	UserId      int64      `json:"user_id,string"`
	ShippingId  int64      `json:"shipping_id,string"`
	FullName    string     `json:"full_name"`
	UserEmail   string     `json:"user_email"`
	Address     string     `json:"address"`
	PaymentType string     `json:"payment_type"`
	Products    []CartLine `json:"products"`
}

// CreateOrderResult is the checkout response. Token and RedirectURL are
// only present for non-cash orders.
type CreateOrderResult struct {
	ID            int64  `json:"id,string"`
	PaymentMethod string `json:"payment_method"`
	Token         string `json:"token,omitempty"`
	RedirectURL   string `json:"redirect_url,omitempty"`
	Totals        Totals `json:"totals"`
}

// CreateOrder runs the checkout as one atomic unit. On any failure the
// transaction rolls back and no order or line rows remain committed.
func (s *Service) CreateOrder(ctx context.Context, req CreateOrderRequest) (*CreateOrderResult, error) {
	if len(req.Products) == 0 {
		return nil, ErrEmptyCart
	}

	var result *CreateOrderResult
	err := s.runTx(ctx, func(tx *gorm.DB) error {
		resolver := NewPricingResolver(s.catalogFor(tx))
		lines, err := resolver.Resolve(ctx, req.Products)
		if err != nil {
			return err
		}

		totals, err := CalculateTotals(lines, s.taxPercent)
		if err != nil {
			return err
		}

		repo := s.ordersFor(tx)
		header := &domain.Transaction{
			ID:          common.UUIDint64(),
			UserId:      req.UserId,
			ShippingId:  req.ShippingId,
			StatusId:    int64(StatusPending),
			Subtotal:    totals.Subtotal,
			Tax:         totals.Tax,
			GrandTotal:  totals.GrandTotal,
			FullName:    req.FullName,
			Address:     req.Address,
			UserEmail:   req.UserEmail,
			PaymentType: req.PaymentType,
		}
		if err := repo.CreateHeader(ctx, header); err != nil {
			return err
		}

		items := make([]domain.TransactionItem, 0, len(lines))
		for _, line := range lines {
			qty := line.Quantity
			if qty <= 0 {
				qty = 1
			}
			items = append(items, domain.TransactionItem{
				ID:            common.UUIDint64(),
				TransactionId: header.ID,
				ProductId:     line.ProductId,
				SizeId:        line.SizeId,
				FdOptionId:    line.FdOptionId,
				ProductName:   line.ProductName,
				ProductPrice:  line.UnitPrice,
				Quantity:      qty,
			})
		}
		if err := repo.CreateItems(ctx, items); err != nil {
			return err
		}

		result = &CreateOrderResult{
			ID:            header.ID,
			PaymentMethod: PaymentMethodCash,
			Totals:        totals,
		}

		if req.PaymentType == PaymentMethodCash {
			return nil
		}

		session, err := s.gateway.CreateSession(ctx, midtrans.PaymentIntent{
			OrderId:     strconv.FormatInt(header.ID, 10),
			GrossAmount: totals.GrandTotal,
			FullName:    req.FullName,
			Email:       req.UserEmail,
			Address:     req.Address,
		})
		if err != nil {
			zap.L().Error("gateway session failed, rolling back order",
				zap.Int64("order_id", header.ID), zap.Error(err))
			return ErrGateway
		}
		if session.Token == "" || session.RedirectURL == "" {
			return ErrGateway
		}

		result.PaymentMethod = PaymentMethodGateway
		result.Token = session.Token
		result.RedirectURL = session.RedirectURL
		return nil
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("order created",
		zap.Int64("order_id", result.ID),
		zap.String("payment_method", result.PaymentMethod),
		zap.Int64("grand_total", result.Totals.GrandTotal))
	return result, nil
}
