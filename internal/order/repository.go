package order

import (
	"context"
	"time"

	"github.com/kopihub/kopihub/internal/domain"
	"gorm.io/gorm"
)

// CatalogRepository provides the catalog lookups the pricing resolver needs.
type CatalogRepository interface {
	// GetProduct retrieves a product by id
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)

	// GetActivePromo retrieves the currently active promo for a product,
	// or gorm.ErrRecordNotFound when none applies
	GetActivePromo(ctx context.Context, productID int64) (*domain.Promo, error)

	// GetSize retrieves a size tier by id
	GetSize(ctx context.Context, id int64) (*domain.ProductSize, error)
}

// OrderRepository handles persistence for order headers and lines.
type OrderRepository interface {
	// CreateHeader inserts the order header row
	CreateHeader(ctx context.Context, trx *domain.Transaction) error

	// CreateItems batch-inserts the order lines
	CreateItems(ctx context.Context, items []domain.TransactionItem) error

	// GetByID retrieves an order header by id
	GetByID(ctx context.Context, id int64) (*domain.Transaction, error)

	// UpdateStatus moves an order to the given status; paymentType is only
	// written when non-empty
	UpdateStatus(ctx context.Context, id int64, status Status, paymentType string) error
}

// GormCatalogRepository is the GORM implementation of CatalogRepository
type GormCatalogRepository struct {
	db *gorm.DB
}

func NewGormCatalogRepository(db *gorm.DB) *GormCatalogRepository {
	return &GormCatalogRepository{db: db}
}

func (r *GormCatalogRepository) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *GormCatalogRepository) GetActivePromo(ctx context.Context, productID int64) (*domain.Promo, error) {
	now := time.Now()
	var promo domain.Promo
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Where("(started_at IS NULL OR started_at <= ?) AND (expired_at IS NULL OR expired_at >= ?)", now, now).
		Order("discount_price ASC").
		First(&promo).Error
	if err != nil {
		return nil, err
	}
	return &promo, nil
}

func (r *GormCatalogRepository) GetSize(ctx context.Context, id int64) (*domain.ProductSize, error) {
	var size domain.ProductSize
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&size).Error
	if err != nil {
		return nil, err
	}
	return &size, nil
}

// GormOrderRepository is the GORM implementation of OrderRepository
type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) CreateHeader(ctx context.Context, trx *domain.Transaction) error {
	return r.db.WithContext(ctx).Create(trx).Error
}

func (r *GormOrderRepository) CreateItems(ctx context.Context, items []domain.TransactionItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *GormOrderRepository) GetByID(ctx context.Context, id int64) (*domain.Transaction, error) {
	var trx domain.Transaction
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&trx).Error
	if err != nil {
		return nil, err
	}
	return &trx, nil
}

func (r *GormOrderRepository) UpdateStatus(ctx context.Context, id int64, status Status, paymentType string) error {
	updates := map[string]interface{}{
		"status_id":  int64(status),
		"updated_at": time.Now(),
	}
	if paymentType != "" {
		updates["payment_type"] = paymentType
	}
	return r.db.WithContext(ctx).Model(&domain.Transaction{}).
		Where("id = ?", id).Updates(updates).Error
}
