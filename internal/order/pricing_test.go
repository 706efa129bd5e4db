package order

import (
	"context"
	"testing"

	"github.com/kopihub/kopihub/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeCatalog struct {
	products map[int64]*domain.Product
	promos   map[int64]*domain.Promo
	sizes    map[int64]*domain.ProductSize
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		products: map[int64]*domain.Product{
			101: {ID: 101, ProductName: "Latte", Price: 20000},
			102: {ID: 102, ProductName: "Americano", Price: 15000},
		},
		promos: map[int64]*domain.Promo{
			102: {ID: 1, ProductId: 102, DiscountPrice: 12000},
		},
		sizes: map[int64]*domain.ProductSize{
			1: {ID: 1, Size: "Regular", Surcharge: 0},
			2: {ID: 2, Size: "Large", Surcharge: 5000},
			3: {ID: 3, Size: "Extra Large", Surcharge: 5000},
		},
	}
}

func (f *fakeCatalog) GetProduct(_ context.Context, id int64) (*domain.Product, error) {
	if p, okay := f.products[id]; okay {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCatalog) GetActivePromo(_ context.Context, productID int64) (*domain.Promo, error) {
	if p, okay := f.promos[productID]; okay {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCatalog) GetSize(_ context.Context, id int64) (*domain.ProductSize, error) {
	if s, okay := f.sizes[id]; okay {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func TestResolveBasePrice(t *testing.T) {
	r := NewPricingResolver(newFakeCatalog())

	lines, err := r.Resolve(context.Background(), []CartLine{
		{ProductId: 101, SizeId: 1, Quantity: 1},
	})
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "Latte", lines[0].ProductName)
	assert.Equal(t, int64(20000), lines[0].UnitPrice)
}

func TestResolvePromoOverridesBase(t *testing.T) {
	r := NewPricingResolver(newFakeCatalog())

	lines, err := r.Resolve(context.Background(), []CartLine{
		{ProductId: 102, SizeId: 1, Quantity: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(12000), lines[0].UnitPrice)
}

func TestResolveSizeSurcharge(t *testing.T) {
	r := NewPricingResolver(newFakeCatalog())

	lines, err := r.Resolve(context.Background(), []CartLine{
		{ProductId: 101, SizeId: 2, Quantity: 1},
		{ProductId: 101, SizeId: 3, Quantity: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(25000), lines[0].UnitPrice)
	assert.Equal(t, int64(25000), lines[1].UnitPrice)
}

func TestResolveUnknownProductFailsWholeCart(t *testing.T) {
	r := NewPricingResolver(newFakeCatalog())

	// one valid line plus one unknown id: the whole cart must fail,
	// nothing is silently dropped
	_, err := r.Resolve(context.Background(), []CartLine{
		{ProductId: 101, SizeId: 1, Quantity: 1},
		{ProductId: 999, SizeId: 1, Quantity: 1},
	})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestResolveUnknownSize(t *testing.T) {
	r := NewPricingResolver(newFakeCatalog())

	_, err := r.Resolve(context.Background(), []CartLine{
		{ProductId: 101, SizeId: 77, Quantity: 1},
	})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestResolveEmptyCart(t *testing.T) {
	r := NewPricingResolver(newFakeCatalog())

	_, err := r.Resolve(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEmptyCart)
}
