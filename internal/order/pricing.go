package order

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CartLine is one requested product+size+option combination.
type CartLine struct {
	ProductId  int64  `json:"product_id,string"`
	SizeId     int64  `json:"size_id,string"`
	FdOptionId *int64 `json:"fd_option_id,string,omitempty"`
	Quantity   int    `json:"quantity"`
}

// ResolvedLine carries the catalog snapshot for one cart line. UnitPrice
// already includes the size surcharge.
type ResolvedLine struct {
	CartLine
	ProductName string
	UnitPrice   int64
}

// PricingResolver resolves cart lines against the current catalog: active
// promo price over base price, plus the size tier surcharge.
type PricingResolver struct {
	catalog CatalogRepository
}

func NewPricingResolver(catalog CatalogRepository) *PricingResolver {
	return &PricingResolver{catalog: catalog}
}

// Resolve snapshots name and unit price for every line. Any unknown or
// mismatched product id fails the whole cart with ErrProductNotFound.
func (r *PricingResolver) Resolve(ctx context.Context, lines []CartLine) ([]ResolvedLine, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	resolved := make([]ResolvedLine, 0, len(lines))
	for _, line := range lines {
		product, err := r.catalog.GetProduct(ctx, line.ProductId)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		} else if err != nil {
			return nil, err
		}
		// consistency check against the requested id
		if product.ID != line.ProductId {
			zap.L().Warn("product id mismatch on cart line",
				zap.Int64("requested", line.ProductId),
				zap.Int64("resolved", product.ID))
			return nil, ErrProductNotFound
		}

		unitPrice := product.Price
		promo, err := r.catalog.GetActivePromo(ctx, line.ProductId)
		switch {
		case err == nil:
			unitPrice = promo.DiscountPrice
		case errors.Is(err, gorm.ErrRecordNotFound):
			// no active promo, base price applies
		default:
			return nil, err
		}

		size, err := r.catalog.GetSize(ctx, line.SizeId)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		} else if err != nil {
			return nil, err
		}
		unitPrice += size.Surcharge

		resolved = append(resolved, ResolvedLine{
			CartLine:    line,
			ProductName: product.ProductName,
			UnitPrice:   unitPrice,
		})
	}
	return resolved, nil
}
