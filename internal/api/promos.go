package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/kopihub/kopihub/internal/domain"
	"github.com/kopihub/kopihub/internal/webserver"
	"github.com/kopihub/kopihub/pkg/common"
)

func registerPromoRoutes() {
	webserver.PubGET("/promo", listPromos)
	webserver.AdminPOST("/promo", createPromo)
	webserver.AdminPUT("/promo/:id", updatePromo)
	webserver.AdminDELETE("/promo/:id", deletePromo)
}

func listPromos(c echo.Context) error {
	page, pageSize := parsePagination(c, 10)

	db := GetDB(c).Model(&domain.Promo{})
	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "Error", "Failed to query promos", nil)
	}

	var rows []domain.Promo
	if err := db.Order("id DESC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "Error", "Failed to query promos", nil)
	}
	return paged(c, rows, total, page, pageSize)
}

type promoPayload struct {
	ProductId     int64      `json:"product_id,string" form:"product_id"`
	DiscountPrice int64      `json:"discount_price" form:"discount_price"`
	StartedAt     *time.Time `json:"started_at" form:"started_at"`
	ExpiredAt     *time.Time `json:"expired_at" form:"expired_at"`
}

func (p *promoPayload) validate(c echo.Context) string {
	if p.ProductId == 0 {
		return "Promo product is required"
	}
	if p.DiscountPrice <= 0 {
		return "Discount price must be positive"
	}
	var product domain.Product
	if err := GetDB(c).Where("id = ?", p.ProductId).First(&product).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return "Product does not exist"
	}
	if p.DiscountPrice >= product.Price {
		return "Discount price must be below the product price"
	}
	return ""
}

func createPromo(c echo.Context) error {
	var payload promoPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Error", "Unable to parse promo body", nil)
	}
	if msg := payload.validate(c); msg != "" {
		return fail(c, http.StatusBadRequest, "Error", msg, nil)
	}

	row := domain.Promo{
		ID:            common.UUIDint64(),
		ProductId:     payload.ProductId,
		DiscountPrice: payload.DiscountPrice,
		StartedAt:     payload.StartedAt,
		ExpiredAt:     payload.ExpiredAt,
	}
	if err := GetDB(c).Create(&row).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "Error", "Failed to create promo", nil)
	}
	return created(c, row)
}

func updatePromo(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "Error", "Invalid promo ID", nil)
	}

	var row domain.Promo
	if err := GetDB(c).Where("id = ?", id).First(&row).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "Error", "Promo not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "Error", "Failed to query promo", nil)
	}

	var payload promoPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Error", "Unable to parse promo body", nil)
	}
	if msg := payload.validate(c); msg != "" {
		return fail(c, http.StatusBadRequest, "Error", msg, nil)
	}

	err = GetDB(c).Model(&row).Updates(map[string]interface{}{
		"product_id":     payload.ProductId,
		"discount_price": payload.DiscountPrice,
		"started_at":     payload.StartedAt,
		"expired_at":     payload.ExpiredAt,
		"updated_at":     time.Now(),
	}).Error
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Error", "Failed to update promo", nil)
	}
	return ok(c, row)
}

func deletePromo(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "Error", "Invalid promo ID", nil)
	}
	if err := GetDB(c).Where("id = ?", id).Delete(&domain.Promo{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "Error", "Failed to delete promo", nil)
	}
	return ok(c, map[string]interface{}{"id": id})
}
