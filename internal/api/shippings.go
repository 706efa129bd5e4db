package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/kopihub/kopihub/internal/domain"
	"github.com/kopihub/kopihub/internal/webserver"
	"github.com/kopihub/kopihub/pkg/common"
)

func registerShippingRoutes() {
	webserver.PubGET("/shipping", listShippings)
	webserver.AdminPOST("/shipping", createShipping)
	webserver.AdminPUT("/shipping/:id", updateShipping)
	webserver.AdminDELETE("/shipping/:id", deleteShipping)
}

func listShippings(c echo.Context) error {
	var rows []domain.ShippingMethod
	if err := GetDB(c).Order("id ASC").Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "Error", "Failed to query shipping methods", nil)
	}
	return ok(c, rows)
}

type shippingPayload struct {
	ShippingMethod string `json:"shipping_method" form:"shipping_method"`
	Cost           int64  `json:"cost" form:"cost"`
}

func createShipping(c echo.Context) error {
	var payload shippingPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Error", "Unable to parse shipping body", nil)
	}
	name := strings.TrimSpace(payload.ShippingMethod)
	if name == "" {
		return fail(c, http.StatusBadRequest, "Error", "shipping method cannot be null", nil)
	}
	if payload.Cost < 0 {
		return fail(c, http.StatusBadRequest, "Error", "shipping cost cannot be negative", nil)
	}

	row := domain.ShippingMethod{ID: common.UUIDint64(), ShippingMethod: name, Cost: payload.Cost}
	if err := GetDB(c).Create(&row).Error; err != nil {
		if isDuplicateKey(err) {
			return fail(c, http.StatusBadRequest, "Error", "Duplicate shipping method name", nil)
		}
		return fail(c, http.StatusInternalServerError, "Error", "Failed to create shipping method", nil)
	}
	return created(c, row)
}

func updateShipping(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "Error", "Invalid shipping method ID", nil)
	}

	var payload shippingPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Error", "Unable to parse shipping body", nil)
	}
	name := strings.TrimSpace(payload.ShippingMethod)
	if name == "" {
		return fail(c, http.StatusBadRequest, "Error", "shipping method cannot be null", nil)
	}

	var row domain.ShippingMethod
	if err := GetDB(c).Where("id = ?", id).First(&row).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "Error", "Shipping method not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "Error", "Failed to query shipping method", nil)
	}

	err = GetDB(c).Model(&row).Updates(map[string]interface{}{
		"shipping_method": name,
		"cost":            payload.Cost,
		"updated_at":      time.Now(),
	}).Error
	if err != nil {
		if isDuplicateKey(err) {
			return fail(c, http.StatusBadRequest, "Error", "Duplicate shipping method name", nil)
		}
		return fail(c, http.StatusInternalServerError, "Error", "Failed to update shipping method", nil)
	}
	return ok(c, row)
}

func deleteShipping(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "Error", "Invalid shipping method ID", nil)
	}
	if err := GetDB(c).Where("id = ?", id).Delete(&domain.ShippingMethod{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "Error", "Failed to delete shipping method", nil)
	}
	return ok(c, map[string]interface{}{"id": id})
}
