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

func registerPaymentRoutes() {
	webserver.PubGET("/payment", listPayments)
	webserver.AdminPOST("/payment", createPayment)
	webserver.AdminPUT("/payment/:id", updatePayment)
	webserver.AdminDELETE("/payment/:id", deletePayment)
}

func listPayments(c echo.Context) error {
	var rows []domain.PaymentMethod
	if err := GetDB(c).Order("id ASC").Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "Error", "Failed to query payment methods", nil)
	}
	return ok(c, rows)
}

type paymentPayload struct {
	PaymentMethod string `json:"payment_method" form:"payment_method"`
}

func createPayment(c echo.Context) error {
	var payload paymentPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Error", "Unable to parse payment body", nil)
	}
	name := strings.TrimSpace(payload.PaymentMethod)
	if name == "" {
		return fail(c, http.StatusBadRequest, "Error", "payment method cannot be null", nil)
	}

	row := domain.PaymentMethod{ID: common.UUIDint64(), PaymentMethod: name}
	if err := GetDB(c).Create(&row).Error; err != nil {
		if isDuplicateKey(err) {
			return fail(c, http.StatusBadRequest, "Error", "Duplicate payment method name", nil)
		}
		if isNotNullViolation(err) {
			return fail(c, http.StatusBadRequest, "Error", "payment method cannot be null", nil)
		}
		return fail(c, http.StatusInternalServerError, "Error", "Failed to create payment method", nil)
	}
	return created(c, row)
}

func updatePayment(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "Error", "Invalid payment method ID", nil)
	}

	var payload paymentPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Error", "Unable to parse payment body", nil)
	}
	name := strings.TrimSpace(payload.PaymentMethod)
	if name == "" {
		return fail(c, http.StatusBadRequest, "Error", "payment method cannot be null", nil)
	}

	var row domain.PaymentMethod
	if err := GetDB(c).Where("id = ?", id).First(&row).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "Error", "Payment method not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "Error", "Failed to query payment method", nil)
	}

	err = GetDB(c).Model(&row).Updates(map[string]interface{}{
		"payment_method": name,
		"updated_at":     time.Now(),
	}).Error
	if err != nil {
		if isDuplicateKey(err) {
			return fail(c, http.StatusBadRequest, "Error", "Duplicate payment method name", nil)
		}
		return fail(c, http.StatusInternalServerError, "Error", "Failed to update payment method", nil)
	}
	return ok(c, row)
}

func deletePayment(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "Error", "Invalid payment method ID", nil)
	}
	if err := GetDB(c).Where("id = ?", id).Delete(&domain.PaymentMethod{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "Error", "Failed to delete payment method", nil)
	}
	return ok(c, map[string]interface{}{"id": id})
}
