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

func registerStatusRoutes() {
	webserver.PubGET("/status-transaction", listStatuses)
	webserver.AdminPOST("/status-transaction", createStatus)
	webserver.AdminPUT("/status-transaction/:id", updateStatus)
	webserver.AdminDELETE("/status-transaction/:id", deleteStatus)
}

func listStatuses(c echo.Context) error {
	var rows []domain.OrderStatus
	if err := GetDB(c).Order("id ASC").Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "Error", "Failed to query statuses", nil)
	}
	return ok(c, rows)
}

type statusPayload struct {
	Status string `json:"status" form:"status"`
}

func createStatus(c echo.Context) error {
	var payload statusPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Error", "Unable to parse status body", nil)
	}
	name := strings.TrimSpace(payload.Status)
	if name == "" {
		return fail(c, http.StatusBadRequest, "Error", "status cannot be null", nil)
	}

	row := domain.OrderStatus{ID: common.UUIDint64(), Status: name}
	if err := GetDB(c).Create(&row).Error; err != nil {
		if isDuplicateKey(err) {
			return fail(c, http.StatusBadRequest, "Error", "Duplicate status name", nil)
		}
		return fail(c, http.StatusInternalServerError, "Error", "Failed to create status", nil)
	}
	return created(c, row)
}

func updateStatus(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "Error", "Invalid status ID", nil)
	}

	var payload statusPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Error", "Unable to parse status body", nil)
	}
	name := strings.TrimSpace(payload.Status)
	if name == "" {
		return fail(c, http.StatusBadRequest, "Error", "status cannot be null", nil)
	}

	var row domain.OrderStatus
	if err := GetDB(c).Where("id = ?", id).First(&row).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "Error", "Status not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "Error", "Failed to query status", nil)
	}

	err = GetDB(c).Model(&row).Updates(map[string]interface{}{
		"status":     name,
		"updated_at": time.Now(),
	}).Error
	if err != nil {
		if isDuplicateKey(err) {
			return fail(c, http.StatusBadRequest, "Error", "Duplicate status name", nil)
		}
		return fail(c, http.StatusInternalServerError, "Error", "Failed to update status", nil)
	}
	return ok(c, row)
}

func deleteStatus(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "Error", "Invalid status ID", nil)
	}
	if err := GetDB(c).Where("id = ?", id).Delete(&domain.OrderStatus{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "Error", "Failed to delete status", nil)
	}
	return ok(c, map[string]interface{}{"id": id})
}
