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

func registerSizeRoutes() {
	webserver.PubGET("/size", listSizes)
	webserver.PubGET("/fd-option", listFdOptions)
	webserver.AdminPOST("/size", createSize)
	webserver.AdminPUT("/size/:id", updateSize)
	webserver.AdminDELETE("/size/:id", deleteSize)
}

func listSizes(c echo.Context) error {
	var rows []domain.ProductSize
	if err := GetDB(c).Order("id ASC").Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "Error", "Failed to query sizes", nil)
	}
	return ok(c, rows)
}

func listFdOptions(c echo.Context) error {
	var rows []domain.FdOption
	if err := GetDB(c).Order("id ASC").Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "Error", "Failed to query options", nil)
	}
	return ok(c, rows)
}

type sizePayload struct {
	Size      string `json:"size" form:"size"`
	Surcharge int64  `json:"surcharge" form:"surcharge"`
}

func createSize(c echo.Context) error {
	var payload sizePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Error", "Unable to parse size body", nil)
	}
	name := strings.TrimSpace(payload.Size)
	if name == "" {
		return fail(c, http.StatusBadRequest, "Error", "size cannot be null", nil)
	}
	if payload.Surcharge < 0 {
		return fail(c, http.StatusBadRequest, "Error", "surcharge cannot be negative", nil)
	}

	row := domain.ProductSize{ID: common.UUIDint64(), Size: name, Surcharge: payload.Surcharge}
	if err := GetDB(c).Create(&row).Error; err != nil {
		if isDuplicateKey(err) {
			return fail(c, http.StatusBadRequest, "Error", "Duplicate size name", nil)
		}
		return fail(c, http.StatusInternalServerError, "Error", "Failed to create size", nil)
	}
	return created(c, row)
}

func updateSize(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "Error", "Invalid size ID", nil)
	}

	var payload sizePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Error", "Unable to parse size body", nil)
	}
	name := strings.TrimSpace(payload.Size)
	if name == "" {
		return fail(c, http.StatusBadRequest, "Error", "size cannot be null", nil)
	}

	var row domain.ProductSize
	if err := GetDB(c).Where("id = ?", id).First(&row).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "Error", "Size not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "Error", "Failed to query size", nil)
	}

	err = GetDB(c).Model(&row).Updates(map[string]interface{}{
		"size":       name,
		"surcharge":  payload.Surcharge,
		"updated_at": time.Now(),
	}).Error
	if err != nil {
		if isDuplicateKey(err) {
			return fail(c, http.StatusBadRequest, "Error", "Duplicate size name", nil)
		}
		return fail(c, http.StatusInternalServerError, "Error", "Failed to update size", nil)
	}
	return ok(c, row)
}

func deleteSize(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "Error", "Invalid size ID", nil)
	}
	if err := GetDB(c).Where("id = ?", id).Delete(&domain.ProductSize{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "Error", "Failed to delete size", nil)
	}
	return ok(c, map[string]interface{}{"id": id})
}
