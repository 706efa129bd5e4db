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

func registerCategoryRoutes() {
	webserver.PubGET("/category", listCategories)
	webserver.AdminPOST("/category", createCategory)
	webserver.AdminPUT("/category/:id", updateCategory)
	webserver.AdminDELETE("/category/:id", deleteCategory)
}

func listCategories(c echo.Context) error {
	var rows []domain.Category
	if err := GetDB(c).Order("id ASC").Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "Error", "Failed to query categories", nil)
	}
	return ok(c, rows)
}

type categoryPayload struct {
	CategoryName string `json:"category_name" form:"category_name"`
}

func createCategory(c echo.Context) error {
	var payload categoryPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Error", "Unable to parse category body", nil)
	}
	name := strings.TrimSpace(payload.CategoryName)
	if name == "" {
		return fail(c, http.StatusBadRequest, "Error", "Category name cannot be null", nil)
	}

	row := domain.Category{ID: common.UUIDint64(), CategoryName: name}
	if err := GetDB(c).Create(&row).Error; err != nil {
		if isDuplicateKey(err) {
			return fail(c, http.StatusBadRequest, "Error", "Category name already exists", nil)
		}
		return fail(c, http.StatusInternalServerError, "Error", "Failed to create category", nil)
	}
	return created(c, row)
}

func updateCategory(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "Error", "Invalid category ID", nil)
	}

	var payload categoryPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Error", "Unable to parse category body", nil)
	}
	name := strings.TrimSpace(payload.CategoryName)
	if name == "" {
		return fail(c, http.StatusBadRequest, "Error", "Category name cannot be null", nil)
	}

	var row domain.Category
	if err := GetDB(c).Where("id = ?", id).First(&row).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "Error", "Category not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "Error", "Failed to query category", nil)
	}

	err = GetDB(c).Model(&row).Updates(map[string]interface{}{
		"category_name": name,
		"updated_at":    time.Now(),
	}).Error
	if err != nil {
		if isDuplicateKey(err) {
			return fail(c, http.StatusBadRequest, "Error", "Category name already exists", nil)
		}
		return fail(c, http.StatusInternalServerError, "Error", "Failed to update category", nil)
	}
	return ok(c, row)
}

func deleteCategory(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "Error", "Invalid category ID", nil)
	}
	if err := GetDB(c).Where("id = ?", id).Delete(&domain.Category{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "Error", "Failed to delete category", nil)
	}
	return ok(c, map[string]interface{}{"id": id})
}
