package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/kopihub/kopihub/internal/domain"
	"github.com/kopihub/kopihub/internal/webserver"
	"github.com/kopihub/kopihub/pkg/common"
)

func registerTestimonialRoutes() {
	webserver.PubGET("/testimonial", listTestimonials)
	webserver.ApiPOST("/testimonial", createTestimonial)
	webserver.AdminDELETE("/testimonial/:id", deleteTestimonial)
}

func listTestimonials(c echo.Context) error {
	page, pageSize := parsePagination(c, 10)

	db := GetDB(c).Model(&domain.Testimonial{}).Where("status = ?", common.ENABLED)
	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "Error", "Failed to query testimonials", nil)
	}

	var rows []domain.Testimonial
	if err := db.Order("id DESC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "Error", "Failed to query testimonials", nil)
	}
	return paged(c, rows, total, page, pageSize)
}

type testimonialPayload struct {
	Rating  int    `json:"rating" form:"rating"`
	Comment string `json:"comment" form:"comment"`
}

func createTestimonial(c echo.Context) error {
	claims := webserver.GetClaims(c)
	if claims == nil {
		return fail(c, http.StatusUnauthorized, "Forbidden", "missing token claims", nil)
	}

	var payload testimonialPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Error", "Unable to parse testimonial body", nil)
	}
	if payload.Rating < 1 || payload.Rating > 5 {
		return fail(c, http.StatusBadRequest, "Error", "Rating must be between 1 and 5", nil)
	}
	comment := strings.TrimSpace(payload.Comment)
	if comment == "" {
		return fail(c, http.StatusBadRequest, "Error", "Comment cannot be null", nil)
	}

	row := domain.Testimonial{
		ID:      common.UUIDint64(),
		UserId:  claims.UserId,
		Rating:  payload.Rating,
		Comment: comment,
		Status:  common.ENABLED,
	}
	if err := GetDB(c).Create(&row).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "Error", "Failed to create testimonial", nil)
	}
	return created(c, row)
}

func deleteTestimonial(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "Error", "Invalid testimonial ID", nil)
	}
	if err := GetDB(c).Where("id = ?", id).Delete(&domain.Testimonial{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "Error", "Failed to delete testimonial", nil)
	}
	return ok(c, map[string]interface{}{"id": id})
}
