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
)

func registerProfileRoutes() {
	webserver.ApiGET("/profile/:uuid", getProfile)
	webserver.ApiPATCH("/profile/:uuid", updateProfile)
}

// ownerOrAdmin allows a user to touch only their own profile; admins may
// touch any.
func ownerOrAdmin(c echo.Context, userID int64) bool {
	claims := webserver.GetClaims(c)
	if claims == nil {
		return false
	}
	return claims.Role == "admin" || claims.UserId == userID
}

func getProfile(c echo.Context) error {
	userID, err := parseIDParam(c, "uuid")
	if err != nil {
		return fail(c, http.StatusBadRequest, "Error", "Invalid user ID", nil)
	}
	if !ownerOrAdmin(c, userID) {
		return fail(c, http.StatusForbidden, "Forbidden", "Access denied, insufficient permissions", nil)
	}

	var profile domain.Profile
	err = GetDB(c).Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "Error", "Profile not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "Error", "Failed to query profile", nil)
	}
	return ok(c, profile)
}

type profilePayload struct {
	FullName    string `json:"full_name" form:"full_name"`
	PhoneNumber string `json:"phone_number" form:"phone_number"`
	Address     string `json:"address" form:"address"`
	AvatarUrl   string `json:"avatar_url" form:"avatar_url"`
}

func updateProfile(c echo.Context) error {
	userID, err := parseIDParam(c, "uuid")
	if err != nil {
		return fail(c, http.StatusBadRequest, "Error", "Invalid user ID", nil)
	}
	if !ownerOrAdmin(c, userID) {
		return fail(c, http.StatusForbidden, "Forbidden", "Access denied, insufficient permissions", nil)
	}

	var profile domain.Profile
	err = GetDB(c).Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "Error", "Profile not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "Error", "Failed to query profile", nil)
	}

	var payload profilePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Error", "Unable to parse profile body", nil)
	}

	updates := map[string]interface{}{"updated_at": time.Now()}
	if v := strings.TrimSpace(payload.FullName); v != "" {
		updates["full_name"] = v
	}
	if v := strings.TrimSpace(payload.PhoneNumber); v != "" {
		updates["phone_number"] = v
	}
	if v := strings.TrimSpace(payload.Address); v != "" {
		updates["address"] = v
	}
	if v := strings.TrimSpace(payload.AvatarUrl); v != "" {
		updates["avatar_url"] = v
	}

	if err := GetDB(c).Model(&domain.Profile{}).Where("user_id = ?", userID).Updates(updates).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "Error", "Failed to update profile", nil)
	}

	GetDB(c).Where("user_id = ?", userID).First(&profile)
	return ok(c, profile)
}
