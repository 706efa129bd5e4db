package api

import (
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/kopihub/kopihub/internal/domain"
	"github.com/kopihub/kopihub/internal/webserver"
	"github.com/kopihub/kopihub/pkg/common"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@gmail\.com$`)

func registerAuthRoutes() {
	webserver.PubPOST("/user/register", register)
	webserver.PubPOST("/user/login", login)
}

type registerPayload struct {
	UserEmail string `json:"user_email" form:"user_email"`
	UserPass  string `json:"user_pass" form:"user_pass"`
}

const defaultAvatarUrl = "https://res.cloudinary.com/drppjxoxb/image/upload/v1727346163/coffeeshops/profileDefault.jpg"

// register creates the account and a placeholder profile in one
// transaction, then queues the welcome mail.
func register(c echo.Context) error {
	var payload registerPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Registration failed", "Unable to parse registration body", nil)
	}

	payload.UserEmail = strings.TrimSpace(payload.UserEmail)
	if !emailPattern.MatchString(payload.UserEmail) {
		return fail(c, http.StatusBadRequest, "Registration failed", "Email must end with @gmail.com.", nil)
	}
	if len(payload.UserPass) < 6 {
		return fail(c, http.StatusBadRequest, "Registration failed", "Password must be at least 6 characters long.", nil)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(payload.UserPass), bcrypt.DefaultCost)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Error", "Internal Server Error", nil)
	}

	user := domain.User{
		ID:       common.UUIDint64(),
		Email:    payload.UserEmail,
		Password: string(hashed),
		Role:     "user",
	}

	err = GetDB(c).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		profile := domain.Profile{
			ID:          common.UUIDint64(),
			UserId:      user.ID,
			FullName:    "full name",
			PhoneNumber: "phone number",
			Address:     "address",
			AvatarUrl:   defaultAvatarUrl,
		}
		return tx.Create(&profile).Error
	})
	if err != nil {
		if isDuplicateKey(err) {
			return fail(c, http.StatusConflict, "Registration failed",
				"Email already registered. Please login or use a different email.", nil)
		}
		return fail(c, http.StatusInternalServerError, "Error", "Internal Server Error", nil)
	}

	xapp.SendWelcomeMail(user.Email)

	return created(c, map[string]interface{}{
		"id":    user.ID,
		"email": user.Email,
		"role":  user.Role,
	})
}

type loginPayload struct {
	UserEmail string `json:"user_email" form:"user_email"`
	UserPass  string `json:"user_pass" form:"user_pass"`
}

func login(c echo.Context) error {
	var payload loginPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Error", "Unable to parse login body", nil)
	}

	var user domain.User
	err := GetDB(c).Where("email = ?", strings.TrimSpace(payload.UserEmail)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusUnauthorized, "Error", "The email you entered is incorrect", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "Error", "Internal Server Error", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(payload.UserPass)); err != nil {
		return fail(c, http.StatusUnauthorized, "Error", "The password you entered is incorrect", nil)
	}

	token, err := webserver.SignToken(xapp.Config(), user.ID, user.Email, user.Role)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Error", "Internal Server Error", nil)
	}

	GetDB(c).Model(&domain.User{}).Where("id = ?", user.ID).
		Update("last_login", time.Now())

	return c.JSON(http.StatusOK, response{
		Code: http.StatusOK,
		Msg:  "Welcome, " + user.Email + "!",
		Data: map[string]interface{}{
			"token": token,
			"id":    user.ID,
			"role":  user.Role,
		},
	})
}
