// Package api exposes the storefront REST endpoints. Every response is a
// JSON envelope: {code, msg, data?, error?, meta?}.
package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/kopihub/kopihub/config"
	"github.com/kopihub/kopihub/internal/order"
)

// AppContext is what the handlers need from the application container.
type AppContext interface {
	DB() *gorm.DB
	Config() *config.AppConfig
	Orders() *order.Service
	Reconciler() *order.Reconciler
	SendWelcomeMail(to string)
}

var xapp AppContext

// Init wires the handlers to the application and registers all routes.
func Init(appCtx AppContext) {
	xapp = appCtx
	registerAuthRoutes()
	registerProfileRoutes()
	registerCategoryRoutes()
	registerProductRoutes()
	registerPromoRoutes()
	registerPaymentRoutes()
	registerShippingRoutes()
	registerSizeRoutes()
	registerStatusRoutes()
	registerTestimonialRoutes()
	registerTransactionRoutes()
}

// GetDB returns the request-scoped database handle.
func GetDB(c echo.Context) *gorm.DB {
	return xapp.DB().WithContext(c.Request().Context())
}

type errorBody struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

type pageMeta struct {
	TotalData int64   `json:"totalData"`
	TotalPage int64   `json:"totalPage"`
	Page      int     `json:"page"`
	PrevLink  *string `json:"prevLink"`
	NextLink  *string `json:"nextLink"`
}

type response struct {
	Code  int         `json:"code"`
	Msg   string      `json:"msg"`
	Data  interface{} `json:"data,omitempty"`
	Error *errorBody  `json:"error,omitempty"`
	Meta  *pageMeta   `json:"meta,omitempty"`
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, response{Code: http.StatusOK, Msg: "success", Data: data})
}

func created(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusCreated, response{Code: http.StatusCreated, Msg: "success", Data: data})
}

func fail(c echo.Context, status int, msg, message string, details interface{}) error {
	return c.JSON(status, response{
		Code:  status,
		Msg:   msg,
		Error: &errorBody{Message: message, Details: details},
	})
}

func paged(c echo.Context, data interface{}, total int64, page, pageSize int) error {
	totalPage := total / int64(pageSize)
	if total%int64(pageSize) != 0 {
		totalPage++
	}
	prev, next := pageLinks(c, page, totalPage)
	return c.JSON(http.StatusOK, response{
		Code: http.StatusOK,
		Msg:  "success",
		Data: data,
		Meta: &pageMeta{
			TotalData: total,
			TotalPage: totalPage,
			Page:      page,
			PrevLink:  prev,
			NextLink:  next,
		},
	})
}

// pageLinks builds the prev/next URLs off the current request. prevLink is
// nil on the first page, nextLink is nil on (or past) the last page.
func pageLinks(c echo.Context, page int, totalPage int64) (prev, next *string) {
	buildLink := func(target int) *string {
		u := *c.Request().URL
		q := u.Query()
		q.Set("page", strconv.Itoa(target))
		u.RawQuery = q.Encode()
		link := u.String()
		return &link
	}
	if page > 1 {
		prev = buildLink(page - 1)
	}
	if int64(page) < totalPage {
		next = buildLink(page + 1)
	}
	return prev, next
}

func parsePagination(c echo.Context, defaultLimit int) (page, pageSize int) {
	page = 1
	if p, err := strconv.Atoi(c.QueryParam("page")); err == nil && p > 0 {
		page = p
	}
	pageSize = defaultLimit
	if ps, err := strconv.Atoi(c.QueryParam("limit")); err == nil && ps > 0 && ps <= 100 {
		pageSize = ps
	}
	return page, pageSize
}

func parseIDParam(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}

// Database errors bubble up from gorm; known constraint violations are
// pattern-matched into 400-level domain errors, everything else is a 500.

func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(err.Error(), "duplicate key value violates unique constraint")
}

func isNotNullViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "violates not-null constraint")
}
