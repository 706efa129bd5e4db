package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kopihub/kopihub/internal/domain"
	"github.com/kopihub/kopihub/internal/order"
	"github.com/kopihub/kopihub/internal/webserver"
)

func registerTransactionRoutes() {
	webserver.ApiPOST("/transaction/add", createTransaction)
	webserver.ApiGET("/transaction/history-order/:uuid", listHistoryOrders)
	webserver.ApiGET("/transaction/detail-history/:uuid", getHistoryDetail)
	// authenticated solely by the signature scheme, never by a bearer token
	webserver.PubPOST("/transaction/notification", transactionNotification)
}

func createTransaction(c echo.Context) error {
	var req order.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Error", "Unable to parse transaction body", nil)
	}

	claims := webserver.GetClaims(c)
	if claims == nil {
		return fail(c, http.StatusUnauthorized, "Forbidden", "missing token claims", nil)
	}
	if req.UserId == 0 {
		req.UserId = claims.UserId
	} else if claims.Role != "admin" && req.UserId != claims.UserId {
		return fail(c, http.StatusForbidden, "Forbidden", "Access denied, insufficient permissions", nil)
	}

	result, err := xapp.Orders().CreateOrder(c.Request().Context(), req)
	switch {
	case err == nil:
		return created(c, result)
	case errors.Is(err, order.ErrEmptyCart):
		return fail(c, http.StatusBadRequest, "Error", "Cart cannot be empty", nil)
	case errors.Is(err, order.ErrProductNotFound):
		return fail(c, http.StatusNotFound, "Error ID Product", "Product Not Found", nil)
	case errors.Is(err, order.ErrGateway):
		return fail(c, http.StatusBadRequest, "Transaction failed", "Unable to process payment with Midtrans", nil)
	default:
		return fail(c, http.StatusInternalServerError, "Internal Server Error", "Unknown error occurred", nil)
	}
}

type historyRow struct {
	ID         int64     `json:"id,string"`
	GrandTotal int64     `json:"grand_total"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"-"`
	Created    string    `json:"created_at" gorm:"-"`
}

func listHistoryOrders(c echo.Context) error {
	userID, err := parseIDParam(c, "uuid")
	if err != nil {
		return fail(c, http.StatusBadRequest, "Error", "Invalid user ID", nil)
	}
	if !ownerOrAdmin(c, userID) {
		return fail(c, http.StatusForbidden, "Forbidden", "Access denied, insufficient permissions", nil)
	}

	page, pageSize := parsePagination(c, 4)

	base := GetDB(c).Model(&domain.Transaction{}).
		Joins("INNER JOIN status_transactions st ON transactions.status_id = st.id").
		Where("transactions.user_id = ?", userID)

	if status := c.QueryParam("status"); status != "" {
		switch status {
		case "1", "2", "3":
			base = base.Where("transactions.status_id = ?", status)
		default:
			return fail(c, http.StatusBadRequest, "Error", "Invalid status", nil)
		}
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "Error", "Failed to query transactions", nil)
	}
	if total == 0 {
		return fail(c, http.StatusNotFound, "Error", "Transaction Data Not Found", nil)
	}

	var rows []historyRow
	err = base.
		Select("transactions.id, transactions.grand_total, transactions.created_at, st.status").
		Order("transactions.created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Scan(&rows).Error
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Error", "Failed to query transactions", nil)
	}
	for i := range rows {
		rows[i].Created = rows[i].CreatedAt.Format("02-January-2006")
	}

	return paged(c, rows, total, page, pageSize)
}

type historyInfo struct {
	FullName       string    `json:"full_name"`
	PhoneNumber    string    `json:"phone_number"`
	Address        string    `json:"address"`
	PaymentType    string    `json:"payment_type"`
	ShippingMethod string    `json:"shipping_method"`
	Status         string    `json:"status"`
	GrandTotal     int64     `json:"grand_total"`
	Subtotal       int64     `json:"subtotal"`
	Tax            int64     `json:"tax"`
	Created        string    `json:"created_at" gorm:"-"`
	CreatedAt      time.Time `json:"-"`
}

type historyProduct struct {
	ImgUrl       string `json:"img_product"`
	ProductName  string `json:"product_name"`
	ProductPrice int64  `json:"product_price"`
	Quantity     int    `json:"quantity"`
	Size         string `json:"size"`
	Option       string `json:"option"`
}

func getHistoryDetail(c echo.Context) error {
	trxID, err := parseIDParam(c, "uuid")
	if err != nil {
		return fail(c, http.StatusBadRequest, "Error", "Invalid transaction ID", nil)
	}

	var trx domain.Transaction
	if err := GetDB(c).Where("id = ?", trxID).First(&trx).Error; err != nil {
		return fail(c, http.StatusNotFound, "No data found", "The requested details do not exist.", nil)
	}
	if !ownerOrAdmin(c, trx.UserId) {
		return fail(c, http.StatusForbidden, "Forbidden", "Access denied, insufficient permissions", nil)
	}

	var info historyInfo
	err = GetDB(c).Model(&domain.Transaction{}).
		Joins("INNER JOIN profiles p ON transactions.user_id = p.user_id").
		Joins("INNER JOIN shippings s ON transactions.shipping_id = s.id").
		Joins("INNER JOIN status_transactions st ON transactions.status_id = st.id").
		Where("transactions.id = ?", trxID).
		Select(`p.full_name, p.phone_number, transactions.address,
			transactions.payment_type, s.shipping_method, st.status,
			transactions.grand_total, transactions.subtotal, transactions.tax,
			transactions.created_at`).
		Scan(&info).Error
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Error", "Failed to query transaction detail", nil)
	}
	info.Created = info.CreatedAt.Format("02 January 2006 at 03:04 PM")

	var products []historyProduct
	err = GetDB(c).Model(&domain.TransactionItem{}).
		Joins("INNER JOIN product_sizes ps ON transaction_products.size_id = ps.id").
		Joins("LEFT JOIN fd_options fo ON transaction_products.fd_option_id = fo.id").
		Joins(`LEFT JOIN product_images pi ON pi.id = (
			SELECT id FROM product_images WHERE product_id = transaction_products.product_id ORDER BY id LIMIT 1)`).
		Where("transaction_products.transaction_id = ?", trxID).
		Select(`pi.img_url, transaction_products.product_name,
			transaction_products.product_price, transaction_products.quantity,
			ps.size, fo.option`).
		Scan(&products).Error
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Error", "Failed to query transaction products", nil)
	}
	if len(products) == 0 {
		return fail(c, http.StatusNotFound, "No data found", "The requested details do not exist.", nil)
	}

	return ok(c, map[string]interface{}{
		"info":    info,
		"product": products,
	})
}

// transactionNotification receives the gateway's status webhook. The
// signature check inside the reconciler is the only authentication.
func transactionNotification(c echo.Context) error {
	var notif order.Notification
	if err := c.Bind(&notif); err != nil {
		return fail(c, http.StatusBadRequest, "Error", "Unable to parse notification body", nil)
	}
	if notif.SignatureKey == "" {
		return fail(c, http.StatusBadRequest, "Error",
			"Missing or invalid 'data' or 'signature_key'",
			"The 'data' or 'signature_key' field is required in the request body.")
	}

	outcome, err := xapp.Reconciler().Apply(c.Request().Context(), notif)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, response{
			Code: http.StatusOK,
			Msg:  outcome.Message,
			Data: outcome,
		})
	case errors.Is(err, order.ErrInvalidSignature):
		return fail(c, http.StatusBadRequest, "Error", "Invalid signature key",
			"The provided signature_key does not match the calculated hash.")
	case errors.Is(err, order.ErrOrderNotFound):
		return fail(c, http.StatusNotFound, "Transaction not found", "Transaction not found", nil)
	case errors.Is(err, order.ErrUnknownStatus):
		return fail(c, http.StatusBadRequest, "Invalid transaction status", "Unknown transaction status", nil)
	case errors.Is(err, order.ErrInvalidTransition):
		return fail(c, http.StatusConflict, "Error", "Status transition not allowed", nil)
	default:
		return fail(c, http.StatusInternalServerError, "Internal Server Error", "Unknown error occurred", nil)
	}
}
