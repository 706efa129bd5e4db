// Package midtrans implements a minimal client for the Midtrans Snap
// hosted-checkout API and the webhook signature scheme.
package midtrans

import (
	"context"
	"encoding/base64"
	"fmt"
	"strconv"
	"time"

	"github.com/guonaihong/gout"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Config struct {
	ServerKey   string
	BaseURL     string
	FrontendURL string
	Timeout     time.Duration
}

type Client struct {
	cfg Config
}

func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{cfg: cfg}
}

// PaymentIntent describes one checkout to open on the hosted payment page.
type PaymentIntent struct {
	OrderId     string
	GrossAmount int64
	FullName    string
	Email       string
	Address     string
}

// PaymentSession is the gateway's answer: a token plus the hosted page URL.
type PaymentSession struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
}

type transactionDetails struct {
	OrderId     string `json:"order_id"`
	GrossAmount int64  `json:"gross_amount"`
}

type customerDetails struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Address  string `json:"address"`
}

type callbacks struct {
	Finish  string `json:"finish"`
	Error   string `json:"error"`
	Pending string `json:"pending"`
}

type snapRequest struct {
	TransactionDetails transactionDetails `json:"transaction_details"`
	CustomerDetails    customerDetails    `json:"customer_details"`
	Callbacks          callbacks          `json:"callbacks"`
}

type snapResponse struct {
	Token        string   `json:"token"`
	RedirectURL  string   `json:"redirect_url"`
	ErrorMessage []string `json:"error_messages"`
}

// CreateSession opens a Snap transaction for the given intent. The order id
// doubles as the idempotency key so a retried call cannot create a second
// payment intent for the same order.
func (c *Client) CreateSession(ctx context.Context, intent PaymentIntent) (*PaymentSession, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	historyURL := c.cfg.FrontendURL + "/history-order"
	payload := snapRequest{
		TransactionDetails: transactionDetails{
			OrderId:     intent.OrderId,
			GrossAmount: intent.GrossAmount,
		},
		CustomerDetails: customerDetails{
			FullName: intent.FullName,
			Email:    intent.Email,
			Address:  intent.Address,
		},
		Callbacks: callbacks{
			Finish:  historyURL,
			Error:   historyURL,
			Pending: historyURL,
		},
	}

	authString := base64.StdEncoding.EncodeToString([]byte(c.cfg.ServerKey + ":"))

	var resp snapResponse
	var code int
	err := gout.POST(c.cfg.BaseURL + "/snap/v1/transactions").
		WithContext(ctx).
		SetHeader(gout.H{
			"Accept":          "application/json",
			"Content-Type":    "application/json",
			"Authorization":   "Basic " + authString,
			"Idempotency-Key": intent.OrderId,
		}).
		SetJSON(payload).
		BindJSON(&resp).
		Code(&code).
		Do()
	if err != nil {
		return nil, errors.Wrap(err, "midtrans: snap request failed")
	}

	if code >= 300 || resp.Token == "" || resp.RedirectURL == "" {
		zap.L().Warn("midtrans snap rejected transaction",
			zap.String("order_id", intent.OrderId),
			zap.Int("http_code", code),
			zap.Strings("errors", resp.ErrorMessage))
		return nil, fmt.Errorf("midtrans: missing token or redirect url (http %d)", code)
	}

	return &PaymentSession{Token: resp.Token, RedirectURL: resp.RedirectURL}, nil
}

// FormatGross renders an amount the way the gateway echoes it back in
// notifications ("21000.00").
func FormatGross(amount int64) string {
	return strconv.FormatInt(amount, 10) + ".00"
}
