package domain

import "time"

// Reference tables

type PaymentMethod struct {
	ID            int64     `json:"id,string" form:"id"`
	PaymentMethod string    `gorm:"uniqueIndex;size:100" json:"payment_method" form:"payment_method"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (PaymentMethod) TableName() string {
	return "payments"
}

type ShippingMethod struct {
	ID             int64     `json:"id,string" form:"id"`
	ShippingMethod string    `gorm:"uniqueIndex;size:100" json:"shipping_method" form:"shipping_method"`
	Cost           int64     `json:"cost" form:"cost"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (ShippingMethod) TableName() string {
	return "shippings"
}

type OrderStatus struct {
	ID        int64     `json:"id,string" form:"id"`
	Status    string    `gorm:"uniqueIndex;size:50" json:"status" form:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (OrderStatus) TableName() string {
	return "status_transactions"
}

// Transaction is an order header. Created once per checkout and mutated
// only through status transitions; never deleted in normal flow.
// Amounts are integers in the smallest currency unit and satisfy
// grand_total = subtotal + tax at creation time.
type Transaction struct {
	ID          int64     `json:"id,string" form:"id"`
	UserId      int64     `gorm:"index" json:"user_id,string" form:"user_id"`
	ShippingId  int64     `json:"shipping_id,string" form:"shipping_id"`
	StatusId    int64     `gorm:"index" json:"status_id,string" form:"status_id"`
	Subtotal    int64     `json:"subtotal" form:"subtotal"`
	Tax         int64     `json:"tax" form:"tax"`
	GrandTotal  int64     `json:"grand_total" form:"grand_total"`
	FullName    string    `gorm:"size:200" json:"full_name" form:"full_name"`
	Address     string    `gorm:"size:500" json:"address" form:"address"`
	UserEmail   string    `gorm:"size:200" json:"user_email" form:"user_email"`
	PaymentType string    `gorm:"size:50" json:"payment_type" form:"payment_type"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Transaction) TableName() string {
	return "transactions"
}

// TransactionItem is one order line. Name and unit price are snapshotted
// from the catalog at order time and are immutable afterwards.
type TransactionItem struct {
	ID            int64     `json:"id,string" form:"id"`
	TransactionId int64     `gorm:"index" json:"transaction_id,string" form:"transaction_id"`
	ProductId     int64     `json:"product_id,string" form:"product_id"`
	SizeId        int64     `json:"size_id,string" form:"size_id"`
	FdOptionId    *int64    `json:"fd_option_id,string,omitempty" form:"fd_option_id"`
	ProductName   string    `gorm:"size:200" json:"product_name" form:"product_name"`
	ProductPrice  int64     `json:"product_price" form:"product_price"`
	Quantity      int       `gorm:"default:1" json:"quantity" form:"quantity"`
	CreatedAt     time.Time `json:"created_at"`
}

func (TransactionItem) TableName() string {
	return "transaction_products"
}
