package domain

import "time"

type Category struct {
	ID           int64     `json:"id,string" form:"id"`
	CategoryName string    `gorm:"uniqueIndex;size:100" json:"category_name" form:"category_name"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Category) TableName() string {
	return "categories"
}

// Product is a catalog item. Prices are integers in the smallest currency
// unit. Order lines snapshot the name and resolved price at purchase time,
// so later edits here never change past orders.
type Product struct {
	ID          int64     `json:"id,string" form:"id"`
	ProductName string    `gorm:"uniqueIndex;size:200" json:"product_name" form:"product_name"`
	Price       int64     `json:"price" form:"price"`
	Description string    `gorm:"size:2000" json:"description" form:"description"`
	CategoryId  int64     `gorm:"index" json:"category_id,string" form:"category_id"`
	Stock       int       `json:"stock" form:"stock"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}

// ProductImage stores one image URL per row, 1..3 rows per product.
type ProductImage struct {
	ID        int64     `json:"id,string" form:"id"`
	ProductId int64     `gorm:"index" json:"product_id,string" form:"product_id"`
	ImgUrl    string    `gorm:"size:1024" json:"img_url" form:"img_url"`
	CreatedAt time.Time `json:"created_at"`
}

func (ProductImage) TableName() string {
	return "product_images"
}

// Promo holds a discounted price for one product over a period. The
// pricing resolver prefers an active promo price over the base price.
type Promo struct {
	ID            int64      `json:"id,string" form:"id"`
	ProductId     int64      `gorm:"index" json:"product_id,string" form:"product_id"`
	DiscountPrice int64      `json:"discount_price" form:"discount_price"`
	StartedAt     *time.Time `json:"started_at" form:"started_at"`
	ExpiredAt     *time.Time `json:"expired_at" form:"expired_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (Promo) TableName() string {
	return "promos"
}

// ProductSize is a size tier with a flat surcharge added on top of the
// resolved product price.
type ProductSize struct {
	ID        int64     `json:"id,string" form:"id"`
	Size      string    `gorm:"uniqueIndex;size:50" json:"size" form:"size"`
	Surcharge int64     `json:"surcharge" form:"surcharge"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ProductSize) TableName() string {
	return "product_sizes"
}

// FdOption is a food-and-drink modifier option (hot/cold, dine-in/away).
type FdOption struct {
	ID        int64     `json:"id,string" form:"id"`
	Option    string    `gorm:"uniqueIndex;size:50" json:"option" form:"option"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (FdOption) TableName() string {
	return "fd_options"
}
