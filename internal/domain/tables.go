package domain

var Tables = []interface{}{
	// System
	&SysConfig{},
	&SysOprLog{},
	// Accounts
	&User{},
	&Profile{},
	&Testimonial{},
	// Catalog
	&Category{},
	&Product{},
	&ProductImage{},
	&Promo{},
	&ProductSize{},
	&FdOption{},
	// Orders
	&PaymentMethod{},
	&ShippingMethod{},
	&OrderStatus{},
	&Transaction{},
	&TransactionItem{},
}
