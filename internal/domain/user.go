package domain

import "time"

// User represents a storefront account. Passwords are stored as bcrypt
// hashes, never in the clear.
type User struct {
	ID        int64     `json:"id,string" form:"id"`
	Email     string    `gorm:"uniqueIndex;size:200" json:"email" form:"email"`
	Password  string    `json:"-" form:"-"`
	Role      string    `gorm:"size:20;index;default:'user'" json:"role" form:"role"`
	LastLogin time.Time `json:"last_login"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// Profile is the 1:1 user profile, created with placeholder defaults at
// registration and mutated independently later.
type Profile struct {
	ID          int64     `json:"id,string" form:"id"`
	UserId      int64     `gorm:"uniqueIndex" json:"user_id,string" form:"user_id"`
	FullName    string    `gorm:"size:200" json:"full_name" form:"full_name"`
	PhoneNumber string    `gorm:"size:30" json:"phone_number" form:"phone_number"`
	Address     string    `gorm:"size:500" json:"address" form:"address"`
	AvatarUrl   string    `gorm:"size:1024" json:"avatar_url" form:"avatar_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Profile) TableName() string {
	return "profiles"
}

// Testimonial is a customer review shown on the storefront.
type Testimonial struct {
	ID        int64     `json:"id,string" form:"id"`
	UserId    int64     `gorm:"index" json:"user_id,string" form:"user_id"`
	Rating    int       `json:"rating" form:"rating"`
	Comment   string    `gorm:"size:1000" json:"comment" form:"comment"`
	Status    string    `gorm:"size:20;default:'enabled'" json:"status" form:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Testimonial) TableName() string {
	return "testimonials"
}
