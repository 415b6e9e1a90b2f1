package models

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is a marketplace account. Buyers and sellers share the same record.
type User struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FullName     string    `db:"full_name" json:"fullName"`
	Phone        string    `db:"phone" json:"phone"`
	Role         string    `db:"role" json:"role"`
	IsActive     bool      `db:"is_active" json:"isActive"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// IsAdmin reports whether the user may use the admin dashboard.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// AdminStats backs the admin dashboard counters.
type AdminStats struct {
	PendingProducts  int   `db:"pending_products" json:"pendingProducts"`
	ApprovedProducts int   `db:"approved_products" json:"approvedProducts"`
	TotalProducts    int   `db:"total_products" json:"totalProducts"`
	PendingPayments  int   `db:"pending_payments" json:"pendingPayments"`
	TotalRevenue     int64 `db:"total_revenue" json:"totalRevenue"`
	PendingReviews   int   `db:"pending_reviews" json:"pendingReviews"`
	TotalMessages    int   `db:"total_messages" json:"totalMessages"`
}
