package models

import "time"

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentConfirmed PaymentStatus = "confirmed"
)

// Payment records the commission a seller sent over MTN Mobile Money for a listing.
type Payment struct {
	ID           string        `db:"id" json:"id"`
	ProductID    string        `db:"product_id" json:"productId"`
	SellerID     string        `db:"seller_id" json:"sellerId"`
	SellerEmail  string        `db:"seller_email" json:"sellerEmail"`
	Amount       int64         `db:"amount" json:"amount"`
	ProductPrice float64       `db:"product_price" json:"productPrice"`
	PaymentPhone string        `db:"payment_phone" json:"paymentPhone"`
	Status       PaymentStatus `db:"status" json:"status"`
	CreatedAt    time.Time     `db:"created_at" json:"createdDate"`
	ConfirmedAt  *time.Time    `db:"confirmed_at" json:"confirmedAt,omitempty"`
}
