package models

import "time"

// Favorite links a user to a product they bookmarked. (user_id, product_id) is unique.
type Favorite struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"userId"`
	ProductID string    `db:"product_id" json:"productId"`
	CreatedAt time.Time `db:"created_at" json:"createdDate"`
}

// ToggleResult reports the membership after a favorite toggle.
type ToggleResult struct {
	ProductID string `json:"productId"`
	Favorited bool   `json:"favorited"`
}
