package models

import "time"

type ReviewStatus string

const (
	ReviewPending  ReviewStatus = "pending"
	ReviewApproved ReviewStatus = "approved"
	ReviewRejected ReviewStatus = "rejected"
)

// Review is a buyer's rating of a product. New reviews wait for moderation.
type Review struct {
	ID            string       `db:"id" json:"id"`
	ProductID     string       `db:"product_id" json:"productId"`
	ProductTitle  string       `db:"product_title" json:"productTitle"`
	SellerID      string       `db:"seller_id" json:"sellerId"`
	SellerEmail   string       `db:"seller_email" json:"sellerEmail"`
	ReviewerID    string       `db:"reviewer_id" json:"reviewerId"`
	ReviewerName  string       `db:"reviewer_name" json:"reviewerName"`
	ReviewerEmail string       `db:"reviewer_email" json:"reviewerEmail"`
	Rating        int          `db:"rating" json:"rating"`
	ReviewText    string       `db:"review_text" json:"reviewText"`
	Status        ReviewStatus `db:"status" json:"status"`
	CreatedAt     time.Time    `db:"created_at" json:"createdDate"`
}

// SellerReviews is the seller dashboard view of reviews on their products.
type SellerReviews struct {
	All           []Review       `json:"all"`
	Approved      []Review       `json:"approved"`
	Pending       []Review       `json:"pending"`
	Rejected      []Review       `json:"rejected"`
	AverageRating float64        `json:"averageRating"`
	Distribution  []RatingBucket `json:"distribution"`
}

// RatingBucket counts approved reviews with one star value.
type RatingBucket struct {
	Rating     int     `json:"rating"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}
