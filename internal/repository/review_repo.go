package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/umuhuza/umuhuza_api/internal/models"
)

const reviewColumns = `id, product_id, product_title, seller_id, seller_email,
	reviewer_id, reviewer_name, reviewer_email, rating, review_text, status, created_at`

// ReviewRepository handles data access for product reviews.
type ReviewRepository struct {
	db *sqlx.DB
}

// NewReviewRepository creates a new ReviewRepository.
func NewReviewRepository(db *sqlx.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Exists reports whether reviewerID already reviewed productID.
func (r *ReviewRepository) Exists(ctx context.Context, productID, reviewerID string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM reviews WHERE product_id = $1 AND reviewer_id = $2)`, productID, reviewerID)
	return exists, err
}

// CreateAndRate stores a review and folds its rating into the product's
// running average in one transaction.
func (r *ReviewRepository) CreateAndRate(ctx context.Context, rv *models.Review) error {
	if rv.ID == "" {
		rv.ID = uuid.NewString()
	}
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		err := tx.QueryRowxContext(ctx, `
			INSERT INTO reviews (id, product_id, product_title, seller_id, seller_email,
				reviewer_id, reviewer_name, reviewer_email, rating, review_text, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			RETURNING created_at`,
			rv.ID, rv.ProductID, rv.ProductTitle, rv.SellerID, rv.SellerEmail,
			rv.ReviewerID, rv.ReviewerName, rv.ReviewerEmail, rv.Rating, rv.ReviewText, rv.Status,
		).Scan(&rv.CreatedAt)
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		if err != nil {
			return fmt.Errorf("insert review: %w", err)
		}
		res, err := tx.ExecContext(ctx, `
			UPDATE products SET
				average_rating = (average_rating * review_count + $2) / (review_count + 1),
				review_count = review_count + 1
			WHERE id = $1`, rv.ProductID, rv.Rating)
		if err != nil {
			return fmt.Errorf("update rating: %w", err)
		}
		return expectOne(res)
	})
}

// ListByProduct returns a product's reviews with the given status, newest first.
func (r *ReviewRepository) ListByProduct(ctx context.Context, productID string, status models.ReviewStatus) ([]models.Review, error) {
	reviews := []models.Review{}
	err := r.db.SelectContext(ctx, &reviews, `
		SELECT `+reviewColumns+` FROM reviews
		WHERE product_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC`, productID, string(status))
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

// ListBySeller returns every review on a seller's products, newest first.
func (r *ReviewRepository) ListBySeller(ctx context.Context, sellerID string) ([]models.Review, error) {
	reviews := []models.Review{}
	err := r.db.SelectContext(ctx, &reviews,
		`SELECT `+reviewColumns+` FROM reviews WHERE seller_id = $1 ORDER BY created_at DESC`, sellerID)
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

// List returns the most recent reviews, optionally filtered by status.
func (r *ReviewRepository) List(ctx context.Context, status models.ReviewStatus, limit int) ([]models.Review, error) {
	if limit <= 0 {
		limit = 500
	}
	reviews := []models.Review{}
	err := r.db.SelectContext(ctx, &reviews, `
		SELECT `+reviewColumns+` FROM reviews
		WHERE ($1 = '' OR status = $1) ORDER BY created_at DESC LIMIT $2`, string(status), limit)
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

// UpdateStatus moderates a review.
func (r *ReviewRepository) UpdateStatus(ctx context.Context, id string, status models.ReviewStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE reviews SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	return expectOne(res)
}
