package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/umuhuza/umuhuza_api/internal/models"
)

// FavoriteRepository handles data access for favorites.
type FavoriteRepository struct {
	db *sqlx.DB
}

// NewFavoriteRepository creates a new FavoriteRepository.
func NewFavoriteRepository(db *sqlx.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// ListByUser returns a user's favorites, newest first.
func (r *FavoriteRepository) ListByUser(ctx context.Context, userID string) ([]models.Favorite, error) {
	favorites := []models.Favorite{}
	err := r.db.SelectContext(ctx, &favorites, `
		SELECT id, user_id, product_id, created_at FROM favorites
		WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	return favorites, nil
}

// Exists reports whether userID favorited productID.
func (r *FavoriteRepository) Exists(ctx context.Context, userID, productID string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM favorites WHERE user_id = $1 AND product_id = $2)`, userID, productID)
	return exists, err
}

// Create adds a favorite. It reports false when the pair already existed.
func (r *FavoriteRepository) Create(ctx context.Context, userID, productID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO favorites (id, user_id, product_id) VALUES ($1, $2, $3)
		ON CONFLICT (user_id, product_id) DO NOTHING`, uuid.NewString(), userID, productID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// Delete removes a favorite. It reports false when there was nothing to remove.
func (r *FavoriteRepository) Delete(ctx context.Context, userID, productID string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM favorites WHERE user_id = $1 AND product_id = $2`, userID, productID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
