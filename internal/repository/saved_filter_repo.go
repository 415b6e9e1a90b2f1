package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/umuhuza/umuhuza_api/internal/models"
)

const savedFilterColumns = `id, user_id, name, category, action_type, filters, created_at`

// SavedFilterRepository handles data access for saved browse filters.
type SavedFilterRepository struct {
	db *sqlx.DB
}

// NewSavedFilterRepository creates a new SavedFilterRepository.
func NewSavedFilterRepository(db *sqlx.DB) *SavedFilterRepository {
	return &SavedFilterRepository{db: db}
}

// ListByUser returns a user's saved filters in creation order.
func (r *SavedFilterRepository) ListByUser(ctx context.Context, userID string) ([]models.SavedFilter, error) {
	filters := []models.SavedFilter{}
	err := r.db.SelectContext(ctx, &filters,
		`SELECT `+savedFilterColumns+` FROM saved_filters WHERE user_id = $1 ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, err
	}
	return filters, nil
}

// GetByID returns a saved filter owned by userID.
func (r *SavedFilterRepository) GetByID(ctx context.Context, userID, id string) (*models.SavedFilter, error) {
	var f models.SavedFilter
	err := r.db.GetContext(ctx, &f,
		`SELECT `+savedFilterColumns+` FROM saved_filters WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// Create stores a new saved filter.
func (r *SavedFilterRepository) Create(ctx context.Context, f *models.SavedFilter) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return r.db.QueryRowxContext(ctx, `
		INSERT INTO saved_filters (id, user_id, name, category, action_type, filters)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`,
		f.ID, f.UserID, f.Name, f.Category, f.ActionType, f.Filters,
	).Scan(&f.CreatedAt)
}

// Delete removes a saved filter owned by userID.
func (r *SavedFilterRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM saved_filters WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	return expectOne(res)
}
