package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/umuhuza/umuhuza_api/internal/filter"
	"github.com/umuhuza/umuhuza_api/internal/models"
	"github.com/umuhuza/umuhuza_api/internal/utils"
)

// SavedFilterService stores named browse filters per user.
type SavedFilterService struct {
	filters SavedFilterStore
}

// NewSavedFilterService creates a new SavedFilterService.
func NewSavedFilterService(filters SavedFilterStore) *SavedFilterService {
	return &SavedFilterService{filters: filters}
}

// List returns the user's saved filters.
func (s *SavedFilterService) List(ctx context.Context, user *models.User) ([]models.SavedFilter, error) {
	if user == nil {
		return nil, utils.ErrLoginRequired
	}
	filters, err := s.filters.ListByUser(ctx, user.ID)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to list saved filters")
		return []models.SavedFilter{}, nil
	}
	return filters, nil
}

// Save stores a snapshot of state under name and returns the refreshed list.
func (s *SavedFilterService) Save(ctx context.Context, user *models.User, name string, state filter.State) ([]models.SavedFilter, error) {
	if user == nil {
		return nil, utils.ErrLoginRequired
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, utils.ErrFilterNameRequired
	}

	category, action, snap := state.Snapshot()
	f := &models.SavedFilter{
		UserID:     user.ID,
		Name:       name,
		Category:   category,
		ActionType: action,
		Filters:    snap,
	}
	if err := s.filters.Create(ctx, f); err != nil {
		return nil, fmt.Errorf("save filter: %w", err)
	}
	log.Info().Str("user_id", user.ID).Str("filter_id", f.ID).Str("name", name).Msg("Filter saved")
	return s.List(ctx, user)
}

// Load returns a fresh filter state built from a saved filter. The result
// replaces the caller's state entirely.
func (s *SavedFilterService) Load(ctx context.Context, user *models.User, id string) (filter.State, error) {
	if user == nil {
		return filter.State{}, utils.ErrLoginRequired
	}
	f, err := s.filters.GetByID(ctx, user.ID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return filter.State{}, utils.ErrNotFound
		}
		return filter.State{}, fmt.Errorf("load filter: %w", err)
	}
	return filter.FromSnapshot(f.Category, f.ActionType, f.Filters), nil
}

// Delete removes one of the user's saved filters and returns the refreshed list.
func (s *SavedFilterService) Delete(ctx context.Context, user *models.User, id string) ([]models.SavedFilter, error) {
	if user == nil {
		return nil, utils.ErrLoginRequired
	}
	if err := s.filters.Delete(ctx, user.ID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrNotFound
		}
		return nil, fmt.Errorf("delete filter: %w", err)
	}
	log.Info().Str("user_id", user.ID).Str("filter_id", id).Msg("Filter deleted")
	return s.List(ctx, user)
}
