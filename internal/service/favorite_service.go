package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/umuhuza/umuhuza_api/internal/models"
	"github.com/umuhuza/umuhuza_api/internal/utils"
)

// FavoriteService manages the user to product bookmark relation.
type FavoriteService struct {
	favorites FavoriteStore
	products  ProductStore
	locks     *keyedMutex
}

// NewFavoriteService creates a new FavoriteService.
func NewFavoriteService(favorites FavoriteStore, products ProductStore) *FavoriteService {
	return &FavoriteService{
		favorites: favorites,
		products:  products,
		locks:     newKeyedMutex(),
	}
}

// IsFavorited reports whether user bookmarked productID. Anonymous users have no favorites.
func (s *FavoriteService) IsFavorited(ctx context.Context, user *models.User, productID string) (bool, error) {
	if user == nil {
		return false, nil
	}
	return s.favorites.Exists(ctx, user.ID, productID)
}

// List returns the user's favorite records.
func (s *FavoriteService) List(ctx context.Context, user *models.User) ([]models.Favorite, error) {
	if user == nil {
		return nil, utils.ErrLoginRequired
	}
	favorites, err := s.favorites.ListByUser(ctx, user.ID)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to list favorites")
		return []models.Favorite{}, nil
	}
	return favorites, nil
}

// Products returns the approved products the user bookmarked.
func (s *FavoriteService) Products(ctx context.Context, user *models.User) ([]models.Product, error) {
	favorites, err := s.List(ctx, user)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(favorites))
	for _, f := range favorites {
		ids = append(ids, f.ProductID)
	}
	products, err := s.products.ListByIDs(ctx, ids, models.ProductApproved)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to load favorite products")
		return []models.Product{}, nil
	}
	return products, nil
}

// Toggle flips the bookmark of productID for user. Toggles of the same pair
// run one at a time, so a double submit resolves to two clean transitions.
func (s *FavoriteService) Toggle(ctx context.Context, user *models.User, productID string) (*models.ToggleResult, error) {
	if user == nil {
		return nil, utils.ErrLoginRequired
	}
	if productID == "" {
		return nil, fmt.Errorf("%w: product id is required", utils.ErrValidation)
	}

	unlock := s.locks.Lock(user.ID + "|" + productID)
	defer unlock()

	exists, err := s.favorites.Exists(ctx, user.ID, productID)
	if err != nil {
		return nil, fmt.Errorf("check favorite: %w", err)
	}

	if exists {
		if _, err := s.favorites.Delete(ctx, user.ID, productID); err != nil {
			return nil, fmt.Errorf("delete favorite: %w", err)
		}
		log.Info().Str("user_id", user.ID).Str("product_id", productID).Msg("Favorite removed")
		return &models.ToggleResult{ProductID: productID, Favorited: false}, nil
	}

	if _, err := s.products.GetByID(ctx, productID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrNotFound
		}
		return nil, fmt.Errorf("load product: %w", err)
	}
	if _, err := s.favorites.Create(ctx, user.ID, productID); err != nil {
		return nil, fmt.Errorf("create favorite: %w", err)
	}
	log.Info().Str("user_id", user.ID).Str("product_id", productID).Msg("Favorite added")
	return &models.ToggleResult{ProductID: productID, Favorited: true}, nil
}
