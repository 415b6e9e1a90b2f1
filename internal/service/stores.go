package service

import (
	"context"
	"time"

	"github.com/umuhuza/umuhuza_api/internal/models"
)

// ProductStore is the product side of the entity store.
type ProductStore interface {
	List(ctx context.Context, q models.ProductQuery) ([]models.Product, error)
	ListByIDs(ctx context.Context, ids []string, status models.ProductStatus) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	CreateWithPayment(ctx context.Context, p *models.Product, pay *models.Payment) error
	UpdateByOwner(ctx context.Context, p *models.Product) error
	UpdateStatus(ctx context.Context, id string, status models.ProductStatus) error
	SetFeatured(ctx context.Context, id string, featured bool) error
	Delete(ctx context.Context, id, sellerID string) error
	AddViews(ctx context.Context, views map[string]int64) error
	Stats(ctx context.Context) (*models.AdminStats, error)
}

// ListingCache caches coarse listings by query key.
type ListingCache interface {
	Get(ctx context.Context, queryKey string) (products []models.Product, version string, ok bool, err error)
	Set(ctx context.Context, version, queryKey string, products []models.Product) error
	Invalidate(ctx context.Context) error
}

type FavoriteStore interface {
	ListByUser(ctx context.Context, userID string) ([]models.Favorite, error)
	Exists(ctx context.Context, userID, productID string) (bool, error)
	Create(ctx context.Context, userID, productID string) (bool, error)
	Delete(ctx context.Context, userID, productID string) (bool, error)
}

type SavedFilterStore interface {
	ListByUser(ctx context.Context, userID string) ([]models.SavedFilter, error)
	GetByID(ctx context.Context, userID, id string) (*models.SavedFilter, error)
	Create(ctx context.Context, f *models.SavedFilter) error
	Delete(ctx context.Context, userID, id string) error
}

type PaymentStore interface {
	GetByID(ctx context.Context, id string) (*models.Payment, error)
	GetByProductID(ctx context.Context, productID string) (*models.Payment, error)
	List(ctx context.Context, status models.PaymentStatus, limit int) ([]models.Payment, error)
	Confirm(ctx context.Context, id string) (*models.Payment, error)
}

type MessageStore interface {
	Create(ctx context.Context, m *models.Message) error
	ListForUser(ctx context.Context, userID string) ([]models.Message, error)
	List(ctx context.Context, limit int) ([]models.Message, error)
	MarkConversationRead(ctx context.Context, conversationID, userID string) (int64, error)
}

type ReviewStore interface {
	Exists(ctx context.Context, productID, reviewerID string) (bool, error)
	CreateAndRate(ctx context.Context, rv *models.Review) error
	ListByProduct(ctx context.Context, productID string, status models.ReviewStatus) ([]models.Review, error)
	ListBySeller(ctx context.Context, sellerID string) ([]models.Review, error)
	List(ctx context.Context, status models.ReviewStatus, limit int) ([]models.Review, error)
	UpdateStatus(ctx context.Context, id string, status models.ReviewStatus) error
}

type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

// ViewRecorder buffers product detail views.
type ViewRecorder interface {
	Record(ctx context.Context, productID string) (int64, error)
}

// TokenRevoker tracks logged out tokens.
type TokenRevoker interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
