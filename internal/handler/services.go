package handler

import (
	"context"
	"io"

	"github.com/umuhuza/umuhuza_api/internal/filter"
	"github.com/umuhuza/umuhuza_api/internal/models"
	"github.com/umuhuza/umuhuza_api/internal/service"
	"github.com/umuhuza/umuhuza_api/internal/utils"
)

// The handlers depend on these views of the services so they can be tested
// with stubs. The *service types satisfy them.

type ListingService interface {
	Browse(ctx context.Context, session string, state filter.State) (*models.BrowseResult, error)
	Featured(ctx context.Context) ([]models.Product, error)
}

type ProductService interface {
	Quote(price float64) int64
	Publish(ctx context.Context, user *models.User, req models.PublishRequest) (*models.Product, *models.Payment, error)
	Update(ctx context.Context, user *models.User, id string, req models.UpdateProductRequest) (*models.Product, error)
	Delete(ctx context.Context, user *models.User, id string) error
	Mine(ctx context.Context, user *models.User) (*models.MyProducts, error)
	Details(ctx context.Context, viewer *models.User, id string) (*models.Product, error)
}

type FavoriteService interface {
	IsFavorited(ctx context.Context, user *models.User, productID string) (bool, error)
	List(ctx context.Context, user *models.User) ([]models.Favorite, error)
	Products(ctx context.Context, user *models.User) ([]models.Product, error)
	Toggle(ctx context.Context, user *models.User, productID string) (*models.ToggleResult, error)
}

type SavedFilterService interface {
	List(ctx context.Context, user *models.User) ([]models.SavedFilter, error)
	Save(ctx context.Context, user *models.User, name string, state filter.State) ([]models.SavedFilter, error)
	Load(ctx context.Context, user *models.User, id string) (filter.State, error)
	Delete(ctx context.Context, user *models.User, id string) ([]models.SavedFilter, error)
}

type AuthService interface {
	Register(ctx context.Context, req service.RegisterRequest) (*service.AuthResult, error)
	Login(ctx context.Context, email, password string) (*service.AuthResult, error)
	Logout(ctx context.Context, claims *utils.Claims) error
}

type UploadService interface {
	Upload(ctx context.Context, user *models.User, filename string, r io.Reader) (*service.UploadResult, error)
}

type MessageService interface {
	Send(ctx context.Context, user *models.User, productID, content string) (*models.Message, error)
	Reply(ctx context.Context, user *models.User, conversationID, content string) (*models.Message, error)
	Conversations(ctx context.Context, user *models.User, search string) ([]models.Conversation, error)
	MarkRead(ctx context.Context, user *models.User, conversationID string) (int64, error)
	UnreadCount(ctx context.Context, user *models.User) (int, error)
}

type ReviewService interface {
	Create(ctx context.Context, user *models.User, productID string, rating int, text string) (*models.Review, error)
	ProductReviews(ctx context.Context, productID string) ([]models.Review, error)
	SellerReviews(ctx context.Context, user *models.User) (*models.SellerReviews, error)
}

type AdminService interface {
	Products(ctx context.Context, status models.ProductStatus) ([]models.Product, error)
	SetProductStatus(ctx context.Context, id string, status models.ProductStatus) error
	SetFeatured(ctx context.Context, id string, featured bool) error
	DeleteProduct(ctx context.Context, id string) error
	Payments(ctx context.Context, status models.PaymentStatus) ([]models.Payment, error)
	ConfirmPayment(ctx context.Context, id string) (*models.Payment, error)
	Reviews(ctx context.Context, status models.ReviewStatus) ([]models.Review, error)
	ModerateReview(ctx context.Context, id string, status models.ReviewStatus) error
	Messages(ctx context.Context) ([]models.Message, error)
	Stats(ctx context.Context) (*models.AdminStats, error)
}

type ReceiptService interface {
	Commission(ctx context.Context, user *models.User, productID string) ([]byte, string, error)
}
