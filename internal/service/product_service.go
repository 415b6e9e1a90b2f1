package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/umuhuza/umuhuza_api/internal/catalog"
	"github.com/umuhuza/umuhuza_api/internal/config"
	"github.com/umuhuza/umuhuza_api/internal/models"
	"github.com/umuhuza/umuhuza_api/internal/utils"
)

// ListingInvalidator is told when product rows change.
type ListingInvalidator interface {
	Invalidate(ctx context.Context)
}

// ProductService handles the seller side of listings.
type ProductService struct {
	products ProductStore
	views    ViewRecorder
	listings ListingInvalidator
	market   config.MarketplaceConfig
}

// NewProductService creates a new ProductService. views may be nil.
func NewProductService(products ProductStore, views ViewRecorder, listings ListingInvalidator, market config.MarketplaceConfig) *ProductService {
	return &ProductService{
		products: products,
		views:    views,
		listings: listings,
		market:   market,
	}
}

// Commission is the fee owed for listing at price, rounded up to a whole franc.
func Commission(price, rate float64) int64 {
	if price <= 0 {
		return 0
	}
	return int64(math.Ceil(price * rate))
}

// Quote returns the commission for a price with the configured rate.
func (s *ProductService) Quote(price float64) int64 {
	return Commission(price, s.market.CommissionRate)
}

func validationErr(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{utils.ErrValidation}, args...)...)
}

// validateDetails covers the second step of the publish wizard.
func (s *ProductService) validateDetails(category, title string, price float64, phone string, images []string, province, district, sector string) error {
	if strings.TrimSpace(title) == "" {
		return validationErr("title is required")
	}
	if price <= 0 {
		return validationErr("price must be greater than zero")
	}
	if strings.TrimSpace(phone) == "" {
		return validationErr("seller phone is required")
	}
	if category == catalog.RealEstate && !catalog.CompleteLocation(province, district, sector) {
		return validationErr("real estate needs province, district and sector")
	}
	if !catalog.ValidLocation(province, district, sector) {
		return validationErr("unknown location %s/%s/%s", province, district, sector)
	}
	if len(images) < 1 {
		return validationErr("at least one image is required")
	}
	if len(images) > s.market.MaxImages {
		return fmt.Errorf("%w: at most %d images", utils.ErrTooManyImages, s.market.MaxImages)
	}
	return nil
}

// attributesFor keeps only the attributes that belong to category's panel.
func attributesFor(category string, a models.ProductAttributes) models.ProductAttributes {
	var out models.ProductAttributes
	switch catalog.FamilyOf(category) {
	case catalog.FamilyRealEstate:
		out.Bedrooms, out.Bathrooms = a.Bedrooms, a.Bathrooms
	case catalog.FamilyVehicle:
		out.VehicleMake, out.VehicleModel = a.VehicleMake, a.VehicleModel
		out.VehicleYear, out.VehicleMileage = a.VehicleYear, a.VehicleMileage
	case catalog.FamilyCapacity:
		out.Capacity, out.CapacityUnit = a.Capacity, a.CapacityUnit
	case catalog.FamilyTech:
		out.TechRAM, out.TechStorage, out.TechProcessor = a.TechRAM, a.TechStorage, a.TechProcessor
	}
	return out
}

// Publish creates a listing awaiting approval together with its pending
// commission payment.
func (s *ProductService) Publish(ctx context.Context, user *models.User, req models.PublishRequest) (*models.Product, *models.Payment, error) {
	if user == nil {
		return nil, nil, utils.ErrLoginRequired
	}
	if !catalog.IsCategory(req.Category) {
		return nil, nil, validationErr("category is required")
	}
	if req.ActionType == "" {
		req.ActionType = models.ActionSell
	}
	if !req.ActionType.Valid() {
		return nil, nil, validationErr("action type must be sell or rent")
	}
	if err := s.validateDetails(req.Category, req.Title, req.Price, req.SellerPhone, req.Images, req.Province, req.District, req.Sector); err != nil {
		return nil, nil, err
	}
	if !req.PaymentConfirmed || strings.TrimSpace(req.PaymentPhone) == "" {
		return nil, nil, validationErr("confirm the commission payment and the phone it was sent from")
	}

	commission := s.Quote(req.Price)
	p := &models.Product{
		Title:            strings.TrimSpace(req.Title),
		Description:      req.Description,
		Category:         req.Category,
		ActionType:       req.ActionType,
		Price:            req.Price,
		Province:         req.Province,
		District:         req.District,
		Sector:           req.Sector,
		Images:           req.Images,
		Status:           models.ProductPendingApproval,
		SellerID:         user.ID,
		SellerName:       user.FullName,
		SellerEmail:      user.Email,
		SellerPhone:      strings.TrimSpace(req.SellerPhone),
		CommissionAmount: commission,
	}
	attributesFor(req.Category, req.ProductAttributes).Apply(p)

	pay := &models.Payment{
		SellerID:     user.ID,
		SellerEmail:  user.Email,
		Amount:       commission,
		ProductPrice: req.Price,
		PaymentPhone: strings.TrimSpace(req.PaymentPhone),
		Status:       models.PaymentPending,
	}

	if err := s.products.CreateWithPayment(ctx, p, pay); err != nil {
		log.Error().Err(err).Str("seller_id", user.ID).Msg("Failed to publish product")
		return nil, nil, fmt.Errorf("publish product: %w", err)
	}

	log.Info().
		Str("product_id", p.ID).
		Str("seller_id", user.ID).
		Int64("commission", commission).
		Msg("Product published")
	return p, pay, nil
}

// Update edits the seller's own listing. The category cannot change.
func (s *ProductService) Update(ctx context.Context, user *models.User, id string, req models.UpdateProductRequest) (*models.Product, error) {
	if user == nil {
		return nil, utils.ErrLoginRequired
	}
	current, err := s.owned(ctx, user, id)
	if err != nil {
		return nil, err
	}
	if req.ActionType == "" {
		req.ActionType = current.ActionType
	}
	if !req.ActionType.Valid() {
		return nil, validationErr("action type must be sell or rent")
	}
	if req.SellerPhone == "" {
		req.SellerPhone = current.SellerPhone
	}
	if err := s.validateDetails(current.Category, req.Title, req.Price, req.SellerPhone, req.Images, req.Province, req.District, req.Sector); err != nil {
		return nil, err
	}

	p := *current
	p.Title = strings.TrimSpace(req.Title)
	p.Description = req.Description
	p.ActionType = req.ActionType
	p.Price = req.Price
	p.Province, p.District, p.Sector = req.Province, req.District, req.Sector
	p.Images = req.Images
	p.SellerPhone = strings.TrimSpace(req.SellerPhone)
	attributesFor(current.Category, req.ProductAttributes).Apply(&p)

	if err := s.products.UpdateByOwner(ctx, &p); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrNotFound
		}
		return nil, fmt.Errorf("update product: %w", err)
	}
	s.listings.Invalidate(ctx)
	log.Info().Str("product_id", id).Str("seller_id", user.ID).Msg("Product updated")
	return &p, nil
}

// Delete removes the seller's own listing.
func (s *ProductService) Delete(ctx context.Context, user *models.User, id string) error {
	if user == nil {
		return utils.ErrLoginRequired
	}
	if err := s.products.Delete(ctx, id, user.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return utils.ErrNotFound
		}
		return fmt.Errorf("delete product: %w", err)
	}
	s.listings.Invalidate(ctx)
	log.Info().Str("product_id", id).Str("seller_id", user.ID).Msg("Product deleted")
	return nil
}

// Mine returns the seller's listings grouped by status.
func (s *ProductService) Mine(ctx context.Context, user *models.User) (*models.MyProducts, error) {
	if user == nil {
		return nil, utils.ErrLoginRequired
	}
	all, err := s.products.List(ctx, models.ProductQuery{SellerID: user.ID, Sort: "-created_date", Limit: 500})
	if err != nil {
		log.Error().Err(err).Str("seller_id", user.ID).Msg("Failed to list seller products")
		all = []models.Product{}
	}
	out := &models.MyProducts{
		All:             all,
		Approved:        []models.Product{},
		PendingApproval: []models.Product{},
		Rejected:        []models.Product{},
	}
	for _, p := range all {
		switch p.Status {
		case models.ProductApproved:
			out.Approved = append(out.Approved, p)
		case models.ProductPendingApproval:
			out.PendingApproval = append(out.PendingApproval, p)
		case models.ProductRejected:
			out.Rejected = append(out.Rejected, p)
		}
	}
	return out, nil
}

// Details returns one product and counts the view. Listings that are not
// approved are only visible to their seller and to admins.
func (s *ProductService) Details(ctx context.Context, viewer *models.User, id string) (*models.Product, error) {
	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrNotFound
		}
		return nil, fmt.Errorf("load product: %w", err)
	}
	if p.Status != models.ProductApproved && !canManage(viewer, p) {
		return nil, utils.ErrNotFound
	}

	if s.views != nil && p.Status == models.ProductApproved {
		pending, err := s.views.Record(ctx, p.ID)
		if err != nil {
			log.Warn().Err(err).Str("product_id", p.ID).Msg("Failed to record view")
		} else {
			p.Views += int(pending)
		}
	}
	return p, nil
}

func (s *ProductService) owned(ctx context.Context, user *models.User, id string) (*models.Product, error) {
	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrNotFound
		}
		return nil, fmt.Errorf("load product: %w", err)
	}
	if p.SellerID != user.ID {
		return nil, utils.ErrForbidden
	}
	return p, nil
}

func canManage(user *models.User, p *models.Product) bool {
	return user != nil && (user.IsAdmin() || user.ID == p.SellerID)
}
