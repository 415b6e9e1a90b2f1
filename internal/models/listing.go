package models

import (
	"time"

	"github.com/lib/pq"
)

type ProductStatus string
type ActionType string

const (
	ProductPendingPayment  ProductStatus = "pending_payment"
	ProductPendingApproval ProductStatus = "pending_approval"
	ProductApproved        ProductStatus = "approved"
	ProductRejected        ProductStatus = "rejected"
	ProductHidden          ProductStatus = "hidden"
)

const (
	ActionSell ActionType = "sell"
	ActionRent ActionType = "rent"
)

// Valid reports whether s is a known product status.
func (s ProductStatus) Valid() bool {
	switch s {
	case ProductPendingPayment, ProductPendingApproval, ProductApproved, ProductRejected, ProductHidden:
		return true
	}
	return false
}

// Valid reports whether a is sell or rent.
func (a ActionType) Valid() bool {
	return a == ActionSell || a == ActionRent
}

// Product is a marketplace listing. Category specific attributes are nullable
// because each listing only carries the ones of its own category.
type Product struct {
	ID          string     `db:"id" json:"id"`
	Title       string     `db:"title" json:"title"`
	Description string     `db:"description" json:"description"`
	Category    string     `db:"category" json:"category"`
	ActionType  ActionType `db:"action_type" json:"actionType"`
	Price       float64    `db:"price" json:"price"`
	Province    string     `db:"province" json:"province"`
	District    string     `db:"district" json:"district"`
	Sector      string     `db:"sector" json:"sector"`

	Bedrooms       *int     `db:"bedrooms" json:"bedrooms,omitempty"`
	Bathrooms      *int     `db:"bathrooms" json:"bathrooms,omitempty"`
	VehicleMake    *string  `db:"vehicle_make" json:"vehicleMake,omitempty"`
	VehicleModel   *string  `db:"vehicle_model" json:"vehicleModel,omitempty"`
	VehicleYear    *int     `db:"vehicle_year" json:"vehicleYear,omitempty"`
	VehicleMileage *int     `db:"vehicle_mileage" json:"vehicleMileage,omitempty"`
	Capacity       *float64 `db:"capacity" json:"capacity,omitempty"`
	CapacityUnit   *string  `db:"capacity_unit" json:"capacityUnit,omitempty"`
	TechRAM        *int     `db:"tech_ram" json:"techRam,omitempty"`
	TechStorage    *int     `db:"tech_storage" json:"techStorage,omitempty"`
	TechProcessor  *string  `db:"tech_processor" json:"techProcessor,omitempty"`

	Images           pq.StringArray `db:"images" json:"images"`
	Status           ProductStatus  `db:"status" json:"status"`
	IsFeatured       bool           `db:"is_featured" json:"isFeatured"`
	Views            int            `db:"views" json:"views"`
	AverageRating    float64        `db:"average_rating" json:"averageRating"`
	ReviewCount      int            `db:"review_count" json:"reviewCount"`
	SellerID         string         `db:"seller_id" json:"sellerId"`
	SellerName       string         `db:"seller_name" json:"sellerName"`
	SellerEmail      string         `db:"seller_email" json:"sellerEmail"`
	SellerPhone      string         `db:"seller_phone" json:"sellerPhone"`
	CommissionAmount int64          `db:"commission_amount" json:"commissionAmount"`
	CommissionPaid   bool           `db:"commission_paid" json:"commissionPaid"`
	CreatedAt        time.Time      `db:"created_at" json:"createdDate"`
	UpdatedAt        time.Time      `db:"updated_at" json:"updatedDate"`
}

// ProductQuery is the coarse server side filter for product listings. Empty
// fields are not constrained.
type ProductQuery struct {
	Status     ProductStatus
	Category   string
	ActionType string
	Province   string
	District   string
	Sector     string
	SellerID   string
	Featured   bool
	Sort       string
	Limit      int
}

// ProductAttributes carries the optional category specific attributes of a
// publish or edit request.
type ProductAttributes struct {
	Bedrooms       *int     `json:"bedrooms,omitempty"`
	Bathrooms      *int     `json:"bathrooms,omitempty"`
	VehicleMake    *string  `json:"vehicleMake,omitempty"`
	VehicleModel   *string  `json:"vehicleModel,omitempty"`
	VehicleYear    *int     `json:"vehicleYear,omitempty"`
	VehicleMileage *int     `json:"vehicleMileage,omitempty"`
	Capacity       *float64 `json:"capacity,omitempty"`
	CapacityUnit   *string  `json:"capacityUnit,omitempty"`
	TechRAM        *int     `json:"techRam,omitempty"`
	TechStorage    *int     `json:"techStorage,omitempty"`
	TechProcessor  *string  `json:"techProcessor,omitempty"`
}

// Apply copies the attributes onto p.
func (a ProductAttributes) Apply(p *Product) {
	p.Bedrooms = a.Bedrooms
	p.Bathrooms = a.Bathrooms
	p.VehicleMake = a.VehicleMake
	p.VehicleModel = a.VehicleModel
	p.VehicleYear = a.VehicleYear
	p.VehicleMileage = a.VehicleMileage
	p.Capacity = a.Capacity
	p.CapacityUnit = a.CapacityUnit
	p.TechRAM = a.TechRAM
	p.TechStorage = a.TechStorage
	p.TechProcessor = a.TechProcessor
}

// PublishRequest is the payload of the publish wizard's final step.
type PublishRequest struct {
	Title        string     `json:"title"`
	Category     string     `json:"category"`
	ActionType   ActionType `json:"actionType"`
	Price        float64    `json:"price"`
	Description  string     `json:"description"`
	Images       []string   `json:"images"`
	Province     string     `json:"province"`
	District     string     `json:"district"`
	Sector       string     `json:"sector"`
	SellerPhone  string     `json:"sellerPhone"`
	PaymentPhone string     `json:"paymentPhone"`
	// PaymentConfirmed is the seller's acknowledgement that the commission was sent.
	PaymentConfirmed bool `json:"paymentConfirmed"`
	ProductAttributes
}

// UpdateProductRequest edits a seller's own listing.
type UpdateProductRequest struct {
	Title       string     `json:"title"`
	ActionType  ActionType `json:"actionType"`
	Price       float64    `json:"price"`
	Description string     `json:"description"`
	Images      []string   `json:"images"`
	Province    string     `json:"province"`
	District    string     `json:"district"`
	Sector      string     `json:"sector"`
	SellerPhone string     `json:"sellerPhone"`
	ProductAttributes
}

// BrowseResult is the filtered listing returned to the browse page.
type BrowseResult struct {
	Products      []Product `json:"products"`
	Total         int       `json:"total"`
	ActiveFilters int       `json:"activeFilters"`
	QueryKey      string    `json:"queryKey"`
}

// MyProducts groups a seller's listings by status.
type MyProducts struct {
	All             []Product `json:"all"`
	Approved        []Product `json:"approved"`
	PendingApproval []Product `json:"pendingApproval"`
	Rejected        []Product `json:"rejected"`
}
