package service

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/phpdave11/gofpdf"

	"github.com/umuhuza/umuhuza_api/internal/config"
	"github.com/umuhuza/umuhuza_api/internal/models"
	"github.com/umuhuza/umuhuza_api/internal/utils"
)

// ReceiptService renders commission receipts as PDF.
type ReceiptService struct {
	products ProductStore
	payments PaymentStore
	market   config.MarketplaceConfig
}

// NewReceiptService creates a new ReceiptService.
func NewReceiptService(products ProductStore, payments PaymentStore, market config.MarketplaceConfig) *ReceiptService {
	return &ReceiptService{products: products, payments: payments, market: market}
}

// Commission returns the receipt for the commission paid on productID and a
// file name for it. Only the seller and admins may download it.
func (s *ReceiptService) Commission(ctx context.Context, user *models.User, productID string) ([]byte, string, error) {
	if user == nil {
		return nil, "", utils.ErrLoginRequired
	}
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, "", notFoundOr(err, "load product")
	}
	if !canManage(user, p) {
		return nil, "", utils.ErrForbidden
	}
	pay, err := s.payments.GetByProductID(ctx, productID)
	if err != nil {
		return nil, "", notFoundOr(err, "load payment")
	}
	return buildReceiptPDF(p, pay, s.market)
}

func buildReceiptPDF(p *models.Product, pay *models.Payment, market config.MarketplaceConfig) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("UMUHUZA receipt", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "UMUHUZA")
	pdf.Ln(9)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, "Commission receipt / Inyemezabwishyu")
	pdf.Ln(12)

	number := receiptNumber(pay)
	lines := []string{
		"Receipt no   : " + number,
		"Date         : " + pay.CreatedAt.In(utils.Kigali).Format("2006-01-02 15:04"),
		"Status       : " + string(pay.Status),
	}
	if pay.ConfirmedAt != nil {
		lines = append(lines, "Confirmed    : "+pay.ConfirmedAt.In(utils.Kigali).Format("2006-01-02 15:04"))
	}
	for _, l := range lines {
		pdf.Cell(0, 7, l)
		pdf.Ln(7)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Seller")
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, fmt.Sprintf("Name   : %s", safe(p.SellerName, "-")))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("Email  : %s", safe(p.SellerEmail, "-")))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("Paid from : %s", safe(pay.PaymentPhone, "-")))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Listing")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 6, p.Title, "", "", false)
	pdf.Cell(0, 6, "Price: "+formatRWF(int64(pay.ProductPrice)))
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Commission: "+formatRWF(pay.Amount))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Paid via MTN Mobile Money to "+market.PaymentNumber+".", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", fmt.Errorf("render receipt: %w", err)
	}
	return buf.Bytes(), "umuhuza-receipt-" + number + ".pdf", nil
}

func receiptNumber(pay *models.Payment) string {
	id := strings.ReplaceAll(pay.ID, "-", "")
	if len(id) > 8 {
		id = id[:8]
	}
	return "UMH-" + pay.CreatedAt.In(utils.Kigali).Format("20060102") + "-" + strings.ToUpper(id)
}

func safe(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

// formatRWF renders 1234567 as "RWF 1,234,567".
func formatRWF(v int64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := strconv.FormatInt(v, 10)
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := "RWF " + b.String()
	if neg {
		out = "-" + out
	}
	return out
}
