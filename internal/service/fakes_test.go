package service

import (
	"context"
	"database/sql"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/umuhuza/umuhuza_api/internal/models"
	"github.com/umuhuza/umuhuza_api/internal/repository"
)

func intp(v int) *int       { return &v }
func strp(v string) *string { return &v }

type fakeProducts struct {
	mu       sync.Mutex
	items    map[string]models.Product
	listErr  error
	listHook func(ctx context.Context, q models.ProductQuery) error
	lists    int32
	views    map[string]int64
}

func newFakeProducts(products ...models.Product) *fakeProducts {
	f := &fakeProducts{items: map[string]models.Product{}, views: map[string]int64{}}
	for _, p := range products {
		f.items[p.ID] = p
	}
	return f
}

func (f *fakeProducts) List(ctx context.Context, q models.ProductQuery) ([]models.Product, error) {
	atomic.AddInt32(&f.lists, 1)
	if f.listHook != nil {
		if err := f.listHook(ctx, q); err != nil {
			return nil, err
		}
	}
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Product{}
	for _, p := range f.items {
		if q.Status != "" && p.Status != q.Status {
			continue
		}
		if q.Category != "" && p.Category != q.Category {
			continue
		}
		if q.SellerID != "" && p.SellerID != q.SellerID {
			continue
		}
		if q.Province != "" && p.Province != q.Province {
			continue
		}
		if q.Featured && !p.IsFeatured {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeProducts) listCalls() int { return int(atomic.LoadInt32(&f.lists)) }

func (f *fakeProducts) ListByIDs(ctx context.Context, ids []string, status models.ProductStatus) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Product{}
	for _, id := range ids {
		if p, ok := f.items[id]; ok && p.Status == status {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProducts) GetByID(ctx context.Context, id string) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &p, nil
}

func (f *fakeProducts) CreateWithPayment(ctx context.Context, p *models.Product, pay *models.Payment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p.ID = uuid.NewString()
	p.CreatedAt = time.Now()
	pay.ID = uuid.NewString()
	pay.ProductID = p.ID
	f.items[p.ID] = *p
	return nil
}

func (f *fakeProducts) UpdateByOwner(ctx context.Context, p *models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cur, ok := f.items[p.ID]
	if !ok || cur.SellerID != p.SellerID {
		return sql.ErrNoRows
	}
	f.items[p.ID] = *p
	return nil
}

func (f *fakeProducts) UpdateStatus(ctx context.Context, id string, status models.ProductStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.items[id]
	if !ok {
		return sql.ErrNoRows
	}
	p.Status = status
	f.items[id] = p
	return nil
}

func (f *fakeProducts) SetFeatured(ctx context.Context, id string, featured bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.items[id]
	if !ok {
		return sql.ErrNoRows
	}
	p.IsFeatured = featured
	f.items[id] = p
	return nil
}

func (f *fakeProducts) Delete(ctx context.Context, id, sellerID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.items[id]
	if !ok || (sellerID != "" && p.SellerID != sellerID) {
		return sql.ErrNoRows
	}
	delete(f.items, id)
	return nil
}

func (f *fakeProducts) AddViews(ctx context.Context, views map[string]int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, n := range views {
		f.views[id] += n
	}
	return nil
}

func (f *fakeProducts) Stats(ctx context.Context) (*models.AdminStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stats := &models.AdminStats{TotalProducts: len(f.items)}
	for _, p := range f.items {
		switch p.Status {
		case models.ProductApproved:
			stats.ApprovedProducts++
		case models.ProductPendingApproval:
			stats.PendingProducts++
		}
	}
	return stats, nil
}

type fakeListingCache struct {
	mu          sync.Mutex
	version     int
	entries     map[string][]models.Product
	invalidated int
}

func newFakeListingCache() *fakeListingCache {
	return &fakeListingCache{entries: map[string][]models.Product{}}
}

func (c *fakeListingCache) Get(ctx context.Context, key string) ([]models.Product, string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := strconv.Itoa(c.version)
	p, ok := c.entries[v+"|"+key]
	return p, v, ok, nil
}

func (c *fakeListingCache) Set(ctx context.Context, version, key string, products []models.Product) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[version+"|"+key] = products
	return nil
}

func (c *fakeListingCache) Invalidate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.version++
	c.invalidated++
	return nil
}

// countingInvalidator records listing invalidations.
type countingInvalidator struct{ n int32 }

func (c *countingInvalidator) Invalidate(ctx context.Context) { atomic.AddInt32(&c.n, 1) }
func (c *countingInvalidator) count() int                    { return int(atomic.LoadInt32(&c.n)) }

type fakeFavorites struct {
	mu   sync.Mutex
	rows map[string]models.Favorite
}

func newFakeFavorites() *fakeFavorites {
	return &fakeFavorites{rows: map[string]models.Favorite{}}
}

func (f *fakeFavorites) ListByUser(ctx context.Context, userID string) ([]models.Favorite, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Favorite{}
	for _, r := range f.rows {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, nil
}

func (f *fakeFavorites) Exists(ctx context.Context, userID, productID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.rows[userID+"|"+productID]
	return ok, nil
}

func (f *fakeFavorites) Create(ctx context.Context, userID, productID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := userID + "|" + productID
	if _, ok := f.rows[key]; ok {
		return false, nil
	}
	f.rows[key] = models.Favorite{ID: uuid.NewString(), UserID: userID, ProductID: productID}
	return true, nil
}

func (f *fakeFavorites) Delete(ctx context.Context, userID, productID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := userID + "|" + productID
	if _, ok := f.rows[key]; !ok {
		return false, nil
	}
	delete(f.rows, key)
	return true, nil
}

type fakeSavedFilters struct {
	mu   sync.Mutex
	rows []models.SavedFilter
}

func (f *fakeSavedFilters) ListByUser(ctx context.Context, userID string) ([]models.SavedFilter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.SavedFilter{}
	for _, r := range f.rows {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeSavedFilters) GetByID(ctx context.Context, userID, id string) (*models.SavedFilter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.ID == id && r.UserID == userID {
			return &r, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeSavedFilters) Create(ctx context.Context, sf *models.SavedFilter) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	sf.ID = uuid.NewString()
	f.rows = append(f.rows, *sf)
	return nil
}

func (f *fakeSavedFilters) Delete(ctx context.Context, userID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, r := range f.rows {
		if r.ID == id && r.UserID == userID {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

type fakePayments struct {
	mu   sync.Mutex
	rows map[string]models.Payment
}

func newFakePayments(payments ...models.Payment) *fakePayments {
	f := &fakePayments{rows: map[string]models.Payment{}}
	for _, p := range payments {
		f.rows[p.ID] = p
	}
	return f
}

func (f *fakePayments) GetByID(ctx context.Context, id string) (*models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.rows[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &p, nil
}

func (f *fakePayments) GetByProductID(ctx context.Context, productID string) (*models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.rows {
		if p.ProductID == productID {
			return &p, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakePayments) List(ctx context.Context, status models.PaymentStatus, limit int) ([]models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Payment{}
	for _, p := range f.rows {
		if status == "" || p.Status == status {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePayments) Confirm(ctx context.Context, id string) (*models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.rows[id]
	if !ok || p.Status != models.PaymentPending {
		return nil, sql.ErrNoRows
	}
	now := time.Now()
	p.Status = models.PaymentConfirmed
	p.ConfirmedAt = &now
	f.rows[id] = p
	return &p, nil
}

type fakeMessages struct {
	mu      sync.Mutex
	rows    []models.Message
	now     time.Time
	listErr error
}

func (f *fakeMessages) Create(ctx context.Context, m *models.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.now.IsZero() {
		f.now = time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	}
	f.now = f.now.Add(time.Minute)
	m.ID = uuid.NewString()
	m.CreatedAt = f.now
	f.rows = append(f.rows, *m)
	return nil
}

func (f *fakeMessages) ListForUser(ctx context.Context, userID string) ([]models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []models.Message{}
	for i := len(f.rows) - 1; i >= 0; i-- {
		m := f.rows[i]
		if m.SenderID == userID || m.ReceiverID == userID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMessages) List(ctx context.Context, limit int) ([]models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Message(nil), f.rows...), nil
}

func (f *fakeMessages) MarkConversationRead(ctx context.Context, conversationID, userID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for i := range f.rows {
		m := &f.rows[i]
		if m.ConversationID == conversationID && m.ReceiverID == userID && !m.IsRead {
			m.IsRead = true
			n++
		}
	}
	return n, nil
}

type fakeReviews struct {
	mu   sync.Mutex
	rows []models.Review
}

func (f *fakeReviews) Exists(ctx context.Context, productID, reviewerID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.ProductID == productID && r.ReviewerID == reviewerID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeReviews) CreateAndRate(ctx context.Context, rv *models.Review) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.ProductID == rv.ProductID && r.ReviewerID == rv.ReviewerID {
			return repository.ErrDuplicate
		}
	}
	rv.ID = uuid.NewString()
	f.rows = append(f.rows, *rv)
	return nil
}

func (f *fakeReviews) ListByProduct(ctx context.Context, productID string, status models.ReviewStatus) ([]models.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Review{}
	for _, r := range f.rows {
		if r.ProductID == productID && (status == "" || r.Status == status) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReviews) ListBySeller(ctx context.Context, sellerID string) ([]models.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Review{}
	for _, r := range f.rows {
		if r.SellerID == sellerID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReviews) List(ctx context.Context, status models.ReviewStatus, limit int) ([]models.Review, error) {
	return f.byStatus(status), nil
}

func (f *fakeReviews) byStatus(status models.ReviewStatus) []models.Review {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Review{}
	for _, r := range f.rows {
		if status == "" || r.Status == status {
			out = append(out, r)
		}
	}
	return out
}

func (f *fakeReviews) UpdateStatus(ctx context.Context, id string, status models.ReviewStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rows {
		if f.rows[i].ID == id {
			f.rows[i].Status = status
			return nil
		}
	}
	return sql.ErrNoRows
}

type fakeUsers struct {
	mu   sync.Mutex
	rows map[string]models.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{rows: map[string]models.User{}}
}

func (f *fakeUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.rows {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeUsers) GetByID(ctx context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.rows[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &u, nil
}

func (f *fakeUsers) Create(ctx context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.rows {
		if u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	user.ID = uuid.NewString()
	f.rows[user.ID] = *user
	return nil
}

type fakeRevoker struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func (f *fakeRevoker) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.revoked == nil {
		f.revoked = map[string]time.Time{}
	}
	f.revoked[jti] = expiresAt
	return nil
}

func (f *fakeRevoker) IsRevoked(ctx context.Context, jti string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.revoked[jti]
	return ok, nil
}

type fakeViews struct {
	mu     sync.Mutex
	counts map[string]int64
}

func (f *fakeViews) Record(ctx context.Context, productID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.counts == nil {
		f.counts = map[string]int64{}
	}
	f.counts[productID]++
	return f.counts[productID], nil
}
