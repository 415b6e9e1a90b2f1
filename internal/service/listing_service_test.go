package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/umuhuza/umuhuza_api/internal/catalog"
	"github.com/umuhuza/umuhuza_api/internal/config"
	"github.com/umuhuza/umuhuza_api/internal/filter"
	"github.com/umuhuza/umuhuza_api/internal/models"
	"github.com/umuhuza/umuhuza_api/internal/utils"
)

func listingFixture() *fakeProducts {
	return newFakeProducts(
		models.Product{ID: "p1", ActionType: models.ActionSell, Title: "Toyota RAV4", Category: catalog.Vehicles, Status: models.ProductApproved, Price: 15000000, IsFeatured: true},
		models.Product{ID: "p2", ActionType: models.ActionSell, Title: "House in Remera", Category: catalog.RealEstate, Status: models.ProductApproved, Price: 90000000, Bedrooms: intp(4)},
		models.Product{ID: "p3", ActionType: models.ActionSell, Title: "Studio", Category: catalog.RealEstate, Status: models.ProductApproved, Price: 20000000, Bedrooms: intp(2)},
		models.Product{ID: "p4", ActionType: models.ActionSell, Title: "Plot with house", Category: catalog.RealEstate, Status: models.ProductApproved, Price: 40000000},
		models.Product{ID: "p5", ActionType: models.ActionSell, Title: "Pending villa", Category: catalog.RealEstate, Status: models.ProductPendingApproval, Bedrooms: intp(6)},
	)
}

func ids(products []models.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func TestBrowseAppliesBothTiers(t *testing.T) {
	svc := NewListingService(listingFixture(), nil, config.ListingConfig{FetchLimit: 50})

	state := filter.NewState()
	state.SetCategory(catalog.RealEstate)
	if err := state.SetField("minBedrooms", "3"); err != nil {
		t.Fatalf("SetField: %v", err)
	}

	res, err := svc.Browse(context.Background(), "", state)
	if err != nil {
		t.Fatalf("Browse: %v", err)
	}
	// p4 has no bedroom count and is not excluded by the range.
	if diff := cmp.Diff([]string{"p2", "p4"}, ids(res.Products)); diff != "" {
		t.Errorf("products mismatch (-want +got):\n%s", diff)
	}
	if res.Total != 2 {
		t.Errorf("Total = %d, want 2", res.Total)
	}
	if res.ActiveFilters != 2 {
		t.Errorf("ActiveFilters = %d, want 2", res.ActiveFilters)
	}
}

func TestBrowseUsesCacheUntilInvalidated(t *testing.T) {
	products := listingFixture()
	cache := newFakeListingCache()
	svc := NewListingService(products, cache, config.ListingConfig{FetchLimit: 50})
	ctx := context.Background()

	first := filter.NewState()
	first.SetSearchTerm("house")
	second := filter.NewState()
	second.SetSearchTerm("toyota")

	for _, s := range []filter.State{first, second} {
		if _, err := svc.Browse(ctx, "", s); err != nil {
			t.Fatalf("Browse: %v", err)
		}
	}
	if got := products.listCalls(); got != 1 {
		t.Fatalf("List called %d times, want 1 for a shared query key", got)
	}

	svc.Invalidate(ctx)
	if cache.invalidated != 1 {
		t.Fatalf("invalidated = %d, want 1", cache.invalidated)
	}
	if _, err := svc.Browse(ctx, "", first); err != nil {
		t.Fatalf("Browse: %v", err)
	}
	if got := products.listCalls(); got != 2 {
		t.Errorf("List called %d times after invalidation, want 2", got)
	}
}

func TestBrowseCacheWriteKeepsFetchVersion(t *testing.T) {
	products := listingFixture()
	cache := newFakeListingCache()
	svc := NewListingService(products, cache, config.ListingConfig{FetchLimit: 50})
	ctx := context.Background()

	// A product write lands while the first fetch is reading rows.
	var once sync.Once
	products.listHook = func(ctx context.Context, q models.ProductQuery) error {
		once.Do(func() { svc.Invalidate(ctx) })
		return nil
	}

	state := filter.NewState()
	for i := 0; i < 2; i++ {
		if _, err := svc.Browse(ctx, "", state); err != nil {
			t.Fatalf("Browse: %v", err)
		}
	}
	if got := products.listCalls(); got != 2 {
		t.Errorf("List called %d times, want 2: rows read before the invalidation were served from cache", got)
	}
	if _, _, ok, _ := cache.Get(ctx, filter.QueryKey(state.ServerQuery(50))); !ok {
		t.Error("second fetch was not cached under the current version")
	}
}

func TestBrowseSharedFetchOutlivesCancelledCaller(t *testing.T) {
	products := listingFixture()
	entered := make(chan struct{}, 1)
	release := make(chan struct{})
	products.listHook = func(ctx context.Context, q models.ProductQuery) error {
		entered <- struct{}{}
		select {
		case <-release:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	svc := NewListingService(products, nil, config.ListingConfig{FetchLimit: 50})

	state := filter.NewState()
	state.SetCategory(catalog.RealEstate)

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstDone := make(chan struct{})
	go func() {
		defer close(firstDone)
		svc.Browse(firstCtx, "", state)
	}()
	select {
	case <-entered:
	case <-time.After(2 * time.Second):
		t.Fatal("first browse never reached the store")
	}

	type result struct {
		res *models.BrowseResult
		err error
	}
	second := make(chan result, 1)
	go func() {
		res, err := svc.Browse(context.Background(), "", state)
		second <- result{res, err}
	}()

	// Give the second caller time to join the in-flight fetch.
	time.Sleep(50 * time.Millisecond)
	cancelFirst()
	time.Sleep(20 * time.Millisecond)
	close(release)
	<-firstDone

	got := <-second
	if got.err != nil {
		t.Fatalf("second Browse: %v", got.err)
	}
	if got.res.Total != 3 {
		t.Errorf("second Browse Total = %d, want 3", got.res.Total)
	}
}

func TestBrowseReadFailureYieldsEmptyResult(t *testing.T) {
	products := listingFixture()
	products.listErr = errors.New("connection refused")
	svc := NewListingService(products, nil, config.ListingConfig{})

	res, err := svc.Browse(context.Background(), "s1", filter.NewState())
	if err != nil {
		t.Fatalf("Browse: %v", err)
	}
	if res.Total != 0 || len(res.Products) != 0 {
		t.Errorf("got %d products, want none", res.Total)
	}
}

func TestBrowseDropsSupersededResult(t *testing.T) {
	products := listingFixture()
	entered := make(chan struct{}, 1)
	release := make(chan struct{})
	products.listHook = func(ctx context.Context, q models.ProductQuery) error {
		if q.Category == catalog.Vehicles {
			entered <- struct{}{}
			<-release
		}
		return nil
	}
	svc := NewListingService(products, nil, config.ListingConfig{FetchLimit: 50})
	ctx := context.Background()

	slow := filter.NewState()
	slow.SetCategory(catalog.Vehicles)
	errc := make(chan error, 1)
	go func() {
		_, err := svc.Browse(ctx, "tab-1", slow)
		errc <- err
	}()

	select {
	case <-entered:
	case <-time.After(2 * time.Second):
		t.Fatal("slow browse never reached the store")
	}

	fast := filter.NewState()
	fast.SetCategory(catalog.RealEstate)
	res, err := svc.Browse(ctx, "tab-1", fast)
	if err != nil {
		t.Fatalf("newer Browse: %v", err)
	}
	if res.Total != 3 {
		t.Errorf("newer Browse Total = %d, want 3", res.Total)
	}

	close(release)
	if err := <-errc; !errors.Is(err, utils.ErrStaleResult) {
		t.Errorf("older Browse error = %v, want ErrStaleResult", err)
	}
}

func TestBrowseSeparateSessionsDoNotInterfere(t *testing.T) {
	svc := NewListingService(listingFixture(), nil, config.ListingConfig{})
	ctx := context.Background()

	for _, session := range []string{"a", "b", "a"} {
		if _, err := svc.Browse(ctx, session, filter.NewState()); err != nil {
			t.Fatalf("Browse(%s): %v", session, err)
		}
	}
}

func TestFeatured(t *testing.T) {
	svc := NewListingService(listingFixture(), newFakeListingCache(), config.ListingConfig{})

	got, err := svc.Featured(context.Background())
	if err != nil {
		t.Fatalf("Featured: %v", err)
	}
	if diff := cmp.Diff([]string{"p1"}, ids(got)); diff != "" {
		t.Errorf("featured mismatch (-want +got):\n%s", diff)
	}
}

func TestBrowseSessionsTickets(t *testing.T) {
	b := newBrowseSessions(time.Minute)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }

	first := b.next("s")
	second := b.next("s")
	if second <= first {
		t.Fatalf("tickets not increasing: %d then %d", first, second)
	}
	if b.isLatest("s", first) {
		t.Error("first ticket still latest after a newer one")
	}
	if !b.isLatest("s", second) {
		t.Error("second ticket should be latest")
	}

	now = now.Add(2 * time.Minute)
	b.sweep()
	if b.isLatest("s", second) {
		t.Error("expired session should count as superseded")
	}
}

func TestBrowseSessionsBounded(t *testing.T) {
	b := newBrowseSessions(time.Hour)
	b.limit = 3
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	b.now = func() time.Time {
		now = now.Add(time.Second)
		return now
	}

	first := b.next("a")
	b.next("b")
	b.next("c")
	b.next("a")
	b.next("d")

	if got := len(b.sessions); got != 3 {
		t.Fatalf("sessions = %d, want 3", got)
	}
	if _, ok := b.sessions["b"]; ok {
		t.Error("least recently seen session was kept")
	}
	if b.isLatest("a", first) {
		t.Error("re-ticketed session lost its newer ticket")
	}
	if !b.isLatest("a", 2) {
		t.Error("recently seen session was evicted")
	}
}

func TestKeyedMutexReleasesEntries(t *testing.T) {
	k := newKeyedMutex()
	unlockA := k.Lock("a")
	unlockB := k.Lock("b")
	if k.size() != 2 {
		t.Fatalf("size = %d, want 2", k.size())
	}
	unlockA()
	unlockB()
	if k.size() != 0 {
		t.Errorf("size = %d after unlock, want 0", k.size())
	}
}
