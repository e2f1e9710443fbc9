package menu

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/officefood/officefood/internal/cache"
	"github.com/officefood/officefood/internal/config"
	"github.com/officefood/officefood/internal/entity"
	repo "github.com/officefood/officefood/internal/repository/menuitem"
	"github.com/officefood/officefood/pkg/errorbank"
)

type memoryRepo struct {
	nextID int64
	byID   map[int64]*entity.MenuItem
	lists  int
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{nextID: 1, byID: make(map[int64]*entity.MenuItem)}
}

func (m *memoryRepo) List(_ context.Context, companyID int64, filters repo.Filters) ([]*entity.MenuItem, error) {
	m.lists++
	var out []*entity.MenuItem
	for _, item := range m.byID {
		if item.CompanyID != companyID {
			continue
		}
		if filters.Category != nil && item.Category != *filters.Category {
			continue
		}
		if filters.Available != nil && item.IsAvailable != *filters.Available {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func (m *memoryRepo) GetByID(_ context.Context, id int64) (*entity.MenuItem, error) {
	item, ok := m.byID[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return item, nil
}

func (m *memoryRepo) Create(_ context.Context, item *entity.MenuItem) error {
	item.ID = m.nextID
	m.nextID++
	m.byID[item.ID] = item
	return nil
}

func (m *memoryRepo) Update(_ context.Context, item *entity.MenuItem) error {
	if _, ok := m.byID[item.ID]; !ok {
		return repo.ErrNotFound
	}
	m.byID[item.ID] = item
	return nil
}

func (m *memoryRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.byID[id]; !ok {
		return repo.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

type memoryCache struct {
	data map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string][]byte)}
}

func (m *memoryCache) Get(_ context.Context, key string) ([]byte, error) {
	value, ok := m.data[key]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return value, nil
}

func (m *memoryCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.data[key] = value
	return nil
}

func (m *memoryCache) Delete(_ context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func newTestService(store *memoryRepo, c cache.Store) *Service {
	var cfg config.Config
	cfg.Cache.DefaultTTL = time.Minute
	return NewService(Params{Repository: store, Cache: c, Config: cfg, Logger: zap.NewNop()})
}

func item(companyID int64, name, category string) *entity.MenuItem {
	return &entity.MenuItem{
		Name:        name,
		Category:    category,
		Price:       decimal.RequireFromString("9.99"),
		IsAvailable: true,
		CompanyID:   companyID,
	}
}

func TestGetEnforcesCompanyScope(t *testing.T) {
	store := newMemoryRepo()
	svc := newTestService(store, newMemoryCache())
	ctx := context.Background()

	created := item(1, "Pizza", "Pizza")
	if err := svc.Create(ctx, created); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if _, err := svc.Get(ctx, 1, created.ID); err != nil {
		t.Fatalf("Get() same company error = %v", err)
	}

	_, err := svc.Get(ctx, 2, created.ID)
	if errorbank.From(err).Kind() != errorbank.KindNotFound {
		t.Errorf("Get() foreign company kind = %v, want not found", errorbank.From(err).Kind())
	}
}

func TestListCachesUnfilteredListings(t *testing.T) {
	store := newMemoryRepo()
	svc := newTestService(store, newMemoryCache())
	ctx := context.Background()

	if err := svc.Create(ctx, item(1, "Pizza", "Pizza")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := svc.List(ctx, 1, repo.Filters{}); err != nil {
			t.Fatalf("List() error = %v", err)
		}
	}
	if store.lists != 1 {
		t.Errorf("repository hit %d times, want 1 with warm cache", store.lists)
	}

	category := "Pizza"
	if _, err := svc.List(ctx, 1, repo.Filters{Category: &category}); err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if store.lists != 2 {
		t.Errorf("filtered listing should bypass the cache; hits = %d", store.lists)
	}
}

func TestMutationsInvalidateCache(t *testing.T) {
	store := newMemoryRepo()
	svc := newTestService(store, newMemoryCache())
	ctx := context.Background()

	first := item(1, "Pizza", "Pizza")
	if err := svc.Create(ctx, first); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := svc.List(ctx, 1, repo.Filters{}); err != nil {
		t.Fatalf("List() error = %v", err)
	}

	if err := svc.Create(ctx, item(1, "Salad", "Salad")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	items, err := svc.List(ctx, 1, repo.Filters{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(items) != 2 {
		t.Errorf("List() after create = %d items, want 2 (stale cache?)", len(items))
	}
}

func TestFilters(t *testing.T) {
	store := newMemoryRepo()
	svc := newTestService(store, newMemoryCache())
	ctx := context.Background()

	pizza := item(1, "Pizza", "Pizza")
	salad := item(1, "Salad", "Salad")
	salad.IsAvailable = false
	for _, it := range []*entity.MenuItem{pizza, salad} {
		if err := svc.Create(ctx, it); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	available := true
	items, err := svc.List(ctx, 1, repo.Filters{Available: &available})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(items) != 1 || items[0].Name != "Pizza" {
		t.Errorf("List(available) = %v, want only Pizza", items)
	}
}
