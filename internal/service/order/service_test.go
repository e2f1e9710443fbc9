package order

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/officefood/officefood/internal/config"
	"github.com/officefood/officefood/internal/entity"
	repo "github.com/officefood/officefood/internal/repository/order"
	sessionrepo "github.com/officefood/officefood/internal/repository/ordersession"
	"github.com/officefood/officefood/pkg/errorbank"
)

type memoryOrders struct {
	nextID int64
	orders map[int64]*entity.Order
	items  map[int64][]*entity.OrderItem
	// sessions mirrors the session store so CreateWithItems can re-check
	// the active flag the way the transactional repository does.
	sessions *memorySessions
}

func newMemoryOrders(sessions *memorySessions) *memoryOrders {
	return &memoryOrders{
		nextID:   1,
		orders:   make(map[int64]*entity.Order),
		items:    make(map[int64][]*entity.OrderItem),
		sessions: sessions,
	}
}

func (m *memoryOrders) CreateWithItems(_ context.Context, order *entity.Order, items []*entity.OrderItem) error {
	session, ok := m.sessions.byID[order.SessionID]
	if !ok {
		return repo.ErrSessionNotFound
	}
	if !session.IsActive {
		return repo.ErrSessionInactive
	}

	order.ID = m.nextID
	m.nextID++
	for _, item := range items {
		item.OrderID = order.ID
	}
	order.Items = items
	m.orders[order.ID] = order
	m.items[order.ID] = items
	return nil
}

func (m *memoryOrders) GetByID(_ context.Context, id int64) (*entity.Order, error) {
	order, ok := m.orders[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return order, nil
}

func (m *memoryOrders) ListByUser(_ context.Context, userID int64, filters repo.Filters) ([]*entity.Order, error) {
	var out []*entity.Order
	for _, order := range m.orders {
		if order.UserID != userID {
			continue
		}
		if filters.SessionID != nil && order.SessionID != *filters.SessionID {
			continue
		}
		if filters.Status != nil && order.Status != *filters.Status {
			continue
		}
		out = append(out, order)
	}
	return out, nil
}

func (m *memoryOrders) ListBySession(_ context.Context, sessionID int64) ([]*entity.Order, error) {
	var out []*entity.Order
	for _, order := range m.orders {
		if order.SessionID == sessionID {
			out = append(out, order)
		}
	}
	return out, nil
}

func (m *memoryOrders) Update(_ context.Context, order *entity.Order) error {
	if _, ok := m.orders[order.ID]; !ok {
		return repo.ErrNotFound
	}
	m.orders[order.ID] = order
	return nil
}

func (m *memoryOrders) Delete(_ context.Context, id int64) error {
	if _, ok := m.orders[id]; !ok {
		return repo.ErrNotFound
	}
	delete(m.orders, id)
	delete(m.items, id)
	return nil
}

type memorySessions struct {
	byID map[int64]*entity.OrderSession
}

func (m *memorySessions) GetByID(_ context.Context, id int64) (*entity.OrderSession, error) {
	session, ok := m.byID[id]
	if !ok {
		return nil, sessionrepo.ErrNotFound
	}
	return session, nil
}

type memoryMenu struct {
	byID map[int64]*entity.MenuItem
}

func (m *memoryMenu) GetByIDs(_ context.Context, ids []int64) ([]*entity.MenuItem, error) {
	var out []*entity.MenuItem
	for _, id := range ids {
		if item, ok := m.byID[id]; ok {
			out = append(out, item)
		}
	}
	return out, nil
}

type fixture struct {
	svc      *Service
	orders   *memoryOrders
	sessions *memorySessions
	menu     *memoryMenu
}

func newFixture() *fixture {
	sessions := &memorySessions{byID: map[int64]*entity.OrderSession{
		1: {ID: 1, Title: "Friday lunch", IsActive: true, CompanyID: 1, StartTime: time.Now(), EndTime: time.Now().Add(2 * time.Hour)},
		2: {ID: 2, Title: "Closed session", IsActive: false, CompanyID: 1},
	}}
	menu := &memoryMenu{byID: map[int64]*entity.MenuItem{
		10: {ID: 10, Name: "Margherita Pizza", Price: decimal.RequireFromString("15.99"), Category: "Pizza", CompanyID: 1, IsAvailable: true},
		11: {ID: 11, Name: "Caesar Salad", Price: decimal.RequireFromString("9.50"), Category: "Salad", CompanyID: 1, IsAvailable: true},
	}}
	orders := newMemoryOrders(sessions)

	svc := NewService(Params{
		Repository: orders,
		Sessions:   sessions,
		MenuItems:  menu,
		Config:     config.Config{},
		Logger:     zap.NewNop(),
	})
	return &fixture{svc: svc, orders: orders, sessions: sessions, menu: menu}
}

func TestCreateSnapshotsPricesIntoTotal(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	order, err := f.svc.Create(ctx, 5, 1, []CreateItem{
		{MenuItemID: 10, Quantity: 2},
		{MenuItemID: 11, Quantity: 1},
	}, nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	want := decimal.RequireFromString("41.48") // 15.99*2 + 9.50
	if !order.TotalAmount.Equal(want) {
		t.Errorf("TotalAmount = %s, want %s", order.TotalAmount, want)
	}
	if order.Status != entity.OrderStatusPending {
		t.Errorf("Status = %q, want %q", order.Status, entity.OrderStatusPending)
	}
	if len(order.Items) != 2 {
		t.Fatalf("Items = %d, want 2", len(order.Items))
	}
	if !order.Items[0].Price.Equal(decimal.RequireFromString("15.99")) {
		t.Errorf("line price = %s, want snapshot of menu price", order.Items[0].Price)
	}
}

func TestCreateTotalSurvivesLaterMenuEdits(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	order, err := f.svc.Create(ctx, 5, 1, []CreateItem{{MenuItemID: 10, Quantity: 2}}, nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Reprice the menu item after the order was placed.
	f.menu.byID[10].Price = decimal.RequireFromString("99.99")

	stored, err := f.svc.Get(ctx, order.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	want := decimal.RequireFromString("31.98")
	if !stored.TotalAmount.Equal(want) {
		t.Errorf("TotalAmount = %s, want %s after menu edit", stored.TotalAmount, want)
	}
	if !stored.Items[0].Price.Equal(decimal.RequireFromString("15.99")) {
		t.Errorf("line price = %s, want original snapshot", stored.Items[0].Price)
	}
}

func TestCreateValidation(t *testing.T) {
	tests := []struct {
		name      string
		sessionID int64
		items     []CreateItem
		wantKind  errorbank.Kind
	}{
		{
			name:      "inactive session",
			sessionID: 2,
			items:     []CreateItem{{MenuItemID: 10, Quantity: 1}},
			wantKind:  errorbank.KindConflict,
		},
		{
			name:      "unknown session",
			sessionID: 99,
			items:     []CreateItem{{MenuItemID: 10, Quantity: 1}},
			wantKind:  errorbank.KindNotFound,
		},
		{
			name:      "unknown menu item",
			sessionID: 1,
			items:     []CreateItem{{MenuItemID: 10, Quantity: 1}, {MenuItemID: 999, Quantity: 1}},
			wantKind:  errorbank.KindBadRequest,
		},
		{
			name:      "zero quantity",
			sessionID: 1,
			items:     []CreateItem{{MenuItemID: 10, Quantity: 0}},
			wantKind:  errorbank.KindBadRequest,
		},
		{
			name:      "no items",
			sessionID: 1,
			items:     nil,
			wantKind:  errorbank.KindBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()

			_, err := f.svc.Create(context.Background(), 5, tt.sessionID, tt.items, nil)
			if errorbank.From(err).Kind() != tt.wantKind {
				t.Errorf("Create() kind = %v, want %v", errorbank.From(err).Kind(), tt.wantKind)
			}
			if len(f.orders.orders) != 0 {
				t.Errorf("orders written = %d, want 0 on failure", len(f.orders.orders))
			}
		})
	}
}

func TestCreateRejectsSessionClosedInsideTransaction(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	// The pre-check passes, then the store sees the session closed.
	f.orders.sessions = &memorySessions{byID: map[int64]*entity.OrderSession{
		1: {ID: 1, IsActive: false},
	}}

	_, err := f.svc.Create(ctx, 5, 1, []CreateItem{{MenuItemID: 10, Quantity: 1}}, nil)
	if errorbank.From(err).Kind() != errorbank.KindConflict {
		t.Errorf("Create() kind = %v, want conflict", errorbank.From(err).Kind())
	}
	if len(f.orders.orders) != 0 {
		t.Errorf("orders written = %d, want 0", len(f.orders.orders))
	}
}

func TestUpdateRejectsUnknownStatus(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	order, err := f.svc.Create(ctx, 5, 1, []CreateItem{{MenuItemID: 10, Quantity: 1}}, nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	bogus := "SHIPPED"
	_, err = f.svc.Update(ctx, order.ID, &bogus, nil)
	if errorbank.From(err).Kind() != errorbank.KindBadRequest {
		t.Errorf("Update() kind = %v, want bad request", errorbank.From(err).Kind())
	}

	confirmed := entity.OrderStatusConfirmed
	updated, err := f.svc.Update(ctx, order.ID, &confirmed, nil)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Status != entity.OrderStatusConfirmed {
		t.Errorf("Status = %q, want %q", updated.Status, entity.OrderStatusConfirmed)
	}
}

func TestListBySessionRequiresSession(t *testing.T) {
	f := newFixture()

	_, _, err := f.svc.ListBySession(context.Background(), 99)
	if errorbank.From(err).Kind() != errorbank.KindNotFound {
		t.Errorf("ListBySession() kind = %v, want not found", errorbank.From(err).Kind())
	}
}

func TestListMineFilters(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	if _, err := f.svc.Create(ctx, 5, 1, []CreateItem{{MenuItemID: 10, Quantity: 1}}, nil); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := f.svc.Create(ctx, 6, 1, []CreateItem{{MenuItemID: 11, Quantity: 1}}, nil); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	mine, err := f.svc.ListMine(ctx, 5, repo.Filters{})
	if err != nil {
		t.Fatalf("ListMine() error = %v", err)
	}
	if len(mine) != 1 {
		t.Errorf("ListMine() = %d orders, want only the caller's", len(mine))
	}

	cancelled := entity.OrderStatusCancelled
	none, err := f.svc.ListMine(ctx, 5, repo.Filters{Status: &cancelled})
	if err != nil {
		t.Fatalf("ListMine() error = %v", err)
	}
	if len(none) != 0 {
		t.Errorf("ListMine() with status filter = %d orders, want 0", len(none))
	}
}
