package ordersession

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/officefood/officefood/internal/entity"
	repo "github.com/officefood/officefood/internal/repository/ordersession"
	"github.com/officefood/officefood/pkg/errorbank"
)

type memoryRepo struct {
	nextID int64
	byID   map[int64]*entity.OrderSession
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{nextID: 1, byID: make(map[int64]*entity.OrderSession)}
}

func (m *memoryRepo) List(_ context.Context, companyID int64, active *bool) ([]*entity.OrderSession, error) {
	var out []*entity.OrderSession
	for _, session := range m.byID {
		if session.CompanyID != companyID {
			continue
		}
		if active != nil && session.IsActive != *active {
			continue
		}
		out = append(out, session)
	}
	return out, nil
}

func (m *memoryRepo) GetByID(_ context.Context, id int64) (*entity.OrderSession, error) {
	session, ok := m.byID[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return session, nil
}

func (m *memoryRepo) Create(_ context.Context, session *entity.OrderSession) error {
	session.ID = m.nextID
	m.nextID++
	m.byID[session.ID] = session
	return nil
}

func (m *memoryRepo) Update(_ context.Context, session *entity.OrderSession) error {
	if _, ok := m.byID[session.ID]; !ok {
		return repo.ErrNotFound
	}
	m.byID[session.ID] = session
	return nil
}

func (m *memoryRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.byID[id]; !ok {
		return repo.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func newTestService(store *memoryRepo) *Service {
	return NewService(Params{Repository: store, Logger: zap.NewNop()})
}

func session(companyID int64, active bool) *entity.OrderSession {
	now := time.Now().UTC()
	return &entity.OrderSession{
		Title:       "Lunch",
		StartTime:   now,
		EndTime:     now.Add(2 * time.Hour),
		IsActive:    active,
		CompanyID:   companyID,
		CreatedByID: 1,
	}
}

func TestCreateRejectsInvertedWindow(t *testing.T) {
	svc := newTestService(newMemoryRepo())
	now := time.Now().UTC()

	err := svc.Create(context.Background(), &entity.OrderSession{
		Title:     "Backwards",
		StartTime: now,
		EndTime:   now.Add(-time.Hour),
		CompanyID: 1,
	})
	if errorbank.From(err).Kind() != errorbank.KindBadRequest {
		t.Errorf("Create() kind = %v, want bad request", errorbank.From(err).Kind())
	}
}

func TestListFiltersByActiveFlag(t *testing.T) {
	store := newMemoryRepo()
	svc := newTestService(store)
	ctx := context.Background()

	for _, s := range []*entity.OrderSession{session(1, true), session(1, false), session(2, true)} {
		if err := svc.Create(ctx, s); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	all, err := svc.List(ctx, 1, nil)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 2 {
		t.Errorf("List() = %d sessions, want company-scoped 2", len(all))
	}

	active := true
	onlyActive, err := svc.List(ctx, 1, &active)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(onlyActive) != 1 {
		t.Errorf("List(active) = %d sessions, want 1", len(onlyActive))
	}
}

func TestUpdateTogglesActiveFlag(t *testing.T) {
	store := newMemoryRepo()
	svc := newTestService(store)
	ctx := context.Background()

	s := session(1, true)
	if err := svc.Create(ctx, s); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	s.IsActive = false
	if err := svc.Update(ctx, s); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, err := svc.Get(ctx, s.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.IsActive {
		t.Error("session still active after update")
	}
}

func TestGetUnknownSession(t *testing.T) {
	svc := newTestService(newMemoryRepo())

	_, err := svc.Get(context.Background(), 42)
	if errorbank.From(err).Kind() != errorbank.KindNotFound {
		t.Errorf("Get() kind = %v, want not found", errorbank.From(err).Kind())
	}
}

func TestDeleteUnknownSession(t *testing.T) {
	svc := newTestService(newMemoryRepo())

	err := svc.Delete(context.Background(), 42)
	if errorbank.From(err).Kind() != errorbank.KindNotFound {
		t.Errorf("Delete() kind = %v, want not found", errorbank.From(err).Kind())
	}
}
