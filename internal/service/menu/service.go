package menu

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/officefood/officefood/internal/cache"
	"github.com/officefood/officefood/internal/config"
	"github.com/officefood/officefood/internal/entity"
	repo "github.com/officefood/officefood/internal/repository/menuitem"
	"github.com/officefood/officefood/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/officefood/officefood/service/menu")

// Repository is the persistence surface the menu service needs.
type Repository interface {
	List(ctx context.Context, companyID int64, filters repo.Filters) ([]*entity.MenuItem, error)
	GetByID(ctx context.Context, id int64) (*entity.MenuItem, error)
	Create(ctx context.Context, item *entity.MenuItem) error
	Update(ctx context.Context, item *entity.MenuItem) error
	Delete(ctx context.Context, id int64) error
}

// Service encapsulates business logic around company menus.
type Service struct {
	repo     Repository
	cache    cache.Store
	cacheTTL time.Duration
	logger   *zap.Logger
}

// Params defines dependencies for constructing Service.
type Params struct {
	fx.In

	Repository Repository
	Cache      cache.Store
	Config     config.Config
	Logger     *zap.Logger
}

// NewService wires a new Service instance.
func NewService(p Params) *Service {
	return &Service{
		repo:     p.Repository,
		cache:    p.Cache,
		cacheTTL: p.Config.Cache.DefaultTTL,
		logger:   p.Logger,
	}
}

// List returns a company's menu, consulting cache for unfiltered listings.
func (s *Service) List(ctx context.Context, companyID int64, filters repo.Filters) ([]*entity.MenuItem, error) {
	ctx, span := serviceTracer.Start(ctx, "MenuService.List", trace.WithAttributes(attribute.Int64("company.id", companyID)))
	defer span.End()

	cacheable := filters.Category == nil && filters.Available == nil
	if cacheable {
		if items, err := s.getFromCache(ctx, companyID); err == nil {
			return items, nil
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warn("menu cache read failed", zap.Int64("company_id", companyID), zap.Error(err))
		}
	}

	items, err := s.repo.List(ctx, companyID, filters)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to load menu", errorbank.WithCause(err))
	}

	if cacheable {
		if err := s.storeInCache(ctx, companyID, items); err != nil {
			s.logger.Warn("menu cache write failed", zap.Int64("company_id", companyID), zap.Error(err))
		}
	}

	return items, nil
}

// Get retrieves a single menu item, scoped to the caller's company.
func (s *Service) Get(ctx context.Context, companyID, id int64) (*entity.MenuItem, error) {
	ctx, span := serviceTracer.Start(ctx, "MenuService.Get", trace.WithAttributes(attribute.Int64("menu_item.id", id)))
	defer span.End()

	item, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, errorbank.NotFound("menu item not found")
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to load menu item", errorbank.WithCause(err))
	}
	if item.CompanyID != companyID {
		// Menus have no cross-company visibility.
		return nil, errorbank.NotFound("menu item not found")
	}
	return item, nil
}

// Create persists a new menu item for the company.
func (s *Service) Create(ctx context.Context, item *entity.MenuItem) error {
	if item == nil {
		return errorbank.BadRequest("menu item payload is required")
	}
	ctx, span := serviceTracer.Start(ctx, "MenuService.Create", trace.WithAttributes(attribute.String("menu_item.name", item.Name)))
	defer span.End()

	if item.CreatedAt.IsZero() {
		now := time.Now().UTC()
		item.CreatedAt = now
		item.UpdatedAt = now
	}

	if err := s.repo.Create(ctx, item); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return errorbank.Internal("failed to create menu item", errorbank.WithCause(err))
	}

	s.invalidateCache(ctx, item.CompanyID)
	return nil
}

// Update mutates an existing menu item after confirming company ownership.
func (s *Service) Update(ctx context.Context, item *entity.MenuItem) error {
	if item == nil {
		return errorbank.BadRequest("menu item payload is required")
	}
	ctx, span := serviceTracer.Start(ctx, "MenuService.Update", trace.WithAttributes(attribute.Int64("menu_item.id", item.ID)))
	defer span.End()

	err := s.repo.Update(ctx, item)
	if errors.Is(err, repo.ErrNotFound) {
		return errorbank.NotFound("menu item not found")
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return errorbank.Internal("failed to update menu item", errorbank.WithCause(err))
	}

	s.invalidateCache(ctx, item.CompanyID)
	return nil
}

// Delete removes a menu item, scoped to the caller's company.
func (s *Service) Delete(ctx context.Context, companyID, id int64) error {
	ctx, span := serviceTracer.Start(ctx, "MenuService.Delete", trace.WithAttributes(attribute.Int64("menu_item.id", id)))
	defer span.End()

	if _, err := s.Get(ctx, companyID, id); err != nil {
		return err
	}

	err := s.repo.Delete(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return errorbank.NotFound("menu item not found")
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return errorbank.Internal("failed to delete menu item", errorbank.WithCause(err))
	}

	s.invalidateCache(ctx, companyID)
	return nil
}

func (s *Service) cacheKey(companyID int64) string {
	return fmt.Sprintf("menu:%d", companyID)
}

func (s *Service) getFromCache(ctx context.Context, companyID int64) ([]*entity.MenuItem, error) {
	if s.cache == nil {
		return nil, cache.ErrCacheMiss
	}
	bytes, err := s.cache.Get(ctx, s.cacheKey(companyID))
	if err != nil {
		return nil, err
	}
	var items []*entity.MenuItem
	if err := json.Unmarshal(bytes, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Service) storeInCache(ctx context.Context, companyID int64, items []*entity.MenuItem) error {
	if s.cache == nil {
		return nil
	}
	bytes, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, s.cacheKey(companyID), bytes, s.cacheTTL)
}

func (s *Service) invalidateCache(ctx context.Context, companyID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, s.cacheKey(companyID)); err != nil {
		s.logger.Warn("menu cache invalidation failed", zap.Int64("company_id", companyID), zap.Error(err))
	}
}
