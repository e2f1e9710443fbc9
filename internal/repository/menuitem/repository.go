package menuitem

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/officefood/officefood/internal/database"
	"github.com/officefood/officefood/internal/entity"
)

var repoTracer = otel.Tracer("github.com/officefood/officefood/repository/menuitem")

// ErrNotFound is returned when a menu item is missing.
var ErrNotFound = errors.New("menu item not found")

// Filters narrows menu listings.
type Filters struct {
	Category  *string
	Available *bool
}

// Repository encapsulates read/write access for menu items.
type Repository struct {
	writer *bun.DB
	reader *bun.DB
}

// NewRepository wires a repository backed by configured database connections.
func NewRepository(conns *database.Connections) *Repository {
	return &Repository{
		writer: conns.Writer,
		reader: conns.Reader,
	}
}

// List returns a company's menu, optionally filtered, ordered by category then name.
func (r *Repository) List(ctx context.Context, companyID int64, filters Filters) ([]*entity.MenuItem, error) {
	ctx, span := repoTracer.Start(ctx, "MenuItemRepository.List", trace.WithAttributes(attribute.Int64("company.id", companyID)))
	defer span.End()

	var items []*entity.MenuItem
	q := r.reader.NewSelect().Model(&items).
		Where("company_id = ?", companyID).
		Order("category ASC", "name ASC")
	if filters.Category != nil {
		q = q.Where("category = ?", *filters.Category)
	}
	if filters.Available != nil {
		q = q.Where("is_available = ?", *filters.Available)
	}

	if err := q.Scan(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return items, nil
}

// GetByID fetches a menu item by primary key.
func (r *Repository) GetByID(ctx context.Context, id int64) (*entity.MenuItem, error) {
	ctx, span := repoTracer.Start(ctx, "MenuItemRepository.GetByID", trace.WithAttributes(attribute.Int64("menu_item.id", id)))
	defer span.End()

	item := new(entity.MenuItem)
	err := r.reader.NewSelect().Model(item).Where("id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return item, nil
}

// GetByIDs resolves a batch of item ids. Missing ids are simply absent from
// the result; callers compare counts to detect dangling references.
func (r *Repository) GetByIDs(ctx context.Context, ids []int64) ([]*entity.MenuItem, error) {
	ctx, span := repoTracer.Start(ctx, "MenuItemRepository.GetByIDs", trace.WithAttributes(attribute.Int("menu_item.count", len(ids))))
	defer span.End()

	if len(ids) == 0 {
		return nil, nil
	}

	var items []*entity.MenuItem
	err := r.reader.NewSelect().Model(&items).Where("id IN (?)", bun.In(ids)).Scan(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return items, nil
}

// Create persists a new menu item.
func (r *Repository) Create(ctx context.Context, item *entity.MenuItem) error {
	if item == nil {
		return errors.New("nil menu item")
	}
	ctx, span := repoTracer.Start(ctx, "MenuItemRepository.Create", trace.WithAttributes(attribute.String("menu_item.name", item.Name)))
	defer span.End()

	_, err := r.writer.NewInsert().Model(item).Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
	}
	return err
}

// Update persists menu item mutations.
func (r *Repository) Update(ctx context.Context, item *entity.MenuItem) error {
	if item == nil {
		return errors.New("nil menu item")
	}
	ctx, span := repoTracer.Start(ctx, "MenuItemRepository.Update", trace.WithAttributes(attribute.Int64("menu_item.id", item.ID)))
	defer span.End()

	item.UpdatedAt = time.Now().UTC()
	res, err := r.writer.NewUpdate().Model(item).WherePK().Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "update failed")
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a menu item.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	ctx, span := repoTracer.Start(ctx, "MenuItemRepository.Delete", trace.WithAttributes(attribute.Int64("menu_item.id", id)))
	defer span.End()

	res, err := r.writer.NewDelete().Model((*entity.MenuItem)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "delete failed")
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrNotFound
	}
	return nil
}
