package order

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

var repoTracer = otel.Tracer("github.com/officefood/officefood/repository/order")

// Sentinel errors surfaced to the service layer.
var (
	ErrNotFound        = errors.New("order not found")
	ErrSessionNotFound = errors.New("order session not found")
	ErrSessionInactive = errors.New("order session is not active")
)

// Filters narrows order listings for a user.
type Filters struct {
	SessionID *int64
	Status    *string
}

// Repository encapsulates read/write access for orders and their items.
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

// CreateWithItems persists the order and its line items in one transaction.
// The target session is re-read with a row lock inside the transaction and
// must still be active at write time, so a concurrent deactivation between
// the service-level check and the write cannot produce a torn order.
func (r *Repository) CreateWithItems(ctx context.Context, order *entity.Order, items []*entity.OrderItem) error {
	if order == nil {
		return errors.New("nil order")
	}
	if len(items) == 0 {
		return errors.New("order requires at least one item")
	}
	ctx, span := repoTracer.Start(ctx, "OrderRepository.CreateWithItems", trace.WithAttributes(
		attribute.Int64("session.id", order.SessionID),
		attribute.Int("order.items", len(items)),
	))
	defer span.End()

	err := r.writer.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		session := new(entity.OrderSession)
		err := tx.NewSelect().Model(session).
			Column("id", "is_active").
			Where("id = ?", order.SessionID).
			For("UPDATE").
			Scan(ctx)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrSessionNotFound
		}
		if err != nil {
			return err
		}
		if !session.IsActive {
			return ErrSessionInactive
		}

		if _, err := tx.NewInsert().Model(order).Exec(ctx); err != nil {
			return err
		}
		for _, item := range items {
			item.OrderID = order.ID
		}
		if _, err := tx.NewInsert().Model(&items).Exec(ctx); err != nil {
			return err
		}
		order.Items = items
		return nil
	})
	if err != nil && !errors.Is(err, ErrSessionNotFound) && !errors.Is(err, ErrSessionInactive) {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transaction failed")
	}
	return err
}

// GetByID fetches an order with items, menu items, session, and user joined.
func (r *Repository) GetByID(ctx context.Context, id int64) (*entity.Order, error) {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.GetByID", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	order := new(entity.Order)
	err := r.reader.NewSelect().Model(order).
		Relation("Items").
		Relation("Items.MenuItem").
		Relation("Session").
		Relation("User").
		Where("\"order\".id = ?", id).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return order, nil
}

// ListByUser returns a user's orders newest first.
func (r *Repository) ListByUser(ctx context.Context, userID int64, filters Filters) ([]*entity.Order, error) {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.ListByUser", trace.WithAttributes(attribute.Int64("user.id", userID)))
	defer span.End()

	var orders []*entity.Order
	q := r.reader.NewSelect().Model(&orders).
		Relation("Items").
		Relation("Items.MenuItem").
		Relation("Session").
		Where("\"order\".user_id = ?", userID).
		Order("\"order\".created_at DESC")
	if filters.SessionID != nil {
		q = q.Where("\"order\".session_id = ?", *filters.SessionID)
	}
	if filters.Status != nil {
		q = q.Where("\"order\".status = ?", *filters.Status)
	}

	if err := q.Scan(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return orders, nil
}

// ListBySession returns all orders placed against a session, oldest first,
// with the ordering user joined for the admin view.
func (r *Repository) ListBySession(ctx context.Context, sessionID int64) ([]*entity.Order, error) {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.ListBySession", trace.WithAttributes(attribute.Int64("session.id", sessionID)))
	defer span.End()

	var orders []*entity.Order
	err := r.reader.NewSelect().Model(&orders).
		Relation("Items").
		Relation("Items.MenuItem").
		Relation("User").
		Where("\"order\".session_id = ?", sessionID).
		Order("\"order\".created_at ASC").
		Scan(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return orders, nil
}

// ListByCompanyInRange returns all of a company's orders created inside
// [from, to], oldest first, with user, session, and line items joined.
// Billing aggregation reads exclusively through this query.
func (r *Repository) ListByCompanyInRange(ctx context.Context, companyID int64, from, to time.Time) ([]*entity.Order, error) {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.ListByCompanyInRange", trace.WithAttributes(
		attribute.Int64("company.id", companyID),
		attribute.String("range.from", from.Format(time.RFC3339)),
		attribute.String("range.to", to.Format(time.RFC3339)),
	))
	defer span.End()

	var orders []*entity.Order
	err := r.reader.NewSelect().Model(&orders).
		Relation("Items").
		Relation("Items.MenuItem").
		Relation("Session").
		Relation("User").
		Join("JOIN order_sessions AS os ON os.id = \"order\".session_id").
		Where("os.company_id = ?", companyID).
		Where("\"order\".created_at >= ?", from).
		Where("\"order\".created_at <= ?", to).
		Order("\"order\".created_at ASC").
		Scan(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return orders, nil
}

// Update persists order mutations (status and notes).
func (r *Repository) Update(ctx context.Context, order *entity.Order) error {
	if order == nil {
		return errors.New("nil order")
	}
	ctx, span := repoTracer.Start(ctx, "OrderRepository.Update", trace.WithAttributes(attribute.Int64("order.id", order.ID)))
	defer span.End()

	order.UpdatedAt = time.Now().UTC()
	res, err := r.writer.NewUpdate().Model(order).
		Column("status", "notes", "updated_at").
		WherePK().
		Exec(ctx)
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

// Delete removes an order and its items.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.Delete", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	err := r.writer.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().Model((*entity.OrderItem)(nil)).Where("order_id = ?", id).Exec(ctx); err != nil {
			return err
		}
		res, err := tx.NewDelete().Model((*entity.Order)(nil)).Where("id = ?", id).Exec(ctx)
		if err != nil {
			return err
		}
		if affected, _ := res.RowsAffected(); affected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil && !errors.Is(err, ErrNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, "delete failed")
	}
	return err
}
