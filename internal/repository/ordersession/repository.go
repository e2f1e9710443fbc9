package ordersession

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

var repoTracer = otel.Tracer("github.com/officefood/officefood/repository/ordersession")

// ErrNotFound is returned when an order session is missing.
var ErrNotFound = errors.New("order session not found")

// Repository encapsulates read/write access for order sessions.
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

const orderCountExpr = "(SELECT count(*) FROM orders WHERE orders.session_id = order_session.id) AS order_count"

// List returns a company's sessions newest first, optionally filtered by the
// active flag, each with its creator and order count.
func (r *Repository) List(ctx context.Context, companyID int64, active *bool) ([]*entity.OrderSession, error) {
	ctx, span := repoTracer.Start(ctx, "OrderSessionRepository.List", trace.WithAttributes(attribute.Int64("company.id", companyID)))
	defer span.End()

	var sessions []*entity.OrderSession
	q := r.reader.NewSelect().Model(&sessions).
		ColumnExpr("order_session.*").
		ColumnExpr(orderCountExpr).
		Relation("CreatedBy").
		Where("order_session.company_id = ?", companyID).
		Order("order_session.created_at DESC")
	if active != nil {
		q = q.Where("order_session.is_active = ?", *active)
	}

	if err := q.Scan(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return sessions, nil
}

// GetByID fetches a session with its creator and order count.
func (r *Repository) GetByID(ctx context.Context, id int64) (*entity.OrderSession, error) {
	ctx, span := repoTracer.Start(ctx, "OrderSessionRepository.GetByID", trace.WithAttributes(attribute.Int64("session.id", id)))
	defer span.End()

	session := new(entity.OrderSession)
	err := r.reader.NewSelect().Model(session).
		ColumnExpr("order_session.*").
		ColumnExpr(orderCountExpr).
		Relation("CreatedBy").
		Where("order_session.id = ?", id).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return session, nil
}

// Create persists a new order session.
func (r *Repository) Create(ctx context.Context, session *entity.OrderSession) error {
	if session == nil {
		return errors.New("nil order session")
	}
	ctx, span := repoTracer.Start(ctx, "OrderSessionRepository.Create", trace.WithAttributes(attribute.String("session.title", session.Title)))
	defer span.End()

	_, err := r.writer.NewInsert().Model(session).Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
	}
	return err
}

// Update persists session mutations.
func (r *Repository) Update(ctx context.Context, session *entity.OrderSession) error {
	if session == nil {
		return errors.New("nil order session")
	}
	ctx, span := repoTracer.Start(ctx, "OrderSessionRepository.Update", trace.WithAttributes(attribute.Int64("session.id", session.ID)))
	defer span.End()

	session.UpdatedAt = time.Now().UTC()
	res, err := r.writer.NewUpdate().Model(session).
		Column("title", "description", "start_time", "end_time", "is_active", "updated_at").
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

// Delete removes an order session.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	ctx, span := repoTracer.Start(ctx, "OrderSessionRepository.Delete", trace.WithAttributes(attribute.Int64("session.id", id)))
	defer span.End()

	res, err := r.writer.NewDelete().Model((*entity.OrderSession)(nil)).Where("id = ?", id).Exec(ctx)
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
