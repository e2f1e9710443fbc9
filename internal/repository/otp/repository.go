package otp

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

var repoTracer = otel.Tracer("github.com/officefood/officefood/repository/otp")

// ErrNotFound is returned when no matching code exists.
var ErrNotFound = errors.New("otp code not found")

// Repository encapsulates read/write access for OTP codes.
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

// Replace removes every existing code for the phone and stores the new one.
// Both steps run in one transaction so a single effective code exists per
// phone at any time.
func (r *Repository) Replace(ctx context.Context, code *entity.OtpCode) error {
	if code == nil {
		return errors.New("nil otp code")
	}
	ctx, span := repoTracer.Start(ctx, "OtpRepository.Replace", trace.WithAttributes(attribute.String("otp.phone", code.Phone)))
	defer span.End()

	err := r.writer.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().Model((*entity.OtpCode)(nil)).Where("phone = ?", code.Phone).Exec(ctx); err != nil {
			return err
		}
		_, err := tx.NewInsert().Model(code).Exec(ctx)
		return err
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "replace failed")
	}
	return err
}

// FindValid fetches the code iff it is unused and not yet expired at now.
func (r *Repository) FindValid(ctx context.Context, phone, code string, now time.Time) (*entity.OtpCode, error) {
	ctx, span := repoTracer.Start(ctx, "OtpRepository.FindValid", trace.WithAttributes(attribute.String("otp.phone", phone)))
	defer span.End()

	record := new(entity.OtpCode)
	err := r.reader.NewSelect().Model(record).
		Where("phone = ?", phone).
		Where("code = ?", code).
		Where("is_used = ?", false).
		Where("expires_at > ?", now).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return record, nil
}

// MarkUsed flips is_used on all records matching the phone/code pair.
func (r *Repository) MarkUsed(ctx context.Context, phone, code string) error {
	ctx, span := repoTracer.Start(ctx, "OtpRepository.MarkUsed", trace.WithAttributes(attribute.String("otp.phone", phone)))
	defer span.End()

	_, err := r.writer.NewUpdate().Model((*entity.OtpCode)(nil)).
		Set("is_used = ?", true).
		Where("phone = ?", phone).
		Where("code = ?", code).
		Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "update failed")
	}
	return err
}

// DeleteStale removes all codes that are expired or already used.
func (r *Repository) DeleteStale(ctx context.Context, now time.Time) (int64, error) {
	ctx, span := repoTracer.Start(ctx, "OtpRepository.DeleteStale")
	defer span.End()

	res, err := r.writer.NewDelete().Model((*entity.OtpCode)(nil)).
		WhereGroup(" OR ", func(q *bun.DeleteQuery) *bun.DeleteQuery {
			return q.WhereOr("expires_at < ?", now).WhereOr("is_used = ?", true)
		}).
		Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "delete failed")
		return 0, err
	}
	affected, _ := res.RowsAffected()
	return affected, nil
}
