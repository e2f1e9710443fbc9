package ordersession

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/officefood/officefood/internal/entity"
	repo "github.com/officefood/officefood/internal/repository/ordersession"
	"github.com/officefood/officefood/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/officefood/officefood/service/ordersession")

// Repository is the persistence surface the session service needs.
type Repository interface {
	List(ctx context.Context, companyID int64, active *bool) ([]*entity.OrderSession, error)
	GetByID(ctx context.Context, id int64) (*entity.OrderSession, error)
	Create(ctx context.Context, session *entity.OrderSession) error
	Update(ctx context.Context, session *entity.OrderSession) error
	Delete(ctx context.Context, id int64) error
}

// Service manages the lifecycle of order sessions.
type Service struct {
	repo   Repository
	logger *zap.Logger
}

// Params defines dependencies for constructing Service.
type Params struct {
	fx.In

	Repository Repository
	Logger     *zap.Logger
}

// NewService wires a new Service instance.
func NewService(p Params) *Service {
	return &Service{repo: p.Repository, logger: p.Logger}
}

// List returns a company's sessions, optionally filtered by the active flag.
func (s *Service) List(ctx context.Context, companyID int64, active *bool) ([]*entity.OrderSession, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderSessionService.List", trace.WithAttributes(attribute.Int64("company.id", companyID)))
	defer span.End()

	sessions, err := s.repo.List(ctx, companyID, active)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to load order sessions", errorbank.WithCause(err))
	}
	return sessions, nil
}

// Get retrieves a session by id.
func (s *Service) Get(ctx context.Context, id int64) (*entity.OrderSession, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderSessionService.Get", trace.WithAttributes(attribute.Int64("session.id", id)))
	defer span.End()

	session, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, errorbank.NotFound("order session not found")
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to load order session", errorbank.WithCause(err))
	}
	return session, nil
}

// Create opens a new session for the company.
func (s *Service) Create(ctx context.Context, session *entity.OrderSession) error {
	if session == nil {
		return errorbank.BadRequest("order session payload is required")
	}
	ctx, span := serviceTracer.Start(ctx, "OrderSessionService.Create", trace.WithAttributes(attribute.String("session.title", session.Title)))
	defer span.End()

	if !session.EndTime.After(session.StartTime) {
		return errorbank.BadRequest("end time must be after start time")
	}
	if session.CreatedAt.IsZero() {
		now := time.Now().UTC()
		session.CreatedAt = now
		session.UpdatedAt = now
	}

	if err := s.repo.Create(ctx, session); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return errorbank.Internal("failed to create order session", errorbank.WithCause(err))
	}

	s.logger.Info("order session created",
		zap.Int64("id", session.ID),
		zap.String("title", session.Title),
		zap.Int64("company_id", session.CompanyID),
	)
	return nil
}

// Update mutates an existing session, including toggling the active flag.
func (s *Service) Update(ctx context.Context, session *entity.OrderSession) error {
	if session == nil {
		return errorbank.BadRequest("order session payload is required")
	}
	ctx, span := serviceTracer.Start(ctx, "OrderSessionService.Update", trace.WithAttributes(attribute.Int64("session.id", session.ID)))
	defer span.End()

	if !session.EndTime.After(session.StartTime) {
		return errorbank.BadRequest("end time must be after start time")
	}

	err := s.repo.Update(ctx, session)
	if errors.Is(err, repo.ErrNotFound) {
		return errorbank.NotFound("order session not found")
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return errorbank.Internal("failed to update order session", errorbank.WithCause(err))
	}
	return nil
}

// Delete removes a session.
func (s *Service) Delete(ctx context.Context, id int64) error {
	ctx, span := serviceTracer.Start(ctx, "OrderSessionService.Delete", trace.WithAttributes(attribute.Int64("session.id", id)))
	defer span.End()

	err := s.repo.Delete(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return errorbank.NotFound("order session not found")
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return errorbank.Internal("failed to delete order session", errorbank.WithCause(err))
	}
	return nil
}
