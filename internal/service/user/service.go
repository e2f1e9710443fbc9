package user

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/officefood/officefood/internal/entity"
	repo "github.com/officefood/officefood/internal/repository/user"
	"github.com/officefood/officefood/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/officefood/officefood/service/user")

// Repository is the persistence surface the user service needs.
type Repository interface {
	GetProfile(ctx context.Context, id int64) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
}

// Service exposes user profile operations.
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

// Profile loads a user together with their company.
func (s *Service) Profile(ctx context.Context, id int64) (*entity.User, error) {
	ctx, span := serviceTracer.Start(ctx, "UserService.Profile", trace.WithAttributes(attribute.Int64("user.id", id)))
	defer span.End()

	user, err := s.repo.GetProfile(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, errorbank.NotFound("user not found")
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to load profile", errorbank.WithCause(err))
	}
	return user, nil
}

// UpdateProfile mutates the caller's name and email.
func (s *Service) UpdateProfile(ctx context.Context, id int64, name, email *string) (*entity.User, error) {
	ctx, span := serviceTracer.Start(ctx, "UserService.UpdateProfile", trace.WithAttributes(attribute.Int64("user.id", id)))
	defer span.End()

	user, err := s.repo.GetProfile(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, errorbank.NotFound("user not found")
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to load profile", errorbank.WithCause(err))
	}

	if name != nil {
		user.Name = name
	}
	if email != nil {
		user.Email = email
	}

	if err := s.repo.Update(ctx, user); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, errorbank.NotFound("user not found")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to update profile", errorbank.WithCause(err))
	}
	return user, nil
}
