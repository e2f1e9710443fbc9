package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/officefood/officefood/internal/config"
	"github.com/officefood/officefood/internal/entity"
	repo "github.com/officefood/officefood/internal/repository/otp"
)

var serviceTracer = otel.Tracer("github.com/officefood/officefood/service/otp")

// Repository is the persistence surface the OTP service needs.
type Repository interface {
	Replace(ctx context.Context, code *entity.OtpCode) error
	FindValid(ctx context.Context, phone, code string, now time.Time) (*entity.OtpCode, error)
	MarkUsed(ctx context.Context, phone, code string) error
	DeleteStale(ctx context.Context, now time.Time) (int64, error)
}

// Service issues, verifies, and retires one-time login codes.
type Service struct {
	repo       Repository
	ttl        time.Duration
	mockCode   string
	production bool
	logger     *zap.Logger
}

// Params defines dependencies for constructing Service.
type Params struct {
	fx.In

	Repository Repository
	Config     config.Config
	Logger     *zap.Logger
}

// NewService wires a new Service instance.
func NewService(p Params) *Service {
	return &Service{
		repo:       p.Repository,
		ttl:        p.Config.OTP.TTL,
		mockCode:   p.Config.OTP.MockCode,
		production: p.Config.Production(),
		logger:     p.Logger,
	}
}

// TTL reports how long issued codes stay valid.
func (s *Service) TTL() time.Duration {
	return s.ttl
}

// Generate produces a 6-digit code for the phone and stores it with an
// expiry of now + TTL. Any previously issued codes for the phone are removed
// first, so the returned code is the only one that can be redeemed. Outside
// production the configured mock code is returned for deterministic testing.
func (s *Service) Generate(ctx context.Context, phone string) (string, error) {
	ctx, span := serviceTracer.Start(ctx, "OtpService.Generate", trace.WithAttributes(attribute.String("otp.phone", phone)))
	defer span.End()

	code := s.mockCode
	if s.production {
		n, err := rand.Int(rand.Reader, big.NewInt(900000))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "random source failed")
			return "", err
		}
		code = fmt.Sprintf("%06d", n.Int64()+100000)
	}

	record := &entity.OtpCode{
		Phone:     phone,
		Code:      code,
		ExpiresAt: time.Now().UTC().Add(s.ttl),
	}
	if err := s.repo.Replace(ctx, record); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "store failed")
		return "", err
	}
	return code, nil
}

// Verify reports whether an unused, unexpired code exists for the pair.
// A failed check has no side effects.
func (s *Service) Verify(ctx context.Context, phone, code string) (bool, error) {
	ctx, span := serviceTracer.Start(ctx, "OtpService.Verify", trace.WithAttributes(attribute.String("otp.phone", phone)))
	defer span.End()

	_, err := s.repo.FindValid(ctx, phone, code, time.Now().UTC())
	if errors.Is(err, repo.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "lookup failed")
		return false, err
	}
	return true, nil
}

// MarkUsed retires the code so it fails later verification even before
// expiry. Callers invoke this only after a successful Verify, inside the same
// logical login flow.
func (s *Service) MarkUsed(ctx context.Context, phone, code string) error {
	ctx, span := serviceTracer.Start(ctx, "OtpService.MarkUsed", trace.WithAttributes(attribute.String("otp.phone", phone)))
	defer span.End()

	if err := s.repo.MarkUsed(ctx, phone, code); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "update failed")
		return err
	}
	return nil
}

// CleanupExpired deletes every expired or used code and returns the count.
func (s *Service) CleanupExpired(ctx context.Context) (int64, error) {
	ctx, span := serviceTracer.Start(ctx, "OtpService.CleanupExpired")
	defer span.End()

	removed, err := s.repo.DeleteStale(ctx, time.Now().UTC())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "delete failed")
		return 0, err
	}
	if removed > 0 && s.logger != nil {
		s.logger.Info("removed stale otp codes", zap.Int64("count", removed))
	}
	return removed, nil
}
