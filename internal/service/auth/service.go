package auth

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/officefood/officefood/internal/config"
	"github.com/officefood/officefood/internal/entity"
	"github.com/officefood/officefood/internal/messaging"
	userrepo "github.com/officefood/officefood/internal/repository/user"
	"github.com/officefood/officefood/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/officefood/officefood/service/auth")

// Users is the persistence surface the auth service needs.
type Users interface {
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByPhone(ctx context.Context, phone string) (*entity.User, error)
	Create(ctx context.Context, user *entity.User) error
}

// OTP abstracts one-time code issuance and verification.
type OTP interface {
	Generate(ctx context.Context, phone string) (string, error)
	Verify(ctx context.Context, phone, code string) (bool, error)
	MarkUsed(ctx context.Context, phone, code string) error
	TTL() time.Duration
}

// SMSDispatchEvent is published for the dispatch worker to deliver the code.
// Delivery is fire-and-forget; no confirmation flows back.
type SMSDispatchEvent struct {
	Phone       string    `json:"phone"`
	Code        string    `json:"code"`
	RequestedAt time.Time `json:"requested_at"`
}

// SendOTPResult acknowledges a code request.
type SendOTPResult struct {
	Message   string
	ExpiresIn int
	// OTP is populated only outside production as a test aid.
	OTP string
}

// LoginResult carries minted credentials and the resolved user.
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	User         *entity.User
}

// TokenPair carries re-minted credentials.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Service resolves phone+code pairs to users and manages bearer credentials.
type Service struct {
	users      Users
	otp        OTP
	tokens     *TokenIssuer
	publisher  messaging.Client
	smsTopic   string
	msgEnabled bool
	production bool
	logger     *zap.Logger
}

// Params defines dependencies for constructing Service.
type Params struct {
	fx.In

	Users     Users
	OTP       OTP
	Config    config.Config
	Logger    *zap.Logger
	Publisher messaging.Client
}

// NewService wires a new Service instance.
func NewService(p Params) *Service {
	return &Service{
		users:      p.Users,
		otp:        p.OTP,
		tokens:     NewTokenIssuer(p.Config.Auth.JWTSecret, p.Config.Auth.AccessTTL, p.Config.Auth.RefreshTTL),
		publisher:  p.Publisher,
		smsTopic:   p.Config.Messaging.Kafka.SMSTopic,
		msgEnabled: p.Config.Messaging.Enabled,
		production: p.Config.Production(),
		logger:     p.Logger,
	}
}

// SendOTP issues a login code for the phone and hands it to the SMS dispatch
// worker. Outside production the code is echoed back in the result.
func (s *Service) SendOTP(ctx context.Context, phone string) (*SendOTPResult, error) {
	ctx, span := serviceTracer.Start(ctx, "AuthService.SendOTP", trace.WithAttributes(attribute.String("auth.phone", phone)))
	defer span.End()

	code, err := s.otp.Generate(ctx, phone)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "otp generation failed")
		return nil, errorbank.Internal("failed to issue OTP", errorbank.WithCause(err))
	}

	s.publishSMSDispatch(ctx, phone, code)

	result := &SendOTPResult{
		Message:   "OTP sent successfully",
		ExpiresIn: int(s.otp.TTL().Seconds()),
	}
	if !s.production {
		result.OTP = code
	}
	return result, nil
}

// VerifyOTP resolves the phone+code pair to a user record, creating the user
// on first login, and mints both credentials. The redeemed code is marked
// used before returning so a second verification with it fails.
func (s *Service) VerifyOTP(ctx context.Context, phone, code string) (*LoginResult, error) {
	ctx, span := serviceTracer.Start(ctx, "AuthService.VerifyOTP", trace.WithAttributes(attribute.String("auth.phone", phone)))
	defer span.End()

	valid, err := s.otp.Verify(ctx, phone, code)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "otp verification failed")
		return nil, errorbank.Internal("failed to verify OTP", errorbank.WithCause(err))
	}
	if !valid {
		return nil, errorbank.Unauthorized("invalid OTP")
	}

	user, err := s.users.GetByPhone(ctx, phone)
	if errors.Is(err, userrepo.ErrNotFound) {
		user = &entity.User{
			Phone:     phone,
			Role:      entity.RoleUser,
			IsActive:  true,
			CreatedAt: time.Now().UTC(),
			UpdatedAt: time.Now().UTC(),
		}
		if err := s.users.Create(ctx, user); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "user creation failed")
			return nil, errorbank.Internal("failed to create user", errorbank.WithCause(err))
		}
		s.logger.Info("created user on first login", zap.Int64("id", user.ID))
	} else if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "user lookup failed")
		return nil, errorbank.Internal("failed to load user", errorbank.WithCause(err))
	}

	accessToken, refreshToken, err := s.tokens.Issue(user)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "token issuance failed")
		return nil, errorbank.Internal("failed to issue credentials", errorbank.WithCause(err))
	}

	if err := s.otp.MarkUsed(ctx, phone, code); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "otp retire failed")
		return nil, errorbank.Internal("failed to retire OTP", errorbank.WithCause(err))
	}

	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

// Refresh re-issues both credentials from the current user record, so role
// and company changes since the original login take effect.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	ctx, span := serviceTracer.Start(ctx, "AuthService.Refresh")
	defer span.End()

	claims, err := s.tokens.Parse(refreshToken)
	if err != nil {
		return nil, errorbank.Unauthorized("invalid refresh token", errorbank.WithCause(err))
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if errors.Is(err, userrepo.ErrNotFound) {
		return nil, errorbank.Unauthorized("user not found")
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "user lookup failed")
		return nil, errorbank.Internal("failed to load user", errorbank.WithCause(err))
	}

	accessToken, newRefreshToken, err := s.tokens.Issue(user)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "token issuance failed")
		return nil, errorbank.Internal("failed to issue credentials", errorbank.WithCause(err))
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: newRefreshToken}, nil
}

// ParseAccessToken verifies an access credential's signature and expiry.
func (s *Service) ParseAccessToken(token string) (*Claims, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, errorbank.Unauthorized("invalid access token", errorbank.WithCause(err))
	}
	return claims, nil
}

// Validate confirms the credential's subject still resolves to an active
// user. Deactivation is enforced only here: previously issued tokens remain
// verifiable but are rejected at this step.
func (s *Service) Validate(ctx context.Context, claims *Claims) (*entity.User, error) {
	ctx, span := serviceTracer.Start(ctx, "AuthService.Validate", trace.WithAttributes(attribute.Int64("user.id", claims.UserID)))
	defer span.End()

	user, err := s.users.GetByID(ctx, claims.UserID)
	if errors.Is(err, userrepo.ErrNotFound) {
		return nil, errorbank.Unauthorized("user not found or inactive")
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "user lookup failed")
		return nil, errorbank.Internal("failed to load user", errorbank.WithCause(err))
	}
	if !user.IsActive {
		return nil, errorbank.Unauthorized("user not found or inactive")
	}
	return user, nil
}

func (s *Service) publishSMSDispatch(ctx context.Context, phone, code string) {
	if !s.msgEnabled || s.publisher == nil {
		return
	}
	event := SMSDispatchEvent{Phone: phone, Code: code, RequestedAt: time.Now().UTC()}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("marshal sms dispatch", zap.Error(err))
		return
	}
	if err := s.publisher.Publish(ctx, s.smsTopic, []byte(phone), payload); err != nil {
		// Fire-and-forget: delivery failure does not fail the request.
		s.logger.Error("publish sms dispatch", zap.Error(err))
	}
}
