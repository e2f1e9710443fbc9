package auth

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/officefood/officefood/internal/config"
	"github.com/officefood/officefood/internal/entity"
	userrepo "github.com/officefood/officefood/internal/repository/user"
	"github.com/officefood/officefood/pkg/errorbank"
)

type memoryUsers struct {
	nextID int64
	byID   map[int64]*entity.User
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{nextID: 1, byID: make(map[int64]*entity.User)}
}

func (m *memoryUsers) GetByID(_ context.Context, id int64) (*entity.User, error) {
	user, ok := m.byID[id]
	if !ok {
		return nil, userrepo.ErrNotFound
	}
	return user, nil
}

func (m *memoryUsers) GetByPhone(_ context.Context, phone string) (*entity.User, error) {
	for _, user := range m.byID {
		if user.Phone == phone {
			return user, nil
		}
	}
	return nil, userrepo.ErrNotFound
}

func (m *memoryUsers) Create(_ context.Context, user *entity.User) error {
	user.ID = m.nextID
	m.nextID++
	m.byID[user.ID] = user
	return nil
}

type memoryOTP struct {
	codes map[string]string
	used  map[string]bool
}

func newMemoryOTP() *memoryOTP {
	return &memoryOTP{codes: make(map[string]string), used: make(map[string]bool)}
}

func (m *memoryOTP) Generate(_ context.Context, phone string) (string, error) {
	m.codes[phone] = "123456"
	delete(m.used, phone)
	return "123456", nil
}

func (m *memoryOTP) Verify(_ context.Context, phone, code string) (bool, error) {
	return m.codes[phone] == code && !m.used[phone], nil
}

func (m *memoryOTP) MarkUsed(_ context.Context, phone, code string) error {
	m.used[phone] = true
	return nil
}

func (m *memoryOTP) TTL() time.Duration { return 5 * time.Minute }

func newTestService(users *memoryUsers, otp *memoryOTP) *Service {
	var cfg config.Config
	cfg.Observability.Environment = "test"
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.AccessTTL = 15 * time.Minute
	cfg.Auth.RefreshTTL = 720 * time.Hour
	return NewService(Params{
		Users:  users,
		OTP:    otp,
		Config: cfg,
		Logger: zap.NewNop(),
	})
}

func TestSendOTPEchoesCodeOutsideProduction(t *testing.T) {
	svc := newTestService(newMemoryUsers(), newMemoryOTP())

	result, err := svc.SendOTP(context.Background(), "+15550001111")
	if err != nil {
		t.Fatalf("SendOTP() error = %v", err)
	}
	if result.OTP != "123456" {
		t.Errorf("SendOTP() OTP = %q, want code echoed in test mode", result.OTP)
	}
	if result.ExpiresIn != 300 {
		t.Errorf("SendOTP() ExpiresIn = %d, want 300", result.ExpiresIn)
	}
}

func TestVerifyOTPCreatesUserOnFirstLogin(t *testing.T) {
	users := newMemoryUsers()
	svc := newTestService(users, newMemoryOTP())
	ctx := context.Background()
	phone := "+15550001111"

	if _, err := svc.SendOTP(ctx, phone); err != nil {
		t.Fatalf("SendOTP() error = %v", err)
	}
	result, err := svc.VerifyOTP(ctx, phone, "123456")
	if err != nil {
		t.Fatalf("VerifyOTP() error = %v", err)
	}

	if result.AccessToken == "" || result.RefreshToken == "" {
		t.Error("VerifyOTP() returned empty credentials")
	}
	if result.User.Role != entity.RoleUser {
		t.Errorf("created user role = %q, want %q", result.User.Role, entity.RoleUser)
	}
	if result.User.Name != nil || result.User.Email != nil {
		t.Error("lazily created user should have no name or email")
	}
	if _, err := users.GetByPhone(ctx, phone); err != nil {
		t.Errorf("user was not persisted: %v", err)
	}
}

func TestVerifyOTPRejectsReusedCode(t *testing.T) {
	svc := newTestService(newMemoryUsers(), newMemoryOTP())
	ctx := context.Background()
	phone := "+15550001111"

	if _, err := svc.SendOTP(ctx, phone); err != nil {
		t.Fatalf("SendOTP() error = %v", err)
	}
	if _, err := svc.VerifyOTP(ctx, phone, "123456"); err != nil {
		t.Fatalf("first VerifyOTP() error = %v", err)
	}

	_, err := svc.VerifyOTP(ctx, phone, "123456")
	if errorbank.From(err).Kind() != errorbank.KindUnauthorized {
		t.Errorf("second VerifyOTP() kind = %v, want unauthorized", errorbank.From(err).Kind())
	}
}

func TestVerifyOTPRejectsWrongCode(t *testing.T) {
	svc := newTestService(newMemoryUsers(), newMemoryOTP())
	ctx := context.Background()

	if _, err := svc.SendOTP(ctx, "+15550001111"); err != nil {
		t.Fatalf("SendOTP() error = %v", err)
	}
	_, err := svc.VerifyOTP(ctx, "+15550001111", "000000")
	if errorbank.From(err).Kind() != errorbank.KindUnauthorized {
		t.Errorf("VerifyOTP() kind = %v, want unauthorized", errorbank.From(err).Kind())
	}
}

func TestRefreshReflectsCurrentUserRecord(t *testing.T) {
	users := newMemoryUsers()
	svc := newTestService(users, newMemoryOTP())
	ctx := context.Background()
	phone := "+15550001111"

	if _, err := svc.SendOTP(ctx, phone); err != nil {
		t.Fatalf("SendOTP() error = %v", err)
	}
	login, err := svc.VerifyOTP(ctx, phone, "123456")
	if err != nil {
		t.Fatalf("VerifyOTP() error = %v", err)
	}

	// Promote the user after login; a refresh should pick up the new role.
	users.byID[login.User.ID].Role = entity.RoleAdmin

	pair, err := svc.Refresh(ctx, login.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	claims, err := svc.ParseAccessToken(pair.AccessToken)
	if err != nil {
		t.Fatalf("ParseAccessToken() error = %v", err)
	}
	if claims.Role != entity.RoleAdmin {
		t.Errorf("refreshed claims role = %q, want %q", claims.Role, entity.RoleAdmin)
	}
}

func TestRefreshFailsWhenUserIsGone(t *testing.T) {
	users := newMemoryUsers()
	svc := newTestService(users, newMemoryOTP())
	ctx := context.Background()

	if _, err := svc.SendOTP(ctx, "+15550001111"); err != nil {
		t.Fatalf("SendOTP() error = %v", err)
	}
	login, err := svc.VerifyOTP(ctx, "+15550001111", "123456")
	if err != nil {
		t.Fatalf("VerifyOTP() error = %v", err)
	}

	delete(users.byID, login.User.ID)

	_, err = svc.Refresh(ctx, login.RefreshToken)
	if errorbank.From(err).Kind() != errorbank.KindUnauthorized {
		t.Errorf("Refresh() kind = %v, want unauthorized", errorbank.From(err).Kind())
	}
}

func TestRefreshRejectsGarbageToken(t *testing.T) {
	svc := newTestService(newMemoryUsers(), newMemoryOTP())

	_, err := svc.Refresh(context.Background(), "not-a-token")
	if errorbank.From(err).Kind() != errorbank.KindUnauthorized {
		t.Errorf("Refresh() kind = %v, want unauthorized", errorbank.From(err).Kind())
	}
}

func TestValidateRejectsDeactivatedUser(t *testing.T) {
	users := newMemoryUsers()
	svc := newTestService(users, newMemoryOTP())
	ctx := context.Background()

	if _, err := svc.SendOTP(ctx, "+15550001111"); err != nil {
		t.Fatalf("SendOTP() error = %v", err)
	}
	login, err := svc.VerifyOTP(ctx, "+15550001111", "123456")
	if err != nil {
		t.Fatalf("VerifyOTP() error = %v", err)
	}

	claims, err := svc.ParseAccessToken(login.AccessToken)
	if err != nil {
		t.Fatalf("ParseAccessToken() error = %v", err)
	}
	if _, err := svc.Validate(ctx, claims); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	users.byID[login.User.ID].IsActive = false

	_, err = svc.Validate(ctx, claims)
	if errorbank.From(err).Kind() != errorbank.KindUnauthorized {
		t.Errorf("Validate() kind = %v, want unauthorized", errorbank.From(err).Kind())
	}
}

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Minute, time.Hour)
	company := int64(7)
	user := &entity.User{ID: 42, Phone: "+15550001111", Role: entity.RoleAdmin, CompanyID: &company}

	access, refresh, err := issuer.Issue(user)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	for _, token := range []string{access, refresh} {
		claims, err := issuer.Parse(token)
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		if claims.UserID != 42 || claims.Phone != "+15550001111" || claims.Role != entity.RoleAdmin {
			t.Errorf("Parse() claims = %+v, want issued values", claims)
		}
		if claims.CompanyID == nil || *claims.CompanyID != company {
			t.Errorf("Parse() companyId = %v, want %d", claims.CompanyID, company)
		}
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	issuer := NewTokenIssuer("secret", -time.Minute, time.Hour)
	user := &entity.User{ID: 1, Phone: "+15550001111", Role: entity.RoleUser}

	access, _, err := issuer.Issue(user)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if _, err := issuer.Parse(access); err == nil {
		t.Error("Parse() accepted an expired token")
	}
}

func TestParseRejectsForeignSignature(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Minute, time.Hour)
	other := NewTokenIssuer("different", time.Minute, time.Hour)
	user := &entity.User{ID: 1, Phone: "+15550001111", Role: entity.RoleUser}

	access, _, err := other.Issue(user)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if _, err := issuer.Parse(access); err == nil {
		t.Error("Parse() accepted a token signed with another secret")
	}
}
