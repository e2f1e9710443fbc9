package otp

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/officefood/officefood/internal/config"
	"github.com/officefood/officefood/internal/entity"
	repo "github.com/officefood/officefood/internal/repository/otp"
)

type memoryRepo struct {
	codes map[string]*entity.OtpCode
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{codes: make(map[string]*entity.OtpCode)}
}

func (m *memoryRepo) Replace(_ context.Context, code *entity.OtpCode) error {
	m.codes[code.Phone] = code
	return nil
}

func (m *memoryRepo) FindValid(_ context.Context, phone, code string, now time.Time) (*entity.OtpCode, error) {
	record, ok := m.codes[phone]
	if !ok || record.Code != code || !record.Valid(now) {
		return nil, repo.ErrNotFound
	}
	return record, nil
}

func (m *memoryRepo) MarkUsed(_ context.Context, phone, code string) error {
	if record, ok := m.codes[phone]; ok && record.Code == code {
		record.IsUsed = true
	}
	return nil
}

func (m *memoryRepo) DeleteStale(_ context.Context, now time.Time) (int64, error) {
	var removed int64
	for phone, record := range m.codes {
		if record.IsUsed || !record.ExpiresAt.After(now) {
			delete(m.codes, phone)
			removed++
		}
	}
	return removed, nil
}

func newTestService(store *memoryRepo, environment string) *Service {
	var cfg config.Config
	cfg.Observability.Environment = environment
	cfg.OTP.TTL = 5 * time.Minute
	cfg.OTP.MockCode = "123456"
	return NewService(Params{Repository: store, Config: cfg, Logger: zap.NewNop()})
}

func TestGenerateReturnsMockCodeOutsideProduction(t *testing.T) {
	store := newMemoryRepo()
	svc := newTestService(store, "development")

	code, err := svc.Generate(context.Background(), "+15550001111")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if code != "123456" {
		t.Errorf("Generate() = %q, want mock code", code)
	}
}

func TestGenerateSupersedesPreviousCode(t *testing.T) {
	store := newMemoryRepo()
	svc := newTestService(store, "development")
	ctx := context.Background()
	phone := "+15550001111"

	if _, err := svc.Generate(ctx, phone); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if _, err := svc.Generate(ctx, phone); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(store.codes) != 1 {
		t.Errorf("stored codes = %d, want one effective code per phone", len(store.codes))
	}
}

func TestVerify(t *testing.T) {
	tests := []struct {
		name  string
		phone string
		code  string
		used  bool
		want  bool
	}{
		{name: "valid code", phone: "+15550001111", code: "123456", want: true},
		{name: "wrong code", phone: "+15550001111", code: "000000", want: false},
		{name: "unknown phone", phone: "+15550009999", code: "123456", want: false},
		{name: "used code", phone: "+15550001111", code: "123456", used: true, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemoryRepo()
			svc := newTestService(store, "development")
			ctx := context.Background()

			if _, err := svc.Generate(ctx, "+15550001111"); err != nil {
				t.Fatalf("Generate() error = %v", err)
			}
			if tt.used {
				if err := svc.MarkUsed(ctx, "+15550001111", "123456"); err != nil {
					t.Fatalf("MarkUsed() error = %v", err)
				}
			}

			ok, err := svc.Verify(ctx, tt.phone, tt.code)
			if err != nil {
				t.Fatalf("Verify() error = %v", err)
			}
			if ok != tt.want {
				t.Errorf("Verify() = %v, want %v", ok, tt.want)
			}
		})
	}
}

func TestVerifyFailureHasNoSideEffects(t *testing.T) {
	store := newMemoryRepo()
	svc := newTestService(store, "development")
	ctx := context.Background()
	phone := "+15550001111"

	if _, err := svc.Generate(ctx, phone); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if ok, _ := svc.Verify(ctx, phone, "999999"); ok {
		t.Fatal("Verify() with wrong code succeeded")
	}
	if ok, _ := svc.Verify(ctx, phone, "123456"); !ok {
		t.Error("valid code no longer verifies after a failed attempt")
	}
}

func TestCleanupExpired(t *testing.T) {
	store := newMemoryRepo()
	svc := newTestService(store, "development")
	ctx := context.Background()
	now := time.Now().UTC()

	store.codes["+15550001111"] = &entity.OtpCode{Phone: "+15550001111", Code: "111111", ExpiresAt: now.Add(-time.Minute)}
	store.codes["+15550002222"] = &entity.OtpCode{Phone: "+15550002222", Code: "222222", ExpiresAt: now.Add(time.Minute), IsUsed: true}
	store.codes["+15550003333"] = &entity.OtpCode{Phone: "+15550003333", Code: "333333", ExpiresAt: now.Add(time.Minute)}

	removed, err := svc.CleanupExpired(ctx)
	if err != nil {
		t.Fatalf("CleanupExpired() error = %v", err)
	}
	if removed != 2 {
		t.Errorf("CleanupExpired() removed = %d, want 2", removed)
	}
	if _, ok := store.codes["+15550003333"]; !ok {
		t.Error("live code was removed by cleanup")
	}
}
