package config

import (
	"testing"
	"time"
)

func TestNewDefaults(t *testing.T) {
	cfg, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if cfg.HTTP.Port != 8080 {
		t.Errorf("HTTP.Port = %d, want 8080", cfg.HTTP.Port)
	}
	if cfg.Auth.AccessTTL != 15*time.Minute {
		t.Errorf("Auth.AccessTTL = %v, want 15m", cfg.Auth.AccessTTL)
	}
	if cfg.Auth.RefreshTTL != 30*24*time.Hour {
		t.Errorf("Auth.RefreshTTL = %v, want 720h", cfg.Auth.RefreshTTL)
	}
	if cfg.OTP.TTL != 5*time.Minute {
		t.Errorf("OTP.TTL = %v, want 5m", cfg.OTP.TTL)
	}
	if cfg.OTP.MockCode != "123456" {
		t.Errorf("OTP.MockCode = %q, want 123456", cfg.OTP.MockCode)
	}
	if cfg.Messaging.Kafka.OrderTopic != "orders.events" {
		t.Errorf("OrderTopic = %q", cfg.Messaging.Kafka.OrderTopic)
	}
	if cfg.Messaging.Kafka.SMSTopic != "sms.dispatch" {
		t.Errorf("SMSTopic = %q", cfg.Messaging.Kafka.SMSTopic)
	}
	if cfg.Production() {
		t.Error("Production() = true with default environment")
	}
}

func TestNewOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("OBS_ENVIRONMENT", "production")
	t.Setenv("JWT_ACCESS_TTL", "30m")
	t.Setenv("MESSAGING_ENABLED", "false")

	cfg, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if cfg.HTTP.Port != 9090 {
		t.Errorf("HTTP.Port = %d, want 9090", cfg.HTTP.Port)
	}
	if !cfg.Production() {
		t.Error("Production() = false, want true")
	}
	if cfg.Auth.AccessTTL != 30*time.Minute {
		t.Errorf("Auth.AccessTTL = %v, want 30m", cfg.Auth.AccessTTL)
	}
	if cfg.Messaging.Driver != "noop" {
		t.Errorf("Messaging.Driver = %q, want noop when messaging disabled", cfg.Messaging.Driver)
	}
}

func TestNewRejectsBadMockCode(t *testing.T) {
	t.Setenv("OTP_MOCK_CODE", "12345")

	if _, err := New(); err == nil {
		t.Error("New() accepted a non-6-digit mock code")
	}
}

func TestReaderDSNFallsBackToWriter(t *testing.T) {
	t.Setenv("DB_WRITER_DSN", "postgres://writer:pw@db:5432/app")
	t.Setenv("DB_READER_DSN", "")

	cfg, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if cfg.Database.ReaderDSN != cfg.Database.WriterDSN {
		t.Errorf("ReaderDSN = %q, want writer DSN", cfg.Database.ReaderDSN)
	}
}
