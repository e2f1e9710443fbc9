package billing

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/officefood/officefood/internal/entity"
)

type memoryOrders struct {
	orders []*entity.Order
}

func (m *memoryOrders) ListByCompanyInRange(_ context.Context, _ int64, from, to time.Time) ([]*entity.Order, error) {
	var out []*entity.Order
	for _, order := range m.orders {
		if !order.CreatedAt.Before(from) && order.CreatedAt.Before(to) {
			out = append(out, order)
		}
	}
	return out, nil
}

func newTestService(store *memoryOrders, now time.Time) *Service {
	svc := NewService(Params{Orders: store, Logger: zap.NewNop()})
	svc.now = func() time.Time { return now }
	return svc
}

func order(userID int64, amount string, createdAt time.Time) *entity.Order {
	return &entity.Order{
		UserID:      userID,
		TotalAmount: decimal.RequireFromString(amount),
		CreatedAt:   createdAt,
	}
}

func TestSummarizeEmptyRange(t *testing.T) {
	svc := newTestService(&memoryOrders{}, time.Now().UTC())

	summary, err := svc.Summarize(context.Background(), 1, time.Now().Add(-time.Hour), time.Now())
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if summary.TotalOrders != 0 || summary.UniqueUsers != 0 {
		t.Errorf("Summarize() = %+v, want zero counts", summary)
	}
	if !summary.TotalAmount.IsZero() || !summary.AverageOrderValue.IsZero() {
		t.Errorf("Summarize() amounts = %s/%s, want zero", summary.TotalAmount, summary.AverageOrderValue)
	}
}

func TestSummarizeAggregates(t *testing.T) {
	base := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	store := &memoryOrders{orders: []*entity.Order{
		order(1, "15.99", base),
		order(1, "9.50", base.Add(time.Hour)),
		order(2, "20.00", base.Add(2*time.Hour)),
	}}
	svc := newTestService(store, base)

	summary, err := svc.Summarize(context.Background(), 1, base.Add(-time.Hour), base.Add(3*time.Hour))
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if summary.TotalOrders != 3 {
		t.Errorf("TotalOrders = %d, want 3", summary.TotalOrders)
	}
	if summary.UniqueUsers != 2 {
		t.Errorf("UniqueUsers = %d, want 2", summary.UniqueUsers)
	}
	if !summary.TotalAmount.Equal(decimal.RequireFromString("45.49")) {
		t.Errorf("TotalAmount = %s, want 45.49", summary.TotalAmount)
	}
	if !summary.AverageOrderValue.Equal(decimal.RequireFromString("15.16")) {
		t.Errorf("AverageOrderValue = %s, want 15.16", summary.AverageOrderValue)
	}
}

func TestWeeklyReportDefaultsEndDate(t *testing.T) {
	start := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	store := &memoryOrders{orders: []*entity.Order{
		order(1, "10.00", start.AddDate(0, 0, 3)),
		order(1, "10.00", start.AddDate(0, 0, 8)), // outside the week
	}}
	svc := newTestService(store, start)

	report, err := svc.WeeklyReport(context.Background(), 1, start, time.Time{})
	if err != nil {
		t.Fatalf("WeeklyReport() error = %v", err)
	}
	if !report.Period.End.Equal(start.AddDate(0, 0, 7)) {
		t.Errorf("Period.End = %v, want start+7d", report.Period.End)
	}
	if report.Summary.TotalOrders != 1 {
		t.Errorf("TotalOrders = %d, want 1", report.Summary.TotalOrders)
	}
}

func TestWeeklyReportRejectsInvertedRange(t *testing.T) {
	svc := newTestService(&memoryOrders{}, time.Now().UTC())
	start := time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC)

	if _, err := svc.WeeklyReport(context.Background(), 1, start, start.AddDate(0, 0, -1)); err == nil {
		t.Error("WeeklyReport() accepted end before start")
	}
}

func TestMonthlyReportBucketsByDay(t *testing.T) {
	store := &memoryOrders{orders: []*entity.Order{
		order(1, "10.00", time.Date(2026, time.February, 3, 9, 0, 0, 0, time.UTC)),
		order(2, "5.00", time.Date(2026, time.February, 3, 18, 0, 0, 0, time.UTC)),
		order(1, "7.50", time.Date(2026, time.February, 10, 12, 0, 0, 0, time.UTC)),
	}}
	svc := newTestService(store, time.Now().UTC())

	report, err := svc.MonthlyReport(context.Background(), 1, 2026, time.February)
	if err != nil {
		t.Fatalf("MonthlyReport() error = %v", err)
	}
	if report.MonthName != "February" {
		t.Errorf("MonthName = %q, want February", report.MonthName)
	}
	if len(report.DailyStats) != 2 {
		t.Fatalf("DailyStats = %d buckets, want 2", len(report.DailyStats))
	}
	first := report.DailyStats[0]
	if first.OrderCount != 2 || !first.TotalAmount.Equal(decimal.RequireFromString("15.00")) {
		t.Errorf("first bucket = %+v, want 2 orders totalling 15.00", first)
	}
	if !report.DailyStats[0].Date.Before(report.DailyStats[1].Date) {
		t.Error("daily buckets are not in ascending date order")
	}
	if len(report.Orders) != 3 {
		t.Errorf("Orders = %d rows, want 3", len(report.Orders))
	}
}

func TestMonthlyReportRejectsBadMonth(t *testing.T) {
	svc := newTestService(&memoryOrders{}, time.Now().UTC())

	if _, err := svc.MonthlyReport(context.Background(), 1, 2026, time.Month(13)); err == nil {
		t.Error("MonthlyReport() accepted month 13")
	}
}

func TestCompanySummaryGrowth(t *testing.T) {
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)
	store := &memoryOrders{orders: []*entity.Order{
		order(1, "100.00", time.Date(2026, time.February, 10, 0, 0, 0, 0, time.UTC)),
		order(1, "150.00", time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC)),
	}}
	svc := newTestService(store, now)

	summary, err := svc.CompanySummary(context.Background(), 1)
	if err != nil {
		t.Fatalf("CompanySummary() error = %v", err)
	}
	if !summary.GrowthAmount.Equal(decimal.RequireFromString("50.00")) {
		t.Errorf("GrowthAmount = %s, want 50.00", summary.GrowthAmount)
	}
	if !summary.GrowthPercentage.Equal(decimal.RequireFromString("50")) {
		t.Errorf("GrowthPercentage = %s, want 50", summary.GrowthPercentage)
	}
}

func TestCompanySummaryZeroPreviousMonth(t *testing.T) {
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)
	store := &memoryOrders{orders: []*entity.Order{
		order(1, "150.00", time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC)),
	}}
	svc := newTestService(store, now)

	summary, err := svc.CompanySummary(context.Background(), 1)
	if err != nil {
		t.Fatalf("CompanySummary() error = %v", err)
	}
	if !summary.GrowthPercentage.IsZero() {
		t.Errorf("GrowthPercentage = %s, want 0 when previous month is empty", summary.GrowthPercentage)
	}
	if !summary.GrowthAmount.Equal(decimal.RequireFromString("150.00")) {
		t.Errorf("GrowthAmount = %s, want 150.00", summary.GrowthAmount)
	}
}
