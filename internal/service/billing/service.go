package billing

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/officefood/officefood/internal/entity"
	"github.com/officefood/officefood/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/officefood/officefood/service/billing")

// Orders is the read surface billing aggregates over.
type Orders interface {
	ListByCompanyInRange(ctx context.Context, companyID int64, from, to time.Time) ([]*entity.Order, error)
}

// Summary aggregates a set of orders.
type Summary struct {
	TotalAmount       decimal.Decimal
	TotalOrders       int
	UniqueUsers       int
	AverageOrderValue decimal.Decimal
}

// Period is a half-open [Start, End) reporting window.
type Period struct {
	Start time.Time
	End   time.Time
}

// WeeklyReport combines a week's summary with the underlying orders.
type WeeklyReport struct {
	Period  Period
	Summary Summary
	Orders  []*entity.Order
}

// DailyStat aggregates one calendar day inside a monthly report.
type DailyStat struct {
	Date        time.Time
	TotalAmount decimal.Decimal
	OrderCount  int
}

// MonthlyReport summarizes a calendar month with per-day buckets.
type MonthlyReport struct {
	Year       int
	Month      time.Month
	MonthName  string
	Period     Period
	Summary    Summary
	DailyStats []DailyStat
	Orders     []*entity.Order
}

// CompanySummary compares the current month against the previous one.
type CompanySummary struct {
	CurrentMonth     Summary
	PreviousMonth    Summary
	GrowthAmount     decimal.Decimal
	GrowthPercentage decimal.Decimal
}

// Service computes billing aggregates for a company.
type Service struct {
	orders Orders
	logger *zap.Logger
	now    func() time.Time
}

// Params defines dependencies for constructing Service.
type Params struct {
	fx.In

	Orders Orders
	Logger *zap.Logger
}

// NewService wires a new Service instance.
func NewService(p Params) *Service {
	return &Service{orders: p.Orders, logger: p.Logger, now: time.Now}
}

// Summarize aggregates all company orders inside [from, to).
func (s *Service) Summarize(ctx context.Context, companyID int64, from, to time.Time) (Summary, error) {
	ctx, span := serviceTracer.Start(ctx, "BillingService.Summarize", trace.WithAttributes(
		attribute.Int64("company.id", companyID),
	))
	defer span.End()

	orders, err := s.orders.ListByCompanyInRange(ctx, companyID, from, to)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return Summary{}, errorbank.Internal("failed to load orders", errorbank.WithCause(err))
	}
	return summarize(orders), nil
}

// WeeklyReport builds a report for the week starting at start. A zero end
// defaults to start plus seven days.
func (s *Service) WeeklyReport(ctx context.Context, companyID int64, start, end time.Time) (*WeeklyReport, error) {
	ctx, span := serviceTracer.Start(ctx, "BillingService.WeeklyReport", trace.WithAttributes(
		attribute.Int64("company.id", companyID),
	))
	defer span.End()

	if end.IsZero() {
		end = start.AddDate(0, 0, 7)
	}
	if !end.After(start) {
		return nil, errorbank.BadRequest("end date must be after start date")
	}

	orders, err := s.orders.ListByCompanyInRange(ctx, companyID, start, end)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to load orders", errorbank.WithCause(err))
	}

	return &WeeklyReport{
		Period:  Period{Start: start, End: end},
		Summary: summarize(orders),
		Orders:  orders,
	}, nil
}

// MonthlyReport builds a report for one calendar month with daily buckets.
func (s *Service) MonthlyReport(ctx context.Context, companyID int64, year int, month time.Month) (*MonthlyReport, error) {
	ctx, span := serviceTracer.Start(ctx, "BillingService.MonthlyReport", trace.WithAttributes(
		attribute.Int64("company.id", companyID),
		attribute.Int("report.year", year),
		attribute.Int("report.month", int(month)),
	))
	defer span.End()

	if month < time.January || month > time.December {
		return nil, errorbank.BadRequest("month must be between 1 and 12")
	}

	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	orders, err := s.orders.ListByCompanyInRange(ctx, companyID, start, end)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to load orders", errorbank.WithCause(err))
	}

	return &MonthlyReport{
		Year:       year,
		Month:      month,
		MonthName:  month.String(),
		Period:     Period{Start: start, End: end},
		Summary:    summarize(orders),
		DailyStats: bucketByDay(orders),
		Orders:     orders,
	}, nil
}

// CompanySummary compares the month containing now against the month before
// it. Growth percentage is zero when the previous month had no revenue.
func (s *Service) CompanySummary(ctx context.Context, companyID int64) (*CompanySummary, error) {
	ctx, span := serviceTracer.Start(ctx, "BillingService.CompanySummary", trace.WithAttributes(
		attribute.Int64("company.id", companyID),
	))
	defer span.End()

	now := s.now().UTC()
	currentStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	currentEnd := currentStart.AddDate(0, 1, 0)
	previousStart := currentStart.AddDate(0, -1, 0)

	current, err := s.Summarize(ctx, companyID, currentStart, currentEnd)
	if err != nil {
		return nil, err
	}
	previous, err := s.Summarize(ctx, companyID, previousStart, currentStart)
	if err != nil {
		return nil, err
	}

	growth := current.TotalAmount.Sub(previous.TotalAmount)
	percentage := decimal.Zero
	if previous.TotalAmount.IsPositive() {
		percentage = growth.Div(previous.TotalAmount).Mul(decimal.NewFromInt(100)).Round(2)
	}

	return &CompanySummary{
		CurrentMonth:     current,
		PreviousMonth:    previous,
		GrowthAmount:     growth,
		GrowthPercentage: percentage,
	}, nil
}

func summarize(orders []*entity.Order) Summary {
	total := decimal.Zero
	users := make(map[int64]struct{})
	for _, order := range orders {
		total = total.Add(order.TotalAmount)
		users[order.UserID] = struct{}{}
	}

	average := decimal.Zero
	if len(orders) > 0 {
		average = total.Div(decimal.NewFromInt(int64(len(orders)))).Round(2)
	}

	return Summary{
		TotalAmount:       total,
		TotalOrders:       len(orders),
		UniqueUsers:       len(users),
		AverageOrderValue: average,
	}
}

// bucketByDay groups orders by the calendar day they were created on,
// emitting buckets in ascending date order. Days without orders are omitted.
func bucketByDay(orders []*entity.Order) []DailyStat {
	buckets := make(map[time.Time]*DailyStat)
	keys := make([]time.Time, 0)
	for _, order := range orders {
		day := order.CreatedAt.UTC().Truncate(24 * time.Hour)
		stat, ok := buckets[day]
		if !ok {
			stat = &DailyStat{Date: day}
			buckets[day] = stat
			keys = append(keys, day)
		}
		stat.TotalAmount = stat.TotalAmount.Add(order.TotalAmount)
		stat.OrderCount++
	}

	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })

	stats := make([]DailyStat, 0, len(keys))
	for _, day := range keys {
		stats = append(stats, *buckets[day])
	}
	return stats
}
