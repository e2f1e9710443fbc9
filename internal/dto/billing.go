package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/officefood/officefood/internal/service/billing"
)

// BillingSummaryResponse aggregates a set of orders.
type BillingSummaryResponse struct {
	TotalAmount       decimal.Decimal `json:"totalAmount"`
	TotalOrders       int             `json:"totalOrders"`
	UniqueUsers       int             `json:"uniqueUsers"`
	AverageOrderValue decimal.Decimal `json:"averageOrderValue"`
}

// PeriodResponse is a reporting window.
type PeriodResponse struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// WeeklyReportResponse combines a week's summary with the underlying orders.
type WeeklyReportResponse struct {
	Period  PeriodResponse         `json:"period"`
	Summary BillingSummaryResponse `json:"summary"`
	Orders  []OrderResponse        `json:"orders"`
}

// DailyStatResponse aggregates one calendar day inside a monthly report.
type DailyStatResponse struct {
	Date        string          `json:"date"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	OrderCount  int             `json:"orderCount"`
}

// MonthlyReportResponse summarizes a calendar month with per-day buckets.
type MonthlyReportResponse struct {
	Year       int                    `json:"year"`
	Month      int                    `json:"month"`
	MonthName  string                 `json:"monthName"`
	Period     PeriodResponse         `json:"period"`
	Summary    BillingSummaryResponse `json:"summary"`
	DailyStats []DailyStatResponse    `json:"dailyStats"`
	Orders     []OrderResponse        `json:"orders"`
}

// CompanySummaryResponse compares the current month with the previous one.
type CompanySummaryResponse struct {
	CurrentMonth     BillingSummaryResponse `json:"currentMonth"`
	PreviousMonth    BillingSummaryResponse `json:"previousMonth"`
	GrowthAmount     decimal.Decimal        `json:"growthAmount"`
	GrowthPercentage decimal.Decimal        `json:"growthPercentage"`
}

// BillingSummaryFromModel maps a billing summary onto its transport shape.
func BillingSummaryFromModel(s billing.Summary) BillingSummaryResponse {
	return BillingSummaryResponse{
		TotalAmount:       s.TotalAmount,
		TotalOrders:       s.TotalOrders,
		UniqueUsers:       s.UniqueUsers,
		AverageOrderValue: s.AverageOrderValue,
	}
}

// WeeklyReportFromModel maps a weekly report onto its transport shape.
func WeeklyReportFromModel(r *billing.WeeklyReport) WeeklyReportResponse {
	return WeeklyReportResponse{
		Period:  PeriodResponse{Start: r.Period.Start, End: r.Period.End},
		Summary: BillingSummaryFromModel(r.Summary),
		Orders:  OrdersFromEntities(r.Orders),
	}
}

// MonthlyReportFromModel maps a monthly report onto its transport shape.
func MonthlyReportFromModel(r *billing.MonthlyReport) MonthlyReportResponse {
	stats := make([]DailyStatResponse, 0, len(r.DailyStats))
	for _, stat := range r.DailyStats {
		stats = append(stats, DailyStatResponse{
			Date:        stat.Date.Format("2006-01-02"),
			TotalAmount: stat.TotalAmount,
			OrderCount:  stat.OrderCount,
		})
	}
	return MonthlyReportResponse{
		Year:       r.Year,
		Month:      int(r.Month),
		MonthName:  r.MonthName,
		Period:     PeriodResponse{Start: r.Period.Start, End: r.Period.End},
		Summary:    BillingSummaryFromModel(r.Summary),
		DailyStats: stats,
		Orders:     OrdersFromEntities(r.Orders),
	}
}

// CompanySummaryFromModel maps a company summary onto its transport shape.
func CompanySummaryFromModel(s *billing.CompanySummary) CompanySummaryResponse {
	return CompanySummaryResponse{
		CurrentMonth:     BillingSummaryFromModel(s.CurrentMonth),
		PreviousMonth:    BillingSummaryFromModel(s.PreviousMonth),
		GrowthAmount:     s.GrowthAmount,
		GrowthPercentage: s.GrowthPercentage,
	}
}
