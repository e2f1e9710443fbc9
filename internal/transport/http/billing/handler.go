package billing

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/officefood/officefood/internal/dto"
	"github.com/officefood/officefood/internal/presentation/http/response"
	authsvc "github.com/officefood/officefood/internal/service/auth"
	service "github.com/officefood/officefood/internal/service/billing"
	"github.com/officefood/officefood/internal/transport/http/middleware"
	"github.com/officefood/officefood/pkg/errorbank"
)

var httpTracer = otel.Tracer("github.com/officefood/officefood/transport/http/billing")

const dateLayout = "2006-01-02"

// Handler exposes billing report endpoints over HTTP.
type Handler struct {
	svc *service.Service
}

// NewHandler constructs a billing Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register routes with provided Echo instance.
func Register(e *echo.Echo, h *Handler, auth *authsvc.Service) {
	g := e.Group("/billing", middleware.RequireAuth(auth))
	g.GET("/summary", h.summary)
	g.GET("/reports/weekly", h.weekly)
	g.GET("/reports/monthly", h.monthly)
}

func requireCompany(c echo.Context) (int64, error) {
	user := middleware.CurrentUser(c)
	if user == nil || user.CompanyID == nil {
		return 0, errorbank.BadRequest("user is not assigned to a company")
	}
	return *user.CompanyID, nil
}

func (h *Handler) summary(c echo.Context) error {
	b := response.New(c)

	company, err := requireCompany(c)
	if err != nil {
		return b.WithError(err).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "billing.summary", trace.WithAttributes(attribute.Int64("company.id", company)))
	defer span.End()

	summary, err := h.svc.CompanySummary(ctx, company)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(dto.CompanySummaryFromModel(summary)).Build()
}

func (h *Handler) weekly(c echo.Context) error {
	b := response.New(c)

	company, err := requireCompany(c)
	if err != nil {
		return b.WithError(err).Build()
	}

	raw := c.QueryParam("startDate")
	if raw == "" {
		return b.WithError(errorbank.BadRequest("startDate is required")).Build()
	}
	start, err := time.ParseInLocation(dateLayout, raw, time.UTC)
	if err != nil {
		return b.WithError(errorbank.BadRequest("startDate must be YYYY-MM-DD", errorbank.WithCause(err))).Build()
	}

	var end time.Time
	if raw := c.QueryParam("endDate"); raw != "" {
		end, err = time.ParseInLocation(dateLayout, raw, time.UTC)
		if err != nil {
			return b.WithError(errorbank.BadRequest("endDate must be YYYY-MM-DD", errorbank.WithCause(err))).Build()
		}
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "billing.weekly", trace.WithAttributes(attribute.Int64("company.id", company)))
	defer span.End()

	report, err := h.svc.WeeklyReport(ctx, company, start, end)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(dto.WeeklyReportFromModel(report)).Build()
}

func (h *Handler) monthly(c echo.Context) error {
	b := response.New(c)

	company, err := requireCompany(c)
	if err != nil {
		return b.WithError(err).Build()
	}

	year, err := strconv.Atoi(c.QueryParam("year"))
	if err != nil || year < 1 {
		return b.WithError(errorbank.BadRequest("year must be a positive integer")).Build()
	}
	month, err := strconv.Atoi(c.QueryParam("month"))
	if err != nil {
		return b.WithError(errorbank.BadRequest("month must be an integer")).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "billing.monthly", trace.WithAttributes(
		attribute.Int64("company.id", company),
		attribute.Int("report.year", year),
		attribute.Int("report.month", month),
	))
	defer span.End()

	report, err := h.svc.MonthlyReport(ctx, company, year, time.Month(month))
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(dto.MonthlyReportFromModel(report)).Build()
}
