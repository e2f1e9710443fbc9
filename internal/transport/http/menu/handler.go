package menu

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/officefood/officefood/internal/dto"
	"github.com/officefood/officefood/internal/entity"
	"github.com/officefood/officefood/internal/presentation/http/response"
	repo "github.com/officefood/officefood/internal/repository/menuitem"
	authsvc "github.com/officefood/officefood/internal/service/auth"
	service "github.com/officefood/officefood/internal/service/menu"
	"github.com/officefood/officefood/internal/transport/http/middleware"
	"github.com/officefood/officefood/pkg/errorbank"
)

var httpTracer = otel.Tracer("github.com/officefood/officefood/transport/http/menu")

// Handler exposes menu endpoints over HTTP.
type Handler struct {
	svc *service.Service
}

// NewHandler constructs a menu Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register routes with provided Echo instance.
func Register(e *echo.Echo, h *Handler, auth *authsvc.Service) {
	g := e.Group("/menu", middleware.RequireAuth(auth))
	g.GET("", h.list)
	g.GET("/:id", h.getByID)
	g.POST("", h.create)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
}

func companyID(c echo.Context) (int64, error) {
	user := middleware.CurrentUser(c)
	if user == nil || user.CompanyID == nil {
		return 0, errorbank.BadRequest("user is not assigned to a company")
	}
	return *user.CompanyID, nil
}

func (h *Handler) list(c echo.Context) error {
	b := response.New(c)

	company, err := companyID(c)
	if err != nil {
		return b.WithError(err).Build()
	}

	var filters repo.Filters
	if category := c.QueryParam("category"); category != "" {
		filters.Category = &category
	}
	if raw := c.QueryParam("available"); raw != "" {
		available, err := strconv.ParseBool(raw)
		if err != nil {
			return b.WithError(errorbank.BadRequest("available must be a boolean", errorbank.WithCause(err))).Build()
		}
		filters.Available = &available
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "menu.list", trace.WithAttributes(attribute.Int64("company.id", company)))
	defer span.End()

	items, err := h.svc.List(ctx, company, filters)
	if err != nil {
		return b.WithError(err).Build()
	}

	out := make([]dto.MenuItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, dto.MenuItemFromEntity(item))
	}
	return b.WithData(out).Build()
}

func (h *Handler) getByID(c echo.Context) error {
	b := response.New(c)

	company, err := companyID(c)
	if err != nil {
		return b.WithError(err).Build()
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return b.WithError(errorbank.BadRequest("invalid id", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "menu.getByID", trace.WithAttributes(attribute.Int64("menu_item.id", id)))
	defer span.End()

	item, err := h.svc.Get(ctx, company, id)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(dto.MenuItemFromEntity(item)).Build()
}

type itemPayload struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Category    *string          `json:"category"`
	ImageURL    *string          `json:"imageUrl"`
	IsAvailable *bool            `json:"isAvailable"`
}

func (h *Handler) create(c echo.Context) error {
	b := response.New(c)

	company, err := companyID(c)
	if err != nil {
		return b.WithError(err).Build()
	}

	var payload itemPayload
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}
	if payload.Name == nil || *payload.Name == "" || payload.Category == nil || *payload.Category == "" {
		return b.WithError(errorbank.BadRequest("name and category are required")).Build()
	}
	if payload.Price == nil || payload.Price.IsNegative() {
		return b.WithError(errorbank.BadRequest("price must be zero or positive")).Build()
	}

	item := &entity.MenuItem{
		Name:        *payload.Name,
		Description: payload.Description,
		Price:       *payload.Price,
		Category:    *payload.Category,
		ImageURL:    payload.ImageURL,
		IsAvailable: true,
		CompanyID:   company,
	}
	if payload.IsAvailable != nil {
		item.IsAvailable = *payload.IsAvailable
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "menu.create")
	span.SetAttributes(attribute.String("menu_item.name", item.Name))
	defer span.End()

	if err := h.svc.Create(ctx, item); err != nil {
		return b.WithError(err).Build()
	}
	return b.WithStatus(http.StatusCreated).WithData(dto.MenuItemFromEntity(item)).Build()
}

func (h *Handler) update(c echo.Context) error {
	b := response.New(c)

	company, err := companyID(c)
	if err != nil {
		return b.WithError(err).Build()
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return b.WithError(errorbank.BadRequest("invalid id", errorbank.WithCause(err))).Build()
	}

	var payload itemPayload
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}
	if payload.Price != nil && payload.Price.IsNegative() {
		return b.WithError(errorbank.BadRequest("price must be zero or positive")).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "menu.update", trace.WithAttributes(attribute.Int64("menu_item.id", id)))
	defer span.End()

	item, err := h.svc.Get(ctx, company, id)
	if err != nil {
		return b.WithError(err).Build()
	}

	if payload.Name != nil {
		item.Name = *payload.Name
	}
	if payload.Description != nil {
		item.Description = payload.Description
	}
	if payload.Price != nil {
		item.Price = *payload.Price
	}
	if payload.Category != nil {
		item.Category = *payload.Category
	}
	if payload.ImageURL != nil {
		item.ImageURL = payload.ImageURL
	}
	if payload.IsAvailable != nil {
		item.IsAvailable = *payload.IsAvailable
	}
	item.UpdatedAt = time.Now().UTC()

	if err := h.svc.Update(ctx, item); err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(dto.MenuItemFromEntity(item)).Build()
}

func (h *Handler) delete(c echo.Context) error {
	b := response.New(c)

	company, err := companyID(c)
	if err != nil {
		return b.WithError(err).Build()
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return b.WithError(errorbank.BadRequest("invalid id", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "menu.delete", trace.WithAttributes(attribute.Int64("menu_item.id", id)))
	defer span.End()

	if err := h.svc.Delete(ctx, company, id); err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(map[string]string{"message": "Menu item deleted"}).Build()
}
