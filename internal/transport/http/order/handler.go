package order

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/officefood/officefood/internal/dto"
	"github.com/officefood/officefood/internal/entity"
	"github.com/officefood/officefood/internal/presentation/http/response"
	repo "github.com/officefood/officefood/internal/repository/order"
	authsvc "github.com/officefood/officefood/internal/service/auth"
	service "github.com/officefood/officefood/internal/service/order"
	sessionsvc "github.com/officefood/officefood/internal/service/ordersession"
	"github.com/officefood/officefood/internal/transport/http/middleware"
	"github.com/officefood/officefood/pkg/errorbank"
)

var httpTracer = otel.Tracer("github.com/officefood/officefood/transport/http/order")

// Handler exposes order and order-session endpoints over HTTP.
type Handler struct {
	orders   *service.Service
	sessions *sessionsvc.Service
}

// NewHandler constructs an order Handler.
func NewHandler(orders *service.Service, sessions *sessionsvc.Service) *Handler {
	return &Handler{orders: orders, sessions: sessions}
}

// Register routes with provided Echo instance. Session routes live under the
// orders prefix to keep one surface for the ordering workflow.
func Register(e *echo.Echo, h *Handler, auth *authsvc.Service) {
	g := e.Group("/orders", middleware.RequireAuth(auth))

	g.GET("/sessions", h.listSessions)
	g.POST("/sessions", h.createSession)
	g.GET("/sessions/:id", h.getSession)
	g.PUT("/sessions/:id", h.updateSession)
	g.DELETE("/sessions/:id", h.deleteSession)
	g.GET("/sessions/:id/orders", h.listSessionOrders)

	g.GET("", h.listMine)
	g.POST("", h.create)
	g.GET("/:id", h.getByID)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
}

func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, errorbank.BadRequest("invalid id", errorbank.WithCause(err))
	}
	return id, nil
}

func requireCompany(c echo.Context) (int64, error) {
	user := middleware.CurrentUser(c)
	if user == nil || user.CompanyID == nil {
		return 0, errorbank.BadRequest("user is not assigned to a company")
	}
	return *user.CompanyID, nil
}

func (h *Handler) listSessions(c echo.Context) error {
	b := response.New(c)

	company, err := requireCompany(c)
	if err != nil {
		return b.WithError(err).Build()
	}

	var active *bool
	if raw := c.QueryParam("active"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return b.WithError(errorbank.BadRequest("active must be a boolean", errorbank.WithCause(err))).Build()
		}
		active = &parsed
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.listSessions", trace.WithAttributes(attribute.Int64("company.id", company)))
	defer span.End()

	sessions, err := h.sessions.List(ctx, company, active)
	if err != nil {
		return b.WithError(err).Build()
	}

	out := make([]dto.OrderSessionResponse, 0, len(sessions))
	for _, session := range sessions {
		out = append(out, dto.OrderSessionFromEntity(session))
	}
	return b.WithData(out).Build()
}

type sessionPayload struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	StartTime   *time.Time `json:"startTime"`
	EndTime     *time.Time `json:"endTime"`
	IsActive    *bool      `json:"isActive"`
}

func (h *Handler) createSession(c echo.Context) error {
	b := response.New(c)

	company, err := requireCompany(c)
	if err != nil {
		return b.WithError(err).Build()
	}
	user := middleware.CurrentUser(c)

	var payload sessionPayload
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}
	if payload.Title == nil || *payload.Title == "" {
		return b.WithError(errorbank.BadRequest("title is required")).Build()
	}
	if payload.StartTime == nil || payload.EndTime == nil {
		return b.WithError(errorbank.BadRequest("startTime and endTime are required")).Build()
	}

	session := &entity.OrderSession{
		Title:       *payload.Title,
		Description: payload.Description,
		StartTime:   *payload.StartTime,
		EndTime:     *payload.EndTime,
		IsActive:    true,
		CompanyID:   company,
		CreatedByID: user.ID,
	}
	if payload.IsActive != nil {
		session.IsActive = *payload.IsActive
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.createSession")
	span.SetAttributes(attribute.String("session.title", session.Title))
	defer span.End()

	if err := h.sessions.Create(ctx, session); err != nil {
		return b.WithError(err).Build()
	}
	return b.WithStatus(http.StatusCreated).WithData(dto.OrderSessionFromEntity(session)).Build()
}

func (h *Handler) getSession(c echo.Context) error {
	b := response.New(c)

	id, err := pathID(c)
	if err != nil {
		return b.WithError(err).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.getSession", trace.WithAttributes(attribute.Int64("session.id", id)))
	defer span.End()

	session, err := h.sessions.Get(ctx, id)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(dto.OrderSessionFromEntity(session)).Build()
}

func (h *Handler) updateSession(c echo.Context) error {
	b := response.New(c)

	id, err := pathID(c)
	if err != nil {
		return b.WithError(err).Build()
	}

	var payload sessionPayload
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.updateSession", trace.WithAttributes(attribute.Int64("session.id", id)))
	defer span.End()

	session, err := h.sessions.Get(ctx, id)
	if err != nil {
		return b.WithError(err).Build()
	}

	if payload.Title != nil {
		session.Title = *payload.Title
	}
	if payload.Description != nil {
		session.Description = payload.Description
	}
	if payload.StartTime != nil {
		session.StartTime = *payload.StartTime
	}
	if payload.EndTime != nil {
		session.EndTime = *payload.EndTime
	}
	if payload.IsActive != nil {
		session.IsActive = *payload.IsActive
	}
	session.UpdatedAt = time.Now().UTC()

	if err := h.sessions.Update(ctx, session); err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(dto.OrderSessionFromEntity(session)).Build()
}

func (h *Handler) deleteSession(c echo.Context) error {
	b := response.New(c)

	id, err := pathID(c)
	if err != nil {
		return b.WithError(err).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.deleteSession", trace.WithAttributes(attribute.Int64("session.id", id)))
	defer span.End()

	if err := h.sessions.Delete(ctx, id); err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(map[string]string{"message": "Order session deleted"}).Build()
}

func (h *Handler) listSessionOrders(c echo.Context) error {
	b := response.New(c)

	id, err := pathID(c)
	if err != nil {
		return b.WithError(err).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.listSessionOrders", trace.WithAttributes(attribute.Int64("session.id", id)))
	defer span.End()

	session, orders, err := h.orders.ListBySession(ctx, id)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(dto.SessionOrdersResponse{
		Session: dto.OrderSessionFromEntity(session),
		Orders:  dto.OrdersFromEntities(orders),
	}).Build()
}

func (h *Handler) listMine(c echo.Context) error {
	b := response.New(c)

	user := middleware.CurrentUser(c)

	var filters repo.Filters
	if raw := c.QueryParam("sessionId"); raw != "" {
		sessionID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return b.WithError(errorbank.BadRequest("sessionId must be an integer", errorbank.WithCause(err))).Build()
		}
		filters.SessionID = &sessionID
	}
	if status := c.QueryParam("status"); status != "" {
		if !entity.ValidOrderStatus(status) {
			return b.WithError(errorbank.BadRequest("unknown order status")).Build()
		}
		filters.Status = &status
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.listMine", trace.WithAttributes(attribute.Int64("user.id", user.ID)))
	defer span.End()

	orders, err := h.orders.ListMine(ctx, user.ID, filters)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(dto.OrdersFromEntities(orders)).Build()
}

func (h *Handler) create(c echo.Context) error {
	b := response.New(c)

	user := middleware.CurrentUser(c)

	var payload struct {
		SessionID int64 `json:"sessionId"`
		Items     []struct {
			MenuItemID int64   `json:"menuItemId"`
			Quantity   int     `json:"quantity"`
			Notes      *string `json:"notes"`
		} `json:"items"`
		Notes *string `json:"notes"`
	}
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}
	if payload.SessionID == 0 {
		return b.WithError(errorbank.BadRequest("sessionId is required")).Build()
	}
	if len(payload.Items) == 0 {
		return b.WithError(errorbank.BadRequest("order requires at least one item")).Build()
	}

	items := make([]service.CreateItem, 0, len(payload.Items))
	for _, item := range payload.Items {
		items = append(items, service.CreateItem{
			MenuItemID: item.MenuItemID,
			Quantity:   item.Quantity,
			Notes:      item.Notes,
		})
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.create")
	span.SetAttributes(
		attribute.Int64("session.id", payload.SessionID),
		attribute.Int("order.items", len(items)),
	)
	defer span.End()

	order, err := h.orders.Create(ctx, user.ID, payload.SessionID, items, payload.Notes)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithStatus(http.StatusCreated).WithData(dto.OrderFromEntity(order)).Build()
}

func (h *Handler) getByID(c echo.Context) error {
	b := response.New(c)

	id, err := pathID(c)
	if err != nil {
		return b.WithError(err).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.getByID", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	order, err := h.orders.Get(ctx, id)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(dto.OrderFromEntity(order)).Build()
}

func (h *Handler) update(c echo.Context) error {
	b := response.New(c)

	id, err := pathID(c)
	if err != nil {
		return b.WithError(err).Build()
	}

	var payload struct {
		Status *string `json:"status"`
		Notes  *string `json:"notes"`
	}
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.update", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	order, err := h.orders.Update(ctx, id, payload.Status, payload.Notes)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(dto.OrderFromEntity(order)).Build()
}

func (h *Handler) delete(c echo.Context) error {
	b := response.New(c)

	id, err := pathID(c)
	if err != nil {
		return b.WithError(err).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.delete", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	if err := h.orders.Delete(ctx, id); err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(map[string]string{"message": "Order deleted"}).Build()
}
