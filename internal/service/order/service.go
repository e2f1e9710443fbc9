package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/officefood/officefood/internal/config"
	"github.com/officefood/officefood/internal/entity"
	"github.com/officefood/officefood/internal/messaging"
	repo "github.com/officefood/officefood/internal/repository/order"
	sessionrepo "github.com/officefood/officefood/internal/repository/ordersession"
	"github.com/officefood/officefood/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/officefood/officefood/service/order")

// Repository is the persistence surface the order service needs.
type Repository interface {
	CreateWithItems(ctx context.Context, order *entity.Order, items []*entity.OrderItem) error
	GetByID(ctx context.Context, id int64) (*entity.Order, error)
	ListByUser(ctx context.Context, userID int64, filters repo.Filters) ([]*entity.Order, error)
	ListBySession(ctx context.Context, sessionID int64) ([]*entity.Order, error)
	Update(ctx context.Context, order *entity.Order) error
	Delete(ctx context.Context, id int64) error
}

// Sessions resolves order sessions.
type Sessions interface {
	GetByID(ctx context.Context, id int64) (*entity.OrderSession, error)
}

// MenuItems resolves menu items in batch.
type MenuItems interface {
	GetByIDs(ctx context.Context, ids []int64) ([]*entity.MenuItem, error)
}

// CreateItem is one requested order line.
type CreateItem struct {
	MenuItemID int64
	Quantity   int
	Notes      *string
}

// OrderCreatedEvent is emitted when a new order is persisted.
type OrderCreatedEvent struct {
	ID          int64           `json:"id"`
	Status      string          `json:"status"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	UserID      int64           `json:"user_id"`
	SessionID   int64           `json:"session_id"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Service encapsulates business logic around orders.
type Service struct {
	repo       Repository
	sessions   Sessions
	menu       MenuItems
	logger     *zap.Logger
	publisher  messaging.Client
	orderTopic string
	msgEnabled bool
}

// Params defines dependencies for constructing Service.
type Params struct {
	fx.In

	Repository Repository
	Sessions   Sessions
	MenuItems  MenuItems
	Config     config.Config
	Logger     *zap.Logger
	Publisher  messaging.Client
}

// NewService wires a new Service instance.
func NewService(p Params) *Service {
	return &Service{
		repo:       p.Repository,
		sessions:   p.Sessions,
		menu:       p.MenuItems,
		logger:     p.Logger,
		publisher:  p.Publisher,
		orderTopic: p.Config.Messaging.Kafka.OrderTopic,
		msgEnabled: p.Config.Messaging.Enabled,
	}
}

// Create places an order against an active session. Menu item prices are
// read once, snapshotted onto each line, and summed into the order total;
// the order and its lines are written in one transaction, with the session's
// active flag re-checked inside it.
func (s *Service) Create(ctx context.Context, userID, sessionID int64, items []CreateItem, notes *string) (*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.Create", trace.WithAttributes(
		attribute.Int64("user.id", userID),
		attribute.Int64("session.id", sessionID),
		attribute.Int("order.items", len(items)),
	))
	defer span.End()

	if len(items) == 0 {
		return nil, errorbank.BadRequest("order requires at least one item")
	}
	for _, item := range items {
		if item.Quantity < 1 {
			return nil, errorbank.BadRequest(fmt.Sprintf("invalid quantity for menu item %d", item.MenuItemID))
		}
	}

	session, err := s.sessions.GetByID(ctx, sessionID)
	if errors.Is(err, sessionrepo.ErrNotFound) {
		return nil, errorbank.NotFound("order session not found")
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "session lookup failed")
		return nil, errorbank.Internal("failed to load order session", errorbank.WithCause(err))
	}
	if !session.IsActive {
		return nil, errorbank.Conflict("order session is not active")
	}

	menuItems, err := s.resolveMenuItems(ctx, items)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	total := decimal.Zero
	orderItems := make([]*entity.OrderItem, 0, len(items))
	for _, item := range items {
		menuItem := menuItems[item.MenuItemID]
		price := menuItem.Price
		total = total.Add(price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		orderItems = append(orderItems, &entity.OrderItem{
			Quantity:   item.Quantity,
			Price:      price,
			Notes:      item.Notes,
			MenuItemID: item.MenuItemID,
			MenuItem:   menuItem,
		})
	}

	now := time.Now().UTC()
	order := &entity.Order{
		Status:      entity.OrderStatusPending,
		TotalAmount: total,
		Notes:       notes,
		UserID:      userID,
		SessionID:   sessionID,
		CreatedAt:   now,
		UpdatedAt:   now,
		Session:     session,
	}

	err = s.repo.CreateWithItems(ctx, order, orderItems)
	if errors.Is(err, repo.ErrSessionNotFound) {
		return nil, errorbank.NotFound("order session not found")
	}
	if errors.Is(err, repo.ErrSessionInactive) {
		return nil, errorbank.Conflict("order session is not active")
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to create order", errorbank.WithCause(err))
	}

	s.logger.Info("order placed",
		zap.Int64("id", order.ID),
		zap.Int64("user_id", userID),
		zap.Int64("session_id", sessionID),
		zap.String("total", total.StringFixed(2)),
	)
	s.publishOrderCreated(ctx, order)
	return order, nil
}

// resolveMenuItems batch-loads every distinct referenced menu item and fails
// when any id dangles.
func (s *Service) resolveMenuItems(ctx context.Context, items []CreateItem) (map[int64]*entity.MenuItem, error) {
	distinct := make([]int64, 0, len(items))
	seen := make(map[int64]struct{}, len(items))
	for _, item := range items {
		if _, ok := seen[item.MenuItemID]; ok {
			continue
		}
		seen[item.MenuItemID] = struct{}{}
		distinct = append(distinct, item.MenuItemID)
	}

	resolved, err := s.menu.GetByIDs(ctx, distinct)
	if err != nil {
		return nil, errorbank.Internal("failed to load menu items", errorbank.WithCause(err))
	}
	if len(resolved) != len(distinct) {
		return nil, errorbank.BadRequest("one or more menu items not found")
	}

	byID := make(map[int64]*entity.MenuItem, len(resolved))
	for _, item := range resolved {
		byID[item.ID] = item
	}
	return byID, nil
}

// Get retrieves an order by id with its lines, session, and user.
func (s *Service) Get(ctx context.Context, id int64) (*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.Get", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	order, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, errorbank.NotFound("order not found")
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to load order", errorbank.WithCause(err))
	}
	return order, nil
}

// ListMine returns the caller's orders, optionally filtered.
func (s *Service) ListMine(ctx context.Context, userID int64, filters repo.Filters) ([]*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.ListMine", trace.WithAttributes(attribute.Int64("user.id", userID)))
	defer span.End()

	orders, err := s.repo.ListByUser(ctx, userID, filters)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to load orders", errorbank.WithCause(err))
	}
	return orders, nil
}

// ListBySession returns the session plus every order placed against it.
func (s *Service) ListBySession(ctx context.Context, sessionID int64) (*entity.OrderSession, []*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.ListBySession", trace.WithAttributes(attribute.Int64("session.id", sessionID)))
	defer span.End()

	session, err := s.sessions.GetByID(ctx, sessionID)
	if errors.Is(err, sessionrepo.ErrNotFound) {
		return nil, nil, errorbank.NotFound("order session not found")
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "session lookup failed")
		return nil, nil, errorbank.Internal("failed to load order session", errorbank.WithCause(err))
	}

	orders, err := s.repo.ListBySession(ctx, sessionID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, nil, errorbank.Internal("failed to load orders", errorbank.WithCause(err))
	}
	return session, orders, nil
}

// Update mutates an order's status and notes. Status transitions are
// currently unconstrained; only unknown status values are rejected.
func (s *Service) Update(ctx context.Context, id int64, status *string, notes *string) (*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.Update", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	order, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, errorbank.NotFound("order not found")
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to load order", errorbank.WithCause(err))
	}

	if status != nil {
		if !entity.ValidOrderStatus(*status) {
			return nil, errorbank.BadRequest(fmt.Sprintf("unknown order status %q", *status))
		}
		order.Status = *status
	}
	if notes != nil {
		order.Notes = notes
	}

	if err := s.repo.Update(ctx, order); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, errorbank.NotFound("order not found")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to update order", errorbank.WithCause(err))
	}
	return order, nil
}

// Delete removes an order and its lines.
func (s *Service) Delete(ctx context.Context, id int64) error {
	ctx, span := serviceTracer.Start(ctx, "OrderService.Delete", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	err := s.repo.Delete(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return errorbank.NotFound("order not found")
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return errorbank.Internal("failed to delete order", errorbank.WithCause(err))
	}
	return nil
}

func (s *Service) publishOrderCreated(ctx context.Context, order *entity.Order) {
	if !s.msgEnabled || s.publisher == nil {
		return
	}
	event := OrderCreatedEvent{
		ID:          order.ID,
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
		UserID:      order.UserID,
		SessionID:   order.SessionID,
		CreatedAt:   order.CreatedAt,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("marshal order created", zap.Error(err))
		return
	}
	if err := s.publisher.Publish(ctx, s.orderTopic, []byte(fmt.Sprintf("order-%d", order.ID)), payload); err != nil {
		s.logger.Error("publish order created", zap.Error(err))
	}
}
