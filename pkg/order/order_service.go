package order

import (
	"context"
	"os"
	"regexp"

	"github.com/noname01054/LaCoupole-back/domain"
	"github.com/noname01054/LaCoupole-back/entities"
	"github.com/noname01054/LaCoupole-back/pkg/dedup"
	"github.com/noname01054/LaCoupole-back/pkg/notify"
	"github.com/noname01054/LaCoupole-back/pkg/pricing"
	"github.com/noname01054/LaCoupole-back/pkg/ratelimit"
	"github.com/noname01054/LaCoupole-back/pkg/stock"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Str("component", "order").Logger()

var sessionPattern = regexp.MustCompile(`^[A-Za-z0-9._:-]{8,100}$`)

type (
	OrderService interface {
		CreateOrder(ctx context.Context, req domain.CreateOrderRequest, meta domain.RequestMeta) (*domain.CreateOrderResponse, error)
		ApproveOrder(ctx context.Context, id string) (*domain.OrderResponse, error)
		CancelOrder(ctx context.Context, id string, req domain.CancelOrderRequest) (*domain.OrderResponse, error)
		GetOrders(ctx context.Context, status string, page, limit int) ([]*domain.OrderResponse, int64, error)
		GetOrderByID(ctx context.Context, id string) (*domain.OrderResponse, error)
	}

	orderService struct {
		orderRepository OrderRepository
		verifier        pricing.Verifier
		limitService    ratelimit.LimitService
		guard           *dedup.Guard
		notifier        notify.Notifier
		stockService    stock.StockService
	}
)

func NewOrderService(
	orderRepository OrderRepository,
	verifier pricing.Verifier,
	limitService ratelimit.LimitService,
	guard *dedup.Guard,
	notifier notify.Notifier,
	stockService stock.StockService,
) OrderService {
	return &orderService{
		orderRepository: orderRepository,
		verifier:        verifier,
		limitService:    limitService,
		guard:           guard,
		notifier:        notifier,
		stockService:    stockService,
	}
}

func (s *orderService) CreateOrder(ctx context.Context, req domain.CreateOrderRequest, meta domain.RequestMeta) (*domain.CreateOrderResponse, error) {
	if meta.SessionID != "" {
		req.SessionID = meta.SessionID
	}
	if !sessionPattern.MatchString(req.SessionID) {
		return nil, domain.ErrInvalidSessionID
	}
	if err := validateShape(req); err != nil {
		return nil, err
	}

	var limitRows []*entities.DeviceOrderLimit
	if !meta.StaffOrigin {
		rows, err := s.limitService.Check(ctx, meta.DeviceID, meta.ClientIP, meta.UserAgent)
		if err != nil {
			return nil, err
		}
		limitRows = rows
	}

	key := dedup.Key(req)
	if err := s.guard.Check(key); err != nil {
		return nil, err
	}

	// A submission rejected past this point releases its dedup key so the
	// client's retry surfaces the underlying error, not DuplicateOrder.
	cart, err := s.verifier.Verify(ctx, req)
	if err != nil {
		s.guard.Release(key)
		return nil, err
	}

	entity, err := buildOrderEntity(req, cart, meta.StaffOrigin)
	if err != nil {
		s.guard.Release(key)
		return nil, err
	}

	tableOccupied, err := s.orderRepository.CreateOrder(ctx, entity, limitRows, meta.StaffOrigin)
	if err != nil {
		s.guard.Release(key)
		return nil, err
	}

	// Listeners only ever observe committed orders.
	snapshot := toOrderResponse(entity)
	s.notifier.Publish(ctx, notify.ChannelStaff, notify.EventNewOrder, snapshot)
	s.notifier.Publish(ctx, notify.ChannelStaff, notify.EventNewNotification, notificationPayload("New order received", entity.ID))
	s.notifier.Publish(ctx, notify.GuestChannel(entity.SessionID), notify.EventNewOrder, snapshot)
	if tableOccupied {
		s.notifier.Publish(ctx, notify.ChannelStaff, notify.EventTableStatusUpdate, map[string]interface{}{
			"table_id": entity.TableID.String(),
			"status":   entities.TableStatusOccupied,
		})
	}
	if meta.StaffOrigin {
		go s.stockService.SendLowStockAlert(context.Background())
	}

	logger.Info().Str("order_id", entity.ID.String()).Str("order_type", entity.OrderType).
		Bool("approved", entity.Approved).Float64("total", entity.TotalPrice).Msg("order created")

	return &domain.CreateOrderResponse{
		OrderID:  entity.ID.String(),
		Total:    entity.TotalPrice,
		Status:   entity.Status,
		Approved: entity.Approved,
	}, nil
}

func (s *orderService) ApproveOrder(ctx context.Context, id string) (*domain.OrderResponse, error) {
	orderID, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.ErrOrderNotFound
	}

	entity, err := s.orderRepository.ApproveOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	snapshot := toOrderResponse(entity)
	s.notifier.Publish(ctx, notify.ChannelStaff, notify.EventOrderApproved, snapshot)
	s.notifier.Publish(ctx, notify.ChannelStaff, notify.EventNewNotification, notificationPayload("Order approved", entity.ID))
	s.notifier.Publish(ctx, notify.GuestChannel(entity.SessionID), notify.EventOrderApproved, snapshot)
	go s.stockService.SendLowStockAlert(context.Background())

	logger.Info().Str("order_id", id).Msg("order approved")
	return snapshot, nil
}

func (s *orderService) CancelOrder(ctx context.Context, id string, req domain.CancelOrderRequest) (*domain.OrderResponse, error) {
	orderID, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.ErrOrderNotFound
	}

	entity, err := s.orderRepository.CancelOrder(ctx, orderID, req.RestoreStock)
	if err != nil {
		return nil, err
	}

	snapshot := toOrderResponse(entity)
	s.notifier.Publish(ctx, notify.ChannelStaff, notify.EventOrderCancelled, snapshot)
	s.notifier.Publish(ctx, notify.ChannelStaff, notify.EventNewNotification, notificationPayload("Order cancelled", entity.ID))
	s.notifier.Publish(ctx, notify.GuestChannel(entity.SessionID), notify.EventOrderCancelled, snapshot)

	logger.Info().Str("order_id", id).Bool("restore_stock", req.RestoreStock).Msg("order cancelled")
	return snapshot, nil
}

func (s *orderService) GetOrders(ctx context.Context, status string, page, limit int) ([]*domain.OrderResponse, int64, error) {
	orders, count, err := s.orderRepository.GetOrders(ctx, status, page, limit)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]*domain.OrderResponse, 0, len(orders))
	for _, entity := range orders {
		responses = append(responses, toOrderResponse(entity))
	}
	return responses, count, nil
}

func (s *orderService) GetOrderByID(ctx context.Context, id string) (*domain.OrderResponse, error) {
	orderID, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.ErrOrderNotFound
	}

	entity, err := s.orderRepository.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return toOrderResponse(entity), nil
}

func validateShape(req domain.CreateOrderRequest) error {
	switch req.OrderType {
	case entities.OrderTypeLocal:
		if req.TableID == nil || *req.TableID == "" {
			return domain.ErrTableRequired
		}
	case entities.OrderTypeDelivery:
		if req.DeliveryAddress == nil || *req.DeliveryAddress == "" {
			return domain.ErrAddressRequired
		}
	case entities.OrderTypeTakeaway, entities.OrderTypeImported:
	default:
		return domain.ErrInvalidOrderType
	}

	if len(req.Items) == 0 && len(req.BreakfastItems) == 0 {
		return domain.ErrEmptyOrder
	}
	return nil
}

func buildOrderEntity(req domain.CreateOrderRequest, cart *pricing.VerifiedCart, autoApprove bool) (*entities.Order, error) {
	entity := &entities.Order{
		TotalPrice:      cart.Total,
		OrderType:       req.OrderType,
		DeliveryAddress: req.DeliveryAddress,
		PromotionID:     cart.PromotionID,
		SessionID:       req.SessionID,
		Notes:           req.Notes,
		Status:          entities.OrderStatusPending,
	}
	if autoApprove {
		entity.Status = entities.OrderStatusPreparing
		entity.Approved = true
	}

	if req.TableID != nil && *req.TableID != "" {
		tableID, err := uuid.Parse(*req.TableID)
		if err != nil {
			return nil, domain.ErrTableNotFound
		}
		entity.TableID = &tableID
	}

	for _, line := range cart.Lines {
		itemID := line.ItemID
		entity.Items = append(entity.Items, &entities.OrderItem{
			ItemID:       &itemID,
			Quantity:     line.Quantity,
			UnitPrice:    line.UnitPrice,
			SupplementID: line.PrimarySupplementID,
		})
	}

	for _, line := range cart.BreakfastLines {
		breakfastID := line.BreakfastID
		item := &entities.OrderItem{
			BreakfastID: &breakfastID,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
		}
		for _, optionID := range line.OptionIDs {
			item.Options = append(item.Options, &entities.BreakfastOrderOption{
				BreakfastOptionID: optionID,
			})
		}
		entity.Items = append(entity.Items, item)
	}

	return entity, nil
}

func notificationPayload(message string, orderID uuid.UUID) map[string]interface{} {
	return map[string]interface{}{
		"type":     "order",
		"message":  message,
		"order_id": orderID.String(),
	}
}

func toOrderResponse(entity *entities.Order) *domain.OrderResponse {
	response := &domain.OrderResponse{
		ID:              entity.ID.String(),
		TotalPrice:      entity.TotalPrice,
		OrderType:       entity.OrderType,
		DeliveryAddress: entity.DeliveryAddress,
		PromotionID:     domain.UUIDToStringPtr(entity.PromotionID),
		TableID:         domain.UUIDToStringPtr(entity.TableID),
		SessionID:       entity.SessionID,
		Notes:           entity.Notes,
		Status:          entity.Status,
		Approved:        entity.Approved,
		Items:           make([]domain.OrderItemResponse, 0, len(entity.Items)),
		CreatedAt:       entity.CreatedAt,
	}

	for _, item := range entity.Items {
		line := domain.OrderItemResponse{
			ID:           item.ID.String(),
			ItemID:       domain.UUIDToStringPtr(item.ItemID),
			BreakfastID:  domain.UUIDToStringPtr(item.BreakfastID),
			Quantity:     item.Quantity,
			UnitPrice:    item.UnitPrice,
			SupplementID: domain.UUIDToStringPtr(item.SupplementID),
		}
		if item.MenuItem != nil {
			line.Name = item.MenuItem.Name
		}
		if item.Breakfast != nil {
			line.Name = item.Breakfast.Name
		}
		for _, option := range item.Options {
			line.OptionIDs = append(line.OptionIDs, option.BreakfastOptionID.String())
		}
		response.Items = append(response.Items, line)
	}

	return response
}
