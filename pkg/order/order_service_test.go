package order

import (
	"context"
	"sync"
	"testing"

	"github.com/noname01054/LaCoupole-back/domain"
	"github.com/noname01054/LaCoupole-back/entities"
	"github.com/noname01054/LaCoupole-back/pkg/dedup"
	"github.com/noname01054/LaCoupole-back/pkg/notify"
	"github.com/noname01054/LaCoupole-back/pkg/pricing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrderRepository struct {
	createdOrder  *entities.Order
	limitRows     []*entities.DeviceOrderLimit
	autoApprove   bool
	tableOccupied bool
	createErr     error

	approved   *entities.Order
	approveErr error

	cancelled    *entities.Order
	restoreStock bool
	cancelErr    error
}

func (f *fakeOrderRepository) CreateOrder(_ context.Context, order *entities.Order, limitRows []*entities.DeviceOrderLimit, autoApprove bool) (bool, error) {
	if f.createErr != nil {
		return false, f.createErr
	}
	order.ID = uuid.New()
	f.createdOrder = order
	f.limitRows = limitRows
	f.autoApprove = autoApprove
	return f.tableOccupied, nil
}

func (f *fakeOrderRepository) ApproveOrder(_ context.Context, id uuid.UUID) (*entities.Order, error) {
	if f.approveErr != nil {
		return nil, f.approveErr
	}
	f.approved = &entities.Order{ID: id, Status: entities.OrderStatusPreparing, Approved: true, SessionID: "guest-session-0001"}
	return f.approved, nil
}

func (f *fakeOrderRepository) CancelOrder(_ context.Context, id uuid.UUID, restoreStock bool) (*entities.Order, error) {
	if f.cancelErr != nil {
		return nil, f.cancelErr
	}
	f.restoreStock = restoreStock
	f.cancelled = &entities.Order{ID: id, Status: entities.OrderStatusCancelled, SessionID: "guest-session-0001"}
	return f.cancelled, nil
}

func (f *fakeOrderRepository) GetOrderByID(_ context.Context, id uuid.UUID) (*entities.Order, error) {
	return &entities.Order{ID: id, SessionID: "guest-session-0001"}, nil
}

func (f *fakeOrderRepository) GetOrders(_ context.Context, _ string, _, _ int) ([]*entities.Order, int64, error) {
	return nil, 0, nil
}

type fakeVerifier struct {
	cart *pricing.VerifiedCart
	err  error
}

func (f *fakeVerifier) Verify(_ context.Context, _ domain.CreateOrderRequest) (*pricing.VerifiedCart, error) {
	return f.cart, f.err
}

type fakeLimitService struct {
	rows   []*entities.DeviceOrderLimit
	err    error
	called bool
}

func (f *fakeLimitService) Check(_ context.Context, _, _, _ string) ([]*entities.DeviceOrderLimit, error) {
	f.called = true
	return f.rows, f.err
}

type publishedEvent struct {
	Channel string
	Event   string
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (f *fakeNotifier) Publish(_ context.Context, channel, event string, _ interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, publishedEvent{Channel: channel, Event: event})
}

func (f *fakeNotifier) published() []publishedEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]publishedEvent(nil), f.events...)
}

type fakeStockService struct {
	mu      sync.Mutex
	alerted bool
}

func (f *fakeStockService) GetIngredients(_ context.Context) ([]domain.IngredientResponse, error) {
	return nil, nil
}

func (f *fakeStockService) GetLowStock(_ context.Context) ([]domain.IngredientResponse, error) {
	return nil, nil
}

func (f *fakeStockService) Restock(_ context.Context, _ string, _ domain.RestockRequest) (*domain.IngredientResponse, error) {
	return nil, nil
}

func (f *fakeStockService) GetTransactions(_ context.Context, _ string, _, _ int) ([]*entities.StockTransaction, int64, error) {
	return nil, 0, nil
}

func (f *fakeStockService) SendLowStockAlert(_ context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.alerted = true
}

type fixture struct {
	repo     *fakeOrderRepository
	verifier *fakeVerifier
	limiter  *fakeLimitService
	notifier *fakeNotifier
	stock    *fakeStockService
	service  OrderService
}

func newFixture() *fixture {
	itemID := uuid.New()
	f := &fixture{
		repo: &fakeOrderRepository{},
		verifier: &fakeVerifier{cart: &pricing.VerifiedCart{
			Total: 18.00,
			Lines: []pricing.VerifiedLine{{ItemID: itemID, Quantity: 2, UnitPrice: 9.00}},
		}},
		limiter:  &fakeLimitService{rows: []*entities.DeviceOrderLimit{{DeviceFingerprint: "fp"}}},
		notifier: &fakeNotifier{},
		stock:    &fakeStockService{},
	}
	f.service = NewOrderService(f.repo, f.verifier, f.limiter, dedup.NewGuard(dedup.DefaultTTL), f.notifier, f.stock)
	return f
}

func validRequest() domain.CreateOrderRequest {
	return domain.CreateOrderRequest{
		Items: []domain.OrderItemRequest{
			{ItemID: uuid.New().String(), Quantity: 2, UnitPrice: 9.00},
		},
		TotalPrice: 18.00,
		OrderType:  entities.OrderTypeTakeaway,
		SessionID:  "guest-session-0001",
	}
}

func guestMeta() domain.RequestMeta {
	return domain.RequestMeta{
		DeviceID:  uuid.New().String(),
		ClientIP:  "10.0.0.1",
		UserAgent: "agent",
	}
}

func TestCreateOrderRejectsInvalidSession(t *testing.T) {
	f := newFixture()
	req := validRequest()
	req.SessionID = "bad session!"

	_, err := f.service.CreateOrder(context.Background(), req, guestMeta())

	assert.ErrorIs(t, err, domain.ErrInvalidSessionID)
	assert.Nil(t, f.repo.createdOrder)
}

func TestCreateOrderHeaderSessionOverridesBody(t *testing.T) {
	f := newFixture()
	req := validRequest()
	meta := guestMeta()
	meta.SessionID = "header-session-0001"

	_, err := f.service.CreateOrder(context.Background(), req, meta)

	require.NoError(t, err)
	assert.Equal(t, "header-session-0001", f.repo.createdOrder.SessionID)
}

func TestCreateOrderLocalRequiresTable(t *testing.T) {
	f := newFixture()
	req := validRequest()
	req.OrderType = entities.OrderTypeLocal

	_, err := f.service.CreateOrder(context.Background(), req, guestMeta())

	assert.ErrorIs(t, err, domain.ErrTableRequired)
}

func TestCreateOrderDeliveryRequiresAddress(t *testing.T) {
	f := newFixture()
	req := validRequest()
	req.OrderType = entities.OrderTypeDelivery

	_, err := f.service.CreateOrder(context.Background(), req, guestMeta())

	assert.ErrorIs(t, err, domain.ErrAddressRequired)
}

func TestCreateOrderRejectsUnknownType(t *testing.T) {
	f := newFixture()
	req := validRequest()
	req.OrderType = "drive-through"

	_, err := f.service.CreateOrder(context.Background(), req, guestMeta())

	assert.ErrorIs(t, err, domain.ErrInvalidOrderType)
}

func TestCreateOrderRejectsRapidResubmission(t *testing.T) {
	f := newFixture()
	req := validRequest()

	_, err := f.service.CreateOrder(context.Background(), req, guestMeta())
	require.NoError(t, err)

	_, err = f.service.CreateOrder(context.Background(), req, guestMeta())
	assert.ErrorIs(t, err, domain.ErrDuplicateOrder)
}

func TestCreateOrderPropagatesRateLimit(t *testing.T) {
	f := newFixture()
	f.limiter.err = domain.ErrRateLimitExceeded

	_, err := f.service.CreateOrder(context.Background(), validRequest(), guestMeta())

	assert.ErrorIs(t, err, domain.ErrRateLimitExceeded)
	assert.Nil(t, f.repo.createdOrder)
	assert.Empty(t, f.notifier.published())
}

func TestCreateOrderStaffBypassesLimiterAndAutoApproves(t *testing.T) {
	f := newFixture()
	meta := guestMeta()
	meta.StaffOrigin = true

	resp, err := f.service.CreateOrder(context.Background(), validRequest(), meta)

	require.NoError(t, err)
	assert.False(t, f.limiter.called)
	assert.True(t, f.repo.autoApprove)
	assert.Empty(t, f.repo.limitRows)
	assert.True(t, resp.Approved)
	assert.Equal(t, entities.OrderStatusPreparing, resp.Status)
}

func TestCreateOrderGuestStaysPending(t *testing.T) {
	f := newFixture()

	resp, err := f.service.CreateOrder(context.Background(), validRequest(), guestMeta())

	require.NoError(t, err)
	assert.True(t, f.limiter.called)
	assert.False(t, f.repo.autoApprove)
	require.Len(t, f.repo.limitRows, 1)
	assert.False(t, resp.Approved)
	assert.Equal(t, entities.OrderStatusPending, resp.Status)
	assert.InDelta(t, 18.00, resp.Total, 0.001)
}

func TestCreateOrderNotifiesStaffAndGuest(t *testing.T) {
	f := newFixture()

	_, err := f.service.CreateOrder(context.Background(), validRequest(), guestMeta())

	require.NoError(t, err)
	events := f.notifier.published()
	assert.Contains(t, events, publishedEvent{Channel: notify.ChannelStaff, Event: notify.EventNewOrder})
	assert.Contains(t, events, publishedEvent{Channel: notify.ChannelStaff, Event: notify.EventNewNotification})
	assert.Contains(t, events, publishedEvent{Channel: notify.GuestChannel("guest-session-0001"), Event: notify.EventNewOrder})
}

func TestCreateOrderPublishesTableStatus(t *testing.T) {
	f := newFixture()
	f.repo.tableOccupied = true
	req := validRequest()
	req.OrderType = entities.OrderTypeLocal
	tableID := uuid.New().String()
	req.TableID = &tableID

	_, err := f.service.CreateOrder(context.Background(), req, guestMeta())

	require.NoError(t, err)
	assert.Contains(t, f.notifier.published(), publishedEvent{Channel: notify.ChannelStaff, Event: notify.EventTableStatusUpdate})
}

func TestCreateOrderRateLimitCheckedBeforeDuplicateGuard(t *testing.T) {
	f := newFixture()
	f.limiter.err = domain.ErrRateLimitExceeded
	req := validRequest()

	// the same rate-limited cart resubmitted must keep reporting the rate
	// limit, never a duplicate
	_, err := f.service.CreateOrder(context.Background(), req, guestMeta())
	assert.ErrorIs(t, err, domain.ErrRateLimitExceeded)

	_, err = f.service.CreateOrder(context.Background(), req, guestMeta())
	assert.ErrorIs(t, err, domain.ErrRateLimitExceeded)
}

func TestCreateOrderRetryAfterRejectionSurfacesCause(t *testing.T) {
	f := newFixture()
	f.verifier.err = domain.ErrTotalPriceMismatch
	req := validRequest()

	_, err := f.service.CreateOrder(context.Background(), req, guestMeta())
	assert.ErrorIs(t, err, domain.ErrTotalPriceMismatch)

	_, err = f.service.CreateOrder(context.Background(), req, guestMeta())
	assert.ErrorIs(t, err, domain.ErrTotalPriceMismatch)

	f.verifier.err = nil
	_, err = f.service.CreateOrder(context.Background(), req, guestMeta())
	assert.NoError(t, err)
}

func TestCreateOrderRetryAfterRepositoryFailure(t *testing.T) {
	f := newFixture()
	f.repo.createErr = domain.ErrTableNotFound
	req := validRequest()
	req.OrderType = entities.OrderTypeLocal
	tableID := uuid.New().String()
	req.TableID = &tableID

	_, err := f.service.CreateOrder(context.Background(), req, guestMeta())
	assert.ErrorIs(t, err, domain.ErrTableNotFound)

	f.repo.createErr = nil
	_, err = f.service.CreateOrder(context.Background(), req, guestMeta())
	assert.NoError(t, err)
}

func TestCreateOrderVerifierErrorStopsAdmission(t *testing.T) {
	f := newFixture()
	f.verifier.err = domain.ErrTotalPriceMismatch

	_, err := f.service.CreateOrder(context.Background(), validRequest(), guestMeta())

	assert.ErrorIs(t, err, domain.ErrTotalPriceMismatch)
	assert.Nil(t, f.repo.createdOrder)
	assert.Empty(t, f.notifier.published())
}

func TestApproveOrderRejectsMalformedID(t *testing.T) {
	f := newFixture()

	_, err := f.service.ApproveOrder(context.Background(), "not-a-uuid")

	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestApproveOrderNotifies(t *testing.T) {
	f := newFixture()

	resp, err := f.service.ApproveOrder(context.Background(), uuid.New().String())

	require.NoError(t, err)
	assert.True(t, resp.Approved)
	events := f.notifier.published()
	assert.Contains(t, events, publishedEvent{Channel: notify.ChannelStaff, Event: notify.EventOrderApproved})
	assert.Contains(t, events, publishedEvent{Channel: notify.GuestChannel("guest-session-0001"), Event: notify.EventOrderApproved})
}

func TestApproveOrderPropagatesConflict(t *testing.T) {
	f := newFixture()
	f.repo.approveErr = domain.ErrAlreadyApproved

	_, err := f.service.ApproveOrder(context.Background(), uuid.New().String())

	assert.ErrorIs(t, err, domain.ErrAlreadyApproved)
	assert.Empty(t, f.notifier.published())
}

func TestCancelOrderPassesRestoreFlag(t *testing.T) {
	f := newFixture()

	resp, err := f.service.CancelOrder(context.Background(), uuid.New().String(), domain.CancelOrderRequest{RestoreStock: true})

	require.NoError(t, err)
	assert.True(t, f.repo.restoreStock)
	assert.Equal(t, entities.OrderStatusCancelled, resp.Status)
	assert.Contains(t, f.notifier.published(), publishedEvent{Channel: notify.ChannelStaff, Event: notify.EventOrderCancelled})
}

func TestCancelOrderPropagatesRestoreConflict(t *testing.T) {
	f := newFixture()
	f.repo.cancelErr = domain.ErrAlreadyRestored

	_, err := f.service.CancelOrder(context.Background(), uuid.New().String(), domain.CancelOrderRequest{RestoreStock: true})

	assert.ErrorIs(t, err, domain.ErrAlreadyRestored)
	assert.Empty(t, f.notifier.published())
}
