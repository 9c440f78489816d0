package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/skillverse/marketplace-backend/internal/models"
	"github.com/skillverse/marketplace-backend/internal/pkg/apperror"
	"github.com/skillverse/marketplace-backend/internal/repository"
)

type mockOrderRepo struct {
	mock.Mock
}

func (m *mockOrderRepo) CreateWithPayment(ctx context.Context, order *models.Order, slotID *uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, order, slotID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *mockOrderRepo) Accept(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *mockOrderRepo) RejectWithRefund(ctx context.Context, orderID uuid.UUID, reason string) (*models.Order, error) {
	args := m.Called(ctx, orderID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *mockOrderRepo) CompleteWithPayout(ctx context.Context, orderID uuid.UUID, providerShare, platformFee int64, platformUserID uuid.UUID, cert *models.Certificate) (*models.Order, *models.Certificate, error) {
	args := m.Called(ctx, orderID, providerShare, platformFee, platformUserID, cert)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*models.Order), args.Get(1).(*models.Certificate), args.Error(2)
}

func (m *mockOrderRepo) CancelWithRefund(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *mockOrderRepo) GetByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *mockOrderRepo) ListByClient(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]models.Order, error) {
	args := m.Called(ctx, clientID, limit, offset)
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *mockOrderRepo) ListByProvider(ctx context.Context, providerID uuid.UUID, limit, offset int) ([]models.Order, error) {
	args := m.Called(ctx, providerID, limit, offset)
	return args.Get(0).([]models.Order), args.Error(1)
}

type mockCatalogRepo struct {
	mock.Mock
}

func (m *mockCatalogRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Service), args.Error(1)
}

type mockOrderUserRepo struct {
	mock.Mock
}

func (m *mockOrderUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockOrderUserRepo) GetPlatformAccount(ctx context.Context) (*models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func newOrderServiceForTest() (*OrderService, *mockOrderRepo, *mockCatalogRepo, *mockOrderUserRepo) {
	orders := new(mockOrderRepo)
	catalog := new(mockCatalogRepo)
	users := new(mockOrderUserRepo)
	svc := NewOrderService(orders, catalog, users, nil, 3)
	return svc, orders, catalog, users
}

func TestOrderService_Place_Success(t *testing.T) {
	svc, orders, catalog, _ := newOrderServiceForTest()
	ctx := context.Background()

	clientID := uuid.New()
	providerID := uuid.New()
	serviceID := uuid.New()

	catalog.On("GetByID", ctx, serviceID).Return(&models.Service{
		ID: serviceID, ProviderID: providerID, Title: "Уроки гитары", Price: 1000, IsActive: true,
	}, nil)

	orders.On("CreateWithPayment", ctx, mock.MatchedBy(func(o *models.Order) bool {
		return o.ClientID == clientID && o.ProviderID == providerID && o.Amount == 1000 && o.BudgetTier == models.BudgetTierStandard
	}), (*uuid.UUID)(nil)).Return(&models.Order{
		ID: uuid.New(), ClientID: clientID, ProviderID: providerID, Amount: 1000, Status: models.OrderStatusPending,
	}, nil)

	order, err := svc.Place(ctx, clientID, models.RoleClient, PlaceOrderInput{ServiceID: serviceID})
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	orders.AssertExpectations(t)
}

func TestOrderService_Place_TierPricing(t *testing.T) {
	svc, orders, catalog, _ := newOrderServiceForTest()
	ctx := context.Background()

	clientID := uuid.New()
	serviceID := uuid.New()

	catalog.On("GetByID", ctx, serviceID).Return(&models.Service{
		ID: serviceID, ProviderID: uuid.New(), Price: 1000, IsActive: true,
	}, nil)

	orders.On("CreateWithPayment", ctx, mock.MatchedBy(func(o *models.Order) bool {
		return o.Amount == 800 && o.BudgetTier == models.BudgetTierBasic
	}), (*uuid.UUID)(nil)).Return(&models.Order{ID: uuid.New(), Amount: 800}, nil)

	_, err := svc.Place(ctx, clientID, models.RoleClient, PlaceOrderInput{
		ServiceID:  serviceID,
		BudgetTier: models.BudgetTierBasic,
	})
	assert.NoError(t, err)
	orders.AssertExpectations(t)
}

func TestOrderService_Place_AdminNotPermitted(t *testing.T) {
	svc, orders, _, _ := newOrderServiceForTest()

	_, err := svc.Place(context.Background(), uuid.New(), models.RoleAdmin, PlaceOrderInput{ServiceID: uuid.New()})
	assert.ErrorIs(t, err, apperror.ErrRoleNotPermitted)
	orders.AssertNotCalled(t, "CreateWithPayment")
}

func TestOrderService_Place_OwnService(t *testing.T) {
	svc, _, catalog, _ := newOrderServiceForTest()
	ctx := context.Background()

	userID := uuid.New()
	serviceID := uuid.New()

	catalog.On("GetByID", ctx, serviceID).Return(&models.Service{
		ID: serviceID, ProviderID: userID, Price: 1000, IsActive: true,
	}, nil)

	_, err := svc.Place(ctx, userID, models.RoleProvider, PlaceOrderInput{ServiceID: serviceID})
	assert.Error(t, err)
	assert.Equal(t, apperror.ErrCodeValidation, apperror.Code(err))
}

func TestOrderService_Place_InsufficientFunds(t *testing.T) {
	svc, orders, catalog, _ := newOrderServiceForTest()
	ctx := context.Background()

	serviceID := uuid.New()
	catalog.On("GetByID", ctx, serviceID).Return(&models.Service{
		ID: serviceID, ProviderID: uuid.New(), Price: 5000, IsActive: true,
	}, nil)
	orders.On("CreateWithPayment", ctx, mock.Anything, (*uuid.UUID)(nil)).Return(nil, repository.ErrInsufficientFunds)

	_, err := svc.Place(ctx, uuid.New(), models.RoleClient, PlaceOrderInput{ServiceID: serviceID})
	assert.ErrorIs(t, err, apperror.ErrInsufficientFunds)
}

func TestOrderService_Place_SlotTaken(t *testing.T) {
	svc, orders, catalog, _ := newOrderServiceForTest()
	ctx := context.Background()

	serviceID := uuid.New()
	slotID := uuid.New()

	catalog.On("GetByID", ctx, serviceID).Return(&models.Service{
		ID: serviceID, ProviderID: uuid.New(), Price: 1000, IsActive: true,
	}, nil)
	orders.On("CreateWithPayment", ctx, mock.Anything, &slotID).Return(nil, repository.ErrSlotTaken)

	_, err := svc.Place(ctx, uuid.New(), models.RoleClient, PlaceOrderInput{ServiceID: serviceID, SlotID: &slotID})
	assert.ErrorIs(t, err, apperror.ErrSlotUnavailable)
}

func TestOrderService_Place_SlotOfAnotherProvider(t *testing.T) {
	svc, orders, catalog, _ := newOrderServiceForTest()
	ctx := context.Background()

	serviceID := uuid.New()
	slotID := uuid.New()

	catalog.On("GetByID", ctx, serviceID).Return(&models.Service{
		ID: serviceID, ProviderID: uuid.New(), Price: 1000, IsActive: true,
	}, nil)
	orders.On("CreateWithPayment", ctx, mock.Anything, &slotID).Return(nil, repository.ErrSlotNotOwned)

	_, err := svc.Place(ctx, uuid.New(), models.RoleClient, PlaceOrderInput{ServiceID: serviceID, SlotID: &slotID})
	assert.Error(t, err)
	assert.Equal(t, apperror.ErrCodeValidation, apperror.Code(err))
}

func TestOrderService_Accept_Success(t *testing.T) {
	svc, orders, _, _ := newOrderServiceForTest()
	ctx := context.Background()

	orderID := uuid.New()
	providerID := uuid.New()

	orders.On("GetByID", ctx, orderID).Return(&models.Order{
		ID: orderID, ProviderID: providerID, Status: models.OrderStatusPending,
	}, nil)
	orders.On("Accept", ctx, orderID).Return(&models.Order{
		ID: orderID, ProviderID: providerID, Status: models.OrderStatusAccepted,
	}, nil)

	order, err := svc.Accept(ctx, orderID, providerID, models.RoleProvider)
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusAccepted, order.Status)
}

func TestOrderService_Accept_Stranger(t *testing.T) {
	svc, orders, _, _ := newOrderServiceForTest()
	ctx := context.Background()

	orderID := uuid.New()
	orders.On("GetByID", ctx, orderID).Return(&models.Order{
		ID: orderID, ProviderID: uuid.New(), Status: models.OrderStatusPending,
	}, nil)

	_, err := svc.Accept(ctx, orderID, uuid.New(), models.RoleProvider)
	assert.ErrorIs(t, err, apperror.ErrForbidden)
	orders.AssertNotCalled(t, "Accept")
}

func TestOrderService_Accept_InvalidTransition(t *testing.T) {
	svc, orders, _, _ := newOrderServiceForTest()
	ctx := context.Background()

	orderID := uuid.New()
	providerID := uuid.New()

	orders.On("GetByID", ctx, orderID).Return(&models.Order{
		ID: orderID, ProviderID: providerID, Status: models.OrderStatusCompleted,
	}, nil)
	orders.On("Accept", ctx, orderID).Return(nil, repository.ErrInvalidStatus)

	_, err := svc.Accept(ctx, orderID, providerID, models.RoleProvider)
	assert.ErrorIs(t, err, apperror.ErrInvalidTransition)
}

func TestOrderService_Reject_MissingReason(t *testing.T) {
	svc, orders, _, _ := newOrderServiceForTest()

	_, err := svc.Reject(context.Background(), uuid.New(), uuid.New(), models.RoleProvider, "   ")
	assert.ErrorIs(t, err, apperror.ErrMissingReason)
	orders.AssertNotCalled(t, "RejectWithRefund")
}

func TestOrderService_Reject_Success(t *testing.T) {
	svc, orders, _, _ := newOrderServiceForTest()
	ctx := context.Background()

	orderID := uuid.New()
	providerID := uuid.New()

	orders.On("GetByID", ctx, orderID).Return(&models.Order{
		ID: orderID, ProviderID: providerID, Status: models.OrderStatusPending, Amount: 1000,
	}, nil)
	orders.On("RejectWithRefund", ctx, orderID, "нет свободного времени").Return(&models.Order{
		ID: orderID, Status: models.OrderStatusRejected,
	}, nil)

	order, err := svc.Reject(ctx, orderID, providerID, models.RoleProvider, "нет свободного времени")
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusRejected, order.Status)
	orders.AssertExpectations(t)
}

func TestOrderService_Complete_SplitAndCertificate(t *testing.T) {
	svc, orders, catalog, users := newOrderServiceForTest()
	ctx := context.Background()

	orderID := uuid.New()
	clientID := uuid.New()
	providerID := uuid.New()
	serviceID := uuid.New()
	platformID := uuid.New()

	orders.On("GetByID", ctx, orderID).Return(&models.Order{
		ID: orderID, ClientID: clientID, ProviderID: providerID, ServiceID: serviceID,
		Amount: 1000, Status: models.OrderStatusAccepted,
	}, nil)
	catalog.On("GetByID", ctx, serviceID).Return(&models.Service{
		ID: serviceID, Title: "Уроки гитары", Price: 1000, IsActive: true,
	}, nil)
	users.On("GetPlatformAccount", ctx).Return(&models.User{ID: platformID, Role: models.RoleAdmin}, nil)

	issuedCert := &models.Certificate{
		ID: uuid.New(), CertID: "CERT-AB12CD34", OrderID: orderID,
		ClientID: clientID, ProviderID: providerID, SkillTitle: "Уроки гитары",
	}

	orders.On("CompleteWithPayout", ctx, orderID, int64(900), int64(100), platformID,
		mock.MatchedBy(func(c *models.Certificate) bool {
			return c.OrderID == orderID && c.ClientID == clientID && c.ProviderID == providerID &&
				c.SkillTitle == "Уроки гитары" && len(c.CertID) == 13
		}),
	).Return(&models.Order{ID: orderID, Status: models.OrderStatusCompleted}, issuedCert, nil)

	order, cert, err := svc.Complete(ctx, orderID, providerID, models.RoleProvider)
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusCompleted, order.Status)
	assert.Equal(t, "CERT-AB12CD34", cert.CertID)
	orders.AssertExpectations(t)
}

func TestOrderService_Complete_Stranger(t *testing.T) {
	svc, orders, _, _ := newOrderServiceForTest()
	ctx := context.Background()

	orderID := uuid.New()
	orders.On("GetByID", ctx, orderID).Return(&models.Order{
		ID: orderID, ProviderID: uuid.New(), Status: models.OrderStatusAccepted,
	}, nil)

	_, _, err := svc.Complete(ctx, orderID, uuid.New(), models.RoleProvider)
	assert.ErrorIs(t, err, apperror.ErrForbidden)
	orders.AssertNotCalled(t, "CompleteWithPayout")
}

func TestOrderService_Cancel_ByClient(t *testing.T) {
	svc, orders, _, _ := newOrderServiceForTest()
	ctx := context.Background()

	orderID := uuid.New()
	clientID := uuid.New()

	orders.On("GetByID", ctx, orderID).Return(&models.Order{
		ID: orderID, ClientID: clientID, ProviderID: uuid.New(), Status: models.OrderStatusPending,
	}, nil)
	orders.On("CancelWithRefund", ctx, orderID).Return(&models.Order{
		ID: orderID, Status: models.OrderStatusCancelled,
	}, nil)

	order, err := svc.Cancel(ctx, orderID, clientID, models.RoleClient)
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, order.Status)
}

func TestOrderService_Cancel_Stranger(t *testing.T) {
	svc, orders, _, _ := newOrderServiceForTest()
	ctx := context.Background()

	orderID := uuid.New()
	orders.On("GetByID", ctx, orderID).Return(&models.Order{
		ID: orderID, ClientID: uuid.New(), Status: models.OrderStatusPending,
	}, nil)

	_, err := svc.Cancel(ctx, orderID, uuid.New(), models.RoleClient)
	assert.ErrorIs(t, err, apperror.ErrForbidden)
	orders.AssertNotCalled(t, "CancelWithRefund")
}

func TestOrderService_Accept_TransientConflict(t *testing.T) {
	svc, orders, _, _ := newOrderServiceForTest()
	ctx := context.Background()

	orderID := uuid.New()
	providerID := uuid.New()
	serErr := &pq.Error{Code: "40001"}

	orders.On("GetByID", ctx, orderID).Return(&models.Order{
		ID: orderID, ProviderID: providerID, Status: models.OrderStatusPending,
	}, nil)
	orders.On("Accept", ctx, orderID).Return(nil, serErr).Times(3)

	_, err := svc.Accept(ctx, orderID, providerID, models.RoleProvider)
	assert.Error(t, err)
	assert.Equal(t, apperror.ErrCodeTransientConflict, apperror.Code(err))
	orders.AssertExpectations(t)
}

func TestOrderService_Accept_RetrySucceeds(t *testing.T) {
	svc, orders, _, _ := newOrderServiceForTest()
	ctx := context.Background()

	orderID := uuid.New()
	providerID := uuid.New()

	orders.On("GetByID", ctx, orderID).Return(&models.Order{
		ID: orderID, ProviderID: providerID, Status: models.OrderStatusPending,
	}, nil)
	orders.On("Accept", ctx, orderID).Return(nil, &pq.Error{Code: "40001"}).Once()
	orders.On("Accept", ctx, orderID).Return(&models.Order{
		ID: orderID, Status: models.OrderStatusAccepted,
	}, nil).Once()

	order, err := svc.Accept(ctx, orderID, providerID, models.RoleProvider)
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusAccepted, order.Status)
}

func TestOrderService_Get_Participant(t *testing.T) {
	svc, orders, _, _ := newOrderServiceForTest()
	ctx := context.Background()

	orderID := uuid.New()
	clientID := uuid.New()
	orders.On("GetByID", ctx, orderID).Return(&models.Order{
		ID: orderID, ClientID: clientID, ProviderID: uuid.New(),
	}, nil)

	order, err := svc.Get(ctx, orderID, clientID, models.RoleClient)
	assert.NoError(t, err)
	assert.Equal(t, orderID, order.ID)

	_, err = svc.Get(ctx, orderID, uuid.New(), models.RoleClient)
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestOrderService_Get_NotFound(t *testing.T) {
	svc, orders, _, _ := newOrderServiceForTest()
	ctx := context.Background()

	orderID := uuid.New()
	orders.On("GetByID", ctx, orderID).Return(nil, repository.ErrOrderNotFound)

	_, err := svc.Get(ctx, orderID, uuid.New(), models.RoleClient)
	assert.ErrorIs(t, err, apperror.ErrOrderNotFound)
}

func TestOrderService_ListMine_ByRole(t *testing.T) {
	svc, orders, _, _ := newOrderServiceForTest()
	ctx := context.Background()
	userID := uuid.New()

	orders.On("ListByProvider", ctx, userID, 20, 0).Return([]models.Order{{ID: uuid.New()}}, nil)
	got, err := svc.ListMine(ctx, userID, models.RoleProvider, 0, 0)
	assert.NoError(t, err)
	assert.Len(t, got, 1)

	orders.On("ListByClient", ctx, userID, 20, 0).Return([]models.Order{}, nil)
	got, err = svc.ListMine(ctx, userID, models.RoleClient, 0, 0)
	assert.NoError(t, err)
	assert.Empty(t, got)
}
