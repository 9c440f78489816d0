package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/skillverse/marketplace-backend/internal/models"
	"github.com/skillverse/marketplace-backend/internal/pkg/apperror"
	"github.com/skillverse/marketplace-backend/internal/repository"
)

type mockReviewRepo struct {
	mock.Mock
}

func (m *mockReviewRepo) Create(ctx context.Context, review *models.Review) error {
	args := m.Called(ctx, review)
	if args.Error(0) == nil {
		review.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockReviewRepo) GetByOrderID(ctx context.Context, orderID uuid.UUID) (*models.Review, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *mockReviewRepo) ListByService(ctx context.Context, serviceID uuid.UUID, limit, offset int) ([]models.Review, error) {
	args := m.Called(ctx, serviceID, limit, offset)
	return args.Get(0).([]models.Review), args.Error(1)
}

func (m *mockReviewRepo) ServiceRatingDistribution(ctx context.Context, serviceID uuid.UUID) (map[int]int, error) {
	args := m.Called(ctx, serviceID)
	return args.Get(0).(map[int]int), args.Error(1)
}

func (m *mockReviewRepo) AverageRating(ctx context.Context, field string, id uuid.UUID) (float64, int, error) {
	args := m.Called(ctx, field, id)
	return args.Get(0).(float64), args.Get(1).(int), args.Error(2)
}

type mockReviewOrderRepo struct {
	mock.Mock
}

func (m *mockReviewOrderRepo) GetByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func newReviewServiceForTest() (*ReviewService, *mockReviewRepo, *mockReviewOrderRepo) {
	repo := new(mockReviewRepo)
	orders := new(mockReviewOrderRepo)
	return NewReviewService(repo, orders), repo, orders
}

func TestReviewService_LeaveReview_Success(t *testing.T) {
	svc, repo, orders := newReviewServiceForTest()
	ctx := context.Background()

	orderID := uuid.New()
	clientID := uuid.New()
	providerID := uuid.New()
	serviceID := uuid.New()
	comment := "Отличная работа"

	orders.On("GetByID", ctx, orderID).Return(&models.Order{
		ID: orderID, ClientID: clientID, ProviderID: providerID, ServiceID: serviceID,
		Status: models.OrderStatusCompleted,
	}, nil)
	repo.On("Create", ctx, mock.MatchedBy(func(r *models.Review) bool {
		return r.OrderID == orderID && r.ReviewerID == clientID &&
			r.ProviderID == providerID && r.ServiceID == serviceID && r.Rating == 5
	})).Return(nil)

	review, err := svc.LeaveReview(ctx, orderID, clientID, 5, &comment)
	assert.NoError(t, err)
	assert.Equal(t, 5, review.Rating)
	repo.AssertExpectations(t)
}

func TestReviewService_LeaveReview_RatingOutOfRange(t *testing.T) {
	svc, repo, _ := newReviewServiceForTest()
	ctx := context.Background()

	_, err := svc.LeaveReview(ctx, uuid.New(), uuid.New(), 0, nil)
	assert.Error(t, err)
	assert.Equal(t, apperror.ErrCodeValidation, apperror.Code(err))

	_, err = svc.LeaveReview(ctx, uuid.New(), uuid.New(), 6, nil)
	assert.Error(t, err)
	assert.Equal(t, apperror.ErrCodeValidation, apperror.Code(err))

	repo.AssertNotCalled(t, "Create")
}

func TestReviewService_LeaveReview_NotCompleted(t *testing.T) {
	svc, repo, orders := newReviewServiceForTest()
	ctx := context.Background()

	orderID := uuid.New()
	clientID := uuid.New()

	orders.On("GetByID", ctx, orderID).Return(&models.Order{
		ID: orderID, ClientID: clientID, Status: models.OrderStatusAccepted,
	}, nil)

	_, err := svc.LeaveReview(ctx, orderID, clientID, 4, nil)
	assert.ErrorIs(t, err, apperror.ErrInvalidTransition)
	repo.AssertNotCalled(t, "Create")
}

func TestReviewService_LeaveReview_NotClient(t *testing.T) {
	svc, repo, orders := newReviewServiceForTest()
	ctx := context.Background()

	orderID := uuid.New()
	providerID := uuid.New()

	orders.On("GetByID", ctx, orderID).Return(&models.Order{
		ID: orderID, ClientID: uuid.New(), ProviderID: providerID,
		Status: models.OrderStatusCompleted,
	}, nil)

	// Исполнитель не может оставить отзыв на собственный заказ
	_, err := svc.LeaveReview(ctx, orderID, providerID, 5, nil)
	assert.ErrorIs(t, err, apperror.ErrForbidden)
	repo.AssertNotCalled(t, "Create")
}

func TestReviewService_LeaveReview_Duplicate(t *testing.T) {
	svc, repo, orders := newReviewServiceForTest()
	ctx := context.Background()

	orderID := uuid.New()
	clientID := uuid.New()

	orders.On("GetByID", ctx, orderID).Return(&models.Order{
		ID: orderID, ClientID: clientID, Status: models.OrderStatusCompleted,
	}, nil)
	repo.On("Create", ctx, mock.Anything).Return(repository.ErrReviewExists)

	_, err := svc.LeaveReview(ctx, orderID, clientID, 5, nil)
	assert.ErrorIs(t, err, apperror.ErrAlreadyReviewed)
}

func TestReviewService_GetOrderReview_Participant(t *testing.T) {
	svc, repo, orders := newReviewServiceForTest()
	ctx := context.Background()

	orderID := uuid.New()
	providerID := uuid.New()

	orders.On("GetByID", ctx, orderID).Return(&models.Order{
		ID: orderID, ClientID: uuid.New(), ProviderID: providerID,
		Status: models.OrderStatusCompleted,
	}, nil)
	repo.On("GetByOrderID", ctx, orderID).Return(&models.Review{OrderID: orderID, Rating: 4}, nil)

	review, err := svc.GetOrderReview(ctx, orderID, providerID, models.RoleProvider)
	assert.NoError(t, err)
	assert.Equal(t, 4, review.Rating)
}

func TestReviewService_GetOrderReview_Stranger(t *testing.T) {
	svc, repo, orders := newReviewServiceForTest()
	ctx := context.Background()

	orderID := uuid.New()
	orders.On("GetByID", ctx, orderID).Return(&models.Order{
		ID: orderID, ClientID: uuid.New(), ProviderID: uuid.New(),
	}, nil)

	_, err := svc.GetOrderReview(ctx, orderID, uuid.New(), models.RoleClient)
	assert.ErrorIs(t, err, apperror.ErrForbidden)
	repo.AssertNotCalled(t, "GetByOrderID")
}

func TestReviewService_ServiceRating(t *testing.T) {
	svc, repo, _ := newReviewServiceForTest()
	ctx := context.Background()
	serviceID := uuid.New()

	repo.On("AverageRating", ctx, "service_id", serviceID).Return(4.5, 4, nil)
	repo.On("ServiceRatingDistribution", ctx, serviceID).Return(map[int]int{1: 0, 2: 0, 3: 0, 4: 2, 5: 2}, nil)

	rating, err := svc.ServiceRating(ctx, serviceID)
	assert.NoError(t, err)
	assert.Equal(t, 4.5, rating.Average)
	assert.Equal(t, 4, rating.Count)
	assert.Equal(t, 2, rating.Distribution[5])
	assert.Equal(t, 0, rating.Distribution[1])
}

func TestReviewService_ProviderRating(t *testing.T) {
	svc, repo, _ := newReviewServiceForTest()
	ctx := context.Background()
	providerID := uuid.New()

	repo.On("AverageRating", ctx, "provider_id", providerID).Return(4.8, 12, nil)

	rating, err := svc.ProviderRating(ctx, providerID)
	assert.NoError(t, err)
	assert.Equal(t, 4.8, rating.Average)
	assert.Equal(t, 12, rating.Count)
	assert.Nil(t, rating.Distribution)
}
