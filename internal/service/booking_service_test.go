package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/skillverse/marketplace-backend/internal/models"
	"github.com/skillverse/marketplace-backend/internal/pkg/apperror"
	"github.com/skillverse/marketplace-backend/internal/repository"
)

type mockBookingRepo struct {
	mock.Mock
}

func (m *mockBookingRepo) CreateSlots(ctx context.Context, providerID uuid.UUID, windows [][2]time.Time) ([]models.AvailabilitySlot, error) {
	args := m.Called(ctx, providerID, windows)
	return args.Get(0).([]models.AvailabilitySlot), args.Error(1)
}

func (m *mockBookingRepo) GetSlot(ctx context.Context, slotID uuid.UUID) (*models.AvailabilitySlot, error) {
	args := m.Called(ctx, slotID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AvailabilitySlot), args.Error(1)
}

func (m *mockBookingRepo) ListSlots(ctx context.Context, providerID uuid.UUID, onlyFree bool) ([]models.AvailabilitySlot, error) {
	args := m.Called(ctx, providerID, onlyFree)
	return args.Get(0).([]models.AvailabilitySlot), args.Error(1)
}

func (m *mockBookingRepo) DeleteSlot(ctx context.Context, providerID, slotID uuid.UUID) error {
	args := m.Called(ctx, providerID, slotID)
	return args.Error(0)
}

func (m *mockBookingRepo) ListBookingsByClient(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]models.Booking, error) {
	args := m.Called(ctx, clientID, limit, offset)
	return args.Get(0).([]models.Booking), args.Error(1)
}

func TestBookingService_CreateSlots_Single(t *testing.T) {
	repo := new(mockBookingRepo)
	svc := NewBookingService(repo)
	ctx := context.Background()
	providerID := uuid.New()

	start := time.Now().Add(24 * time.Hour).Truncate(time.Minute)
	end := start.Add(time.Hour)

	repo.On("CreateSlots", ctx, providerID, [][2]time.Time{{start, end}}).
		Return([]models.AvailabilitySlot{{ID: uuid.New(), ProviderID: providerID}}, nil)

	slots, err := svc.CreateSlots(ctx, providerID, models.RoleProvider, CreateSlotsInput{
		StartTime: start,
		EndTime:   end,
	})
	assert.NoError(t, err)
	assert.Len(t, slots, 1)
	repo.AssertExpectations(t)
}

func TestBookingService_CreateSlots_Recurring(t *testing.T) {
	repo := new(mockBookingRepo)
	svc := NewBookingService(repo)
	ctx := context.Background()
	providerID := uuid.New()

	start := time.Now().Add(24 * time.Hour).Truncate(time.Minute)
	end := start.Add(time.Hour)
	week := 7 * 24 * time.Hour

	expected := [][2]time.Time{
		{start, end},
		{start.Add(week), end.Add(week)},
		{start.Add(2 * week), end.Add(2 * week)},
	}

	repo.On("CreateSlots", ctx, providerID, expected).
		Return([]models.AvailabilitySlot{{}, {}, {}}, nil)

	slots, err := svc.CreateSlots(ctx, providerID, models.RoleProvider, CreateSlotsInput{
		StartTime:  start,
		EndTime:    end,
		RecurWeeks: 2,
	})
	assert.NoError(t, err)
	assert.Len(t, slots, 3)
}

func TestBookingService_CreateSlots_ClientNotPermitted(t *testing.T) {
	repo := new(mockBookingRepo)
	svc := NewBookingService(repo)

	start := time.Now().Add(time.Hour)
	_, err := svc.CreateSlots(context.Background(), uuid.New(), models.RoleClient, CreateSlotsInput{
		StartTime: start,
		EndTime:   start.Add(time.Hour),
	})
	assert.ErrorIs(t, err, apperror.ErrRoleNotPermitted)
	repo.AssertNotCalled(t, "CreateSlots")
}

func TestBookingService_CreateSlots_InvalidRange(t *testing.T) {
	repo := new(mockBookingRepo)
	svc := NewBookingService(repo)
	ctx := context.Background()
	providerID := uuid.New()

	start := time.Now().Add(time.Hour)

	_, err := svc.CreateSlots(ctx, providerID, models.RoleProvider, CreateSlotsInput{
		StartTime: start,
		EndTime:   start.Add(-time.Hour),
	})
	assert.Error(t, err)
	assert.Equal(t, apperror.ErrCodeValidation, apperror.Code(err))

	_, err = svc.CreateSlots(ctx, providerID, models.RoleProvider, CreateSlotsInput{
		StartTime: time.Now().Add(-time.Hour),
		EndTime:   time.Now().Add(time.Hour),
	})
	assert.Error(t, err)
	assert.Equal(t, apperror.ErrCodeValidation, apperror.Code(err))
}

func TestBookingService_ListSlots_Visibility(t *testing.T) {
	repo := new(mockBookingRepo)
	svc := NewBookingService(repo)
	ctx := context.Background()
	providerID := uuid.New()

	repo.On("ListSlots", ctx, providerID, true).Return([]models.AvailabilitySlot{}, nil).Once()
	_, err := svc.ListSlots(ctx, providerID, uuid.New(), models.RoleClient)
	assert.NoError(t, err)

	repo.On("ListSlots", ctx, providerID, false).Return([]models.AvailabilitySlot{}, nil).Once()
	_, err = svc.ListSlots(ctx, providerID, providerID, models.RoleProvider)
	assert.NoError(t, err)

	repo.AssertExpectations(t)
}

func TestBookingService_DeleteSlot_Booked(t *testing.T) {
	repo := new(mockBookingRepo)
	svc := NewBookingService(repo)
	ctx := context.Background()

	providerID := uuid.New()
	slotID := uuid.New()

	repo.On("DeleteSlot", ctx, providerID, slotID).Return(repository.ErrSlotTaken)

	err := svc.DeleteSlot(ctx, providerID, models.RoleProvider, slotID)
	assert.ErrorIs(t, err, apperror.ErrSlotUnavailable)
}

func TestBookingService_DeleteSlot_NotFound(t *testing.T) {
	repo := new(mockBookingRepo)
	svc := NewBookingService(repo)
	ctx := context.Background()

	providerID := uuid.New()
	slotID := uuid.New()

	repo.On("DeleteSlot", ctx, providerID, slotID).Return(repository.ErrSlotNotFound)

	err := svc.DeleteSlot(ctx, providerID, models.RoleProvider, slotID)
	assert.ErrorIs(t, err, apperror.ErrSlotNotFound)
}

func TestBookingService_MyBookings_DefaultLimit(t *testing.T) {
	repo := new(mockBookingRepo)
	svc := NewBookingService(repo)
	ctx := context.Background()
	clientID := uuid.New()

	repo.On("ListBookingsByClient", ctx, clientID, 20, 0).Return([]models.Booking{}, nil)

	_, err := svc.MyBookings(ctx, clientID, 0, -1)
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}
