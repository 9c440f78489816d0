package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/skillverse/marketplace-backend/internal/models"
	"github.com/skillverse/marketplace-backend/internal/pkg/apperror"
	"github.com/skillverse/marketplace-backend/internal/repository"
	"github.com/skillverse/marketplace-backend/internal/validation"
)

// BookingRepository описывает зависимости BookingService от слоя хранилища.
type BookingRepository interface {
	CreateSlots(ctx context.Context, providerID uuid.UUID, windows [][2]time.Time) ([]models.AvailabilitySlot, error)
	GetSlot(ctx context.Context, slotID uuid.UUID) (*models.AvailabilitySlot, error)
	ListSlots(ctx context.Context, providerID uuid.UUID, onlyFree bool) ([]models.AvailabilitySlot, error)
	DeleteSlot(ctx context.Context, providerID, slotID uuid.UUID) error
	ListBookingsByClient(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]models.Booking, error)
}

// BookingService управляет расписанием исполнителей.
type BookingService struct {
	repo BookingRepository
}

// CreateSlotsInput содержит данные для открытия слотов.
// RecurWeeks повторяет то же окно еженедельно указанное число недель.
type CreateSlotsInput struct {
	StartTime  time.Time
	EndTime    time.Time
	RecurWeeks int
}

// NewBookingService создаёт сервис расписания.
func NewBookingService(repo BookingRepository) *BookingService {
	return &BookingService{repo: repo}
}

// CreateSlots открывает окна доступности исполнителя. Окна,
// пересекающиеся с уже существующими, молча пропускаются.
func (s *BookingService) CreateSlots(ctx context.Context, providerID uuid.UUID, role string, in CreateSlotsInput) ([]models.AvailabilitySlot, error) {
	if role != models.RoleProvider && role != models.RoleAdmin {
		return nil, apperror.ErrRoleNotPermitted
	}

	if err := validation.ValidateTimeRange(in.StartTime, in.EndTime); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateRecurrenceWeeks(in.RecurWeeks); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if !in.StartTime.After(time.Now()) {
		return nil, apperror.New(apperror.ErrCodeValidation, "слот должен начинаться в будущем")
	}

	windows := make([][2]time.Time, 0, in.RecurWeeks+1)
	for week := 0; week <= in.RecurWeeks; week++ {
		shift := time.Duration(week) * 7 * 24 * time.Hour
		windows = append(windows, [2]time.Time{in.StartTime.Add(shift), in.EndTime.Add(shift)})
	}

	return s.repo.CreateSlots(ctx, providerID, windows)
}

// ListSlots возвращает расписание исполнителя. Свободные слоты
// видны всем, полное расписание — самому исполнителю.
func (s *BookingService) ListSlots(ctx context.Context, providerID, viewerID uuid.UUID, role string) ([]models.AvailabilitySlot, error) {
	onlyFree := providerID != viewerID && role != models.RoleAdmin
	return s.repo.ListSlots(ctx, providerID, onlyFree)
}

// GetSlot возвращает слот по идентификатору.
func (s *BookingService) GetSlot(ctx context.Context, slotID uuid.UUID) (*models.AvailabilitySlot, error) {
	slot, err := s.repo.GetSlot(ctx, slotID)
	if err != nil {
		if errors.Is(err, repository.ErrSlotNotFound) {
			return nil, apperror.ErrSlotNotFound
		}
		return nil, err
	}
	return slot, nil
}

// DeleteSlot удаляет свободный слот исполнителя.
func (s *BookingService) DeleteSlot(ctx context.Context, providerID uuid.UUID, role string, slotID uuid.UUID) error {
	if role != models.RoleProvider && role != models.RoleAdmin {
		return apperror.ErrRoleNotPermitted
	}

	err := s.repo.DeleteSlot(ctx, providerID, slotID)
	switch {
	case errors.Is(err, repository.ErrSlotNotFound):
		return apperror.ErrSlotNotFound
	case errors.Is(err, repository.ErrSlotTaken):
		return apperror.ErrSlotUnavailable
	default:
		return err
	}
}

// MyBookings возвращает брони клиента.
func (s *BookingService) MyBookings(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]models.Booking, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	return s.repo.ListBookingsByClient(ctx, clientID, limit, offset)
}
