package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/skillverse/marketplace-backend/internal/models"
	"github.com/skillverse/marketplace-backend/internal/pkg/apperror"
	"github.com/skillverse/marketplace-backend/internal/repository"
	"github.com/skillverse/marketplace-backend/internal/validation"
)

// ReviewRepository описывает зависимости ReviewService от слоя хранилища.
type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	GetByOrderID(ctx context.Context, orderID uuid.UUID) (*models.Review, error)
	ListByService(ctx context.Context, serviceID uuid.UUID, limit, offset int) ([]models.Review, error)
	ServiceRatingDistribution(ctx context.Context, serviceID uuid.UUID) (map[int]int, error)
	AverageRating(ctx context.Context, field string, id uuid.UUID) (float64, int, error)
}

// ReviewOrderRepository даёт доступ к заказам для проверок отзыва.
type ReviewOrderRepository interface {
	GetByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
}

// ReviewService управляет отзывами о выполненных заказах.
type ReviewService struct {
	repo   ReviewRepository
	orders ReviewOrderRepository
}

// NewReviewService создаёт сервис отзывов.
func NewReviewService(repo ReviewRepository, orders ReviewOrderRepository) *ReviewService {
	return &ReviewService{repo: repo, orders: orders}
}

// LeaveReview оставляет отзыв о завершённом заказе. Отзыв может оставить
// только клиент заказа, один раз.
func (s *ReviewService) LeaveReview(ctx context.Context, orderID, reviewerID uuid.UUID, rating int, comment *string) (*models.Review, error) {
	if err := validation.ValidateRating(rating); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateReviewComment(comment); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, apperror.ErrOrderNotFound
		}
		return nil, err
	}
	if order.ClientID != reviewerID {
		return nil, apperror.ErrForbidden
	}
	if order.Status != models.OrderStatusCompleted {
		return nil, apperror.New(apperror.ErrCodeInvalidTransition, "отзыв можно оставить только после завершения заказа")
	}

	review := &models.Review{
		OrderID:    order.ID,
		ServiceID:  order.ServiceID,
		ReviewerID: reviewerID,
		ProviderID: order.ProviderID,
		Rating:     rating,
		Comment:    comment,
	}

	if err := s.repo.Create(ctx, review); err != nil {
		if errors.Is(err, repository.ErrReviewExists) {
			return nil, apperror.ErrAlreadyReviewed
		}
		return nil, err
	}

	return review, nil
}

// GetOrderReview возвращает отзыв по заказу его участнику.
func (s *ReviewService) GetOrderReview(ctx context.Context, orderID, userID uuid.UUID, role string) (*models.Review, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, apperror.ErrOrderNotFound
		}
		return nil, err
	}
	if role != models.RoleAdmin && order.ClientID != userID && order.ProviderID != userID {
		return nil, apperror.ErrForbidden
	}

	review, err := s.repo.GetByOrderID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return nil, apperror.ErrReviewNotFound
		}
		return nil, err
	}
	return review, nil
}

// ListServiceReviews возвращает отзывы об услуге.
func (s *ReviewService) ListServiceReviews(ctx context.Context, serviceID uuid.UUID, limit, offset int) ([]models.Review, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	return s.repo.ListByService(ctx, serviceID, limit, offset)
}

// ServiceRating возвращает средний рейтинг услуги с распределением оценок.
func (s *ReviewService) ServiceRating(ctx context.Context, serviceID uuid.UUID) (*models.RatingSummary, error) {
	average, count, err := s.repo.AverageRating(ctx, "service_id", serviceID)
	if err != nil {
		return nil, err
	}

	distribution, err := s.repo.ServiceRatingDistribution(ctx, serviceID)
	if err != nil {
		return nil, err
	}

	return &models.RatingSummary{
		Average:      average,
		Count:        count,
		Distribution: distribution,
	}, nil
}

// ProviderRating возвращает средний рейтинг исполнителя по всем его услугам.
func (s *ReviewService) ProviderRating(ctx context.Context, providerID uuid.UUID) (*models.RatingSummary, error) {
	average, count, err := s.repo.AverageRating(ctx, "provider_id", providerID)
	if err != nil {
		return nil, err
	}

	return &models.RatingSummary{Average: average, Count: count}, nil
}
