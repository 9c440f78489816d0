package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/skillverse/marketplace-backend/internal/models"
	"github.com/skillverse/marketplace-backend/internal/pkg/apperror"
	"github.com/skillverse/marketplace-backend/internal/repository"
	"github.com/skillverse/marketplace-backend/internal/validation"
)

// CatalogRepository описывает зависимости CatalogService от слоя хранилища.
type CatalogRepository interface {
	Create(ctx context.Context, service *models.Service) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Service, error)
	Update(ctx context.Context, service *models.Service) error
	Deactivate(ctx context.Context, providerID, serviceID uuid.UUID) error
	List(ctx context.Context, category string, limit, offset int) ([]models.Service, error)
	ListByProvider(ctx context.Context, providerID uuid.UUID, limit, offset int) ([]models.Service, error)
}

// CatalogService управляет каталогом услуг.
type CatalogService struct {
	repo CatalogRepository
}

// ServiceInput содержит данные услуги.
type ServiceInput struct {
	Title       string
	Description string
	Category    *string
	Price       int64
}

// NewCatalogService создаёт сервис каталога.
func NewCatalogService(repo CatalogRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

// Publish добавляет услугу в каталог. Публиковать услуги могут
// только исполнители.
func (s *CatalogService) Publish(ctx context.Context, providerID uuid.UUID, role string, in ServiceInput) (*models.Service, error) {
	if role != models.RoleProvider {
		return nil, apperror.ErrRoleNotPermitted
	}

	if err := s.validateInput(in); err != nil {
		return nil, err
	}

	service := &models.Service{
		ProviderID:  providerID,
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Category:    in.Category,
		Price:       in.Price,
		IsActive:    true,
	}

	if err := s.repo.Create(ctx, service); err != nil {
		return nil, err
	}

	return service, nil
}

// Get возвращает услугу по идентификатору.
func (s *CatalogService) Get(ctx context.Context, serviceID uuid.UUID) (*models.Service, error) {
	service, err := s.repo.GetByID(ctx, serviceID)
	if err != nil {
		if errors.Is(err, repository.ErrServiceNotFound) {
			return nil, apperror.ErrServiceNotFound
		}
		return nil, err
	}
	return service, nil
}

// Update обновляет услугу её владельца.
func (s *CatalogService) Update(ctx context.Context, providerID uuid.UUID, serviceID uuid.UUID, in ServiceInput) (*models.Service, error) {
	if err := s.validateInput(in); err != nil {
		return nil, err
	}

	service, err := s.Get(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	if service.ProviderID != providerID {
		return nil, apperror.ErrForbidden
	}

	service.Title = strings.TrimSpace(in.Title)
	service.Description = strings.TrimSpace(in.Description)
	service.Category = in.Category
	service.Price = in.Price

	if err := s.repo.Update(ctx, service); err != nil {
		return nil, err
	}

	return service, nil
}

// Unpublish снимает услугу с публикации.
func (s *CatalogService) Unpublish(ctx context.Context, providerID, serviceID uuid.UUID) error {
	err := s.repo.Deactivate(ctx, providerID, serviceID)
	if errors.Is(err, repository.ErrServiceNotFound) {
		return apperror.ErrServiceNotFound
	}
	return err
}

// List возвращает активные услуги каталога.
func (s *CatalogService) List(ctx context.Context, category string, limit, offset int) ([]models.Service, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	return s.repo.List(ctx, category, limit, offset)
}

// ListByProvider возвращает все услуги исполнителя.
func (s *CatalogService) ListByProvider(ctx context.Context, providerID uuid.UUID, limit, offset int) ([]models.Service, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	return s.repo.ListByProvider(ctx, providerID, limit, offset)
}

func (s *CatalogService) validateInput(in ServiceInput) error {
	if err := validation.ValidateServiceTitle(in.Title); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateServiceDescription(in.Description); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateCategory(in.Category); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateAmount(in.Price); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeInvalidAmount, err.Error())
	}
	return nil
}
