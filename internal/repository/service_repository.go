package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/skillverse/marketplace-backend/internal/models"
	"github.com/skillverse/marketplace-backend/internal/repository/common"
)

var ErrServiceNotFound = errors.New("service not found")

// ServiceRepository отвечает за каталог услуг.
type ServiceRepository struct {
	db *sqlx.DB
}

func NewServiceRepository(db *sqlx.DB) *ServiceRepository {
	return &ServiceRepository{db: db}
}

// Create добавляет услугу в каталог.
func (r *ServiceRepository) Create(ctx context.Context, service *models.Service) error {
	query := `
		INSERT INTO services (provider_id, title, description, category, price, is_active)
		VALUES ($1, $2, $3, $4, $5, TRUE)
		RETURNING id, created_at, updated_at
	`

	if err := r.db.QueryRowxContext(
		ctx, query,
		service.ProviderID, service.Title, service.Description, service.Category, service.Price,
	).Scan(&service.ID, &service.CreatedAt, &service.UpdatedAt); err != nil {
		return fmt.Errorf("service repository: create %w", err)
	}

	return nil
}

// GetByID возвращает услугу по идентификатору.
func (r *ServiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	return common.GetByID[models.Service](ctx, r.db, "services", id, ErrServiceNotFound)
}

// Update обновляет поля услуги. Менять услугу может только её владелец.
func (r *ServiceRepository) Update(ctx context.Context, service *models.Service) error {
	query := `
		UPDATE services
		SET title = $3, description = $4, category = $5, price = $6, is_active = $7, updated_at = NOW()
		WHERE id = $1 AND provider_id = $2
		RETURNING updated_at
	`

	err := r.db.QueryRowxContext(
		ctx, query,
		service.ID, service.ProviderID,
		service.Title, service.Description, service.Category, service.Price, service.IsActive,
	).Scan(&service.UpdatedAt)
	if err != nil {
		return fmt.Errorf("service repository: update %w", err)
	}

	return nil
}

// Deactivate снимает услугу с публикации, не удаляя её.
func (r *ServiceRepository) Deactivate(ctx context.Context, providerID, serviceID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE services SET is_active = FALSE, updated_at = NOW()
		WHERE id = $1 AND provider_id = $2
	`, serviceID, providerID)
	if err != nil {
		return fmt.Errorf("service repository: deactivate %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("service repository: deactivate rows affected %w", err)
	}
	if rows == 0 {
		return ErrServiceNotFound
	}

	return nil
}

// List возвращает активные услуги каталога, опционально по категории.
func (r *ServiceRepository) List(ctx context.Context, category string, limit, offset int) ([]models.Service, error) {
	query := `SELECT * FROM services WHERE is_active = TRUE`
	args := []interface{}{}
	argNum := 1

	if category != "" {
		query += fmt.Sprintf(` AND category = $%d`, argNum)
		args = append(args, category)
		argNum++
	}

	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, argNum, argNum+1)
	args = append(args, limit, offset)

	var services []models.Service
	if err := r.db.SelectContext(ctx, &services, query, args...); err != nil {
		return nil, fmt.Errorf("service repository: list %w", err)
	}

	return services, nil
}

// ListByProvider возвращает все услуги исполнителя, включая снятые.
func (r *ServiceRepository) ListByProvider(ctx context.Context, providerID uuid.UUID, limit, offset int) ([]models.Service, error) {
	var services []models.Service
	err := r.db.SelectContext(ctx, &services, `
		SELECT * FROM services WHERE provider_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, providerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("service repository: list by provider %w", err)
	}

	return services, nil
}
