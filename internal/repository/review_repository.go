package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/skillverse/marketplace-backend/internal/models"
	"github.com/skillverse/marketplace-backend/internal/repository/common"
)

var (
	ErrReviewNotFound = errors.New("review not found")
	ErrReviewExists   = errors.New("review for this order already exists")
)

type ReviewRepository struct {
	db *sqlx.DB
}

func NewReviewRepository(db *sqlx.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create сохраняет отзыв. Повторный отзыв на заказ отсекается
// уникальным ограничением на order_id.
func (r *ReviewRepository) Create(ctx context.Context, review *models.Review) error {
	query := `
		INSERT INTO reviews (order_id, service_id, reviewer_id, provider_id, rating, comment)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		review.OrderID, review.ServiceID, review.ReviewerID, review.ProviderID, review.Rating, review.Comment,
	).Scan(&review.ID, &review.CreatedAt)
	if err != nil {
		if common.IsUniqueViolation(err) {
			return ErrReviewExists
		}
		return fmt.Errorf("review repository: create %w", err)
	}

	return nil
}

// GetByOrderID возвращает отзыв по заказу.
func (r *ReviewRepository) GetByOrderID(ctx context.Context, orderID uuid.UUID) (*models.Review, error) {
	return common.GetByField[models.Review](ctx, r.db, "reviews", "order_id", orderID, ErrReviewNotFound)
}

// ListByService возвращает отзывы об услуге, новые первыми.
func (r *ReviewRepository) ListByService(ctx context.Context, serviceID uuid.UUID, limit, offset int) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.SelectContext(ctx, &reviews, `
		SELECT * FROM reviews WHERE service_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, serviceID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("review repository: list by service %w", err)
	}
	return reviews, nil
}

// ServiceRatingDistribution возвращает количество отзывов об услуге
// по каждой оценке от 1 до 5. Оценки без отзывов присутствуют с нулём.
func (r *ReviewRepository) ServiceRatingDistribution(ctx context.Context, serviceID uuid.UUID) (map[int]int, error) {
	rows := []struct {
		Rating int `db:"rating"`
		Count  int `db:"count"`
	}{}
	err := r.db.SelectContext(ctx, &rows, `
		SELECT rating, COUNT(*) AS count FROM reviews
		WHERE service_id = $1 GROUP BY rating
	`, serviceID)
	if err != nil {
		return nil, fmt.Errorf("review repository: rating distribution %w", err)
	}

	distribution := map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}
	for _, row := range rows {
		distribution[row.Rating] = row.Count
	}
	return distribution, nil
}

// AverageRating возвращает средний рейтинг и количество отзывов
// по произвольному полю (услуга или исполнитель).
func (r *ReviewRepository) AverageRating(ctx context.Context, field string, id uuid.UUID) (float64, int, error) {
	var result struct {
		Avg   sql.NullFloat64 `db:"avg"`
		Count int             `db:"count"`
	}
	query := fmt.Sprintf(`
		SELECT COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count
		FROM reviews WHERE %s = $1
	`, field)
	if err := r.db.GetContext(ctx, &result, query, id); err != nil {
		return 0, 0, fmt.Errorf("review repository: average rating %w", err)
	}
	return result.Avg.Float64, result.Count, nil
}
