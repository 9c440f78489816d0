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

var ErrCertificateNotFound = errors.New("certificate not found")

type CertificateRepository struct {
	db *sqlx.DB
}

func NewCertificateRepository(db *sqlx.DB) *CertificateRepository {
	return &CertificateRepository{db: db}
}

// insertCertificateTx выпускает сертификат внутри внешней транзакции.
// Повторный выпуск по тому же заказу возвращает уже существующий
// сертификат, а не ошибку.
func insertCertificateTx(ctx context.Context, tx *sqlx.Tx, cert *models.Certificate) (*models.Certificate, error) {
	var issued models.Certificate
	err := tx.GetContext(ctx, &issued, `
		INSERT INTO certificates (cert_id, order_id, client_id, provider_id, skill_title)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (order_id) DO NOTHING
		RETURNING *
	`, cert.CertID, cert.OrderID, cert.ClientID, cert.ProviderID, cert.SkillTitle)
	if err == nil {
		return &issued, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("certificate repository: insert %w", err)
	}

	// Конфликт по order_id: сертификат уже был выпущен ранее.
	err = tx.GetContext(ctx, &issued, `SELECT * FROM certificates WHERE order_id = $1`, cert.OrderID)
	if err != nil {
		return nil, fmt.Errorf("certificate repository: get existing %w", err)
	}
	return &issued, nil
}

// GetByCertID ищет сертификат по публичному номеру.
func (r *CertificateRepository) GetByCertID(ctx context.Context, certID string) (*models.Certificate, error) {
	return common.GetByField[models.Certificate](ctx, r.db, "certificates", "cert_id", certID, ErrCertificateNotFound)
}

// GetByOrderID возвращает сертификат, выпущенный по заказу.
func (r *CertificateRepository) GetByOrderID(ctx context.Context, orderID uuid.UUID) (*models.Certificate, error) {
	return common.GetByField[models.Certificate](ctx, r.db, "certificates", "order_id", orderID, ErrCertificateNotFound)
}

// ListByUser возвращает сертификаты, где пользователь — клиент или исполнитель.
func (r *CertificateRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Certificate, error) {
	var certs []models.Certificate
	err := r.db.SelectContext(ctx, &certs, `
		SELECT * FROM certificates
		WHERE client_id = $1 OR provider_id = $1
		ORDER BY issued_at DESC LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("certificate repository: list by user %w", err)
	}
	return certs, nil
}
