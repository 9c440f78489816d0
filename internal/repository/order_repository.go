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
	ErrOrderNotFound = errors.New("order not found")
	ErrInvalidStatus = errors.New("invalid order status for this action")
	ErrSlotTaken     = errors.New("slot already booked")
)

type OrderRepository struct {
	db *sqlx.DB
}

func NewOrderRepository(db *sqlx.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// lockOrder блокирует заказ на время транзакции.
func lockOrder(ctx context.Context, tx *sqlx.Tx, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := tx.GetContext(ctx, &order, `SELECT * FROM orders WHERE id = $1 FOR UPDATE`, orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("order repository: lock order %w", err)
	}
	return &order, nil
}

// CreateWithPayment размещает заказ и списывает его стоимость с баланса
// клиента одной транзакцией. Если передан slotID, слот бронируется здесь же:
// заказ без средств или без свободного слота не создаётся вовсе.
func (r *OrderRepository) CreateWithPayment(ctx context.Context, order *models.Order, slotID *uuid.UUID) (*models.Order, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	balance, err := lockBalance(ctx, tx, order.ClientID)
	if err != nil {
		return nil, err
	}
	if balance.Balance < order.Amount {
		return nil, ErrInsufficientFunds
	}

	var created models.Order
	err = tx.GetContext(ctx, &created, `
		INSERT INTO orders (client_id, provider_id, service_id, amount, budget_tier, requirements, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING *
	`, order.ClientID, order.ProviderID, order.ServiceID, order.Amount, order.BudgetTier, order.Requirements, models.OrderStatusPending)
	if err != nil {
		return nil, fmt.Errorf("order repository: create order %w", err)
	}

	_, err = insertLedgerEntry(ctx, tx, created.ClientID, &created.ID,
		models.TransactionKindPayment, -created.Amount, "Оплата заказа")
	if err != nil {
		return nil, err
	}

	if slotID != nil {
		if err := bookSlotTx(ctx, tx, *slotID, created.ID, created.ClientID, created.ProviderID); err != nil {
			return nil, err
		}
	}

	return &created, tx.Commit()
}

// Accept переводит заказ из ожидания в работу.
func (r *OrderRepository) Accept(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	order, err := lockOrder(ctx, tx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != models.OrderStatusPending {
		return nil, ErrInvalidStatus
	}

	var updated models.Order
	err = tx.GetContext(ctx, &updated, `
		UPDATE orders SET status = $2, accepted_at = NOW(), updated_at = NOW()
		WHERE id = $1
		RETURNING *
	`, orderID, models.OrderStatusAccepted)
	if err != nil {
		return nil, fmt.Errorf("order repository: accept %w", err)
	}

	return &updated, tx.Commit()
}

// RejectWithRefund отклоняет заказ и возвращает клиенту полную стоимость.
// Бронь слота, если была, снимается в той же транзакции.
func (r *OrderRepository) RejectWithRefund(ctx context.Context, orderID uuid.UUID, reason string) (*models.Order, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	order, err := lockOrder(ctx, tx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != models.OrderStatusPending {
		return nil, ErrInvalidStatus
	}

	var updated models.Order
	err = tx.GetContext(ctx, &updated, `
		UPDATE orders SET status = $2, rejection_reason = $3, rejected_at = NOW(), updated_at = NOW()
		WHERE id = $1
		RETURNING *
	`, orderID, models.OrderStatusRejected, reason)
	if err != nil {
		return nil, fmt.Errorf("order repository: reject %w", err)
	}

	if _, err := lockBalance(ctx, tx, order.ClientID); err != nil {
		return nil, err
	}
	_, err = insertLedgerEntry(ctx, tx, order.ClientID, &orderID,
		models.TransactionKindRefund, order.Amount, "Возврат средств за отклонённый заказ")
	if err != nil {
		return nil, err
	}

	if err := releaseSlotByOrderTx(ctx, tx, orderID); err != nil {
		return nil, err
	}

	return &updated, tx.Commit()
}

// CompleteWithPayout завершает заказ: исполнитель получает свою долю,
// комиссия зачисляется на счёт платформы, выпускается сертификат.
// Всё — одной транзакцией: частичное завершение невозможно.
func (r *OrderRepository) CompleteWithPayout(ctx context.Context, orderID uuid.UUID, providerShare, platformFee int64, platformUserID uuid.UUID, cert *models.Certificate) (*models.Order, *models.Certificate, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback()

	order, err := lockOrder(ctx, tx, orderID)
	if err != nil {
		return nil, nil, err
	}
	if order.Status != models.OrderStatusAccepted {
		return nil, nil, ErrInvalidStatus
	}

	var updated models.Order
	err = tx.GetContext(ctx, &updated, `
		UPDATE orders SET status = $2, completed_at = NOW(), updated_at = NOW()
		WHERE id = $1
		RETURNING *
	`, orderID, models.OrderStatusCompleted)
	if err != nil {
		return nil, nil, fmt.Errorf("order repository: complete %w", err)
	}

	if _, err := lockBalance(ctx, tx, order.ProviderID); err != nil {
		return nil, nil, err
	}
	_, err = insertLedgerEntry(ctx, tx, order.ProviderID, &orderID,
		models.TransactionKindPayout, providerShare, "Выплата за выполненный заказ")
	if err != nil {
		return nil, nil, err
	}

	if _, err := lockBalance(ctx, tx, platformUserID); err != nil {
		return nil, nil, err
	}
	_, err = insertLedgerEntry(ctx, tx, platformUserID, &orderID,
		models.TransactionKindFee, platformFee, "Комиссия платформы")
	if err != nil {
		return nil, nil, err
	}

	issued, err := insertCertificateTx(ctx, tx, cert)
	if err != nil {
		return nil, nil, err
	}

	return &updated, issued, tx.Commit()
}

// CancelWithRefund отменяет заказ по инициативе клиента с полным возвратом.
func (r *OrderRepository) CancelWithRefund(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	order, err := lockOrder(ctx, tx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != models.OrderStatusPending && order.Status != models.OrderStatusAccepted {
		return nil, ErrInvalidStatus
	}

	var updated models.Order
	err = tx.GetContext(ctx, &updated, `
		UPDATE orders SET status = $2, cancelled_at = NOW(), updated_at = NOW()
		WHERE id = $1
		RETURNING *
	`, orderID, models.OrderStatusCancelled)
	if err != nil {
		return nil, fmt.Errorf("order repository: cancel %w", err)
	}

	if _, err := lockBalance(ctx, tx, order.ClientID); err != nil {
		return nil, err
	}
	_, err = insertLedgerEntry(ctx, tx, order.ClientID, &orderID,
		models.TransactionKindRefund, order.Amount, "Возврат средств за отменённый заказ")
	if err != nil {
		return nil, err
	}

	if err := releaseSlotByOrderTx(ctx, tx, orderID); err != nil {
		return nil, err
	}

	return &updated, tx.Commit()
}

// GetByID возвращает заказ по идентификатору.
func (r *OrderRepository) GetByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	return common.GetByID[models.Order](ctx, r.db, "orders", orderID, ErrOrderNotFound)
}

// ListByClient возвращает заказы клиента, новые первыми.
func (r *OrderRepository) ListByClient(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.SelectContext(ctx, &orders, `
		SELECT * FROM orders WHERE client_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, clientID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("order repository: list by client %w", err)
	}
	return orders, nil
}

// ListByProvider возвращает заказы исполнителя, новые первыми.
func (r *OrderRepository) ListByProvider(ctx context.Context, providerID uuid.UUID, limit, offset int) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.SelectContext(ctx, &orders, `
		SELECT * FROM orders WHERE provider_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, providerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("order repository: list by provider %w", err)
	}
	return orders, nil
}
