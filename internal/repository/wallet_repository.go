package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/skillverse/marketplace-backend/internal/models"
)

var ErrInsufficientFunds = errors.New("insufficient funds")

type WalletRepository struct {
	db *sqlx.DB
}

func NewWalletRepository(db *sqlx.DB) *WalletRepository {
	return &WalletRepository{db: db}
}

// lockBalance блокирует строку кэша баланса пользователя на время транзакции
// и возвращает её текущее значение. Строка создаётся при первом обращении.
func lockBalance(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID) (*models.WalletBalance, error) {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO wallet_balances (user_id, balance)
		VALUES ($1, 0)
		ON CONFLICT (user_id) DO NOTHING
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("wallet repository: ensure balance row %w", err)
	}

	var balance models.WalletBalance
	err = tx.GetContext(ctx, &balance, `
		SELECT user_id, balance, updated_at FROM wallet_balances
		WHERE user_id = $1 FOR UPDATE
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("wallet repository: lock balance %w", err)
	}
	return &balance, nil
}

// insertLedgerEntry добавляет запись в журнал и двигает кэш баланса
// в той же транзакции. Журнал только растёт, записи не изменяются.
func insertLedgerEntry(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, orderID *uuid.UUID, kind string, amount int64, description string) (*models.Transaction, error) {
	var transaction models.Transaction
	err := tx.GetContext(ctx, &transaction, `
		INSERT INTO wallet_transactions (user_id, order_id, kind, amount, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, order_id, kind, amount, description, created_at
	`, userID, orderID, kind, amount, description)
	if err != nil {
		return nil, fmt.Errorf("wallet repository: insert ledger entry %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE wallet_balances SET balance = balance + $2, updated_at = NOW()
		WHERE user_id = $1
	`, userID, amount)
	if err != nil {
		return nil, fmt.Errorf("wallet repository: update balance cache %w", err)
	}

	return &transaction, nil
}

// Deposit пополняет баланс пользователя записью в журнал.
func (r *WalletRepository) Deposit(ctx context.Context, userID uuid.UUID, amount int64, description string) (*models.Transaction, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := lockBalance(ctx, tx, userID); err != nil {
		return nil, err
	}

	transaction, err := insertLedgerEntry(ctx, tx, userID, nil, models.TransactionKindDeposit, amount, description)
	if err != nil {
		return nil, err
	}

	return transaction, tx.Commit()
}

// GetBalance возвращает кэшированный баланс пользователя,
// создаёт нулевой при первом обращении.
func (r *WalletRepository) GetBalance(ctx context.Context, userID uuid.UUID) (*models.WalletBalance, error) {
	var balance models.WalletBalance
	query := `
		INSERT INTO wallet_balances (user_id, balance)
		VALUES ($1, 0)
		ON CONFLICT (user_id) DO UPDATE SET updated_at = wallet_balances.updated_at
		RETURNING user_id, balance, updated_at
	`
	if err := r.db.GetContext(ctx, &balance, query, userID); err != nil {
		return nil, fmt.Errorf("wallet repository: get balance %w", err)
	}
	return &balance, nil
}

// ComputeBalance считает баланс напрямую из журнала, минуя кэш.
func (r *WalletRepository) ComputeBalance(ctx context.Context, userID uuid.UUID) (int64, error) {
	var sum int64
	err := r.db.GetContext(ctx, &sum, `
		SELECT COALESCE(SUM(amount), 0) FROM wallet_transactions WHERE user_id = $1
	`, userID)
	if err != nil {
		return 0, fmt.Errorf("wallet repository: compute balance %w", err)
	}
	return sum, nil
}

// Reconcile пересчитывает кэш баланса из журнала и возвращает свежее значение.
func (r *WalletRepository) Reconcile(ctx context.Context, userID uuid.UUID) (*models.WalletBalance, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := lockBalance(ctx, tx, userID); err != nil {
		return nil, err
	}

	var balance models.WalletBalance
	err = tx.GetContext(ctx, &balance, `
		UPDATE wallet_balances SET
			balance = (SELECT COALESCE(SUM(amount), 0) FROM wallet_transactions WHERE user_id = $1),
			updated_at = NOW()
		WHERE user_id = $1
		RETURNING user_id, balance, updated_at
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("wallet repository: reconcile %w", err)
	}

	return &balance, tx.Commit()
}

// ListTransactions возвращает историю операций пользователя, новые первыми.
func (r *WalletRepository) ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := r.db.SelectContext(ctx, &transactions, `
		SELECT id, user_id, order_id, kind, amount, description, created_at
		FROM wallet_transactions WHERE user_id = $1
		ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("wallet repository: list transactions %w", err)
	}
	return transactions, nil
}

// ListOrderTransactions возвращает записи журнала пользователя по заказу.
func (r *WalletRepository) ListOrderTransactions(ctx context.Context, userID, orderID uuid.UUID) ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := r.db.SelectContext(ctx, &transactions, `
		SELECT id, user_id, order_id, kind, amount, description, created_at
		FROM wallet_transactions WHERE user_id = $1 AND order_id = $2
		ORDER BY created_at ASC, id ASC
	`, userID, orderID)
	if err != nil {
		return nil, fmt.Errorf("wallet repository: list order transactions %w", err)
	}
	return transactions, nil
}
