package models

import (
	"time"

	"github.com/google/uuid"
)

// Transaction представляет запись в журнале кошелька.
// Журнал append-only: записи никогда не изменяются и не удаляются,
// баланс пользователя — это сумма его транзакций. Сумма знаковая:
// списания отрицательные, зачисления положительные.
type Transaction struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	UserID      uuid.UUID  `db:"user_id" json:"user_id"`
	OrderID     *uuid.UUID `db:"order_id" json:"order_id,omitempty"`
	Kind        string     `db:"kind" json:"kind"`
	Amount      int64      `db:"amount" json:"amount"`
	Description *string    `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}

// WalletBalance — кэш баланса пользователя. Обновляется в той же
// транзакции БД, что и каждая запись журнала, и обязан сходиться с
// суммой журнала (см. WalletRepository.Reconcile).
type WalletBalance struct {
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	Balance   int64     `db:"balance" json:"balance"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
