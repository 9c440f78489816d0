package models

import (
	"time"

	"github.com/google/uuid"
)

// Order описывает заказ услуги. Сумма хранится в минорных единицах валюты.
// Заказ никогда не удаляется: терминальные статусы остаются в истории.
type Order struct {
	ID              uuid.UUID  `db:"id" json:"id"`
	ClientID        uuid.UUID  `db:"client_id" json:"client_id"`
	ProviderID      uuid.UUID  `db:"provider_id" json:"provider_id"`
	ServiceID       uuid.UUID  `db:"service_id" json:"service_id"`
	Amount          int64      `db:"amount" json:"amount"`
	BudgetTier      string     `db:"budget_tier" json:"budget_tier"`
	Requirements    *string    `db:"requirements" json:"requirements,omitempty"`
	Status          string     `db:"status" json:"status"`
	RejectionReason *string    `db:"rejection_reason" json:"rejection_reason,omitempty"`
	AcceptedAt      *time.Time `db:"accepted_at" json:"accepted_at,omitempty"`
	RejectedAt      *time.Time `db:"rejected_at" json:"rejected_at,omitempty"`
	CompletedAt     *time.Time `db:"completed_at" json:"completed_at,omitempty"`
	CancelledAt     *time.Time `db:"cancelled_at" json:"cancelled_at,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}

// IsTerminal сообщает, находится ли заказ в терминальном статусе.
func (o *Order) IsTerminal() bool {
	_, ok := TerminalOrderStatuses[o.Status]
	return ok
}
