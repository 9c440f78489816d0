package models

import (
	"time"

	"github.com/google/uuid"
)

// AvailabilitySlot описывает окно времени, открытое исполнителем для записи.
type AvailabilitySlot struct {
	ID         uuid.UUID `db:"id" json:"id"`
	ProviderID uuid.UUID `db:"provider_id" json:"provider_id"`
	StartTime  time.Time `db:"start_time" json:"start_time"`
	EndTime    time.Time `db:"end_time" json:"end_time"`
	IsBooked   bool      `db:"is_booked" json:"is_booked"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// Booking связывает занятый слот с заказом. На слот допускается
// не более одного активного бронирования.
type Booking struct {
	ID        uuid.UUID `db:"id" json:"id"`
	SlotID    uuid.UUID `db:"slot_id" json:"slot_id"`
	OrderID   uuid.UUID `db:"order_id" json:"order_id"`
	ClientID  uuid.UUID `db:"client_id" json:"client_id"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
