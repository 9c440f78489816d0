package models

import (
	"time"

	"github.com/google/uuid"
)

// Review — отзыв клиента о выполненном заказе. Оставляется один раз
// на заказ и привязан одновременно к услуге и её исполнителю.
type Review struct {
	ID         uuid.UUID `db:"id" json:"id"`
	OrderID    uuid.UUID `db:"order_id" json:"order_id"`
	ServiceID  uuid.UUID `db:"service_id" json:"service_id"`
	ReviewerID uuid.UUID `db:"reviewer_id" json:"reviewer_id"`
	ProviderID uuid.UUID `db:"provider_id" json:"provider_id"`
	Rating     int       `db:"rating" json:"rating"`
	Comment    *string   `db:"comment" json:"comment,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// RatingSummary — агрегированный рейтинг услуги или исполнителя.
// Distribution заполняется только для услуг: количество отзывов
// по каждой оценке от 1 до 5.
type RatingSummary struct {
	Average      float64     `json:"average"`
	Count        int         `json:"count"`
	Distribution map[int]int `json:"distribution,omitempty"`
}
