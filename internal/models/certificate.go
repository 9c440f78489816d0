package models

import (
	"time"

	"github.com/google/uuid"
)

// Certificate описывает сертификат о выполненном заказе.
// Выпускается ровно один раз на заказ и после выпуска неизменяем.
type Certificate struct {
	ID         uuid.UUID `db:"id" json:"id"`
	CertID     string    `db:"cert_id" json:"cert_id"`
	OrderID    uuid.UUID `db:"order_id" json:"order_id"`
	ClientID   uuid.UUID `db:"client_id" json:"client_id"`
	ProviderID uuid.UUID `db:"provider_id" json:"provider_id"`
	SkillTitle string    `db:"skill_title" json:"skill_title"`
	IssuedAt   time.Time `db:"issued_at" json:"issued_at"`
}

// CertificateVerification — публичный ответ проверки сертификата.
// Содержит только данные самого сертификата, без деталей заказа.
type CertificateVerification struct {
	Valid        bool      `json:"valid"`
	CertID       string    `json:"cert_id"`
	SkillTitle   string    `json:"skill_title"`
	ClientName   string    `json:"client_name"`
	ProviderName string    `json:"provider_name"`
	IssuedAt     time.Time `json:"issued_at"`
}
