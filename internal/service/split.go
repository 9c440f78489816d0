package service

import "github.com/skillverse/marketplace-backend/internal/pkg/apperror"

// Доли распределения оплаты: 90% исполнителю, 10% платформе.
const (
	ProviderShareNumerator = 90
	ShareDenominator       = 100
	PlatformFeePercent     = ShareDenominator - ProviderShareNumerator
)

// PaymentSplit — результат распределения суммы заказа.
type PaymentSplit struct {
	ProviderShare int64 `json:"provider_share"`
	PlatformFee   int64 `json:"platform_fee"`
}

// SplitPayment делит сумму заказа между исполнителем и платформой.
// Доля исполнителя округляется вниз, весь остаток уходит в комиссию,
// поэтому сумма частей всегда равна исходной сумме. Неположительная
// сумма делению не подлежит.
func SplitPayment(amount int64) (PaymentSplit, error) {
	if amount <= 0 {
		return PaymentSplit{}, apperror.ErrInvalidAmount
	}
	providerShare := amount * ProviderShareNumerator / ShareDenominator
	return PaymentSplit{
		ProviderShare: providerShare,
		PlatformFee:   amount - providerShare,
	}, nil
}
