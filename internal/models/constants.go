package models

// Роли пользователей
const (
	RoleClient   = "client"
	RoleProvider = "provider"
	RoleAdmin    = "admin"
)

// OrderStatus константы статусов заказов
const (
	OrderStatusPending   = "pending"
	OrderStatusAccepted  = "accepted"
	OrderStatusRejected  = "rejected"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

// Типы транзакций кошелька
const (
	TransactionKindDeposit = "deposit"
	TransactionKindPayment = "payment"
	TransactionKindPayout  = "payout"
	TransactionKindFee     = "fee"
	TransactionKindRefund  = "refund"
)

// Статусы бронирований
const (
	BookingStatusActive    = "active"
	BookingStatusCancelled = "cancelled"
)

// Тарифы заказа. Итоговая цена = цена услуги × множитель тарифа.
const (
	BudgetTierBasic    = "basic"
	BudgetTierStandard = "standard"
	BudgetTierPremium  = "premium"
)

// ValidRoles список валидных ролей
var ValidRoles = map[string]struct{}{
	RoleClient:   {},
	RoleProvider: {},
	RoleAdmin:    {},
}

// ValidOrderStatuses список валидных статусов заказов
var ValidOrderStatuses = map[string]struct{}{
	OrderStatusPending:   {},
	OrderStatusAccepted:  {},
	OrderStatusRejected:  {},
	OrderStatusCompleted: {},
	OrderStatusCancelled: {},
}

// TerminalOrderStatuses статусы, из которых нет переходов.
var TerminalOrderStatuses = map[string]struct{}{
	OrderStatusRejected:  {},
	OrderStatusCompleted: {},
	OrderStatusCancelled: {},
}

// ValidTransactionKinds список валидных типов транзакций
var ValidTransactionKinds = map[string]struct{}{
	TransactionKindDeposit: {},
	TransactionKindPayment: {},
	TransactionKindPayout:  {},
	TransactionKindFee:     {},
	TransactionKindRefund:  {},
}

// ValidBudgetTiers список валидных тарифов
var ValidBudgetTiers = map[string]struct{}{
	BudgetTierBasic:    {},
	BudgetTierStandard: {},
	BudgetTierPremium:  {},
}

// RoleCanPlaceOrder проверяет, может ли роль оформлять заказы.
// Администратор исключён из заказов и пополнений на уровне бизнес-правила.
func RoleCanPlaceOrder(role string) bool {
	return role == RoleClient || role == RoleProvider
}

// RoleCanTopUp проверяет, может ли роль пополнять кошелёк.
func RoleCanTopUp(role string) bool {
	return role == RoleClient || role == RoleProvider
}

// TierAmount возвращает итоговую сумму заказа для тарифа (в минорных единицах).
// basic — скидка 20%, premium — наценка 50%, standard — базовая цена.
func TierAmount(basePrice int64, tier string) int64 {
	switch tier {
	case BudgetTierBasic:
		return basePrice * 8 / 10
	case BudgetTierPremium:
		return basePrice * 3 / 2
	default:
		return basePrice
	}
}
