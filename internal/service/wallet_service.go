package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/skillverse/marketplace-backend/internal/logger"
	"github.com/skillverse/marketplace-backend/internal/models"
	"github.com/skillverse/marketplace-backend/internal/pkg/apperror"
)

// WalletRepository описывает зависимости WalletService от слоя хранилища.
type WalletRepository interface {
	Deposit(ctx context.Context, userID uuid.UUID, amount int64, description string) (*models.Transaction, error)
	GetBalance(ctx context.Context, userID uuid.UUID) (*models.WalletBalance, error)
	ComputeBalance(ctx context.Context, userID uuid.UUID) (int64, error)
	Reconcile(ctx context.Context, userID uuid.UUID) (*models.WalletBalance, error)
	ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Transaction, error)
	ListOrderTransactions(ctx context.Context, userID, orderID uuid.UUID) ([]models.Transaction, error)
}

// WalletService инкапсулирует бизнес-логику кошелька.
type WalletService struct {
	repo WalletRepository
}

// NewWalletService создаёт сервис кошелька.
func NewWalletService(repo WalletRepository) *WalletService {
	return &WalletService{repo: repo}
}

// TopUp пополняет баланс пользователя. Служебному аккаунту платформы
// пополнение недоступно: его баланс растёт только за счёт комиссии.
func (s *WalletService) TopUp(ctx context.Context, userID uuid.UUID, role string, amount int64) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, apperror.ErrInvalidAmount
	}
	if !models.RoleCanTopUp(role) {
		return nil, apperror.ErrRoleNotPermitted
	}

	return s.repo.Deposit(ctx, userID, amount, "Пополнение баланса")
}

// GetBalance возвращает текущий баланс пользователя.
func (s *WalletService) GetBalance(ctx context.Context, userID uuid.UUID) (*models.WalletBalance, error) {
	return s.repo.GetBalance(ctx, userID)
}

// Reconcile пересчитывает баланс из журнала операций. Кэш баланса —
// производная величина, источником истины остаётся журнал. Расхождение
// кэша с журналом фиксируется в логе до пересчёта.
func (s *WalletService) Reconcile(ctx context.Context, userID uuid.UUID) (*models.WalletBalance, error) {
	cached, err := s.repo.GetBalance(ctx, userID)
	if err != nil {
		return nil, err
	}
	actual, err := s.repo.ComputeBalance(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cached.Balance != actual && logger.Log != nil {
		logger.Log.WithFields(map[string]interface{}{
			"user_id": userID,
			"cached":  cached.Balance,
			"actual":  actual,
		}).Warn("wallet service: кэш баланса разошёлся с журналом")
	}

	return s.repo.Reconcile(ctx, userID)
}

// History возвращает историю операций пользователя.
func (s *WalletService) History(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Transaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	return s.repo.ListTransactions(ctx, userID, limit, offset)
}

// OrderHistory возвращает операции пользователя по конкретному заказу.
func (s *WalletService) OrderHistory(ctx context.Context, userID, orderID uuid.UUID) ([]models.Transaction, error) {
	return s.repo.ListOrderTransactions(ctx, userID, orderID)
}
