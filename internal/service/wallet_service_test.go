package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/skillverse/marketplace-backend/internal/models"
	"github.com/skillverse/marketplace-backend/internal/pkg/apperror"
)

type mockWalletRepo struct {
	mock.Mock
}

func (m *mockWalletRepo) Deposit(ctx context.Context, userID uuid.UUID, amount int64, description string) (*models.Transaction, error) {
	args := m.Called(ctx, userID, amount, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

func (m *mockWalletRepo) GetBalance(ctx context.Context, userID uuid.UUID) (*models.WalletBalance, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WalletBalance), args.Error(1)
}

func (m *mockWalletRepo) ComputeBalance(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockWalletRepo) Reconcile(ctx context.Context, userID uuid.UUID) (*models.WalletBalance, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WalletBalance), args.Error(1)
}

func (m *mockWalletRepo) ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Transaction, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]models.Transaction), args.Error(1)
}

func (m *mockWalletRepo) ListOrderTransactions(ctx context.Context, userID, orderID uuid.UUID) ([]models.Transaction, error) {
	args := m.Called(ctx, userID, orderID)
	return args.Get(0).([]models.Transaction), args.Error(1)
}

func TestWalletService_TopUp_Success(t *testing.T) {
	repo := new(mockWalletRepo)
	svc := NewWalletService(repo)
	ctx := context.Background()
	userID := uuid.New()

	expected := &models.Transaction{ID: uuid.New(), Amount: 1000, Kind: models.TransactionKindDeposit}
	repo.On("Deposit", ctx, userID, int64(1000), "Пополнение баланса").Return(expected, nil)

	tx, err := svc.TopUp(ctx, userID, models.RoleClient, 1000)
	assert.NoError(t, err)
	assert.Equal(t, expected, tx)
	repo.AssertExpectations(t)
}

func TestWalletService_TopUp_InvalidAmount(t *testing.T) {
	repo := new(mockWalletRepo)
	svc := NewWalletService(repo)
	ctx := context.Background()
	userID := uuid.New()

	_, err := svc.TopUp(ctx, userID, models.RoleClient, 0)
	assert.ErrorIs(t, err, apperror.ErrInvalidAmount)

	_, err = svc.TopUp(ctx, userID, models.RoleClient, -100)
	assert.ErrorIs(t, err, apperror.ErrInvalidAmount)
}

func TestWalletService_TopUp_AdminNotPermitted(t *testing.T) {
	repo := new(mockWalletRepo)
	svc := NewWalletService(repo)
	ctx := context.Background()

	_, err := svc.TopUp(ctx, uuid.New(), models.RoleAdmin, 1000)
	assert.ErrorIs(t, err, apperror.ErrRoleNotPermitted)
	repo.AssertNotCalled(t, "Deposit")
}

func TestWalletService_GetBalance(t *testing.T) {
	repo := new(mockWalletRepo)
	svc := NewWalletService(repo)
	ctx := context.Background()
	userID := uuid.New()

	expected := &models.WalletBalance{UserID: userID, Balance: 2500}
	repo.On("GetBalance", ctx, userID).Return(expected, nil)

	balance, err := svc.GetBalance(ctx, userID)
	assert.NoError(t, err)
	assert.Equal(t, int64(2500), balance.Balance)
}

func TestWalletService_Reconcile(t *testing.T) {
	repo := new(mockWalletRepo)
	svc := NewWalletService(repo)
	ctx := context.Background()
	userID := uuid.New()

	// Кэш разошёлся с журналом: пересчёт возвращает значение из журнала
	repo.On("GetBalance", ctx, userID).Return(&models.WalletBalance{UserID: userID, Balance: 1000}, nil)
	repo.On("ComputeBalance", ctx, userID).Return(int64(900), nil)

	expected := &models.WalletBalance{UserID: userID, Balance: 900}
	repo.On("Reconcile", ctx, userID).Return(expected, nil)

	balance, err := svc.Reconcile(ctx, userID)
	assert.NoError(t, err)
	assert.Equal(t, expected, balance)
	repo.AssertExpectations(t)
}

func TestWalletService_OrderHistory(t *testing.T) {
	repo := new(mockWalletRepo)
	svc := NewWalletService(repo)
	ctx := context.Background()
	userID := uuid.New()
	orderID := uuid.New()

	expected := []models.Transaction{
		{ID: uuid.New(), Kind: models.TransactionKindPayment, Amount: -1000},
		{ID: uuid.New(), Kind: models.TransactionKindRefund, Amount: 1000},
	}
	repo.On("ListOrderTransactions", ctx, userID, orderID).Return(expected, nil)

	txs, err := svc.OrderHistory(ctx, userID, orderID)
	assert.NoError(t, err)
	assert.Len(t, txs, 2)
	assert.Equal(t, int64(0), txs[0].Amount+txs[1].Amount)
}

func TestWalletService_History_DefaultLimit(t *testing.T) {
	repo := new(mockWalletRepo)
	svc := NewWalletService(repo)
	ctx := context.Background()
	userID := uuid.New()

	repo.On("ListTransactions", ctx, userID, 20, 0).Return([]models.Transaction{}, nil)

	_, err := svc.History(ctx, userID, 0, -5)
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestWalletService_History(t *testing.T) {
	repo := new(mockWalletRepo)
	svc := NewWalletService(repo)
	ctx := context.Background()
	userID := uuid.New()

	expected := []models.Transaction{{ID: uuid.New()}, {ID: uuid.New()}}
	repo.On("ListTransactions", ctx, userID, 50, 10).Return(expected, nil)

	txs, err := svc.History(ctx, userID, 50, 10)
	assert.NoError(t, err)
	assert.Len(t, txs, 2)
}
