package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/skillverse/marketplace-backend/internal/goroutine"
	"github.com/skillverse/marketplace-backend/internal/logger"
	"github.com/skillverse/marketplace-backend/internal/models"
	"github.com/skillverse/marketplace-backend/internal/pkg/apperror"
	"github.com/skillverse/marketplace-backend/internal/repository"
	"github.com/skillverse/marketplace-backend/internal/repository/common"
	"github.com/skillverse/marketplace-backend/internal/validation"
)

// Имена событий жизненного цикла заказа для WebSocket уведомлений.
const (
	EventOrderPlaced    = "order.placed"
	EventOrderAccepted  = "order.accepted"
	EventOrderRejected  = "order.rejected"
	EventOrderCompleted = "order.completed"
	EventOrderCancelled = "order.cancelled"
)

// OrderRepository описывает зависимости OrderService от слоя хранилища.
type OrderRepository interface {
	CreateWithPayment(ctx context.Context, order *models.Order, slotID *uuid.UUID) (*models.Order, error)
	Accept(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	RejectWithRefund(ctx context.Context, orderID uuid.UUID, reason string) (*models.Order, error)
	CompleteWithPayout(ctx context.Context, orderID uuid.UUID, providerShare, platformFee int64, platformUserID uuid.UUID, cert *models.Certificate) (*models.Order, *models.Certificate, error)
	CancelWithRefund(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	GetByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	ListByClient(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]models.Order, error)
	ListByProvider(ctx context.Context, providerID uuid.UUID, limit, offset int) ([]models.Order, error)
}

// OrderCatalogRepository даёт доступ к каталогу услуг.
type OrderCatalogRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Service, error)
}

// OrderUserRepository даёт доступ к пользователям и служебному аккаунту платформы.
type OrderUserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetPlatformAccount(ctx context.Context) (*models.User, error)
}

// EventBroadcaster отправляет событие пользователю через WebSocket.
type EventBroadcaster interface {
	BroadcastToUser(userID uuid.UUID, event string, data any) error
}

// OrderService управляет жизненным циклом заказа: размещение с удержанием
// оплаты, принятие, отклонение с возвратом, завершение с выплатой и отмена.
type OrderService struct {
	orders     OrderRepository
	catalog    OrderCatalogRepository
	users      OrderUserRepository
	hub        EventBroadcaster
	maxRetries int
}

// PlaceOrderInput содержит данные для размещения заказа.
type PlaceOrderInput struct {
	ServiceID    uuid.UUID
	BudgetTier   string
	Requirements *string
	SlotID       *uuid.UUID
}

// NewOrderService создаёт сервис заказов. hub может быть nil,
// тогда события не отправляются.
func NewOrderService(orders OrderRepository, catalog OrderCatalogRepository, users OrderUserRepository, hub EventBroadcaster, maxRetries int) *OrderService {
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &OrderService{
		orders:     orders,
		catalog:    catalog,
		users:      users,
		hub:        hub,
		maxRetries: maxRetries,
	}
}

// withRetry повторяет транзакцию при ошибках сериализации Postgres
// и гонках на уникальных ограничениях. После исчерпания попыток
// возвращает ошибку временного конфликта, чтобы клиент повторил запрос сам.
func withRetry[T any](attempts int, fn func() (T, error)) (T, error) {
	var zero T
	var err error
	for i := 0; i < attempts; i++ {
		var v T
		v, err = fn()
		if err == nil {
			return v, nil
		}
		if !common.IsSerializationFailure(err) && !common.IsUniqueViolation(err) {
			return zero, err
		}
	}
	return zero, apperror.Wrap(err, apperror.ErrCodeTransientConflict, "операция временно недоступна, повторите попытку")
}

// Place размещает заказ: стоимость услуги с учётом тарифа списывается
// с баланса клиента и удерживается до исхода заказа.
func (s *OrderService) Place(ctx context.Context, clientID uuid.UUID, role string, in PlaceOrderInput) (*models.Order, error) {
	if !models.RoleCanPlaceOrder(role) {
		return nil, apperror.ErrRoleNotPermitted
	}

	svc, err := s.catalog.GetByID(ctx, in.ServiceID)
	if err != nil {
		if errors.Is(err, repository.ErrServiceNotFound) {
			return nil, apperror.ErrServiceNotFound
		}
		return nil, err
	}
	if !svc.IsActive {
		return nil, apperror.ErrServiceNotFound
	}
	if svc.ProviderID == clientID {
		return nil, apperror.New(apperror.ErrCodeValidation, "нельзя заказать собственную услугу")
	}

	tier := in.BudgetTier
	if tier == "" {
		tier = models.BudgetTierStandard
	}
	if _, ok := models.ValidBudgetTiers[tier]; !ok {
		return nil, apperror.New(apperror.ErrCodeValidation, "неизвестный тариф")
	}

	amount := models.TierAmount(svc.Price, tier)
	if amount <= 0 {
		return nil, apperror.ErrInvalidAmount
	}

	if err := validation.ValidateRequirements(in.Requirements); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	order := &models.Order{
		ClientID:     clientID,
		ProviderID:   svc.ProviderID,
		ServiceID:    svc.ID,
		Amount:       amount,
		BudgetTier:   tier,
		Requirements: in.Requirements,
	}

	created, err := withRetry(s.maxRetries, func() (*models.Order, error) {
		return s.orders.CreateWithPayment(ctx, order, in.SlotID)
	})
	if err != nil {
		return nil, s.mapOrderError(err)
	}

	s.emit(created.ProviderID, EventOrderPlaced, created)

	return created, nil
}

// Accept принимает заказ в работу. Доступно исполнителю заказа и админу.
func (s *OrderService) Accept(ctx context.Context, orderID, actorID uuid.UUID, role string) (*models.Order, error) {
	order, err := s.authorizeProviderAction(ctx, orderID, actorID, role)
	if err != nil {
		return nil, err
	}

	updated, err := withRetry(s.maxRetries, func() (*models.Order, error) {
		return s.orders.Accept(ctx, orderID)
	})
	if err != nil {
		return nil, s.mapOrderError(err)
	}

	s.emit(order.ClientID, EventOrderAccepted, updated)

	return updated, nil
}

// Reject отклоняет заказ с обязательной причиной и возвращает
// клиенту полную стоимость.
func (s *OrderService) Reject(ctx context.Context, orderID, actorID uuid.UUID, role, reason string) (*models.Order, error) {
	if err := validation.ValidateRejectionReason(reason); err != nil {
		return nil, apperror.ErrMissingReason
	}

	order, err := s.authorizeProviderAction(ctx, orderID, actorID, role)
	if err != nil {
		return nil, err
	}

	updated, err := withRetry(s.maxRetries, func() (*models.Order, error) {
		return s.orders.RejectWithRefund(ctx, orderID, reason)
	})
	if err != nil {
		return nil, s.mapOrderError(err)
	}

	s.emit(order.ClientID, EventOrderRejected, updated)

	return updated, nil
}

// Complete завершает заказ: исполнитель получает 90% суммы, платформа 10%,
// клиенту выпускается сертификат. Повторное завершение невозможно.
func (s *OrderService) Complete(ctx context.Context, orderID, actorID uuid.UUID, role string) (*models.Order, *models.Certificate, error) {
	order, err := s.authorizeProviderAction(ctx, orderID, actorID, role)
	if err != nil {
		return nil, nil, err
	}

	svc, err := s.catalog.GetByID(ctx, order.ServiceID)
	if err != nil {
		return nil, nil, err
	}

	platform, err := s.users.GetPlatformAccount(ctx)
	if err != nil {
		return nil, nil, err
	}

	split, err := SplitPayment(order.Amount)
	if err != nil {
		return nil, nil, err
	}

	type completeResult struct {
		order *models.Order
		cert  *models.Certificate
	}

	// Номер сертификата генерируется на каждую попытку заново, чтобы
	// коллизия cert_id не делала повтор бессмысленным.
	result, err := withRetry(s.maxRetries, func() (completeResult, error) {
		cert := &models.Certificate{
			CertID:     NewCertID(),
			OrderID:    order.ID,
			ClientID:   order.ClientID,
			ProviderID: order.ProviderID,
			SkillTitle: svc.Title,
		}
		updated, issued, err := s.orders.CompleteWithPayout(ctx, orderID, split.ProviderShare, split.PlatformFee, platform.ID, cert)
		return completeResult{order: updated, cert: issued}, err
	})
	if err != nil {
		return nil, nil, s.mapOrderError(err)
	}

	s.emit(order.ClientID, EventOrderCompleted, result.order)
	s.emit(order.ProviderID, EventOrderCompleted, result.order)

	return result.order, result.cert, nil
}

// Cancel отменяет заказ по инициативе клиента с полным возвратом средств.
func (s *OrderService) Cancel(ctx context.Context, orderID, actorID uuid.UUID, role string) (*models.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, s.mapOrderError(err)
	}
	if role != models.RoleAdmin && order.ClientID != actorID {
		return nil, apperror.ErrForbidden
	}

	updated, err := withRetry(s.maxRetries, func() (*models.Order, error) {
		return s.orders.CancelWithRefund(ctx, orderID)
	})
	if err != nil {
		return nil, s.mapOrderError(err)
	}

	s.emit(order.ProviderID, EventOrderCancelled, updated)

	return updated, nil
}

// Get возвращает заказ его участнику.
func (s *OrderService) Get(ctx context.Context, orderID, userID uuid.UUID, role string) (*models.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, s.mapOrderError(err)
	}
	if role != models.RoleAdmin && order.ClientID != userID && order.ProviderID != userID {
		return nil, apperror.ErrForbidden
	}
	return order, nil
}

// ListMine возвращает заказы пользователя в его текущей роли.
func (s *OrderService) ListMine(ctx context.Context, userID uuid.UUID, role string, limit, offset int) ([]models.Order, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	if role == models.RoleProvider {
		return s.orders.ListByProvider(ctx, userID, limit, offset)
	}
	return s.orders.ListByClient(ctx, userID, limit, offset)
}

// authorizeProviderAction проверяет, что действие над заказом выполняет
// его исполнитель или админ.
func (s *OrderService) authorizeProviderAction(ctx context.Context, orderID, actorID uuid.UUID, role string) (*models.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, s.mapOrderError(err)
	}
	if role != models.RoleAdmin && order.ProviderID != actorID {
		return nil, apperror.ErrForbidden
	}
	return order, nil
}

// mapOrderError переводит ошибки хранилища в ошибки уровня API.
func (s *OrderService) mapOrderError(err error) error {
	switch {
	case errors.Is(err, repository.ErrOrderNotFound):
		return apperror.ErrOrderNotFound
	case errors.Is(err, repository.ErrInvalidStatus):
		return apperror.ErrInvalidTransition
	case errors.Is(err, repository.ErrInsufficientFunds):
		return apperror.ErrInsufficientFunds
	case errors.Is(err, repository.ErrSlotTaken):
		return apperror.ErrSlotUnavailable
	case errors.Is(err, repository.ErrSlotNotFound):
		return apperror.ErrSlotNotFound
	case errors.Is(err, repository.ErrSlotNotOwned):
		return apperror.New(apperror.ErrCodeValidation, "слот принадлежит другому исполнителю")
	default:
		return err
	}
}

// emit отправляет событие пользователю, не блокируя основной поток.
func (s *OrderService) emit(userID uuid.UUID, event string, data any) {
	if s.hub == nil {
		return
	}
	goroutine.SafeGo(func() {
		if err := s.hub.BroadcastToUser(userID, event, data); err != nil && logger.Log != nil {
			logger.Log.WithFields(map[string]interface{}{
				"user_id": userID,
				"event":   event,
				"error":   err.Error(),
			}).Warn("order service: не удалось отправить событие")
		}
	})
}
