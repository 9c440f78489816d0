package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/skillverse/marketplace-backend/internal/dto"
	"github.com/skillverse/marketplace-backend/internal/http/handlers/common"
	"github.com/skillverse/marketplace-backend/internal/service"
)

type OrderHandler struct {
	orders *service.OrderService
}

func NewOrderHandler(orders *service.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// Place POST /orders
func (h *OrderHandler) Place(c *gin.Context) {
	userID, role, ok := h.actor(c)
	if !ok {
		return
	}

	var req dto.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, "service_id обязателен")
		return
	}

	order, err := h.orders.Place(c.Request.Context(), userID, role, service.PlaceOrderInput{
		ServiceID:    req.ServiceID,
		BudgetTier:   req.BudgetTier,
		Requirements: req.Requirements,
		SlotID:       req.SlotID,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, order)
}

// Accept POST /orders/:id/accept
func (h *OrderHandler) Accept(c *gin.Context) {
	userID, role, ok := h.actor(c)
	if !ok {
		return
	}

	orderID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	order, err := h.orders.Accept(c.Request.Context(), orderID, userID, role)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// Reject POST /orders/:id/reject
func (h *OrderHandler) Reject(c *gin.Context) {
	userID, role, ok := h.actor(c)
	if !ok {
		return
	}

	orderID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req dto.RejectOrderRequest
	// Тело без причины допускаем до сервиса: он вернёт понятную ошибку
	_ = c.ShouldBindJSON(&req)

	order, err := h.orders.Reject(c.Request.Context(), orderID, userID, role, req.Reason)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// Complete POST /orders/:id/complete
func (h *OrderHandler) Complete(c *gin.Context) {
	userID, role, ok := h.actor(c)
	if !ok {
		return
	}

	orderID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	order, cert, err := h.orders.Complete(c.Request.Context(), orderID, userID, role)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.OrderCompletedResponse{
		Order:       order,
		Certificate: cert,
	})
}

// Cancel POST /orders/:id/cancel
func (h *OrderHandler) Cancel(c *gin.Context) {
	userID, role, ok := h.actor(c)
	if !ok {
		return
	}

	orderID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	order, err := h.orders.Cancel(c.Request.Context(), orderID, userID, role)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// Get GET /orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	userID, role, ok := h.actor(c)
	if !ok {
		return
	}

	orderID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	order, err := h.orders.Get(c.Request.Context(), orderID, userID, role)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// ListMine GET /orders/my
func (h *OrderHandler) ListMine(c *gin.Context) {
	userID, role, ok := h.actor(c)
	if !ok {
		return
	}

	limit, offset := common.GetPagination(c)

	orders, err := h.orders.ListMine(c.Request.Context(), userID, role, limit, offset)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, orders)
}

// actor извлекает идентификатор и роль текущего пользователя.
func (h *OrderHandler) actor(c *gin.Context) (uuid.UUID, string, bool) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return uuid.Nil, "", false
	}
	role, err := common.CurrentUserRole(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return uuid.Nil, "", false
	}
	return userID, role, true
}
