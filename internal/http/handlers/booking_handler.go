package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skillverse/marketplace-backend/internal/dto"
	"github.com/skillverse/marketplace-backend/internal/http/handlers/common"
	"github.com/skillverse/marketplace-backend/internal/service"
)

type BookingHandler struct {
	bookings *service.BookingService
}

func NewBookingHandler(bookings *service.BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

// CreateSlots POST /slots
func (h *BookingHandler) CreateSlots(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}
	role, err := common.CurrentUserRole(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req dto.CreateSlotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, "время начала и окончания обязательны")
		return
	}

	slots, err := h.bookings.CreateSlots(c.Request.Context(), userID, role, service.CreateSlotsInput{
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		RecurWeeks: req.RecurWeeks,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, slots)
}

// ListSlots GET /slots/provider/:id
func (h *BookingHandler) ListSlots(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}
	role, err := common.CurrentUserRole(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	providerID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	slots, err := h.bookings.ListSlots(c.Request.Context(), providerID, userID, role)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, slots)
}

// DeleteSlot DELETE /slots/:id
func (h *BookingHandler) DeleteSlot(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}
	role, err := common.CurrentUserRole(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	slotID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.bookings.DeleteSlot(c.Request.Context(), userID, role, slotID); err != nil {
		c.Error(err)
		return
	}

	common.RespondSuccess(c, http.StatusOK, "слот удалён", nil)
}

// MyBookings GET /bookings/my
func (h *BookingHandler) MyBookings(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	limit, offset := common.GetPagination(c)

	bookings, err := h.bookings.MyBookings(c.Request.Context(), userID, limit, offset)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, bookings)
}
