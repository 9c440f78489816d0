package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skillverse/marketplace-backend/internal/dto"
	"github.com/skillverse/marketplace-backend/internal/http/handlers/common"
	"github.com/skillverse/marketplace-backend/internal/service"
)

type CatalogHandler struct {
	catalog *service.CatalogService
}

func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// Publish POST /services
func (h *CatalogHandler) Publish(c *gin.Context) {
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

	var req dto.ServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, "название, описание и цена обязательны")
		return
	}

	svc, err := h.catalog.Publish(c.Request.Context(), userID, role, service.ServiceInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, svc)
}

// Get GET /services/:id
func (h *CatalogHandler) Get(c *gin.Context) {
	serviceID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	svc, err := h.catalog.Get(c.Request.Context(), serviceID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, svc)
}

// Update PUT /services/:id
func (h *CatalogHandler) Update(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	serviceID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req dto.ServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, "название, описание и цена обязательны")
		return
	}

	svc, err := h.catalog.Update(c.Request.Context(), userID, serviceID, service.ServiceInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, svc)
}

// Unpublish DELETE /services/:id
func (h *CatalogHandler) Unpublish(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	serviceID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.catalog.Unpublish(c.Request.Context(), userID, serviceID); err != nil {
		c.Error(err)
		return
	}

	common.RespondSuccess(c, http.StatusOK, "услуга снята с публикации", nil)
}

// List GET /services
func (h *CatalogHandler) List(c *gin.Context) {
	limit, offset := common.GetPagination(c)
	category := c.Query("category")

	services, err := h.catalog.List(c.Request.Context(), category, limit, offset)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, services)
}

// ListByProvider GET /services/provider/:id
func (h *CatalogHandler) ListByProvider(c *gin.Context) {
	providerID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	limit, offset := common.GetPagination(c)

	services, err := h.catalog.ListByProvider(c.Request.Context(), providerID, limit, offset)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, services)
}
