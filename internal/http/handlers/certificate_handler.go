package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skillverse/marketplace-backend/internal/http/handlers/common"
	"github.com/skillverse/marketplace-backend/internal/service"
)

type CertificateHandler struct {
	certs *service.CertificateService
}

func NewCertificateHandler(certs *service.CertificateService) *CertificateHandler {
	return &CertificateHandler{certs: certs}
}

// Verify GET /certificates/verify/:certId
// Публичный эндпоинт, авторизация не требуется.
func (h *CertificateHandler) Verify(c *gin.Context) {
	result, err := h.certs.Verify(c.Request.Context(), c.Param("certId"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetByOrder GET /certificates/order/:id
func (h *CertificateHandler) GetByOrder(c *gin.Context) {
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

	orderID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	cert, err := h.certs.GetByOrder(c.Request.Context(), orderID, userID, role)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, cert)
}

// ListMine GET /certificates/my
func (h *CertificateHandler) ListMine(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	limit, offset := common.GetPagination(c)

	certs, err := h.certs.ListMine(c.Request.Context(), userID, limit, offset)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, certs)
}
