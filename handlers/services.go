package handlers

import (
	"net/http"

	"relocare/models"
	"relocare/services/catalog"
	"relocare/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CatalogHandler serves services and sub-services, publicly and to admins.
type CatalogHandler struct {
	CatalogSvc catalog.CatalogService
}

func NewCatalogHandler(svc catalog.CatalogService) *CatalogHandler {
	return &CatalogHandler{CatalogSvc: svc}
}

// GetAvailableServices handles GET /api/services.
func (h *CatalogHandler) GetAvailableServices(c *gin.Context) {
	services, err := h.CatalogSvc.ListPublicServices(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "services": services})
}

// GetServiceByID handles GET /api/services/:id.
func (h *CatalogHandler) GetServiceByID(c *gin.Context) {
	svc, err := h.CatalogSvc.GetPublicService(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "service": svc})
}

// ListServices handles GET /api/admin/services.
func (h *CatalogHandler) ListServices(c *gin.Context) {
	services, err := h.CatalogSvc.ListServices(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "services": services})
}

func (h *CatalogHandler) GetService(c *gin.Context) {
	svc, err := h.CatalogSvc.GetService(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "service": svc})
}

func (h *CatalogHandler) CreateService(c *gin.Context) {
	var input models.ServiceInput
	if !bindJSON(c, &input) {
		return
	}
	svc, err := h.CatalogSvc.CreateService(c.Request.Context(), input)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	getLogger(c).Info("service created", zap.String("serviceId", svc.ID), zap.String("name", svc.Name))
	c.JSON(http.StatusCreated, gin.H{"success": true, "service": svc})
}

func (h *CatalogHandler) UpdateService(c *gin.Context) {
	var patch models.ServicePatch
	if !bindJSON(c, &patch) {
		return
	}
	svc, err := h.CatalogSvc.UpdateService(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "service": svc})
}

// DeleteService handles DELETE /api/admin/services/:id and cascades to sub-services.
func (h *CatalogHandler) DeleteService(c *gin.Context) {
	id := c.Param("id")
	removed, err := h.CatalogSvc.DeleteService(c.Request.Context(), id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	getLogger(c).Info("service deleted", zap.String("serviceId", id), zap.Int64("subServicesRemoved", removed))
	c.JSON(http.StatusOK, gin.H{
		"success":            true,
		"message":            "Service deleted successfully",
		"subServicesRemoved": removed,
	})
}

func (h *CatalogHandler) ListSubServices(c *gin.Context) {
	subs, err := h.CatalogSvc.ListSubServices(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "subServices": subs})
}

func (h *CatalogHandler) GetSubService(c *gin.Context) {
	sub, err := h.CatalogSvc.GetSubService(c.Request.Context(), c.Param("id"), c.Param("subId"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "subService": sub})
}

func (h *CatalogHandler) CreateSubService(c *gin.Context) {
	var input models.SubServiceInput
	if !bindJSON(c, &input) {
		return
	}
	sub, err := h.CatalogSvc.CreateSubService(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "subService": sub})
}

func (h *CatalogHandler) UpdateSubService(c *gin.Context) {
	var patch models.SubServicePatch
	if !bindJSON(c, &patch) {
		return
	}
	sub, err := h.CatalogSvc.UpdateSubService(c.Request.Context(), c.Param("id"), c.Param("subId"), patch)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "subService": sub})
}

func (h *CatalogHandler) DeleteSubService(c *gin.Context) {
	if err := h.CatalogSvc.DeleteSubService(c.Request.Context(), c.Param("id"), c.Param("subId")); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Sub-service deleted successfully"})
}

// SweepOrphanSubServices handles POST /api/admin/maintenance/orphan-sub-services.
func (h *CatalogHandler) SweepOrphanSubServices(c *gin.Context) {
	removed, err := h.CatalogSvc.SweepOrphanSubServices(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "removed": removed})
}
