package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taktakmenu/platform/internal/api/dto"
	ierr "github.com/taktakmenu/platform/internal/errors"
	"github.com/taktakmenu/platform/internal/logger"
	"github.com/taktakmenu/platform/internal/rest/middleware"
	"github.com/taktakmenu/platform/internal/service"
	"github.com/taktakmenu/platform/internal/types"
)

type TenantHandler struct {
	service service.TenantService
	log     *logger.Logger
}

func NewTenantHandler(service service.TenantService, log *logger.Logger) *TenantHandler {
	return &TenantHandler{service: service, log: log}
}

// @Summary Create a new tenant
// @Description Provisions the tenant, its administrator and a first subscription
// @Tags Tenants
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param tenant body dto.CreateTenantRequest true "Tenant details"
// @Success 201 {object} dto.TenantResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Router /tenants [post]
func (h *TenantHandler) CreateTenant(c *gin.Context) {
	var req dto.CreateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	resp, err := h.service.CreateTenant(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary Get a tenant
// @Tags Tenants
// @Produce json
// @Security BearerAuth
// @Param id path string true "Tenant ID"
// @Success 200 {object} dto.TenantResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /tenants/{id} [get]
func (h *TenantHandler) GetTenantByID(c *gin.Context) {
	resp, err := h.service.GetTenant(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Get a tenant by subdomain
// @Tags Tenants
// @Produce json
// @Security BearerAuth
// @Param subdomain path string true "Subdomain"
// @Success 200 {object} dto.TenantResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /tenants/subdomain/{subdomain} [get]
func (h *TenantHandler) GetTenantBySubdomain(c *gin.Context) {
	resp, err := h.service.GetTenantBySubdomain(c.Request.Context(), c.Param("subdomain"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary List tenants
// @Tags Tenants
// @Produce json
// @Security BearerAuth
// @Param filter query types.TenantFilter false "Filter"
// @Success 200 {object} dto.ListTenantsResponse
// @Router /tenants [get]
func (h *TenantHandler) ListTenants(c *gin.Context) {
	var filter types.TenantFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		_ = c.Error(ierr.WithError(err).
			WithHint("Invalid filter parameters").
			Mark(ierr.ErrValidation))
		return
	}
	filter.QueryFilter = withDefaultPage(filter.QueryFilter)

	resp, err := h.service.ListTenants(c.Request.Context(), &filter)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Public tenant profile
// @Description Profile of the tenant addressed by subdomain. Requires an active subscription.
// @Tags Tenants
// @Produce json
// @Param X-Tenant-Subdomain header string false "Tenant subdomain"
// @Success 200 {object} dto.PublicTenantProfileResponse
// @Failure 403 {object} ierr.ErrorResponse
// @Router /tenants/public/profile [get]
func (h *TenantHandler) GetPublicProfile(c *gin.Context) {
	t, ok := middleware.ResolvedTenant(c)
	if !ok {
		_ = c.Error(ierr.NewError("tenant not resolved").
			WithHint("Tenant not found").
			Mark(ierr.ErrPermissionDenied))
		return
	}

	c.JSON(http.StatusOK, dto.NewPublicTenantProfileResponse(t))
}

// @Summary Update own tenant profile
// @Tags Tenants
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param profile body dto.UpdateTenantProfileRequest true "Profile fields"
// @Success 200 {object} dto.TenantResponse
// @Failure 403 {object} ierr.ErrorResponse
// @Router /tenants/profile [put]
func (h *TenantHandler) UpdateTenantProfile(c *gin.Context) {
	var req dto.UpdateTenantProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	resp, err := h.service.UpdateTenantProfile(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Update a tenant
// @Tags Tenants
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Tenant ID"
// @Param tenant body dto.UpdateTenantRequest true "Fields to change"
// @Success 200 {object} dto.TenantResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Router /tenants/{id} [put]
func (h *TenantHandler) UpdateTenant(c *gin.Context) {
	var req dto.UpdateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	resp, err := h.service.UpdateTenant(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Delete a tenant
// @Tags Tenants
// @Produce json
// @Security BearerAuth
// @Param id path string true "Tenant ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /tenants/{id} [delete]
func (h *TenantHandler) DeleteTenant(c *gin.Context) {
	if err := h.service.DeleteTenant(c.Request.Context(), c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "tenant deleted successfully"})
}
