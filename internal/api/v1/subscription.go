package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taktakmenu/platform/internal/api/dto"
	"github.com/taktakmenu/platform/internal/logger"
	"github.com/taktakmenu/platform/internal/service"
)

type SubscriptionHandler struct {
	service service.SubscriptionService
	log     *logger.Logger
}

func NewSubscriptionHandler(service service.SubscriptionService, log *logger.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{service: service, log: log}
}

// @Summary Change a tenant's plan
// @Description Ends the current subscription now and starts the new plan
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param subscription body dto.ChangeSubscriptionRequest true "Tenant and plan"
// @Success 201 {object} dto.SubscriptionResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Router /subscriptions/change [post]
func (h *SubscriptionHandler) ChangeSubscription(c *gin.Context) {
	var req dto.ChangeSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	resp, err := h.service.ChangeSubscription(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary Update a subscription
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Subscription ID"
// @Param subscription body dto.UpdateSubscriptionRequest true "Fields to change"
// @Success 200 {object} dto.SubscriptionResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /subscriptions/{id} [patch]
func (h *SubscriptionHandler) UpdateSubscription(c *gin.Context) {
	var req dto.UpdateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	resp, err := h.service.UpdateSubscription(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Disable a subscription
// @Tags Subscriptions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Subscription ID"
// @Success 200 {object} dto.SubscriptionResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /subscriptions/{id}/disable [patch]
func (h *SubscriptionHandler) DisableSubscription(c *gin.Context) {
	resp, err := h.service.DisableSubscription(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary List a tenant's subscriptions
// @Tags Subscriptions
// @Produce json
// @Security BearerAuth
// @Param tenant_id path string true "Tenant ID"
// @Success 200 {object} dto.ListSubscriptionsResponse
// @Failure 403 {object} ierr.ErrorResponse
// @Router /subscriptions/tenant/{tenant_id} [get]
func (h *SubscriptionHandler) ListByTenant(c *gin.Context) {
	resp, err := h.service.ListSubscriptionsByTenant(c.Request.Context(), c.Param("tenant_id"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Get a tenant's active subscription
// @Tags Subscriptions
// @Produce json
// @Security BearerAuth
// @Param tenant_id path string true "Tenant ID"
// @Success 200 {object} dto.ActiveSubscriptionResponse
// @Failure 403 {object} ierr.ErrorResponse
// @Router /subscriptions/tenant/{tenant_id}/active [get]
func (h *SubscriptionHandler) GetActive(c *gin.Context) {
	resp, err := h.service.GetActiveSubscription(c.Request.Context(), c.Param("tenant_id"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
