package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/taktakmenu/platform/internal/api/dto"
	ierr "github.com/taktakmenu/platform/internal/errors"
	"github.com/taktakmenu/platform/internal/logger"
	"github.com/taktakmenu/platform/internal/service"
	"github.com/taktakmenu/platform/internal/types"
)

type PlanHandler struct {
	service service.PlanService
	log     *logger.Logger
}

func NewPlanHandler(service service.PlanService, log *logger.Logger) *PlanHandler {
	return &PlanHandler{service: service, log: log}
}

// @Summary Create a new plan
// @Tags Plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param plan body dto.CreatePlanRequest true "Plan configuration"
// @Success 201 {object} dto.PlanResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Router /plans [post]
func (h *PlanHandler) CreatePlan(c *gin.Context) {
	var req dto.CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	resp, err := h.service.CreatePlan(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary Get a plan
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Param id path string true "Plan ID"
// @Success 200 {object} dto.PlanResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /plans/{id} [get]
func (h *PlanHandler) GetPlan(c *gin.Context) {
	resp, err := h.service.GetPlan(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary List plans
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Param filter query types.PlanFilter false "Filter"
// @Success 200 {object} dto.ListPlansResponse
// @Router /plans [get]
func (h *PlanHandler) ListPlans(c *gin.Context) {
	var filter types.PlanFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		_ = c.Error(ierr.WithError(err).
			WithHint("Invalid filter parameters").
			Mark(ierr.ErrValidation))
		return
	}
	filter.QueryFilter = withDefaultPage(filter.QueryFilter)

	resp, err := h.service.ListPlans(c.Request.Context(), &filter)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary List public plans
// @Description Plans shown on the pricing page, cheapest first
// @Tags Plans
// @Produce json
// @Param include_archived query bool false "Include archived plans"
// @Success 200 {array} dto.PlanResponse
// @Router /plans/public [get]
func (h *PlanHandler) ListPublicPlans(c *gin.Context) {
	includeArchived, _ := strconv.ParseBool(c.Query("include_archived"))

	resp, err := h.service.ListPublicPlans(c.Request.Context(), includeArchived)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Update a plan
// @Tags Plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Plan ID"
// @Param plan body dto.UpdatePlanRequest true "Fields to change"
// @Success 200 {object} dto.PlanResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Router /plans/{id} [put]
func (h *PlanHandler) UpdatePlan(c *gin.Context) {
	var req dto.UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	resp, err := h.service.UpdatePlan(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Delete a plan
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Param id path string true "Plan ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Router /plans/{id} [delete]
func (h *PlanHandler) DeletePlan(c *gin.Context) {
	if err := h.service.DeletePlan(c.Request.Context(), c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "plan deleted successfully"})
}

// @Summary Archive or unarchive a plan
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Param id path string true "Plan ID"
// @Success 200 {object} dto.PlanResponse
// @Router /plans/{id}/archive [post]
func (h *PlanHandler) ToggleArchive(c *gin.Context) {
	resp, err := h.service.ToggleArchive(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Plan statistics
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.PlanStatisticsResponse
// @Router /plans/statistics [get]
func (h *PlanHandler) GetStatistics(c *gin.Context) {
	resp, err := h.service.GetStatistics(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
