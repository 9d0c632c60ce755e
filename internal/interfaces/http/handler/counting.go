package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	countingapp "github.com/wms/backend/internal/application/counting"
)

// CountingHandler handles cycle count and stock adjustment API endpoints
type CountingHandler struct {
	BaseHandler
	countingService *countingapp.CountingService
}

// NewCountingHandler creates a new CountingHandler
func NewCountingHandler(countingService *countingapp.CountingService) *CountingHandler {
	return &CountingHandler{
		countingService: countingService,
	}
}

// ===================== Cycle Counts =====================

// CreateCycleCount godoc
// @ID           createCycleCount
// @Summary      Create a cycle count
// @Description  Snapshot current stock positions into a count document
// @Tags         counting
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        request body countingapp.CreateCycleCountRequest true "Cycle count"
// @Success      201 {object} APIResponse[countingapp.CycleCountResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /cycle-counts [post]
func (h *CountingHandler) CreateCycleCount(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req countingapp.CreateCycleCountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	count, err := h.countingService.CreateCycleCount(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, count)
}

// GetCycleCount godoc
// @ID           getCycleCountById
// @Summary      Get cycle count by ID
// @Tags         counting
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        id path string true "Cycle count ID" format(uuid)
// @Success      200 {object} APIResponse[countingapp.CycleCountResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /cycle-counts/{id} [get]
func (h *CountingHandler) GetCycleCount(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	countID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid cycle count ID format")
		return
	}

	count, err := h.countingService.GetCycleCount(c.Request.Context(), tenantID, countID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, count)
}

// ListCycleCounts godoc
// @ID           listCycleCounts
// @Summary      List cycle counts
// @Tags         counting
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]countingapp.CycleCountResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /cycle-counts [get]
func (h *CountingHandler) ListCycleCounts(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	filter, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	counts, err := h.countingService.ListCycleCounts(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, counts)
}

// StartCounting godoc
// @ID           startCycleCount
// @Summary      Start counting
// @Tags         counting
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        id path string true "Cycle count ID" format(uuid)
// @Success      200 {object} APIResponse[countingapp.CycleCountResponse]
// @Failure      422 {object} ErrorResponse
// @Router       /cycle-counts/{id}/start [post]
func (h *CountingHandler) StartCounting(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	countID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid cycle count ID format")
		return
	}

	count, err := h.countingService.StartCounting(c.Request.Context(), tenantID, countID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, count)
}

// RecordCount godoc
// @ID           recordCount
// @Summary      Record a physical count for one line
// @Tags         counting
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        id path string true "Cycle count ID" format(uuid)
// @Param        line_id path string true "Count line ID" format(uuid)
// @Param        request body countingapp.RecordCountRequest true "Counted quantity"
// @Success      200 {object} APIResponse[countingapp.CycleCountResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /cycle-counts/{id}/lines/{line_id}/record [post]
func (h *CountingHandler) RecordCount(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	countID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid cycle count ID format")
		return
	}
	lineID, err := uuid.Parse(c.Param("line_id"))
	if err != nil {
		h.BadRequest(c, "Invalid count line ID format")
		return
	}

	var req countingapp.RecordCountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	count, err := h.countingService.RecordCount(c.Request.Context(), tenantID, countID, lineID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, count)
}

// SubmitCycleCount godoc
// @ID           submitCycleCount
// @Summary      Submit a cycle count for review
// @Description  Every line must be counted before the document can be submitted
// @Tags         counting
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        id path string true "Cycle count ID" format(uuid)
// @Success      200 {object} APIResponse[countingapp.CycleCountResponse]
// @Failure      422 {object} ErrorResponse
// @Router       /cycle-counts/{id}/submit [post]
func (h *CountingHandler) SubmitCycleCount(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	countID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid cycle count ID format")
		return
	}

	count, err := h.countingService.SubmitCycleCount(c.Request.Context(), tenantID, countID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, count)
}

// ApproveCycleCount godoc
// @ID           approveCycleCount
// @Summary      Approve a cycle count
// @Description  Apply every variance to stock and close the count
// @Tags         counting
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        id path string true "Cycle count ID" format(uuid)
// @Param        request body countingapp.CountDecisionRequest true "Decision"
// @Success      200 {object} APIResponse[countingapp.CycleCountResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /cycle-counts/{id}/approve [post]
func (h *CountingHandler) ApproveCycleCount(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	countID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid cycle count ID format")
		return
	}

	var req countingapp.CountDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	count, err := h.countingService.ApproveCycleCount(c.Request.Context(), tenantID, countID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, count)
}

// RejectCycleCount godoc
// @ID           rejectCycleCount
// @Summary      Reject a cycle count
// @Tags         counting
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        id path string true "Cycle count ID" format(uuid)
// @Param        request body countingapp.CountDecisionRequest true "Decision"
// @Success      200 {object} APIResponse[countingapp.CycleCountResponse]
// @Failure      422 {object} ErrorResponse
// @Router       /cycle-counts/{id}/reject [post]
func (h *CountingHandler) RejectCycleCount(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	countID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid cycle count ID format")
		return
	}

	var req countingapp.CountDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	count, err := h.countingService.RejectCycleCount(c.Request.Context(), tenantID, countID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, count)
}

// CancelCycleCount godoc
// @ID           cancelCycleCount
// @Summary      Cancel a cycle count
// @Tags         counting
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        id path string true "Cycle count ID" format(uuid)
// @Success      200 {object} APIResponse[countingapp.CycleCountResponse]
// @Failure      422 {object} ErrorResponse
// @Router       /cycle-counts/{id}/cancel [post]
func (h *CountingHandler) CancelCycleCount(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	countID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid cycle count ID format")
		return
	}

	count, err := h.countingService.CancelCycleCount(c.Request.Context(), tenantID, countID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, count)
}

// ===================== Stock Adjustments =====================

// RequestAdjustment godoc
// @ID           requestAdjustment
// @Summary      Request a manual stock adjustment
// @Description  Raise an adjustment that takes effect only once approved
// @Tags         counting
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        request body countingapp.RequestAdjustmentRequest true "Adjustment"
// @Success      201 {object} APIResponse[countingapp.AdjustmentResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /adjustments [post]
func (h *CountingHandler) RequestAdjustment(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req countingapp.RequestAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	adjustment, err := h.countingService.RequestAdjustment(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, adjustment)
}

// GetAdjustment godoc
// @ID           getAdjustmentById
// @Summary      Get adjustment by ID
// @Tags         counting
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        id path string true "Adjustment ID" format(uuid)
// @Success      200 {object} APIResponse[countingapp.AdjustmentResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /adjustments/{id} [get]
func (h *CountingHandler) GetAdjustment(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	adjustmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid adjustment ID format")
		return
	}

	adjustment, err := h.countingService.GetAdjustment(c.Request.Context(), tenantID, adjustmentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, adjustment)
}

// ListPendingAdjustments godoc
// @ID           listPendingAdjustments
// @Summary      List pending adjustments
// @Tags         counting
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]countingapp.AdjustmentResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /adjustments/pending [get]
func (h *CountingHandler) ListPendingAdjustments(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	filter, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	adjustments, err := h.countingService.ListPendingAdjustments(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, adjustments)
}

// ApproveAdjustment godoc
// @ID           approveAdjustment
// @Summary      Approve a stock adjustment
// @Description  Apply the adjustment to stock. The requester cannot approve their own adjustment.
// @Tags         counting
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        id path string true "Adjustment ID" format(uuid)
// @Param        request body countingapp.AdjustmentDecisionRequest true "Decision"
// @Success      200 {object} APIResponse[countingapp.AdjustmentResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /adjustments/{id}/approve [post]
func (h *CountingHandler) ApproveAdjustment(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	adjustmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid adjustment ID format")
		return
	}

	var req countingapp.AdjustmentDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	adjustment, err := h.countingService.ApproveAdjustment(c.Request.Context(), tenantID, adjustmentID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, adjustment)
}

// RejectAdjustment godoc
// @ID           rejectAdjustment
// @Summary      Reject a stock adjustment
// @Tags         counting
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        id path string true "Adjustment ID" format(uuid)
// @Param        request body countingapp.AdjustmentDecisionRequest true "Decision"
// @Success      200 {object} APIResponse[countingapp.AdjustmentResponse]
// @Failure      422 {object} ErrorResponse
// @Router       /adjustments/{id}/reject [post]
func (h *CountingHandler) RejectAdjustment(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	adjustmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid adjustment ID format")
		return
	}

	var req countingapp.AdjustmentDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	adjustment, err := h.countingService.RejectAdjustment(c.Request.Context(), tenantID, adjustmentID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, adjustment)
}
