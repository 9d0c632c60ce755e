package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	outboundapp "github.com/wms/backend/internal/application/outbound"
)

// PickingHandler handles pick list API endpoints
type PickingHandler struct {
	BaseHandler
	pickingService *outboundapp.PickingService
}

// NewPickingHandler creates a new PickingHandler
func NewPickingHandler(pickingService *outboundapp.PickingService) *PickingHandler {
	return &PickingHandler{
		pickingService: pickingService,
	}
}

// Create godoc
// @ID           createPickList
// @Summary      Create and allocate a pick list
// @Description  Allocate stock for every requested line, honoring reservations, named lots and the list's lot policy
// @Tags         picking
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        request body outboundapp.CreatePickListRequest true "Pick list"
// @Success      201 {object} APIResponse[outboundapp.PickListResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /pick-lists [post]
func (h *PickingHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req outboundapp.CreatePickListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	list, err := h.pickingService.CreatePickList(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, list)
}

// GetByID godoc
// @ID           getPickListById
// @Summary      Get pick list by ID
// @Tags         picking
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        id path string true "Pick list ID" format(uuid)
// @Success      200 {object} APIResponse[outboundapp.PickListResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /pick-lists/{id} [get]
func (h *PickingHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	listID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid pick list ID format")
		return
	}

	list, err := h.pickingService.GetPickList(c.Request.Context(), tenantID, listID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, list)
}

// List godoc
// @ID           listPickLists
// @Summary      List pick lists
// @Tags         picking
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        status query string false "Filter by status"
// @Param        warehouse_id query string false "Filter by warehouse ID" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]outboundapp.PickListResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /pick-lists [get]
func (h *PickingHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	filter, err := bindListFilter(c, "status", "warehouse_id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	lists, err := h.pickingService.ListPickLists(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, lists)
}

// Start godoc
// @ID           startPickList
// @Summary      Start a pick list
// @Tags         picking
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        id path string true "Pick list ID" format(uuid)
// @Success      200 {object} APIResponse[outboundapp.PickListResponse]
// @Failure      422 {object} ErrorResponse
// @Router       /pick-lists/{id}/start [post]
func (h *PickingHandler) Start(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	listID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid pick list ID format")
		return
	}

	list, err := h.pickingService.StartPickList(c.Request.Context(), tenantID, listID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, list)
}

// RecordPick godoc
// @ID           recordPick
// @Summary      Record a picked quantity
// @Description  Record the quantity physically picked for one line and post the stock movement
// @Tags         picking
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        id path string true "Pick list ID" format(uuid)
// @Param        line_id path string true "Pick line ID" format(uuid)
// @Param        request body outboundapp.RecordPickRequest true "Picked quantity"
// @Success      200 {object} APIResponse[outboundapp.PickListResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /pick-lists/{id}/lines/{line_id}/pick [post]
func (h *PickingHandler) RecordPick(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	listID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid pick list ID format")
		return
	}
	lineID, err := uuid.Parse(c.Param("line_id"))
	if err != nil {
		h.BadRequest(c, "Invalid pick line ID format")
		return
	}

	var req outboundapp.RecordPickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if req.PerformedBy == nil {
		if userID, err := getUserID(c); err == nil {
			req.PerformedBy = &userID
		}
	}

	list, err := h.pickingService.RecordPick(c.Request.Context(), tenantID, listID, lineID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, list)
}

// Complete godoc
// @ID           completePickList
// @Summary      Complete a pick list
// @Tags         picking
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        id path string true "Pick list ID" format(uuid)
// @Success      200 {object} APIResponse[outboundapp.PickListResponse]
// @Failure      422 {object} ErrorResponse
// @Router       /pick-lists/{id}/complete [post]
func (h *PickingHandler) Complete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	listID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid pick list ID format")
		return
	}

	list, err := h.pickingService.CompletePickList(c.Request.Context(), tenantID, listID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, list)
}

// Cancel godoc
// @ID           cancelPickList
// @Summary      Cancel a pick list
// @Description  Cancel the list and return every unpicked allocation to available stock
// @Tags         picking
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        id path string true "Pick list ID" format(uuid)
// @Success      200 {object} APIResponse[outboundapp.PickListResponse]
// @Failure      422 {object} ErrorResponse
// @Router       /pick-lists/{id}/cancel [post]
func (h *PickingHandler) Cancel(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	listID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid pick list ID format")
		return
	}

	list, err := h.pickingService.CancelPickList(c.Request.Context(), tenantID, listID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, list)
}
