package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	transferapp "github.com/wms/backend/internal/application/transfer"
	"github.com/wms/backend/internal/domain/transfer"
)

// TransferHandler handles inventory transfer API endpoints
type TransferHandler struct {
	BaseHandler
	transferService *transferapp.TransferService
}

// NewTransferHandler creates a new TransferHandler
func NewTransferHandler(transferService *transferapp.TransferService) *TransferHandler {
	return &TransferHandler{
		transferService: transferService,
	}
}

// Create godoc
// @ID           createTransfer
// @Summary      Create an inventory transfer
// @Description  Draft a transfer moving stock between two warehouses
// @Tags         transfers
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        request body transferapp.CreateTransferRequest true "Transfer"
// @Success      201 {object} APIResponse[transferapp.TransferResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /transfers [post]
func (h *TransferHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req transferapp.CreateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	t, err := h.transferService.CreateTransfer(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, t)
}

// GetByID godoc
// @ID           getTransferById
// @Summary      Get transfer by ID
// @Tags         transfers
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        id path string true "Transfer ID" format(uuid)
// @Success      200 {object} APIResponse[transferapp.TransferResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /transfers/{id} [get]
func (h *TransferHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	transferID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid transfer ID format")
		return
	}

	t, err := h.transferService.GetTransfer(c.Request.Context(), tenantID, transferID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, t)
}

// List godoc
// @ID           listTransfers
// @Summary      List transfers
// @Tags         transfers
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        status query string false "Filter by status" Enums(DRAFT, SHIPPED, RECEIVED, CANCELLED)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]transferapp.TransferResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /transfers [get]
func (h *TransferHandler) List(c *gin.Context) {
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

	if status := c.Query("status"); status != "" {
		transfers, err := h.transferService.ListTransfersByStatus(
			c.Request.Context(), tenantID, transfer.TransferStatus(status), filter)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, transfers)
		return
	}

	transfers, err := h.transferService.ListTransfers(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, transfers)
}

// Ship godoc
// @ID           shipTransfer
// @Summary      Ship a transfer
// @Description  Issue stock from the source warehouse and put the transfer in transit
// @Tags         transfers
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        id path string true "Transfer ID" format(uuid)
// @Param        request body transferapp.ShipTransferRequest false "Operator"
// @Success      200 {object} APIResponse[transferapp.TransferResponse]
// @Failure      422 {object} ErrorResponse
// @Router       /transfers/{id}/ship [post]
func (h *TransferHandler) Ship(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	transferID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid transfer ID format")
		return
	}

	var req transferapp.ShipTransferRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BadRequest(c, err.Error())
			return
		}
	}
	if req.PerformedBy == nil {
		if userID, err := getUserID(c); err == nil {
			req.PerformedBy = &userID
		}
	}

	t, err := h.transferService.ShipTransfer(c.Request.Context(), tenantID, transferID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, t)
}

// Receive godoc
// @ID           receiveTransfer
// @Summary      Receive a transfer
// @Description  Receive in-transit stock into the destination warehouse
// @Tags         transfers
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        id path string true "Transfer ID" format(uuid)
// @Param        request body transferapp.ReceiveTransferRequest false "Operator"
// @Success      200 {object} APIResponse[transferapp.TransferResponse]
// @Failure      422 {object} ErrorResponse
// @Router       /transfers/{id}/receive [post]
func (h *TransferHandler) Receive(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	transferID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid transfer ID format")
		return
	}

	var req transferapp.ReceiveTransferRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BadRequest(c, err.Error())
			return
		}
	}
	if req.PerformedBy == nil {
		if userID, err := getUserID(c); err == nil {
			req.PerformedBy = &userID
		}
	}

	t, err := h.transferService.ReceiveTransfer(c.Request.Context(), tenantID, transferID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, t)
}

// Cancel godoc
// @ID           cancelTransfer
// @Summary      Cancel a draft transfer
// @Tags         transfers
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        id path string true "Transfer ID" format(uuid)
// @Success      200 {object} APIResponse[transferapp.TransferResponse]
// @Failure      422 {object} ErrorResponse
// @Router       /transfers/{id}/cancel [post]
func (h *TransferHandler) Cancel(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	transferID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid transfer ID format")
		return
	}

	t, err := h.transferService.CancelTransfer(c.Request.Context(), tenantID, transferID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, t)
}
