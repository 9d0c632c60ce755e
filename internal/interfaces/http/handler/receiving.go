package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	receivingapp "github.com/wms/backend/internal/application/receiving"
)

// ReceivingHandler handles purchase order, goods receipt and put-away API endpoints
type ReceivingHandler struct {
	BaseHandler
	receivingService *receivingapp.ReceivingService
}

// NewReceivingHandler creates a new ReceivingHandler
func NewReceivingHandler(receivingService *receivingapp.ReceivingService) *ReceivingHandler {
	return &ReceivingHandler{
		receivingService: receivingService,
	}
}

// ApprovePurchaseOrderRequest identifies the approver of a purchase order
// @Description Request body for approving a purchase order
type ApprovePurchaseOrderRequest struct {
	ApprovedBy *uuid.UUID `json:"approved_by"`
}

// AssignPutAwayBinRequest names the destination for a put-away line
// @Description Request body for directing a put-away line to a location or bin
type AssignPutAwayBinRequest struct {
	LocationID *uuid.UUID `json:"location_id"`
	BinID      *uuid.UUID `json:"bin_id"`
}

// CompletePutAwayItemRequest identifies who stored a put-away line
// @Description Request body for completing a put-away line
type CompletePutAwayItemRequest struct {
	PerformedBy *uuid.UUID `json:"performed_by"`
}

// ===================== Purchase Orders =====================

// CreatePurchaseOrder godoc
// @ID           createPurchaseOrder
// @Summary      Create a purchase order
// @Tags         receiving
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        request body receivingapp.CreatePurchaseOrderRequest true "Purchase order"
// @Success      201 {object} APIResponse[receivingapp.PurchaseOrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /purchase-orders [post]
func (h *ReceivingHandler) CreatePurchaseOrder(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req receivingapp.CreatePurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	po, err := h.receivingService.CreatePurchaseOrder(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, po)
}

// GetPurchaseOrder godoc
// @ID           getPurchaseOrderById
// @Summary      Get purchase order by ID
// @Tags         receiving
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        id path string true "Purchase order ID" format(uuid)
// @Success      200 {object} APIResponse[receivingapp.PurchaseOrderResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /purchase-orders/{id} [get]
func (h *ReceivingHandler) GetPurchaseOrder(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	poID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid purchase order ID format")
		return
	}

	po, err := h.receivingService.GetPurchaseOrder(c.Request.Context(), tenantID, poID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, po)
}

// ListPurchaseOrders godoc
// @ID           listPurchaseOrders
// @Summary      List purchase orders
// @Tags         receiving
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        status query string false "Filter by status"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]receivingapp.PurchaseOrderResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /purchase-orders [get]
func (h *ReceivingHandler) ListPurchaseOrders(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	filter, err := bindListFilter(c, "status")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	orders, err := h.receivingService.ListPurchaseOrders(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, orders)
}

// ApprovePurchaseOrder godoc
// @ID           approvePurchaseOrder
// @Summary      Approve a purchase order
// @Description  Move a draft order to approved so goods can be received against it
// @Tags         receiving
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        id path string true "Purchase order ID" format(uuid)
// @Param        request body ApprovePurchaseOrderRequest false "Approver"
// @Success      200 {object} APIResponse[receivingapp.PurchaseOrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /purchase-orders/{id}/approve [post]
func (h *ReceivingHandler) ApprovePurchaseOrder(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	poID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid purchase order ID format")
		return
	}

	var req ApprovePurchaseOrderRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BadRequest(c, err.Error())
			return
		}
	}
	approverID := uuid.Nil
	if req.ApprovedBy != nil {
		approverID = *req.ApprovedBy
	} else if userID, err := getUserID(c); err == nil {
		approverID = userID
	}
	if approverID == uuid.Nil {
		h.BadRequest(c, "Approver identity required")
		return
	}

	po, err := h.receivingService.ApprovePurchaseOrder(c.Request.Context(), tenantID, poID, approverID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, po)
}

// ClosePurchaseOrder godoc
// @ID           closePurchaseOrder
// @Summary      Close a purchase order
// @Description  Close an order so no further receipts can be posted against it
// @Tags         receiving
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        id path string true "Purchase order ID" format(uuid)
// @Success      200 {object} APIResponse[receivingapp.PurchaseOrderResponse]
// @Failure      422 {object} ErrorResponse
// @Router       /purchase-orders/{id}/close [post]
func (h *ReceivingHandler) ClosePurchaseOrder(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	poID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid purchase order ID format")
		return
	}

	po, err := h.receivingService.ClosePurchaseOrder(c.Request.Context(), tenantID, poID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, po)
}

// CancelPurchaseOrder godoc
// @ID           cancelPurchaseOrder
// @Summary      Cancel a purchase order
// @Tags         receiving
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        id path string true "Purchase order ID" format(uuid)
// @Success      200 {object} APIResponse[receivingapp.PurchaseOrderResponse]
// @Failure      422 {object} ErrorResponse
// @Router       /purchase-orders/{id}/cancel [post]
func (h *ReceivingHandler) CancelPurchaseOrder(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	poID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid purchase order ID format")
		return
	}

	po, err := h.receivingService.CancelPurchaseOrder(c.Request.Context(), tenantID, poID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, po)
}

// ===================== Goods Receipts =====================

// CreateGoodsReceipt godoc
// @ID           createGoodsReceipt
// @Summary      Create a draft goods receipt
// @Description  Record arriving goods, optionally against an approved purchase order
// @Tags         receiving
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        request body receivingapp.CreateGoodsReceiptRequest true "Goods receipt"
// @Success      201 {object} APIResponse[receivingapp.GoodsReceiptResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /receipts [post]
func (h *ReceivingHandler) CreateGoodsReceipt(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req receivingapp.CreateGoodsReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	receipt, err := h.receivingService.CreateGoodsReceipt(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, receipt)
}

// GetGoodsReceipt godoc
// @ID           getGoodsReceiptById
// @Summary      Get goods receipt by ID
// @Tags         receiving
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        id path string true "Goods receipt ID" format(uuid)
// @Success      200 {object} APIResponse[receivingapp.GoodsReceiptResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /receipts/{id} [get]
func (h *ReceivingHandler) GetGoodsReceipt(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	receiptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid goods receipt ID format")
		return
	}

	receipt, err := h.receivingService.GetGoodsReceipt(c.Request.Context(), tenantID, receiptID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, receipt)
}

// ListGoodsReceipts godoc
// @ID           listGoodsReceipts
// @Summary      List goods receipts
// @Tags         receiving
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        status query string false "Filter by status"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]receivingapp.GoodsReceiptResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /receipts [get]
func (h *ReceivingHandler) ListGoodsReceipts(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	filter, err := bindListFilter(c, "status")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	receipts, err := h.receivingService.ListGoodsReceipts(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, receipts)
}

// ConfirmGoodsReceipt godoc
// @ID           confirmGoodsReceipt
// @Summary      Confirm a goods receipt
// @Description  Post the receipt to stock and open a put-away task for its lines
// @Tags         receiving
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        id path string true "Goods receipt ID" format(uuid)
// @Param        request body receivingapp.ConfirmGoodsReceiptRequest true "Confirmation"
// @Success      200 {object} APIResponse[receivingapp.ConfirmReceiptResult]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /receipts/{id}/confirm [post]
func (h *ReceivingHandler) ConfirmGoodsReceipt(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	receiptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid goods receipt ID format")
		return
	}

	var req receivingapp.ConfirmGoodsReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.receivingService.ConfirmGoodsReceipt(c.Request.Context(), tenantID, receiptID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ===================== Put-Away Tasks =====================

// GetPutAwayTask godoc
// @ID           getPutAwayTaskById
// @Summary      Get put-away task by ID
// @Tags         receiving
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        id path string true "Put-away task ID" format(uuid)
// @Success      200 {object} APIResponse[receivingapp.PutAwayTaskResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /putaways/{id} [get]
func (h *ReceivingHandler) GetPutAwayTask(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid put-away task ID format")
		return
	}

	task, err := h.receivingService.GetPutAwayTask(c.Request.Context(), tenantID, taskID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, task)
}

// ListOpenPutAways godoc
// @ID           listOpenPutAways
// @Summary      List open put-away tasks
// @Tags         receiving
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]receivingapp.PutAwayTaskResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /putaways [get]
func (h *ReceivingHandler) ListOpenPutAways(c *gin.Context) {
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

	tasks, err := h.receivingService.ListOpenPutAways(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, tasks)
}

// StartPutAway godoc
// @ID           startPutAway
// @Summary      Start a put-away task
// @Tags         receiving
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        id path string true "Put-away task ID" format(uuid)
// @Success      200 {object} APIResponse[receivingapp.PutAwayTaskResponse]
// @Failure      422 {object} ErrorResponse
// @Router       /putaways/{id}/start [post]
func (h *ReceivingHandler) StartPutAway(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid put-away task ID format")
		return
	}

	task, err := h.receivingService.StartPutAway(c.Request.Context(), tenantID, taskID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, task)
}

// AssignPutAwayBin godoc
// @ID           assignPutAwayBin
// @Summary      Direct a put-away line to a location or bin
// @Tags         receiving
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        id path string true "Put-away task ID" format(uuid)
// @Param        line_id path string true "Put-away line ID" format(uuid)
// @Param        request body AssignPutAwayBinRequest true "Destination"
// @Success      200 {object} APIResponse[receivingapp.PutAwayTaskResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /putaways/{id}/items/{line_id}/bin [put]
func (h *ReceivingHandler) AssignPutAwayBin(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid put-away task ID format")
		return
	}
	lineID, err := uuid.Parse(c.Param("line_id"))
	if err != nil {
		h.BadRequest(c, "Invalid put-away line ID format")
		return
	}

	var req AssignPutAwayBinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	task, err := h.receivingService.AssignPutAwayBin(c.Request.Context(), tenantID, taskID, lineID, req.LocationID, req.BinID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, task)
}

// CompletePutAwayItem godoc
// @ID           completePutAwayItem
// @Summary      Complete one put-away line
// @Description  Move the line's quantity from the receiving dock to its assigned position
// @Tags         receiving
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        id path string true "Put-away task ID" format(uuid)
// @Param        line_id path string true "Put-away line ID" format(uuid)
// @Param        request body CompletePutAwayItemRequest false "Operator"
// @Success      200 {object} APIResponse[receivingapp.PutAwayTaskResponse]
// @Failure      422 {object} ErrorResponse
// @Router       /putaways/{id}/items/{line_id}/complete [post]
func (h *ReceivingHandler) CompletePutAwayItem(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid put-away task ID format")
		return
	}
	lineID, err := uuid.Parse(c.Param("line_id"))
	if err != nil {
		h.BadRequest(c, "Invalid put-away line ID format")
		return
	}

	var req CompletePutAwayItemRequest
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

	task, err := h.receivingService.CompletePutAwayItem(c.Request.Context(), tenantID, taskID, lineID, req.PerformedBy)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, task)
}

// CancelPutAway godoc
// @ID           cancelPutAway
// @Summary      Cancel a put-away task
// @Tags         receiving
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        id path string true "Put-away task ID" format(uuid)
// @Success      200 {object} APIResponse[receivingapp.PutAwayTaskResponse]
// @Failure      422 {object} ErrorResponse
// @Router       /putaways/{id}/cancel [post]
func (h *ReceivingHandler) CancelPutAway(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid put-away task ID format")
		return
	}

	task, err := h.receivingService.CancelPutAway(c.Request.Context(), tenantID, taskID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, task)
}
