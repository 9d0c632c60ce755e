package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	ledgerapp "github.com/wms/backend/internal/application/ledger"
	"github.com/wms/backend/internal/domain/ledger"
)

// StockHandler handles stock balance and movement API endpoints
type StockHandler struct {
	BaseHandler
	ledgerService *ledgerapp.LedgerService
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(ledgerService *ledgerapp.LedgerService) *StockHandler {
	return &StockHandler{
		ledgerService: ledgerService,
	}
}

// List godoc
// @ID           listStockLevels
// @Summary      List stock levels
// @Description  Retrieve a paginated list of stock balance rows with optional filtering
// @Tags         stock
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        warehouse_id query string false "Filter by warehouse ID" format(uuid)
// @Param        item_id query string false "Filter by item ID" format(uuid)
// @Param        lot_id query string false "Filter by lot ID" format(uuid)
// @Param        has_stock query boolean false "Only rows with on-hand quantity"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]ledgerapp.StockLevelResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Router       /stock [get]
func (h *StockHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	filter, err := bindListFilter(c, "warehouse_id", "item_id", "lot_id", "has_stock")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	levels, err := h.ledgerService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, levels)
}

// Lookup godoc
// @ID           lookupStockLevel
// @Summary      Look up one stock balance row
// @Description  Retrieve the stock row for an exact granularity key
// @Tags         stock
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        item_id query string true "Item ID" format(uuid)
// @Param        warehouse_id query string true "Warehouse ID" format(uuid)
// @Param        location_id query string false "Location ID" format(uuid)
// @Param        bin_id query string false "Bin ID" format(uuid)
// @Param        lot_id query string false "Lot ID" format(uuid)
// @Param        serial_id query string false "Serial ID" format(uuid)
// @Success      200 {object} APIResponse[ledgerapp.StockLevelResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /stock/lookup [get]
func (h *StockHandler) Lookup(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	itemID, err := uuid.Parse(c.Query("item_id"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}
	warehouseID, err := uuid.Parse(c.Query("warehouse_id"))
	if err != nil {
		h.BadRequest(c, "Invalid warehouse ID format")
		return
	}

	key := ledger.StockKey{
		TenantID:    tenantID,
		ItemID:      itemID,
		WarehouseID: warehouseID,
	}
	for query, target := range map[string]**uuid.UUID{
		"location_id": &key.LocationID,
		"bin_id":      &key.BinID,
		"lot_id":      &key.LotID,
		"serial_id":   &key.SerialID,
	} {
		if raw := c.Query(query); raw != "" {
			parsed, err := uuid.Parse(raw)
			if err != nil {
				h.BadRequest(c, "Invalid "+query+" format")
				return
			}
			*target = &parsed
		}
	}

	level, err := h.ledgerService.GetStockLevel(c.Request.Context(), key)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, level)
}

// ListByItem godoc
// @ID           listStockByItem
// @Summary      List stock rows for an item
// @Tags         stock
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        item_id path string true "Item ID" format(uuid)
// @Success      200 {object} APIResponse[[]ledgerapp.StockLevelResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /stock/items/{item_id} [get]
func (h *StockHandler) ListByItem(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	itemID, err := uuid.Parse(c.Param("item_id"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}

	levels, err := h.ledgerService.ListByItem(c.Request.Context(), tenantID, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, levels)
}

// GetAvailability godoc
// @ID           getItemAvailability
// @Summary      Get aggregated availability for an item in a warehouse
// @Description  Sums on-hand, reserved and allocated across every stock row
// @Tags         stock
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        item_id path string true "Item ID" format(uuid)
// @Param        warehouse_id query string true "Warehouse ID" format(uuid)
// @Success      200 {object} APIResponse[ledgerapp.ItemAvailabilityResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /stock/items/{item_id}/availability [get]
func (h *StockHandler) GetAvailability(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	itemID, err := uuid.Parse(c.Param("item_id"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}
	warehouseID, err := uuid.Parse(c.Query("warehouse_id"))
	if err != nil {
		h.BadRequest(c, "Invalid warehouse ID format")
		return
	}

	availability, err := h.ledgerService.GetItemAvailability(c.Request.Context(), tenantID, itemID, warehouseID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, availability)
}

// Receive godoc
// @ID           receiveStock
// @Summary      Receive stock
// @Description  Add stock to a balance row and append a transaction log entry
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        request body ledgerapp.ReceiveStockRequest true "Receive request"
// @Success      201 {object} APIResponse[ledgerapp.TransactionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /stock/receive [post]
func (h *StockHandler) Receive(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req ledgerapp.ReceiveStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	tx, err := h.ledgerService.Receive(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, tx)
}

// Issue godoc
// @ID           issueStock
// @Summary      Issue stock
// @Description  Remove stock from a balance row and append a transaction log entry
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        request body ledgerapp.IssueStockRequest true "Issue request"
// @Success      201 {object} APIResponse[ledgerapp.TransactionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /stock/issue [post]
func (h *StockHandler) Issue(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req ledgerapp.IssueStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	tx, err := h.ledgerService.Issue(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, tx)
}

// Adjust godoc
// @ID           adjustStock
// @Summary      Adjust stock to a counted quantity
// @Description  Set on-hand to the counted quantity and log the variance
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        request body ledgerapp.AdjustStockRequest true "Adjust request"
// @Success      201 {object} APIResponse[ledgerapp.TransactionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /stock/adjust [post]
func (h *StockHandler) Adjust(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req ledgerapp.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	tx, err := h.ledgerService.Adjust(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, tx)
}

// ListTransactions godoc
// @ID           listStockTransactions
// @Summary      Query the transaction log
// @Description  Retrieve transaction log entries filtered by item, warehouse, type or date range
// @Tags         stock
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        item_id query string false "Filter by item ID" format(uuid)
// @Param        warehouse_id query string false "Filter by warehouse ID" format(uuid)
// @Param        lot_id query string false "Filter by lot ID" format(uuid)
// @Param        type query string false "Filter by transaction type"
// @Param        source_type query string false "Filter by source document type"
// @Param        source_id query string false "Filter by source document ID"
// @Param        from query string false "Start date (inclusive)" format(date)
// @Param        to query string false "End date (exclusive)" format(date)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]ledgerapp.TransactionResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /stock/transactions [get]
func (h *StockHandler) ListTransactions(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var filter ledgerapp.TransactionListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	txs, total, err := h.ledgerService.QueryTransactions(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, txs, total, filter.Page, filter.PageSize)
}
