package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	catalogapp "github.com/wms/backend/internal/application/catalog"
)

// WarehouseHandler handles warehouse topology API endpoints
type WarehouseHandler struct {
	BaseHandler
	warehouseService *catalogapp.WarehouseService
}

// NewWarehouseHandler creates a new WarehouseHandler
func NewWarehouseHandler(warehouseService *catalogapp.WarehouseService) *WarehouseHandler {
	return &WarehouseHandler{
		warehouseService: warehouseService,
	}
}

// Create godoc
// @ID           createWarehouse
// @Summary      Create a warehouse
// @Description  Register a warehouse. The first warehouse of a tenant becomes the default.
// @Tags         warehouses
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        request body catalogapp.CreateWarehouseRequest true "Warehouse"
// @Success      201 {object} APIResponse[catalogapp.WarehouseResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /warehouses [post]
func (h *WarehouseHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req catalogapp.CreateWarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	warehouse, err := h.warehouseService.CreateWarehouse(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, warehouse)
}

// GetByID godoc
// @ID           getWarehouseById
// @Summary      Get warehouse by ID
// @Tags         warehouses
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        id path string true "Warehouse ID" format(uuid)
// @Success      200 {object} APIResponse[catalogapp.WarehouseResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /warehouses/{id} [get]
func (h *WarehouseHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	warehouseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid warehouse ID format")
		return
	}

	warehouse, err := h.warehouseService.GetWarehouse(c.Request.Context(), tenantID, warehouseID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, warehouse)
}

// List godoc
// @ID           listWarehouses
// @Summary      List warehouses
// @Tags         warehouses
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        search query string false "Search code or name"
// @Param        status query string false "Filter by status" Enums(active, inactive)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]catalogapp.WarehouseResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /warehouses [get]
func (h *WarehouseHandler) List(c *gin.Context) {
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

	warehouses, err := h.warehouseService.ListWarehouses(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, warehouses)
}

// Update godoc
// @ID           updateWarehouse
// @Summary      Update warehouse attributes
// @Tags         warehouses
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        id path string true "Warehouse ID" format(uuid)
// @Param        request body catalogapp.UpdateWarehouseRequest true "Changes"
// @Success      200 {object} APIResponse[catalogapp.WarehouseResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /warehouses/{id} [put]
func (h *WarehouseHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	warehouseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid warehouse ID format")
		return
	}

	var req catalogapp.UpdateWarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	warehouse, err := h.warehouseService.UpdateWarehouse(c.Request.Context(), tenantID, warehouseID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, warehouse)
}

// SetDefault godoc
// @ID           setDefaultWarehouse
// @Summary      Make a warehouse the tenant default
// @Description  Exactly one warehouse per tenant is the default. The previous default is demoted.
// @Tags         warehouses
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        id path string true "Warehouse ID" format(uuid)
// @Success      200 {object} APIResponse[catalogapp.WarehouseResponse]
// @Failure      422 {object} ErrorResponse
// @Router       /warehouses/{id}/default [post]
func (h *WarehouseHandler) SetDefault(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	warehouseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid warehouse ID format")
		return
	}

	warehouse, err := h.warehouseService.SetDefaultWarehouse(c.Request.Context(), tenantID, warehouseID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, warehouse)
}

// Activate godoc
// @ID           activateWarehouse
// @Summary      Activate a warehouse
// @Tags         warehouses
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        id path string true "Warehouse ID" format(uuid)
// @Success      200 {object} APIResponse[catalogapp.WarehouseResponse]
// @Failure      422 {object} ErrorResponse
// @Router       /warehouses/{id}/activate [post]
func (h *WarehouseHandler) Activate(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	warehouseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid warehouse ID format")
		return
	}

	warehouse, err := h.warehouseService.ActivateWarehouse(c.Request.Context(), tenantID, warehouseID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, warehouse)
}

// Deactivate godoc
// @ID           deactivateWarehouse
// @Summary      Deactivate a warehouse
// @Description  Deactivate a warehouse. The default warehouse cannot be deactivated.
// @Tags         warehouses
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        id path string true "Warehouse ID" format(uuid)
// @Success      200 {object} APIResponse[catalogapp.WarehouseResponse]
// @Failure      422 {object} ErrorResponse
// @Router       /warehouses/{id}/deactivate [post]
func (h *WarehouseHandler) Deactivate(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	warehouseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid warehouse ID format")
		return
	}

	warehouse, err := h.warehouseService.DeactivateWarehouse(c.Request.Context(), tenantID, warehouseID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, warehouse)
}

// CreateLocation godoc
// @ID           createLocation
// @Summary      Create a storage location
// @Description  Add a location to a warehouse. Location codes are unique within a warehouse.
// @Tags         warehouses
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        id path string true "Warehouse ID" format(uuid)
// @Param        request body catalogapp.CreateLocationRequest true "Location"
// @Success      201 {object} APIResponse[catalogapp.LocationResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /warehouses/{id}/locations [post]
func (h *WarehouseHandler) CreateLocation(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	warehouseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid warehouse ID format")
		return
	}

	var req catalogapp.CreateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	location, err := h.warehouseService.CreateLocation(c.Request.Context(), tenantID, warehouseID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, location)
}

// ListLocations godoc
// @ID           listLocations
// @Summary      List locations of a warehouse
// @Tags         warehouses
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        id path string true "Warehouse ID" format(uuid)
// @Success      200 {object} APIResponse[[]catalogapp.LocationResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /warehouses/{id}/locations [get]
func (h *WarehouseHandler) ListLocations(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	warehouseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid warehouse ID format")
		return
	}

	locations, err := h.warehouseService.ListLocations(c.Request.Context(), tenantID, warehouseID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, locations)
}

// CreateBin godoc
// @ID           createBin
// @Summary      Create a bin
// @Description  Add a bin to a location. Bin codes are unique within a location.
// @Tags         warehouses
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        id path string true "Location ID" format(uuid)
// @Param        request body catalogapp.CreateBinRequest true "Bin"
// @Success      201 {object} APIResponse[catalogapp.BinResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /locations/{id}/bins [post]
func (h *WarehouseHandler) CreateBin(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	locationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid location ID format")
		return
	}

	var req catalogapp.CreateBinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	bin, err := h.warehouseService.CreateBin(c.Request.Context(), tenantID, locationID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, bin)
}

// ListBins godoc
// @ID           listBins
// @Summary      List bins of a location
// @Tags         warehouses
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        id path string true "Location ID" format(uuid)
// @Success      200 {object} APIResponse[[]catalogapp.BinResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /locations/{id}/bins [get]
func (h *WarehouseHandler) ListBins(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	locationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid location ID format")
		return
	}

	bins, err := h.warehouseService.ListBins(c.Request.Context(), tenantID, locationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, bins)
}
