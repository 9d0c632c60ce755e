package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wms/backend/internal/domain/catalog"
)

// CreateItemRequest represents a request to create a new item
type CreateItemRequest struct {
	SKU           string `json:"sku" binding:"required,min=1,max=50"`
	Name          string `json:"name" binding:"required,min=1,max=200"`
	Description   string `json:"description" binding:"max=2000"`
	Barcode       string `json:"barcode" binding:"max=50"`
	Unit          string `json:"unit" binding:"required,min=1,max=20"`
	LotTracked    bool   `json:"lot_tracked"`
	SerialTracked bool   `json:"serial_tracked"`
}

// UpdateItemRequest represents a request to update an item
type UpdateItemRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=200"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	Barcode     *string `json:"barcode" binding:"omitempty,max=50"`
}

// SetReplenishmentRequest represents a request to set reorder parameters
type SetReplenishmentRequest struct {
	ReorderPoint decimal.Decimal `json:"reorder_point"`
	ReorderQty   decimal.Decimal `json:"reorder_qty"`
	LeadTimeDays int             `json:"lead_time_days" binding:"min=0"`
}

// ItemResponse represents an item in API responses
type ItemResponse struct {
	ID            uuid.UUID       `json:"id"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	Barcode       string          `json:"barcode,omitempty"`
	Unit          string          `json:"unit"`
	LotTracked    bool            `json:"lot_tracked"`
	SerialTracked bool            `json:"serial_tracked"`
	ReorderPoint  decimal.Decimal `json:"reorder_point"`
	ReorderQty    decimal.Decimal `json:"reorder_qty"`
	LeadTimeDays  int             `json:"lead_time_days"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	Version       int             `json:"version"`
}

// ToItemResponse converts an Item to an ItemResponse
func ToItemResponse(item *catalog.Item) ItemResponse {
	return ItemResponse{
		ID:            item.ID,
		SKU:           item.SKU,
		Name:          item.Name,
		Description:   item.Description,
		Barcode:       item.Barcode,
		Unit:          item.Unit,
		LotTracked:    item.LotTracked,
		SerialTracked: item.SerialTracked,
		ReorderPoint:  item.ReorderPoint,
		ReorderQty:    item.ReorderQty,
		LeadTimeDays:  item.LeadTimeDays,
		Status:        string(item.Status),
		CreatedAt:     item.CreatedAt,
		UpdatedAt:     item.UpdatedAt,
		Version:       item.Version,
	}
}

// ToItemResponses converts a slice of Items
func ToItemResponses(items []catalog.Item) []ItemResponse {
	responses := make([]ItemResponse, len(items))
	for i := range items {
		responses[i] = ToItemResponse(&items[i])
	}
	return responses
}

// ItemListResponse represents a paginated item list
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Total int64          `json:"total"`
}

// CreateWarehouseRequest represents a request to create a new warehouse
type CreateWarehouseRequest struct {
	Code    string `json:"code" binding:"required,min=1,max=50"`
	Name    string `json:"name" binding:"required,min=1,max=200"`
	Address string `json:"address"`
}

// UpdateWarehouseRequest represents a request to update a warehouse
type UpdateWarehouseRequest struct {
	Name    *string `json:"name" binding:"omitempty,min=1,max=200"`
	Address *string `json:"address"`
}

// CreateLocationRequest represents a request to create a location in a warehouse
type CreateLocationRequest struct {
	Code string `json:"code" binding:"required,min=1,max=50"`
	Name string `json:"name" binding:"required,min=1,max=200"`
}

// CreateBinRequest represents a request to create a bin in a location
type CreateBinRequest struct {
	Code string `json:"code" binding:"required,min=1,max=50"`
}

// WarehouseResponse represents a warehouse in API responses
type WarehouseResponse struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	IsDefault bool      `json:"is_default"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToWarehouseResponse converts a Warehouse to a WarehouseResponse
func ToWarehouseResponse(w *catalog.Warehouse) WarehouseResponse {
	return WarehouseResponse{
		ID:        w.ID,
		Code:      w.Code,
		Name:      w.Name,
		Status:    string(w.Status),
		IsDefault: w.IsDefault,
		Address:   w.Address,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}

// ToWarehouseResponses converts a slice of Warehouses
func ToWarehouseResponses(warehouses []catalog.Warehouse) []WarehouseResponse {
	responses := make([]WarehouseResponse, len(warehouses))
	for i := range warehouses {
		responses[i] = ToWarehouseResponse(&warehouses[i])
	}
	return responses
}

// LocationResponse represents a location in API responses
type LocationResponse struct {
	ID          uuid.UUID `json:"id"`
	WarehouseID uuid.UUID `json:"warehouse_id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Status      string    `json:"status"`
}

// ToLocationResponse converts a Location to a LocationResponse
func ToLocationResponse(l *catalog.Location) LocationResponse {
	return LocationResponse{
		ID:          l.ID,
		WarehouseID: l.WarehouseID,
		Code:        l.Code,
		Name:        l.Name,
		Status:      string(l.Status),
	}
}

// ToLocationResponses converts a slice of Locations
func ToLocationResponses(locations []catalog.Location) []LocationResponse {
	responses := make([]LocationResponse, len(locations))
	for i := range locations {
		responses[i] = ToLocationResponse(&locations[i])
	}
	return responses
}

// BinResponse represents a bin in API responses
type BinResponse struct {
	ID          uuid.UUID `json:"id"`
	WarehouseID uuid.UUID `json:"warehouse_id"`
	LocationID  uuid.UUID `json:"location_id"`
	Code        string    `json:"code"`
	Status      string    `json:"status"`
}

// ToBinResponse converts a Bin to a BinResponse
func ToBinResponse(b *catalog.Bin) BinResponse {
	return BinResponse{
		ID:          b.ID,
		WarehouseID: b.WarehouseID,
		LocationID:  b.LocationID,
		Code:        b.Code,
		Status:      string(b.Status),
	}
}

// ToBinResponses converts a slice of Bins
func ToBinResponses(bins []catalog.Bin) []BinResponse {
	responses := make([]BinResponse, len(bins))
	for i := range bins {
		responses[i] = ToBinResponse(&bins[i])
	}
	return responses
}
