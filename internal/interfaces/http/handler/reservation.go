package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	ledgerapp "github.com/wms/backend/internal/application/ledger"
)

// ReservationHandler handles stock reservation API endpoints
type ReservationHandler struct {
	BaseHandler
	reservationService *ledgerapp.ReservationService
}

// NewReservationHandler creates a new ReservationHandler
func NewReservationHandler(reservationService *ledgerapp.ReservationService) *ReservationHandler {
	return &ReservationHandler{
		reservationService: reservationService,
	}
}

// ConsumeReservationRequest identifies who consumed a reservation
// @Description Request body for consuming a reservation
type ConsumeReservationRequest struct {
	PerformedBy *uuid.UUID `json:"performed_by"`
}

// Create godoc
// @ID           createReservation
// @Summary      Reserve stock
// @Description  Place a soft hold on available stock for a reference document
// @Tags         reservations
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        request body ledgerapp.CreateReservationRequest true "Reservation request"
// @Success      201 {object} APIResponse[ledgerapp.ReservationResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /reservations [post]
func (h *ReservationHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req ledgerapp.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	reservation, err := h.reservationService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, reservation)
}

// GetByID godoc
// @ID           getReservationById
// @Summary      Get reservation by ID
// @Tags         reservations
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        id path string true "Reservation ID" format(uuid)
// @Success      200 {object} APIResponse[ledgerapp.ReservationResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /reservations/{id} [get]
func (h *ReservationHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	reservationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid reservation ID format")
		return
	}

	reservation, err := h.reservationService.GetByID(c.Request.Context(), tenantID, reservationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, reservation)
}

// List godoc
// @ID           listReservations
// @Summary      List reservations
// @Tags         reservations
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        status query string false "Filter by status"
// @Param        item_id query string false "Filter by item ID" format(uuid)
// @Param        warehouse_id query string false "Filter by warehouse ID" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]ledgerapp.ReservationResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /reservations [get]
func (h *ReservationHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	filter, err := bindListFilter(c, "status", "item_id", "warehouse_id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	reservations, err := h.reservationService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, reservations)
}

// Release godoc
// @ID           releaseReservation
// @Summary      Release a reservation
// @Description  Return the held quantity to available stock
// @Tags         reservations
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        id path string true "Reservation ID" format(uuid)
// @Success      200 {object} APIResponse[ledgerapp.ReservationResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /reservations/{id}/release [post]
func (h *ReservationHandler) Release(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	reservationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid reservation ID format")
		return
	}

	reservation, err := h.reservationService.Release(c.Request.Context(), tenantID, reservationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, reservation)
}

// Consume godoc
// @ID           consumeReservation
// @Summary      Consume a reservation
// @Description  Issue the held quantity out of stock and close the reservation
// @Tags         reservations
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        id path string true "Reservation ID" format(uuid)
// @Param        request body ConsumeReservationRequest false "Consume request"
// @Success      200 {object} APIResponse[ledgerapp.ReservationResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /reservations/{id}/consume [post]
func (h *ReservationHandler) Consume(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	reservationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid reservation ID format")
		return
	}

	var req ConsumeReservationRequest
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

	reservation, err := h.reservationService.Consume(c.Request.Context(), tenantID, reservationID, req.PerformedBy)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, reservation)
}
