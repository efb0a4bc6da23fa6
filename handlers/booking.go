package handlers

import (
	"net/http"

	"relocare/models"
	"relocare/services/booking"
	"relocare/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler serves the public booking form and the basic booking endpoints.
type BookingHandler struct {
	BookingSvc booking.BookingService
}

func NewBookingHandler(svc booking.BookingService) *BookingHandler {
	return &BookingHandler{BookingSvc: svc}
}

// CreateBooking handles POST /api/bookings.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var input models.BookingInput
	if !bindJSON(c, &input) {
		return
	}

	created, err := h.BookingSvc.CreateBooking(c.Request.Context(), input)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	getLogger(c).Info("booking created",
		zap.String("bookingId", created.BookingID),
		zap.String("serviceId", created.ServiceID),
	)
	c.JSON(http.StatusCreated, gin.H{
		"success":   true,
		"bookingId": created.BookingID,
		"booking":   created,
	})
}

// ListBookings handles GET /api/bookings[?status=].
func (h *BookingHandler) ListBookings(c *gin.Context) {
	filter := models.BookingStoreFilter{Status: models.BookingStatus(c.Query("status"))}
	if filter.Status == booking.StatusAll {
		filter.Status = ""
	}

	bookings, err := h.BookingSvc.ListBookings(c.Request.Context(), filter)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "bookings": bookings})
}

// GetBooking handles GET /api/bookings/:bookingId.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	b, err := h.BookingSvc.GetBooking(c.Request.Context(), c.Param("bookingId"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "booking": b})
}

// UpdateBookingStatus handles PUT /api/bookings/:bookingId. Only status,
// notes and details are accepted here.
func (h *BookingHandler) UpdateBookingStatus(c *gin.Context) {
	var patch models.BookingPatch
	if !bindJSON(c, &patch) {
		return
	}
	h.update(c, patch.StatusPatch())
}

func (h *BookingHandler) update(c *gin.Context, patch models.BookingPatch) {
	bookingID := c.Param("bookingId")
	updated, err := h.BookingSvc.UpdateBooking(c.Request.Context(), bookingID, patch)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	getLogger(c).Info("booking updated",
		zap.String("bookingId", bookingID),
		zap.String("status", string(updated.Status)),
	)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Booking updated successfully",
		"booking": updated,
	})
}

// DeleteBooking handles DELETE /api/bookings/:bookingId.
func (h *BookingHandler) DeleteBooking(c *gin.Context) {
	deleted, err := h.BookingSvc.DeleteBooking(c.Request.Context(), c.Param("bookingId"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	getLogger(c).Info("booking deleted", zap.String("bookingId", deleted.BookingID))
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "Booking deleted successfully",
		"bookingId": deleted.BookingID,
	})
}
