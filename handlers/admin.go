package handlers

import (
	"net/http"
	"strconv"
	"time"

	"relocare/middleware"
	"relocare/models"
	"relocare/services/booking"
	"relocare/services/user"
	"relocare/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminHandler encapsulates the admin-only booking and user endpoints.
type AdminHandler struct {
	*BookingHandler
	UserService user.UserService
	// Location interprets dateFrom/dateTo filters.
	Location *time.Location
}

func NewAdminHandler(bookings booking.BookingService, users user.UserService, loc *time.Location) *AdminHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &AdminHandler{
		BookingHandler: NewBookingHandler(bookings),
		UserService:    users,
		Location:       loc,
	}
}

func queryInt(c *gin.Context, key string) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		utils.RespondError(c, utils.NewValidationError(key+" must be a positive integer", key))
		return 0, false
	}
	return n, true
}

// ListAdminBookings handles GET /api/admin/bookings.
func (ah *AdminHandler) ListAdminBookings(c *gin.Context) {
	spec, err := booking.ParseFilterSpec(
		c.Query("status"), c.Query("search"), c.Query("dateFrom"), c.Query("dateTo"), ah.Location)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	page, ok := queryInt(c, "page")
	if !ok {
		return
	}
	limit, ok := queryInt(c, "limit")
	if !ok {
		return
	}

	bookings, meta, err := ah.BookingSvc.SearchBookings(c.Request.Context(), spec, page, limit)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"bookings":   bookings,
		"pagination": meta,
	})
}

// GetBookingStats handles GET /api/admin/bookings/stats.
func (ah *AdminHandler) GetBookingStats(c *gin.Context) {
	stats, err := ah.BookingSvc.GetStats(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "stats": stats})
}

// UpdateAdminBooking handles PUT /api/admin/bookings/:bookingId, a full-field edit.
func (ah *AdminHandler) UpdateAdminBooking(c *gin.Context) {
	var patch models.BookingPatch
	if !bindJSON(c, &patch) {
		return
	}
	ah.update(c, patch)
}

// GetAllUsersHandler handles GET /api/admin/users.
func (ah *AdminHandler) GetAllUsersHandler(c *gin.Context) {
	users, err := ah.UserService.GetAllUsers(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "users": users})
}

// GetUserHandler handles GET /api/admin/users/:id.
func (ah *AdminHandler) GetUserHandler(c *gin.Context) {
	u, err := ah.UserService.GetUserByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": u})
}

// UpdateUserRoleHandler handles PUT /api/admin/users/:id/role.
func (ah *AdminHandler) UpdateUserRoleHandler(c *gin.Context) {
	var body struct {
		Role models.Role `json:"role"`
	}
	if !bindJSON(c, &body) {
		return
	}

	actorID := middleware.CurrentUserID(c)
	targetID := c.Param("id")
	updated, err := ah.UserService.UpdateRole(c.Request.Context(), actorID, targetID, body.Role)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	getLogger(c).Info("user role updated",
		zap.String("actor", actorID),
		zap.String("target", targetID),
		zap.String("role", string(updated.Role)),
	)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User role updated successfully",
		"user":    updated,
	})
}
