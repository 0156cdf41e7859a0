package booking

import (
	"errors"
	"net/http"
	"strconv"

	"bookable/internal/domain"
	"bookable/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes mounts slot queries and booking proposals; guests may
// call these without an account.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/listings/:id/slots", h.GetSlots)
	rg.POST("/bookings", h.ProposeBooking)
	rg.POST("/bookings/range", h.ProposeRangeBooking)
}

// RegisterProtectedRoutes mounts lifecycle transitions and booking lists,
// which need a known actor.
func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.POST("/bookings/:id/cancel", h.CancelBooking)
	rg.POST("/bookings/:id/confirm", h.ConfirmBooking)
	rg.POST("/bookings/:id/complete", h.CompleteBooking)
	rg.POST("/bookings/:id/no-show", h.MarkNoShow)
	rg.GET("/bookings/my", h.MyBookings)
	rg.GET("/bookings/provider", h.ProviderBookings)
}

func (h *Handler) GetSlots(c *gin.Context) {
	listingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid listing id")
		return
	}

	// Passed through raw; the service resolves the date in the listing's
	// timezone.
	slots, err := h.service.ComputeAvailableSlots(c.Request.Context(), listingID, c.Query("date"), c.Query("option"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"listing_id": listingID,
		"date":       c.Query("date"),
		"slots":      slots,
	})
}

func (h *Handler) ProposeBooking(c *gin.Context) {
	var req ProposeBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	h.fillCustomer(c, &req.Customer)

	if req.Recurrence != nil {
		result, err := h.service.ProposeRecurringBooking(c.Request.Context(), req)
		if err != nil {
			h.renderError(c, err)
			return
		}
		status := http.StatusCreated
		if result.FailedAt != nil && len(result.Created) == 0 {
			status = http.StatusConflict
		}
		response.Success(c, status, gin.H{"recurring": result})
		return
	}

	b, err := h.service.ProposeBooking(c.Request.Context(), req)
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"booking": b})
}

func (h *Handler) ProposeRangeBooking(c *gin.Context) {
	var req ProposeRangeBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	h.fillCustomer(c, &req.Customer)

	b, err := h.service.ProposeRangeBooking(c.Request.Context(), req)
	if err != nil {
		var rc *RangeConflictError
		if errors.As(err, &rc) {
			response.ErrorWithDetails(c, http.StatusConflict, "BOOKING_CONFLICT",
				"Requested range is not available", gin.H{
					"day":    rc.Day.Format("2006-01-02"),
					"reason": rc.Reason,
				})
			return
		}
		h.renderError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"booking": b})
}

func (h *Handler) CancelBooking(c *gin.Context) {
	var req CancelBookingRequest
	_ = c.ShouldBindJSON(&req)
	h.applyTransition(c, func(id int64, actor Actor) (*domain.Booking, error) {
		return h.service.CancelBooking(c.Request.Context(), id, actor, req.Reason)
	})
}

func (h *Handler) ConfirmBooking(c *gin.Context) {
	h.applyTransition(c, func(id int64, actor Actor) (*domain.Booking, error) {
		return h.service.ConfirmBooking(c.Request.Context(), id, actor)
	})
}

func (h *Handler) CompleteBooking(c *gin.Context) {
	h.applyTransition(c, func(id int64, actor Actor) (*domain.Booking, error) {
		return h.service.CompleteBooking(c.Request.Context(), id, actor)
	})
}

func (h *Handler) MarkNoShow(c *gin.Context) {
	h.applyTransition(c, func(id int64, actor Actor) (*domain.Booking, error) {
		return h.service.MarkNoShow(c.Request.Context(), id, actor)
	})
}

func (h *Handler) MyBookings(c *gin.Context) {
	userID := c.GetInt64("user_id")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	rows, err := h.service.ListCustomerBookings(c.Request.Context(), userID, limit, offset)
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bookings": rows})
}

func (h *Handler) ProviderBookings(c *gin.Context) {
	if c.GetString("role") != string(domain.RoleProvider) {
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Provider role required")
		return
	}
	rows, err := h.service.ListProviderBookings(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bookings": rows})
}

func (h *Handler) applyTransition(c *gin.Context, fn func(int64, Actor) (*domain.Booking, error)) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking id")
		return
	}
	actor := Actor{
		UserID: c.GetInt64("user_id"),
		Role:   domain.Role(c.GetString("role")),
	}
	b, err := fn(id, actor)
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

// fillCustomer derives the customer reference from the authenticated actor:
// a signed-in customer books as themselves, an anonymous caller books as a
// guest.
func (h *Handler) fillCustomer(c *gin.Context, ref *CustomerRef) {
	if userID := c.GetInt64("user_id"); userID != 0 {
		ref.UserID = &userID
	}
}

func (h *Handler) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidInterval):
		response.Error(c, http.StatusBadRequest, "INVALID_INTERVAL", "Invalid or past booking interval")
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request")
	case errors.Is(err, ErrConflict):
		response.Error(c, http.StatusConflict, "BOOKING_CONFLICT", "Interval is not available for the selected time")
	case errors.Is(err, ErrInvalidTransition):
		response.Error(c, http.StatusConflict, "INVALID_TRANSITION", "Booking status does not permit this change")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Not allowed for this booking")
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Listing or booking not found")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Operation failed")
	}
}
