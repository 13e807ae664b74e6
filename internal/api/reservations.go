package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Domenick1991/tablebooking/internal/domain"
	"github.com/Domenick1991/tablebooking/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type ReservationHandler struct {
	service booking.BookingUseCase
}

type createReservationRequest struct {
	Diners   []string `json:"diners"`
	DinerIDs []int64  `json:"diner_ids"`
	Time     string   `json:"time"`
	TableID  int64    `json:"table_id"`
}

func NewReservationHandler(service booking.BookingUseCase) *ReservationHandler {
	return &ReservationHandler{service: service}
}

func (h *ReservationHandler) Register(router gin.IRouter) {
	router.POST("/create-reservation", h.create)
	router.DELETE("/delete-reservation/:id", h.cancel)
}

func (h *ReservationHandler) create(c *gin.Context) {
	var req createReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	at, err := parseTime(req.Time)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid time format"})
		return
	}

	res, err := h.service.CreateReservation(c.Request.Context(), booking.CreateReservationInput{
		DinerNames: req.Diners,
		DinerIDs:   req.DinerIDs,
		StartsAt:   at,
		TableID:    req.TableID,
	})
	if err != nil {
		var dinerConflict *domain.DinerConflictError
		switch {
		case errors.As(err, &dinerConflict):
			c.JSON(http.StatusBadRequest, gin.H{"error": dinerConflict.Error()})
		case errors.Is(err, domain.ErrTableConflict):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Table is not available for the selected time"})
		case errors.Is(err, domain.ErrTableNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Invalid table ID"})
		case errors.Is(err, domain.ErrDinerNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Invalid diner ID"})
		case errors.Is(err, domain.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Reservation created successfully",
		"reservation": res.String(),
	})
}

func (h *ReservationHandler) cancel(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Invalid reservation ID"})
		return
	}

	if _, err := h.service.CancelReservation(c.Request.Context(), id); err != nil {
		if errors.Is(err, domain.ErrReservationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Invalid reservation ID"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Reservation %d deleted successfully", id)})
}
