package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Domenick1991/tablebooking/internal/service/availability"
	"github.com/gin-gonic/gin"
)

type AvailabilityHandler struct {
	service availability.AvailabilityUseCase
}

func NewAvailabilityHandler(service availability.AvailabilityUseCase) *AvailabilityHandler {
	return &AvailabilityHandler{service: service}
}

func (h *AvailabilityHandler) Register(router gin.IRouter) {
	router.GET("/find-restaurant-availability", h.find)
}

func (h *AvailabilityHandler) find(c *gin.Context) {
	groupSize, err := strconv.Atoi(c.Query("group_size"))
	if err != nil || groupSize < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "group_size must be a positive integer"})
		return
	}

	at, err := parseTime(c.Query("time"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid time format"})
		return
	}

	filters := c.QueryArray("dietary_restrictions")

	tables, err := h.service.FindAvailable(c.Request.Context(), groupSize, at, filters)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, tables)
}

// parseTime accepts RFC3339 and the offset-less ISO form clients commonly
// send ("2024-05-01T19:30:00"); the latter is taken as UTC.
func parseTime(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02T15:04:05", value, time.UTC)
}
